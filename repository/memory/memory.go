package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository"
)

// Store is an in-memory implementation of the repository interfaces. It is
// safe for concurrent use and is primarily intended for tests and local
// development.
type Store struct {
	mu             sync.RWMutex
	users          map[string]domain.User
	usersByEmail   map[string]string
	requests       map[string]domain.FriendRequest
	chats          map[string]domain.Chat
	participations map[string]map[string]domain.ChatParticipation
	messages       map[string]domain.Message
	notifications  map[string]domain.Notification
}

var _ repository.UserRepository = (*Store)(nil)
var _ repository.ParticipationRepository = (*Store)(nil)
var _ repository.AccountRepository = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:          make(map[string]domain.User),
		usersByEmail:   make(map[string]string),
		requests:       make(map[string]domain.FriendRequest),
		chats:          make(map[string]domain.Chat),
		participations: make(map[string]map[string]domain.ChatParticipation),
		messages:       make(map[string]domain.Message),
		notifications:  make(map[string]domain.Notification),
	}
}

// UserRepository --------------------------------------------------------------

func (s *Store) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (s *Store) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (s *Store) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.usersByEmail[email]
	return ok, nil
}

func (s *Store) Create(_ context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Status == "" {
		user.Status = domain.UserStatusActive
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = *user
	s.usersByEmail[user.Email] = user.ID
	return nil
}

func (s *Store) Update(_ context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if original.Email != user.Email {
		delete(s.usersByEmail, original.Email)
		s.usersByEmail[user.Email] = user.ID
	}
	user.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = *user
	return nil
}

func (s *Store) SetPresence(_ context.Context, id string, online bool, lastSeen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.IsOnline = online
	user.LastSeen = lastSeen
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return nil
}

// FriendRequestRepository -----------------------------------------------------

func (s *Store) GetRequest(_ context.Context, id string) (*domain.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return &req, nil
}

func (s *Store) CreatePending(_ context.Context, req *domain.FriendRequest) error {
	if req == nil || req.SenderID == "" || req.ReceiverID == "" {
		return domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.requests {
		samePair := (existing.SenderID == req.SenderID && existing.ReceiverID == req.ReceiverID) ||
			(existing.SenderID == req.ReceiverID && existing.ReceiverID == req.SenderID)
		if !samePair {
			continue
		}
		switch existing.Status {
		case domain.FriendRequestAccepted:
			return domain.ErrAlreadyFriends
		case domain.FriendRequestPending:
			return domain.ErrRequestPending
		}
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = domain.FriendRequestPending
	req.CreatedAt = time.Now().UTC()
	s.requests[req.ID] = *req
	return nil
}

func (s *Store) Respond(_ context.Context, id string, status domain.FriendRequestStatus, respondedAt time.Time) (*domain.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if req.Status != domain.FriendRequestPending {
		return nil, domain.ErrRequestNotPending
	}
	req.Status = status
	req.RespondedAt = &respondedAt
	s.requests[id] = req
	return &req, nil
}

func (s *Store) ListFriends(_ context.Context, userID string) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var friends []domain.User
	for _, req := range s.requests {
		if req.Status != domain.FriendRequestAccepted || !req.Involves(userID) {
			continue
		}
		counterpart := req.Counterpart(userID)
		if _, dup := seen[counterpart]; dup {
			continue
		}
		seen[counterpart] = struct{}{}
		if user, ok := s.users[counterpart]; ok {
			friends = append(friends, user)
		}
	}
	return friends, nil
}

func (s *Store) ListPendingIncoming(_ context.Context, userID string) ([]domain.FriendRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var requests []domain.FriendRequest
	for _, req := range s.requests {
		if req.Status == domain.FriendRequestPending && req.ReceiverID == userID {
			requests = append(requests, req)
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

// ChatRepository --------------------------------------------------------------

func (s *Store) GetChat(_ context.Context, id string) (*domain.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chat, ok := s.chats[id]
	if !ok {
		return nil, domain.ErrChatNotFound
	}
	return &chat, nil
}

func (s *Store) CreateChat(_ context.Context, chat *domain.Chat, participants []domain.ChatParticipation) error {
	if chat == nil {
		return domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	s.chats[chat.ID] = *chat

	members := make(map[string]domain.ChatParticipation, len(participants))
	for i := range participants {
		p := &participants[i]
		p.ChatID = chat.ID
		p.JoinedAt = now
		members[p.UserID] = *p
	}
	s.participations[chat.ID] = members
	return nil
}

// ParticipationRepository -----------------------------------------------------

func (s *Store) Get(_ context.Context, chatID, userID string) (*domain.ChatParticipation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participations[chatID][userID]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	return &p, nil
}

func (s *Store) IsParticipant(_ context.Context, chatID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participations[chatID][userID]
	return ok && p.Status == domain.ParticipationActive, nil
}

func (s *Store) CountActive(_ context.Context, chatID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countActiveLocked(chatID, ""), nil
}

func (s *Store) CountActiveByRole(_ context.Context, chatID string, role domain.ParticipantRole) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countActiveLocked(chatID, role), nil
}

func (s *Store) ListActive(_ context.Context, chatID string) ([]domain.ChatParticipation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active []domain.ChatParticipation
	for _, p := range s.participations[chatID] {
		if p.Status == domain.ParticipationActive {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].JoinedAt.Before(active[j].JoinedAt)
	})
	return active, nil
}

func (s *Store) MarkLeft(_ context.Context, chatID, userID string, leftAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participations[chatID][userID]
	if !ok || p.Status != domain.ParticipationActive {
		return domain.ErrParticipantNotFound
	}
	if s.soleAdminLocked(chatID, userID) {
		return domain.ErrLastAdmin
	}
	p.Status = domain.ParticipationLeft
	p.LeftAt = &leftAt
	s.participations[chatID][userID] = p
	return nil
}

func (s *Store) SetRole(_ context.Context, chatID, userID string, role domain.ParticipantRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participations[chatID][userID]
	if !ok || p.Status != domain.ParticipationActive {
		return domain.ErrParticipantNotFound
	}
	p.Role = role
	s.participations[chatID][userID] = p
	return nil
}

// MessageRepository -----------------------------------------------------------

func (s *Store) CreateMessage(_ context.Context, msg *domain.Message) error {
	if msg == nil {
		return domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = time.Now().UTC()
	s.messages[msg.ID] = *msg
	return nil
}

func (s *Store) ListByChat(_ context.Context, chatID string, limit, offset int) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []domain.Message
	for _, msg := range s.messages {
		if msg.ChatID == chatID {
			messages = append(messages, msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	if offset >= len(messages) {
		return nil, nil
	}
	messages = messages[offset:]
	if limit > 0 && limit < len(messages) {
		messages = messages[:limit]
	}
	return messages, nil
}

func (s *Store) CountBySender(_ context.Context, senderID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, msg := range s.messages {
		if msg.SenderID == senderID {
			count++
		}
	}
	return count, nil
}

// MessageContents lists the stored content of the sender's messages. Test
// helper, not part of the repository contract.
func (s *Store) MessageContents(senderID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var contents []string
	for _, msg := range s.messages {
		if msg.SenderID == senderID {
			contents = append(contents, msg.Content)
		}
	}
	return contents
}

// NotificationRepository ------------------------------------------------------

func (s *Store) GetNotification(_ context.Context, id string) (*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	return &n, nil
}

func (s *Store) CreateNotification(_ context.Context, n *domain.Notification) error {
	if n == nil {
		return domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().UTC()
	s.notifications[n.ID] = *n
	return nil
}

func (s *Store) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notifications []domain.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			notifications = append(notifications, n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (s *Store) MarkRead(_ context.Context, id string, readAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	if n.IsRead {
		return nil
	}
	n.IsRead = true
	n.ReadAt = &readAt
	s.notifications[id] = n
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[id]; !ok {
		return domain.ErrNotificationNotFound
	}
	delete(s.notifications, id)
	return nil
}

func (s *Store) DeleteByUser(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteNotificationsLocked(userID), nil
}

// AccountRepository -----------------------------------------------------------

func (s *Store) SoleAdminChats(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chatIDs []string
	for chatID := range s.participations {
		if s.soleAdminLocked(chatID, userID) {
			chatIDs = append(chatIDs, chatID)
		}
	}
	sort.Strings(chatIDs)
	return chatIDs, nil
}

func (s *Store) SoftDelete(_ context.Context, p repository.SoftDeleteParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[p.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for chatID := range s.participations {
		if s.soleAdminLocked(chatID, p.UserID) {
			return domain.ErrLastAdmin
		}
	}

	delete(s.usersByEmail, user.Email)
	user.Status = domain.UserStatusDeleted
	user.IsOnline = false
	user.Email = p.TombstoneEmail
	user.Username = p.TombstoneUsername
	user.UpdatedAt = time.Now().UTC()
	s.users[p.UserID] = user
	s.usersByEmail[user.Email] = user.ID

	now := time.Now().UTC()
	for id, req := range s.requests {
		if req.Status == domain.FriendRequestPending && req.Involves(p.UserID) {
			req.Status = domain.FriendRequestCancelled
			req.RespondedAt = &now
			s.requests[id] = req
		}
	}
	for chatID, members := range s.participations {
		if part, ok := members[p.UserID]; ok && part.Status == domain.ParticipationActive {
			part.Status = domain.ParticipationLeft
			part.LeftAt = &now
			s.participations[chatID][p.UserID] = part
		}
	}
	for id, msg := range s.messages {
		if msg.SenderID == p.UserID {
			msg.Content = p.RedactedContent
			s.messages[id] = msg
		}
	}
	s.deleteNotificationsLocked(p.UserID)
	return nil
}

func (s *Store) HardDelete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for chatID := range s.participations {
		if s.soleAdminLocked(chatID, userID) {
			return domain.ErrLastAdmin
		}
	}

	s.deleteNotificationsLocked(userID)
	for id, msg := range s.messages {
		if msg.SenderID == userID {
			delete(s.messages, id)
		}
	}
	for _, members := range s.participations {
		delete(members, userID)
	}
	for id, req := range s.requests {
		if req.Involves(userID) {
			delete(s.requests, id)
		}
	}
	for chatID, chat := range s.chats {
		if chat.Type == domain.ChatTypePrivate && chat.CreatedBy == userID && len(s.participations[chatID]) <= 1 {
			delete(s.chats, chatID)
			delete(s.participations, chatID)
			for id, msg := range s.messages {
				if msg.ChatID == chatID {
					delete(s.messages, id)
				}
			}
		}
	}

	delete(s.usersByEmail, user.Email)
	delete(s.users, userID)
	return nil
}

// helpers ---------------------------------------------------------------------

func (s *Store) countActiveLocked(chatID string, role domain.ParticipantRole) int {
	count := 0
	for _, p := range s.participations[chatID] {
		if p.Status != domain.ParticipationActive {
			continue
		}
		if role != "" && p.Role != role {
			continue
		}
		count++
	}
	return count
}

// soleAdminLocked reports whether userID is the only ACTIVE ADMIN of a GROUP
// chat that still has other ACTIVE members.
func (s *Store) soleAdminLocked(chatID, userID string) bool {
	chat, ok := s.chats[chatID]
	if !ok || chat.Type != domain.ChatTypeGroup {
		return false
	}
	own, ok := s.participations[chatID][userID]
	if !ok || !own.IsActiveAdmin() {
		return false
	}
	others := false
	for id, p := range s.participations[chatID] {
		if id == userID || p.Status != domain.ParticipationActive {
			continue
		}
		others = true
		if p.Role == domain.RoleAdmin {
			return false
		}
	}
	return others
}

func (s *Store) deleteNotificationsLocked(userID string) int {
	removed := 0
	for id, n := range s.notifications {
		if n.UserID == userID {
			delete(s.notifications, id)
			removed++
		}
	}
	return removed
}
