package memory

import (
	"context"
	"time"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository"
)

// The friend-request, chat, message and notification interfaces all declare
// GetByID/Create, so the shared store exposes them through thin views.

// FriendRequests returns the store viewed as a FriendRequestRepository.
func (s *Store) FriendRequests() repository.FriendRequestRepository { return requestView{s} }

// Chats returns the store viewed as a ChatRepository.
func (s *Store) Chats() repository.ChatRepository { return chatView{s} }

// Messages returns the store viewed as a MessageRepository.
func (s *Store) Messages() repository.MessageRepository { return messageView{s} }

// Notifications returns the store viewed as a NotificationRepository.
func (s *Store) Notifications() repository.NotificationRepository { return notificationView{s} }

type requestView struct{ s *Store }

func (v requestView) GetByID(ctx context.Context, id string) (*domain.FriendRequest, error) {
	return v.s.GetRequest(ctx, id)
}

func (v requestView) CreatePending(ctx context.Context, req *domain.FriendRequest) error {
	return v.s.CreatePending(ctx, req)
}

func (v requestView) Respond(ctx context.Context, id string, status domain.FriendRequestStatus, respondedAt time.Time) (*domain.FriendRequest, error) {
	return v.s.Respond(ctx, id, status, respondedAt)
}

func (v requestView) ListFriends(ctx context.Context, userID string) ([]domain.User, error) {
	return v.s.ListFriends(ctx, userID)
}

func (v requestView) ListPendingIncoming(ctx context.Context, userID string) ([]domain.FriendRequest, error) {
	return v.s.ListPendingIncoming(ctx, userID)
}

type chatView struct{ s *Store }

func (v chatView) GetByID(ctx context.Context, id string) (*domain.Chat, error) {
	return v.s.GetChat(ctx, id)
}

func (v chatView) Create(ctx context.Context, chat *domain.Chat, participants []domain.ChatParticipation) error {
	return v.s.CreateChat(ctx, chat, participants)
}

type messageView struct{ s *Store }

func (v messageView) Create(ctx context.Context, msg *domain.Message) error {
	return v.s.CreateMessage(ctx, msg)
}

func (v messageView) ListByChat(ctx context.Context, chatID string, limit, offset int) ([]domain.Message, error) {
	return v.s.ListByChat(ctx, chatID, limit, offset)
}

func (v messageView) CountBySender(ctx context.Context, senderID string) (int, error) {
	return v.s.CountBySender(ctx, senderID)
}

type notificationView struct{ s *Store }

func (v notificationView) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	return v.s.GetNotification(ctx, id)
}

func (v notificationView) Create(ctx context.Context, n *domain.Notification) error {
	return v.s.CreateNotification(ctx, n)
}

func (v notificationView) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return v.s.ListByUser(ctx, userID)
}

func (v notificationView) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	return v.s.MarkRead(ctx, id, readAt)
}

func (v notificationView) Delete(ctx context.Context, id string) error {
	return v.s.Delete(ctx, id)
}

func (v notificationView) DeleteByUser(ctx context.Context, userID string) (int, error) {
	return v.s.DeleteByUser(ctx, userID)
}
