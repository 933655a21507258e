package membership

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository"
)

// Registry owns per-chat participation records and the admin-sufficiency
// invariant: a GROUP chat with active members never loses its last active
// admin.
type Registry struct {
	chats          repository.ChatRepository
	participations repository.ParticipationRepository
	logger         *zap.Logger
}

func New(chats repository.ChatRepository, participations repository.ParticipationRepository, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		chats:          chats,
		participations: participations,
		logger:         logger,
	}
}

// CreateChat persists a chat with its initial members. A PRIVATE chat takes
// exactly one other member besides the creator; participant counts are not
// re-checked afterwards. The creator of a GROUP chat joins as ADMIN.
func (r *Registry) CreateChat(ctx context.Context, name string, chatType domain.ChatType, creatorID string, memberIDs []string) (*domain.Chat, error) {
	if creatorID == "" {
		return nil, domain.ErrInvalidPayload
	}

	members := dedupe(creatorID, memberIDs)
	if chatType == domain.ChatTypePrivate && len(members) != 2 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "a private chat needs exactly two participants")
	}
	if chatType != domain.ChatTypePrivate && chatType != domain.ChatTypeGroup {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown chat type")
	}

	chat := &domain.Chat{
		Name:      name,
		Type:      chatType,
		CreatedBy: creatorID,
	}

	participants := make([]domain.ChatParticipation, 0, len(members))
	for _, userID := range members {
		role := domain.RoleMember
		if chatType == domain.ChatTypeGroup && userID == creatorID {
			role = domain.RoleAdmin
		}
		participants = append(participants, domain.ChatParticipation{
			UserID: userID,
			Role:   role,
			Status: domain.ParticipationActive,
		})
	}

	if err := r.chats.Create(ctx, chat, participants); err != nil {
		return nil, err
	}
	return chat, nil
}

// CountActive returns the number of ACTIVE participants.
func (r *Registry) CountActive(ctx context.Context, chatID string) (int, error) {
	return r.participations.CountActive(ctx, chatID)
}

// CountActiveByRole returns the number of ACTIVE participants holding role.
func (r *Registry) CountActiveByRole(ctx context.Context, chatID string, role domain.ParticipantRole) (int, error) {
	return r.participations.CountActiveByRole(ctx, chatID, role)
}

// IsParticipant reports whether the user is an ACTIVE participant.
func (r *Registry) IsParticipant(ctx context.Context, chatID, userID string) (bool, error) {
	return r.participations.IsParticipant(ctx, chatID, userID)
}

// MarkLeft records that the user left the chat. Leaving as the sole active
// admin of a group chat that still has other active members fails with
// domain.ErrLastAdmin; promote another member first.
func (r *Registry) MarkLeft(ctx context.Context, chatID, userID string) error {
	return r.participations.MarkLeft(ctx, chatID, userID, time.Now())
}

// PromoteToAdmin raises a member to ADMIN. The actor must be an active admin
// of the chat.
func (r *Registry) PromoteToAdmin(ctx context.Context, chatID, actorID, userID string) error {
	actor, err := r.participations.Get(ctx, chatID, actorID)
	if err != nil {
		return err
	}
	if !actor.IsActiveAdmin() {
		return domain.ErrNotChatAdmin
	}
	return r.participations.SetRole(ctx, chatID, userID, domain.RoleAdmin)
}

func dedupe(creatorID string, memberIDs []string) []string {
	seen := map[string]struct{}{creatorID: {}}
	members := []string{creatorID}
	for _, id := range memberIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	return members
}
