package repository

import (
	"context"
	"time"

	"github.com/chatwave/backend/domain"
)

type ChatRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Chat, error)

	// Create persists the chat and its initial participations in one
	// transaction.
	Create(ctx context.Context, chat *domain.Chat, participants []domain.ChatParticipation) error
}

type ParticipationRepository interface {
	Get(ctx context.Context, chatID, userID string) (*domain.ChatParticipation, error)
	IsParticipant(ctx context.Context, chatID, userID string) (bool, error)
	CountActive(ctx context.Context, chatID string) (int, error)
	CountActiveByRole(ctx context.Context, chatID string, role domain.ParticipantRole) (int, error)
	ListActive(ctx context.Context, chatID string) ([]domain.ChatParticipation, error)

	// MarkLeft sets the participation to LEFT and stamps leftAt. The
	// last-admin guard runs in the same transaction as the update: leaving as
	// the sole ACTIVE ADMIN of a GROUP chat that still has other ACTIVE
	// members fails with domain.ErrLastAdmin.
	MarkLeft(ctx context.Context, chatID, userID string, leftAt time.Time) error

	SetRole(ctx context.Context, chatID, userID string, role domain.ParticipantRole) error
}
