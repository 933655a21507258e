package repository

import (
	"context"

	"github.com/chatwave/backend/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByChat(ctx context.Context, chatID string, limit, offset int) ([]domain.Message, error)
	CountBySender(ctx context.Context, senderID string) (int, error)
}
