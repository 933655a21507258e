package repository

import (
	"context"
	"time"

	"github.com/chatwave/backend/domain"
)

type NotificationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	Create(ctx context.Context, n *domain.Notification) error

	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)

	// MarkRead flips the unread flag and stamps readAt. Re-marking an already
	// read notification is a no-op success.
	MarkRead(ctx context.Context, id string, readAt time.Time) error

	Delete(ctx context.Context, id string) error

	// DeleteByUser removes every notification owned by the user and reports
	// how many rows were removed.
	DeleteByUser(ctx context.Context, userID string) (int, error)
}
