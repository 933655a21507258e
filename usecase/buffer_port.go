package usecase

import (
	"context"

	"github.com/chatwave/backend/domain"
)

// NotificationBuffer abstracts the durable side-buffer so the dispatcher
// stays storage-agnostic. Buffered notifications are replayed by a background
// processor once primary storage recovers.
type NotificationBuffer interface {
	BufferNotification(ctx context.Context, n *domain.Notification) error
}

// LivePusher is the live channel registry contract: best-effort delivery to a
// connected client, keyed by email. Failures are not surfaced to the caller.
type LivePusher interface {
	Push(email, topic string, payload interface{})
}
