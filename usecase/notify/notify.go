package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository"
	"github.com/chatwave/backend/usecase"
)

// TopicNotification labels live frames carrying a persisted notification.
const TopicNotification = "notification"

// Dispatcher persists notification records and fans them out to connected
// clients. Persistence always happens before delivery is attempted, so an
// offline recipient finds the record on the next list call.
type Dispatcher struct {
	notifications repository.NotificationRepository
	pusher        usecase.LivePusher
	buffer        usecase.NotificationBuffer
	logger        *zap.Logger
}

func New(notifications repository.NotificationRepository, pusher usecase.LivePusher, buffer usecase.NotificationBuffer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		notifications: notifications,
		pusher:        pusher,
		buffer:        buffer,
		logger:        logger,
	}
}

// Dispatch persists the intent as a notification row, then attempts a live
// push. Push problems are logged and swallowed; they must never fail the
// caller's operation.
func (d *Dispatcher) Dispatch(ctx context.Context, intent domain.EventIntent) error {
	if intent.RecipientID == "" {
		return domain.ErrInvalidPayload
	}

	title, message := intent.Compose()
	notification := &domain.Notification{
		UserID:  intent.RecipientID,
		Title:   title,
		Message: message,
		Type:    intent.Type,
	}

	if err := d.notifications.Create(ctx, notification); err != nil {
		if d.buffer == nil {
			return err
		}
		if bufErr := d.buffer.BufferNotification(ctx, notification); bufErr != nil {
			d.logger.Error("failed to buffer notification", zap.Error(bufErr))
			return err
		}
		d.logger.Warn("notification buffered due to repository error",
			zap.String("user_id", intent.RecipientID),
			zap.Error(err))
	}

	if d.pusher != nil && intent.RecipientEmail != "" {
		d.pusher.Push(intent.RecipientEmail, TopicNotification, notification)
	}
	return nil
}

// List returns the user's notifications, newest first.
func (d *Dispatcher) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return d.notifications.ListByUser(ctx, userID)
}

// MarkRead flips a notification to read. Idempotent: re-marking an already
// read notification succeeds without changing readAt.
func (d *Dispatcher) MarkRead(ctx context.Context, notificationID string) error {
	return d.notifications.MarkRead(ctx, notificationID, time.Now())
}

// DeleteOne removes a single notification.
func (d *Dispatcher) DeleteOne(ctx context.Context, notificationID string) error {
	return d.notifications.Delete(ctx, notificationID)
}

// DeleteAll removes every notification owned by the user. A user with zero
// notifications gets domain.ErrNoNotifications.
func (d *Dispatcher) DeleteAll(ctx context.Context, userID string) error {
	removed, err := d.notifications.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return domain.ErrNoNotifications
	}
	return nil
}
