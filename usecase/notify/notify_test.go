package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository/memory"
	"github.com/chatwave/backend/usecase/notify"
)

type recordedPush struct {
	Email   string
	Topic   string
	Payload interface{}
}

type recordingPusher struct {
	pushes []recordedPush
}

func (p *recordingPusher) Push(email, topic string, payload interface{}) {
	p.pushes = append(p.pushes, recordedPush{Email: email, Topic: topic, Payload: payload})
}

type failingRepo struct{}

func (f *failingRepo) GetByID(context.Context, string) (*domain.Notification, error) {
	return nil, domain.ErrNotificationNotFound
}
func (f *failingRepo) Create(context.Context, *domain.Notification) error {
	return domain.NewError(domain.ErrCodeInternal, "storage offline")
}
func (f *failingRepo) ListByUser(context.Context, string) ([]domain.Notification, error) {
	return nil, nil
}
func (f *failingRepo) MarkRead(context.Context, string, time.Time) error { return nil }
func (f *failingRepo) Delete(context.Context, string) error              { return nil }
func (f *failingRepo) DeleteByUser(context.Context, string) (int, error) { return 0, nil }

type recordingBuffer struct {
	buffered []*domain.Notification
}

func (b *recordingBuffer) BufferNotification(_ context.Context, n *domain.Notification) error {
	b.buffered = append(b.buffered, n)
	return nil
}

func TestDispatchPersistsThenPushes(t *testing.T) {
	store := memory.New()
	pusher := &recordingPusher{}
	dispatcher := notify.New(store.Notifications(), pusher, nil, nil)
	ctx := context.Background()

	err := dispatcher.Dispatch(ctx, domain.EventIntent{
		Type:           domain.NotificationFriendRequest,
		RecipientID:    "u1",
		RecipientEmail: "u1@example.com",
		ActorEmail:     "u2@example.com",
	})
	require.NoError(t, err)

	stored, err := dispatcher.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "new Friend Request 👀", stored[0].Title)

	require.Len(t, pusher.pushes, 1)
	require.Equal(t, "u1@example.com", pusher.pushes[0].Email)
	require.Equal(t, notify.TopicNotification, pusher.pushes[0].Topic)

	// The pushed payload is the persisted row.
	pushed, ok := pusher.pushes[0].Payload.(*domain.Notification)
	require.True(t, ok)
	require.Equal(t, stored[0].ID, pushed.ID)
}

func TestDispatchOfflineRecipient(t *testing.T) {
	store := memory.New()
	pusher := &recordingPusher{}
	dispatcher := notify.New(store.Notifications(), pusher, nil, nil)
	ctx := context.Background()

	// No email means no live channel; the durable row is still written.
	err := dispatcher.Dispatch(ctx, domain.EventIntent{
		Type:        domain.NotificationNewMessage,
		RecipientID: "u1",
		Body:        "hi",
	})
	require.NoError(t, err)
	require.Empty(t, pusher.pushes)

	stored, err := dispatcher.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestDispatchRequiresRecipient(t *testing.T) {
	dispatcher := notify.New(memory.New().Notifications(), nil, nil, nil)
	err := dispatcher.Dispatch(context.Background(), domain.EventIntent{Type: domain.NotificationNewMessage})
	require.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestDispatchBuffersOnStorageFailure(t *testing.T) {
	buffer := &recordingBuffer{}
	dispatcher := notify.New(&failingRepo{}, nil, buffer, nil)

	err := dispatcher.Dispatch(context.Background(), domain.EventIntent{
		Type:        domain.NotificationFriendRequest,
		RecipientID: "u1",
		ActorEmail:  "u2@example.com",
	})
	require.NoError(t, err)
	require.Len(t, buffer.buffered, 1)
	require.Equal(t, "u1", buffer.buffered[0].UserID)
}

func TestDispatchStorageFailureWithoutBuffer(t *testing.T) {
	dispatcher := notify.New(&failingRepo{}, nil, nil, nil)

	err := dispatcher.Dispatch(context.Background(), domain.EventIntent{
		Type:        domain.NotificationFriendRequest,
		RecipientID: "u1",
	})
	require.Error(t, err)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))
}

func TestMarkReadIsIdempotent(t *testing.T) {
	store := memory.New()
	dispatcher := notify.New(store.Notifications(), nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, dispatcher.Dispatch(ctx, domain.EventIntent{
		Type:        domain.NotificationNewMessage,
		RecipientID: "u1",
		Body:        "hi",
	}))

	stored, err := dispatcher.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	id := stored[0].ID

	require.NoError(t, dispatcher.MarkRead(ctx, id))
	first, err := store.GetNotification(ctx, id)
	require.NoError(t, err)
	require.True(t, first.IsRead)
	require.NotNil(t, first.ReadAt)

	// Re-marking succeeds and leaves readAt untouched.
	require.NoError(t, dispatcher.MarkRead(ctx, id))
	second, err := store.GetNotification(ctx, id)
	require.NoError(t, err)
	require.Equal(t, first.ReadAt, second.ReadAt)

	require.ErrorIs(t, dispatcher.MarkRead(ctx, "missing"), domain.ErrNotificationNotFound)
}

func TestDeleteAll(t *testing.T) {
	store := memory.New()
	dispatcher := notify.New(store.Notifications(), nil, nil, nil)
	ctx := context.Background()

	require.ErrorIs(t, dispatcher.DeleteAll(ctx, "u1"), domain.ErrNoNotifications)

	for i := 0; i < 3; i++ {
		require.NoError(t, dispatcher.Dispatch(ctx, domain.EventIntent{
			Type:        domain.NotificationNewMessage,
			RecipientID: "u1",
			Body:        "hi",
		}))
	}
	require.NoError(t, dispatcher.Dispatch(ctx, domain.EventIntent{
		Type:        domain.NotificationNewMessage,
		RecipientID: "u2",
		Body:        "hi",
	}))

	require.NoError(t, dispatcher.DeleteAll(ctx, "u1"))

	mine, err := dispatcher.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, mine)

	theirs, err := dispatcher.List(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, theirs, 1)
}

func TestDeleteOne(t *testing.T) {
	store := memory.New()
	dispatcher := notify.New(store.Notifications(), nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, dispatcher.Dispatch(ctx, domain.EventIntent{
		Type:        domain.NotificationNewMessage,
		RecipientID: "u1",
		Body:        "hi",
	}))
	stored, err := dispatcher.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)

	require.NoError(t, dispatcher.DeleteOne(ctx, stored[0].ID))
	require.ErrorIs(t, dispatcher.DeleteOne(ctx, stored[0].ID), domain.ErrNotificationNotFound)
}
