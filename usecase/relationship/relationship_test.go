package relationship_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository/memory"
	"github.com/chatwave/backend/usecase/notify"
	"github.com/chatwave/backend/usecase/relationship"
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

func newEngine(t *testing.T) (*relationship.Engine, *memory.Store, *recordingPusher) {
	t.Helper()
	store := memory.New()
	pusher := &recordingPusher{}
	dispatcher := notify.New(store.Notifications(), pusher, nil, nil)
	return relationship.New(store, store.FriendRequests(), dispatcher, nil), store, pusher
}

func seedUser(t *testing.T, store *memory.Store, email, firstName string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:     email,
		Username:  firstName,
		FirstName: firstName,
	}
	require.NoError(t, store.Create(context.Background(), user))
	return user
}

func TestSendRequestCreatesPendingAndNotifies(t *testing.T) {
	engine, store, pusher := newEngine(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")

	req, err := engine.SendRequest(ctx, alice.ID, bob.Email)
	require.NoError(t, err)
	require.Equal(t, domain.FriendRequestPending, req.Status)
	require.Equal(t, alice.ID, req.SenderID)
	require.Equal(t, bob.ID, req.ReceiverID)

	notifications, err := store.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, "new Friend Request 👀", notifications[0].Title)
	require.Equal(t, "Request from alice@example.com", notifications[0].Message)
	require.Equal(t, domain.NotificationFriendRequest, notifications[0].Type)
	require.False(t, notifications[0].IsRead)

	require.Len(t, pusher.pushes, 1)
	require.Equal(t, bob.Email, pusher.pushes[0].Email)
	require.Equal(t, notify.TopicNotification, pusher.pushes[0].Topic)
}

func TestSendRequestTrimsEmail(t *testing.T) {
	engine, store, _ := newEngine(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")

	req, err := engine.SendRequest(ctx, alice.ID, "  bob@example.com ")
	require.NoError(t, err)
	require.Equal(t, bob.ID, req.ReceiverID)
}

func TestSendRequestValidation(t *testing.T) {
	engine, store, _ := newEngine(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice@example.com", "Alice")

	_, err := engine.SendRequest(ctx, alice.ID, "   ")
	require.ErrorIs(t, err, domain.ErrEmailRequired)

	_, err = engine.SendRequest(ctx, alice.ID, alice.Email)
	require.ErrorIs(t, err, domain.ErrSelfRequest)

	_, err = engine.SendRequest(ctx, alice.ID, "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSendRequestDuplicateBothDirections(t *testing.T) {
	engine, store, _ := newEngine(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")

	_, err := engine.SendRequest(ctx, alice.ID, bob.Email)
	require.NoError(t, err)

	_, err = engine.SendRequest(ctx, alice.ID, bob.Email)
	require.ErrorIs(t, err, domain.ErrRequestPending)

	_, err = engine.SendRequest(ctx, bob.ID, alice.Email)
	require.ErrorIs(t, err, domain.ErrRequestPending)
}

func TestAcceptRequest(t *testing.T) {
	engine, store, _ := newEngine(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")

	req, err := engine.SendRequest(ctx, alice.ID, bob.Email)
	require.NoError(t, err)

	accepted, err := engine.AcceptRequest(ctx, req.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, domain.FriendRequestAccepted, accepted.Status)
	require.NotNil(t, accepted.RespondedAt)

	// Sender learns about the acceptance.
	notifications, err := store.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, "your Request Accepted✌", notifications[0].Title)
	require.Equal(t, "Bob accept you friend request", notifications[0].Message)

	// Friendship is symmetric.
	friendsOfAlice, err := engine.ListFriends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, friendsOfAlice, 1)
	require.Equal(t, bob.ID, friendsOfAlice[0].ID)

	friendsOfBob, err := engine.ListFriends(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, friendsOfBob, 1)
	require.Equal(t, alice.ID, friendsOfBob[0].ID)
}

func TestRejectRequestFreesThePair(t *testing.T) {
	engine, store, _ := newEngine(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")

	req, err := engine.SendRequest(ctx, alice.ID, bob.Email)
	require.NoError(t, err)

	rejected, err := engine.RejectRequest(ctx, req.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, domain.FriendRequestRejected, rejected.Status)

	notifications, err := store.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, "your Request rejected💔", notifications[0].Title)
	require.Equal(t, "Bob reject you friend request", notifications[0].Message)

	friends, err := engine.ListFriends(ctx, alice.ID)
	require.NoError(t, err)
	require.Empty(t, friends)

	// A rejection is terminal for the request but not for the pair.
	_, err = engine.SendRequest(ctx, bob.ID, alice.Email)
	require.NoError(t, err)
}

func TestOnlyReceiverMayRespond(t *testing.T) {
	engine, store, _ := newEngine(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")
	carol := seedUser(t, store, "carol@example.com", "Carol")

	req, err := engine.SendRequest(ctx, alice.ID, bob.Email)
	require.NoError(t, err)

	_, err = engine.AcceptRequest(ctx, req.ID, alice.ID)
	require.ErrorIs(t, err, domain.ErrNotRequestReceiver)

	_, err = engine.RejectRequest(ctx, req.ID, carol.ID)
	require.ErrorIs(t, err, domain.ErrNotRequestReceiver)
}

func TestRespondIsSingleShot(t *testing.T) {
	engine, store, _ := newEngine(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")

	req, err := engine.SendRequest(ctx, alice.ID, bob.Email)
	require.NoError(t, err)

	_, err = engine.AcceptRequest(ctx, req.ID, bob.ID)
	require.NoError(t, err)

	_, err = engine.RejectRequest(ctx, req.ID, bob.ID)
	require.ErrorIs(t, err, domain.ErrRequestNotPending)

	_, err = engine.AcceptRequest(ctx, req.ID, bob.ID)
	require.ErrorIs(t, err, domain.ErrRequestNotPending)
}

func TestRespondUnknownRequest(t *testing.T) {
	engine, store, _ := newEngine(t)
	ctx := context.Background()
	bob := seedUser(t, store, "bob@example.com", "Bob")

	_, err := engine.AcceptRequest(ctx, "missing", bob.ID)
	require.True(t, errors.Is(err, domain.ErrRequestNotFound))
}

func TestListPendingIncoming(t *testing.T) {
	engine, store, _ := newEngine(t)
	ctx := context.Background()
	alice := seedUser(t, store, "alice@example.com", "Alice")
	bob := seedUser(t, store, "bob@example.com", "Bob")
	carol := seedUser(t, store, "carol@example.com", "Carol")

	_, err := engine.SendRequest(ctx, alice.ID, carol.Email)
	require.NoError(t, err)
	_, err = engine.SendRequest(ctx, bob.ID, carol.Email)
	require.NoError(t, err)

	incoming, err := engine.ListPendingIncoming(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	for _, req := range incoming {
		require.Equal(t, carol.ID, req.ReceiverID)
		require.Equal(t, domain.FriendRequestPending, req.Status)
	}

	// Outgoing requests are not incoming for the sender.
	incoming, err = engine.ListPendingIncoming(ctx, alice.ID)
	require.NoError(t, err)
	require.Empty(t, incoming)
}
