package account_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository/memory"
	"github.com/chatwave/backend/usecase/account"
	"github.com/chatwave/backend/usecase/membership"
	"github.com/chatwave/backend/usecase/messaging"
	"github.com/chatwave/backend/usecase/notify"
	"github.com/chatwave/backend/usecase/relationship"
)

type fixture struct {
	store        *memory.Store
	manager      *account.Manager
	membership   *membership.Registry
	relationship *relationship.Engine
	messaging    *messaging.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	dispatcher := notify.New(store.Notifications(), nil, nil, nil)
	return &fixture{
		store:        store,
		manager:      account.New(store, store, nil),
		membership:   membership.New(store.Chats(), store, nil),
		relationship: relationship.New(store, store.FriendRequests(), dispatcher, nil),
		messaging:    messaging.New(store, store.Messages(), store, dispatcher, nil),
	}
}

func (f *fixture) seedUser(t *testing.T, email, firstName string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, Username: firstName, FirstName: firstName}
	require.NoError(t, f.store.Create(context.Background(), user))
	return user
}

func TestSoftDeleteCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.seedUser(t, "bob@example.com", "Bob")
	alice := f.seedUser(t, "alice@example.com", "Alice")
	carol := f.seedUser(t, "carol@example.com", "Carol")

	// One outgoing and one incoming pending request.
	outgoing, err := f.relationship.SendRequest(ctx, bob.ID, alice.Email)
	require.NoError(t, err)
	incoming, err := f.relationship.SendRequest(ctx, carol.ID, bob.Email)
	require.NoError(t, err)

	// Bob participates in a group chat and wrote three messages there.
	chat, err := f.membership.CreateChat(ctx, "team", domain.ChatTypeGroup, alice.ID, []string{bob.ID, carol.ID})
	require.NoError(t, err)
	for _, text := range []string{"one", "two", "three"} {
		_, err := f.messaging.SendMessage(ctx, chat.ID, bob.ID, text)
		require.NoError(t, err)
	}

	require.NoError(t, f.manager.SoftDeleteUser(ctx, bob.ID))

	// Tombstoned identity, original email freed.
	deleted, err := f.store.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, domain.UserStatusDeleted, deleted.Status)
	require.Equal(t, domain.Tombstone(bob.ID, "bob@example.com"), deleted.Email)
	require.Equal(t, domain.Tombstone(bob.ID, "Bob"), deleted.Username)
	require.False(t, deleted.IsOnline)
	_, err = f.store.GetByEmail(ctx, "bob@example.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	// Pending requests in both directions are cancelled.
	for _, id := range []string{outgoing.ID, incoming.ID} {
		req, err := f.store.GetRequest(ctx, id)
		require.NoError(t, err)
		require.Equal(t, domain.FriendRequestCancelled, req.Status)
	}

	// Participation is left, not erased.
	part, err := f.store.Get(ctx, chat.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ParticipationLeft, part.Status)
	require.NotNil(t, part.LeftAt)

	// Message rows survive with redacted content.
	contents := f.store.MessageContents(bob.ID)
	require.Len(t, contents, 3)
	for _, content := range contents {
		require.Equal(t, domain.RedactedMessageContent, content)
	}

	// Bob's notifications are gone; other users keep theirs.
	bobNotifications, err := f.store.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, bobNotifications)
	aliceNotifications, err := f.store.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.NotEmpty(t, aliceNotifications)
}

func TestSoftDeleteAcceptedFriendshipSurvives(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.seedUser(t, "bob@example.com", "Bob")
	alice := f.seedUser(t, "alice@example.com", "Alice")

	req, err := f.relationship.SendRequest(ctx, bob.ID, alice.Email)
	require.NoError(t, err)
	_, err = f.relationship.AcceptRequest(ctx, req.ID, alice.ID)
	require.NoError(t, err)

	require.NoError(t, f.manager.SoftDeleteUser(ctx, bob.ID))

	// Only PENDING requests are cancelled.
	after, err := f.store.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, domain.FriendRequestAccepted, after.Status)
}

func TestDeleteBlockedForSoleAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.seedUser(t, "bob@example.com", "Bob")
	alice := f.seedUser(t, "alice@example.com", "Alice")

	chat, err := f.membership.CreateChat(ctx, "team", domain.ChatTypeGroup, bob.ID, []string{alice.ID})
	require.NoError(t, err)

	ok, err := f.manager.CanDeleteUser(ctx, bob.ID)
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, f.manager.SoftDeleteUser(ctx, bob.ID), domain.ErrLastAdmin)
	require.ErrorIs(t, f.manager.HardDeleteUser(ctx, bob.ID), domain.ErrLastAdmin)

	// Promoting another member lifts the block.
	require.NoError(t, f.membership.PromoteToAdmin(ctx, chat.ID, bob.ID, alice.ID))

	ok, err = f.manager.CanDeleteUser(ctx, bob.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, f.manager.SoftDeleteUser(ctx, bob.ID))
}

func TestHardDeleteCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.seedUser(t, "bob@example.com", "Bob")
	carol := f.seedUser(t, "carol@example.com", "Carol")

	req, err := f.relationship.SendRequest(ctx, bob.ID, carol.Email)
	require.NoError(t, err)
	_, err = f.relationship.AcceptRequest(ctx, req.ID, carol.ID)
	require.NoError(t, err)

	chat, err := f.membership.CreateChat(ctx, "", domain.ChatTypePrivate, bob.ID, []string{carol.ID})
	require.NoError(t, err)
	_, err = f.messaging.SendMessage(ctx, chat.ID, bob.ID, "hello")
	require.NoError(t, err)

	// Carol already left, so the private chat Bob created drops to at most
	// one participant once his own participation is removed and goes with him.
	require.NoError(t, f.membership.MarkLeft(ctx, chat.ID, carol.ID))
	require.NoError(t, f.manager.HardDeleteUser(ctx, bob.ID))

	_, err = f.store.GetByID(ctx, bob.ID)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = f.store.GetChat(ctx, chat.ID)
	require.ErrorIs(t, err, domain.ErrChatNotFound)
	_, err = f.store.GetRequest(ctx, req.ID)
	require.ErrorIs(t, err, domain.ErrRequestNotFound)

	count, err := f.store.CountBySender(ctx, bob.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	// Carol is untouched.
	_, err = f.store.GetByID(ctx, carol.ID)
	require.NoError(t, err)
}

func TestHardDeleteUnknownUser(t *testing.T) {
	f := newFixture(t)
	require.ErrorIs(t, f.manager.HardDeleteUser(context.Background(), "missing"), domain.ErrUserNotFound)
}
