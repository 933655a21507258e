package membership_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository/memory"
	"github.com/chatwave/backend/usecase/membership"
)

func newRegistry(t *testing.T) (*membership.Registry, *memory.Store) {
	t.Helper()
	store := memory.New()
	return membership.New(store.Chats(), store, nil), store
}

func TestCreatePrivateChatNeedsExactlyTwo(t *testing.T) {
	registry, _ := newRegistry(t)
	ctx := context.Background()

	_, err := registry.CreateChat(ctx, "", domain.ChatTypePrivate, "u1", nil)
	require.Error(t, err)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = registry.CreateChat(ctx, "", domain.ChatTypePrivate, "u1", []string{"u2", "u3"})
	require.Error(t, err)

	// The creator in the member list counts once.
	chat, err := registry.CreateChat(ctx, "", domain.ChatTypePrivate, "u1", []string{"u1", "u2"})
	require.NoError(t, err)

	count, err := registry.CountActive(ctx, chat.ID)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestCreateChatUnknownType(t *testing.T) {
	registry, _ := newRegistry(t)

	_, err := registry.CreateChat(context.Background(), "x", domain.ChatType("BROADCAST"), "u1", []string{"u2"})
	require.Error(t, err)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestGroupChatCreatorJoinsAsAdmin(t *testing.T) {
	registry, store := newRegistry(t)
	ctx := context.Background()

	chat, err := registry.CreateChat(ctx, "team", domain.ChatTypeGroup, "u1", []string{"u2", "u3"})
	require.NoError(t, err)

	creator, err := store.Get(ctx, chat.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, creator.Role)
	require.Equal(t, domain.ParticipationActive, creator.Status)

	member, err := store.Get(ctx, chat.ID, "u2")
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, member.Role)

	admins, err := registry.CountActiveByRole(ctx, chat.ID, domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, 1, admins)
}

func TestLastAdminCannotLeave(t *testing.T) {
	registry, _ := newRegistry(t)
	ctx := context.Background()

	chat, err := registry.CreateChat(ctx, "team", domain.ChatTypeGroup, "admin", []string{"member"})
	require.NoError(t, err)

	err = registry.MarkLeft(ctx, chat.ID, "admin")
	require.ErrorIs(t, err, domain.ErrLastAdmin)

	// Handing off admin first unblocks the exit.
	require.NoError(t, registry.PromoteToAdmin(ctx, chat.ID, "admin", "member"))
	require.NoError(t, registry.MarkLeft(ctx, chat.ID, "admin"))

	ok, err := registry.IsParticipant(ctx, chat.ID, "admin")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSoleParticipantAdminMayLeave(t *testing.T) {
	registry, _ := newRegistry(t)
	ctx := context.Background()

	chat, err := registry.CreateChat(ctx, "solo", domain.ChatTypeGroup, "admin", nil)
	require.NoError(t, err)

	require.NoError(t, registry.MarkLeft(ctx, chat.ID, "admin"))
}

func TestAdminOfPrivateChatUnconstrained(t *testing.T) {
	registry, _ := newRegistry(t)
	ctx := context.Background()

	chat, err := registry.CreateChat(ctx, "", domain.ChatTypePrivate, "u1", []string{"u2"})
	require.NoError(t, err)

	// The last-admin rule binds group chats only.
	require.NoError(t, registry.MarkLeft(ctx, chat.ID, "u1"))
}

func TestPromoteRequiresActiveAdmin(t *testing.T) {
	registry, _ := newRegistry(t)
	ctx := context.Background()

	chat, err := registry.CreateChat(ctx, "team", domain.ChatTypeGroup, "admin", []string{"m1", "m2"})
	require.NoError(t, err)

	err = registry.PromoteToAdmin(ctx, chat.ID, "m1", "m2")
	require.ErrorIs(t, err, domain.ErrNotChatAdmin)

	err = registry.PromoteToAdmin(ctx, chat.ID, "ghost", "m2")
	require.ErrorIs(t, err, domain.ErrParticipantNotFound)

	require.NoError(t, registry.PromoteToAdmin(ctx, chat.ID, "admin", "m1"))

	admins, err := registry.CountActiveByRole(ctx, chat.ID, domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, 2, admins)
}

func TestMarkLeftTwice(t *testing.T) {
	registry, _ := newRegistry(t)
	ctx := context.Background()

	chat, err := registry.CreateChat(ctx, "team", domain.ChatTypeGroup, "admin", []string{"member"})
	require.NoError(t, err)

	require.NoError(t, registry.MarkLeft(ctx, chat.ID, "member"))
	err = registry.MarkLeft(ctx, chat.ID, "member")
	require.ErrorIs(t, err, domain.ErrParticipantNotFound)
}
