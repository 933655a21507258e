package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository/memory"
	"github.com/chatwave/backend/usecase/profile"
)

func TestUpdateProfileChangesDisplayFieldsOnly(t *testing.T) {
	store := memory.New()
	uc := profile.New(store, nil)
	ctx := context.Background()

	user := &domain.User{Email: "bob@example.com", Username: "bob", FirstName: "Bob"}
	require.NoError(t, store.Create(ctx, user))

	updated, err := uc.UpdateProfile(ctx, user.ID, "Robert", "Smith")
	require.NoError(t, err)
	require.Equal(t, "Robert", updated.FirstName)
	require.Equal(t, "Smith", updated.LastName)
	require.Equal(t, "bob@example.com", updated.Email)
	require.Equal(t, domain.UserStatusActive, updated.Status)

	stored, err := uc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Robert", stored.FirstName)
}

func TestProfileUnknownUser(t *testing.T) {
	uc := profile.New(memory.New(), nil)

	_, err := uc.GetProfile(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.UpdateProfile(context.Background(), "missing", "A", "B")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
