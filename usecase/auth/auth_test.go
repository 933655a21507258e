package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository/memory"
	"github.com/chatwave/backend/usecase/auth"
)

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]domain.Session)}
}

func (s *sessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (s *sessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *sessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *sessionStore) Extend(_ context.Context, id string, ttlSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.ExpiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	s.sessions[id] = session
	return nil
}

func newUseCase(t *testing.T) (*auth.UseCase, *memory.Store) {
	t.Helper()
	store := memory.New()
	return auth.New(store, newSessionStore(), nil), store
}

func TestCreateSessionMarksUserOnline(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	user := &domain.User{Email: "bob@example.com", Username: "bob"}
	require.NoError(t, store.Create(ctx, user))

	session, err := uc.CreateSession(ctx, user.ID, time.Hour)
	require.NoError(t, err)
	require.Equal(t, user.ID, session.UserID)
	require.Equal(t, user.Email, session.UserEmail)
	require.True(t, session.ExpiresAt.After(time.Now()))

	refreshed, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, refreshed.IsOnline)
}

func TestCreateSessionRejectsDeletedUser(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	user := &domain.User{Email: "bob@example.com", Username: "bob", Status: domain.UserStatusDeleted}
	require.NoError(t, store.Create(ctx, user))

	_, err := uc.CreateSession(ctx, user.ID, time.Hour)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetSessionExpiry(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	user := &domain.User{Email: "bob@example.com", Username: "bob"}
	require.NoError(t, store.Create(ctx, user))

	session, err := uc.CreateSession(ctx, user.ID, -time.Minute)
	require.NoError(t, err)

	_, err = uc.GetSession(ctx, session.ID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRevokeSessionMarksUserOffline(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	user := &domain.User{Email: "bob@example.com", Username: "bob"}
	require.NoError(t, store.Create(ctx, user))

	session, err := uc.CreateSession(ctx, user.ID, time.Hour)
	require.NoError(t, err)
	require.NoError(t, uc.RevokeSession(ctx, session.ID))

	_, err = uc.GetSession(ctx, session.ID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	refreshed, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, refreshed.IsOnline)
	require.False(t, refreshed.LastSeen.IsZero())
}

func TestRefreshSessionExtendsExpiry(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()
	user := &domain.User{Email: "bob@example.com", Username: "bob"}
	require.NoError(t, store.Create(ctx, user))

	session, err := uc.CreateSession(ctx, user.ID, time.Minute)
	require.NoError(t, err)

	refreshed, err := uc.RefreshSession(ctx, session.ID, 2*time.Hour)
	require.NoError(t, err)
	require.True(t, refreshed.ExpiresAt.After(session.ExpiresAt))

	_, err = uc.RefreshSession(ctx, "missing", time.Hour)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}
