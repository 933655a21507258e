package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository"
)

// UseCase manages authentication sessions and mirrors them into the user's
// presence fields: session creation marks the user online, revocation marks
// them offline and stamps last seen.
type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

func (uc *UseCase) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*domain.Session, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsDeleted() {
		return nil, domain.ErrUserNotFound
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserEmail: user.Email,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	if err := uc.users.SetPresence(ctx, user.ID, true, time.Now()); err != nil {
		uc.logger.Warn("failed to mark user online", zap.String("user_id", user.ID), zap.Error(err))
	}
	return session, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	if err := uc.users.SetPresence(ctx, session.UserID, false, time.Now()); err != nil {
		uc.logger.Warn("failed to mark user offline", zap.String("user_id", session.UserID), zap.Error(err))
	}
	return nil
}
