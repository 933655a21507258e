package account

import (
	"context"

	"go.uber.org/zap"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository"
)

// Manager owns account status transitions and the deletion cascades. The
// cascades themselves run inside one storage transaction each; the manager
// derives the rewrite values and gates on the last-admin invariant.
type Manager struct {
	users    repository.UserRepository
	accounts repository.AccountRepository
	logger   *zap.Logger
}

func New(users repository.UserRepository, accounts repository.AccountRepository, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		users:    users,
		accounts: accounts,
		logger:   logger,
	}
}

// CanDeleteUser is the pre-flight gate for both deletion modes: false while
// the user is the sole active admin of any group chat with other active
// members. The cascades re-check the invariant transactionally, so a stale
// answer here cannot breach it.
func (m *Manager) CanDeleteUser(ctx context.Context, userID string) (bool, error) {
	chats, err := m.accounts.SoleAdminChats(ctx, userID)
	if err != nil {
		return false, err
	}
	return len(chats) == 0, nil
}

// SoftDeleteUser tombstones the account and narrows its footprint: pending
// requests cancelled, participations left, messages redacted, own
// notifications removed. Chats and other users' data stay untouched.
func (m *Manager) SoftDeleteUser(ctx context.Context, userID string) error {
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	err = m.accounts.SoftDelete(ctx, repository.SoftDeleteParams{
		UserID:            user.ID,
		TombstoneEmail:    domain.Tombstone(user.ID, user.Email),
		TombstoneUsername: domain.Tombstone(user.ID, user.Username),
		RedactedContent:   domain.RedactedMessageContent,
	})
	if err != nil {
		return err
	}

	m.logger.Info("user soft deleted", zap.String("user_id", user.ID))
	return nil
}

// HardDeleteUser removes the account and everything it owns. Child rows go
// before the user row; private chats created by the user that are down to at
// most one participant go with it.
func (m *Manager) HardDeleteUser(ctx context.Context, userID string) error {
	if err := m.accounts.HardDelete(ctx, userID); err != nil {
		return err
	}
	m.logger.Info("user hard deleted", zap.String("user_id", userID))
	return nil
}
