package repository

import "context"

// SoftDeleteParams carries the precomputed rewrite values for a soft-delete
// cascade; the repository applies them, it does not derive them.
type SoftDeleteParams struct {
	UserID            string
	TombstoneEmail    string
	TombstoneUsername string
	RedactedContent   string
}

// AccountRepository executes the cross-entity deletion cascades. Each call
// runs inside a single transaction so a crash cannot leave a user
// half-deleted, and re-checks the last-admin invariant before committing
// (domain.ErrLastAdmin on violation).
type AccountRepository interface {
	// SoleAdminChats lists GROUP chats where the user is the only ACTIVE
	// ADMIN while other ACTIVE members remain.
	SoleAdminChats(ctx context.Context, userID string) ([]string, error)

	SoftDelete(ctx context.Context, p SoftDeleteParams) error

	// HardDelete removes child rows (notifications, messages, participations,
	// friend requests), then PRIVATE chats created by the user that are down
	// to at most one participant, then the user row itself.
	HardDelete(ctx context.Context, userID string) error
}
