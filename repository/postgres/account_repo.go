package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository"
)

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns the Postgres implementation of the deletion
// cascades. Every cascade runs inside one transaction.
func NewAccountRepository(pool *pgxpool.Pool) repository.AccountRepository {
	return &accountRepository{pool: pool}
}

const soleAdminChatsQuery = `
SELECT c.id
FROM chats c
JOIN chat_participants own
  ON own.chat_id = c.id AND own.user_id = $1
 AND own.status = 'ACTIVE' AND own.role = 'ADMIN'
WHERE c.type = 'GROUP'
  AND NOT EXISTS (
	SELECT 1 FROM chat_participants other
	WHERE other.chat_id = c.id AND other.user_id <> $1
	  AND other.status = 'ACTIVE' AND other.role = 'ADMIN'
  )
  AND EXISTS (
	SELECT 1 FROM chat_participants member
	WHERE member.chat_id = c.id AND member.user_id <> $1
	  AND member.status = 'ACTIVE'
  )
`

func (r *accountRepository) SoleAdminChats(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, soleAdminChatsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chatIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		chatIDs = append(chatIDs, id)
	}
	return chatIDs, rows.Err()
}

func (r *accountRepository) SoftDelete(ctx context.Context, p repository.SoftDeleteParams) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := assertNoSoleAdminChat(ctx, tx, p.UserID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
	UPDATE users
	SET status = 'DELETED',
		is_online = FALSE,
		email = $2,
		username = $3,
		updated_at = NOW()
	WHERE id = $1
	`, p.UserID, p.TombstoneEmail, p.TombstoneUsername)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	if _, err := tx.Exec(ctx, `
	UPDATE friend_requests
	SET status = 'CANCELLED', responded_at = NOW()
	WHERE status = 'PENDING' AND (sender_id = $1 OR receiver_id = $1)
	`, p.UserID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
	UPDATE chat_participants
	SET status = 'LEFT', left_at = NOW()
	WHERE user_id = $1 AND status = 'ACTIVE'
	`, p.UserID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
	UPDATE messages SET content = $2 WHERE sender_id = $1
	`, p.UserID, p.RedactedContent); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, p.UserID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *accountRepository) HardDelete(ctx context.Context, userID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := assertNoSoleAdminChat(ctx, tx, userID); err != nil {
		return err
	}

	// Child rows go first to satisfy referential constraints; chat cleanup
	// runs after participation cleanup so the participant count reflects the
	// post-cleanup state.
	if _, err := tx.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE sender_id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM chat_participants WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
	DELETE FROM friend_requests WHERE sender_id = $1 OR receiver_id = $1
	`, userID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
	DELETE FROM chats c
	WHERE c.type = 'PRIVATE'
	  AND c.created_by = $1
	  AND (SELECT COUNT(*) FROM chat_participants p WHERE p.chat_id = c.id) <= 1
	`, userID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return tx.Commit(ctx)
}

// assertNoSoleAdminChat re-checks the last-admin invariant inside the cascade
// transaction. The pre-flight CanDeleteUser gate can go stale between check
// and delete; this keeps a stale gate from breaching the invariant.
func assertNoSoleAdminChat(ctx context.Context, tx pgx.Tx, userID string) error {
	var violation bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(`+soleAdminChatsQuery+`)`, userID).Scan(&violation); err != nil {
		return err
	}
	if violation {
		return domain.ErrLastAdmin
	}
	return nil
}
