package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository"
)

type friendRequestRepository struct {
	pool *pgxpool.Pool
}

// NewFriendRequestRepository returns a Postgres-backed implementation of
// FriendRequestRepository.
func NewFriendRequestRepository(pool *pgxpool.Pool) repository.FriendRequestRepository {
	return &friendRequestRepository{pool: pool}
}

const requestColumns = `id, sender_id, receiver_id, status, created_at, responded_at`

func (r *friendRequestRepository) GetByID(ctx context.Context, id string) (*domain.FriendRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM friend_requests WHERE id = $1`, id)
	return scanFriendRequest(row)
}

func (r *friendRequestRepository) CreatePending(ctx context.Context, req *domain.FriendRequest) error {
	if req == nil || req.SenderID == "" || req.ReceiverID == "" {
		return domain.ErrInvalidPayload
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = domain.FriendRequestPending

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Serialize on the unordered pair so two concurrent sends cannot both pass
	// the duplicate check below.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, pairLockKey(req.SenderID, req.ReceiverID)); err != nil {
		return err
	}

	var conflict string
	err = tx.QueryRow(ctx, `
	SELECT status FROM friend_requests
	WHERE status IN ('PENDING', 'ACCEPTED')
	  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
	LIMIT 1
	`, req.SenderID, req.ReceiverID).Scan(&conflict)
	switch {
	case err == nil:
		if conflict == string(domain.FriendRequestAccepted) {
			return domain.ErrAlreadyFriends
		}
		return domain.ErrRequestPending
	case errors.Is(err, pgx.ErrNoRows):
		// no conflicting row, insert below
	default:
		return err
	}

	if err := tx.QueryRow(ctx, `
	INSERT INTO friend_requests (id, sender_id, receiver_id, status)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`, req.ID, req.SenderID, req.ReceiverID, req.Status).Scan(&req.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *friendRequestRepository) Respond(ctx context.Context, id string, status domain.FriendRequestStatus, respondedAt time.Time) (*domain.FriendRequest, error) {
	// The status guard in the WHERE clause makes the PENDING check atomic with
	// the transition, so two concurrent responses cannot both succeed.
	row := r.pool.QueryRow(ctx, `
	UPDATE friend_requests
	SET status = $2, responded_at = $3
	WHERE id = $1 AND status = 'PENDING'
	RETURNING `+requestColumns,
		id, status, respondedAt)

	req, err := scanFriendRequest(row)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, domain.ErrRequestNotFound) {
		return nil, err
	}

	// Distinguish a missing request from one that already left PENDING.
	var exists bool
	if scanErr := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM friend_requests WHERE id = $1)`, id).Scan(&exists); scanErr != nil {
		return nil, scanErr
	}
	if exists {
		return nil, domain.ErrRequestNotPending
	}
	return nil, domain.ErrRequestNotFound
}

func (r *friendRequestRepository) ListFriends(ctx context.Context, userID string) ([]domain.User, error) {
	const query = `
	SELECT DISTINCT u.id, u.email, u.username, u.first_name, u.last_name,
		u.status, u.is_online, u.last_seen, u.created_at, u.updated_at
	FROM users u
	JOIN friend_requests fr
	  ON (fr.sender_id = $1 AND fr.receiver_id = u.id)
	  OR (fr.receiver_id = $1 AND fr.sender_id = u.id)
	WHERE fr.status = 'ACCEPTED'
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		friends = append(friends, *user)
	}
	return friends, rows.Err()
}

func (r *friendRequestRepository) ListPendingIncoming(ctx context.Context, userID string) ([]domain.FriendRequest, error) {
	const query = `
	SELECT ` + requestColumns + `
	FROM friend_requests
	WHERE receiver_id = $1 AND status = 'PENDING'
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.FriendRequest
	for rows.Next() {
		req, err := scanFriendRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

func scanFriendRequest(row interface {
	Scan(dest ...interface{}) error
}) (*domain.FriendRequest, error) {
	var req domain.FriendRequest
	var respondedAt *time.Time
	if err := row.Scan(
		&req.ID,
		&req.SenderID,
		&req.ReceiverID,
		&req.Status,
		&req.CreatedAt,
		&respondedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	req.RespondedAt = respondedAt
	return &req, nil
}
