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

type chatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository returns a Postgres-backed implementation of ChatRepository.
func NewChatRepository(pool *pgxpool.Pool) repository.ChatRepository {
	return &chatRepository{pool: pool}
}

func (r *chatRepository) GetByID(ctx context.Context, id string) (*domain.Chat, error) {
	row := r.pool.QueryRow(ctx, `
	SELECT id, name, type, COALESCE(created_by, ''), created_at, updated_at
	FROM chats
	WHERE id = $1
	`, id)

	var chat domain.Chat
	if err := row.Scan(&chat.ID, &chat.Name, &chat.Type, &chat.CreatedBy, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) Create(ctx context.Context, chat *domain.Chat, participants []domain.ChatParticipation) error {
	if chat == nil {
		return domain.ErrInvalidPayload
	}
	if chat.ID == "" {
		chat.ID = uuid.NewString()
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `
	INSERT INTO chats (id, name, type, created_by)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at, updated_at
	`, chat.ID, chat.Name, chat.Type, chat.CreatedBy).Scan(&chat.CreatedAt, &chat.UpdatedAt); err != nil {
		return err
	}

	for i := range participants {
		p := &participants[i]
		p.ChatID = chat.ID
		if err := tx.QueryRow(ctx, `
		INSERT INTO chat_participants (chat_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING joined_at
		`, p.ChatID, p.UserID, p.Role, p.Status).Scan(&p.JoinedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

type participationRepository struct {
	pool *pgxpool.Pool
}

// NewParticipationRepository returns a Postgres-backed implementation of
// ParticipationRepository.
func NewParticipationRepository(pool *pgxpool.Pool) repository.ParticipationRepository {
	return &participationRepository{pool: pool}
}

const participationColumns = `chat_id, user_id, role, status, joined_at, left_at`

func (r *participationRepository) Get(ctx context.Context, chatID, userID string) (*domain.ChatParticipation, error) {
	row := r.pool.QueryRow(ctx, `
	SELECT `+participationColumns+`
	FROM chat_participants
	WHERE chat_id = $1 AND user_id = $2
	`, chatID, userID)
	return scanParticipation(row)
}

func (r *participationRepository) IsParticipant(ctx context.Context, chatID, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
	SELECT EXISTS(
		SELECT 1 FROM chat_participants
		WHERE chat_id = $1 AND user_id = $2 AND status = 'ACTIVE'
	)`, chatID, userID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *participationRepository) CountActive(ctx context.Context, chatID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
	SELECT COUNT(*) FROM chat_participants
	WHERE chat_id = $1 AND status = 'ACTIVE'
	`, chatID).Scan(&count)
	return count, err
}

func (r *participationRepository) CountActiveByRole(ctx context.Context, chatID string, role domain.ParticipantRole) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
	SELECT COUNT(*) FROM chat_participants
	WHERE chat_id = $1 AND status = 'ACTIVE' AND role = $2
	`, chatID, role).Scan(&count)
	return count, err
}

func (r *participationRepository) ListActive(ctx context.Context, chatID string) ([]domain.ChatParticipation, error) {
	rows, err := r.pool.Query(ctx, `
	SELECT `+participationColumns+`
	FROM chat_participants
	WHERE chat_id = $1 AND status = 'ACTIVE'
	ORDER BY joined_at
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []domain.ChatParticipation
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

func (r *participationRepository) MarkLeft(ctx context.Context, chatID, userID string, leftAt time.Time) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := assertNotSoleAdmin(ctx, tx, chatID, userID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
	UPDATE chat_participants
	SET status = 'LEFT', left_at = $3
	WHERE chat_id = $1 AND user_id = $2 AND status = 'ACTIVE'
	`, chatID, userID, leftAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}

	return tx.Commit(ctx)
}

func (r *participationRepository) SetRole(ctx context.Context, chatID, userID string, role domain.ParticipantRole) error {
	tag, err := r.pool.Exec(ctx, `
	UPDATE chat_participants
	SET role = $3
	WHERE chat_id = $1 AND user_id = $2 AND status = 'ACTIVE'
	`, chatID, userID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

// assertNotSoleAdmin fails with domain.ErrLastAdmin when the user is the only
// ACTIVE ADMIN of a GROUP chat that still has other ACTIVE members. Row locks
// on the chat's participations keep the check stable until commit.
func assertNotSoleAdmin(ctx context.Context, tx pgx.Tx, chatID, userID string) error {
	var violation bool
	err := tx.QueryRow(ctx, `
	WITH locked AS (
		SELECT user_id, role
		FROM chat_participants
		WHERE chat_id = $1 AND status = 'ACTIVE'
		FOR UPDATE
	)
	SELECT EXISTS(SELECT 1 FROM chats WHERE id = $1 AND type = 'GROUP')
	   AND EXISTS(SELECT 1 FROM locked WHERE user_id = $2 AND role = 'ADMIN')
	   AND NOT EXISTS(SELECT 1 FROM locked WHERE user_id <> $2 AND role = 'ADMIN')
	   AND EXISTS(SELECT 1 FROM locked WHERE user_id <> $2)
	`, chatID, userID).Scan(&violation)
	if err != nil {
		return err
	}
	if violation {
		return domain.ErrLastAdmin
	}
	return nil
}

func scanParticipation(row interface {
	Scan(dest ...interface{}) error
}) (*domain.ChatParticipation, error) {
	var p domain.ChatParticipation
	var leftAt *time.Time
	if err := row.Scan(&p.ChatID, &p.UserID, &p.Role, &p.Status, &p.JoinedAt, &leftAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, err
	}
	p.LeftAt = leftAt
	return &p, nil
}
