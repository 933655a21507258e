package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository"
)

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository returns a Postgres-backed implementation of MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool) repository.MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return domain.ErrInvalidPayload
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO messages (id, chat_id, sender_id, content)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	return r.pool.QueryRow(ctx, query, msg.ID, msg.ChatID, msg.SenderID, msg.Content).Scan(&msg.CreatedAt)
}

func (r *messageRepository) ListByChat(ctx context.Context, chatID string, limit, offset int) ([]domain.Message, error) {
	const query = `
	SELECT id, chat_id, sender_id, content, created_at
	FROM messages
	WHERE chat_id = $1
	ORDER BY created_at DESC
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, chatID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *messageRepository) CountBySender(ctx context.Context, senderID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE sender_id = $1`, senderID).Scan(&count)
	return count, err
}
