package postgres

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Append(ctx context.Context, chatID, authorID, text string) (*domain.Message, error) {
	m := domain.Message{ID: uuid.NewString(), ChatID: chatID, AuthorID: authorID, Text: text}
	err := r.db.QueryRow(ctx, `
		INSERT INTO messages (id, chat_id, author_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, m.ID, m.ChatID, m.AuthorID, m.Text).Scan(&m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByChat — история по возрастанию метки времени; limit <= 0 значит без лимита.
func (r *MessageRepository) ListByChat(ctx context.Context, chatID string, limit int) ([]domain.Message, error) {
	const q = `
		SELECT id, chat_id, author_id, text, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT NULLIF($2::int, 0)
	`
	if limit < 0 {
		limit = 0
	}

	rows, err := r.db.Query(ctx, q, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.AuthorID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
