package postgres

import (
	"context"
	"errors"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository struct {
	db *pgxpool.Pool
}

func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// CreateWithOwner — создаёт чат и членство владельца одной транзакцией.
// Уникальность имени обеспечивает индекс chats_name_key (23505 -> ErrChatNameTaken),
// поэтому при падении второго шага первый не остаётся висеть.
func (r *ChatRepository) CreateWithOwner(ctx context.Context, name, ownerID string) (*domain.Chat, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	c := domain.Chat{ID: uuid.NewString(), Name: name, OwnerID: ownerID}
	err = tx.QueryRow(ctx, `
		INSERT INTO chats (id, name, owner_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, c.ID, c.Name, c.OwnerID).Scan(&c.CreatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO chat_members (chat_id, user_id)
		VALUES ($1, $2)
	`, c.ID, c.OwnerID); err != nil {
		return nil, mapPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (*domain.Chat, error) {
	return r.getOne(ctx, `SELECT id, name, owner_id, created_at FROM chats WHERE id=$1`, id)
}

func (r *ChatRepository) GetByName(ctx context.Context, name string) (*domain.Chat, error) {
	return r.getOne(ctx, `SELECT id, name, owner_id, created_at FROM chats WHERE name=$1`, name)
}

// ListWithMemberCounts возвращает все чаты с количеством участников.
func (r *ChatRepository) ListWithMemberCounts(ctx context.Context) ([]domain.ChatSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, c.owner_id, COUNT(m.user_id)
		FROM chats c
		LEFT JOIN chat_members m ON m.chat_id = c.id
		GROUP BY c.id, c.name, c.owner_id
		ORDER BY c.created_at DESC, c.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ChatSummary
	for rows.Next() {
		var s domain.ChatSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.OwnerID, &s.Members); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ChatRepository) Rename(ctx context.Context, id, newName string) error {
	tag, err := r.db.Exec(ctx, `UPDATE chats SET name=$2 WHERE id=$1`, id, newName)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}

// Delete — каскад вручную и в строгом порядке: сообщения, членства, сам чат.
func (r *ChatRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE chat_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM chat_members WHERE chat_id=$1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM chats WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChatNotFound
	}

	return tx.Commit(ctx)
}

func (r *ChatRepository) getOne(ctx context.Context, sql string, arg any) (*domain.Chat, error) {
	var c domain.Chat
	err := r.db.QueryRow(ctx, sql, arg).Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatNotFound
		}
		return nil, err
	}
	return &c, nil
}
