package postgres

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepository struct {
	db *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

// Add — повторное добавление отлавливает chat_members_pkey (-> ErrAlreadyMember).
func (r *MemberRepository) Add(ctx context.Context, chatID, userID string) (*domain.Membership, error) {
	m := domain.Membership{ChatID: chatID, UserID: userID}
	err := r.db.QueryRow(ctx, `
		INSERT INTO chat_members (chat_id, user_id)
		VALUES ($1, $2)
		RETURNING joined_at
	`, chatID, userID).Scan(&m.JoinedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &m, nil
}

func (r *MemberRepository) Exists(ctx context.Context, chatID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM chat_members WHERE chat_id=$1 AND user_id=$2)`,
		chatID, userID).Scan(&exists)
	return exists, err
}

func (r *MemberRepository) ListByChat(ctx context.Context, chatID string) ([]domain.Membership, error) {
	rows, err := r.db.Query(ctx,
		`SELECT chat_id, user_id, joined_at FROM chat_members WHERE chat_id=$1 ORDER BY joined_at ASC`,
		chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.ChatID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
