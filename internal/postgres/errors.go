package postgres

import (
	"errors"

	"github.com/cwrk-planet/chat-service/internal/domain"

	pgconn "github.com/jackc/pgx/v5/pgconn"
)

// mapPgError — переводит уникальные нарушения в доменные ошибки.
// Уникальный индекс — единственная точка, которая закрывает гонку
// check-then-act при создании/переименовании.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 - unique violation
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "users_name_key":
				return domain.ErrUserNameTaken
			case "chats_name_key":
				return domain.ErrChatNameTaken
			case "chat_members_pkey":
				return domain.ErrAlreadyMember
			}
		}
	}

	return err
}
