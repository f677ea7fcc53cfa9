package domain

import "time"

type Chat struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	OwnerID   string    `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
}

// ChatSummary — строка списка чатов с количеством участников.
type ChatSummary struct {
	ID      string
	Name    string
	OwnerID string
	Members int64
}

type Membership struct {
	ChatID   string    `db:"chat_id"`
	UserID   string    `db:"user_id"`
	JoinedAt time.Time `db:"joined_at"`
}
