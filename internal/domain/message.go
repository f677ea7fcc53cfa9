package domain

import "time"

type Message struct {
	ID        string    `db:"id"`
	ChatID    string    `db:"chat_id"`
	AuthorID  string    `db:"author_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}
