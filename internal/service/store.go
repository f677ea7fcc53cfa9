package service

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

// Интерфейсы хранилища со стороны потребителя; internal/postgres их реализует.

type UserStore interface {
	Create(ctx context.Context, name string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type ChatStore interface {
	CreateWithOwner(ctx context.Context, name, ownerID string) (*domain.Chat, error)
	GetByID(ctx context.Context, id string) (*domain.Chat, error)
	GetByName(ctx context.Context, name string) (*domain.Chat, error)
	ListWithMemberCounts(ctx context.Context) ([]domain.ChatSummary, error)
	Rename(ctx context.Context, id, newName string) error
	Delete(ctx context.Context, id string) error
}

type MemberStore interface {
	Add(ctx context.Context, chatID, userID string) (*domain.Membership, error)
	Exists(ctx context.Context, chatID, userID string) (bool, error)
	ListByChat(ctx context.Context, chatID string) ([]domain.Membership, error)
}

type MessageStore interface {
	Append(ctx context.Context, chatID, authorID, text string) (*domain.Message, error)
	ListByChat(ctx context.Context, chatID string, limit int) ([]domain.Message, error)
}
