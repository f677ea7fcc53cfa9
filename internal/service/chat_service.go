package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

// ChatService — оркестратор чатов: проверки согласованности, запись,
// затем уведомление live-подписчиков. Порядок всегда validate -> persist
// -> broadcast; рассылка не влияет на результат вызова.
type ChatService struct {
	chatRepo   ChatStore
	memberRepo MemberStore
	userRepo   UserStore
	notifier   Notifier
}

func NewChatService(chatRepo ChatStore, memberRepo MemberStore, userRepo UserStore, notifier Notifier) *ChatService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ChatService{
		chatRepo:   chatRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// CreateChat создаёт чат и неявное членство владельца (одна транзакция в store).
func (s *ChatService) CreateChat(ctx context.Context, creatorID, name string) (*domain.Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("empty chat name")
	}

	if _, err := s.chatRepo.GetByName(ctx, name); err == nil {
		return nil, domain.ErrChatNameTaken
	} else if !errors.Is(err, domain.ErrChatNotFound) {
		return nil, fmt.Errorf("chatRepo.GetByName: %w", err)
	}
	if _, err := s.userRepo.GetByID(ctx, creatorID); err != nil {
		return nil, err
	}

	chat, err := s.chatRepo.CreateWithOwner(ctx, name, creatorID)
	if err != nil {
		return nil, fmt.Errorf("chatRepo.CreateWithOwner: %w", err)
	}

	// Новый чат ещё не имеет подписчиков; анонс уходит в лобби.
	s.notifier.ChatCreated(chat)
	return chat, nil
}

// RenameChat — только владелец; переименование в собственное текущее имя не конфликт.
func (s *ChatService) RenameChat(ctx context.Context, requesterID, chatID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return errors.New("empty chat name")
	}

	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		return err
	}
	if chat.OwnerID != requesterID {
		return domain.ErrNotOwner
	}
	if other, err := s.chatRepo.GetByName(ctx, newName); err == nil {
		if other.ID != chatID {
			return domain.ErrChatNameTaken
		}
	} else if !errors.Is(err, domain.ErrChatNotFound) {
		return fmt.Errorf("chatRepo.GetByName: %w", err)
	}

	if err := s.chatRepo.Rename(ctx, chatID, newName); err != nil {
		return fmt.Errorf("chatRepo.Rename: %w", err)
	}

	s.notifier.ChatRenamed(chatID, newName)
	return nil
}

// AddMember — добавить может любой существующий пользователь; повторное
// добавление — явный конфликт, а не тихий no-op.
func (s *ChatService) AddMember(ctx context.Context, chatID, userID string) error {
	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	exists, err := s.memberRepo.Exists(ctx, chatID, userID)
	if err != nil {
		return fmt.Errorf("memberRepo.Exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyMember
	}

	if _, err := s.memberRepo.Add(ctx, chatID, userID); err != nil {
		return fmt.Errorf("memberRepo.Add: %w", err)
	}

	// Подписка на события чата — отдельное действие клиента, не часть членства.
	s.notifier.MemberAdded(chatID, userID)
	return nil
}

// DeleteChat — уведомление уходит текущим подписчикам до удаления из
// хранилища, затем реестр подключений чистится принудительно.
func (s *ChatService) DeleteChat(ctx context.Context, requesterID, chatID string) error {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		return err
	}
	if chat.OwnerID != requesterID {
		return domain.ErrNotOwner
	}

	s.notifier.ChatDeleted(chatID)

	if err := s.chatRepo.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("chatRepo.Delete: %w", err)
	}
	return nil
}

func (s *ChatService) ListChats(ctx context.Context) ([]domain.ChatSummary, error) {
	return s.chatRepo.ListWithMemberCounts(ctx)
}

func (s *ChatService) GetChat(ctx context.Context, id string) (*domain.Chat, error) {
	return s.chatRepo.GetByID(ctx, id)
}

func (s *ChatService) GetMembers(ctx context.Context, chatID string) ([]domain.Membership, error) {
	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		return nil, err
	}
	return s.memberRepo.ListByChat(ctx, chatID)
}
