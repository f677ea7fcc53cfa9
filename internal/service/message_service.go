package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

const defaultMaxMessageLen = 4000

type MessageService struct {
	msgRepo    MessageStore
	chatRepo   ChatStore
	userRepo   UserStore
	memberRepo MemberStore
	notifier   Notifier

	// requireMembership — писать в чат могут только его участники.
	// По умолчанию выключено: исторически сообщение авторизуется
	// существованием автора и чата.
	requireMembership bool
	maxMessageLen     int
}

func NewMessageService(msgRepo MessageStore, chatRepo ChatStore, userRepo UserStore, memberRepo MemberStore, notifier Notifier) *MessageService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &MessageService{
		msgRepo:       msgRepo,
		chatRepo:      chatRepo,
		userRepo:      userRepo,
		memberRepo:    memberRepo,
		notifier:      notifier,
		maxMessageLen: defaultMaxMessageLen,
	}
}

func (s *MessageService) SetRequireMembership(v bool) {
	s.requireMembership = v
}

func (s *MessageService) SetMaxMessageLen(n int) {
	if n > 0 {
		s.maxMessageLen = n
	}
}

// SendMessage — validate -> persist -> broadcast. Событие уходит подписчикам
// уже с присвоенными id и меткой времени.
func (s *MessageService) SendMessage(ctx context.Context, chatID, authorID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty message")
	}
	if len(text) > s.maxMessageLen {
		return nil, errors.New("message too long")
	}

	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	if s.requireMembership {
		member, err := s.memberRepo.Exists(ctx, chatID, authorID)
		if err != nil {
			return nil, fmt.Errorf("memberRepo.Exists: %w", err)
		}
		if !member {
			return nil, domain.ErrNotMember
		}
	}

	msg, err := s.msgRepo.Append(ctx, chatID, authorID, text)
	if err != nil {
		return nil, fmt.Errorf("msgRepo.Append: %w", err)
	}

	s.notifier.MessageCreated(chatID, msg)
	return msg, nil
}

// GetMessages — история чата по возрастанию метки времени.
func (s *MessageService) GetMessages(ctx context.Context, chatID string, limit int) ([]domain.Message, error) {
	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		return nil, err
	}
	return s.msgRepo.ListByChat(ctx, chatID, limit)
}
