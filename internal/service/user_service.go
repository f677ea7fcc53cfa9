package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

type UserService struct {
	userRepo UserStore
}

func NewUserService(userRepo UserStore) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUser создаёт пользователя с глобально уникальным именем.
// Предпроверка имени даёт дружелюбную ошибку; саму гонку закрывает
// уникальный индекс в хранилище.
func (s *UserService) CreateUser(ctx context.Context, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("empty user name")
	}

	if _, err := s.userRepo.GetByName(ctx, name); err == nil {
		return nil, domain.ErrUserNameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("userRepo.GetByName: %w", err)
	}

	u, err := s.userRepo.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("userRepo.Create: %w", err)
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}
