package service

import (
	"context"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
}

func NewUserService(repository UserRepository) *UserService {
	return &UserService{repository: repository}
}

// EnsureUser stores the user and reports whether it was seen for the first time.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64, username, languageCode string) (bool, error) {
	user := entities.NewUser(userID, chatID, username, languageCode)
	return s.repository.Save(ctx, user)
}
