package service

import (
	"context"
	"errors"
	"fmt"

	"leadership-chatbot-server/internal/apperrors"
	"leadership-chatbot-server/internal/domain"
	"leadership-chatbot-server/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetByID resolves an authenticated user id to its record. The id comes
// from a valid token, but the user may have vanished since issuance.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
