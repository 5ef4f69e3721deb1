package service

import (
	"context"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/logger"
	"eventhub-backend/internal/repository"
)

type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

func NewUserService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository) UserService {
	return &userService{userRepo: userRepo, sessionRepo: sessionRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID int32, firstName, lastName, phone string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.Phone = phone
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error) {
	return s.userRepo.List(ctx, page, pageSize)
}

// SetBlocked flips the flag and, when blocking, drops the user's refresh
// session so the block holds as soon as the current access token expires.
func (s *userService) SetBlocked(ctx context.Context, userID int32, blocked bool) error {
	if err := s.userRepo.SetBlocked(ctx, userID, blocked); err != nil {
		return err
	}
	if blocked {
		if err := s.sessionRepo.DeleteByUser(ctx, userID); err != nil {
			logger.Warn("Failed to drop sessions for blocked user", "userID", userID, "error", err)
		}
	}
	logger.Info("User blocked flag updated", "userID", userID, "blocked", blocked)
	return nil
}
