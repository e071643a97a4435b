package service

import (
	"context"
	"fmt"

	"society-be-svc/internal/models"
	"society-be-svc/internal/repository"
	"society-be-svc/pkg/logger"
)

// UserService interface defines user administration methods
type UserService interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	SetUserActive(ctx context.Context, caller Caller, userID uint, active bool) (*models.User, error)
}

// userService implements UserService interface
type userService struct {
	userRepo repository.UserRepository
	logger   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListUsers lists every account, newest first
func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetUserActive activates or deactivates an account. Admins cannot deactivate themselves.
func (s *userService) SetUserActive(ctx context.Context, caller Caller, userID uint, active bool) (*models.User, error) {
	if !active && caller.UserID == userID {
		return nil, ErrSelfDeactivation
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"is_active": active}); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":   userID,
		"is_active": active,
		"by":        caller.UserID,
	}).Info("User status updated")

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}
