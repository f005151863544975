package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/infrastructure/logger"
	"github.com/taskflow/core/internal/ports"
)

// UserService handles profile operations and administrative account creation
type UserService struct {
	userRepo ports.UserRepository
	logger   *logger.Logger
	now      Clock
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger.WithComponent("user_service"),
		now:      UTCClock,
	}
}

// GetProfile returns the account behind the actor
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile changes the actor's names
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req ports.UpdateProfileRequest) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.LogUserAction(userID.String(), "profile.update", nil)
	return user, nil
}

// CreateUser provisions an account outside of self registration
func (s *UserService) CreateUser(ctx context.Context, req ports.RegisterRequest, superuser bool) (*entities.User, error) {
	user, err := newUser(req.Email, req.Username, req.Password, req.FirstName, req.LastName, s.now())
	if err != nil {
		return nil, err
	}
	user.IsSuperuser = superuser

	if err := ensureUnique(ctx, s.userRepo, user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Infow("User created", "user_id", user.ID, "username", user.Username, "is_superuser", superuser)
	return user, nil
}
