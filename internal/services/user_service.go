package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/loginlab/internal/models"
	pkgauth "github.com/BradenHooton/loginlab/pkg/auth"
	pkglogger "github.com/BradenHooton/loginlab/pkg/logger"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// NewUser is the input for CreateUser
type NewUser struct {
	Username string
	Email    string
	Password string
	IsActive bool
}

// UserService handles user business logic
type UserService struct {
	repo        UserRepository
	hasher      *pkgauth.Hasher
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, hasher *pkgauth.Hasher, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *UserService {
	return &UserService{
		repo:        repo,
		hasher:      hasher,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return user, nil
}

// ListActiveUsers returns every active user in creation order
func (s *UserService) ListActiveUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.List(ctx, 0, 0)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	active := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.IsActive {
			active = append(active, u)
		}
	}
	return active, nil
}

// CreateUser hashes the password and stores a new user.
// Returns ErrConflict when the username is taken.
func (s *UserService) CreateUser(ctx context.Context, input NewUser) (*models.User, error) {
	if err := pkgauth.ValidatePassword(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBadRequest, err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	created, err := s.repo.Create(ctx, &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		IsActive:     input.IsActive,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("user creation rejected: username taken")
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user created", slog.String("user_id", created.ID))
	s.auditLogger.LogAccountAction(ctx, "user_created", created.ID, nil)
	return created, nil
}

// UpdateUser applies the non-nil fields of update
func (s *UserService) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	existing, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		existing.Username = *update.Username
	}
	if update.Email != nil {
		existing.Email = *update.Email
	}
	if update.IsActive != nil {
		existing.IsActive = *update.IsActive
	}

	updated, err := s.repo.Update(ctx, id, existing)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			return nil, models.ErrConflict
		case errors.Is(err, models.ErrNotFound):
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user updated", slog.String("user_id", id))
	s.auditLogger.LogAccountAction(ctx, "user_updated", id, nil)
	return updated, nil
}

// DeleteUser deletes a user
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user deleted", slog.String("user_id", id))
	s.auditLogger.LogAccountAction(ctx, "user_deleted", id, nil)
	return nil
}
