package services

import (
	"context"
	"errors"

	"conecta.church/models"
	"conecta.church/repositories"

	"gorm.io/gorm"
)

// UserServiceError is the typed error family of the auth glue.
type UserServiceError string

func (e UserServiceError) Error() string { return string(e) }

const (
	ErrUserNotFound       UserServiceError = "user not found"
	ErrInvalidCredentials UserServiceError = "invalid email or password"
)

// IUserService is the minimal staff account surface the session layer
// needs.
type IUserService interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// UserService implements IUserService.
type UserService struct {
	repo repositories.IUserRepository
}

// NewUserService wires a user service on the given database handle.
func NewUserService(db *gorm.DB) IUserService {
	return &UserService{repo: repositories.NewUserRepository(db)}
}

// Authenticate verifies an email/password pair. The same error comes back
// for an unknown email and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID loads a staff user.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

var _ IUserService = (*UserService)(nil)
