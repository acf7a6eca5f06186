package repositories

import (
	"context"
	"errors"
	"strings"

	"conecta.church/models"

	"gorm.io/gorm"
)

// IUserRepository covers the minimal staff user persistence the auth glue
// needs.
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// UserRepository implements IUserRepository on gorm.
type UserRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.User]
}

// NewUserRepository builds a repository on the given database handle.
func NewUserRepository(db *gorm.DB) IUserRepository {
	return &UserRepository{db: db, base: NewBaseRepository[models.User](db)}
}

// Create inserts a user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.base.Create(ctx, user)
}

// FindByID loads a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.base.FindByID(ctx, id)
}

// FindByEmail loads a user by email, case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

var _ IUserRepository = (*UserRepository)(nil)
