package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("record not found")

// IBaseRepository is the generic persistence contract shared by the
// concrete repositories.
type IBaseRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	Count(ctx context.Context) (int64, error)
	SetAllowedSortColumns(columns map[string]string)
	SortColumn(requested, fallback string) string
}

// BaseRepository implements the generic contract on top of gorm.
type BaseRepository[T any] struct {
	db          *gorm.DB
	sortColumns map[string]string
}

// NewBaseRepository wraps a database handle, which may be a transaction.
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db, sortColumns: map[string]string{}}
}

func (r *BaseRepository[T]) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// SetAllowedSortColumns whitelists the sortable columns, mapping the public
// parameter name to the real column expression.
func (r *BaseRepository[T]) SetAllowedSortColumns(columns map[string]string) {
	r.sortColumns = columns
}

// SortColumn resolves a requested sort parameter against the whitelist,
// falling back when the parameter is unknown.
func (r *BaseRepository[T]) SortColumn(requested, fallback string) string {
	if col, ok := r.sortColumns[requested]; ok {
		return col
	}
	return fallback
}

// Create inserts the entity.
func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.getDB(ctx).Create(entity).Error
}

// FindByID loads the entity by primary key.
func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := r.getDB(ctx).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// Count returns the number of live rows.
func (r *BaseRepository[T]) Count(ctx context.Context) (int64, error) {
	var entity T
	var count int64
	err := r.getDB(ctx).Model(&entity).Count(&count).Error
	return count, err
}
