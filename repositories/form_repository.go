package repositories

import (
	"context"
	"errors"

	"conecta.church/configs/configslog"
	"conecta.church/models"
	"conecta.church/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IFormRepository covers form persistence. Field replacement and deletion
// run inside service transactions through the Tx constructor.
type IFormRepository interface {
	Create(ctx context.Context, form *models.Form) error
	FindByID(ctx context.Context, id uint) (*models.Form, error)
	FindPublishedByToken(ctx context.Context, token string) (*models.Form, error)
	FindAllByUserPaginated(ctx context.Context, creatorUserID uint, params queryparams.ListParams) ([]models.Form, int64, error)
	Update(ctx context.Context, form *models.Form) error
	CountByUserID(ctx context.Context, creatorUserID uint) (int64, error)
}

// FormRepository implements IFormRepository on gorm.
type FormRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Form]
}

// NewFormRepository builds a repository on the given database handle.
func NewFormRepository(db *gorm.DB) IFormRepository {
	base := NewBaseRepository[models.Form](db)
	base.SetAllowedSortColumns(map[string]string{
		"id":         "forms.id",
		"created_at": "forms.created_at",
		"title":      "forms.title",
		"status":     "forms.status",
		"expires_at": "forms.expires_at",
	})
	return &FormRepository{db: db, base: base}
}

// NewFormRepositoryTx builds a repository bound to a running transaction.
func NewFormRepositoryTx(tx *gorm.DB) IFormRepository {
	return NewFormRepository(tx)
}

func (r *FormRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// withTree preloads fields and options in display order.
func withTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("form_fields.position ASC") }).
		Preload("Fields.Options", func(db *gorm.DB) *gorm.DB { return db.Order("field_options.position ASC") })
}

// Create inserts a form with its fields and options in one statement tree.
func (r *FormRepository) Create(ctx context.Context, form *models.Form) error {
	if form == nil {
		return errors.New("nil form")
	}
	return r.getDB(ctx).Create(form).Error
}

// FindByID loads a form with its ordered field tree.
func (r *FormRepository) FindByID(ctx context.Context, id uint) (*models.Form, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var form models.Form
	err := withTree(r.getDB(ctx)).First(&form, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("FormRepository.FindByID: db error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &form, nil
}

// FindPublishedByToken resolves either access token to a PUBLISHED form with
// its ordered field tree. Draft and closed forms are invisible here.
func (r *FormRepository) FindPublishedByToken(ctx context.Context, token string) (*models.Form, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var form models.Form
	err := withTree(r.getDB(ctx)).
		Where("(public_token = ? OR private_token = ?) AND status = ?", token, token, models.FormStatusPublished).
		First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("FormRepository.FindPublishedByToken: db error", zap.Error(err))
		return nil, err
	}
	return &form, nil
}

// FindAllByUserPaginated lists a creator's forms with status filter and
// title search.
func (r *FormRepository) FindAllByUserPaginated(ctx context.Context, creatorUserID uint, params queryparams.ListParams) ([]models.Form, int64, error) {
	if creatorUserID == 0 {
		return nil, 0, errors.New("invalid creator user id")
	}
	var forms []models.Form
	var totalCount int64

	query := r.getDB(ctx).Model(&models.Form{}).Where("forms.creator_user_id = ?", creatorUserID)
	if params.Status != "" {
		query = query.Where("forms.status = ?", params.Status)
	}
	if params.Search != "" {
		query = query.Where("LOWER(forms.title) LIKE LOWER(?)", "%"+params.Search+"%")
	}

	if err := query.Count(&totalCount).Error; err != nil {
		configslog.Log.Error("FormRepository.FindAllByUserPaginated: count error", zap.Uint("creatorUserID", creatorUserID), zap.Error(err))
		return nil, 0, err
	}
	if totalCount == 0 {
		return forms, 0, nil
	}

	orderColumn := r.base.SortColumn(params.SortBy, "forms.created_at")
	err := withTree(query).
		Order(orderColumn + " " + params.OrderBy).
		Limit(params.PerPage).
		Offset(params.CalculateOffset()).
		Find(&forms).Error
	if err != nil {
		configslog.Log.Error("FormRepository.FindAllByUserPaginated: find error", zap.Uint("creatorUserID", creatorUserID), zap.Error(err))
		return nil, totalCount, err
	}
	return forms, totalCount, nil
}

// Update saves the root form row. Field replacement is handled by the
// service transaction, not here.
func (r *FormRepository) Update(ctx context.Context, form *models.Form) error {
	if form == nil || form.ID == 0 {
		return errors.New("invalid form for update")
	}
	return r.getDB(ctx).Omit("Fields").Save(form).Error
}

// CountByUserID returns how many live forms a creator owns.
func (r *FormRepository) CountByUserID(ctx context.Context, creatorUserID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Form{}).Where("creator_user_id = ?", creatorUserID).Count(&count).Error
	return count, err
}

var _ IFormRepository = (*FormRepository)(nil)
