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

// IResponseRepository persists and reads form responses. Responses are
// append-only; there is no update or delete method on purpose.
type IResponseRepository interface {
	Create(ctx context.Context, response *models.FormResponse) error
	FindByID(ctx context.Context, id uint) (*models.FormResponse, error)
	FindAllByFormPaginated(ctx context.Context, formID uint, params queryparams.ListParams) ([]models.FormResponse, int64, error)
	CountByFormID(ctx context.Context, formID uint) (int64, error)
}

// ResponseRepository implements IResponseRepository on gorm.
type ResponseRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.FormResponse]
}

// NewResponseRepository builds a repository on the given database handle.
func NewResponseRepository(db *gorm.DB) IResponseRepository {
	base := NewBaseRepository[models.FormResponse](db)
	base.SetAllowedSortColumns(map[string]string{
		"id":           "form_responses.id",
		"submitted_at": "form_responses.submitted_at",
	})
	return &ResponseRepository{db: db, base: base}
}

func (r *ResponseRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create writes the response row and all of its answer rows in a single
// transaction. Either everything commits or nothing does.
func (r *ResponseRepository) Create(ctx context.Context, response *models.FormResponse) error {
	if response == nil || response.FormID == 0 {
		return errors.New("invalid response")
	}
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(response).Error
	})
}

// FindByID loads one response with its answers.
func (r *ResponseRepository) FindByID(ctx context.Context, id uint) (*models.FormResponse, error) {
	var response models.FormResponse
	err := r.getDB(ctx).Preload("Answers").First(&response, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ResponseRepository.FindByID: db error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &response, nil
}

// FindAllByFormPaginated lists a form's responses, newest first by default.
func (r *ResponseRepository) FindAllByFormPaginated(ctx context.Context, formID uint, params queryparams.ListParams) ([]models.FormResponse, int64, error) {
	if formID == 0 {
		return nil, 0, errors.New("invalid form id")
	}
	var responses []models.FormResponse
	var totalCount int64

	query := r.getDB(ctx).Model(&models.FormResponse{}).Where("form_id = ?", formID)
	if err := query.Count(&totalCount).Error; err != nil {
		configslog.Log.Error("ResponseRepository.FindAllByFormPaginated: count error", zap.Uint("formID", formID), zap.Error(err))
		return nil, 0, err
	}
	if totalCount == 0 {
		return responses, 0, nil
	}

	orderColumn := r.base.SortColumn(params.SortBy, "form_responses.submitted_at")
	err := query.
		Preload("Answers").
		Order(orderColumn + " " + params.OrderBy).
		Limit(params.PerPage).
		Offset(params.CalculateOffset()).
		Find(&responses).Error
	if err != nil {
		configslog.Log.Error("ResponseRepository.FindAllByFormPaginated: find error", zap.Uint("formID", formID), zap.Error(err))
		return nil, totalCount, err
	}
	return responses, totalCount, nil
}

// CountByFormID returns how many responses a form has received.
func (r *ResponseRepository) CountByFormID(ctx context.Context, formID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.FormResponse{}).Where("form_id = ?", formID).Count(&count).Error
	return count, err
}

var _ IResponseRepository = (*ResponseRepository)(nil)
