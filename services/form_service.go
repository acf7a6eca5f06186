package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conecta.church/configs/configslog"
	"conecta.church/models"
	"conecta.church/pkg/fieldtypes"
	"conecta.church/pkg/interpolate"
	"conecta.church/pkg/queryparams"
	"conecta.church/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FormServiceError is the typed error family of the form builder service.
type FormServiceError string

func (e FormServiceError) Error() string { return string(e) }

const (
	ErrFormNotFound       FormServiceError = "form not found"
	ErrFormForbidden      FormServiceError = "not allowed to manage this form"
	ErrFormCreationFailed FormServiceError = "form could not be created"
	ErrFormUpdateFailed   FormServiceError = "form could not be updated"
	ErrFormDeletionFailed FormServiceError = "form could not be deleted"
	ErrFormNotDraft       FormServiceError = "only draft forms can be published"
	ErrFormNotPublished   FormServiceError = "only published forms can be closed"
)

// OptionInput is one option of an incoming field definition.
type OptionInput struct {
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
}

// FieldInput is one incoming field definition. A zero ID means insert; a
// known ID means update in place; stored fields absent from the incoming
// list are removed.
type FieldInput struct {
	ID          uint             `json:"id,omitempty"`
	Label       string           `json:"label"`
	Type        models.FieldType `json:"type"`
	Required    bool             `json:"required"`
	Placeholder string           `json:"placeholder,omitempty"`
	HelpText    string           `json:"helpText,omitempty"`
	Options     []OptionInput    `json:"options,omitempty"`
}

// FormInput is the staff-facing create/update payload. The field list is a
// replace-set: it always describes the whole tree.
type FormInput struct {
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Visibility   models.FormVisibility `json:"visibility,omitempty"`
	RequireAuth  bool                  `json:"requireAuth"`
	EmailEnabled bool                  `json:"emailEnabled"`
	EmailSubject string                `json:"emailSubject,omitempty"`
	EmailBody    string                `json:"emailBody,omitempty"`
	ExpiresAt    *time.Time            `json:"expiresAt,omitempty"`
	Fields       []FieldInput          `json:"fields"`
}

// IFormService covers authoring: create, read, update, delete, list and
// the publish/close lifecycle.
type IFormService interface {
	CreateForm(ctx context.Context, creatorUserID uint, input FormInput) (*models.Form, error)
	GetFormByID(ctx context.Context, id uint, requestingUserID uint) (*models.Form, error)
	UpdateForm(ctx context.Context, id uint, actingUserID uint, input FormInput) (*models.Form, error)
	DeleteForm(ctx context.Context, id uint, actingUserID uint) error
	ListFormsForUser(ctx context.Context, creatorUserID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	PublishForm(ctx context.Context, id uint, actingUserID uint) (*models.Form, error)
	CloseForm(ctx context.Context, id uint, actingUserID uint) (*models.Form, error)
}

// FormService implements IFormService.
type FormService struct {
	db    *gorm.DB
	repo  repositories.IFormRepository
	users repositories.IUserRepository
}

// NewFormService wires a form service on the given database handle.
func NewFormService(db *gorm.DB) IFormService {
	return &FormService{
		db:    db,
		repo:  repositories.NewFormRepository(db),
		users: repositories.NewUserRepository(db),
	}
}

// lockForUpdate takes a row lock on dialects that support it. SQLite has
// no FOR UPDATE; its writes are serialized anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// ValidateFormInput checks the authoring payload at the boundary and
// enumerates every violation instead of stopping at the first.
func ValidateFormInput(input FormInput) *ValidationError {
	verr := &ValidationError{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		verr.Add("title", "must not be empty")
	} else if len([]rune(title)) > 200 {
		verr.Add("title", "must be at most 200 characters")
	}

	if input.Visibility != "" &&
		input.Visibility != models.FormVisibilityPublic &&
		input.Visibility != models.FormVisibilityPrivate {
		verr.Add("visibility", "must be PUBLIC or PRIVATE")
	}

	if len(input.Fields) == 0 {
		verr.Add("fields", "at least one field is required")
	}
	for i, field := range input.Fields {
		path := fmt.Sprintf("fields[%d]", i)
		if strings.TrimSpace(field.Label) == "" {
			verr.Add(path+".label", "must not be empty")
		}
		if !fieldtypes.Valid(field.Type) {
			verr.Add(path+".type", fmt.Sprintf("unknown field type %q", field.Type))
			continue
		}
		if fieldtypes.RequiresOptions(field.Type) {
			if len(field.Options) < 2 {
				verr.Add(path+".options", "option fields need at least 2 options")
			}
			for j, opt := range field.Options {
				if strings.TrimSpace(opt.Label) == "" {
					verr.Add(fmt.Sprintf("%s.options[%d].label", path, j), "must not be empty")
				}
			}
		} else if len(field.Options) > 0 {
			verr.Add(path+".options", "options are not allowed for this field type")
		}
	}

	if input.EmailEnabled && strings.TrimSpace(input.EmailSubject) == "" {
		verr.Add("emailSubject", "required when confirmation email is enabled")
	}

	if len(verr.Violations) == 0 {
		return nil
	}
	return verr
}

func buildFields(inputs []FieldInput) []models.FormField {
	fields := make([]models.FormField, 0, len(inputs))
	for i, in := range inputs {
		fields = append(fields, models.FormField{
			Label:       in.Label,
			Type:        in.Type,
			Required:    in.Required,
			Placeholder: in.Placeholder,
			HelpText:    in.HelpText,
			Position:    i,
			Options:     buildOptions(in),
		})
	}
	return fields
}

func buildOptions(in FieldInput) []models.FieldOption {
	if !fieldtypes.RequiresOptions(in.Type) {
		return nil
	}
	options := make([]models.FieldOption, 0, len(in.Options))
	for j, opt := range in.Options {
		value := strings.TrimSpace(opt.Value)
		if value == "" {
			value = interpolate.NormalizeLabel(opt.Label)
		}
		options = append(options, models.FieldOption{
			Label:    opt.Label,
			Value:    value,
			Position: j,
		})
	}
	return options
}

func (s *FormService) applyInput(form *models.Form, input FormInput) {
	form.Title = strings.TrimSpace(input.Title)
	form.Description = input.Description
	if input.Visibility != "" {
		form.Visibility = input.Visibility
	}
	form.RequireAuth = input.RequireAuth
	form.EmailEnabled = input.EmailEnabled
	form.EmailSubject = input.EmailSubject
	form.EmailBody = input.EmailBody
	form.ExpiresAt = input.ExpiresAt
}

// checkOwnership loads the acting user and verifies it may manage the form.
// System users may manage everything.
func (s *FormService) checkOwnership(ctx context.Context, users repositories.IUserRepository, form *models.Form, actingUserID uint) error {
	user, err := users.FindByID(ctx, actingUserID)
	if err != nil {
		return ErrFormForbidden
	}
	if !user.IsSystem && form.CreatorUserID != actingUserID {
		return ErrFormForbidden
	}
	return nil
}

// CreateForm persists a new draft form with its whole field tree.
func (s *FormService) CreateForm(ctx context.Context, creatorUserID uint, input FormInput) (*models.Form, error) {
	if creatorUserID == 0 {
		return nil, ErrFormForbidden
	}
	if verr := ValidateFormInput(input); verr != nil {
		return nil, verr
	}

	form := &models.Form{
		CreatorUserID: creatorUserID,
		Status:        models.FormStatusDraft,
		Fields:        buildFields(input.Fields),
	}
	s.applyInput(form, input)

	ctx = context.WithValue(ctx, models.ContextUserIDKey, creatorUserID)
	if err := s.repo.Create(ctx, form); err != nil {
		configslog.Log.Error("CreateForm failed", zap.Uint("creatorUserID", creatorUserID), zap.Error(err))
		return nil, ErrFormCreationFailed
	}

	configslog.SLog.Infof("form created: id=%d title=%q creator=%d", form.ID, form.Title, creatorUserID)
	return form, nil
}

// GetFormByID loads a form for its owner (or a system user).
func (s *FormService) GetFormByID(ctx context.Context, id uint, requestingUserID uint) (*models.Form, error) {
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	if err := s.checkOwnership(ctx, s.users, form, requestingUserID); err != nil {
		return nil, err
	}
	return form, nil
}

// UpdateForm rewrites a form and its whole field tree in one transaction.
// The incoming field list is a replace-set: stored fields missing from it
// are removed, fields without an ID are inserted, and positions follow the
// array order. Answers referencing removed fields stay behind.
func (s *FormService) UpdateForm(ctx context.Context, id uint, actingUserID uint, input FormInput) (*models.Form, error) {
	if id == 0 || actingUserID == 0 {
		return nil, ErrFormNotFound
	}
	if verr := ValidateFormInput(input); verr != nil {
		return nil, verr
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, models.ContextUserIDKey, actingUserID)
		userRepoTx := repositories.NewUserRepository(tx)

		var existing models.Form
		err := lockForUpdate(tx.WithContext(txCtx)).
			Preload("Fields.Options").
			Preload("Fields").
			First(&existing, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFormNotFound
			}
			return err
		}

		if err := s.checkOwnership(txCtx, userRepoTx, &existing, actingUserID); err != nil {
			return err
		}

		if err := s.replaceFieldTree(tx.WithContext(txCtx), &existing, input.Fields); err != nil {
			return err
		}

		s.applyInput(&existing, input)
		if err := tx.WithContext(txCtx).Omit("Fields").Save(&existing).Error; err != nil {
			return err
		}
		return nil
	})

	if txErr != nil {
		var verr *ValidationError
		if errors.Is(txErr, ErrFormNotFound) || errors.Is(txErr, ErrFormForbidden) || errors.As(txErr, &verr) {
			return nil, txErr
		}
		configslog.Log.Error("UpdateForm transaction failed", zap.Uint("id", id), zap.Uint("actingUserID", actingUserID), zap.Error(txErr))
		return nil, ErrFormUpdateFailed
	}

	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrFormUpdateFailed
	}
	configslog.SLog.Infof("form updated: id=%d fields=%d (by %d)", form.ID, len(form.Fields), actingUserID)
	return form, nil
}

// replaceFieldTree diffs the incoming field list against the stored one by
// ID and applies the replace-set policy inside the caller's transaction.
func (s *FormService) replaceFieldTree(tx *gorm.DB, form *models.Form, inputs []FieldInput) error {
	stored := make(map[uint]models.FormField, len(form.Fields))
	for _, f := range form.Fields {
		stored[f.ID] = f
	}

	kept := make(map[uint]bool, len(inputs))
	for position, in := range inputs {
		existing, known := stored[in.ID]
		if in.ID != 0 && known {
			kept[in.ID] = true
			existing.Label = in.Label
			existing.Type = in.Type
			existing.Required = in.Required
			existing.Placeholder = in.Placeholder
			existing.HelpText = in.HelpText
			existing.Position = position
			if err := tx.Omit("Options").Save(&existing).Error; err != nil {
				return err
			}
			// Options are whole-tree replaced, not patched.
			if err := tx.Where("field_id = ?", existing.ID).Delete(&models.FieldOption{}).Error; err != nil {
				return err
			}
			for _, opt := range buildOptions(in) {
				opt.FieldID = existing.ID
				if err := tx.Create(&opt).Error; err != nil {
					return err
				}
			}
			continue
		}

		field := models.FormField{
			FormID:      form.ID,
			Label:       in.Label,
			Type:        in.Type,
			Required:    in.Required,
			Placeholder: in.Placeholder,
			HelpText:    in.HelpText,
			Position:    position,
			Options:     buildOptions(in),
		}
		if err := tx.Create(&field).Error; err != nil {
			return err
		}
	}

	for id := range stored {
		if kept[id] {
			continue
		}
		// Removing a field orphans any answers that reference it; the
		// response rows themselves survive.
		if err := tx.Where("field_id = ?", id).Delete(&models.FieldOption{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.FormField{}, id).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteForm removes a form with its fields, options, responses and
// answers in one transaction.
func (s *FormService) DeleteForm(ctx context.Context, id uint, actingUserID uint) error {
	if id == 0 || actingUserID == 0 {
		return ErrFormNotFound
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, models.ContextUserIDKey, actingUserID)
		userRepoTx := repositories.NewUserRepository(tx)

		var form models.Form
		err := lockForUpdate(tx.WithContext(txCtx)).First(&form, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFormNotFound
			}
			return err
		}
		if err := s.checkOwnership(txCtx, userRepoTx, &form, actingUserID); err != nil {
			return err
		}

		db := tx.WithContext(txCtx)
		responseIDs := db.Model(&models.FormResponse{}).Select("id").Where("form_id = ?", id)
		if err := db.Where("response_id IN (?)", responseIDs).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := db.Where("form_id = ?", id).Delete(&models.FormResponse{}).Error; err != nil {
			return err
		}
		fieldIDs := db.Model(&models.FormField{}).Select("id").Where("form_id = ?", id)
		if err := db.Where("field_id IN (?)", fieldIDs).Delete(&models.FieldOption{}).Error; err != nil {
			return err
		}
		if err := db.Where("form_id = ?", id).Delete(&models.FormField{}).Error; err != nil {
			return err
		}
		return db.Delete(&form).Error
	})

	if txErr != nil {
		if errors.Is(txErr, ErrFormNotFound) || errors.Is(txErr, ErrFormForbidden) {
			return txErr
		}
		configslog.Log.Error("DeleteForm transaction failed", zap.Uint("id", id), zap.Uint("actingUserID", actingUserID), zap.Error(txErr))
		return ErrFormDeletionFailed
	}
	configslog.SLog.Infof("form deleted: id=%d (by %d)", id, actingUserID)
	return nil
}

// ListFormsForUser pages through a creator's forms.
func (s *FormService) ListFormsForUser(ctx context.Context, creatorUserID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if creatorUserID == 0 {
		return nil, ErrFormForbidden
	}
	params.Validate()

	forms, totalCount, err := s.repo.FindAllByUserPaginated(ctx, creatorUserID, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: forms,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  totalCount,
			TotalPages:  queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	}, nil
}

// transition loads, guards and saves a status change under a row lock.
func (s *FormService) transition(ctx context.Context, id, actingUserID uint, guard func(*models.Form) error, to models.FormStatus) (*models.Form, error) {
	if id == 0 || actingUserID == 0 {
		return nil, ErrFormNotFound
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, models.ContextUserIDKey, actingUserID)
		userRepoTx := repositories.NewUserRepository(tx)

		var form models.Form
		err := lockForUpdate(tx.WithContext(txCtx)).
			Preload("Fields").
			First(&form, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFormNotFound
			}
			return err
		}
		if err := s.checkOwnership(txCtx, userRepoTx, &form, actingUserID); err != nil {
			return err
		}
		if err := guard(&form); err != nil {
			return err
		}
		form.Status = to
		return tx.WithContext(txCtx).Omit("Fields").Save(&form).Error
	})

	if txErr != nil {
		return nil, txErr
	}
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrFormUpdateFailed
	}
	configslog.SLog.Infof("form status changed: id=%d status=%s (by %d)", id, to, actingUserID)
	return form, nil
}

// PublishForm moves a draft to PUBLISHED. A publishable form needs at
// least one field, and a confirmation subject when email is enabled.
func (s *FormService) PublishForm(ctx context.Context, id uint, actingUserID uint) (*models.Form, error) {
	return s.transition(ctx, id, actingUserID, func(form *models.Form) error {
		if form.Status != models.FormStatusDraft {
			return ErrFormNotDraft
		}
		verr := &ValidationError{}
		if len(form.Fields) == 0 {
			verr.Add("fields", "a form needs at least one field before publishing")
		}
		if form.EmailEnabled && strings.TrimSpace(form.EmailSubject) == "" {
			verr.Add("emailSubject", "required when confirmation email is enabled")
		}
		if len(verr.Violations) > 0 {
			return verr
		}
		return nil
	}, models.FormStatusPublished)
}

// CloseForm moves a published form to CLOSED. Closed forms reject new
// submissions; there is no way back.
func (s *FormService) CloseForm(ctx context.Context, id uint, actingUserID uint) (*models.Form, error) {
	return s.transition(ctx, id, actingUserID, func(form *models.Form) error {
		if form.Status != models.FormStatusPublished {
			return ErrFormNotPublished
		}
		return nil
	}, models.FormStatusClosed)
}

var _ IFormService = (*FormService)(nil)
