package services

import (
	"context"
	"strings"
	"time"

	"conecta.church/configs/configslog"
	"conecta.church/models"
	"conecta.church/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmissionServiceError is the typed error family of the submission path.
type SubmissionServiceError string

func (e SubmissionServiceError) Error() string { return string(e) }

// ErrResponseSaveFailed wraps any storage failure while recording a
// response. The handler must not retry automatically; a retry could
// duplicate the response.
const ErrResponseSaveFailed SubmissionServiceError = "response could not be saved"

// ISubmissionService accepts a public submission end to end: gate, dynamic
// validation, atomic persistence and confirmation dispatch.
type ISubmissionService interface {
	Submit(ctx context.Context, token string, visitor Visitor, envelope SubmissionEnvelope) (*models.FormResponse, error)
}

// SubmissionService implements ISubmissionService.
type SubmissionService struct {
	access    IAccessService
	responses repositories.IResponseRepository
	notifier  INotificationService
	now       func() time.Time
}

// NewSubmissionService wires a submission service on the given database
// handle and notifier.
func NewSubmissionService(db *gorm.DB, notifier INotificationService) ISubmissionService {
	return &SubmissionService{
		access:    NewAccessService(db),
		responses: repositories.NewResponseRepository(db),
		notifier:  notifier,
		now:       time.Now,
	}
}

// Submit runs the full submission pipeline. The validator is built from
// the field list fetched in this request, so a field added after the page
// was rendered is still enforced.
func (s *SubmissionService) Submit(ctx context.Context, token string, visitor Visitor, envelope SubmissionEnvelope) (*models.FormResponse, error) {
	form, err := s.access.ResolveForWrite(ctx, token, visitor)
	if err != nil {
		return nil, err
	}

	if verr := BuildValidator(form.Fields)(envelope); verr != nil {
		return nil, verr
	}

	response := &models.FormResponse{
		FormID:          form.ID,
		RespondentEmail: strings.TrimSpace(envelope.RespondentEmail),
		SubmittedAt:     s.now().UTC(),
	}
	// The respondent identity is only recorded on the authenticated
	// private-link path.
	if form.RequireAuth && token == form.PrivateToken && visitor.Authenticated {
		userID := visitor.UserID
		response.RespondentUserID = &userID
	}
	// Blank optional answers are omitted rather than stored empty.
	for _, a := range envelope.Answers {
		if strings.TrimSpace(a.Value) == "" {
			continue
		}
		response.Answers = append(response.Answers, models.Answer{
			FieldID: a.FieldID,
			Value:   a.Value,
		})
	}

	if err := s.responses.Create(ctx, response); err != nil {
		configslog.Log.Error("recording response failed",
			zap.Uint("formID", form.ID), zap.Error(err))
		return nil, ErrResponseSaveFailed
	}

	configslog.SLog.Infof("response recorded: form=%d response=%d answers=%d",
		form.ID, response.ID, len(response.Answers))

	if form.EmailEnabled && response.RespondentEmail != "" {
		// Fire and forget: delivery never blocks or fails the
		// submission result.
		s.notifier.SendConfirmation(form, response)
	}

	return response, nil
}

var _ ISubmissionService = (*SubmissionService)(nil)
