package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conecta.church/models"
)

func TestSubmitRecordsResponse(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	form := createPublishedForm(t, db, owner, nil)
	svc := NewSubmissionService(db, noopNotifier{})

	response, err := svc.Submit(context.Background(), form.PublicToken, Visitor{}, SubmissionEnvelope{
		FormID:          form.ID,
		RespondentEmail: "ana@example.com",
		Answers: []SubmissionAnswer{
			{FieldID: form.Fields[0].ID, Value: "Ana Souza"},
			{FieldID: form.Fields[1].ID, Value: "ana@example.com"},
			{FieldID: form.Fields[2].ID, Value: "web"},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, response.ID)
	assert.Equal(t, form.ID, response.FormID)
	assert.Equal(t, "ana@example.com", response.RespondentEmail)
	assert.Nil(t, response.RespondentUserID)
	assert.False(t, response.SubmittedAt.IsZero())

	var stored models.FormResponse
	require.NoError(t, db.Preload("Answers").First(&stored, response.ID).Error)
	assert.Len(t, stored.Answers, 3)
}

func TestSubmitValidationFailureLeavesNothingBehind(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	form := createPublishedForm(t, db, owner, nil)
	svc := NewSubmissionService(db, noopNotifier{})

	_, err := svc.Submit(context.Background(), form.PublicToken, Visitor{}, SubmissionEnvelope{
		FormID: form.ID,
		Answers: []SubmissionAnswer{
			{FieldID: form.Fields[1].ID, Value: "not-an-email"},
		},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	// the missing required name and the malformed email are both reported
	assert.ElementsMatch(t, []string{
		fmt.Sprintf("fields.%d", form.Fields[0].ID),
		fmt.Sprintf("fields.%d", form.Fields[1].ID),
	}, violationPaths(verr))

	var count int64
	require.NoError(t, db.Model(&models.FormResponse{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitOmitsBlankAnswers(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	form := createPublishedForm(t, db, owner, func(in *FormInput) {
		in.Fields = []FieldInput{
			{Label: "Name", Type: models.FieldTypeShortText, Required: true},
			{Label: "Notes", Type: models.FieldTypeLongText},
		}
	})
	svc := NewSubmissionService(db, noopNotifier{})

	response, err := svc.Submit(context.Background(), form.PublicToken, Visitor{}, SubmissionEnvelope{
		FormID: form.ID,
		Answers: []SubmissionAnswer{
			{FieldID: form.Fields[0].ID, Value: "Ana"},
			{FieldID: form.Fields[1].ID, Value: "   "},
		},
	})
	require.NoError(t, err)
	require.Len(t, response.Answers, 1)
	assert.Equal(t, form.Fields[0].ID, response.Answers[0].FieldID)
}

func TestSubmitCheckboxRoundTrip(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	form := createPublishedForm(t, db, owner, func(in *FormInput) {
		in.Fields = []FieldInput{
			{Label: "Ministries", Type: models.FieldTypeCheckbox, Required: true, Options: []OptionInput{
				{Label: "Choir"},
				{Label: "Welcome team"},
			}},
		}
	})
	svc := NewSubmissionService(db, noopNotifier{})

	response, err := svc.Submit(context.Background(), form.PublicToken, Visitor{}, SubmissionEnvelope{
		FormID: form.ID,
		Answers: []SubmissionAnswer{
			{FieldID: form.Fields[0].ID, Value: `["choir","welcome_team"]`},
		},
	})
	require.NoError(t, err)

	var stored models.Answer
	require.NoError(t, db.Where("response_id = ?", response.ID).First(&stored).Error)
	values, err := stored.MultiValues()
	require.NoError(t, err)
	assert.Equal(t, []string{"choir", "welcome_team"}, values)
}

func TestSubmitRecordsRespondentOnAuthenticatedPrivateLink(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	respondent := createTestUser(t, db, "member@example.com", false)
	form := createPublishedForm(t, db, owner, func(in *FormInput) {
		in.RequireAuth = true
	})
	svc := NewSubmissionService(db, noopNotifier{})
	visitor := Visitor{Authenticated: true, UserID: respondent.ID}

	envelope := SubmissionEnvelope{
		FormID: form.ID,
		Answers: []SubmissionAnswer{
			{FieldID: form.Fields[0].ID, Value: "Maria"},
			{FieldID: form.Fields[1].ID, Value: "maria@example.com"},
		},
	}

	response, err := svc.Submit(context.Background(), form.PrivateToken, visitor, envelope)
	require.NoError(t, err)
	require.NotNil(t, response.RespondentUserID)
	assert.Equal(t, respondent.ID, *response.RespondentUserID)

	// via the public link the identity stays off the record even with a
	// session, since requireAuth is not in play there
	publicForm := createPublishedForm(t, db, owner, nil)
	envelope.FormID = publicForm.ID
	envelope.Answers = []SubmissionAnswer{
		{FieldID: publicForm.Fields[0].ID, Value: "Maria"},
		{FieldID: publicForm.Fields[1].ID, Value: "maria@example.com"},
	}
	response, err = svc.Submit(context.Background(), publicForm.PublicToken, visitor, envelope)
	require.NoError(t, err)
	assert.Nil(t, response.RespondentUserID)
}

func TestSubmitClosedFormRejected(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	form := createPublishedForm(t, db, owner, nil)
	_, err := NewFormService(db).CloseForm(context.Background(), form.ID, owner.ID)
	require.NoError(t, err)

	svc := NewSubmissionService(db, noopNotifier{})
	_, err = svc.Submit(context.Background(), form.PublicToken, Visitor{}, SubmissionEnvelope{FormID: form.ID})
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestSubmitExpiredFormRejected(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	form := createPublishedForm(t, db, owner, func(in *FormInput) {
		in.ExpiresAt = futureTime(-time.Hour)
	})

	svc := NewSubmissionService(db, noopNotifier{})
	_, err := svc.Submit(context.Background(), form.PublicToken, Visitor{}, SubmissionEnvelope{
		FormID: form.ID,
		Answers: []SubmissionAnswer{
			{FieldID: form.Fields[0].ID, Value: "Ana"},
			{FieldID: form.Fields[1].ID, Value: "ana@example.com"},
		},
	})
	assert.ErrorIs(t, err, ErrFormExpired)
}

// noopNotifier satisfies INotificationService for tests that do not care
// about mail.
type noopNotifier struct{}

func (noopNotifier) SendConfirmation(*models.Form, *models.FormResponse) {}
