package services

import (
	"context"
	"time"

	"conecta.church/configs/configslog"
	"conecta.church/models"
	"conecta.church/pkg/interpolate"
	"conecta.church/pkg/mailer"

	"go.uber.org/zap"
)

// INotificationService composes and dispatches the confirmation email for
// a recorded response. Dispatch is best effort and fully detached from the
// submission result.
type INotificationService interface {
	SendConfirmation(form *models.Form, response *models.FormResponse)
}

// NotificationService implements INotificationService on a mailer.Mailer.
type NotificationService struct {
	mailer  mailer.Mailer
	timeout time.Duration
}

// NewNotificationService wires a notification service on the given
// transport.
func NewNotificationService(m mailer.Mailer) INotificationService {
	return &NotificationService{mailer: m, timeout: 30 * time.Second}
}

// ComposeConfirmation renders the form's subject and body templates from
// the submitted answers. One variable per answer, keyed by the normalized
// field label; when two labels normalize to the same key the later answer
// wins. The reserved "email" key carries the respondent's address.
func ComposeConfirmation(form *models.Form, response *models.FormResponse) (subject, body string) {
	labels := make(map[uint]string, len(form.Fields))
	for _, f := range form.Fields {
		labels[f.ID] = f.Label
	}

	vars := make(map[string]string, len(response.Answers)+1)
	for _, a := range response.Answers {
		label, ok := labels[a.FieldID]
		if !ok {
			continue
		}
		vars[interpolate.NormalizeLabel(label)] = a.Value
	}
	if response.RespondentEmail != "" {
		vars["email"] = response.RespondentEmail
	}

	return interpolate.Render(form.EmailSubject, vars), interpolate.Render(form.EmailBody, vars)
}

// SendConfirmation dispatches the confirmation in a detached goroutine.
// A delivery failure is logged and otherwise swallowed; a successful
// submission never turns into an error because mail bounced.
func (s *NotificationService) SendConfirmation(form *models.Form, response *models.FormResponse) {
	subject, body := ComposeConfirmation(form, response)
	msg := mailer.Message{
		To:      response.RespondentEmail,
		Subject: subject,
		HTML:    body,
	}
	formID := form.ID
	responseID := response.ID

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.mailer.Send(ctx, msg); err != nil {
			configslog.Log.Warn("confirmation email failed",
				zap.Uint("formID", formID),
				zap.Uint("responseID", responseID),
				zap.Error(err))
			return
		}
		configslog.SLog.Debugf("confirmation email sent: form=%d response=%d", formID, responseID)
	}()
}

var _ INotificationService = (*NotificationService)(nil)
