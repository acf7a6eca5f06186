package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"conecta.church/models"
)

// SubmissionAnswer is one submitted field value. CHECKBOX values arrive as
// a JSON encoded string array inside Value.
type SubmissionAnswer struct {
	FieldID uint   `json:"fieldId"`
	Value   string `json:"value"`
}

// SubmissionEnvelope is the public submission payload.
type SubmissionEnvelope struct {
	FormID          uint               `json:"formId"`
	RespondentEmail string             `json:"respondentEmail,omitempty"`
	Answers         []SubmissionAnswer `json:"answers"`
}

var (
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Loose on purpose: at least 8 characters of digits, spaces,
	// hyphens, parentheses or plus signs.
	phoneShape = regexp.MustCompile(`^[0-9\s\-()+]{8,}$`)
)

// SubmissionValidator checks one envelope against the field list it was
// built from. A nil result means the envelope passed.
type SubmissionValidator func(envelope SubmissionEnvelope) *ValidationError

// BuildValidator synthesizes a validator from a form's field list as it
// exists right now. It is a pure function of the slice: no caching, no
// I/O, so correctness tracks the live schema by construction. Answers for
// unknown field IDs pass through untouched; a field removed between render
// and submit surfaces as an orphaned answer, not a rejection.
func BuildValidator(fields []models.FormField) SubmissionValidator {
	byID := make(map[uint]models.FormField, len(fields))
	requiredIDs := make([]uint, 0, len(fields))
	for _, f := range fields {
		byID[f.ID] = f
		if f.Required {
			requiredIDs = append(requiredIDs, f.ID)
		}
	}

	return func(envelope SubmissionEnvelope) *ValidationError {
		verr := &ValidationError{}

		if envelope.RespondentEmail != "" && !emailShape.MatchString(envelope.RespondentEmail) {
			verr.Add("respondentEmail", "must be a valid email address")
		}

		answered := make(map[uint]string, len(envelope.Answers))
		for _, a := range envelope.Answers {
			if strings.TrimSpace(a.Value) != "" {
				answered[a.FieldID] = a.Value
			}
		}

		// Required-field containment: every required field ID must be
		// among the non-empty answers.
		for _, id := range requiredIDs {
			if _, ok := answered[id]; !ok {
				verr.Add(fmt.Sprintf("fields.%d", id), "this field is required")
			}
		}

		for id, value := range answered {
			field, known := byID[id]
			if !known {
				continue
			}
			path := fmt.Sprintf("fields.%d", id)
			switch field.Type {
			case models.FieldTypeEmail:
				// Email shape applies to any present value,
				// required or not.
				if !emailShape.MatchString(strings.TrimSpace(value)) {
					verr.Add(path, "must be a valid email address")
				}
			case models.FieldTypePhone:
				// Phone shape is only enforced on required fields;
				// optional phones accept anything.
				if field.Required && !phoneShape.MatchString(strings.TrimSpace(value)) {
					verr.Add(path, "must be a valid phone number")
				}
			case models.FieldTypeNumber:
				if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
					verr.Add(path, "must be a number")
				}
			}
		}

		if len(verr.Violations) == 0 {
			return nil
		}
		return verr
	}
}
