package services

import "strings"

// FieldError is one violated constraint, addressed by a path such as
// "title", "fields[2].options" or "fields.17".
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError carries every violated constraint of a request, never
// just the first one, so callers can render per-field errors.
type ValidationError struct {
	Violations []FieldError `json:"errors"`
}

// Error joins the violations into a single diagnostic string.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Path + ": " + v.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a violation.
func (e *ValidationError) Add(path, message string) {
	e.Violations = append(e.Violations, FieldError{Path: path, Message: message})
}

// OrNil returns the error when at least one violation was recorded.
func (e *ValidationError) OrNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
