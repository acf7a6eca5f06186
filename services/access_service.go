package services

import (
	"context"
	"errors"
	"time"

	"conecta.church/models"
	"conecta.church/repositories"

	"gorm.io/gorm"
)

// AccessServiceError is the typed error family of the token gate.
type AccessServiceError string

func (e AccessServiceError) Error() string { return string(e) }

const (
	// ErrFormExpired means the form matched but is past its expiry
	// cutover. Reads and writes are both rejected.
	ErrFormExpired AccessServiceError = "form has closed"
	// ErrFormAuthRequired means the private link demands a signed-in
	// respondent and the caller has no session.
	ErrFormAuthRequired AccessServiceError = "authentication required"
)

// Visitor is the session information of the caller, supplied by the
// session middleware. The resolver only ever reads it.
type Visitor struct {
	Authenticated bool
	UserID        uint
}

// PublicOption is the respondent-facing shape of a field option.
type PublicOption struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// PublicField is the respondent-facing shape of a field. Internal tokens,
// email templates and auth flags never appear here.
type PublicField struct {
	ID          uint             `json:"id"`
	Label       string           `json:"label"`
	Type        models.FieldType `json:"type"`
	Required    bool             `json:"required"`
	Placeholder string           `json:"placeholder,omitempty"`
	HelpText    string           `json:"helpText,omitempty"`
	Options     []PublicOption   `json:"options,omitempty"`
	Order       int              `json:"order"`
}

// PublicForm is what a respondent gets back from a successful read.
type PublicForm struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Fields      []PublicField `json:"fields"`
}

// IAccessService resolves an access token to a usable form, applying the
// publication, expiry and auth gates in order. It has no side effects.
type IAccessService interface {
	ResolveForRead(ctx context.Context, token string, visitor Visitor) (*PublicForm, error)
	ResolveForWrite(ctx context.Context, token string, visitor Visitor) (*models.Form, error)
}

// AccessService implements IAccessService.
type AccessService struct {
	repo repositories.IFormRepository
	now  func() time.Time
}

// NewAccessService wires an access service on the given database handle.
func NewAccessService(db *gorm.DB) IAccessService {
	return &AccessService{repo: repositories.NewFormRepository(db), now: time.Now}
}

// resolve runs the gate sequence shared by reads and writes:
//  1. token must match a PUBLISHED form (the public token only counts when
//     the form's visibility is PUBLIC),
//  2. the form must not be past its expiry cutover,
//  3. a private-token access with requireAuth set needs a session.
func (s *AccessService) resolve(ctx context.Context, token string, visitor Visitor) (*models.Form, error) {
	form, err := s.repo.FindPublishedByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	isPrivateToken := token == form.PrivateToken
	if !isPrivateToken && form.Visibility != models.FormVisibilityPublic {
		return nil, ErrFormNotFound
	}

	if form.IsExpired(s.now().UTC()) {
		return nil, ErrFormExpired
	}

	// requireAuth is only enforceable on the private link; the public
	// link is anonymous by construction.
	if form.RequireAuth && isPrivateToken && !visitor.Authenticated {
		return nil, ErrFormAuthRequired
	}

	return form, nil
}

// ResolveForRead gates a read and returns only what rendering needs.
func (s *AccessService) ResolveForRead(ctx context.Context, token string, visitor Visitor) (*PublicForm, error) {
	form, err := s.resolve(ctx, token, visitor)
	if err != nil {
		return nil, err
	}
	return sanitize(form), nil
}

// ResolveForWrite gates a submission and returns the full form so the
// caller can build the validator from the live field list.
func (s *AccessService) ResolveForWrite(ctx context.Context, token string, visitor Visitor) (*models.Form, error) {
	return s.resolve(ctx, token, visitor)
}

func sanitize(form *models.Form) *PublicForm {
	out := &PublicForm{
		ID:          form.ID,
		Title:       form.Title,
		Description: form.Description,
		Fields:      make([]PublicField, 0, len(form.Fields)),
	}
	for _, f := range form.Fields {
		pf := PublicField{
			ID:          f.ID,
			Label:       f.Label,
			Type:        f.Type,
			Required:    f.Required,
			Placeholder: f.Placeholder,
			HelpText:    f.HelpText,
			Order:       f.Position,
		}
		for _, o := range f.Options {
			pf.Options = append(pf.Options, PublicOption{ID: o.ID, Label: o.Label, Value: o.Value})
		}
		out.Fields = append(out.Fields, pf)
	}
	return out
}

var _ IAccessService = (*AccessService)(nil)
