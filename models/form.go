package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormStatus is the lifecycle state of a form.
type FormStatus string

const (
	FormStatusDraft     FormStatus = "DRAFT"
	FormStatusPublished FormStatus = "PUBLISHED"
	FormStatusClosed    FormStatus = "CLOSED"
)

// FormVisibility controls whether the anonymous public link is usable.
type FormVisibility string

const (
	FormVisibilityPublic  FormVisibility = "PUBLIC"
	FormVisibilityPrivate FormVisibility = "PRIVATE"
)

// Form is the root aggregate of the dynamic form engine. It owns an ordered
// list of fields and is reachable from outside only through its tokens.
type Form struct {
	BaseModel
	CreatorUserID uint           `gorm:"index;not null" json:"-"`
	Title         string         `gorm:"type:varchar(200);not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Status        FormStatus     `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Visibility    FormVisibility `gorm:"type:varchar(20);not null;default:'PUBLIC'" json:"visibility"`
	RequireAuth   bool           `gorm:"default:false" json:"requireAuth"`
	EmailEnabled  bool           `gorm:"default:false" json:"emailEnabled"`
	EmailSubject  string         `gorm:"type:varchar(255)" json:"emailSubject"`
	EmailBody     string         `gorm:"type:text" json:"emailBody"`
	ExpiresAt     *time.Time     `gorm:"index" json:"expiresAt"`
	PublicToken   string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"publicToken"`
	PrivateToken  string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"privateToken"`

	Fields []FormField `gorm:"foreignKey:FormID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"fields"`
}

// BeforeCreate assigns the stable access tokens. Tokens never change for
// the lifetime of a form.
func (f *Form) BeforeCreate(tx *gorm.DB) error {
	if err := f.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if f.PublicToken == "" {
		f.PublicToken = uuid.NewString()
	}
	if f.PrivateToken == "" {
		f.PrivateToken = uuid.NewString()
	}
	if f.Status == "" {
		f.Status = FormStatusDraft
	}
	if f.Visibility == "" {
		f.Visibility = FormVisibilityPublic
	}
	return nil
}

// IsExpired reports whether the form is past its hard expiry cutover.
func (f *Form) IsExpired(now time.Time) bool {
	return f.ExpiresAt != nil && now.After(*f.ExpiresAt)
}
