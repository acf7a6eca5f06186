package models

// FieldType identifies one of the fixed set of supported question kinds.
type FieldType string

const (
	FieldTypeShortText FieldType = "SHORT_TEXT"
	FieldTypeLongText  FieldType = "LONG_TEXT"
	FieldTypeEmail     FieldType = "EMAIL"
	FieldTypeNumber    FieldType = "NUMBER"
	FieldTypePhone     FieldType = "PHONE"
	FieldTypeRadio     FieldType = "RADIO"
	FieldTypeCheckbox  FieldType = "CHECKBOX"
	FieldTypeSelect    FieldType = "SELECT"
)

// FormField is one question within a form. Position defines the display and
// validation sequence and is rewritten to match array order on every save.
type FormField struct {
	BaseModel
	FormID      uint      `gorm:"not null;index:idx_form_fields_form" json:"-"`
	Label       string    `gorm:"type:varchar(255);not null" json:"label"`
	Type        FieldType `gorm:"type:varchar(20);not null" json:"type"`
	Required    bool      `gorm:"default:false" json:"required"`
	Placeholder string    `gorm:"type:varchar(255)" json:"placeholder"`
	HelpText    string    `gorm:"type:varchar(500)" json:"helpText"`
	Position    int       `gorm:"not null;default:0" json:"order"`

	Options []FieldOption `gorm:"foreignKey:FieldID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"options,omitempty"`
}

// FieldOption is one selectable value of a RADIO, CHECKBOX or SELECT field.
// Value is the normalized token stored in answers; Label is what renders.
type FieldOption struct {
	BaseModel
	FieldID  uint   `gorm:"not null;index" json:"-"`
	Label    string `gorm:"type:varchar(255);not null" json:"label"`
	Value    string `gorm:"type:varchar(255);not null" json:"value"`
	Position int    `gorm:"not null;default:0" json:"order"`
}
