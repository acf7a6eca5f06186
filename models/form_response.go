package models

import (
	"encoding/json"
	"time"
)

// FormResponse is one submission event. Responses are append-only: there is
// no edit or delete path once the row exists.
type FormResponse struct {
	BaseModel
	FormID           uint      `gorm:"not null;index" json:"formId"`
	RespondentEmail  string    `gorm:"type:varchar(150)" json:"respondentEmail,omitempty"`
	RespondentUserID *uint     `gorm:"index" json:"respondentUserId,omitempty"`
	SubmittedAt      time.Time `gorm:"not null;index" json:"submittedAt"`

	Answers []Answer `gorm:"foreignKey:ResponseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"answers"`
}

// Answer is one field's submitted value within a response. The field is
// referenced by ID only; if the field is later removed from the form the
// answer stays behind as a historical record.
type Answer struct {
	BaseModel
	ResponseID uint   `gorm:"not null;index" json:"-"`
	FieldID    uint   `gorm:"not null;index" json:"fieldId"`
	Value      string `gorm:"type:text" json:"value"`
}

// MultiValues decodes a CHECKBOX answer, which is stored as a JSON encoded
// string array in the same scalar column used by single-value answers.
func (a Answer) MultiValues() ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(a.Value), &values); err != nil {
		return nil, err
	}
	return values, nil
}
