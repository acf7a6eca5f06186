package models

import (
	"time"

	"gorm.io/gorm"
)

type contextKey string

// ContextUserIDKey carries the acting user's ID through repository calls so
// the audit hooks below can record who touched a row.
const ContextUserIDKey contextKey = "acting_user_id"

// BaseModel is embedded by every persisted model. It provides the primary
// key, timestamps, soft delete and audit columns.
type BaseModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedBy *uint          `json:"-"`
	UpdatedBy *uint          `json:"-"`
}

func actingUserID(tx *gorm.DB) *uint {
	if tx.Statement == nil || tx.Statement.Context == nil {
		return nil
	}
	if id, ok := tx.Statement.Context.Value(ContextUserIDKey).(uint); ok && id != 0 {
		return &id
	}
	return nil
}

// BeforeCreate fills the CreatedBy audit column from the request context.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.CreatedBy == nil {
		m.CreatedBy = actingUserID(tx)
	}
	return nil
}

// BeforeUpdate fills the UpdatedBy audit column from the request context.
func (m *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedBy = actingUserID(tx)
	return nil
}
