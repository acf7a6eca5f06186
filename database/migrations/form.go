package migrations

import (
	"conecta.church/models"

	"gorm.io/gorm"
)

// MigrateFormsTables creates or updates the form aggregate: forms, their
// fields and field options.
func MigrateFormsTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Form{},
		&models.FormField{},
		&models.FieldOption{},
	)
}
