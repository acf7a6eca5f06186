package migrations

import (
	"conecta.church/models"

	"gorm.io/gorm"
)

// MigrateResponsesTables creates or updates the append-only submission
// tables: responses and answers.
func MigrateResponsesTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.FormResponse{},
		&models.Answer{},
	)
}
