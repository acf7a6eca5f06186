package migrations

import (
	"conecta.church/models"

	"gorm.io/gorm"
)

// MigrateUsersTable creates or updates the staff users table.
func MigrateUsersTable(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}
