package seeders

import (
	"errors"
	"os"

	"conecta.church/configs/configslog"
	"conecta.church/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedSystemUser ensures the system account exists. Its credentials come
// from SYSTEM_USER_EMAIL / SYSTEM_USER_PASSWORD.
func SeedSystemUser(db *gorm.DB) error {
	email := os.Getenv("SYSTEM_USER_EMAIL")
	password := os.Getenv("SYSTEM_USER_PASSWORD")
	if email == "" || password == "" {
		configslog.SLog.Warn("SYSTEM_USER_EMAIL/SYSTEM_USER_PASSWORD not set, skipping system user seed")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		configslog.SLog.Debugf("system user %s already exists, skipping", email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user := models.User{
		Name:     "System",
		Email:    email,
		IsSystem: true,
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	if err := db.Create(&user).Error; err != nil {
		configslog.Log.Error("system user seed failed", zap.String("email", email), zap.Error(err))
		return err
	}
	configslog.SLog.Infof("system user created: id=%d", user.ID)
	return nil
}
