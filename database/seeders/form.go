package seeders

import (
	"errors"
	"os"

	"conecta.church/configs/configslog"
	"conecta.church/models"
	"conecta.church/pkg/fieldtypes"

	"gorm.io/gorm"
)

const welcomeFormTitle = "Visitor welcome card"

// SeedWelcomeForm creates a published visitor-intake form the first time
// the application starts on an empty database. Opt-in via SEED_DEMO_FORM.
func SeedWelcomeForm(db *gorm.DB) error {
	if os.Getenv("SEED_DEMO_FORM") == "" {
		return nil
	}

	var existing models.Form
	err := db.Where("title = ?", welcomeFormTitle).First(&existing).Error
	if err == nil {
		configslog.SLog.Debug("welcome form already exists, skipping")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var system models.User
	if err := db.Where("is_system = ?", true).First(&system).Error; err != nil {
		configslog.SLog.Warn("no system user, skipping welcome form seed")
		return nil
	}

	form := models.Form{
		CreatorUserID: system.ID,
		Title:         welcomeFormTitle,
		Description:   "Tell us a little about yourself so we can stay in touch.",
		Status:        models.FormStatusPublished,
		Visibility:    models.FormVisibilityPublic,
		EmailEnabled:  true,
		EmailSubject:  "Welcome, {{full_name}}!",
		EmailBody:     "<p>Hi {{full_name}}, thanks for visiting us. We will reach out at {{email}}.</p>",
		Fields: []models.FormField{
			{Label: "Full name", Type: models.FieldTypeShortText, Required: true, Position: 0},
			{Label: "Email", Type: models.FieldTypeEmail, Required: true, Position: 1},
			{Label: "Phone number", Type: models.FieldTypePhone, Position: 2},
			{Label: "How did you hear about us?", Type: models.FieldTypeSelect, Position: 3,
				Options: fieldtypes.DefaultOptions(models.FieldTypeSelect)},
		},
	}
	if err := db.Create(&form).Error; err != nil {
		return err
	}
	configslog.SLog.Infof("welcome form seeded: id=%d public_token=%s", form.ID, form.PublicToken)
	return nil
}
