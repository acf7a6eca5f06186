package services

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"conecta.church/database"
	"conecta.church/models"
)

// newTestDB opens a fresh in-memory database with the full schema. A single
// connection keeps every query on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigrationsInOrder(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, isSystem bool) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email, IsSystem: isSystem}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func validFormInput() FormInput {
	return FormInput{
		Title:       "Visitor card",
		Description: "Tell us about yourself",
		Fields: []FieldInput{
			{Label: "Full Name", Type: models.FieldTypeShortText, Required: true},
			{Label: "Email", Type: models.FieldTypeEmail, Required: true},
			{Label: "How did you find us?", Type: models.FieldTypeSelect, Options: []OptionInput{
				{Label: "A friend"},
				{Label: "Online", Value: "web"},
			}},
		},
	}
}

// createPublishedForm creates and publishes a form owned by the given user.
func createPublishedForm(t *testing.T, db *gorm.DB, owner *models.User, mutate func(*FormInput)) *models.Form {
	t.Helper()
	svc := NewFormService(db)
	input := validFormInput()
	if mutate != nil {
		mutate(&input)
	}
	form, err := svc.CreateForm(context.Background(), owner.ID, input)
	require.NoError(t, err)
	form, err = svc.PublishForm(context.Background(), form.ID, owner.ID)
	require.NoError(t, err)
	return form
}

func futureTime(d time.Duration) *time.Time {
	at := time.Now().UTC().Add(d)
	return &at
}
