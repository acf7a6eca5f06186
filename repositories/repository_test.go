package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"conecta.church/models"
	"conecta.church/pkg/queryparams"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Form{},
		&models.FormField{},
		&models.FieldOption{},
		&models.FormResponse{},
		&models.Answer{},
	))
	return db
}

func seedForm(t *testing.T, db *gorm.DB, status models.FormStatus) *models.Form {
	t.Helper()
	form := &models.Form{
		CreatorUserID: 1,
		Title:         "Retreat signup",
		Status:        status,
		Fields: []models.FormField{
			{Label: "Name", Type: models.FieldTypeShortText, Position: 1},
			{Label: "Shirt size", Type: models.FieldTypeSelect, Position: 0, Options: []models.FieldOption{
				{Label: "M", Value: "m", Position: 1},
				{Label: "S", Value: "s", Position: 0},
			}},
		},
	}
	require.NoError(t, db.Create(form).Error)
	return form
}

func TestSortColumnWhitelist(t *testing.T) {
	repo := NewBaseRepository[models.Form](nil)
	repo.SetAllowedSortColumns(map[string]string{"title": "forms.title"})

	assert.Equal(t, "forms.title", repo.SortColumn("title", "forms.created_at"))
	// unknown and hostile values fall back instead of reaching the query
	assert.Equal(t, "forms.created_at", repo.SortColumn("id; DROP TABLE forms", "forms.created_at"))
	assert.Equal(t, "forms.created_at", repo.SortColumn("", "forms.created_at"))
}

func TestFormRepositoryFindByIDOrdersTree(t *testing.T) {
	db := newTestDB(t)
	repo := NewFormRepository(db)
	form := seedForm(t, db, models.FormStatusDraft)

	got, err := repo.FindByID(context.Background(), form.ID)
	require.NoError(t, err)

	// fields and options come back in position order, not insert order
	require.Len(t, got.Fields, 2)
	assert.Equal(t, "Shirt size", got.Fields[0].Label)
	assert.Equal(t, "Name", got.Fields[1].Label)
	require.Len(t, got.Fields[0].Options, 2)
	assert.Equal(t, "s", got.Fields[0].Options[0].Value)

	_, err = repo.FindByID(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindPublishedByTokenStatusScope(t *testing.T) {
	db := newTestDB(t)
	repo := NewFormRepository(db)

	draft := seedForm(t, db, models.FormStatusDraft)
	published := seedForm(t, db, models.FormStatusPublished)

	_, err := repo.FindPublishedByToken(context.Background(), draft.PublicToken)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := repo.FindPublishedByToken(context.Background(), published.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)

	got, err = repo.FindPublishedByToken(context.Background(), published.PrivateToken)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)

	_, err = repo.FindPublishedByToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResponseRepositoryCreateAtomic(t *testing.T) {
	db := newTestDB(t)
	repo := NewResponseRepository(db)
	form := seedForm(t, db, models.FormStatusPublished)

	response := &models.FormResponse{
		FormID:      form.ID,
		SubmittedAt: time.Now().UTC(),
		Answers: []models.Answer{
			{FieldID: form.Fields[0].ID, Value: "Ana"},
			{FieldID: form.Fields[1].ID, Value: "s"},
		},
	}
	require.NoError(t, repo.Create(context.Background(), response))
	require.NotZero(t, response.ID)

	got, err := repo.FindByID(context.Background(), response.ID)
	require.NoError(t, err)
	assert.Len(t, got.Answers, 2)

	assert.Error(t, repo.Create(context.Background(), &models.FormResponse{}))
	assert.Error(t, repo.Create(context.Background(), nil))
}

func TestResponseRepositoryPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewResponseRepository(db)
	form := seedForm(t, db, models.FormStatusPublished)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(context.Background(), &models.FormResponse{
			FormID:      form.ID,
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	params := queryparams.DefaultListParams("submitted_at")
	params.PerPage = 2
	responses, total, err := repo.FindAllByFormPaginated(context.Background(), form.ID, params)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, responses, 2)
	// newest first
	assert.True(t, responses[0].SubmittedAt.After(responses[1].SubmittedAt))

	count, err := repo.CountByFormID(context.Background(), form.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)
}
