package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conecta.church/models"
	"conecta.church/repositories"
)

func TestResolveForReadPublicToken(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	form := createPublishedForm(t, db, owner, nil)
	svc := NewAccessService(db)

	public, err := svc.ResolveForRead(context.Background(), form.PublicToken, Visitor{})
	require.NoError(t, err)
	assert.Equal(t, form.ID, public.ID)
	assert.Equal(t, form.Title, public.Title)
	require.Len(t, public.Fields, 3)
	for i, f := range public.Fields {
		assert.Equal(t, i, f.Order)
	}
	assert.Len(t, public.Fields[2].Options, 2)
}

func TestResolveUnknownToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessService(db)

	_, err := svc.ResolveForRead(context.Background(), "no-such-token", Visitor{})
	assert.ErrorIs(t, err, ErrFormNotFound)

	_, err = svc.ResolveForRead(context.Background(), "", Visitor{})
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestResolveDraftAndClosedInvisible(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	formSvc := NewFormService(db)
	svc := NewAccessService(db)

	draft, err := formSvc.CreateForm(context.Background(), owner.ID, validFormInput())
	require.NoError(t, err)
	_, err = svc.ResolveForRead(context.Background(), draft.PublicToken, Visitor{})
	assert.ErrorIs(t, err, ErrFormNotFound)

	published := createPublishedForm(t, db, owner, nil)
	_, err = formSvc.CloseForm(context.Background(), published.ID, owner.ID)
	require.NoError(t, err)
	_, err = svc.ResolveForRead(context.Background(), published.PublicToken, Visitor{})
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestResolvePublicTokenScopedToPublicVisibility(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	form := createPublishedForm(t, db, owner, func(in *FormInput) {
		in.Visibility = models.FormVisibilityPrivate
	})
	svc := NewAccessService(db)

	// the public token of a private form resolves nothing
	_, err := svc.ResolveForRead(context.Background(), form.PublicToken, Visitor{})
	assert.ErrorIs(t, err, ErrFormNotFound)

	// the private token still works
	_, err = svc.ResolveForRead(context.Background(), form.PrivateToken, Visitor{})
	assert.NoError(t, err)
}

func TestResolveExpiryCutover(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	form := createPublishedForm(t, db, owner, func(in *FormInput) {
		in.ExpiresAt = futureTime(time.Hour)
	})

	before := &AccessService{repo: repositories.NewFormRepository(db), now: func() time.Time {
		return form.ExpiresAt.Add(-time.Minute)
	}}
	_, err := before.ResolveForRead(context.Background(), form.PublicToken, Visitor{})
	assert.NoError(t, err)

	after := &AccessService{repo: repositories.NewFormRepository(db), now: func() time.Time {
		return form.ExpiresAt.Add(time.Minute)
	}}
	// both reads and writes hit the same cutover
	_, err = after.ResolveForRead(context.Background(), form.PublicToken, Visitor{})
	assert.ErrorIs(t, err, ErrFormExpired)
	_, err = after.ResolveForWrite(context.Background(), form.PublicToken, Visitor{})
	assert.ErrorIs(t, err, ErrFormExpired)
}

func TestResolveAuthGate(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	form := createPublishedForm(t, db, owner, func(in *FormInput) {
		in.RequireAuth = true
	})
	svc := NewAccessService(db)

	// anonymous private-link access is rejected
	_, err := svc.ResolveForRead(context.Background(), form.PrivateToken, Visitor{})
	assert.ErrorIs(t, err, ErrFormAuthRequired)

	// a session opens the gate
	_, err = svc.ResolveForRead(context.Background(), form.PrivateToken, Visitor{Authenticated: true, UserID: 7})
	assert.NoError(t, err)

	// requireAuth never applies to the public link
	_, err = svc.ResolveForRead(context.Background(), form.PublicToken, Visitor{})
	assert.NoError(t, err)
}

func TestResolveForWriteReturnsFullForm(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com", false)
	form := createPublishedForm(t, db, owner, nil)
	svc := NewAccessService(db)

	full, err := svc.ResolveForWrite(context.Background(), form.PrivateToken, Visitor{})
	require.NoError(t, err)
	assert.Equal(t, form.PrivateToken, full.PrivateToken)
	require.Len(t, full.Fields, 3)
	assert.NotEmpty(t, full.Fields[2].Options)
}
