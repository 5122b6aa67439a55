package service

import (
	"context"
	"testing"
	"time"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/internal/session"
	"lingodocs-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, email string, lastLogin *time.Time) uuid.UUID {
	t.Helper()
	u := model.User{
		Id:           uuid.New(),
		Email:        email,
		Role:         "user",
		IsActive:     true,
		AuthProvider: "manual",
		LastLoginAt:  lastLogin,
	}
	require.NoError(t, db.Create(&u).Error)
	return u.Id
}

func TestSweepDisablesInactiveAccounts(t *testing.T) {
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	store := session.NewMemoryStore()
	publisher := &memPublisher{}

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	staleLogin := now.Add(-8 * 24 * time.Hour)
	freshLogin := now.Add(-1 * 24 * time.Hour)

	staleId := seedUser(t, db, "stale@example.com", &staleLogin)
	freshId := seedUser(t, db, "fresh@example.com", &freshLogin)
	neverId := seedUser(t, db, "never@example.com", nil)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, &session.Session{
		Sid:       "stale-session",
		Principal: session.Principal{UserID: staleId},
		ExpiresAt: now.Add(session.TTL),
	}))

	svc := NewSessionService(factory, store, publisher, noopLogger{})
	svc.now = func() time.Time { return now }

	disabled, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, disabled)

	var stale, fresh, never model.User
	require.NoError(t, db.First(&stale, "id = ?", staleId).Error)
	require.NoError(t, db.First(&fresh, "id = ?", freshId).Error)
	require.NoError(t, db.First(&never, "id = ?", neverId).Error)
	assert.False(t, stale.IsActive, "stale account should be disabled")
	assert.True(t, fresh.IsActive, "recent account must stay active")
	assert.True(t, never.IsActive, "accounts without login history are left alone")

	// The disabled user's sessions are gone.
	sess, err := store.Get(ctx, "stale-session")
	require.NoError(t, err)
	assert.Nil(t, sess)

	// Exactly one audit row for the auto-disable.
	var count int64
	require.NoError(t, db.Model(&model.Activity{}).
		Where("user_id = ? AND type = ?", staleId, ActivityAutoDisable).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	deactivations := publisher.byType(events.TypeUserDeactivated)
	require.Len(t, deactivations, 1)
	assert.Equal(t, staleId.String(), deactivations[0].Payload()["user_id"])
	assert.Equal(t, "inactivity", deactivations[0].Payload()["reason"])
}

func TestSweepIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	publisher := &memPublisher{}

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	staleLogin := now.Add(-30 * 24 * time.Hour)
	seedUser(t, db, "stale@example.com", &staleLogin)

	svc := NewSessionService(factory, session.NewMemoryStore(), publisher, noopLogger{})
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	disabled, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, disabled)

	// A second pass finds nothing: disabled accounts are out of scope.
	disabled, err = svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, disabled)
}

func TestSweepRemovesExpiredSessions(t *testing.T) {
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	store := session.NewMemoryStore()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, &session.Session{
		Sid:       "expired",
		Principal: session.Principal{UserID: uuid.New()},
		ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, store.Set(ctx, &session.Session{
		Sid:       "live",
		Principal: session.Principal{UserID: uuid.New()},
		ExpiresAt: now.Add(time.Hour),
	}))

	svc := NewSessionService(factory, store, nil, noopLogger{})
	svc.now = func() time.Time { return now }

	_, err := svc.Sweep(ctx)
	require.NoError(t, err)

	removed, err := store.Cleanup(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 0, removed, "sweep should have already removed the expired session")
}
