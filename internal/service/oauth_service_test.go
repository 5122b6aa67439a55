package service

import (
	"context"
	"testing"

	"lingodocs-be/internal/entity"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOAuthFixture(t *testing.T) (*oauthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	return &oauthService{
		uowFactory: factory,
		logger:     noopLogger{},
	}, db
}

func userCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	return count
}

func TestUpsertReplitUserCreatesOnce(t *testing.T) {
	svc, db := newOAuthFixture(t)
	ctx := context.Background()

	claims := &oidcClaims{
		Sub:       "repl-12345",
		Email:     "linh@example.com",
		FirstName: "Linh",
		LastName:  "Tran",
	}

	first, err := svc.upsertReplitUser(ctx, claims)
	require.NoError(t, err)
	require.NotNil(t, first.OidcSub)
	assert.Equal(t, "repl-12345", *first.OidcSub)
	assert.Equal(t, entity.AuthProviderReplit, first.AuthProvider)
	assert.True(t, first.IsActive)

	second, err := svc.upsertReplitUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
	assert.EqualValues(t, 1, userCount(t, db))
}

func TestUpsertReplitUserAttachesToExistingEmail(t *testing.T) {
	svc, db := newOAuthFixture(t)
	ctx := context.Background()

	// A manual account already exists for this address.
	hash := "bcrypt-hash"
	manual := model.User{
		Id:           uuid.New(),
		Email:        "linh@example.com",
		PasswordHash: &hash,
		FirstName:    "Linh",
		Role:         "user",
		IsActive:     true,
		AuthProvider: "manual",
	}
	require.NoError(t, db.Create(&manual).Error)

	user, err := svc.upsertReplitUser(ctx, &oidcClaims{
		Sub:   "repl-12345",
		Email: "linh@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, manual.Id, user.Id)
	require.NotNil(t, user.OidcSub)
	assert.Equal(t, "repl-12345", *user.OidcSub)
	// The local password survives the link.
	require.NotNil(t, user.PasswordHash)
	assert.EqualValues(t, 1, userCount(t, db))
}

func TestUpsertReplitUserRefreshesProfileFields(t *testing.T) {
	svc, _ := newOAuthFixture(t)
	ctx := context.Background()

	_, err := svc.upsertReplitUser(ctx, &oidcClaims{
		Sub:       "repl-12345",
		Email:     "linh@example.com",
		FirstName: "Linh",
	})
	require.NoError(t, err)

	updated, err := svc.upsertReplitUser(ctx, &oidcClaims{
		Sub:             "repl-12345",
		Email:           "linh@example.com",
		FirstName:       "Linh",
		LastName:        "Tran",
		ProfileImageURL: "https://cdn.example.com/avatar.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Tran", updated.LastName)
	require.NotNil(t, updated.ProfileImageURL)
	assert.Equal(t, "https://cdn.example.com/avatar.png", *updated.ProfileImageURL)
}

func TestUpsertGoogleUserCreatesOnce(t *testing.T) {
	svc, db := newOAuthFixture(t)
	ctx := context.Background()

	profile := &googleProfile{
		ID:     "google-999",
		Email:  "linh@example.com",
		Given:  "Linh",
		Family: "Tran",
	}

	first, err := svc.upsertGoogleUser(ctx, profile)
	require.NoError(t, err)
	require.NotNil(t, first.GoogleId)
	assert.Equal(t, "google-999", *first.GoogleId)
	assert.Equal(t, entity.AuthProviderGoogle, first.AuthProvider)

	second, err := svc.upsertGoogleUser(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
	assert.EqualValues(t, 1, userCount(t, db))
}

func TestUpsertGoogleUserAttachesToExistingEmail(t *testing.T) {
	svc, db := newOAuthFixture(t)
	ctx := context.Background()

	replitSub := "repl-12345"
	existing := model.User{
		Id:           uuid.New(),
		Email:        "linh@example.com",
		Role:         "user",
		IsActive:     true,
		AuthProvider: "replit",
		OidcSub:      &replitSub,
	}
	require.NoError(t, db.Create(&existing).Error)

	user, err := svc.upsertGoogleUser(ctx, &googleProfile{
		ID:    "google-999",
		Email: "linh@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.Id, user.Id)
	require.NotNil(t, user.GoogleId)
	assert.Equal(t, "google-999", *user.GoogleId)
	// Both external identities now point at one row.
	require.NotNil(t, user.OidcSub)
	assert.Equal(t, replitSub, *user.OidcSub)
	assert.EqualValues(t, 1, userCount(t, db))
}
