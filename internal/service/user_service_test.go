package service

import (
	"context"
	"testing"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/entity"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserFixture(t *testing.T) (IUserService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	activity := NewActivityService(factory, noopLogger{})
	svc := NewUserService(factory, session.NewMemoryStore(), activity, &memPublisher{}, noopLogger{})
	return svc, db
}

func TestAdminCreatesUser(t *testing.T) {
	svc, db := newUserFixture(t)
	ctx := context.Background()
	adminId := seedUser(t, db, "admin@example.com", nil)

	user, err := svc.Create(ctx, adminId, &dto.CreateUserRequest{
		Email:     "moi@example.com",
		Password:  "mật-khẩu-dài",
		FirstName: "Minh",
		LastName:  "Trần",
	}, "127.0.0.1", "test")
	require.NoError(t, err)

	assert.Equal(t, entity.UserRoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, entity.AuthProviderManual, user.AuthProvider)

	// The password is stored hashed, never verbatim.
	require.NotNil(t, user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte("mật-khẩu-dài")))

	got, err := svc.Get(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, "moi@example.com", got.Email)

	// The admin's action is on the audit trail.
	var count int64
	require.NoError(t, db.Model(&model.Activity{}).
		Where("user_id = ? AND type = ?", adminId, ActivityAdminAction).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAdminCreatesAdminUser(t *testing.T) {
	svc, db := newUserFixture(t)
	adminId := seedUser(t, db, "admin@example.com", nil)

	user, err := svc.Create(context.Background(), adminId, &dto.CreateUserRequest{
		Email:     "sep@example.com",
		Password:  "mật-khẩu-dài",
		FirstName: "Lan",
		Role:      "admin",
	}, "", "")
	require.NoError(t, err)
	assert.Equal(t, entity.UserRoleAdmin, user.Role)
}

func TestAdminCreateRejectsDuplicateEmail(t *testing.T) {
	svc, db := newUserFixture(t)
	adminId := seedUser(t, db, "admin@example.com", nil)
	seedUser(t, db, "taken@example.com", nil)

	_, err := svc.Create(context.Background(), adminId, &dto.CreateUserRequest{
		Email:     "taken@example.com",
		Password:  "mật-khẩu-dài",
		FirstName: "Trùng",
	}, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Email đã được sử dụng", apperr.Message(err))
}

func TestAdminUpdateUnknownUser(t *testing.T) {
	svc, db := newUserFixture(t)
	adminId := seedUser(t, db, "admin@example.com", nil)

	name := "Ai đó"
	_, err := svc.Update(context.Background(), adminId, uuid.New(), &dto.UpdateUserRequest{
		FirstName: &name,
	}, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
