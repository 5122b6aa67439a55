package service

import (
	"context"
	"testing"
	"time"

	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/entity"
	"lingodocs-be/internal/model"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/internal/session"
	"lingodocs-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authFixture struct {
	svc       IAuthService
	factory   unitofwork.RepositoryFactory
	store     session.Store
	publisher *memPublisher
	db        *gorm.DB
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	store := session.NewMemoryStore()
	publisher := &memPublisher{}
	activity := NewActivityService(factory, noopLogger{})
	svc := NewAuthService(factory, store, newStubMailer(), publisher, activity, noopLogger{})
	return &authFixture{svc: svc, factory: factory, store: store, publisher: publisher, db: db}
}

func (f *authFixture) register(t *testing.T, email, password string) {
	t.Helper()
	_, err := f.svc.Register(context.Background(), &dto.RegisterRequest{
		Email:     email,
		Password:  password,
		FirstName: "Linh",
		LastName:  "Tran",
	})
	require.NoError(t, err)
}

// firstUser fetches the only user the test created.
func (f *authFixture) firstUser(t *testing.T) *entity.User {
	t.Helper()
	ctx := context.Background()
	users, err := f.factory.NewUnitOfWork(ctx).UserRepository().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	return users[0]
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.register(t, "linh@example.com", "matkhau123")

	_, err := f.svc.Register(ctx, &dto.RegisterRequest{
		Email:     "linh@example.com",
		Password:  "matkhau456",
		FirstName: "Khac",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Email đã được sử dụng", apperr.Message(err))
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, _, err := f.svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	}, "127.0.0.1", "test-agent")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Equal(t, "Email không tồn tại", apperr.Message(err))
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "linh@example.com", "matkhau123")

	_, _, err := f.svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "linh@example.com",
		Password: "saimatkhau",
	}, "127.0.0.1", "test-agent")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Equal(t, "Mật khẩu không đúng", apperr.Message(err))
}

func TestLoginDeactivatedAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "linh@example.com", "matkhau123")

	user := f.firstUser(t)
	uow := f.factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.UserRepository().SetActive(ctx, user.Id, false))

	_, _, err := f.svc.Login(ctx, &dto.LoginRequest{
		Email:    "linh@example.com",
		Password: "matkhau123",
	}, "127.0.0.1", "test-agent")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Equal(t, "Tài khoản đã bị vô hiệu hóa", apperr.Message(err))
}

func TestLoginOpensSessionAndStampsLastLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "linh@example.com", "matkhau123")

	user, sid, err := f.svc.Login(ctx, &dto.LoginRequest{
		Email:    "linh@example.com",
		Password: "matkhau123",
	}, "10.0.0.5", "test-agent")
	require.NoError(t, err)
	require.NotEmpty(t, sid)
	require.NotNil(t, user.LastLoginAt)
	assert.WithinDuration(t, time.Now(), *user.LastLoginAt, 5*time.Second)

	sess, err := f.store.Get(ctx, sid)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, user.Id, sess.Principal.UserID)
	assert.Equal(t, "user", sess.Principal.Role)
	assert.Equal(t, "manual", sess.Principal.Provider)

	logins := f.publisher.byType(events.TypeUserLogin)
	require.Len(t, logins, 1)
	assert.Equal(t, user.Id.String(), logins[0].Payload()["user_id"])

	// Login leaves an audit row.
	var count int64
	require.NoError(t, f.db.Model(&model.Activity{}).
		Where("user_id = ? AND type = ?", user.Id, ActivityLogin).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLogoutDestroysSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "linh@example.com", "matkhau123")

	user, sid, err := f.svc.Login(ctx, &dto.LoginRequest{
		Email:    "linh@example.com",
		Password: "matkhau123",
	}, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, sid, user.Id, "127.0.0.1", "test-agent"))

	sess, err := f.store.Get(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	f := newAuthFixture(t)

	// Unknown email succeeds silently.
	err := f.svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "ghost@example.com"})
	assert.NoError(t, err)
}

func TestResetPasswordFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "linh@example.com", "matkhau123")

	require.NoError(t, f.svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "linh@example.com"}))

	user := f.firstUser(t)

	// The token lands in the database regardless of email delivery.
	var row model.PasswordResetToken
	require.NoError(t, f.db.Where("user_id = ?", user.Id).First(&row).Error)

	require.NoError(t, f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Token:       row.Token,
		NewPassword: "matkhaumoi1",
	}))

	// Old password no longer works, the new one does.
	_, _, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "linh@example.com", Password: "matkhau123"}, "", "")
	require.Error(t, err)
	_, _, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "linh@example.com", Password: "matkhaumoi1"}, "", "")
	require.NoError(t, err)

	// A used token is rejected.
	err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: row.Token, NewPassword: "matkhaukhac2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "linh@example.com", "matkhau123")

	user := f.firstUser(t)

	err := f.svc.ChangePassword(ctx, user.Id, &dto.ChangePasswordRequest{
		CurrentPassword: "saimatkhau",
		NewPassword:     "matkhaumoi1",
	})
	require.Error(t, err)
	assert.Equal(t, "Mật khẩu không đúng", apperr.Message(err))

	require.NoError(t, f.svc.ChangePassword(ctx, user.Id, &dto.ChangePasswordRequest{
		CurrentPassword: "matkhau123",
		NewPassword:     "matkhaumoi1",
	}))
	_, _, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "linh@example.com", Password: "matkhaumoi1"}, "", "")
	assert.NoError(t, err)
}
