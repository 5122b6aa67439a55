package serverutils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lingodocs-be/internal/model"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "middleware-test-secret"

type quietLogger struct{}

func (quietLogger) Debug(string, string, map[string]interface{}) {}
func (quietLogger) Info(string, string, map[string]interface{})  {}
func (quietLogger) Warn(string, string, map[string]interface{})  {}
func (quietLogger) Error(string, string, map[string]interface{}) {}
func (quietLogger) Sync() error                                  { return nil }

type middlewareFixture struct {
	app   *fiber.App
	store session.Store
	db    *gorm.DB
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	factory := unitofwork.NewRepositoryFactory(db)
	store := session.NewMemoryStore()
	auth := NewSessionAuth(store, factory, nil, testSecret, quietLogger{})

	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(quietLogger{})})
	app.Get("/me", auth.Handle, func(ctx *fiber.Ctx) error {
		p, _ := PrincipalFromCtx(ctx)
		return ctx.JSON(fiber.Map{"user_id": p.UserID, "role": p.Role})
	})
	app.Post("/admin-only", auth.Handle, RequireAdmin, func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"ok": true})
	})

	return &middlewareFixture{app: app, store: store, db: db}
}

func (f *middlewareFixture) seedUser(t *testing.T, role string, active bool) uuid.UUID {
	t.Helper()
	u := model.User{
		Id:           uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		Role:         role,
		IsActive:     active,
		AuthProvider: "manual",
	}
	require.NoError(t, f.db.Create(&u).Error)
	return u.Id
}

func (f *middlewareFixture) openSession(t *testing.T, userId uuid.UUID, role string) string {
	t.Helper()
	sid := NewSid()
	require.NoError(t, f.store.Set(context.Background(), &session.Session{
		Sid:       sid,
		Principal: session.Principal{UserID: userId, Role: role, Provider: "manual"},
		ExpiresAt: time.Now().Add(session.TTL),
	}))
	return sid
}

func (f *middlewareFixture) request(t *testing.T, method, path, cookie string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func messageOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload.Message
}

func TestSessionAuthRejectsMissingCookie(t *testing.T) {
	f := newMiddlewareFixture(t)
	resp := f.request(t, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionAuthRejectsTamperedCookie(t *testing.T) {
	f := newMiddlewareFixture(t)
	userId := f.seedUser(t, "user", true)
	sid := f.openSession(t, userId, "user")

	// Valid sid signed with the wrong secret.
	resp := f.request(t, http.MethodGet, "/me", SignSid(sid, "wrong-secret"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Signature stripped entirely.
	resp = f.request(t, http.MethodGet, "/me", sid)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionAuthRejectsUnknownSession(t *testing.T) {
	f := newMiddlewareFixture(t)
	resp := f.request(t, http.MethodGet, "/me", SignSid(NewSid(), testSecret))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionAuthAcceptsValidSession(t *testing.T) {
	f := newMiddlewareFixture(t)
	userId := f.seedUser(t, "user", true)
	sid := f.openSession(t, userId, "user")

	resp := f.request(t, http.MethodGet, "/me", SignSid(sid, testSecret))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload struct {
		UserID uuid.UUID `json:"user_id"`
		Role   string    `json:"role"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, userId, payload.UserID)
	assert.Equal(t, "user", payload.Role)
}

func TestSessionAuthRejectsDeactivatedUser(t *testing.T) {
	f := newMiddlewareFixture(t)
	userId := f.seedUser(t, "user", false)
	sid := f.openSession(t, userId, "user")

	resp := f.request(t, http.MethodGet, "/me", SignSid(sid, testSecret))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Account deactivated", messageOf(t, resp))
}

func TestRequireAdminBlocksRegularUsers(t *testing.T) {
	f := newMiddlewareFixture(t)
	userId := f.seedUser(t, "user", true)
	sid := f.openSession(t, userId, "user")

	resp := f.request(t, http.MethodPost, "/admin-only", SignSid(sid, testSecret))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin access required", messageOf(t, resp))
}

func TestRequireAdminAllowsAdmins(t *testing.T) {
	f := newMiddlewareFixture(t)
	adminId := f.seedUser(t, "admin", true)
	sid := f.openSession(t, adminId, "admin")

	resp := f.request(t, http.MethodPost, "/admin-only", SignSid(sid, testSecret))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionAuthSlidesExpiry(t *testing.T) {
	f := newMiddlewareFixture(t)
	userId := f.seedUser(t, "user", true)

	sid := NewSid()
	nearExpiry := time.Now().Add(time.Hour)
	require.NoError(t, f.store.Set(context.Background(), &session.Session{
		Sid:       sid,
		Principal: session.Principal{UserID: userId, Role: "user", Provider: "manual"},
		ExpiresAt: nearExpiry,
	}))

	resp := f.request(t, http.MethodGet, "/me", SignSid(sid, testSecret))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sess, err := f.store.Get(context.Background(), sid)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.True(t, sess.ExpiresAt.After(nearExpiry), "a request should push expiry forward")
}
