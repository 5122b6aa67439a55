package serverutils

import (
	"context"
	"time"

	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/repository/specification"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AuthPrincipal is the canonical shape every authenticated handler sees,
// regardless of which provider established the session.
type AuthPrincipal struct {
	UserID   uuid.UUID
	Role     string
	IsActive bool
}

const authLocalsKey = "auth_principal"
const sidLocalsKey = "auth_sid"

// TokenRefresher renews an expired external token set. Implemented by the
// OIDC service; local sessions never need it.
type TokenRefresher interface {
	Refresh(ctx context.Context, p session.Principal) (session.Principal, error)
}

// SessionAuth resolves the session cookie into an AuthPrincipal. Both local
// and OIDC logins produce the same session shape, so one middleware covers
// every protected route. A deactivated account fails with 401 even when its
// session or token is otherwise valid.
type SessionAuth struct {
	store     session.Store
	factory   unitofwork.RepositoryFactory
	refresher TokenRefresher
	secret    string
	log       logger.ILogger
}

func NewSessionAuth(store session.Store, factory unitofwork.RepositoryFactory, refresher TokenRefresher, secret string, log logger.ILogger) *SessionAuth {
	return &SessionAuth{
		store:     store,
		factory:   factory,
		refresher: refresher,
		secret:    secret,
		log:       log,
	}
}

func (m *SessionAuth) Handle(ctx *fiber.Ctx) error {
	cookie := ctx.Cookies(SessionCookieName)
	if cookie == "" {
		return apperr.Unauthorized("Unauthorized")
	}

	sid, ok := VerifySid(cookie, m.secret)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}

	sess, err := m.store.Get(ctx.Context(), sid)
	if err != nil {
		return err
	}
	if sess == nil {
		return apperr.Unauthorized("Unauthorized")
	}

	principal := sess.Principal
	now := time.Now()

	// Expired external token: try a transparent refresh before rejecting.
	if principal.RefreshToken != "" && principal.TokenExpiresAt != nil && !now.Before(*principal.TokenExpiresAt) {
		if m.refresher == nil {
			_ = m.store.Destroy(ctx.Context(), sid)
			return apperr.Unauthorized("Unauthorized")
		}
		refreshed, err := m.refresher.Refresh(ctx.Context(), principal)
		if err != nil {
			m.log.Info("auth", "token refresh failed, destroying session", map[string]interface{}{"error": err.Error()})
			_ = m.store.Destroy(ctx.Context(), sid)
			return apperr.Unauthorized("Unauthorized")
		}
		principal = refreshed
		sess.Principal = refreshed
		if err := m.store.Set(ctx.Context(), sess); err != nil {
			return err
		}
	}

	uow := m.factory.NewUnitOfWork(ctx.Context())
	user, err := uow.UserRepository().FindOne(ctx.Context(), specification.ByID{ID: principal.UserID})
	if err != nil {
		return err
	}
	if user == nil {
		_ = m.store.Destroy(ctx.Context(), sid)
		return apperr.Unauthorized("Unauthorized")
	}
	if !user.IsActive {
		return apperr.Unauthorized("Account deactivated")
	}

	// Sliding expiry on every authenticated request.
	_ = m.store.Touch(ctx.Context(), sid, now.Add(session.TTL))

	ctx.Locals(authLocalsKey, AuthPrincipal{
		UserID:   user.Id,
		Role:     string(user.Role),
		IsActive: user.IsActive,
	})
	ctx.Locals(sidLocalsKey, sid)
	return ctx.Next()
}

// RequireAdmin must run after Handle.
func RequireAdmin(ctx *fiber.Ctx) error {
	p, ok := ctx.Locals(authLocalsKey).(AuthPrincipal)
	if !ok {
		return apperr.Unauthorized("Unauthorized")
	}
	if p.Role != "admin" {
		return apperr.Forbidden("Admin access required")
	}
	return ctx.Next()
}

// PrincipalFromCtx returns the resolved principal for the request.
func PrincipalFromCtx(ctx *fiber.Ctx) (AuthPrincipal, bool) {
	p, ok := ctx.Locals(authLocalsKey).(AuthPrincipal)
	return p, ok
}

// SidFromCtx returns the session id backing the request.
func SidFromCtx(ctx *fiber.Ctx) (string, bool) {
	sid, ok := ctx.Locals(sidLocalsKey).(string)
	return sid, ok
}
