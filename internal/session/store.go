package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TTL is the fixed session lifetime. Every Set and Touch extends expiry by
// this much; no store applies a different lifetime.
const TTL = 7 * 24 * time.Hour

// Principal is the serialized authentication state carried by a session.
// Local logins leave the token fields empty; Replit OIDC sessions keep the
// token set so the middleware can refresh access transparently.
type Principal struct {
	UserID         uuid.UUID  `json:"user_id"`
	Role           string     `json:"role"`
	Provider       string     `json:"provider"`
	AccessToken    string     `json:"access_token,omitempty"`
	RefreshToken   string     `json:"refresh_token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
}

// Session is what a Store persists, keyed by an opaque sid.
type Session struct {
	Sid       string    `json:"sid"`
	Principal Principal `json:"principal"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store is the persistence contract for sessions. Get returns (nil, nil) for
// a missing or expired session; expiry is enforced on read regardless of
// which backing store answers.
type Store interface {
	Get(ctx context.Context, sid string) (*Session, error)
	Set(ctx context.Context, sess *Session) error
	Destroy(ctx context.Context, sid string) error
	Touch(ctx context.Context, sid string, expiresAt time.Time) error
	DestroyByUser(ctx context.Context, userId uuid.UUID) error
	Cleanup(ctx context.Context, now time.Time) (int64, error)
}
