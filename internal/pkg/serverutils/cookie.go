package serverutils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie carrying the signed session id.
const SessionCookieName = "ldp_session"

// NewSid returns a random 64-hex-char session id.
func NewSid() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func sign(sid, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sid))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// SignSid produces the cookie value "sid.signature".
func SignSid(sid, secret string) string {
	return sid + "." + sign(sid, secret)
}

// SetSessionCookie writes the signed session cookie for the given sid.
func SetSessionCookie(ctx *fiber.Ctx, sid, secret string, ttl time.Duration, secure bool) {
	ctx.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    SignSid(sid, secret),
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: "Lax",
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(ctx *fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// VerifySid validates a cookie value and extracts the sid. A tampered or
// malformed value yields ok=false.
func VerifySid(value, secret string) (string, bool) {
	idx := strings.LastIndexByte(value, '.')
	if idx <= 0 || idx == len(value)-1 {
		return "", false
	}
	sid, sig := value[:idx], value[idx+1:]
	expected := sign(sid, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return sid, true
}
