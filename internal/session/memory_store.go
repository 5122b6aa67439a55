package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is the fallback store used while the database is unreachable.
// Contents do not survive a restart; a session living here is better than a
// logged-out user but is explicitly best-effort.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(TTL, 10*time.Minute),
	}
}

func (s *MemoryStore) Get(_ context.Context, sid string) (*Session, error) {
	v, ok := s.cache.Get(sid)
	if !ok {
		return nil, nil
	}
	sess := v.(*Session)
	if sess.Expired(time.Now()) {
		s.cache.Delete(sid)
		return nil, nil
	}
	return sess, nil
}

func (s *MemoryStore) Set(_ context.Context, sess *Session) error {
	s.cache.Set(sess.Sid, sess, time.Until(sess.ExpiresAt))
	return nil
}

func (s *MemoryStore) Destroy(_ context.Context, sid string) error {
	s.cache.Delete(sid)
	return nil
}

func (s *MemoryStore) Touch(_ context.Context, sid string, expiresAt time.Time) error {
	v, ok := s.cache.Get(sid)
	if !ok {
		return nil
	}
	sess := v.(*Session)
	sess.ExpiresAt = expiresAt
	s.cache.Set(sid, sess, time.Until(expiresAt))
	return nil
}

func (s *MemoryStore) DestroyByUser(_ context.Context, userId uuid.UUID) error {
	for sid, item := range s.cache.Items() {
		if sess, ok := item.Object.(*Session); ok && sess.Principal.UserID == userId {
			s.cache.Delete(sid)
		}
	}
	return nil
}

func (s *MemoryStore) Cleanup(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for sid, item := range s.cache.Items() {
		if sess, ok := item.Object.(*Session); ok && sess.Expired(now) {
			s.cache.Delete(sid)
			n++
		}
	}
	return n, nil
}
