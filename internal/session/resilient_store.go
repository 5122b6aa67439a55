package session

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"lingodocs-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// probeInterval throttles primary health checks while in fallback mode.
const probeInterval = 30 * time.Second

// Pinger is what the resilient wrapper needs from the primary store beyond
// the Store contract.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ResilientStore prefers the database-backed primary and degrades to the
// in-memory fallback when an operation hits a connection-class error. While
// degraded, a throttled health probe runs before each operation; once the
// primary answers, routing flips back. Sessions written to memory during an
// outage are not reconciled, degraded mode trades durability for uptime.
type ResilientStore struct {
	primary  Store
	pinger   Pinger
	fallback Store
	log      logger.ILogger

	mu          sync.Mutex
	useFallback bool
	lastProbe   time.Time

	now func() time.Time
}

func NewResilientStore(primary Store, pinger Pinger, fallback Store, log logger.ILogger) *ResilientStore {
	return &ResilientStore{
		primary:  primary,
		pinger:   pinger,
		fallback: fallback,
		log:      log,
		now:      time.Now,
	}
}

// isConnectionError classifies failures that warrant degrading to the
// fallback store. Anything else (constraint violations, bad data) is a real
// error and propagates.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"i/o timeout",
		"database is closed",
		"connection closed",
		"failed to connect",
		"dial tcp",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// active decides which store serves the next operation. In fallback mode it
// probes the primary at most once per probeInterval and promotes it back on
// success.
func (s *ResilientStore) active(ctx context.Context) Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.useFallback {
		return s.primary
	}

	now := s.now()
	if now.Sub(s.lastProbe) < probeInterval {
		return s.fallback
	}
	s.lastProbe = now

	if err := s.pinger.Ping(ctx); err != nil {
		s.log.Debug("session", "health probe failed", map[string]interface{}{"error": err.Error()})
		return s.fallback
	}

	s.useFallback = false
	s.log.Info("session", "primary store recovered, routing back", nil)
	return s.primary
}

// degrade flips routing to the fallback store.
func (s *ResilientStore) degrade(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.useFallback {
		s.useFallback = true
		s.lastProbe = s.now()
		s.log.Warn("session", "degraded to memory fallback", map[string]interface{}{"error": err.Error()})
	}
}

func (s *ResilientStore) Get(ctx context.Context, sid string) (*Session, error) {
	store := s.active(ctx)
	sess, err := store.Get(ctx, sid)
	if err != nil && store != s.fallback && isConnectionError(err) {
		s.degrade(err)
		return s.fallback.Get(ctx, sid)
	}
	return sess, err
}

func (s *ResilientStore) Set(ctx context.Context, sess *Session) error {
	store := s.active(ctx)
	err := store.Set(ctx, sess)
	if err != nil && store != s.fallback && isConnectionError(err) {
		s.degrade(err)
		return s.fallback.Set(ctx, sess)
	}
	return err
}

func (s *ResilientStore) Destroy(ctx context.Context, sid string) error {
	store := s.active(ctx)
	err := store.Destroy(ctx, sid)
	if err != nil && store != s.fallback && isConnectionError(err) {
		s.degrade(err)
		return s.fallback.Destroy(ctx, sid)
	}
	return err
}

func (s *ResilientStore) Touch(ctx context.Context, sid string, expiresAt time.Time) error {
	store := s.active(ctx)
	err := store.Touch(ctx, sid, expiresAt)
	if err != nil && store != s.fallback && isConnectionError(err) {
		s.degrade(err)
		return s.fallback.Touch(ctx, sid, expiresAt)
	}
	return err
}

func (s *ResilientStore) DestroyByUser(ctx context.Context, userId uuid.UUID) error {
	store := s.active(ctx)
	err := store.DestroyByUser(ctx, userId)
	if err != nil && store != s.fallback && isConnectionError(err) {
		s.degrade(err)
		return s.fallback.DestroyByUser(ctx, userId)
	}
	return err
}

func (s *ResilientStore) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	store := s.active(ctx)
	n, err := store.Cleanup(ctx, now)
	if err != nil && store != s.fallback && isConnectionError(err) {
		s.degrade(err)
		return s.fallback.Cleanup(ctx, now)
	}
	return n, err
}

// Degraded reports whether the wrapper is currently routing to the fallback.
func (s *ResilientStore) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.useFallback
}
