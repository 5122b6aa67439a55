package session

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quietLogger struct{}

func (quietLogger) Debug(string, string, map[string]interface{}) {}
func (quietLogger) Info(string, string, map[string]interface{})  {}
func (quietLogger) Warn(string, string, map[string]interface{})  {}
func (quietLogger) Error(string, string, map[string]interface{}) {}
func (quietLogger) Sync() error                                  { return nil }

// flakyStore wraps a MemoryStore and fails every call with the given error
// while broken.
type flakyStore struct {
	*MemoryStore
	failWith error
}

func (s *flakyStore) Get(ctx context.Context, sid string) (*Session, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.MemoryStore.Get(ctx, sid)
}

func (s *flakyStore) Set(ctx context.Context, sess *Session) error {
	if s.failWith != nil {
		return s.failWith
	}
	return s.MemoryStore.Set(ctx, sess)
}

func (s *flakyStore) Destroy(ctx context.Context, sid string) error {
	if s.failWith != nil {
		return s.failWith
	}
	return s.MemoryStore.Destroy(ctx, sid)
}

func (s *flakyStore) Touch(ctx context.Context, sid string, expiresAt time.Time) error {
	if s.failWith != nil {
		return s.failWith
	}
	return s.MemoryStore.Touch(ctx, sid, expiresAt)
}

func (s *flakyStore) DestroyByUser(ctx context.Context, userId uuid.UUID) error {
	if s.failWith != nil {
		return s.failWith
	}
	return s.MemoryStore.DestroyByUser(ctx, userId)
}

func (s *flakyStore) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	return s.MemoryStore.Cleanup(ctx, now)
}

func (s *flakyStore) Ping(context.Context) error {
	return s.failWith
}

func newSession(sid string) *Session {
	return &Session{
		Sid:       sid,
		Principal: Principal{UserID: uuid.New(), Role: "user", Provider: "manual"},
		ExpiresAt: time.Now().Add(TTL),
	}
}

func TestResilientStoreUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore()}
	fallback := NewMemoryStore()
	store := NewResilientStore(primary, primary, fallback, quietLogger{})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, newSession("sid-1")))
	assert.False(t, store.Degraded())

	// The write went to the primary, not the fallback.
	sess, err := primary.MemoryStore.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.NotNil(t, sess)

	sess, err = fallback.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestResilientStoreDegradesOnConnectionError(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore(), failWith: driver.ErrBadConn}
	fallback := NewMemoryStore()
	store := NewResilientStore(primary, primary, fallback, quietLogger{})
	ctx := context.Background()

	// The failed write is retried against the fallback transparently.
	require.NoError(t, store.Set(ctx, newSession("sid-1")))
	assert.True(t, store.Degraded())

	sess, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "sid-1", sess.Sid)

	sess, err = fallback.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.NotNil(t, sess, "degraded writes land in the fallback")
}

func TestResilientStoreRecoversAfterProbe(t *testing.T) {
	primary := &flakyStore{MemoryStore: NewMemoryStore(), failWith: driver.ErrBadConn}
	fallback := NewMemoryStore()
	store := NewResilientStore(primary, primary, fallback, quietLogger{})
	ctx := context.Background()

	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	require.NoError(t, store.Set(ctx, newSession("sid-1")))
	require.True(t, store.Degraded())

	// Primary comes back, but the probe is throttled; routing stays on the
	// fallback inside the interval.
	primary.failWith = nil
	require.NoError(t, store.Set(ctx, newSession("sid-2")))
	assert.True(t, store.Degraded())

	// Past the interval the probe succeeds and routing flips back.
	store.now = func() time.Time { return base.Add(probeInterval + time.Second) }
	require.NoError(t, store.Set(ctx, newSession("sid-3")))
	assert.False(t, store.Degraded())

	sess, err := primary.MemoryStore.Get(ctx, "sid-3")
	require.NoError(t, err)
	assert.NotNil(t, sess, "post-recovery writes go to the primary")
}

func TestResilientStorePropagatesNonConnectionErrors(t *testing.T) {
	dataErr := errors.New("unique constraint violated")
	primary := &flakyStore{MemoryStore: NewMemoryStore(), failWith: dataErr}
	fallback := NewMemoryStore()
	store := NewResilientStore(primary, primary, fallback, quietLogger{})

	err := store.Set(context.Background(), newSession("sid-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, dataErr)
	assert.False(t, store.Degraded(), "data errors must not trigger the fallback")
}

func TestIsConnectionError(t *testing.T) {
	assert.True(t, isConnectionError(driver.ErrBadConn))
	assert.True(t, isConnectionError(errors.New("dial tcp 10.0.0.1:5432: connection refused")))
	assert.True(t, isConnectionError(errors.New("read tcp: i/o timeout")))
	assert.False(t, isConnectionError(nil))
	assert.False(t, isConnectionError(errors.New("duplicate key value violates unique constraint")))
}
