package presence_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixeltool/presenced/internal/presence"
)

// fakeStore is an in-memory MarkerStore with a controllable clock and
// paged SCAN semantics.
type fakeStore struct {
	mu        sync.Mutex
	now       time.Time
	expiry    map[string]time.Time
	setCalls  int
	scanCalls int
	setErr    error
	scanErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		now:    time.Now(),
		expiry: map[string]time.Time{},
	}
}

func (f *fakeStore) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *fakeStore) ttlOf(key string) (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	exp, ok := f.expiry[key]
	if !ok {
		return 0, false
	}
	return exp.Sub(f.now), true
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.setCalls++
	f.expiry[key] = f.now.Add(expiration)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scanErr != nil {
		return redis.NewScanCmdResult(nil, 0, f.scanErr)
	}
	f.scanCalls++

	prefix := strings.TrimSuffix(match, "*")
	var live []string
	for key, exp := range f.expiry {
		if exp.After(f.now) && strings.HasPrefix(key, prefix) {
			live = append(live, key)
		}
	}
	sort.Strings(live)

	// Cursor is a plain offset; real Redis cursors are opaque but the
	// paging contract is the same.
	start := int(cursor)
	if start >= len(live) {
		return redis.NewScanCmdResult(nil, 0, nil)
	}
	end := start + int(count)
	var next uint64
	if end >= len(live) {
		end = len(live)
	} else {
		next = uint64(end)
	}
	return redis.NewScanCmdResult(live[start:end], next, nil)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(store presence.MarkerStore, cfg presence.Config) *presence.Service {
	return presence.New(store, cfg, testLogger())
}

func TestHeartbeat(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty session id", func(t *testing.T) {
		svc := newService(newFakeStore(), presence.Config{})
		err := svc.Heartbeat(ctx, "")
		require.ErrorIs(t, err, presence.ErrEmptySessionID)
	})

	t.Run("writes marker under namespaced key", func(t *testing.T) {
		store := newFakeStore()
		svc := newService(store, presence.Config{Namespace: "pixeltool", TTL: 2 * time.Minute})

		require.NoError(t, svc.Heartbeat(ctx, "abc123"))

		ttl, ok := store.ttlOf("online:pixeltool:abc123")
		require.True(t, ok)
		assert.Equal(t, 2*time.Minute, ttl)
	})

	t.Run("is idempotent and resets expiry", func(t *testing.T) {
		store := newFakeStore()
		svc := newService(store, presence.Config{TTL: 2 * time.Minute})

		require.NoError(t, svc.Heartbeat(ctx, "abc123"))
		store.advance(time.Minute)
		require.NoError(t, svc.Heartbeat(ctx, "abc123"))

		// Still exactly one marker, with a full TTL again.
		assert.Len(t, store.expiry, 1)
		ttl, ok := store.ttlOf("online:pixeltool:abc123")
		require.True(t, ok)
		assert.Equal(t, 2*time.Minute, ttl)
	})

	t.Run("returns wrapped error on store failure", func(t *testing.T) {
		store := newFakeStore()
		store.setErr = errors.New("connection refused")
		svc := newService(store, presence.Config{})

		err := svc.Heartbeat(ctx, "abc123")
		require.Error(t, err)
		assert.Empty(t, store.expiry)
	})
}

func TestOnlineCount(t *testing.T) {
	ctx := context.Background()

	t.Run("counts live markers", func(t *testing.T) {
		store := newFakeStore()
		svc := newService(store, presence.Config{})

		require.NoError(t, svc.Heartbeat(ctx, "abc123"))
		snap := svc.OnlineCount(ctx)
		assert.Equal(t, 1, snap.Count)
	})

	t.Run("excludes expired markers", func(t *testing.T) {
		store := newFakeStore()
		svc := newService(store, presence.Config{TTL: time.Minute, CacheWindow: time.Nanosecond})

		require.NoError(t, svc.Heartbeat(ctx, "abc123"))
		store.advance(time.Minute + time.Second)

		snap := svc.OnlineCount(ctx)
		assert.Zero(t, snap.Count)
	})

	t.Run("counts exactly N distinct live sessions", func(t *testing.T) {
		store := newFakeStore()
		svc := newService(store, presence.Config{CacheWindow: time.Nanosecond})

		for _, sid := range []string{"s1", "s2", "s3", "s4", "s5"} {
			require.NoError(t, svc.Heartbeat(ctx, sid))
		}
		assert.Equal(t, 5, svc.OnlineCount(ctx).Count)
	})

	t.Run("pages through the keyspace with the scan cursor", func(t *testing.T) {
		store := newFakeStore()
		svc := newService(store, presence.Config{CacheWindow: time.Nanosecond, ScanBatchSize: 2})

		for _, sid := range []string{"s1", "s2", "s3", "s4", "s5"} {
			require.NoError(t, svc.Heartbeat(ctx, sid))
		}

		store.scanCalls = 0
		assert.Equal(t, 5, svc.OnlineCount(ctx).Count)
		assert.Equal(t, 3, store.scanCalls)
	})

	t.Run("serves cached snapshot within the cache window", func(t *testing.T) {
		store := newFakeStore()
		svc := newService(store, presence.Config{CacheWindow: 2 * time.Second})

		require.NoError(t, svc.Heartbeat(ctx, "abc123"))

		first := svc.OnlineCount(ctx)
		second := svc.OnlineCount(ctx)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, store.scanCalls)
	})

	t.Run("rescans after the cache window elapses", func(t *testing.T) {
		store := newFakeStore()
		svc := newService(store, presence.Config{CacheWindow: 30 * time.Millisecond})

		require.NoError(t, svc.Heartbeat(ctx, "abc123"))

		first := svc.OnlineCount(ctx)
		time.Sleep(50 * time.Millisecond)
		second := svc.OnlineCount(ctx)

		assert.Equal(t, first.Count, second.Count)
		assert.True(t, second.ComputedAt.After(first.ComputedAt))
		assert.Equal(t, 2, store.scanCalls)
	})

	t.Run("returns zero when scan fails", func(t *testing.T) {
		store := newFakeStore()
		store.scanErr = errors.New("connection refused")
		svc := newService(store, presence.Config{})

		snap := svc.OnlineCount(ctx)
		assert.Zero(t, snap.Count)
	})

	t.Run("never degrades an existing caller on store outage", func(t *testing.T) {
		store := newFakeStore()
		svc := newService(store, presence.Config{CacheWindow: time.Nanosecond})

		require.NoError(t, svc.Heartbeat(ctx, "abc123"))
		assert.Equal(t, 1, svc.OnlineCount(ctx).Count)

		store.scanErr = errors.New("connection refused")
		store.setErr = errors.New("connection refused")

		// Heartbeat errors are reported but must not panic; count falls
		// back to the safe default.
		require.Error(t, svc.Heartbeat(ctx, "abc123"))
		assert.Zero(t, svc.OnlineCount(ctx).Count)
	})

	t.Run("reset clears the cached snapshot", func(t *testing.T) {
		store := newFakeStore()
		svc := newService(store, presence.Config{CacheWindow: time.Hour})

		require.NoError(t, svc.Heartbeat(ctx, "abc123"))
		assert.Equal(t, 1, svc.OnlineCount(ctx).Count)

		require.NoError(t, svc.Heartbeat(ctx, "xyz789"))
		// Cached for an hour; reset forces a fresh scan.
		assert.Equal(t, 1, svc.OnlineCount(ctx).Count)
		svc.Reset()
		assert.Equal(t, 2, svc.OnlineCount(ctx).Count)
	})
}

// The full lifecycle from the product spec: two sessions come online one
// after the other, then both go quiet past the TTL.
func TestOnlineLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newService(store, presence.Config{TTL: 2 * time.Minute, CacheWindow: time.Nanosecond})

	require.NoError(t, svc.Heartbeat(ctx, "abc123"))
	assert.Equal(t, 1, svc.OnlineCount(ctx).Count)

	require.NoError(t, svc.Heartbeat(ctx, "xyz789"))
	assert.Equal(t, 2, svc.OnlineCount(ctx).Count)

	store.advance(2*time.Minute + time.Second)
	assert.Zero(t, svc.OnlineCount(ctx).Count)
}
