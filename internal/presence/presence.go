package presence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pixeltool/presenced/core/logger"
)

// ErrEmptySessionID is returned when a heartbeat arrives without a session identifier.
var ErrEmptySessionID = errors.New("presence: empty session id")

// markerValue is a sentinel; only key existence carries meaning.
const markerValue = "1"

// MarkerStore is the subset of Redis commands the service issues.
// *redis.Client satisfies it.
type MarkerStore interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// Snapshot is a point-in-time estimate of distinct online sessions.
type Snapshot struct {
	Count      int
	ComputedAt time.Time
}

// Service records session heartbeats as TTL-bearing marker keys and counts
// distinct online sessions by scanning the marker namespace. All operations
// degrade to safe defaults when the store is unreachable; the feature is
// best-effort and must never fail its caller.
//
// Safe for concurrent use. The count cache is advisory: concurrent scans
// race on it and the last writer wins.
type Service struct {
	store   MarkerStore
	cfg     Config
	log     *slog.Logger
	metrics *presenceMetrics

	mu        sync.Mutex
	available bool
	cached    Snapshot
}

// New creates a presence service on top of the given marker store.
// Zero config fields fall back to defaults.
func New(store MarkerStore, cfg Config, log *slog.Logger) *Service {
	return &Service{
		store: store,
		cfg:   cfg.withDefaults(),
		log:   log.With(logger.Component("presence")),
		// The store client is handed over freshly connected, so the first
		// operational failure logs at Warn instead of Debug.
		available: true,
		metrics:   globalPresenceMetrics(),
	}
}

// markerKey builds the composite key for one session.
func (s *Service) markerKey(sessionID string) string {
	return "online:" + s.cfg.Namespace + ":" + sessionID
}

// markerPattern matches every marker in the service namespace.
func (s *Service) markerPattern() string {
	return "online:" + s.cfg.Namespace + ":*"
}

// Heartbeat records that the session is currently active by writing its
// marker with a fresh TTL. The write is an idempotent overwrite, so
// concurrent heartbeats for one session only reset expiry.
//
// The returned error is for observability; callers holding the best-effort
// contract (the HTTP boundary) log it and report success regardless.
func (s *Service) Heartbeat(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	if err := s.store.Set(ctx, s.markerKey(sessionID), markerValue, s.cfg.TTL).Err(); err != nil {
		s.metrics.storeErrors.WithLabelValues("set").Inc()
		s.markUnavailable(err)
		return fmt.Errorf("presence: heartbeat write failed: %w", err)
	}

	s.markAvailable()
	s.metrics.heartbeats.Inc()
	return nil
}

// OnlineCount estimates the number of distinct active sessions.
//
// A count computed within the cache window is returned without touching the
// store. Otherwise the marker namespace is scanned cursor-page by
// cursor-page; any failure logs, marks the store unavailable, and yields a
// zero snapshot rather than an error. The result is an approximation:
// markers survive up to TTL after the session went away and the scan is not
// an atomic view of the keyspace.
func (s *Service) OnlineCount(ctx context.Context) Snapshot {
	s.mu.Lock()
	if !s.cached.ComputedAt.IsZero() && time.Since(s.cached.ComputedAt) < s.cfg.CacheWindow {
		snap := s.cached
		s.mu.Unlock()
		return snap
	}
	s.mu.Unlock()

	start := time.Now()
	count, err := s.scanMarkers(ctx)
	if err != nil {
		s.metrics.storeErrors.WithLabelValues("scan").Inc()
		s.markUnavailable(err)
		return Snapshot{Count: 0, ComputedAt: time.Now()}
	}

	s.markAvailable()
	s.metrics.scans.Inc()
	s.metrics.scanDuration.Observe(time.Since(start).Seconds())
	s.metrics.online.Set(float64(count))

	snap := Snapshot{Count: count, ComputedAt: time.Now()}
	s.mu.Lock()
	s.cached = snap
	s.mu.Unlock()
	return snap
}

// scanMarkers pages through the namespace accumulating matched keys until
// the cursor wraps to zero.
func (s *Service) scanMarkers(ctx context.Context) (int, error) {
	var cursor uint64
	count := 0
	for {
		keys, next, err := s.store.Scan(ctx, cursor, s.markerPattern(), s.cfg.ScanBatchSize).Result()
		if err != nil {
			return 0, fmt.Errorf("presence: marker scan failed: %w", err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

// Reset clears the count cache and availability state, restoring the
// service to its initial condition. Test isolation hook.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = Snapshot{}
	s.available = false
}

// markUnavailable logs on the transition to unavailable only, so a down
// store does not flood the log once per request.
func (s *Service) markUnavailable(err error) {
	s.mu.Lock()
	wasAvailable := s.available
	s.available = false
	s.mu.Unlock()

	if wasAvailable {
		s.log.Warn("presence store unavailable", logger.Error(err))
	} else {
		s.log.Debug("presence store still unavailable", logger.Error(err))
	}
}

func (s *Service) markAvailable() {
	s.mu.Lock()
	wasAvailable := s.available
	s.available = true
	s.mu.Unlock()

	if !wasAvailable {
		s.log.Info("presence store available")
	}
}
