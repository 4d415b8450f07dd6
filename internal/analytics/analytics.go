package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pixeltool/presenced/core/logger"
)

// Querier is the subset of pgxpool.Pool the store issues.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store accumulates per-day distinct session statistics. One row exists per
// (session, day); repeated heartbeats only bump last_seen_at.
type Store struct {
	db  Querier
	log *slog.Logger
}

// New creates an analytics store on top of the given query executor.
func New(db Querier, log *slog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With(logger.Component("analytics")),
	}
}

const upsertEventQuery = `
INSERT INTO presence_events (session_id, widget_id, seen_on, first_seen_at, last_seen_at)
VALUES ($1, $2, $3, $4, $4)
ON CONFLICT (session_id, seen_on)
DO UPDATE SET
	last_seen_at = EXCLUDED.last_seen_at,
	widget_id    = COALESCE(EXCLUDED.widget_id, presence_events.widget_id)`

// RecordHeartbeat upserts the session's row for the calendar day of at
// (UTC). widgetID is informational; empty means unknown and never
// overwrites a previously recorded widget.
func (s *Store) RecordHeartbeat(ctx context.Context, sessionID, widgetID string, at time.Time) error {
	var widget any
	if widgetID != "" {
		widget = widgetID
	}

	at = at.UTC()
	if _, err := s.db.Exec(ctx, upsertEventQuery, sessionID, widget, dayOf(at), at); err != nil {
		return fmt.Errorf("analytics: failed to record heartbeat: %w", err)
	}
	return nil
}

const countTodayQuery = `SELECT COUNT(*) FROM presence_events WHERE seen_on = $1`

// TodayUniqueSessions returns the number of distinct sessions seen during
// the current UTC calendar day.
func (s *Store) TodayUniqueSessions(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, countTodayQuery, dayOf(time.Now().UTC())).Scan(&count); err != nil {
		return 0, fmt.Errorf("analytics: failed to count today's sessions: %w", err)
	}
	return count, nil
}

// dayOf truncates a UTC timestamp to its calendar date.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
