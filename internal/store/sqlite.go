// Package store persists suggestion analytics to SQLite. It implements
// the engine's sink interface: writes are fire-and-forget from the
// engine's point of view, and a missing or broken database never blocks
// the suggestion pipeline.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/waltergaltieri/nudge/internal/engine"
	"github.com/waltergaltieri/nudge/internal/pathutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS suggestion_events (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	suggestion_id TEXT NOT NULL,
	tour_id       TEXT NOT NULL,
	pattern_id    TEXT,
	kind          TEXT NOT NULL,
	reason        TEXT,
	confidence    REAL NOT NULL,
	priority      TEXT NOT NULL,
	page_context  TEXT,
	at            TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_suggestion ON suggestion_events(suggestion_id);
CREATE INDEX IF NOT EXISTS idx_events_tour ON suggestion_events(tour_id, kind);

CREATE TABLE IF NOT EXISTS session_snapshots (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	created     INTEGER NOT NULL,
	shown       INTEGER NOT NULL,
	accepted    INTEGER NOT NULL,
	dismissed   INTEGER NOT NULL,
	expired     INTEGER NOT NULL,
	taken_at    TEXT NOT NULL
);
`

// SQLiteStore is the SQLite-backed analytics sink.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open creates or opens the analytics database. An empty path defaults to
// .nudge/analytics.db under the working directory.
func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		path = filepath.Join(".nudge", "analytics.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating analytics directory %s: %w", pathutil.RedactPath(dir), err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening analytics database %s: %w", pathutil.RedactPath(path), err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing analytics schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// RecordEvent appends one suggestion lifecycle event.
func (s *SQLiteStore) RecordEvent(ctx context.Context, ev engine.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suggestion_events
			(suggestion_id, tour_id, pattern_id, kind, reason, confidence, priority, page_context, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.SuggestionID, ev.TourID, ev.PatternID, string(ev.Kind), ev.Reason,
		ev.Confidence, string(ev.Priority), ev.PageContext, ev.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording suggestion event: %w", err)
	}
	return nil
}

// RecordSnapshot stores a session-level analytics snapshot, typically at
// session end.
func (s *SQLiteStore) RecordSnapshot(ctx context.Context, sessionID string, snap engine.AnalyticsSnapshot, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_snapshots
			(session_id, created, shown, accepted, dismissed, expired, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID, snap.Created, snap.Shown, snap.Accepted, snap.Dismissed, snap.Expired,
		at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording session snapshot: %w", err)
	}
	return nil
}

// TourStats aggregates outcomes for one tour across sessions.
type TourStats struct {
	TourID    string `json:"tour_id"`
	Shown     int    `json:"shown"`
	Accepted  int    `json:"accepted"`
	Dismissed int    `json:"dismissed"`
}

// TourStats reports per-tour outcome counts over all recorded sessions.
func (s *SQLiteStore) TourStats(ctx context.Context) ([]TourStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tour_id,
			SUM(CASE WHEN kind = 'shown' THEN 1 ELSE 0 END),
			SUM(CASE WHEN kind = 'accepted' THEN 1 ELSE 0 END),
			SUM(CASE WHEN kind = 'dismissed' THEN 1 ELSE 0 END)
		FROM suggestion_events
		GROUP BY tour_id
		ORDER BY tour_id`)
	if err != nil {
		return nil, fmt.Errorf("querying tour stats: %w", err)
	}
	defer rows.Close()

	var out []TourStats
	for rows.Next() {
		var ts TourStats
		if err := rows.Scan(&ts.TourID, &ts.Shown, &ts.Accepted, &ts.Dismissed); err != nil {
			return nil, fmt.Errorf("scanning tour stats: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// EventCount returns the number of recorded events, optionally filtered
// by kind. An empty kind counts everything.
func (s *SQLiteStore) EventCount(ctx context.Context, kind engine.EventKind) (int, error) {
	query := `SELECT COUNT(*) FROM suggestion_events`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}

// Close flushes and closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
