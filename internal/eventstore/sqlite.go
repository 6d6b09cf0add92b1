package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
)

// historySchema keeps one row per render event. recorded_ms is Unix
// milliseconds so range queries stay integer comparisons.
const historySchema = `
CREATE TABLE IF NOT EXISTS render_events (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	build_id    TEXT    NOT NULL,
	kind        TEXT    NOT NULL,
	recorded_ms INTEGER NOT NULL,
	payload     BLOB    NOT NULL,
	tags        TEXT
);
CREATE INDEX IF NOT EXISTS render_events_build ON render_events(build_id);
CREATE INDEX IF NOT EXISTS render_events_recorded ON render_events(recorded_ms);
`

const selectEvents = `SELECT seq, build_id, kind, recorded_ms, payload, tags FROM render_events `

// SQLiteStore is the render history kept by `render --history` and read by
// the history command.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore opens the history database at dbPath, creating the file and
// schema on first use. ":memory:" gives a store that lives as long as the
// value.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storeError(err, "open history database", dbPath)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, storeError(err, "initialize history schema", dbPath)
	}
	return &SQLiteStore{db: db}, nil
}

func storeError(err error, msg, path string) error {
	return errors.WrapError(err, errors.CategoryStore, msg).WithContext("path", path).Build()
}

// Append records an event under the current wall clock.
func (s *SQLiteStore) Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error {
	var tags []byte
	if len(metadata) > 0 {
		var err error
		if tags, err = json.Marshal(metadata); err != nil {
			return errors.WrapError(err, errors.CategoryStore, "encode event tags").Build()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO render_events (build_id, kind, recorded_ms, payload, tags) VALUES (?, ?, ?, ?, ?)`,
		buildID, eventType, time.Now().UnixMilli(), payload, tags,
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryStore, "append render event").
			WithContext("build_id", buildID).
			WithContext("event_type", eventType).
			Build()
	}
	return nil
}

// GetByBuildID returns every event of one render, oldest first.
func (s *SQLiteStore) GetByBuildID(ctx context.Context, buildID string) ([]Event, error) {
	return s.query(ctx, `WHERE build_id = ? ORDER BY seq`, buildID)
}

// GetRange returns the events recorded between start and end inclusive.
func (s *SQLiteStore) GetRange(ctx context.Context, start, end time.Time) ([]Event, error) {
	return s.query(ctx, `WHERE recorded_ms BETWEEN ? AND ? ORDER BY seq`, start.UnixMilli(), end.UnixMilli())
}

func (s *SQLiteStore) query(ctx context.Context, where string, args ...any) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectEvents+where, args...)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "query render events").Build()
	}
	defer func() { _ = rows.Close() }()

	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "read render events").Build()
	}
	return out, nil
}

func scanEvent(rows *sql.Rows) (*BaseEvent, error) {
	var (
		e          BaseEvent
		recordedMS int64
		tags       []byte
	)
	if err := rows.Scan(&e.EventID, &e.EventBuildID, &e.EventType, &recordedMS, &e.EventPayload, &tags); err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "scan render event").Build()
	}
	e.EventTimestamp = time.UnixMilli(recordedMS)
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &e.EventMetadata); err != nil {
			return nil, errors.WrapError(err, errors.CategoryStore, "decode event tags").
				WithContext("seq", e.EventID).
				Build()
		}
	}
	return &e, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
