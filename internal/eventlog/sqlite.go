package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/shopplan/internal/errors"
)

// SQLiteLog implements Log using SQLite.
type SQLiteLog struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteLog opens the audit log database. Use ":memory:" for tests.
func NewSQLiteLog(dsn string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return NewSQLiteLogWithDB(db)
}

// NewSQLiteLogWithDB initializes the audit schema on an already opened
// handle. The service shares one single-connection handle between the
// store and the audit log so their writes serialize.
func NewSQLiteLogWithDB(db *sql.DB) (*SQLiteLog, error) {
	l := &SQLiteLog{db: db}
	if err := l.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize audit schema: %w", err)
	}
	return l, nil
}

func (l *SQLiteLog) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		payload BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_audit_user ON audit_events(user_id);
	CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Append records an event with a JSON payload.
func (l *SQLiteLog) Append(ctx context.Context, userID string, eventType EventType, payload any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var payloadJSON []byte
	if payload != nil {
		var err error
		payloadJSON, err = json.Marshal(payload)
		if err != nil {
			return errors.EventLogError("failed to marshal event payload").
				WithCause(err).
				WithContext("event_type", string(eventType)).
				Build()
		}
	}

	_, err := l.db.ExecContext(ctx,
		"INSERT INTO audit_events (user_id, event_type, timestamp, payload) VALUES (?, ?, ?, ?)",
		userID, string(eventType), time.Now().Unix(), payloadJSON)
	if err != nil {
		return errors.EventLogError("failed to append event").
			WithCause(err).
			WithContext("event_type", string(eventType)).
			Build()
	}
	return nil
}

// ByUser returns all events for a user in append order.
func (l *SQLiteLog) ByUser(ctx context.Context, userID string) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.db.QueryContext(ctx,
		"SELECT id, user_id, event_type, timestamp, payload FROM audit_events WHERE user_id = ? ORDER BY id",
		userID)
	if err != nil {
		return nil, errors.EventLogError("failed to query events").WithCause(err).Build()
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Recent returns the most recent events across users, newest first.
func (l *SQLiteLog) Recent(ctx context.Context, limit int) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx,
		"SELECT id, user_id, event_type, timestamp, payload FROM audit_events ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, errors.EventLogError("failed to query recent events").WithCause(err).Build()
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var (
			e         Event
			eventType string
			unix      int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &eventType, &unix, (*[]byte)(&e.Payload)); err != nil {
			return nil, errors.EventLogError("failed to scan event row").WithCause(err).Build()
		}
		e.Type = EventType(eventType)
		e.Timestamp = time.Unix(unix, 0)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.EventLogError("failed to iterate event rows").WithCause(err).Build()
	}
	return events, nil
}

// Close closes the database connection.
func (l *SQLiteLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db.Close()
}
