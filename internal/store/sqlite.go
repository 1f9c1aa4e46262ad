package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/planner"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Open opens the SQLite database at dsn, creating parent directories for
// file databases. The pool is capped at a single connection with a busy
// timeout so writers on separate handles queue instead of failing with
// SQLITE_BUSY, and so ":memory:" resolves to one shared database rather
// than a fresh one per pooled connection.
func Open(dsn string) (*sql.DB, error) {
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = "file:" + dsn + "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewSQLiteStore opens (or creates) the database at dsn and initializes the
// schema. Use ":memory:" for an in-memory database.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStoreWithDB(db)
}

// NewSQLiteStoreWithDB initializes the schema on an already opened handle.
// Used when the store shares its database with the audit log.
func NewSQLiteStoreWithDB(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		user_id TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS grocery_lists (
		user_id TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS weekly_schedules (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		week_start TEXT NOT NULL,
		doc TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE(user_id, week_start)
	);
	CREATE INDEX IF NOT EXISTS idx_schedules_user ON weekly_schedules(user_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// UpsertPreferences inserts or updates preferences keyed by user id.
func (s *SQLiteStore) UpsertPreferences(ctx context.Context, prefs *planner.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if prefs.ID == "" {
		prefs.ID = planner.NewID()
	}
	if prefs.CreatedAt.IsZero() {
		prefs.CreatedAt = now
	}
	prefs.UpdatedAt = now

	// Keep the original creation time across updates.
	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM preferences WHERE user_id = ?", prefs.UserID).Scan(&existing)
	switch {
	case err == nil:
		var prev planner.Preferences
		if jerr := json.Unmarshal([]byte(existing), &prev); jerr == nil && !prev.CreatedAt.IsZero() {
			prefs.CreatedAt = prev.CreatedAt
		}
	case err != sql.ErrNoRows:
		return errors.StorageError("failed to read existing preferences").
			WithCause(err).
			WithContext("user_id", prefs.UserID).
			Build()
	}

	doc, err := json.Marshal(prefs)
	if err != nil {
		return errors.StorageError("failed to marshal preferences").WithCause(err).Build()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, doc, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		prefs.UserID, string(doc), prefs.CreatedAt.Unix(), prefs.UpdatedAt.Unix())
	if err != nil {
		return errors.StorageError("failed to upsert preferences").
			WithCause(err).
			WithContext("user_id", prefs.UserID).
			Build()
	}
	return nil
}

// GetPreferences returns the stored preferences for a user.
func (s *SQLiteStore) GetPreferences(ctx context.Context, userID string) (*planner.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM preferences WHERE user_id = ?", userID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundError("preferences not found").
			WithContext("user_id", userID).
			Build()
	}
	if err != nil {
		return nil, errors.StorageError("failed to query preferences").
			WithCause(err).
			WithContext("user_id", userID).
			Build()
	}

	var prefs planner.Preferences
	if err := json.Unmarshal([]byte(doc), &prefs); err != nil {
		return nil, errors.StorageError("failed to unmarshal preferences").WithCause(err).Build()
	}
	return &prefs, nil
}

// ListPreferenceUserIDs returns every user id with stored preferences.
func (s *SQLiteStore) ListPreferenceUserIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT user_id FROM preferences ORDER BY user_id")
	if err != nil {
		return nil, errors.StorageError("failed to list preference users").WithCause(err).Build()
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.StorageError("failed to scan user id").WithCause(err).Build()
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StorageError("failed to iterate user ids").WithCause(err).Build()
	}
	return ids, nil
}

// UpsertGroceryList inserts or updates the grocery list keyed by user id.
func (s *SQLiteStore) UpsertGroceryList(ctx context.Context, list *planner.GroceryList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if list.ID == "" {
		list.ID = planner.NewID()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = now
	}
	list.UpdatedAt = now

	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM grocery_lists WHERE user_id = ?", list.UserID).Scan(&existing)
	switch {
	case err == nil:
		var prev planner.GroceryList
		if jerr := json.Unmarshal([]byte(existing), &prev); jerr == nil && !prev.CreatedAt.IsZero() {
			list.CreatedAt = prev.CreatedAt
		}
	case err != sql.ErrNoRows:
		return errors.StorageError("failed to read existing grocery list").
			WithCause(err).
			WithContext("user_id", list.UserID).
			Build()
	}

	doc, err := json.Marshal(list)
	if err != nil {
		return errors.StorageError("failed to marshal grocery list").WithCause(err).Build()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO grocery_lists (user_id, doc, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		list.UserID, string(doc), list.CreatedAt.Unix(), list.UpdatedAt.Unix())
	if err != nil {
		return errors.StorageError("failed to upsert grocery list").
			WithCause(err).
			WithContext("user_id", list.UserID).
			Build()
	}
	return nil
}

// GetGroceryList returns the stored grocery list for a user.
func (s *SQLiteStore) GetGroceryList(ctx context.Context, userID string) (*planner.GroceryList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM grocery_lists WHERE user_id = ?", userID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundError("grocery list not found").
			WithContext("user_id", userID).
			Build()
	}
	if err != nil {
		return nil, errors.StorageError("failed to query grocery list").
			WithCause(err).
			WithContext("user_id", userID).
			Build()
	}

	var list planner.GroceryList
	if err := json.Unmarshal([]byte(doc), &list); err != nil {
		return nil, errors.StorageError("failed to unmarshal grocery list").WithCause(err).Build()
	}
	return &list, nil
}

// weekKey formats a week start for the unique (user, week) constraint.
func weekKey(weekStart time.Time) string {
	return weekStart.Format(time.RFC3339)
}

// ReplaceWeekSchedule removes any schedule for the same user and week, then
// inserts the given one.
func (s *SQLiteStore) ReplaceWeekSchedule(ctx context.Context, schedule *planner.WeeklySchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if schedule.ID == "" {
		schedule.ID = planner.NewID()
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = s.now()
	}
	if schedule.Status == "" {
		schedule.Status = planner.SchedulePending
	}

	doc, err := json.Marshal(schedule)
	if err != nil {
		return errors.StorageError("failed to marshal schedule").WithCause(err).Build()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.StorageError("failed to begin transaction").WithCause(err).Build()
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM weekly_schedules WHERE user_id = ? AND week_start = ?",
		schedule.UserID, weekKey(schedule.WeekStart)); err != nil {
		return errors.StorageError("failed to clear existing week schedule").
			WithCause(err).
			WithContext("user_id", schedule.UserID).
			Build()
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO weekly_schedules (id, user_id, week_start, doc, created_at) VALUES (?, ?, ?, ?, ?)",
		schedule.ID, schedule.UserID, weekKey(schedule.WeekStart), string(doc), schedule.CreatedAt.Unix()); err != nil {
		return errors.StorageError("failed to insert week schedule").
			WithCause(err).
			WithContext("user_id", schedule.UserID).
			Build()
	}

	if err := tx.Commit(); err != nil {
		return errors.StorageError("failed to commit week schedule").WithCause(err).Build()
	}
	return nil
}

// GetScheduleForWeek returns the schedule for a user and week start.
func (s *SQLiteStore) GetScheduleForWeek(ctx context.Context, userID string, weekStart time.Time) (*planner.WeeklySchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM weekly_schedules WHERE user_id = ? AND week_start = ?",
		userID, weekKey(weekStart)).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundError("no schedule found for current week").
			WithContext("user_id", userID).
			Build()
	}
	if err != nil {
		return nil, errors.StorageError("failed to query schedule").
			WithCause(err).
			WithContext("user_id", userID).
			Build()
	}

	var schedule planner.WeeklySchedule
	if err := json.Unmarshal([]byte(doc), &schedule); err != nil {
		return nil, errors.StorageError("failed to unmarshal schedule").WithCause(err).Build()
	}
	return &schedule, nil
}

// ApproveSuggestion marks a schedule approved with the given suggestion id.
func (s *SQLiteStore) ApproveSuggestion(ctx context.Context, scheduleID, suggestionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM weekly_schedules WHERE id = ?", scheduleID).Scan(&doc)
	if err == sql.ErrNoRows {
		return errors.NotFoundError("schedule not found").
			WithContext("schedule_id", scheduleID).
			Build()
	}
	if err != nil {
		return errors.StorageError("failed to query schedule").
			WithCause(err).
			WithContext("schedule_id", scheduleID).
			Build()
	}

	var schedule planner.WeeklySchedule
	if err := json.Unmarshal([]byte(doc), &schedule); err != nil {
		return errors.StorageError("failed to unmarshal schedule").WithCause(err).Build()
	}

	schedule.ApprovedSuggestionID = suggestionID
	schedule.Status = planner.ScheduleApproved

	updated, err := json.Marshal(&schedule)
	if err != nil {
		return errors.StorageError("failed to marshal schedule").WithCause(err).Build()
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE weekly_schedules SET doc = ? WHERE id = ?", string(updated), scheduleID); err != nil {
		return errors.StorageError("failed to update schedule").
			WithCause(err).
			WithContext("schedule_id", scheduleID).
			Build()
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
