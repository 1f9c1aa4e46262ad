// Package store persists preferences, grocery lists, and weekly schedules.
// Documents are stored as JSON columns keyed by user, preserving upsert-by-
// user and replace-week semantics.
package store

import (
	"context"
	"time"

	"git.home.luguber.info/inful/shopplan/internal/planner"
)

// Store is the persistence interface used by handlers and the daemon.
type Store interface {
	// UpsertPreferences inserts or updates the preferences for its user.
	// CreatedAt is preserved on update; UpdatedAt is refreshed.
	UpsertPreferences(ctx context.Context, prefs *planner.Preferences) error

	// GetPreferences returns the stored preferences, or a not_found error.
	GetPreferences(ctx context.Context, userID string) (*planner.Preferences, error)

	// ListPreferenceUserIDs returns every user id with stored preferences.
	ListPreferenceUserIDs(ctx context.Context) ([]string, error)

	// UpsertGroceryList inserts or updates the grocery list for its user.
	UpsertGroceryList(ctx context.Context, list *planner.GroceryList) error

	// GetGroceryList returns the stored list, or a not_found error.
	GetGroceryList(ctx context.Context, userID string) (*planner.GroceryList, error)

	// ReplaceWeekSchedule removes any schedule for the same user and week
	// before inserting the given one.
	ReplaceWeekSchedule(ctx context.Context, schedule *planner.WeeklySchedule) error

	// GetScheduleForWeek returns the schedule for a user and week start, or a
	// not_found error.
	GetScheduleForWeek(ctx context.Context, userID string, weekStart time.Time) (*planner.WeeklySchedule, error)

	// ApproveSuggestion marks a schedule approved with the given suggestion
	// id. It returns a not_found error for an unknown schedule id.
	ApproveSuggestion(ctx context.Context, scheduleID, suggestionID string) error

	// Close releases the underlying database.
	Close() error
}
