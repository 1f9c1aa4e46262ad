// Package notify publishes scheduling events for downstream consumers
// (reminder services, mobile push relays). Publishing is best-effort: the API
// never fails a request because a notification could not be sent.
package notify

import (
	"context"
	"time"
)

// ScheduleGenerated describes a freshly generated weekly schedule.
type ScheduleGenerated struct {
	UserID           string    `json:"user_id"`
	ScheduleID       string    `json:"schedule_id"`
	WeekStart        time.Time `json:"week_start"`
	SuggestionsCount int       `json:"suggestions_count"`
	Timestamp        time.Time `json:"timestamp"`
}

// SuggestionApproved describes an approved shopping suggestion.
type SuggestionApproved struct {
	ScheduleID   string    `json:"schedule_id"`
	SuggestionID string    `json:"suggestion_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// Notifier publishes scheduling events.
type Notifier interface {
	PublishScheduleGenerated(ctx context.Context, ev ScheduleGenerated) error
	PublishSuggestionApproved(ctx context.Context, ev SuggestionApproved) error
	Close() error
}

// NoopNotifier drops all events (default when notifications are disabled).
type NoopNotifier struct{}

func (NoopNotifier) PublishScheduleGenerated(context.Context, ScheduleGenerated) error {
	return nil
}
func (NoopNotifier) PublishSuggestionApproved(context.Context, SuggestionApproved) error {
	return nil
}
func (NoopNotifier) Close() error { return nil }
