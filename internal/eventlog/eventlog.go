// Package eventlog records an append-only audit trail of scheduling activity.
package eventlog

import (
	"context"
	"encoding/json"
	"time"
)

// EventType names an audit event.
type EventType string

const (
	// TypeScheduleGenerated is appended when a weekly schedule is created.
	TypeScheduleGenerated EventType = "schedule_generated"
	// TypeSuggestionApproved is appended when a suggestion is approved.
	TypeSuggestionApproved EventType = "suggestion_approved"
)

// Event is one audit record.
type Event struct {
	ID        int64           `json:"id"`
	UserID    string          `json:"user_id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Log is the audit trail interface.
type Log interface {
	// Append records an event. The payload is marshaled to JSON.
	Append(ctx context.Context, userID string, eventType EventType, payload any) error

	// ByUser returns all events for a user in append order.
	ByUser(ctx context.Context, userID string) ([]Event, error)

	// Recent returns the most recent events across users, newest first.
	Recent(ctx context.Context, limit int) ([]Event, error)

	// Close releases the underlying database.
	Close() error
}

// ScheduleGeneratedPayload is the payload for TypeScheduleGenerated.
type ScheduleGeneratedPayload struct {
	ScheduleID       string    `json:"schedule_id"`
	WeekStart        time.Time `json:"week_start"`
	SuggestionsCount int       `json:"suggestions_count"`
	Trigger          string    `json:"trigger"` // "api" or "scheduler"
}

// SuggestionApprovedPayload is the payload for TypeSuggestionApproved.
type SuggestionApprovedPayload struct {
	ScheduleID   string `json:"schedule_id"`
	SuggestionID string `json:"suggestion_id"`
}
