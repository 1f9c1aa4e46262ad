// Package responses defines API response types used by shopplan HTTP
// handlers.
package responses

import "time"

// RootResponse is the API banner.
type RootResponse struct {
	Message string `json:"message"`
}

// GenerateScheduleResponse is returned after schedule generation.
type GenerateScheduleResponse struct {
	Message          string `json:"message"`
	SuggestionsCount int    `json:"suggestions_count"`
}

// ApproveResponse is returned after approving a suggestion.
type ApproveResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the admin health check payload.
type HealthResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Version      string    `json:"version"`
	Uptime       float64   `json:"uptime"`
	DaemonStatus string    `json:"daemon_status,omitempty"`
}

// StatusResponse is the admin status payload.
type StatusResponse struct {
	Status           string    `json:"status"`
	StartTime        time.Time `json:"start_time"`
	Uptime           float64   `json:"uptime"`
	UsersWithPrefs   int       `json:"users_with_preferences"`
	SchedulerEnabled bool      `json:"scheduler_enabled"`
	Timestamp        time.Time `json:"timestamp"`
}
