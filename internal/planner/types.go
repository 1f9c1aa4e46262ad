// Package planner holds the shopplan domain model and the weekly suggestion
// algorithm. Types are storage-agnostic and shared across the persistence and
// HTTP layers.
package planner

import (
	"time"

	"github.com/google/uuid"
)

// DayOfWeek is a lowercase weekday name as used in preference windows.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// Weekday converts t's weekday to a DayOfWeek.
func Weekday(t time.Time) DayOfWeek {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// IsWeekend reports whether d is Saturday or Sunday.
func (d DayOfWeek) IsWeekend() bool { return d == Saturday || d == Sunday }

// HourWindow is a preferred shopping window in HH:MM local time, applied on
// the listed days.
type HourWindow struct {
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	Days      []DayOfWeek `json:"days"`
}

// CoversDay reports whether the window applies on the given day.
func (w HourWindow) CoversDay(day DayOfWeek) bool {
	for _, d := range w.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Preferences describe a user's shopping habits.
type Preferences struct {
	ID                      string       `json:"id"`
	UserID                  string       `json:"user_id"`
	HomeAddress             string       `json:"home_address"`
	PreferredStores         []string     `json:"preferred_stores"`
	ShoppingDurationMinutes int          `json:"shopping_duration_minutes"`
	PreferredHours          []HourWindow `json:"preferred_hours"`
	CreatedAt               time.Time    `json:"created_at"`
	UpdatedAt               time.Time    `json:"updated_at"`
}

// GroceryItem is a single entry on a grocery list.
type GroceryItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  string `json:"quantity,omitempty"`
	Category  string `json:"category,omitempty"`
	Completed bool   `json:"completed"`
}

// GroceryList is a user's current grocery list.
type GroceryList struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Items     []GroceryItem `json:"items"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Event is a calendar event that blocks shopping slots.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Location  string    `json:"location,omitempty"`
}

// Store is a grocery store from the catalog.
type Store struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	DistanceKM float64 `json:"distance_km,omitempty"`
}

// Suggestion is a proposed shopping slot at a specific store.
type Suggestion struct {
	ID                string    `json:"id"`
	SuggestedTime     time.Time `json:"suggested_time"`
	DurationMinutes   int       `json:"duration_minutes"`
	Store             Store     `json:"store"`
	Reason            string    `json:"reason"`
	TravelTimeMinutes int       `json:"travel_time_minutes"`
	ConfidenceScore   float64   `json:"confidence_score"`
}

// ScheduleStatus tracks the lifecycle of a weekly schedule.
type ScheduleStatus string

const (
	SchedulePending  ScheduleStatus = "pending"
	ScheduleApproved ScheduleStatus = "approved"
)

// WeeklySchedule holds the ranked suggestions for one user and week.
type WeeklySchedule struct {
	ID                   string         `json:"id"`
	UserID               string         `json:"user_id"`
	WeekStart            time.Time      `json:"week_start"`
	Suggestions          []Suggestion   `json:"suggestions"`
	ApprovedSuggestionID string         `json:"approved_suggestion_id,omitempty"`
	Status               ScheduleStatus `json:"status"`
	CreatedAt            time.Time      `json:"created_at"`
}

// NewID returns a fresh UUIDv4 string for domain entities.
func NewID() string { return uuid.NewString() }
