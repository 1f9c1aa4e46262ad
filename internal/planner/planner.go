package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"git.home.luguber.info/inful/shopplan/internal/errors"
)

// CalendarProvider supplies the events that block shopping slots.
type CalendarProvider interface {
	Events(ctx context.Context, userID string, from, to time.Time) ([]Event, error)
}

// StoreSource supplies candidate stores and travel estimates.
type StoreSource interface {
	// Nearby returns up to limit stores considered close to the location.
	Nearby(location string, limit int) []Store
	// TravelTimeMinutes estimates travel from a location to a store.
	TravelTimeMinutes(from string, to Store) int
}

// Options tune suggestion generation.
type Options struct {
	// DefaultDurationMinutes applies when preferences omit a duration.
	DefaultDurationMinutes int
	// MaxSuggestions caps the ranked result.
	MaxSuggestions int
	// NearbyStores is how many stores each free slot fans out to.
	NearbyStores int
}

// Planner generates weekly shopping suggestions.
type Planner struct {
	calendar CalendarProvider
	stores   StoreSource
	opts     Options
}

// New creates a Planner.
func New(calendar CalendarProvider, stores StoreSource, opts Options) *Planner {
	if opts.DefaultDurationMinutes <= 0 {
		opts.DefaultDurationMinutes = 60
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = 5
	}
	if opts.NearbyStores <= 0 {
		opts.NearbyStores = 2
	}
	return &Planner{calendar: calendar, stores: stores, opts: opts}
}

const slotStep = time.Hour

// GenerateWeek produces ranked shopping suggestions for the week starting at
// weekStart. For every day covered by a preferred hour window it walks hourly
// slot starts, drops slots that collide with calendar events, and emits one
// suggestion per nearby store for each free slot. Results are ranked by
// confidence (weekend slots score higher) with a stable sort and capped.
func (p *Planner) GenerateWeek(ctx context.Context, prefs *Preferences, weekStart time.Time) ([]Suggestion, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	duration := time.Duration(prefs.ShoppingDurationMinutes) * time.Minute
	if duration <= 0 {
		duration = time.Duration(p.opts.DefaultDurationMinutes) * time.Minute
	}

	weekEnd := weekStart.AddDate(0, 0, 7)
	events, err := p.calendar.Events(ctx, prefs.UserID, weekStart, weekEnd)
	if err != nil {
		return nil, errors.CalendarError("failed to load calendar events").
			WithCause(err).
			WithContext("user_id", prefs.UserID).
			Build()
	}

	// Always an allocated slice: an empty week marshals as [] rather than null.
	suggestions := []Suggestion{}
	for dayOffset := range 7 {
		day := weekStart.AddDate(0, 0, dayOffset)
		dayName := Weekday(day)

		for _, window := range prefs.PreferredHours {
			if !window.CoversDay(dayName) {
				continue
			}

			start, err := parseClock(window.StartTime)
			if err != nil {
				continue // validated above; guards hand-built preferences
			}
			end, err := parseClock(window.EndTime)
			if err != nil {
				continue
			}

			slot := combine(day, start)
			windowEnd := combine(day, end)

			for ; !slot.Add(duration).After(windowEnd); slot = slot.Add(slotStep) {
				if conflicts(events, slot, slot.Add(duration)) {
					continue
				}
				for _, store := range p.stores.Nearby(prefs.HomeAddress, p.opts.NearbyStores) {
					confidence := 0.6
					if dayName.IsWeekend() {
						confidence = 0.8
					}
					suggestions = append(suggestions, Suggestion{
						ID:                NewID(),
						SuggestedTime:     slot,
						DurationMinutes:   int(duration / time.Minute),
						Store:             store,
						Reason:            fmt.Sprintf("Free time on %s during your preferred hours", day.Weekday()),
						TravelTimeMinutes: p.stores.TravelTimeMinutes(prefs.HomeAddress, store),
						ConfidenceScore:   confidence,
					})
				}
			}
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].ConfidenceScore > suggestions[j].ConfidenceScore
	})
	if len(suggestions) > p.opts.MaxSuggestions {
		suggestions = suggestions[:p.opts.MaxSuggestions]
	}
	return suggestions, nil
}

// conflicts reports whether any event overlaps the [slotStart, slotEnd] span.
// An event overlaps when its start or end falls inside the span, or when it
// covers the span entirely. Boundaries count as conflicts.
func conflicts(events []Event, slotStart, slotEnd time.Time) bool {
	for _, e := range events {
		if within(e.StartTime, slotStart, slotEnd) ||
			within(e.EndTime, slotStart, slotEnd) ||
			(!e.StartTime.After(slotStart) && !e.EndTime.Before(slotEnd)) {
			return true
		}
	}
	return false
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// combine merges a calendar date with an HH:MM wall-clock time.
func combine(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, day.Location())
}
