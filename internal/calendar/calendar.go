// Package calendar provides calendar event sources for the planner. The only
// shipped implementation is a static provider; real providers (CalDAV,
// Google) can implement planner.CalendarProvider behind the same interface.
package calendar

import (
	"context"
	"time"

	"git.home.luguber.info/inful/shopplan/internal/planner"
)

// StaticProvider serves a fixed set of events, generated relative to a clock.
// It mirrors the demo data the service ships with until a real calendar
// integration is configured.
type StaticProvider struct {
	now    func() time.Time
	events []planner.Event
}

// NewStaticProvider creates a provider with the built-in demo events. A nil
// clock defaults to time.Now.
func NewStaticProvider(clock func() time.Time) *StaticProvider {
	if clock == nil {
		clock = time.Now
	}
	p := &StaticProvider{now: clock}
	p.events = demoEvents(clock())
	return p
}

// NewStaticProviderWithEvents creates a provider over explicit events.
func NewStaticProviderWithEvents(events []planner.Event) *StaticProvider {
	return &StaticProvider{now: time.Now, events: events}
}

// Events returns the events whose start falls inside [from, to].
func (p *StaticProvider) Events(_ context.Context, _ string, from, to time.Time) ([]planner.Event, error) {
	var out []planner.Event
	for _, e := range p.events {
		if !e.StartTime.Before(from) && !e.StartTime.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func demoEvents(now time.Time) []planner.Event {
	return []planner.Event{
		{
			ID:        "1",
			Title:     "Work Meeting",
			StartTime: now.AddDate(0, 0, 1).Add(9 * time.Hour),
			EndTime:   now.AddDate(0, 0, 1).Add(10 * time.Hour),
			Location:  "123 Business St, Downtown",
		},
		{
			ID:        "2",
			Title:     "Gym Session",
			StartTime: now.AddDate(0, 0, 2).Add(18 * time.Hour),
			EndTime:   now.AddDate(0, 0, 2).Add(19 * time.Hour),
			Location:  "456 Fitness Ave, Midtown",
		},
		{
			ID:        "3",
			Title:     "Dinner with Friends",
			StartTime: now.AddDate(0, 0, 3).Add(19 * time.Hour),
			EndTime:   now.AddDate(0, 0, 3).Add(21 * time.Hour),
			Location:  "789 Restaurant Row, Uptown",
		},
	}
}
