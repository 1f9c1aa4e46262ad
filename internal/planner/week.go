package planner

import "time"

// WeekStart returns midnight of the Monday of the week containing t, in t's
// location. Schedules are keyed by this instant.
func WeekStart(t time.Time) time.Time {
	daysSinceMonday := int(t.Weekday()) - int(time.Monday)
	if daysSinceMonday < 0 {
		daysSinceMonday += 7 // Sunday
	}
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}
