package planner

import (
	"time"

	"git.home.luguber.info/inful/shopplan/internal/errors"
)

var validDays = map[DayOfWeek]bool{
	Monday: true, Tuesday: true, Wednesday: true, Thursday: true,
	Friday: true, Saturday: true, Sunday: true,
}

// parseClock parses an HH:MM wall-clock string.
func parseClock(s string) (time.Time, error) {
	return time.Parse("15:04", s)
}

// Validate checks preference invariants: parseable HH:MM windows with start
// before end, known day names, and a non-negative duration.
func (p *Preferences) Validate() error {
	if p.UserID == "" {
		return errors.ValidationError("user_id is required").Build()
	}
	if p.ShoppingDurationMinutes < 0 {
		return errors.ValidationError("shopping duration must not be negative").
			WithContext("shopping_duration_minutes", p.ShoppingDurationMinutes).
			Build()
	}
	for i, w := range p.PreferredHours {
		start, err := parseClock(w.StartTime)
		if err != nil {
			return errors.ValidationError("invalid start_time, expected HH:MM").
				WithContext("window", i).
				WithContext("start_time", w.StartTime).
				Build()
		}
		end, err := parseClock(w.EndTime)
		if err != nil {
			return errors.ValidationError("invalid end_time, expected HH:MM").
				WithContext("window", i).
				WithContext("end_time", w.EndTime).
				Build()
		}
		if !start.Before(end) {
			return errors.ValidationError("start_time must be before end_time").
				WithContext("window", i).
				Build()
		}
		if len(w.Days) == 0 {
			return errors.ValidationError("window must list at least one day").
				WithContext("window", i).
				Build()
		}
		for _, d := range w.Days {
			if !validDays[d] {
				return errors.ValidationError("unknown day name").
					WithContext("window", i).
					WithContext("day", string(d)).
					Build()
			}
		}
	}
	return nil
}

// ValidateList checks grocery list invariants.
func (l *GroceryList) ValidateList() error {
	if l.UserID == "" {
		return errors.ValidationError("user_id is required").Build()
	}
	for i, item := range l.Items {
		if item.Name == "" {
			return errors.ValidationError("item name is required").
				WithContext("item", i).
				Build()
		}
	}
	return nil
}
