// Package metrics defines observability hooks for the API and the planner.
package metrics

import "time"

// OutcomeLabel enumerates schedule generation outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks. Implementations may forward to
// Prometheus or elsewhere. All methods must be safe on the NoopRecorder so
// injection stays optional.
type Recorder interface {
	IncHTTPRequest(method, path string, status int)
	ObserveScheduleGeneration(d time.Duration)
	ObserveSuggestionsPerSchedule(n int)
	IncScheduleOutcome(outcome OutcomeLabel)
	IncSuggestionApproved()
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) IncHTTPRequest(string, string, int)      {}
func (NoopRecorder) ObserveScheduleGeneration(time.Duration) {}
func (NoopRecorder) ObserveSuggestionsPerSchedule(int)       {}
func (NoopRecorder) IncScheduleOutcome(OutcomeLabel)         {}
func (NoopRecorder) IncSuggestionApproved()                  {}
