package httpserver

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/shopplan/internal/eventlog"
	"git.home.luguber.info/inful/shopplan/internal/metrics"
)

// Options configures additional server wiring that is runtime-specific.
type Options struct {
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger

	// Recorder receives per-request metrics. Nil means no recording.
	Recorder metrics.Recorder

	// MetricsHandler, when set, is mounted at /metrics on the admin server.
	MetricsHandler http.Handler

	// EventLog, when set, exposes the audit trail under /activity on the
	// admin server.
	EventLog eventlog.Log
}
