package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/server/responses"
	"git.home.luguber.info/inful/shopplan/internal/version"
)

// DaemonInterface defines the daemon methods needed by status handlers.
type DaemonInterface interface {
	GetStatus() string
	GetStartTime() time.Time
	SchedulerEnabled() bool
	UsersWithPreferences(ctx context.Context) (int, error)
}

// StatusHandlers serves the API banner and the admin health and status
// endpoints.
type StatusHandlers struct {
	daemon       DaemonInterface
	logger       *slog.Logger
	errorAdapter *errors.HTTPErrorAdapter
}

// NewStatusHandlers creates a status handlers instance.
func NewStatusHandlers(daemon DaemonInterface, logger *slog.Logger) *StatusHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusHandlers{
		daemon:       daemon,
		logger:       logger,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// HandleRoot returns the API banner.
func (h *StatusHandlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	resp := &responses.RootResponse{Message: "Grocery Scheduler API"}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write root response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleHealthCheck handles the health check endpoint.
func (h *StatusHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
	}
	if h.daemon != nil {
		health.Uptime = time.Since(h.daemon.GetStartTime()).Seconds()
		health.DaemonStatus = h.daemon.GetStatus()
	}

	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write health response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleStatus handles the daemon status endpoint.
func (h *StatusHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	users, err := h.daemon.UsersWithPreferences(r.Context())
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	status := &responses.StatusResponse{
		Status:           h.daemon.GetStatus(),
		StartTime:        h.daemon.GetStartTime(),
		Uptime:           time.Since(h.daemon.GetStartTime()).Seconds(),
		UsersWithPrefs:   users,
		SchedulerEnabled: h.daemon.SchedulerEnabled(),
		Timestamp:        time.Now().UTC(),
	}

	if err := writeJSONPretty(w, r, http.StatusOK, status); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write status response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
