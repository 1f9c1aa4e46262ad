package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/eventlog"
)

// ActivityHandlers serves the admin audit trail endpoints.
type ActivityHandlers struct {
	events       eventlog.Log
	logger       *slog.Logger
	errorAdapter *errors.HTTPErrorAdapter
}

// NewActivityHandlers creates an activity handlers instance.
func NewActivityHandlers(events eventlog.Log, logger *slog.Logger) *ActivityHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityHandlers{
		events:       events,
		logger:       logger,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// HandleRecent returns the most recent audit events across all users. The
// limit query parameter caps the result, defaulting to 50.
func (h *ActivityHandlers) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			verr := errors.ValidationError("limit must be a positive integer").Build()
			h.errorAdapter.WriteErrorResponse(w, r, verr)
			return
		}
		limit = n
	}

	events, err := h.events.Recent(r.Context(), limit)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if events == nil {
		events = []eventlog.Event{}
	}

	if err := writeJSONPretty(w, r, http.StatusOK, events); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write activity response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleByUser returns a user's audit events in insertion order.
func (h *ActivityHandlers) HandleByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		verr := errors.ValidationError("user_id is required").Build()
		h.errorAdapter.WriteErrorResponse(w, r, verr)
		return
	}

	events, err := h.events.ByUser(r.Context(), userID)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if events == nil {
		events = []eventlog.Event{}
	}

	if err := writeJSONPretty(w, r, http.StatusOK, events); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write activity response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
