package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/logfields"
	"git.home.luguber.info/inful/shopplan/internal/planner"
	"git.home.luguber.info/inful/shopplan/internal/store"
)

// PreferenceHandlers serves the user preference endpoints.
type PreferenceHandlers struct {
	store        store.Store
	logger       *slog.Logger
	errorAdapter *errors.HTTPErrorAdapter
}

// NewPreferenceHandlers creates a preference handlers instance.
func NewPreferenceHandlers(st store.Store, logger *slog.Logger) *PreferenceHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferenceHandlers{
		store:        st,
		logger:       logger,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// HandleUpsert stores the preferences from the request body, creating or
// replacing the user's existing document.
func (h *PreferenceHandlers) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var prefs planner.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		verr := errors.ValidationError("invalid preferences payload").
			WithCause(err).
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, verr)
		return
	}

	if err := prefs.Validate(); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.store.UpsertPreferences(r.Context(), &prefs); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	h.logger.Info("preferences saved", logfields.UserID(prefs.UserID))

	if err := writeJSONPretty(w, r, http.StatusOK, &prefs); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write preferences response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleGet returns the stored preferences for the user in the path.
func (h *PreferenceHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		verr := errors.ValidationError("user_id is required").Build()
		h.errorAdapter.WriteErrorResponse(w, r, verr)
		return
	}

	prefs, err := h.store.GetPreferences(r.Context(), userID)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	if err := writeJSONPretty(w, r, http.StatusOK, prefs); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write preferences response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
