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

// GroceryListHandlers serves the grocery list endpoints.
type GroceryListHandlers struct {
	store        store.Store
	logger       *slog.Logger
	errorAdapter *errors.HTTPErrorAdapter
}

// NewGroceryListHandlers creates a grocery list handlers instance.
func NewGroceryListHandlers(st store.Store, logger *slog.Logger) *GroceryListHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroceryListHandlers{
		store:        st,
		logger:       logger,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// HandleUpsert stores the grocery list from the request body, replacing the
// user's current list.
func (h *GroceryListHandlers) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var list planner.GroceryList
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		verr := errors.ValidationError("invalid grocery list payload").
			WithCause(err).
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, verr)
		return
	}

	if err := list.ValidateList(); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.store.UpsertGroceryList(r.Context(), &list); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	h.logger.Info("grocery list saved",
		logfields.UserID(list.UserID),
		slog.Int("items", len(list.Items)))

	if err := writeJSONPretty(w, r, http.StatusOK, &list); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write grocery list response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleGet returns the user's grocery list. A user with no stored list gets
// an empty list rather than a not found error.
func (h *GroceryListHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		verr := errors.ValidationError("user_id is required").Build()
		h.errorAdapter.WriteErrorResponse(w, r, verr)
		return
	}

	list, err := h.store.GetGroceryList(r.Context(), userID)
	if err != nil {
		if errors.IsCategory(err, errors.CategoryNotFound) {
			list = &planner.GroceryList{
				ID:     planner.NewID(),
				UserID: userID,
				Items:  []planner.GroceryItem{},
			}
		} else {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
	}

	if err := writeJSONPretty(w, r, http.StatusOK, list); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write grocery list response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
