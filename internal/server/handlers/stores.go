package handlers

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/stores"
)

// StoreHandlers serves the store catalog endpoint.
type StoreHandlers struct {
	catalog      stores.Catalog
	logger       *slog.Logger
	errorAdapter *errors.HTTPErrorAdapter
}

// NewStoreHandlers creates a store handlers instance.
func NewStoreHandlers(catalog stores.Catalog, logger *slog.Logger) *StoreHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreHandlers{
		catalog:      catalog,
		logger:       logger,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// HandleList returns every store in the catalog with distances from home.
func (h *StoreHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	all := h.catalog.All()
	if err := writeJSONPretty(w, r, http.StatusOK, all); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write stores response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
