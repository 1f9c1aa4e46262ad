package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/logfields"
	"git.home.luguber.info/inful/shopplan/internal/planner"
	"git.home.luguber.info/inful/shopplan/internal/server/responses"
)

// SchedulerService defines the daemon methods needed by schedule handlers.
type SchedulerService interface {
	// GenerateScheduleForUser builds and stores a fresh schedule for the
	// current week.
	GenerateScheduleForUser(ctx context.Context, userID string) (*planner.WeeklySchedule, error)

	// CurrentSchedule returns the stored schedule for the current week.
	CurrentSchedule(ctx context.Context, userID string) (*planner.WeeklySchedule, error)

	// ApproveSuggestion marks a schedule approved with the chosen suggestion.
	ApproveSuggestion(ctx context.Context, scheduleID, suggestionID string) error
}

// ScheduleHandlers serves the schedule generation and approval endpoints.
type ScheduleHandlers struct {
	scheduler    SchedulerService
	logger       *slog.Logger
	errorAdapter *errors.HTTPErrorAdapter
}

// NewScheduleHandlers creates a schedule handlers instance.
func NewScheduleHandlers(scheduler SchedulerService, logger *slog.Logger) *ScheduleHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleHandlers{
		scheduler:    scheduler,
		logger:       logger,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// HandleGenerate builds a fresh weekly schedule for the user in the path and
// reports how many suggestions it produced.
func (h *ScheduleHandlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		verr := errors.ValidationError("user_id is required").Build()
		h.errorAdapter.WriteErrorResponse(w, r, verr)
		return
	}

	schedule, err := h.scheduler.GenerateScheduleForUser(r.Context(), userID)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	h.logger.Info("schedule generated",
		logfields.UserID(userID),
		logfields.ScheduleID(schedule.ID),
		slog.Int("suggestions", len(schedule.Suggestions)))

	resp := &responses.GenerateScheduleResponse{
		Message:          "Schedule generated successfully",
		SuggestionsCount: len(schedule.Suggestions),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write schedule response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleGet returns the current week's schedule for the user in the path.
func (h *ScheduleHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		verr := errors.ValidationError("user_id is required").Build()
		h.errorAdapter.WriteErrorResponse(w, r, verr)
		return
	}

	schedule, err := h.scheduler.CurrentSchedule(r.Context(), userID)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	if err := writeJSONPretty(w, r, http.StatusOK, schedule); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write schedule response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleApprove marks the schedule in the path as approved with the chosen
// suggestion.
func (h *ScheduleHandlers) HandleApprove(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("schedule_id")
	suggestionID := r.PathValue("suggestion_id")
	if scheduleID == "" || suggestionID == "" {
		verr := errors.ValidationError("schedule_id and suggestion_id are required").Build()
		h.errorAdapter.WriteErrorResponse(w, r, verr)
		return
	}

	if err := h.scheduler.ApproveSuggestion(r.Context(), scheduleID, suggestionID); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	h.logger.Info("suggestion approved",
		logfields.ScheduleID(scheduleID),
		slog.String("suggestion_id", suggestionID))

	resp := &responses.ApproveResponse{Message: "Suggestion approved successfully"}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write approval response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
