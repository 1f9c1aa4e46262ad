package daemon

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/shopplan/internal/eventlog"
	"git.home.luguber.info/inful/shopplan/internal/logfields"
	"git.home.luguber.info/inful/shopplan/internal/metrics"
	"git.home.luguber.info/inful/shopplan/internal/notify"
	"git.home.luguber.info/inful/shopplan/internal/planner"
)

// GenerateScheduleForUser builds the current week's suggestions for a user
// and replaces any stored schedule for that week.
func (d *Daemon) GenerateScheduleForUser(ctx context.Context, userID string) (*planner.WeeklySchedule, error) {
	return d.generateSchedule(ctx, userID, "api")
}

func (d *Daemon) generateSchedule(ctx context.Context, userID, trigger string) (*planner.WeeklySchedule, error) {
	started := d.now()

	prefs, err := d.store.GetPreferences(ctx, userID)
	if err != nil {
		d.recorder.IncScheduleOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	weekStart := planner.WeekStart(d.now())
	suggestions, err := d.planner.GenerateWeek(ctx, prefs, weekStart)
	if err != nil {
		d.recorder.IncScheduleOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	schedule := &planner.WeeklySchedule{
		ID:          planner.NewID(),
		UserID:      userID,
		WeekStart:   weekStart,
		Suggestions: suggestions,
		Status:      planner.SchedulePending,
		CreatedAt:   d.now(),
	}

	if err := d.store.ReplaceWeekSchedule(ctx, schedule); err != nil {
		d.recorder.IncScheduleOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	d.recorder.ObserveScheduleGeneration(time.Since(started))
	d.recorder.ObserveSuggestionsPerSchedule(len(suggestions))
	d.recorder.IncScheduleOutcome(metrics.OutcomeSuccess)

	if err := d.events.Append(ctx, userID, eventlog.TypeScheduleGenerated, eventlog.ScheduleGeneratedPayload{
		ScheduleID:       schedule.ID,
		WeekStart:        weekStart,
		SuggestionsCount: len(suggestions),
		Trigger:          trigger,
	}); err != nil {
		d.logger.Warn("failed to record schedule event",
			logfields.UserID(userID),
			logfields.Error(err))
	}

	if err := d.notifier.PublishScheduleGenerated(ctx, notify.ScheduleGenerated{
		UserID:           userID,
		ScheduleID:       schedule.ID,
		WeekStart:        weekStart,
		SuggestionsCount: len(suggestions),
		Timestamp:        d.now(),
	}); err != nil {
		d.logger.Warn("failed to publish schedule notification",
			logfields.UserID(userID),
			logfields.Error(err))
	}

	d.logger.Info("schedule generated",
		logfields.UserID(userID),
		logfields.ScheduleID(schedule.ID),
		logfields.WeekStart(weekStart.Format(time.RFC3339)),
		slog.Int("suggestions", len(suggestions)),
		slog.String("trigger", trigger))

	return schedule, nil
}

// CurrentSchedule returns the stored schedule for the current week.
func (d *Daemon) CurrentSchedule(ctx context.Context, userID string) (*planner.WeeklySchedule, error) {
	weekStart := planner.WeekStart(d.now())
	return d.store.GetScheduleForWeek(ctx, userID, weekStart)
}

// ApproveSuggestion marks a schedule approved with the chosen suggestion.
func (d *Daemon) ApproveSuggestion(ctx context.Context, scheduleID, suggestionID string) error {
	if err := d.store.ApproveSuggestion(ctx, scheduleID, suggestionID); err != nil {
		return err
	}

	d.recorder.IncSuggestionApproved()

	if err := d.events.Append(ctx, "", eventlog.TypeSuggestionApproved, eventlog.SuggestionApprovedPayload{
		ScheduleID:   scheduleID,
		SuggestionID: suggestionID,
	}); err != nil {
		d.logger.Warn("failed to record approval event",
			logfields.ScheduleID(scheduleID),
			logfields.Error(err))
	}

	if err := d.notifier.PublishSuggestionApproved(ctx, notify.SuggestionApproved{
		ScheduleID:   scheduleID,
		SuggestionID: suggestionID,
		Timestamp:    d.now(),
	}); err != nil {
		d.logger.Warn("failed to publish approval notification",
			logfields.ScheduleID(scheduleID),
			logfields.Error(err))
	}

	return nil
}

// RegenerateAll rebuilds the current week's schedule for every user with
// stored preferences. It is called by the periodic scheduler.
func (d *Daemon) RegenerateAll(ctx context.Context) {
	userIDs, err := d.store.ListPreferenceUserIDs(ctx)
	if err != nil {
		d.logger.Error("failed to list users for regeneration", logfields.Error(err))
		return
	}

	for _, userID := range userIDs {
		if _, err := d.generateSchedule(ctx, userID, "scheduler"); err != nil {
			d.logger.Error("scheduled regeneration failed",
				logfields.UserID(userID),
				logfields.Error(err))
		}
	}

	d.logger.Info("scheduled regeneration finished", slog.Int("users", len(userIDs)))
}
