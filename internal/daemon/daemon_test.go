package daemon

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/shopplan/internal/config"
	"git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/eventlog"
	"git.home.luguber.info/inful/shopplan/internal/planner"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Database.Path = ":memory:"
	cfg.Scheduler.Enabled = false
	cfg.Notify.Enabled = false
	return cfg
}

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	d, err := NewDaemon(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = d.store.Close()
		_ = d.events.Close()
	})
	return d
}

func seedPreferences(t *testing.T, d *Daemon, userID string) *planner.Preferences {
	t.Helper()
	prefs := &planner.Preferences{
		UserID:                  userID,
		HomeAddress:             "123 Main St",
		ShoppingDurationMinutes: 60,
		PreferredHours: []planner.HourWindow{
			{StartTime: "09:00", EndTime: "12:00", Days: []planner.DayOfWeek{
				planner.Monday, planner.Tuesday, planner.Wednesday, planner.Thursday,
				planner.Friday, planner.Saturday, planner.Sunday,
			}},
		},
	}
	require.NoError(t, d.store.UpsertPreferences(context.Background(), prefs))
	return prefs
}

func TestDaemon_InitialStatus(t *testing.T) {
	d := newTestDaemon(t)
	assert.Equal(t, "stopped", d.GetStatus())
	assert.False(t, d.SchedulerEnabled())
}

func TestDaemon_GenerateScheduleForUser(t *testing.T) {
	d := newTestDaemon(t)
	seedPreferences(t, d, "alice")

	schedule, err := d.GenerateScheduleForUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", schedule.UserID)
	assert.NotEmpty(t, schedule.Suggestions)
	assert.Equal(t, planner.SchedulePending, schedule.Status)
	assert.Equal(t, planner.WeekStart(time.Now()), schedule.WeekStart)

	// The stored schedule matches what was returned.
	stored, err := d.CurrentSchedule(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, schedule.ID, stored.ID)

	// Regeneration replaces rather than duplicates.
	again, err := d.GenerateScheduleForUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, schedule.ID, again.ID)

	stored, err = d.CurrentSchedule(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, again.ID, stored.ID)
}

func TestDaemon_GenerateScheduleUnknownUser(t *testing.T) {
	d := newTestDaemon(t)

	_, err := d.GenerateScheduleForUser(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}

func TestDaemon_ApproveSuggestion(t *testing.T) {
	d := newTestDaemon(t)
	seedPreferences(t, d, "alice")

	schedule, err := d.GenerateScheduleForUser(context.Background(), "alice")
	require.NoError(t, err)
	require.NotEmpty(t, schedule.Suggestions)

	err = d.ApproveSuggestion(context.Background(), schedule.ID, schedule.Suggestions[0].ID)
	require.NoError(t, err)

	stored, err := d.CurrentSchedule(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, planner.ScheduleApproved, stored.Status)
	assert.Equal(t, schedule.Suggestions[0].ID, stored.ApprovedSuggestionID)
}

func TestDaemon_ApproveUnknownSchedule(t *testing.T) {
	d := newTestDaemon(t)

	err := d.ApproveSuggestion(context.Background(), "missing", "any")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}

func TestDaemon_UsersWithPreferences(t *testing.T) {
	d := newTestDaemon(t)

	n, err := d.UsersWithPreferences(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	seedPreferences(t, d, "alice")
	seedPreferences(t, d, "bob")

	n, err = d.UsersWithPreferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDaemon_RegenerateAll(t *testing.T) {
	d := newTestDaemon(t)
	seedPreferences(t, d, "alice")
	seedPreferences(t, d, "bob")

	d.RegenerateAll(context.Background())

	for _, user := range []string{"alice", "bob"} {
		schedule, err := d.CurrentSchedule(context.Background(), user)
		require.NoError(t, err, user)
		assert.NotEmpty(t, schedule.Suggestions, user)
	}
}

func TestDaemon_ConcurrentStoreAndAuditWrites(t *testing.T) {
	// File-backed database with the store and the audit log writing at the
	// same time. Both sides share one serialized connection, so no write
	// may fail with a busy database.
	cfg := testConfig()
	cfg.Database.Path = t.TempDir()

	d, err := NewDaemon(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = d.store.Close()
		_ = d.events.Close()
	})

	const workers = 4
	const iterations = 25

	errs := make(chan error, workers*iterations*2)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := context.Background()
			for i := range iterations {
				userID := fmt.Sprintf("user-%d-%d", w, i)
				prefs := &planner.Preferences{
					UserID:                  userID,
					HomeAddress:             "123 Main St",
					ShoppingDurationMinutes: 60,
					PreferredHours: []planner.HourWindow{
						{StartTime: "09:00", EndTime: "12:00", Days: []planner.DayOfWeek{planner.Monday}},
					},
				}
				if err := d.store.UpsertPreferences(ctx, prefs); err != nil {
					errs <- fmt.Errorf("upsert %s: %w", userID, err)
				}
				if err := d.events.Append(ctx, userID, eventlog.TypeScheduleGenerated, nil); err != nil {
					errs <- fmt.Errorf("append %s: %w", userID, err)
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestDaemon_StartAndStop(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.APIPort = 0
	cfg.HTTP.AdminPort = 0

	d, err := NewDaemon(cfg)
	require.NoError(t, err)

	require.NoError(t, d.Start(context.Background()))
	assert.Equal(t, "running", d.GetStatus())
	assert.False(t, d.GetStartTime().IsZero())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	assert.Equal(t, "stopped", d.GetStatus())
}
