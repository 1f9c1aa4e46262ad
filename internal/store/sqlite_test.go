package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/planner"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func samplePrefs(userID string) *planner.Preferences {
	return &planner.Preferences{
		UserID:                  userID,
		HomeAddress:             "1 Home St",
		PreferredStores:         []string{"1"},
		ShoppingDurationMinutes: 60,
		PreferredHours: []planner.HourWindow{
			{StartTime: "09:00", EndTime: "12:00", Days: []planner.DayOfWeek{planner.Saturday}},
		},
	}
}

func TestPreferencesUpsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	prefs := samplePrefs("u1")
	require.NoError(t, s.UpsertPreferences(ctx, prefs))
	assert.NotEmpty(t, prefs.ID)
	assert.False(t, prefs.CreatedAt.IsZero())

	got, err := s.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, prefs.ID, got.ID)
	assert.Equal(t, "1 Home St", got.HomeAddress)
	require.Len(t, got.PreferredHours, 1)
	assert.Equal(t, "09:00", got.PreferredHours[0].StartTime)
}

func TestPreferencesUpdatePreservesCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := samplePrefs("u1")
	require.NoError(t, s.UpsertPreferences(ctx, first))
	created := first.CreatedAt

	s.now = func() time.Time { return time.Now().Add(time.Hour) }
	second := samplePrefs("u1")
	second.HomeAddress = "2 New St"
	require.NoError(t, s.UpsertPreferences(ctx, second))

	got, err := s.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "2 New St", got.HomeAddress)
	assert.Equal(t, created.Unix(), got.CreatedAt.Unix())
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestGetPreferencesNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetPreferences(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}

func TestListPreferenceUserIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids, err := s.ListPreferenceUserIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.UpsertPreferences(ctx, samplePrefs("beta")))
	require.NoError(t, s.UpsertPreferences(ctx, samplePrefs("alpha")))

	ids, err = s.ListPreferenceUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, ids)
}

func TestGroceryListRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	list := &planner.GroceryList{
		UserID: "u1",
		Items: []planner.GroceryItem{
			{ID: planner.NewID(), Name: "Milk", Quantity: "2L"},
			{ID: planner.NewID(), Name: "Eggs", Category: "dairy", Completed: true},
		},
	}
	require.NoError(t, s.UpsertGroceryList(ctx, list))

	got, err := s.GetGroceryList(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Milk", got.Items[0].Name)
	assert.True(t, got.Items[1].Completed)

	_, err = s.GetGroceryList(ctx, "nobody")
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}

func sampleSchedule(userID string, weekStart time.Time) *planner.WeeklySchedule {
	return &planner.WeeklySchedule{
		UserID:    userID,
		WeekStart: weekStart,
		Suggestions: []planner.Suggestion{
			{
				ID:              planner.NewID(),
				SuggestedTime:   weekStart.Add(10 * time.Hour),
				DurationMinutes: 60,
				Store:           planner.Store{ID: "1", Name: "A"},
				ConfidenceScore: 0.8,
			},
		},
		Status: planner.SchedulePending,
	}
}

func TestReplaceWeekSchedule(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	week := planner.WeekStart(time.Now())

	first := sampleSchedule("u1", week)
	require.NoError(t, s.ReplaceWeekSchedule(ctx, first))

	second := sampleSchedule("u1", week)
	require.NoError(t, s.ReplaceWeekSchedule(ctx, second))

	got, err := s.GetScheduleForWeek(ctx, "u1", week)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	// A different week is still absent.
	_, err = s.GetScheduleForWeek(ctx, "u1", week.AddDate(0, 0, 7))
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}

func TestApproveSuggestion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	week := planner.WeekStart(time.Now())

	schedule := sampleSchedule("u1", week)
	require.NoError(t, s.ReplaceWeekSchedule(ctx, schedule))

	suggestionID := schedule.Suggestions[0].ID
	require.NoError(t, s.ApproveSuggestion(ctx, schedule.ID, suggestionID))

	got, err := s.GetScheduleForWeek(ctx, "u1", week)
	require.NoError(t, err)
	assert.Equal(t, planner.ScheduleApproved, got.Status)
	assert.Equal(t, suggestionID, got.ApprovedSuggestionID)
}

func TestApproveSuggestionUnknownSchedule(t *testing.T) {
	s := newTestStore(t)
	err := s.ApproveSuggestion(context.Background(), "nope", "s1")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}
