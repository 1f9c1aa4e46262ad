package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/eventlog"
	"git.home.luguber.info/inful/shopplan/internal/planner"
	"git.home.luguber.info/inful/shopplan/internal/store"
	"git.home.luguber.info/inful/shopplan/internal/stores"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func validPreferencesBody() string {
	return `{
		"user_id": "alice",
		"home_address": "123 Main St",
		"preferred_stores": ["store-1"],
		"shopping_duration_minutes": 60,
		"preferred_hours": [
			{"start_time": "09:00", "end_time": "12:00", "days": ["saturday", "sunday"]}
		]
	}`
}

func TestPreferenceHandlers_UpsertAndGet(t *testing.T) {
	st := newTestStore(t)
	h := NewPreferenceHandlers(st, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/preferences", strings.NewReader(validPreferencesBody()))
	rec := httptest.NewRecorder()
	h.HandleUpsert(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved planner.Preferences
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "alice", saved.UserID)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	getReq := httptest.NewRequest(http.MethodGet, "/api/preferences/alice", nil)
	getReq.SetPathValue("user_id", "alice")
	getRec := httptest.NewRecorder()
	h.HandleGet(getRec, getReq)

	require.Equal(t, http.StatusOK, getRec.Code)
	var fetched planner.Preferences
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &fetched))
	assert.Equal(t, saved.ID, fetched.ID)
}

func TestPreferenceHandlers_InvalidBody(t *testing.T) {
	h := NewPreferenceHandlers(newTestStore(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/preferences", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.HandleUpsert(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreferenceHandlers_ValidationFailure(t *testing.T) {
	h := NewPreferenceHandlers(newTestStore(t), nil)

	body := `{"user_id": "", "shopping_duration_minutes": 60}`
	req := httptest.NewRequest(http.MethodPost, "/api/preferences", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleUpsert(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreferenceHandlers_GetUnknownUser(t *testing.T) {
	h := NewPreferenceHandlers(newTestStore(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/preferences/ghost", nil)
	req.SetPathValue("user_id", "ghost")
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGroceryListHandlers_EmptyListForUnknownUser(t *testing.T) {
	h := NewGroceryListHandlers(newTestStore(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/grocery-list/newcomer", nil)
	req.SetPathValue("user_id", "newcomer")
	rec := httptest.NewRecorder()
	h.HandleGet(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list planner.GroceryList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, "newcomer", list.UserID)
	assert.NotEmpty(t, list.ID)
	assert.Empty(t, list.Items)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestGroceryListHandlers_UpsertRoundtrip(t *testing.T) {
	h := NewGroceryListHandlers(newTestStore(t), nil)

	body := `{"user_id": "alice", "items": [{"name": "Milk", "quantity": "1L"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/grocery-list", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleUpsert(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	getReq := httptest.NewRequest(http.MethodGet, "/api/grocery-list/alice", nil)
	getReq.SetPathValue("user_id", "alice")
	getRec := httptest.NewRecorder()
	h.HandleGet(getRec, getReq)

	require.Equal(t, http.StatusOK, getRec.Code)
	var list planner.GroceryList
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Milk", list.Items[0].Name)
}

type stubScheduler struct {
	schedule *planner.WeeklySchedule
	err      error
	approved [2]string
}

func (s *stubScheduler) GenerateScheduleForUser(_ context.Context, userID string) (*planner.WeeklySchedule, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.schedule, nil
}

func (s *stubScheduler) CurrentSchedule(_ context.Context, userID string) (*planner.WeeklySchedule, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.schedule, nil
}

func (s *stubScheduler) ApproveSuggestion(_ context.Context, scheduleID, suggestionID string) error {
	s.approved = [2]string{scheduleID, suggestionID}
	return s.err
}

func TestScheduleHandlers_Generate(t *testing.T) {
	stub := &stubScheduler{schedule: &planner.WeeklySchedule{
		ID:          "sched-1",
		UserID:      "alice",
		Suggestions: []planner.Suggestion{{ID: "sug-1"}, {ID: "sug-2"}},
	}}
	h := NewScheduleHandlers(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/schedule/generate/alice", nil)
	req.SetPathValue("user_id", "alice")
	rec := httptest.NewRecorder()
	h.HandleGenerate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Message          string `json:"message"`
		SuggestionsCount int    `json:"suggestions_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.SuggestionsCount)
}

func TestScheduleHandlers_GenerateUnknownUser(t *testing.T) {
	stub := &stubScheduler{err: errors.NotFoundError("preferences not found").Build()}
	h := NewScheduleHandlers(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/schedule/generate/ghost", nil)
	req.SetPathValue("user_id", "ghost")
	rec := httptest.NewRecorder()
	h.HandleGenerate(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScheduleHandlers_Approve(t *testing.T) {
	stub := &stubScheduler{}
	h := NewScheduleHandlers(stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/schedule/approve/sched-1/sug-1", nil)
	req.SetPathValue("schedule_id", "sched-1")
	req.SetPathValue("suggestion_id", "sug-1")
	rec := httptest.NewRecorder()
	h.HandleApprove(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]string{"sched-1", "sug-1"}, stub.approved)
	assert.Contains(t, rec.Body.String(), "Suggestion approved successfully")
}

func TestStoreHandlers_List(t *testing.T) {
	catalog := stores.NewStaticCatalog(15)
	h := NewStoreHandlers(catalog, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stores", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var all []planner.Store
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.NotEmpty(t, all)
}

type stubDaemon struct{ users int }

func (d *stubDaemon) GetStatus() string        { return "running" }
func (d *stubDaemon) GetStartTime() time.Time  { return time.Now().Add(-time.Hour) }
func (d *stubDaemon) SchedulerEnabled() bool   { return true }
func (d *stubDaemon) UsersWithPreferences(context.Context) (int, error) {
	return d.users, nil
}

func TestStatusHandlers_Root(t *testing.T) {
	h := NewStatusHandlers(&stubDaemon{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	rec := httptest.NewRecorder()
	h.HandleRoot(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Grocery Scheduler API")
}

func TestStatusHandlers_HealthAndStatus(t *testing.T) {
	h := NewStatusHandlers(&stubDaemon{users: 3}, nil)

	rec := httptest.NewRecorder()
	h.HandleHealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = httptest.NewRecorder()
	h.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		UsersWithPrefs   int  `json:"users_with_preferences"`
		SchedulerEnabled bool `json:"scheduler_enabled"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 3, status.UsersWithPrefs)
	assert.True(t, status.SchedulerEnabled)
}

func newTestEventLog(t *testing.T) eventlog.Log {
	t.Helper()
	l, err := eventlog.NewSQLiteLog(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestActivityHandlers_Recent(t *testing.T) {
	events := newTestEventLog(t)
	ctx := context.Background()
	require.NoError(t, events.Append(ctx, "alice", eventlog.TypeScheduleGenerated, nil))
	require.NoError(t, events.Append(ctx, "bob", eventlog.TypeSuggestionApproved, nil))

	h := NewActivityHandlers(events, nil)

	rec := httptest.NewRecorder()
	h.HandleRecent(rec, httptest.NewRequest(http.MethodGet, "/activity", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []eventlog.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	// Newest first.
	assert.Equal(t, "bob", got[0].UserID)
	assert.Equal(t, "alice", got[1].UserID)
}

func TestActivityHandlers_RecentLimit(t *testing.T) {
	events := newTestEventLog(t)
	ctx := context.Background()
	for _, user := range []string{"u1", "u2", "u3"} {
		require.NoError(t, events.Append(ctx, user, eventlog.TypeScheduleGenerated, nil))
	}

	h := NewActivityHandlers(events, nil)

	rec := httptest.NewRecorder()
	h.HandleRecent(rec, httptest.NewRequest(http.MethodGet, "/activity?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []eventlog.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "u3", got[0].UserID)

	rec = httptest.NewRecorder()
	h.HandleRecent(rec, httptest.NewRequest(http.MethodGet, "/activity?limit=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActivityHandlers_RecentEmptyIsArray(t *testing.T) {
	h := NewActivityHandlers(newTestEventLog(t), nil)

	rec := httptest.NewRecorder()
	h.HandleRecent(rec, httptest.NewRequest(http.MethodGet, "/activity", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestActivityHandlers_ByUser(t *testing.T) {
	events := newTestEventLog(t)
	ctx := context.Background()
	require.NoError(t, events.Append(ctx, "alice", eventlog.TypeScheduleGenerated, nil))
	require.NoError(t, events.Append(ctx, "alice", eventlog.TypeSuggestionApproved, nil))
	require.NoError(t, events.Append(ctx, "bob", eventlog.TypeScheduleGenerated, nil))

	h := NewActivityHandlers(events, nil)

	req := httptest.NewRequest(http.MethodGet, "/activity/alice", nil)
	req.SetPathValue("user_id", "alice")
	rec := httptest.NewRecorder()
	h.HandleByUser(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []eventlog.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, eventlog.TypeScheduleGenerated, got[0].Type)
	assert.Equal(t, eventlog.TypeSuggestionApproved, got[1].Type)
}
