package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies helper key/value stability. Key drift would
// break log ingestion schemas.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"UserID", KeyUserID, "u1", UserID("u1")},
		{"ScheduleID", KeyScheduleID, "s1", ScheduleID("s1")},
		{"WeekStart", KeyWeekStart, "2026-08-31", WeekStart("2026-08-31")},
		{"StoreID", KeyStoreID, "st1", StoreID("st1")},
		{"JobID", KeyJobID, "j1", JobID("j1")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"Path", KeyPath, "/api/stores", Path("/api/stores")},
		{"UserAgent", KeyUserAgent, "ua", UserAgent("ua")},
		{"RemoteAddr", KeyRemoteAddr, "1.2.3.4", RemoteAddr("1.2.3.4")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestErrorAttr(t *testing.T) {
	if got := Error(nil).Value.String(); got != "" {
		t.Fatalf("nil error should produce empty value, got %q", got)
	}
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("expected boom, got %q", got)
	}
}
