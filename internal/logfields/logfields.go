// Package logfields defines canonical slog attribute helpers so field names
// do not drift between packages.
package logfields

import "log/slog"

const (
	KeyUserID     = "user_id"
	KeyScheduleID = "schedule_id"
	KeyWeekStart  = "week_start"
	KeyStoreID    = "store_id"
	KeyJobID      = "job_id"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

func UserID(id string) slog.Attr       { return slog.String(KeyUserID, id) }
func ScheduleID(id string) slog.Attr   { return slog.String(KeyScheduleID, id) }
func WeekStart(w string) slog.Attr     { return slog.String(KeyWeekStart, w) }
func StoreID(id string) slog.Attr      { return slog.String(KeyStoreID, id) }
func JobID(id string) slog.Attr        { return slog.String(KeyJobID, id) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
