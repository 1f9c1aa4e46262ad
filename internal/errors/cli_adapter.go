package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for
// the command line entrypoint.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if ce, ok := AsClassified(err); ok {
		switch ce.Category() {
		case CategoryValidation:
			return 2
		case CategoryConfig:
			return 7
		case CategoryCalendar, CategoryNotify:
			return 8
		case CategoryStorage, CategoryEventLog:
			return 11
		case CategoryDaemon, CategoryRuntime:
			return 12
		case CategoryInternal:
			return 10
		default:
			return 1
		}
	}

	return 1
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if ce, ok := AsClassified(err); ok {
		if a.verbose {
			return ce.Error()
		}
		switch ce.Category() {
		case CategoryConfig, CategoryValidation:
			return ce.Message()
		default:
			return fmt.Sprintf("%s: %s", ce.Category(), ce.Message())
		}
	}

	return fmt.Sprintf("Error: %v", err)
}

// HandleError processes an error and exits the program with the appropriate
// code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintf(os.Stderr, "%s\n", a.FormatError(err))
	os.Exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	if ce, ok := AsClassified(err); ok {
		return ce.Category() == CategoryInternal ||
			ce.Category() == CategoryRuntime ||
			ce.Severity() == SeverityFatal
	}
	return true
}

func (a *CLIErrorAdapter) logError(err error) {
	if ce, ok := AsClassified(err); ok {
		attrs := []slog.Attr{slog.String("category", string(ce.Category()))}
		if ce.CanRetry() {
			attrs = append(attrs, slog.Bool("retryable", true))
		}
		a.logger.LogAttrs(nil, a.slogLevelFromSeverity(ce.Severity()), ce.Message(), attrs...)
		return
	}
	a.logger.Error("Unclassified error", "error", err)
}

func (a *CLIErrorAdapter) slogLevelFromSeverity(s ErrorSeverity) slog.Level {
	switch s {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
