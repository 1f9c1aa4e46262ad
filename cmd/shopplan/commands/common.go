// Package commands implements the shopplan CLI commands.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/shopplan/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"shopplan.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve ServeCmd `cmd:"" default:"withargs" help:"Start the shopping scheduler service"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	if c.Verbose {
		config.LevelVar.Set(slog.LevelDebug)
	} else {
		config.LevelVar.Set(slog.LevelInfo)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LevelVar}))
	slog.SetDefault(logger)
	return nil
}

// BuildLogger constructs the service logger from the loaded configuration and
// installs it as the default.
func BuildLogger(cfg *config.Config, verbose bool) *slog.Logger {
	if !verbose {
		level := config.NormalizeLogLevel(cfg.Logging.Level)
		config.LevelVar.Set(level.SlogLevel())
	}

	opts := &slog.HandlerOptions{Level: config.LevelVar}
	var handler slog.Handler
	if config.NormalizeLogFormat(cfg.Logging.Format) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
