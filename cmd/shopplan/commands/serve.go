package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/shopplan/internal/config"
	"git.home.luguber.info/inful/shopplan/internal/daemon"
	"git.home.luguber.info/inful/shopplan/internal/errors"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct{}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	BuildLogger(cfg, root.Verbose)
	return RunServe(cfg, root.Config)
}

// RunServe starts the daemon and blocks until a shutdown signal arrives.
func RunServe(cfg *config.Config, configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.NewDaemonWithConfigFile(cfg, configPath)
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Start(ctx)
	}()

	slog.Info("service started, waiting for shutdown signal")

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
		d.Wait(ctx)
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := d.Stop(stopCtx); err != nil {
		return errors.WrapError(err, errors.CategoryDaemon, "failed to stop daemon").Build()
	}

	slog.Info("service stopped")
	return nil
}
