package daemon

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/shopplan/internal/config"
	"git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/logfields"
)

// ConfigWatcher monitors the configuration file and applies hot-reloadable
// settings to the running daemon.
type ConfigWatcher struct {
	configPath   string
	daemon       *Daemon
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	stopChan     chan struct{}
	reloadChan   chan struct{}
	debounceTime time.Duration
	logger       *slog.Logger
}

// NewConfigWatcher creates a watcher for the given config file.
func NewConfigWatcher(configPath string, daemon *Daemon) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDaemon, "failed to create file watcher").Build()
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		_ = watcher.Close()
		return nil, errors.WrapError(err, errors.CategoryDaemon, "failed to resolve config path").Build()
	}

	return &ConfigWatcher{
		configPath:   absPath,
		daemon:       daemon,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		reloadChan:   make(chan struct{}, 1),
		debounceTime: 2 * time.Second,
		logger:       slog.Default(),
	}, nil
}

// Start begins monitoring the configuration file. The containing directory
// is watched because editors often replace the file on save.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	configDir := filepath.Dir(cw.configPath)
	if err := cw.watcher.Add(configDir); err != nil {
		return errors.WrapError(err, errors.CategoryDaemon, "failed to watch config directory").
			WithContext("dir", configDir).
			Build()
	}

	cw.logger.Info("configuration watcher started", slog.String("config_path", cw.configPath))

	go cw.watchLoop(ctx)
	go cw.reloadLoop(ctx)

	return nil
}

// Stop shuts the watcher down.
func (cw *ConfigWatcher) Stop(_ context.Context) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	close(cw.stopChan)
	if err := cw.watcher.Close(); err != nil {
		cw.logger.Error("error closing file watcher", logfields.Error(err))
	}
	return nil
}

func (cw *ConfigWatcher) watchLoop(ctx context.Context) {
	configFile := filepath.Base(cw.configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFile {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Rename):
				cw.triggerReload()
			case event.Op.Has(fsnotify.Remove):
				cw.logger.Warn("config file removed", slog.String("file", event.Name))
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("config watcher error", logfields.Error(err))
		}
	}
}

func (cw *ConfigWatcher) reloadLoop(ctx context.Context) {
	var reloadTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			return
		case <-cw.stopChan:
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			return
		case <-cw.reloadChan:
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(cw.debounceTime, func() {
				if err := cw.performReload(ctx); err != nil {
					cw.logger.Error("failed to reload configuration", logfields.Error(err))
				}
			})
		}
	}
}

func (cw *ConfigWatcher) triggerReload() {
	select {
	case cw.reloadChan <- struct{}{}:
	default:
		// Reload already pending.
	}
}

// performReload re-reads the config file and applies the settings that can
// change at runtime: log level, CORS origins, and scheduler interval. Port
// and database changes require a restart.
func (cw *ConfigWatcher) performReload(ctx context.Context) error {
	cfg, err := config.Load(cw.configPath)
	if err != nil {
		return err
	}

	level := config.NormalizeLogLevel(cfg.Logging.Level)
	config.LevelVar.Set(level.SlogLevel())

	cw.daemon.httpServer.UpdateCORSOrigins(cfg.HTTP.CORSOrigins)

	if cw.daemon.scheduler != nil && cfg.Scheduler.Enabled {
		cw.daemon.scheduler.Reschedule(ctx, cfg.Scheduler.Interval)
	}

	cw.logger.Info("configuration reloaded",
		slog.String("log_level", string(level)),
		slog.Duration("scheduler_interval", cfg.Scheduler.Interval))
	return nil
}
