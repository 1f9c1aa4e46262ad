// Package daemon runs the shopplan service: it owns the storage, planner,
// scheduler, notifier, and HTTP servers, and orchestrates schedule
// generation and approval.
package daemon

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/shopplan/internal/calendar"
	"git.home.luguber.info/inful/shopplan/internal/config"
	"git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/eventlog"
	"git.home.luguber.info/inful/shopplan/internal/logfields"
	"git.home.luguber.info/inful/shopplan/internal/metrics"
	"git.home.luguber.info/inful/shopplan/internal/notify"
	"git.home.luguber.info/inful/shopplan/internal/planner"
	"git.home.luguber.info/inful/shopplan/internal/server/httpserver"
	"git.home.luguber.info/inful/shopplan/internal/store"
	"git.home.luguber.info/inful/shopplan/internal/stores"
)

// Daemon is the long running shopplan service.
type Daemon struct {
	config         *config.Config
	configFilePath string
	logger         *slog.Logger
	status         atomic.Value // Status
	startTime      time.Time
	stopChan       chan struct{}

	store         store.Store
	planner       *planner.Planner
	catalog       stores.Catalog
	calendar      planner.CalendarProvider
	events        eventlog.Log
	notifier      notify.Notifier
	recorder      metrics.Recorder
	httpServer    *httpserver.Server
	scheduler     *Scheduler
	configWatcher *ConfigWatcher

	now func() time.Time
}

// NewDaemon creates a daemon instance from configuration.
func NewDaemon(cfg *config.Config) (*Daemon, error) {
	return NewDaemonWithConfigFile(cfg, "")
}

// NewDaemonWithConfigFile creates a daemon that also watches the given
// config file for changes when the path is non-empty.
func NewDaemonWithConfigFile(cfg *config.Config, configFilePath string) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.DaemonError("configuration is required").Build()
	}

	d := &Daemon{
		config:         cfg,
		configFilePath: configFilePath,
		logger:         slog.Default(),
		stopChan:       make(chan struct{}),
		now:            time.Now,
	}
	d.status.Store(StatusStopped)

	// The store and the audit log share one single-connection handle so
	// their writes serialize instead of racing into SQLITE_BUSY.
	db, err := store.Open(cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	st, err := store.NewSQLiteStoreWithDB(db)
	if err != nil {
		return nil, err
	}
	d.store = st

	events, err := eventlog.NewSQLiteLogWithDB(db)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	d.events = events

	d.catalog = stores.NewStaticCatalog(cfg.Planner.TravelTimeMinutes,
		stores.WithHomeLocation(cfg.Planner.HomeLat, cfg.Planner.HomeLng))
	d.calendar = calendar.NewStaticProvider(d.now)

	d.planner = planner.New(d.calendar, d.catalog, planner.Options{
		DefaultDurationMinutes: cfg.Planner.DefaultDurationMinutes,
		MaxSuggestions:         cfg.Planner.MaxSuggestions,
		NearbyStores:           cfg.Planner.NearbyStores,
	})

	if cfg.Notify.Enabled {
		notifier, err := notify.NewNATSNotifier(cfg.Notify)
		if err != nil {
			_ = events.Close()
			_ = st.Close()
			return nil, err
		}
		d.notifier = notifier
	} else {
		d.notifier = notify.NoopNotifier{}
	}

	registry := prometheus.NewRegistry()
	d.recorder = metrics.NewPrometheusRecorder(registry)

	d.httpServer = httpserver.New(cfg, d.store, d.catalog, d, d, httpserver.Options{
		Logger:         d.logger,
		Recorder:       d.recorder,
		MetricsHandler: metrics.HTTPHandler(registry),
		EventLog:       d.events,
	})

	if cfg.Scheduler.Enabled {
		scheduler, err := NewScheduler(d, cfg.Scheduler.Interval)
		if err != nil {
			_ = d.notifier.Close()
			_ = events.Close()
			_ = st.Close()
			return nil, err
		}
		d.scheduler = scheduler
	}

	return d, nil
}

// Start brings up the HTTP servers, the scheduler, and the config watcher.
func (d *Daemon) Start(ctx context.Context) error {
	d.status.Store(StatusStarting)
	d.startTime = d.now()

	if err := d.httpServer.Start(ctx); err != nil {
		d.status.Store(StatusError)
		return errors.WrapError(err, errors.CategoryDaemon, "failed to start HTTP servers").Build()
	}

	if d.scheduler != nil {
		d.scheduler.Start(ctx)
	}

	if d.configFilePath != "" {
		watcher, err := NewConfigWatcher(d.configFilePath, d)
		if err != nil {
			d.logger.Warn("config watcher unavailable", logfields.Error(err))
		} else {
			d.configWatcher = watcher
			if err := watcher.Start(ctx); err != nil {
				d.logger.Warn("config watcher failed to start", logfields.Error(err))
				d.configWatcher = nil
			}
		}
	}

	d.status.Store(StatusRunning)
	d.logger.Info("daemon started",
		slog.Int("api_port", d.config.HTTP.APIPort),
		slog.Int("admin_port", d.config.HTTP.AdminPort),
		slog.Bool("scheduler", d.scheduler != nil))
	return nil
}

// Stop shuts the daemon down in reverse start order.
func (d *Daemon) Stop(ctx context.Context) error {
	d.status.Store(StatusStopping)
	close(d.stopChan)

	var errs []error
	if d.configWatcher != nil {
		if err := d.configWatcher.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if d.scheduler != nil {
		if err := d.scheduler.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := d.httpServer.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := d.notifier.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := d.events.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := d.store.Close(); err != nil {
		errs = append(errs, err)
	}

	d.status.Store(StatusStopped)
	if len(errs) > 0 {
		for _, err := range errs[1:] {
			d.logger.Error("shutdown error", logfields.Error(err))
		}
		return errors.WrapError(errs[0], errors.CategoryDaemon, "daemon shutdown finished with errors").Build()
	}
	d.logger.Info("daemon stopped")
	return nil
}

// Wait blocks until Stop is called or the context is canceled.
func (d *Daemon) Wait(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-d.stopChan:
	}
}

// GetStatus returns the daemon lifecycle status.
func (d *Daemon) GetStatus() string {
	if s, ok := d.status.Load().(Status); ok {
		return s.String()
	}
	return string(StatusStopped)
}

// GetStartTime returns when the daemon was started.
func (d *Daemon) GetStartTime() time.Time { return d.startTime }

// SchedulerEnabled reports whether periodic regeneration is active.
func (d *Daemon) SchedulerEnabled() bool { return d.scheduler != nil }

// UsersWithPreferences counts users that have stored preferences.
func (d *Daemon) UsersWithPreferences(ctx context.Context) (int, error) {
	ids, err := d.store.ListPreferenceUserIDs(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
