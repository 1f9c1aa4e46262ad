// Package httpserver wires the shopplan API and admin HTTP servers.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/shopplan/internal/config"
	derrors "git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/server/handlers"
	smw "git.home.luguber.info/inful/shopplan/internal/server/middleware"
	"git.home.luguber.info/inful/shopplan/internal/store"
	"git.home.luguber.info/inful/shopplan/internal/stores"
)

// Server manages the public API server and the admin server.
type Server struct {
	apiServer   *http.Server
	adminServer *http.Server
	cfg         *config.Config
	opts        Options
	logger      *slog.Logger

	prefHandlers     *handlers.PreferenceHandlers
	listHandlers     *handlers.GroceryListHandlers
	scheduleHandlers *handlers.ScheduleHandlers
	storeHandlers    *handlers.StoreHandlers
	statusHandlers   *handlers.StatusHandlers
	activityHandlers *handlers.ActivityHandlers

	corsPolicy *smw.CORSPolicy
	mchain     func(http.Handler) http.Handler
}

// New constructs the HTTP server wiring.
func New(cfg *config.Config, st store.Store, catalog stores.Catalog, scheduler handlers.SchedulerService, daemon handlers.DaemonInterface, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		opts:   opts,
		logger: logger,

		prefHandlers:     handlers.NewPreferenceHandlers(st, logger),
		listHandlers:     handlers.NewGroceryListHandlers(st, logger),
		scheduleHandlers: handlers.NewScheduleHandlers(scheduler, logger),
		storeHandlers:    handlers.NewStoreHandlers(catalog, logger),
		statusHandlers:   handlers.NewStatusHandlers(daemon, logger),
	}
	if opts.EventLog != nil {
		s.activityHandlers = handlers.NewActivityHandlers(opts.EventLog, logger)
	}

	adapter := derrors.NewHTTPErrorAdapter(logger)
	s.corsPolicy = smw.NewCORSPolicy(cfg.HTTP.CORSOrigins)
	s.mchain = smw.Chain(logger, adapter, opts.Recorder, s.corsPolicy)

	return s
}

// UpdateCORSOrigins applies reloaded CORS origins to running servers.
func (s *Server) UpdateCORSOrigins(origins []string) {
	s.corsPolicy.Update(origins)
}

// APIHandler returns the fully wired public API handler.
func (s *Server) APIHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.statusHandlers.HandleRoot)
	mux.HandleFunc("GET /api/{$}", s.statusHandlers.HandleRoot)

	mux.HandleFunc("POST /api/preferences", s.prefHandlers.HandleUpsert)
	mux.HandleFunc("GET /api/preferences/{user_id}", s.prefHandlers.HandleGet)

	mux.HandleFunc("POST /api/grocery-list", s.listHandlers.HandleUpsert)
	mux.HandleFunc("GET /api/grocery-list/{user_id}", s.listHandlers.HandleGet)

	mux.HandleFunc("POST /api/schedule/generate/{user_id}", s.scheduleHandlers.HandleGenerate)
	mux.HandleFunc("GET /api/schedule/{user_id}", s.scheduleHandlers.HandleGet)
	mux.HandleFunc("POST /api/schedule/approve/{schedule_id}/{suggestion_id}", s.scheduleHandlers.HandleApprove)

	mux.HandleFunc("GET /api/stores", s.storeHandlers.HandleList)

	return s.mchain(mux)
}

// AdminHandler returns the admin handler with health, status, metrics, and
// the audit trail.
func (s *Server) AdminHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.statusHandlers.HandleHealthCheck)
	mux.HandleFunc("GET /healthz", s.statusHandlers.HandleHealthCheck) // Kubernetes-style alias
	mux.HandleFunc("GET /status", s.statusHandlers.HandleStatus)

	if s.opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", s.opts.MetricsHandler)
	}

	if s.activityHandlers != nil {
		mux.HandleFunc("GET /activity", s.activityHandlers.HandleRecent)
		mux.HandleFunc("GET /activity/{user_id}", s.activityHandlers.HandleByUser)
	}

	return s.mchain(mux)
}

// Start binds both ports up front so startup fails fast with an aggregate
// error instead of partially initialized servers.
func (s *Server) Start(ctx context.Context) error {
	type preBind struct {
		name string
		port int
		ln   net.Listener
	}
	binds := []preBind{
		{name: "api", port: s.cfg.HTTP.APIPort},
		{name: "admin", port: s.cfg.HTTP.AdminPort},
	}

	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		addr := fmt.Sprintf(":%d", binds[i].port)
		ln, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s port %d: %w", binds[i].name, binds[i].port, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return fmt.Errorf("http startup failed: %w", errors.Join(bindErrs...))
	}

	s.apiServer = &http.Server{
		Handler:      s.APIHandler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.adminServer = &http.Server{
		Handler:      s.AdminHandler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.serveOnListener("api", s.apiServer, binds[0].ln)
	s.serveOnListener("admin", s.adminServer, binds[1].ln)

	s.logger.Info("HTTP servers started",
		slog.Int("api_port", s.cfg.HTTP.APIPort),
		slog.Int("admin_port", s.cfg.HTTP.AdminPort))
	return nil
}

// Stop gracefully shuts down both servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}
	if s.apiServer != nil {
		if err := s.apiServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("api server shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	s.logger.Info("HTTP servers stopped")
	return nil
}

func (s *Server) serveOnListener(kind string, srv *http.Server, ln net.Listener) {
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error(fmt.Sprintf("%s server error", kind), "error", err)
		}
	}()
}
