// Package middleware provides HTTP middleware for logging, panic recovery,
// and CORS for shopplan servers.
package middleware

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	derrors "git.home.luguber.info/inful/shopplan/internal/errors"
	"git.home.luguber.info/inful/shopplan/internal/logfields"
	"git.home.luguber.info/inful/shopplan/internal/metrics"
)

// CORSPolicy holds the allowed origins. It can be updated at runtime when
// the configuration is reloaded.
type CORSPolicy struct {
	rules atomic.Value // corsRules
}

type corsRules struct {
	allowAny bool
	allowed  map[string]bool
}

// NewCORSPolicy creates a policy from the configured origins. A single "*"
// entry allows any origin.
func NewCORSPolicy(origins []string) *CORSPolicy {
	p := &CORSPolicy{}
	p.Update(origins)
	return p
}

// Update replaces the allowed origins.
func (p *CORSPolicy) Update(origins []string) {
	r := corsRules{allowed: make(map[string]bool, len(origins))}
	for _, o := range origins {
		if o == "*" {
			r.allowAny = true
			continue
		}
		r.allowed[o] = true
	}
	p.rules.Store(r)
}

func (p *CORSPolicy) current() corsRules {
	r, _ := p.rules.Load().(corsRules)
	return r
}

// Chain returns a middleware wrapper applying CORS, logging, metrics, and
// panic recovery around a handler.
func Chain(logger *slog.Logger, adapter *derrors.HTTPErrorAdapter, recorder metrics.Recorder, cors *CORSPolicy) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if cors == nil {
		cors = NewCORSPolicy(nil)
	}
	return func(next http.Handler) http.Handler {
		return corsMiddleware(cors,
			loggingMiddleware(logger, recorder,
				panicRecoveryMiddleware(logger, adapter, next)))
	}
}

// corsMiddleware applies the policy's allowed origins and answers preflight
// requests.
func corsMiddleware(policy *CORSPolicy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			rules := policy.current()
			switch {
			case rules.allowAny:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case rules.allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs method, path, status, duration, user agent, and
// remote addr, and records the request metric.
func loggingMiddleware(logger *slog.Logger, recorder metrics.Recorder, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start)
		recorder.IncHTTPRequest(r.Method, r.URL.Path, wrapped.statusCode)
		logger.Info("HTTP request",
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			logfields.Status(wrapped.statusCode),
			slog.Duration("duration", duration),
			logfields.UserAgent(r.UserAgent()),
			logfields.RemoteAddr(r.RemoteAddr))
	})
}

// panicRecoveryMiddleware recovers from panics and writes a structured error
// response via the HTTPErrorAdapter.
func panicRecoveryMiddleware(logger *slog.Logger, adapter *derrors.HTTPErrorAdapter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("HTTP handler panic",
					"error", err,
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr)

				panicErr := derrors.InternalError("internal server error").
					WithContext("path", r.URL.Path).
					WithContext("method", r.Method).
					Build()

				adapter.WriteErrorResponse(w, r, panicErr)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// responseWriter captures status codes for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
