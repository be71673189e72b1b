package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ruteri/medusa-provisioning/metrics"
	"github.com/ruteri/medusa-provisioning/orchestrator"
)

type HTTPServerConfig struct {
	ListenAddr  string
	EnablePprof bool
	Log         *slog.Logger

	GracefulShutdownDuration time.Duration
	ReadTimeout              time.Duration
	WriteTimeout             time.Duration
}

// StatusSource reports the orchestrator progress.
type StatusSource interface {
	Status() orchestrator.Status
}

// Server exposes the startup progress, liveness/readiness probes and
// Prometheus metrics of the startup orchestrator.
type Server struct {
	cfg    *HTTPServerConfig
	log    *slog.Logger
	status StatusSource

	srv *http.Server
}

func New(cfg *HTTPServerConfig, status StatusSource) *Server {
	srv := &Server{
		cfg:    cfg,
		log:    cfg.Log,
		status: status,
	}

	srv.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return srv
}

// Router returns the status API routes.
func (srv *Server) Router() http.Handler {
	mux := chi.NewRouter()

	mux.With(srv.httpLogger).Get("/status", srv.handleStatus)
	mux.With(srv.httpLogger).Get("/livez", srv.handleLivenessCheck)
	mux.With(srv.httpLogger).Get("/readyz", srv.handleReadinessCheck)
	mux.Handle("/metrics", metrics.Handler())

	if srv.cfg.EnablePprof {
		srv.log.Info("pprof API enabled")
		mux.Mount("/debug", middleware.Profiler())
	}
	return mux
}

func (srv *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(srv.log, next)
}

func (srv *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(srv.status.Status())
}

func (srv *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"alive"}`))
}

// handleReadinessCheck reports ready only once a publishable key was created.
func (srv *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := srv.status.Status()
	if status.State != orchestrator.StateDone.String() {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "not ready", "state": status.State})
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// Start binds the listen address and serves in the background. Binding
// errors are returned to the caller.
func (srv *Server) Start() error {
	ln, err := net.Listen("tcp", srv.cfg.ListenAddr)
	if err != nil {
		return err
	}

	go func() {
		srv.log.Info("Starting status server", "listenAddress", ln.Addr().String())
		if err := srv.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.log.Error("Status server failed", "err", err)
		}
	}()
	return nil
}

func (srv *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.GracefulShutdownDuration)
	defer cancel()
	if err := srv.srv.Shutdown(ctx); err != nil {
		srv.log.Error("Graceful status server shutdown failed", "err", err)
	} else {
		srv.log.Info("Status server gracefully stopped")
	}
}
