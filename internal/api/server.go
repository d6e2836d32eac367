// Package api serves the read-only status surface. Every endpoint is a
// projection of on-disk or process-table state queried per request; nothing
// here writes watchdog state.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/camwatch/camwatch/internal/lockfile"
	"github.com/camwatch/camwatch/internal/metrics"
	"github.com/camwatch/camwatch/internal/procmon"
	"github.com/camwatch/camwatch/internal/version"
)

// Options wires the server to its collaborators.
type Options struct {
	// Lock is read raw by /lock — no liveness validation on purpose.
	Lock *lockfile.Manager
	// Monitor answers /status with a fresh query per request.
	Monitor procmon.Monitor
	// TargetProcess is the name /status checks for.
	TargetProcess string
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Server is the status HTTP server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	opts       *Options
	logger     *slog.Logger
}

// RootResponse acknowledges that the API itself is alive.
type RootResponse struct {
	Body struct {
		Status string `json:"status" example:"camera API online" doc:"Static liveness acknowledgment"`
	}
}

// StatusResponse reports target-process liveness.
type StatusResponse struct {
	Body struct {
		MyappRunning bool `json:"myapp_running" doc:"Whether the watched process is currently detected"`
	}
}

// LockResponse reports raw lock file state.
type LockResponse struct {
	Body struct {
		LockExists bool    `json:"lock_exists" doc:"Whether the lock file exists"`
		LockPid    *string `json:"lock_pid" doc:"Raw lock file content, null when absent"`
	}
}

// NewServer creates the status server and registers its routes.
func NewServer(opts *Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	config := huma.DefaultConfig("Camera Watchdog API", version.Get().Version)
	config.Info.Description = "Read-only status surface for the camera watchdog service"
	config.Servers = []*huma.Server{}

	s := &Server{
		api:    humago.New(mux, config),
		mux:    mux,
		opts:   opts,
		logger: logger,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(metrics.NewStatusCollector(opts.Lock, opts.Monitor, opts.TargetProcess))
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "root",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "API liveness",
		Tags:        []string{"status"},
	}, func(_ context.Context, _ *struct{}) (*RootResponse, error) {
		resp := &RootResponse{}
		resp.Body.Status = "camera API online"
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Target process status",
		Description: "Queries the process table per request; never cached from the watchdog's own ticks.",
		Tags:        []string{"status"},
	}, func(_ context.Context, _ *struct{}) (*StatusResponse, error) {
		resp := &StatusResponse{}
		resp.Body.MyappRunning = s.opts.Monitor.IsRunning(s.opts.TargetProcess)
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "lock",
		Method:      http.MethodGet,
		Path:        "/lock",
		Summary:     "Lock file state",
		Description: "Raw passthrough of the lock file; the stored pid is not validated against live processes.",
		Tags:        []string{"status"},
	}, func(_ context.Context, _ *struct{}) (*LockResponse, error) {
		resp := &LockResponse{}
		exists, pid := s.opts.Lock.Inspect()
		resp.Body.LockExists = exists
		if exists {
			resp.Body.LockPid = &pid
		}
		return resp, nil
	})
}

// Start serves on addr until Stop or a listener error.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting status API server", "addr", addr)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down.
func (s *Server) Stop() error {
	s.logger.Info("stopping status API server")
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}
