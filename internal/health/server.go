// Package health serves the predictor's liveness, readiness and metrics endpoints.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/hoops-edge/internal/metrics"
	"github.com/yourusername/hoops-edge/internal/scheduler"
)

const (
	defaultPort     = "9090"
	pingTimeout     = 3 * time.Second
	shutdownTimeout = 5 * time.Second
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// RefreshReporter reports the outcome of the most recent slate refresh.
type RefreshReporter interface {
	LastRun() (scheduler.RunStatus, bool)
}

// RefreshSummary is the last slate refresh as shown on /health.
type RefreshSummary struct {
	Finished  string `json:"finished"`
	Games     int    `json:"games"`
	Skipped   int    `json:"skipped"`
	Persisted int    `json:"persisted"`
	Error     string `json:"error,omitempty"`
}

// HealthResponse is the body of /health and /live.
type HealthResponse struct {
	Status      string          `json:"status"`
	Service     string          `json:"service"`
	Version     string          `json:"version,omitempty"`
	Commit      string          `json:"commit,omitempty"`
	Uptime      string          `json:"uptime,omitempty"`
	LastRefresh *RefreshSummary `json:"last_refresh,omitempty"`
}

// ReadyResponse is the body of /ready.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        string
	Logger      *logrus.Logger
	DB          DatabasePinger
	Refresh     RefreshReporter
	// MetricsPath mounts the Prometheus handler; empty disables it.
	MetricsPath string
}

// Server exposes the predictor's state to the orchestrator. Readiness depends
// on the service flag and the database; a failed slate refresh is reported
// but never flips readiness.
type Server struct {
	cfg     Config
	started time.Time
	log     *logrus.Entry
	server  *http.Server

	mu    sync.RWMutex
	ready bool
}

// NewServer creates a health server. Port defaults to 9090.
func NewServer(cfg Config) *Server {
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	base := cfg.Logger
	if base == nil {
		base = logrus.StandardLogger()
	}
	return &Server{
		cfg:     cfg,
		started: time.Now(),
		log:     base.WithField("component", "health"),
	}
}

// SetReady marks the service as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the service is marked ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/live", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	if s.cfg.MetricsPath != "" {
		mux.Handle(s.cfg.MetricsPath, metrics.Handler())
	}
	return mux
}

// Start binds the port and serves in the background until ctx is cancelled.
// A bind failure is returned immediately.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", s.cfg.Port, err)
	}

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.log.WithFields(logrus.Fields{
		"port":    s.cfg.Port,
		"metrics": s.cfg.MetricsPath,
	}).Info("Health server listening")

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Health server stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()

	return nil
}

// Shutdown stops the server, waiting briefly for in-flight requests.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Service:     s.cfg.ServiceName,
		Version:     s.cfg.Version,
		Commit:      s.cfg.Commit,
		Uptime:      time.Since(s.started).Round(time.Second).String(),
		LastRefresh: s.lastRefresh(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := map[string]string{"service": "ok"}
	ready := s.IsReady()
	if !ready {
		checks["service"] = "not_ready"
	}

	if s.cfg.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := s.cfg.DB.Ping(ctx); err != nil {
			ready = false
			checks["database"] = fmt.Sprintf("error: %v", err)
		} else {
			checks["database"] = "ok"
		}
	}

	if s.cfg.Refresh != nil {
		checks["slate_refresh"] = refreshCheck(s.cfg.Refresh)
	}

	resp := ReadyResponse{
		Status:   "ok",
		Service:  s.cfg.ServiceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}
	code := http.StatusOK
	if !ready {
		resp.Status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func (s *Server) lastRefresh() *RefreshSummary {
	if s.cfg.Refresh == nil {
		return nil
	}
	last, ok := s.cfg.Refresh.LastRun()
	if !ok {
		return nil
	}
	sum := &RefreshSummary{
		Finished:  last.Finished.Format(time.RFC3339),
		Games:     last.Games,
		Skipped:   last.Skipped,
		Persisted: last.Persisted,
	}
	if last.Err != nil {
		sum.Error = last.Err.Error()
	}
	return sum
}

func refreshCheck(r RefreshReporter) string {
	last, ok := r.LastRun()
	switch {
	case !ok:
		return "pending"
	case last.Err != nil:
		return fmt.Sprintf("error: %v", last.Err)
	default:
		return fmt.Sprintf("ok: %d games at %s", last.Games, last.Finished.Format(time.RFC3339))
	}
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
