package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"git.home.luguber.info/inful/docconf/internal/metrics"
	"git.home.luguber.info/inful/docconf/internal/report"
	"git.home.luguber.info/inful/docconf/internal/runstore"
	"git.home.luguber.info/inful/docconf/internal/version"
)

// HTTPServer exposes daemon status, run history, the validation report
// and optionally Prometheus metrics.
type HTTPServer struct {
	daemon *Daemon
	server *http.Server
}

// NewHTTPServer creates the HTTP surface for a daemon.
func NewHTTPServer(d *Daemon) *HTTPServer {
	s := &HTTPServer{daemon: d}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/report", s.handleReport)
	if d.registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(d.registry))
	}

	s.server = &http.Server{
		Addr:              d.GetConfig().Daemon.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start binds the listen address and serves in the background. The bind
// happens synchronously so a taken port fails fast.
func (s *HTTPServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.server.Addr, err)
	}
	slog.Info("HTTP server listening", "addr", ln.Addr().String())

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down gracefully.
func (s *HTTPServer) Stop(ctx context.Context) error {
	slog.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Version   string    `json:"version"`
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(s.daemon.GetStartTime()).Round(time.Second).String(),
		Version:   version.Version,
	})
}

type statusResponse struct {
	StartedAt    time.Time      `json:"started_at"`
	Uptime       string         `json:"uptime"`
	Version      string         `json:"version"`
	Repositories int            `json:"repositories"`
	Interval     string         `json:"interval"`
	RecentRuns   []runstore.Run `json:"recent_runs"`
}

func (s *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	cfg := s.daemon.GetConfig()
	runs, err := s.daemon.Store().Recent(r.Context(), 20)
	if err != nil {
		http.Error(w, "run history unavailable", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []runstore.Run{}
	}
	writeJSON(w, http.StatusOK, statusResponse{
		StartedAt:    s.daemon.GetStartTime().UTC(),
		Uptime:       time.Since(s.daemon.GetStartTime()).Round(time.Second).String(),
		Version:      version.Version,
		Repositories: len(cfg.Repositories),
		Interval:     cfg.RescanInterval().String(),
		RecentRuns:   runs,
	})
}

func (s *HTTPServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	var (
		runs []runstore.Run
		err  error
	)
	if repo := r.URL.Query().Get("repo"); repo != "" {
		runs, err = s.daemon.Store().ByRepo(r.Context(), repo, limit)
	} else {
		runs, err = s.daemon.Store().Recent(r.Context(), limit)
	}
	if err != nil {
		http.Error(w, "run history unavailable", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []runstore.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *HTTPServer) handleReport(w http.ResponseWriter, r *http.Request) {
	runs, err := s.daemon.Store().Recent(r.Context(), 100)
	if err != nil {
		http.Error(w, "run history unavailable", http.StatusInternalServerError)
		return
	}
	page, err := report.HTML(runs, time.Now().UTC())
	if err != nil {
		http.Error(w, "report rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}
