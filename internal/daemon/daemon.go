package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docconf/internal/config"
	"git.home.luguber.info/inful/docconf/internal/events"
	"git.home.luguber.info/inful/docconf/internal/gitrepo"
	"git.home.luguber.info/inful/docconf/internal/metrics"
	"git.home.luguber.info/inful/docconf/internal/runstore"
	"git.home.luguber.info/inful/docconf/internal/validator"
	"git.home.luguber.info/inful/docconf/internal/workspace"
)

// Daemon runs continuous manifest validation: periodic repository sweeps,
// watched local paths, run history and the HTTP status surface.
type Daemon struct {
	mu         sync.RWMutex
	cfg        *config.Config
	configPath string

	workspace *workspace.Manager
	store     *runstore.Store
	publisher events.Publisher
	recorder  metrics.Recorder
	registry  *prom.Registry
	service   *validator.Service

	scheduler     *Scheduler
	configWatcher *ConfigWatcher
	pathWatcher   *PathWatcher
	httpServer    *HTTPServer

	startTime time.Time
	sweeping  atomic.Bool
}

// NewDaemon assembles a daemon from configuration. When configPath is
// non-empty the config file is watched for changes and reloaded.
func NewDaemon(cfg *config.Config, configPath string) (*Daemon, error) {
	dataDir := cfg.Daemon.DataDir
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	ws := workspace.NewPersistentManager(dataDir, "checkouts")
	if err := ws.Create(); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	store, err := runstore.NewStore(filepath.Join(dataDir, "runs.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}

	publisher, err := events.NewNATSPublisher(cfg.Daemon.NATS)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to connect event publisher: %w", err)
	}

	d := &Daemon{
		cfg:        cfg,
		configPath: configPath,
		workspace:  ws,
		store:      store,
		publisher:  publisher,
		recorder:   metrics.NoopRecorder{},
	}
	if cfg.Daemon.Metrics {
		d.registry = prom.NewRegistry()
		d.recorder = metrics.NewPrometheusRecorder(d.registry)
	}
	d.service = validator.NewService(cfg, gitrepo.NewClient(ws.GetPath()), store, publisher, d.recorder)
	return d, nil
}

// Start brings up all daemon components and blocks until ctx is cancelled.
func (d *Daemon) Start(ctx context.Context) error {
	d.startTime = time.Now()

	d.httpServer = NewHTTPServer(d)
	if err := d.httpServer.Start(ctx); err != nil {
		return err
	}

	scheduler, err := NewScheduler()
	if err != nil {
		return err
	}
	d.scheduler = scheduler
	interval := d.GetConfig().RescanInterval()
	if _, err := scheduler.ScheduleRescan(interval, func() { d.Sweep(ctx) }); err != nil {
		return err
	}
	scheduler.Start(ctx)
	slog.Info("Scheduled periodic validation", "interval", interval)

	if d.configPath != "" {
		watcher, err := NewConfigWatcher(d.configPath, d)
		if err != nil {
			return err
		}
		d.configWatcher = watcher
		if err := watcher.Start(ctx); err != nil {
			return err
		}
	}

	if paths := d.GetConfig().Daemon.WatchPaths; len(paths) > 0 {
		watcher, err := NewPathWatcher(paths, d)
		if err != nil {
			return err
		}
		d.pathWatcher = watcher
		if err := watcher.Start(ctx); err != nil {
			return err
		}
	}

	// Initial sweep so status and report have data without waiting a
	// full interval.
	go d.Sweep(ctx)

	<-ctx.Done()
	return nil
}

// Stop shuts down all components gracefully.
func (d *Daemon) Stop(ctx context.Context) error {
	var firstErr error
	if d.scheduler != nil {
		if err := d.scheduler.Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.configWatcher != nil {
		if err := d.configWatcher.Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.pathWatcher != nil {
		if err := d.pathWatcher.Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.httpServer != nil {
		if err := d.httpServer.Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if d.publisher != nil {
		d.publisher.Close()
	}
	if err := d.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Sweep validates all configured repositories once. Overlapping sweeps
// are coalesced: a sweep started while another runs is dropped.
func (d *Daemon) Sweep(ctx context.Context) {
	if !d.sweeping.CompareAndSwap(false, true) {
		slog.Debug("Sweep already in progress, skipping")
		return
	}
	defer d.sweeping.Store(false)

	d.mu.RLock()
	service := d.service
	d.mu.RUnlock()

	runs, err := service.ValidateAll(ctx)
	if err != nil {
		slog.Error("Validation sweep aborted", "error", err)
		return
	}
	slog.Info("Validation sweep completed", "runs", len(runs))
}

// ValidateWatched lints one watched local path after a file change.
func (d *Daemon) ValidateWatched(ctx context.Context, path string) {
	d.mu.RLock()
	service := d.service
	d.mu.RUnlock()

	run := service.ValidateLocal(ctx, filepath.Base(path), path)
	slog.Info("Watched path validated", "path", path, "outcome", run.Outcome)
}

// GetConfig returns the current configuration.
func (d *Daemon) GetConfig() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// GetStartTime returns when the daemon was started.
func (d *Daemon) GetStartTime() time.Time { return d.startTime }

// Store exposes the run history for the HTTP surface.
func (d *Daemon) Store() *runstore.Store { return d.store }

// ReloadConfig applies a new configuration. Listen address and data
// directory changes require a restart and are rejected.
func (d *Daemon) ReloadConfig(ctx context.Context, newCfg *config.Config) error {
	current := d.GetConfig()
	if newCfg.Daemon.Listen != current.Daemon.Listen {
		return fmt.Errorf("listen address change requires daemon restart")
	}
	if newCfg.Daemon.DataDir != current.Daemon.DataDir {
		return fmt.Errorf("data directory change requires daemon restart")
	}

	d.mu.Lock()
	d.cfg = newCfg
	d.service = validator.NewService(newCfg, gitrepo.NewClient(d.workspace.GetPath()), d.store, d.publisher, d.recorder)
	d.mu.Unlock()

	if d.scheduler != nil {
		if err := d.scheduler.Reschedule(newCfg.RescanInterval(), func() { d.Sweep(ctx) }); err != nil {
			return fmt.Errorf("failed to reschedule validation: %w", err)
		}
	}

	slog.Info("Configuration applied", "repositories", len(newCfg.Repositories))
	go d.Sweep(ctx)
	return nil
}
