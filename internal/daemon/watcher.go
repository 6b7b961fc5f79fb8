package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docconf/internal/config"
	"git.home.luguber.info/inful/docconf/internal/manifest"
)

// ConfigWatcher monitors configuration file changes and triggers reloads.
type ConfigWatcher struct {
	configPath   string
	daemon       *Daemon
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	stopChan     chan struct{}
	reloadChan   chan struct{}
	debounceTime time.Duration
}

// NewConfigWatcher creates a new configuration file watcher.
func NewConfigWatcher(configPath string, daemon *Daemon) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	return &ConfigWatcher{
		configPath:   absPath,
		daemon:       daemon,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		reloadChan:   make(chan struct{}, 1),
		debounceTime: 2 * time.Second,
	}, nil
}

// Start begins monitoring the configuration file.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	// Watch the directory holding the config file. Editors replace files
	// on save, so watching the file inode directly loses events.
	configDir := filepath.Dir(cw.configPath)
	if err := cw.watcher.Add(configDir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", configDir, err)
	}

	slog.Info("Starting configuration watcher", "config_path", cw.configPath)

	go cw.watchLoop(ctx)
	go cw.reloadLoop(ctx)
	return nil
}

// Stop stops the configuration watcher.
func (cw *ConfigWatcher) Stop(ctx context.Context) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	slog.Info("Stopping configuration watcher")
	close(cw.stopChan)
	if cw.watcher != nil {
		if err := cw.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", "error", err)
		}
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
				slog.Debug("Config file change detected", "file", event.Name, "op", event.Op)
				cw.triggerReload()
			case event.Op.Has(fsnotify.Remove):
				slog.Warn("Config file removed", "file", event.Name)
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", "error", err)
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
					slog.Error("Failed to reload configuration", "error", err)
				}
			})
		}
	}
}

func (cw *ConfigWatcher) triggerReload() {
	select {
	case cw.reloadChan <- struct{}{}:
	default:
		// Reload already pending
	}
}

func (cw *ConfigWatcher) performReload(ctx context.Context) error {
	slog.Info("Reloading configuration", "config_path", cw.configPath)

	newConfig, err := config.Load(cw.configPath)
	if err != nil {
		return fmt.Errorf("failed to load new configuration: %w", err)
	}
	if err := cw.daemon.ReloadConfig(ctx, newConfig); err != nil {
		return fmt.Errorf("failed to apply new configuration: %w", err)
	}

	slog.Info("Configuration reloaded successfully")
	return nil
}

// PathWatcher re-lints watched local directories when a build manifest or
// requirements file inside them changes.
type PathWatcher struct {
	paths        []string
	daemon       *Daemon
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	stopChan     chan struct{}
	pending      map[string]struct{}
	pendingMu    sync.Mutex
	kick         chan struct{}
	debounceTime time.Duration
}

// NewPathWatcher creates a watcher over the configured local paths.
func NewPathWatcher(paths []string, daemon *Daemon) (*PathWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		ap, err := filepath.Abs(p)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to resolve watch path %s: %w", p, err)
		}
		abs = append(abs, ap)
	}

	return &PathWatcher{
		paths:        abs,
		daemon:       daemon,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		pending:      make(map[string]struct{}),
		kick:         make(chan struct{}, 1),
		debounceTime: 2 * time.Second,
	}, nil
}

// Start begins monitoring the watch paths.
func (pw *PathWatcher) Start(ctx context.Context) error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	for _, p := range pw.paths {
		if err := pw.watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch path %s: %w", p, err)
		}
		slog.Info("Watching path for manifest changes", "path", p)
	}

	go pw.watchLoop(ctx)
	go pw.flushLoop(ctx)
	return nil
}

// Stop stops the path watcher.
func (pw *PathWatcher) Stop(ctx context.Context) error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	slog.Info("Stopping path watcher")
	close(pw.stopChan)
	if pw.watcher != nil {
		if err := pw.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", "error", err)
		}
	}
	return nil
}

func (pw *PathWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-pw.stopChan:
			return
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if !isValidatedFile(filepath.Base(event.Name)) {
				continue
			}
			root := pw.rootFor(event.Name)
			if root == "" {
				continue
			}
			slog.Debug("Watched file changed", "file", event.Name)
			pw.pendingMu.Lock()
			pw.pending[root] = struct{}{}
			pw.pendingMu.Unlock()
			select {
			case pw.kick <- struct{}{}:
			default:
			}
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Path watcher error", "error", err)
		}
	}
}

// flushLoop validates pending roots after the debounce window so a burst
// of saves produces one run per root.
func (pw *PathWatcher) flushLoop(ctx context.Context) {
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-pw.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-pw.kick:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(pw.debounceTime, func() {
				pw.pendingMu.Lock()
				roots := make([]string, 0, len(pw.pending))
				for r := range pw.pending {
					roots = append(roots, r)
				}
				pw.pending = make(map[string]struct{})
				pw.pendingMu.Unlock()

				for _, root := range roots {
					pw.daemon.ValidateWatched(ctx, root)
				}
			})
		}
	}
}

// rootFor maps a changed file back to its configured watch path.
func (pw *PathWatcher) rootFor(name string) string {
	for _, p := range pw.paths {
		if name == p || strings.HasPrefix(name, p+string(filepath.Separator)) {
			return p
		}
	}
	return ""
}

// isValidatedFile reports whether a file name is one docconf validates.
func isValidatedFile(base string) bool {
	for _, n := range manifest.FileNames {
		if base == n {
			return true
		}
	}
	return strings.HasPrefix(base, "requirements") && strings.HasSuffix(base, ".txt")
}
