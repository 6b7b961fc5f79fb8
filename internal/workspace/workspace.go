package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Manager handles checkout workspace directories (both temporary and persistent).
type Manager struct {
	baseDir    string
	dir        string
	persistent bool // if true, use a fixed directory and never clean up
}

// NewManager creates a workspace manager with ephemeral timestamped directories.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager creates a workspace manager that uses a fixed
// directory (baseDir/subdirName) and does not remove it on Cleanup.
func NewPersistentManager(baseDir, subdirName string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if subdirName == "" {
		subdirName = "checkouts"
	}
	return &Manager{
		baseDir:    baseDir,
		dir:        filepath.Join(baseDir, subdirName),
		persistent: true,
	}
}

// Create creates the workspace directory: a timestamped directory in
// ephemeral mode, the fixed directory in persistent mode.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fmt.Errorf("create persistent workspace directory: %w", err)
		}
		slog.Info("Using persistent workspace", "path", m.dir)
		return nil
	}

	timestamp := time.Now().Format("20060102-150405")
	dir := filepath.Join(m.baseDir, fmt.Sprintf("docconf-%s", timestamp))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create workspace directory: %w", err)
	}
	m.dir = dir
	slog.Debug("Created workspace", "path", dir)
	return nil
}

// GetPath returns the workspace directory path.
func (m *Manager) GetPath() string { return m.dir }

// Cleanup removes an ephemeral workspace. Persistent workspaces are kept.
func (m *Manager) Cleanup() error {
	if m.persistent || m.dir == "" {
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("remove workspace directory: %w", err)
	}
	slog.Debug("Removed workspace", "path", m.dir)
	m.dir = ""
	return nil
}
