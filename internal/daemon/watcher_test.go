package daemon

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidatedFile(t *testing.T) {
	valid := []string{
		".readthedocs.yaml",
		".readthedocs.yml",
		"readthedocs.yaml",
		"readthedocs.yml",
		"requirements.txt",
		"requirements-docs.txt",
	}
	for _, name := range valid {
		assert.True(t, isValidatedFile(name), name)
	}

	invalid := []string{
		"README.md",
		"conf.py",
		"requirements.in",
		"environment.yml",
		"readthedocs.json",
	}
	for _, name := range invalid {
		assert.False(t, isValidatedFile(name), name)
	}
}

func TestPathWatcherRootFor(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()

	pw, err := NewPathWatcher([]string{rootA, rootB}, nil)
	require.NoError(t, err)
	defer func() { _ = pw.watcher.Close() }()

	assert.Equal(t, rootA, pw.rootFor(filepath.Join(rootA, ".readthedocs.yaml")))
	assert.Equal(t, rootB, pw.rootFor(filepath.Join(rootB, "requirements.txt")))
	assert.Empty(t, pw.rootFor(filepath.Join(t.TempDir(), "requirements.txt")))
}

func TestNewConfigWatcherResolvesPath(t *testing.T) {
	d, err := NewDaemon(testConfig(t), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.store.Close() })

	cw, err := NewConfigWatcher("config.yaml", d)
	require.NoError(t, err)
	defer func() { _ = cw.watcher.Close() }()

	assert.True(t, filepath.IsAbs(cw.configPath))
}
