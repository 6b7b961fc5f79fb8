package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docconf/internal/config"
)

func TestRunInitCreatesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docconf.yaml")
	require.NoError(t, RunInit(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "repositories:")

	// Second init without force refuses to overwrite.
	err = RunInit(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, RunInit(path, true))
}

func TestInitCmdOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	cmd := &InitCmd{Output: dir}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: "unused.yaml"}))

	_, err := os.Stat(filepath.Join(dir, "docconf.yaml"))
	assert.NoError(t, err)
}

func TestInitCmdManifestScaffold(t *testing.T) {
	dir := t.TempDir()
	cmd := &InitCmd{Output: dir, Manifest: true}
	require.NoError(t, cmd.Run(&Global{}, &CLI{}))

	data, err := os.ReadFile(filepath.Join(dir, ".readthedocs.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 2")
}

func TestRunDiscoverUnknownRepository(t *testing.T) {
	cfg := &config.Config{Repositories: []config.Repository{{Name: "docs", URL: "https://example.invalid/docs.git"}}}

	err := RunDiscover(context.Background(), cfg, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in configuration")
}

func TestLintCmdMissingPath(t *testing.T) {
	cmd := &LintCmd{Path: filepath.Join(t.TempDir(), "nope")}
	err := cmd.Run(&Global{}, &CLI{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestDepsCmdMissingFile(t *testing.T) {
	cmd := &DepsCmd{Path: filepath.Join(t.TempDir(), "requirements.txt"), Format: "text"}
	err := cmd.Run(&Global{}, &CLI{})
	require.Error(t, err)
}
