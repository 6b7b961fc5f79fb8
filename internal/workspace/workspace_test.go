package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEphemeralWorkspaceLifecycle(t *testing.T) {
	m := NewManager(t.TempDir())
	require.NoError(t, m.Create())

	path := m.GetPath()
	require.NotEmpty(t, path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, m.Cleanup())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestPersistentWorkspaceSurvivesCleanup(t *testing.T) {
	base := t.TempDir()
	m := NewPersistentManager(base, "checkouts")
	require.NoError(t, m.Create())

	assert.Equal(t, filepath.Join(base, "checkouts"), m.GetPath())
	require.NoError(t, m.Cleanup())

	_, err := os.Stat(m.GetPath())
	assert.NoError(t, err)
}

func TestCreateIsIdempotentForPersistent(t *testing.T) {
	m := NewPersistentManager(t.TempDir(), "")
	require.NoError(t, m.Create())
	require.NoError(t, m.Create())
}
