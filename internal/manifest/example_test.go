package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".readthedocs.yaml")
	require.NoError(t, WriteExample(path, false))

	// Refuses to overwrite without force.
	err := WriteExample(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, WriteExample(path, true))

	// The scaffold must itself be a valid schema v2 manifest.
	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, m.Version)
	assert.Empty(t, m.UnknownKeys)
	require.NotNil(t, m.Sphinx)
	assert.Equal(t, BuilderHTML, m.Sphinx.Builder)
	require.NotNil(t, m.Search)
	assert.Equal(t, 2, m.Search.Ranking["tutorials/*"])
	require.Len(t, m.RequirementsRefs(), 1)
	assert.Equal(t, "docs/requirements.txt", m.RequirementsRefs()[0])
}
