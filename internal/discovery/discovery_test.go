package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcfg "git.home.luguber.info/inful/docconf/internal/config"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestScanFindsManifestAndRequirements(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".readthedocs.yml", "version: 2\n")
	writeFile(t, root, "requirements.txt", "numpy==1.26.4\n")
	writeFile(t, root, "doc/requirements-docs.txt", "sphinx==7.2.6\n")
	writeFile(t, root, "node_modules/pkg/requirements.txt", "ignored==1.0\n")
	writeFile(t, root, ".tox/requirements.txt", "ignored==1.0\n")

	project, err := Scan(root, appcfg.Repository{Name: "sample"})
	require.NoError(t, err)
	require.NotNil(t, project)

	assert.Equal(t, filepath.Join(root, ".readthedocs.yml"), project.ManifestPath)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "requirements.txt"),
		filepath.Join(root, "doc/requirements-docs.txt"),
	}, project.ExtraRequirements)
}

func TestScanWithoutManifest(t *testing.T) {
	project, err := Scan(t.TempDir(), appcfg.Repository{Name: "nodocs"})
	require.NoError(t, err)
	assert.Nil(t, project)
}

func TestScanExplicitManifestPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ci/rtd.yml", "version: 2\n")

	project, err := Scan(root, appcfg.Repository{Name: "sample", ManifestPath: "ci/rtd.yml"})
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, filepath.Join(root, "ci/rtd.yml"), project.ManifestPath)

	_, err = Scan(root, appcfg.Repository{Name: "sample", ManifestPath: "missing.yml"})
	assert.Error(t, err)
}

func TestScanConfiguredRequirementsComeFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".readthedocs.yaml", "version: 2\n")
	writeFile(t, root, "requirements.txt", "numpy==1.26.4\n")

	project, err := Scan(root, appcfg.Repository{
		Name:              "sample",
		RequirementsPaths: []string{"requirements.txt"},
	})
	require.NoError(t, err)
	require.NotNil(t, project)
	// Configured and discovered paths dedupe to one entry.
	assert.Equal(t, []string{filepath.Join(root, "requirements.txt")}, project.ExtraRequirements)
}
