package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcfg "git.home.luguber.info/inful/docconf/internal/config"
)

// initSourceRepo creates a local repository with a committed build manifest.
func initSourceRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".readthedocs.yaml"), []byte("version: 2\n"), 0o644))

	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add(".readthedocs.yaml")
	require.NoError(t, err)
	_, err = worktree.Commit("add build manifest", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.test", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}

func TestCloneRepository(t *testing.T) {
	src := initSourceRepo(t)
	client := NewClient(t.TempDir())

	path, err := client.CloneRepository(context.Background(), appcfg.Repository{
		URL:  src,
		Name: "sample",
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(path, ".readthedocs.yaml"))
	assert.NoError(t, err)
}

func TestUpdateRepositoryClonesWhenMissing(t *testing.T) {
	src := initSourceRepo(t)
	client := NewClient(t.TempDir())

	path, err := client.UpdateRepository(context.Background(), appcfg.Repository{
		URL:  src,
		Name: "sample",
	})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(path, ".git"))
	assert.NoError(t, err)
}

func TestCloneReplacesExistingCheckout(t *testing.T) {
	src := initSourceRepo(t)
	ws := t.TempDir()
	client := NewClient(ws)

	stale := filepath.Join(ws, "sample")
	require.NoError(t, os.MkdirAll(stale, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "stale.txt"), []byte("old"), 0o644))

	path, err := client.CloneRepository(context.Background(), appcfg.Repository{URL: src, Name: "sample"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(path, "stale.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestAuthMethodMapping(t *testing.T) {
	m, err := authMethod(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = authMethod(&appcfg.AuthConfig{Type: appcfg.AuthTypeToken, Token: "tok"})
	require.NoError(t, err)
	assert.NotNil(t, m)

	_, err = authMethod(&appcfg.AuthConfig{Type: "ssh"})
	assert.Error(t, err)
}
