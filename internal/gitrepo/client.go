package gitrepo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	appcfg "git.home.luguber.info/inful/docconf/internal/config"
	"git.home.luguber.info/inful/docconf/internal/retry"
)

// Client handles repository checkouts for manifest validation. Clones are
// shallow single-branch checkouts: docconf only needs the working tree.
type Client struct {
	workspaceDir string
	policy       retry.Policy
}

// NewClient creates a Git client rooted at the given workspace directory.
func NewClient(workspaceDir string) *Client {
	return &Client{workspaceDir: workspaceDir, policy: retry.DefaultPolicy()}
}

// CloneRepository clones a repository into the workspace, replacing any
// previous checkout of the same name.
func (c *Client) CloneRepository(ctx context.Context, repo appcfg.Repository) (string, error) {
	repoPath := filepath.Join(c.workspaceDir, repo.Name)
	slog.Debug("Cloning repository", "name", repo.Name, "url", repo.URL, "branch", repo.Branch)

	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("remove existing checkout: %w", err)
	}

	opts := &git.CloneOptions{URL: repo.URL}
	if isRemoteURL(repo.URL) {
		// Manifest validation only needs the working tree.
		opts.Depth = 1
	}
	if repo.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + repo.Branch)
		opts.SingleBranch = true
	}
	auth, err := authMethod(repo.Auth)
	if err != nil {
		return "", fmt.Errorf("setup authentication for %s: %w", repo.Name, err)
	}
	opts.Auth = auth

	repository, err := c.cloneWithRetry(ctx, repoPath, repo, opts)
	if err != nil {
		return "", fmt.Errorf("clone repository %s: %w", repo.URL, err)
	}
	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Repository cloned", "name", repo.Name, "commit", ref.Hash().String()[:8])
	} else {
		slog.Info("Repository cloned", "name", repo.Name)
	}
	return repoPath, nil
}

// UpdateRepository pulls an existing checkout, or clones when missing.
func (c *Client) UpdateRepository(ctx context.Context, repo appcfg.Repository) (string, error) {
	repoPath := filepath.Join(c.workspaceDir, repo.Name)
	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err != nil {
		slog.Debug("Checkout missing, cloning", "name", repo.Name)
		return c.CloneRepository(ctx, repo)
	}

	repository, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", repo.Name, err)
	}
	worktree, err := repository.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree for %s: %w", repo.Name, err)
	}

	auth, err := authMethod(repo.Auth)
	if err != nil {
		return "", fmt.Errorf("setup authentication for %s: %w", repo.Name, err)
	}

	pullOpts := &git.PullOptions{Auth: auth, Force: true}
	if repo.Branch != "" {
		pullOpts.ReferenceName = plumbing.ReferenceName("refs/heads/" + repo.Branch)
		pullOpts.SingleBranch = true
	}
	if err := worktree.PullContext(ctx, pullOpts); err != nil && err != git.NoErrAlreadyUpToDate {
		// Divergent or shallow histories: recover by recloning.
		slog.Warn("Pull failed, recloning", "name", repo.Name, "error", err)
		return c.CloneRepository(ctx, repo)
	}
	slog.Debug("Repository updated", "name", repo.Name)
	return repoPath, nil
}

// cloneWithRetry runs the clone with backoff for transient network
// failures. Local path clones get a single attempt.
func (c *Client) cloneWithRetry(ctx context.Context, repoPath string, repo appcfg.Repository, opts *git.CloneOptions) (*git.Repository, error) {
	attempts := 1
	if isRemoteURL(repo.URL) {
		attempts += c.policy.MaxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		repository, err := git.PlainCloneContext(ctx, repoPath, false, opts)
		if err == nil {
			return repository, nil
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		// A partial checkout must not survive into the next attempt.
		if rmErr := os.RemoveAll(repoPath); rmErr != nil {
			return nil, fmt.Errorf("remove partial checkout: %w", rmErr)
		}
		delay := c.policy.Delay(attempt)
		slog.Warn("Clone failed, retrying", "name", repo.Name, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}

// isRemoteURL reports whether the URL uses a network transport. Local
// path clones (used heavily in tests) do not support shallow checkouts.
func isRemoteURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") ||
		strings.HasPrefix(url, "ssh://") || strings.HasPrefix(url, "git@")
}

// authMethod maps the repository auth config to a go-git transport method.
func authMethod(cfg *appcfg.AuthConfig) (transport.AuthMethod, error) {
	if cfg.IsZero() {
		return nil, nil
	}
	switch cfg.Type {
	case appcfg.AuthTypeToken:
		// Token auth over HTTPS uses the token as password with any username.
		return &http.BasicAuth{Username: "docconf", Password: cfg.Token}, nil
	case appcfg.AuthTypeBasic:
		return &http.BasicAuth{Username: cfg.Username, Password: cfg.Password}, nil
	default:
		return nil, fmt.Errorf("unsupported auth type %q", cfg.Type)
	}
}
