package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"git.home.luguber.info/inful/docconf/internal/config"
	"git.home.luguber.info/inful/docconf/internal/gitrepo"
	"git.home.luguber.info/inful/docconf/internal/runstore"
	"git.home.luguber.info/inful/docconf/internal/validator"
	"git.home.luguber.info/inful/docconf/internal/workspace"
)

// DiscoverCmd implements the 'discover' command: a one-shot validation
// sweep over the configured repositories.
type DiscoverCmd struct {
	Repository string `short:"r" help:"Specific repository to validate (optional)"`
}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return RunDiscover(context.Background(), cfg, d.Repository)
}

// RunDiscover clones the configured repositories into an ephemeral
// workspace and validates each one, printing a per-repository summary.
func RunDiscover(ctx context.Context, cfg *config.Config, specificRepo string) error {
	repos := cfg.Repositories
	if specificRepo != "" {
		repos = nil
		for _, r := range cfg.Repositories {
			if r.Name == specificRepo {
				repos = []config.Repository{r}
				break
			}
		}
		if len(repos) == 0 {
			return fmt.Errorf("repository '%s' not found in configuration", specificRepo)
		}
	}

	slog.Info("Starting validation sweep", "repositories", len(repos))

	ws := workspace.NewManager("")
	if err := ws.Create(); err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			slog.Warn("Workspace cleanup failed", "error", err)
		}
	}()

	sweepCfg := *cfg
	sweepCfg.Repositories = repos
	service := validator.NewService(&sweepCfg, gitrepo.NewClient(ws.GetPath()), nil, nil, nil)

	runs, err := service.ValidateAll(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, run := range runs {
		printRunSummary(run)
		if run.Outcome == validator.OutcomeError || run.Outcome == validator.OutcomeFailed {
			failed++
		}
	}
	skipped := len(repos) - len(runs)
	if skipped > 0 {
		fmt.Printf("%d repositor(y/ies) without a build manifest skipped\n", skipped)
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d repositories failed validation\n", failed, len(runs))
		os.Exit(2)
	}
	return nil
}

func printRunSummary(run runstore.Run) {
	fmt.Printf("%-30s %-8s errors=%d warnings=%d infos=%d (%s)\n",
		run.Repo, run.Outcome, run.Errors, run.Warnings, run.Infos, run.Duration.Round(time.Millisecond))
	for _, issue := range run.Issues {
		fmt.Printf("    %s: %s [%s] %s\n", issue.Severity, issue.Path, issue.Rule, issue.Message)
	}
}
