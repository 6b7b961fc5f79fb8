package validator

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	appcfg "git.home.luguber.info/inful/docconf/internal/config"
	"git.home.luguber.info/inful/docconf/internal/discovery"
	"git.home.luguber.info/inful/docconf/internal/events"
	"git.home.luguber.info/inful/docconf/internal/gitrepo"
	"git.home.luguber.info/inful/docconf/internal/lint"
	"git.home.luguber.info/inful/docconf/internal/metrics"
	"git.home.luguber.info/inful/docconf/internal/runstore"
)

// Outcome labels recorded on runs and published events.
const (
	OutcomeClean   = "clean"
	OutcomeWarning = "warning"
	OutcomeError   = "error"
	OutcomeFailed  = "failed"
	// OutcomeSkipped marks repositories without a build manifest.
	OutcomeSkipped = "skipped"
)

// RepoSource acquires a repository checkout. Satisfied by gitrepo.Client.
type RepoSource interface {
	UpdateRepository(ctx context.Context, repo appcfg.Repository) (string, error)
}

// Service runs validation over configured repositories and reports
// results to the run store, the event publisher, and the metrics
// recorder. Store and publisher may be nil; recorder must not be
// (use metrics.NoopRecorder).
type Service struct {
	cfg       *appcfg.Config
	source    RepoSource
	store     *runstore.Store
	publisher events.Publisher
	recorder  metrics.Recorder
}

// NewService assembles a validation service.
func NewService(cfg *appcfg.Config, source RepoSource, store *runstore.Store, publisher events.Publisher, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Service{cfg: cfg, source: source, store: store, publisher: publisher, recorder: recorder}
}

var _ RepoSource = (*gitrepo.Client)(nil)

// ValidateAll validates every configured repository. Per-repository
// failures are recorded as failed runs rather than aborting the sweep.
func (s *Service) ValidateAll(ctx context.Context) ([]runstore.Run, error) {
	start := time.Now()
	var runs []runstore.Run
	validated := 0

	for _, repo := range s.cfg.Repositories {
		if ctx.Err() != nil {
			return runs, ctx.Err()
		}
		run := s.ValidateRepo(ctx, repo)
		if run.Outcome == OutcomeSkipped {
			continue
		}
		validated++
		runs = append(runs, run)
	}

	s.recorder.ObserveRunDuration(time.Since(start))
	s.recorder.SetProjectsValidated(validated)
	return runs, nil
}

// ValidateRepo acquires one repository and validates its build manifest.
func (s *Service) ValidateRepo(ctx context.Context, repo appcfg.Repository) runstore.Run {
	started := time.Now()
	run := runstore.Run{
		ID:        uuid.NewString(),
		Repo:      repo.Name,
		StartedAt: started.UTC(),
	}

	root, err := s.source.UpdateRepository(ctx, repo)
	if err != nil {
		slog.Error("Repository acquisition failed", "repo", repo.Name, "error", err)
		return s.finish(ctx, run, started, nil, err)
	}

	project, err := discovery.Scan(root, repo)
	if err != nil {
		return s.finish(ctx, run, started, nil, err)
	}
	if project == nil {
		run.Outcome = OutcomeSkipped
		slog.Info("Repository has no build manifest, skipping", "repo", repo.Name)
		return run
	}

	result, _, err := lint.NewLinter(nil).LintManifest(project.Root, project.ManifestPath, project.ExtraRequirements...)
	if err != nil {
		return s.finish(ctx, run, started, nil, err)
	}
	return s.finish(ctx, run, started, result, nil)
}

// ValidateLocal lints a local directory or manifest file without going
// through repository acquisition (daemon watch paths, CLI lint).
func (s *Service) ValidateLocal(ctx context.Context, name, path string) runstore.Run {
	started := time.Now()
	run := runstore.Run{
		ID:        uuid.NewString(),
		Repo:      name,
		StartedAt: started.UTC(),
	}
	result, _, err := lint.NewLinter(nil).LintPath(path)
	return s.finish(ctx, run, started, result, err)
}

// finish derives the outcome, records, publishes and observes the run.
func (s *Service) finish(ctx context.Context, run runstore.Run, started time.Time, result *lint.Result, err error) runstore.Run {
	run.Duration = time.Since(started)

	switch {
	case err != nil:
		run.Outcome = OutcomeFailed
		run.Issues = []lint.Issue{{
			Severity: lint.SeverityError,
			Rule:     "validation",
			Message:  err.Error(),
		}}
		run.Errors = 1
	case result.HasErrors():
		run.Outcome = OutcomeError
	case result.HasWarnings():
		run.Outcome = OutcomeWarning
	default:
		run.Outcome = OutcomeClean
	}
	if err == nil {
		run.Errors = result.ErrorCount()
		run.Warnings = result.WarningCount()
		run.Infos = result.InfoCount()
		run.Issues = result.Issues
	}

	s.recorder.ObserveScanDuration(run.Repo, run.Duration)
	s.recorder.IncRunOutcome(metrics.OutcomeLabel(run.Outcome))
	s.recorder.AddIssues(lint.SeverityError.String(), run.Errors)
	s.recorder.AddIssues(lint.SeverityWarning.String(), run.Warnings)
	s.recorder.AddIssues(lint.SeverityInfo.String(), run.Infos)

	if s.store != nil {
		if storeErr := s.store.Record(ctx, run); storeErr != nil {
			slog.Error("Failed to record validation run", "repo", run.Repo, "error", storeErr)
		}
	}
	if s.publisher != nil {
		event := events.ValidationEvent{
			RunID:     run.ID,
			Repo:      run.Repo,
			Outcome:   run.Outcome,
			Errors:    run.Errors,
			Warnings:  run.Warnings,
			Timestamp: run.StartedAt,
		}
		if pubErr := s.publisher.Publish(event); pubErr != nil {
			slog.Warn("Failed to publish validation event", "repo", run.Repo, "error", pubErr)
		}
	}

	slog.Info("Validation run completed",
		"repo", run.Repo,
		"run_id", run.ID,
		"outcome", run.Outcome,
		"errors", run.Errors,
		"warnings", run.Warnings,
		"duration", run.Duration)
	return run
}
