package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/docconf/internal/lint"
)

// Run records one validation run of a single project.
type Run struct {
	ID        string        `json:"id"`
	Repo      string        `json:"repo"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Outcome   string        `json:"outcome"` // clean|warning|error|failed
	Errors    int           `json:"errors"`
	Warnings  int           `json:"warnings"`
	Infos     int           `json:"infos"`
	Issues    []lint.Issue  `json:"issues,omitempty"`
}

// Store persists validation runs in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a SQLite-backed run store. Use ":memory:" for an
// in-memory database, or a file path for persistent storage.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		repo TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		errors INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		infos INTEGER NOT NULL,
		issues TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_repo ON runs(repo);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts a completed run.
func (s *Store) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var issuesJSON []byte
	if len(run.Issues) > 0 {
		var err error
		issuesJSON, err = json.Marshal(run.Issues)
		if err != nil {
			return fmt.Errorf("marshal issues: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, repo, started_at, duration_ms, outcome, errors, warnings, infos, issues) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.Repo, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(),
		run.Outcome, run.Errors, run.Warnings, run.Infos, issuesJSON,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs across all repositories, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, repo, started_at, duration_ms, outcome, errors, warnings, infos, issues FROM runs ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// ByRepo returns the most recent runs for one repository, newest first.
func (s *Store) ByRepo(ctx context.Context, repo string, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, repo, started_at, duration_ms, outcome, errors, warnings, infos, issues FROM runs WHERE repo = ? ORDER BY started_at DESC, id LIMIT ?",
		repo, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs for %s: %w", repo, err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var out []Run
	for rows.Next() {
		var (
			run        Run
			startedMs  int64
			durationMs int64
			issuesJSON sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Repo, &startedMs, &durationMs,
			&run.Outcome, &run.Errors, &run.Warnings, &run.Infos, &issuesJSON); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = time.UnixMilli(startedMs).UTC()
		run.Duration = time.Duration(durationMs) * time.Millisecond
		if issuesJSON.Valid && issuesJSON.String != "" {
			if err := json.Unmarshal([]byte(issuesJSON.String), &run.Issues); err != nil {
				return nil, fmt.Errorf("unmarshal issues: %w", err)
			}
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
