package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docconf/internal/config"
	"git.home.luguber.info/inful/docconf/internal/runstore"
)

func testDaemon(t *testing.T) *Daemon {
	t.Helper()
	cfg := testConfig(t)
	cfg.Repositories = []config.Repository{{Name: "docs", URL: "https://example.invalid/docs.git"}}
	d, err := NewDaemon(cfg, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Stop(context.Background()) })
	d.startTime = time.Now()
	return d
}

func recordRun(t *testing.T, d *Daemon, repo, outcome string, errs int) {
	t.Helper()
	require.NoError(t, d.Store().Record(context.Background(), runstore.Run{
		ID:        uuid.NewString(),
		Repo:      repo,
		StartedAt: time.Now().UTC(),
		Outcome:   outcome,
		Errors:    errs,
	}))
}

func TestHealthEndpoint(t *testing.T) {
	s := NewHTTPServer(testDaemon(t))

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Version)
}

func TestStatusEndpoint(t *testing.T) {
	d := testDaemon(t)
	recordRun(t, d, "docs", "clean", 0)
	s := NewHTTPServer(d)

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Repositories)
	require.Len(t, resp.RecentRuns, 1)
	assert.Equal(t, "docs", resp.RecentRuns[0].Repo)
}

func TestRunsEndpoint(t *testing.T) {
	d := testDaemon(t)
	recordRun(t, d, "docs", "error", 2)
	recordRun(t, d, "other", "clean", 0)
	s := NewHTTPServer(d)

	rec := httptest.NewRecorder()
	s.handleRuns(rec, httptest.NewRequest(http.MethodGet, "/api/runs?repo=docs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []runstore.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "docs", runs[0].Repo)
	assert.Equal(t, 2, runs[0].Errors)

	rec = httptest.NewRecorder()
	s.handleRuns(rec, httptest.NewRequest(http.MethodGet, "/api/runs?limit=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportEndpoint(t *testing.T) {
	d := testDaemon(t)
	recordRun(t, d, "docs", "warning", 0)
	s := NewHTTPServer(d)

	rec := httptest.NewRecorder()
	s.handleReport(rec, httptest.NewRequest(http.MethodGet, "/report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "docs")
}

func TestServerStartStop(t *testing.T) {
	d := testDaemon(t)
	s := NewHTTPServer(d)

	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
