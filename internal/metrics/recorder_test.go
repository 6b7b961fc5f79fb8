package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveRunDuration(time.Second)
	r.ObserveScanDuration("repo", time.Second)
	r.IncRunOutcome(OutcomeClean)
	r.AddIssues("ERROR", 3)
	r.SetProjectsValidated(2)
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncRunOutcome(OutcomeError)
	r.IncRunOutcome(OutcomeError)
	r.IncRunOutcome(OutcomeClean)
	r.AddIssues("ERROR", 2)
	r.AddIssues("WARNING", 0) // no-op
	r.SetProjectsValidated(5)
	r.ObserveRunDuration(250 * time.Millisecond)
	r.ObserveScanDuration("sample", 100*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runOutcomes.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runOutcomes.WithLabelValues("clean")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.issues.WithLabelValues("ERROR")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.projects))
}

func TestPrometheusRecorderNilSafety(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveRunDuration(time.Second)
	r.IncRunOutcome(OutcomeClean)
	r.AddIssues("ERROR", 1)
	r.SetProjectsValidated(1)
}
