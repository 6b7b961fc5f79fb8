package metrics

import "time"

// OutcomeLabel enumerates validation run outcomes for counters.
type OutcomeLabel string

const (
	OutcomeClean   OutcomeLabel = "clean"
	OutcomeWarning OutcomeLabel = "warning"
	OutcomeError   OutcomeLabel = "error"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for validation runs. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe
// on the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	ObserveScanDuration(repo string, d time.Duration)
	IncRunOutcome(outcome OutcomeLabel)
	AddIssues(severity string, n int)
	SetProjectsValidated(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)          {}
func (NoopRecorder) ObserveScanDuration(string, time.Duration) {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)                {}
func (NoopRecorder) AddIssues(string, int)                     {}
func (NoopRecorder) SetProjectsValidated(int)                  {}
