package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once         sync.Once
	runDuration  prom.Histogram
	scanDuration *prom.HistogramVec
	runOutcomes  *prom.CounterVec
	issues       *prom.CounterVec
	projects     prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docconf",
			Name:      "run_duration_seconds",
			Help:      "Total validation run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.scanDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docconf",
			Name:      "scan_duration_seconds",
			Help:      "Duration of individual repository scans",
			Buckets:   prom.DefBuckets,
		}, []string{"repo"})
		pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docconf",
			Name:      "run_outcomes_total",
			Help:      "Validation run outcomes by final status",
		}, []string{"outcome"})
		pr.issues = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docconf",
			Name:      "issues_total",
			Help:      "Issues found by severity",
		}, []string{"severity"})
		pr.projects = prom.NewGauge(prom.GaugeOpts{
			Namespace: "docconf",
			Name:      "projects_validated",
			Help:      "Projects validated in the last run",
		})
		reg.MustRegister(pr.runDuration, pr.scanDuration, pr.runOutcomes, pr.issues, pr.projects)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveScanDuration(repo string, d time.Duration) {
	if p == nil || p.scanDuration == nil {
		return
	}
	p.scanDuration.WithLabelValues(repo).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	if p == nil || p.runOutcomes == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddIssues(severity string, n int) {
	if p == nil || p.issues == nil || n <= 0 {
		return
	}
	p.issues.WithLabelValues(severity).Add(float64(n))
}

func (p *PrometheusRecorder) SetProjectsValidated(n int) {
	if p == nil || p.projects == nil {
		return
	}
	p.projects.Set(float64(n))
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for
// the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
