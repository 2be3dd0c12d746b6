// Package metrics exposes prometheus instrumentation for optimization runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/evolvekit/evoq/internal/optimization"
)

// Metrics aggregates the run-level counters the service reports.
type Metrics struct {
	RunsStarted  *prometheus.CounterVec
	RunsFinished *prometheus.CounterVec
	Evaluations  *prometheus.CounterVec
	Restarts     *prometheus.CounterVec
	ActiveRuns   prometheus.Gauge
}

// New registers the metric set with reg. Pass prometheus.DefaultRegisterer
// in production; tests use a private registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evoq_runs_started_total",
			Help: "Optimization runs started, by algorithm.",
		}, []string{"algorithm"}),
		RunsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evoq_runs_finished_total",
			Help: "Optimization runs finished, by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		Evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evoq_function_evaluations_total",
			Help: "Objective function evaluations spent, by algorithm.",
		}, []string{"algorithm"}),
		Restarts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evoq_restarts_total",
			Help: "Strategy restarts triggered by the stagnation controller.",
		}, []string{"algorithm"}),
		ActiveRuns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "evoq_active_runs",
			Help: "Optimization runs currently in flight.",
		}),
	}
}

// ObserveResults folds a completed run's counters into the metric set.
func (m *Metrics) ObserveResults(res *optimization.Results, outcome string) {
	m.RunsFinished.WithLabelValues(res.Algorithm, outcome).Inc()
	m.Evaluations.WithLabelValues(res.Algorithm).Add(float64(res.NFunctionEvaluations))
	m.Restarts.WithLabelValues(res.Algorithm).Add(float64(res.NRestarts))
}
