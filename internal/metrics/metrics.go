// Package metrics holds the domain counters exposed on /metrics. HTTP
// request counting lives in the middleware package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the domain counters for invoice processing and dispatch.
type Metrics struct {
	InvoicesProcessed prometheus.Counter
	AnomaliesDetected *prometheus.CounterVec
	EmailsSent        *prometheus.CounterVec
	SchedulerRuns     *prometheus.CounterVec
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		InvoicesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "invoices_processed_total",
			Help: "Total number of invoices run through compliance validation.",
		}),
		AnomaliesDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anomalies_detected_total",
			Help: "Total number of anomalies detected, by anomaly type.",
		}, []string{"type"}),
		EmailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total number of outbound emails, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		SchedulerRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_runs_total",
			Help: "Total number of scheduled trigger firings, by trigger and status.",
		}, []string{"trigger", "status"}),
	}

	collectors := []prometheus.Collector{
		m.InvoicesProcessed, m.AnomaliesDetected, m.EmailsSent, m.SchedulerRuns,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewNop creates unregistered counters for tests and optional wiring.
func NewNop() *Metrics {
	m, _ := New(prometheus.NewRegistry())
	return m
}
