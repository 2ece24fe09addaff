// Package metrics registers the Prometheus collectors for the refresh
// pipeline. Collectors live on the default registry; cmd/deptpulse exposes
// them at /metrics via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for RefreshTotal.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// RefreshTotal counts ingestion attempts by outcome.
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deptpulse_refresh_total",
		Help: "Ingestion attempts by outcome.",
	}, []string{"outcome"})

	// RefreshDuration observes the wall time of one ingestion attempt.
	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "deptpulse_refresh_duration_seconds",
		Help:    "Wall time of one ingestion attempt.",
		Buckets: prometheus.DefBuckets,
	})

	// DepartmentCount is the number of departments in the current snapshot.
	DepartmentCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deptpulse_departments",
		Help: "Departments in the current snapshot.",
	})

	// OverallProgress is the mean total score across the current snapshot.
	OverallProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deptpulse_overall_progress",
		Help: "Mean department total score in the current snapshot (nominally 0-1).",
	})
)
