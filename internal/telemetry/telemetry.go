// Package telemetry exposes the engine's Prometheus metrics. Collectors
// register on the default registry; the healthcheck server serves them on
// /metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flowsheet",
		Name:      "solves_total",
		Help:      "Completed solver runs by termination status.",
	}, []string{"status"})

	solveIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "flowsheet",
		Name:      "solve_iterations",
		Help:      "Newton iterations per solver run.",
		Buckets:   prometheus.LinearBuckets(0, 5, 11),
	})

	solveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "flowsheet",
		Name:      "solve_duration_seconds",
		Help:      "Wall-clock duration of solver runs.",
		Buckets:   prometheus.DefBuckets,
	})
)

// ObserveSolve records one completed solver run.
func ObserveSolve(status string, iterations int, duration time.Duration) {
	solvesTotal.WithLabelValues(status).Inc()
	solveIterations.Observe(float64(iterations))
	solveDuration.Observe(duration.Seconds())
}
