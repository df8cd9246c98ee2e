package solver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// optimizationDuration tracks the wall time of placement runs.
	optimizationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "facility_optimization_duration_seconds",
		Help:    "Time taken for a facility placement run",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	// optimizationErrors tracks failed runs by error class.
	optimizationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "facility_optimization_errors_total",
		Help: "Total number of failed placement runs by error class",
	}, []string{"class"}) // class: validation, solver

	// optimizationIterations tracks solver iterations per run.
	optimizationIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "facility_optimization_iterations",
		Help:    "Number of accepted solver iterations per run",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
	})

	// flowCount tracks the number of shipments entering the objective.
	flowCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "facility_optimization_flows_count",
		Help:    "Number of shipment flows per placement run",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
	})

	// nonConverged counts best-effort results that hit the iteration budget.
	nonConverged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "facility_optimization_nonconverged_total",
		Help: "Total number of runs that stopped at the iteration limit",
	})
)

// MetricsRecorder provides methods to record solver metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordRun records the outcome of a placement run.
func (m *MetricsRecorder) RecordRun(duration time.Duration, iterations, flows int, converged bool) {
	optimizationDuration.Observe(duration.Seconds())
	optimizationIterations.Observe(float64(iterations))
	flowCount.Observe(float64(flows))
	if !converged {
		nonConverged.Inc()
	}
}

// RecordError records a failed run.
func (m *MetricsRecorder) RecordError(class string) {
	optimizationErrors.WithLabelValues(class).Inc()
}
