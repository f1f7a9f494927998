package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"calder-eda/fabcost/pkg/config"
	"calder-eda/fabcost/pkg/estimate"
)

// EstimateMetrics tracks estimation runs.
//
// Metrics:
//   - fabcost_estimates_total: completed runs by sourcing mode and status
//   - fabcost_estimate_duration_seconds: run duration by sourcing mode
//   - fabcost_estimate_components: active line items per run
//   - fabcost_flagged_parts_total: provenance-flagged parts by sourcing mode
//   - fabcost_estimate_warnings_total: warnings attached to runs
type EstimateMetrics struct {
	enabled bool

	estimatesTotal *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	components     prometheus.Histogram
	flaggedTotal   *prometheus.CounterVec
	warningsTotal  prometheus.Counter
}

// NewEstimateMetrics creates and registers the estimation metrics.
func NewEstimateMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *EstimateMetrics {
	em := &EstimateMetrics{
		enabled: cfg.Enabled,

		estimatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimates_total",
				Help:      "Total number of estimation runs",
			},
			[]string{"sourcing_mode", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimate_duration_seconds",
				Help:      "Estimation run duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0, 60.0},
			},
			[]string{"sourcing_mode"},
		),

		components: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimate_components",
				Help:      "Active line items per estimation run",
				Buckets:   []float64{10, 50, 100, 250, 500, 1000, 5000},
			},
		),

		flaggedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "flagged_parts_total",
				Help:      "Total provenance-flagged parts across runs",
			},
			[]string{"sourcing_mode"},
		),

		warningsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "estimate_warnings_total",
				Help:      "Total warnings attached to estimation runs",
			},
		),
	}

	registry.MustRegister(
		em.estimatesTotal,
		em.duration,
		em.components,
		em.flaggedTotal,
		em.warningsTotal,
	)

	return em
}

// ObserveRun records a completed estimation run.
func (em *EstimateMetrics) ObserveRun(est *estimate.CostEstimate, elapsed time.Duration) {
	if !em.enabled {
		return
	}
	mode := string(est.SourcingMode)
	em.estimatesTotal.WithLabelValues(mode, "success").Inc()
	em.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	em.components.Observe(float64(len(est.ComponentCosts)))
	em.flaggedTotal.WithLabelValues(mode).Add(float64(len(est.FlaggedParts)))
	em.warningsTotal.Add(float64(len(est.Warnings)))
}

// ObserveFailure records a run that returned an error.
func (em *EstimateMetrics) ObserveFailure(mode string, elapsed time.Duration) {
	if !em.enabled {
		return
	}
	em.estimatesTotal.WithLabelValues(mode, "error").Inc()
	em.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
}
