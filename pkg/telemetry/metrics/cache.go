package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"calder-eda/fabcost/pkg/config"
)

// CacheMetrics tracks the result cache. It implements cache.Recorder,
// so a Collector's cache metrics can be handed straight to the cache
// constructors.
//
// Metrics:
//   - fabcost_cache_hits_total: hits by namespace
//   - fabcost_cache_misses_total: misses by namespace
//   - fabcost_cache_evictions_total: TTL evictions by namespace
//   - fabcost_cache_entries: current entry count by namespace
type CacheMetrics struct {
	enabled bool

	hitsTotal      *prometheus.CounterVec
	missesTotal    *prometheus.CounterVec
	evictionsTotal *prometheus.CounterVec
	entries        *prometheus.GaugeVec
}

// NewCacheMetrics creates and registers the cache metrics.
func NewCacheMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CacheMetrics {
	cm := &CacheMetrics{
		enabled: cfg.Enabled,

		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hits_total",
				Help:      "Total cache hits",
			},
			[]string{"namespace"},
		),

		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_misses_total",
				Help:      "Total cache misses",
			},
			[]string{"namespace"},
		),

		evictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_evictions_total",
				Help:      "Total cache entries evicted after TTL expiry",
			},
			[]string{"namespace"},
		),

		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_entries",
				Help:      "Current cache entries",
			},
			[]string{"namespace"},
		),
	}

	registry.MustRegister(
		cm.hitsTotal,
		cm.missesTotal,
		cm.evictionsTotal,
		cm.entries,
	)

	return cm
}

// Hit implements cache.Recorder.
func (cm *CacheMetrics) Hit(ns string) {
	if !cm.enabled {
		return
	}
	cm.hitsTotal.WithLabelValues(ns).Inc()
}

// Miss implements cache.Recorder.
func (cm *CacheMetrics) Miss(ns string) {
	if !cm.enabled {
		return
	}
	cm.missesTotal.WithLabelValues(ns).Inc()
}

// Eviction implements cache.Recorder.
func (cm *CacheMetrics) Eviction(ns string) {
	if !cm.enabled {
		return
	}
	cm.evictionsTotal.WithLabelValues(ns).Inc()
}

// UpdateEntries sets the current entry count for a namespace, usually
// from a cache Stats call after scheduled cleanup.
func (cm *CacheMetrics) UpdateEntries(ns string, count int) {
	if !cm.enabled {
		return
	}
	cm.entries.WithLabelValues(ns).Set(float64(count))
}
