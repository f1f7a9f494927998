package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"calder-eda/fabcost/pkg/config"
)

// Collector owns the Prometheus registry and all metric families. If
// metrics are disabled in the configuration the recording methods are
// no-ops, so callers never need to branch on the setting.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	estimateMetrics *EstimateMetrics
	cacheMetrics    *CacheMetrics
}

// NewCollector builds a collector. A nil registry creates a private
// one, which keeps parallel tests from fighting over metric names.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "fabcost"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}
	c.estimateMetrics = NewEstimateMetrics(cfg, registry)
	c.cacheMetrics = NewCacheMetrics(cfg, registry)
	return c
}

// Estimates returns the estimation metric family.
func (c *Collector) Estimates() *EstimateMetrics {
	return c.estimateMetrics
}

// Cache returns the cache metric family, which satisfies
// cache.Recorder.
func (c *Collector) Cache() *CacheMetrics {
	return c.cacheMetrics
}

// Handler returns the /metrics HTTP handler for this collector's
// registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
