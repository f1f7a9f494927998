// Package metrics exposes Prometheus metrics for the estimation
// engine and its caches.
//
// A Collector owns one prometheus.Registry and the metric families
// registered in it. Estimation metrics are recorded by the caller
// after a run completes, keeping the engine itself free of metrics
// plumbing; cache metrics plug into the cache layer through the
// cache.Recorder interface.
package metrics
