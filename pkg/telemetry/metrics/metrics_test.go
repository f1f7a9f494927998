package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"calder-eda/fabcost/pkg/cache"
	"calder-eda/fabcost/pkg/config"
	"calder-eda/fabcost/pkg/estimate"
	"calder-eda/fabcost/pkg/sourcing"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "fabcost",
	}
}

func TestNewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)
	if collector.Estimates() == nil || collector.Cache() == nil {
		t.Fatal("collector subsystems not initialized")
	}

	// A nil registry gets a private one.
	if NewCollector(testConfig(), nil) == nil {
		t.Fatal("NewCollector(nil registry) returned nil")
	}
}

func TestEstimateMetrics_ObserveRun(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	em := collector.Estimates()

	est := &estimate.CostEstimate{
		SourcingMode:   sourcing.ModeEUPreferred,
		ComponentCosts: make([]estimate.ComponentCostEstimate, 3),
		FlaggedParts:   []string{"R1", "U2"},
		Warnings:       []string{"one"},
	}
	em.ObserveRun(est, 120*time.Millisecond)
	em.ObserveRun(est, 80*time.Millisecond)

	runs := testutil.ToFloat64(em.estimatesTotal.WithLabelValues("eu_preferred", "success"))
	if runs != 2 {
		t.Errorf("estimates_total = %v, want 2", runs)
	}
	flagged := testutil.ToFloat64(em.flaggedTotal.WithLabelValues("eu_preferred"))
	if flagged != 4 {
		t.Errorf("flagged_parts_total = %v, want 4", flagged)
	}
	warnings := testutil.ToFloat64(em.warningsTotal)
	if warnings != 2 {
		t.Errorf("estimate_warnings_total = %v, want 2", warnings)
	}
}

func TestEstimateMetrics_ObserveFailure(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	em := collector.Estimates()

	em.ObserveFailure("global", 5*time.Millisecond)
	failures := testutil.ToFloat64(em.estimatesTotal.WithLabelValues("global", "error"))
	if failures != 1 {
		t.Errorf("estimates_total{status=error} = %v, want 1", failures)
	}
}

func TestEstimateMetrics_DisabledIsNoOp(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())
	em := collector.Estimates()

	em.ObserveRun(&estimate.CostEstimate{SourcingMode: sourcing.ModeGlobal}, time.Millisecond)
	if got := testutil.ToFloat64(em.estimatesTotal.WithLabelValues("global", "success")); got != 0 {
		t.Errorf("disabled collector recorded %v runs", got)
	}
}

func TestCacheMetrics_ImplementsRecorder(t *testing.T) {
	var _ cache.Recorder = (*CacheMetrics)(nil)

	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	cm := collector.Cache()

	cm.Hit("distributor")
	cm.Hit("distributor")
	cm.Miss("distributor")
	cm.Eviction("advisory")
	cm.UpdateEntries("distributor", 17)

	if got := testutil.ToFloat64(cm.hitsTotal.WithLabelValues("distributor")); got != 2 {
		t.Errorf("cache_hits_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(cm.missesTotal.WithLabelValues("distributor")); got != 1 {
		t.Errorf("cache_misses_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(cm.evictionsTotal.WithLabelValues("advisory")); got != 1 {
		t.Errorf("cache_evictions_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(cm.entries.WithLabelValues("distributor")); got != 17 {
		t.Errorf("cache_entries = %v, want 17", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.Cache().Hit("distributor")

	server := httptest.NewServer(collector.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "test_fabcost_cache_hits_total") {
		t.Errorf("metrics output missing cache hits:\n%s", body)
	}
}
