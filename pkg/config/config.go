package config

import (
	"time"
)

// Config is the root configuration for the fabcost engine.
type Config struct {
	// Pricing contains category base prices, package multipliers, and
	// the quantity-break discount curve.
	Pricing PricingConfig `yaml:"pricing"`

	// Assembly contains setup and per-package placement costs.
	Assembly AssemblyConfig `yaml:"assembly"`

	// Overhead contains NRE, procurement overhead, and risk multipliers.
	Overhead OverheadConfig `yaml:"overhead"`

	// Sourcing contains the sourcing-policy parameters.
	Sourcing SourcingConfig `yaml:"sourcing"`

	// Estimator contains engine execution parameters.
	Estimator EstimatorConfig `yaml:"estimator"`

	// Cache contains the result-cache settings.
	Cache CacheConfig `yaml:"cache"`

	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `yaml:"metrics"`
}

// CategoryPricing is the {low, typical, high} base unit price band for
// one component category, in the configured currency per unit.
type CategoryPricing struct {
	Low     float64 `yaml:"low"`
	Typical float64 `yaml:"typical"`
	High    float64 `yaml:"high"`
}

// PackagePricing is the price multiplier applied on top of the category
// base price for one package bucket. Must be within [0.1, 10.0].
type PackagePricing struct {
	Multiplier float64 `yaml:"multiplier"`
}

// QuantityBreaks defines the volume discount curve. Tiers are board
// quantities in ascending order; Discounts are the matching unit-price
// multipliers and must be non-increasing (volume never raises the unit
// price).
type QuantityBreaks struct {
	Tiers     []int     `yaml:"tiers"`
	Discounts []float64 `yaml:"discounts"`
}

// PricingConfig groups all component pricing tables.
//
// Categories and Packages are keyed by the stable string values of
// bom.Category and estimate.PackageType. DefaultCategory is the
// conservative band used for categories with no configured pricing.
type PricingConfig struct {
	Currency        string                     `yaml:"currency"`
	Categories      map[string]CategoryPricing `yaml:"categories"`
	Packages        map[string]PackagePricing  `yaml:"packages"`
	DefaultCategory CategoryPricing            `yaml:"default_category"`
	QuantityBreaks  QuantityBreaks             `yaml:"quantity_breaks"`
}

// AssemblyConfig models the assembly cost: a one-time setup cost plus a
// per-placement cost for each package bucket.
type AssemblyConfig struct {
	SetupCost      float64            `yaml:"setup_cost"`
	PlacementCosts map[string]float64 `yaml:"placement_costs"`
}

// OverheadConfig models volume-independent overheads.
type OverheadConfig struct {
	// NRECost is the fixed non-recurring engineering cost.
	NRECost float64 `yaml:"nre_cost"`

	// ProcurementOverheadPct is the procurement overhead as a
	// percentage of the typical component cost (0-100).
	ProcurementOverheadPct float64 `yaml:"procurement_overhead_pct"`

	// Supply chain risk multipliers per risk tier. Each must be >= 1.0.
	SupplyChainRiskLow    float64 `yaml:"supply_chain_risk_low"`
	SupplyChainRiskMedium float64 `yaml:"supply_chain_risk_medium"`
	SupplyChainRiskHigh   float64 `yaml:"supply_chain_risk_high"`
}

// SourcingConfig parameterizes the sourcing-intelligence service.
type SourcingConfig struct {
	// Mode is the default sourcing mode: global, eu_preferred, or eu_only.
	Mode string `yaml:"mode"`

	// EUPremiumThreshold is the maximum EU price premium, as a fraction
	// of the global price, before EU_PREFERRED falls back to global
	// pricing. Default 0.30 (30%).
	EUPremiumThreshold float64 `yaml:"eu_premium_threshold"`
}

// EstimatorConfig controls engine execution.
type EstimatorConfig struct {
	// Workers bounds the per-item classification/sourcing worker pool.
	Workers int `yaml:"workers"`
}

// CacheConfig controls the durable result cache.
type CacheConfig struct {
	// Directory is where cache databases live. Empty means the
	// per-user default data directory.
	Directory string `yaml:"directory"`

	// DistributorTTL is the TTL for cached distributor quotes.
	DistributorTTL time.Duration `yaml:"distributor_ttl"`

	// AdvisoryTTL is the TTL for cached advisory responses.
	AdvisoryTTL time.Duration `yaml:"advisory_ttl"`

	// CleanupSchedule is a cron expression for periodic expired-entry
	// cleanup in long-running mode. Empty disables scheduled cleanup.
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

// LoggingConfig controls structured logging output.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is the output format: json, text, or console.
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`

	// ListenAddress is the address for the /metrics endpoint in watch
	// mode, e.g. ":9090".
	ListenAddress string `yaml:"listen_address"`
}
