package config

import "time"

// Default pricing bands per category, in USD per unit. Passives are
// priced at catalog commodity rates; ICs carry the widest band because
// the category spans jellybean logic through large MCUs.
var defaultCategoryPricing = map[string]CategoryPricing{
	"resistor":    {Low: 0.001, Typical: 0.005, High: 0.02},
	"capacitor":   {Low: 0.002, Typical: 0.01, High: 0.05},
	"inductor":    {Low: 0.01, Typical: 0.05, High: 0.25},
	"ic":          {Low: 0.50, Typical: 2.00, High: 10.00},
	"connector":   {Low: 0.10, Typical: 0.50, High: 2.50},
	"diode":       {Low: 0.01, Typical: 0.05, High: 0.20},
	"transistor":  {Low: 0.02, Typical: 0.08, High: 0.40},
	"led":         {Low: 0.02, Typical: 0.10, High: 0.50},
	"crystal":     {Low: 0.10, Typical: 0.40, High: 1.50},
	"switch":      {Low: 0.10, Typical: 0.50, High: 2.00},
	"relay":       {Low: 0.50, Typical: 1.50, High: 5.00},
	"fuse":        {Low: 0.05, Typical: 0.20, High: 0.80},
	"transformer": {Low: 1.00, Typical: 3.00, High: 10.00},
	"other":       {Low: 0.01, Typical: 0.10, High: 1.00},
	"unknown":     {Low: 0.01, Typical: 0.10, High: 1.00},
}

// Default package multipliers. Fine-pitch and array packages command a
// premium over commodity chip packages.
var defaultPackagePricing = map[string]PackagePricing{
	"smd_small":    {Multiplier: 1.0},
	"smd_medium":   {Multiplier: 1.0},
	"smd_large":    {Multiplier: 1.2},
	"soic":         {Multiplier: 1.2},
	"qfp":          {Multiplier: 1.5},
	"qfn":          {Multiplier: 1.5},
	"bga":          {Multiplier: 2.0},
	"through_hole": {Multiplier: 1.1},
	"connector":    {Multiplier: 1.3},
	"other":        {Multiplier: 1.0},
}

// Default per-placement assembly costs in USD. BGA and through-hole
// placements dominate because of inspection and hand-soldering time.
var defaultPlacementCosts = map[string]float64{
	"smd_small":    0.020,
	"smd_medium":   0.025,
	"smd_large":    0.030,
	"soic":         0.050,
	"qfp":          0.100,
	"qfn":          0.120,
	"bga":          0.250,
	"through_hole": 0.150,
	"connector":    0.200,
	"other":        0.100,
	"unknown":      0.100,
}

// ApplyDefaults fills in zero-valued configuration fields with
// defaults. Maps are merged key-by-key so a config file can override a
// single category without restating the whole table.
func ApplyDefaults(cfg *Config) {
	// Pricing
	if cfg.Pricing.Currency == "" {
		cfg.Pricing.Currency = "USD"
	}
	if cfg.Pricing.Categories == nil {
		cfg.Pricing.Categories = make(map[string]CategoryPricing)
	}
	for category, pricing := range defaultCategoryPricing {
		if _, ok := cfg.Pricing.Categories[category]; !ok {
			cfg.Pricing.Categories[category] = pricing
		}
	}
	if cfg.Pricing.Packages == nil {
		cfg.Pricing.Packages = make(map[string]PackagePricing)
	}
	for pkg, pricing := range defaultPackagePricing {
		if _, ok := cfg.Pricing.Packages[pkg]; !ok {
			cfg.Pricing.Packages[pkg] = pricing
		}
	}
	if cfg.Pricing.DefaultCategory == (CategoryPricing{}) {
		cfg.Pricing.DefaultCategory = CategoryPricing{Low: 0.01, Typical: 0.10, High: 1.00}
	}
	if len(cfg.Pricing.QuantityBreaks.Tiers) == 0 && len(cfg.Pricing.QuantityBreaks.Discounts) == 0 {
		cfg.Pricing.QuantityBreaks = QuantityBreaks{
			Tiers:     []int{1, 10, 100, 1000, 10000},
			Discounts: []float64{1.00, 0.95, 0.85, 0.75, 0.65},
		}
	}

	// Assembly
	if cfg.Assembly.SetupCost == 0 {
		cfg.Assembly.SetupCost = 150.00
	}
	if cfg.Assembly.PlacementCosts == nil {
		cfg.Assembly.PlacementCosts = make(map[string]float64)
	}
	for pkg, cost := range defaultPlacementCosts {
		if _, ok := cfg.Assembly.PlacementCosts[pkg]; !ok {
			cfg.Assembly.PlacementCosts[pkg] = cost
		}
	}

	// Overhead
	if cfg.Overhead.NRECost == 0 {
		cfg.Overhead.NRECost = 250.00
	}
	if cfg.Overhead.ProcurementOverheadPct == 0 {
		cfg.Overhead.ProcurementOverheadPct = 8.0
	}
	if cfg.Overhead.SupplyChainRiskLow == 0 {
		cfg.Overhead.SupplyChainRiskLow = 1.0
	}
	if cfg.Overhead.SupplyChainRiskMedium == 0 {
		cfg.Overhead.SupplyChainRiskMedium = 1.15
	}
	if cfg.Overhead.SupplyChainRiskHigh == 0 {
		cfg.Overhead.SupplyChainRiskHigh = 1.35
	}

	// Sourcing
	if cfg.Sourcing.Mode == "" {
		cfg.Sourcing.Mode = "global"
	}
	if cfg.Sourcing.EUPremiumThreshold == 0 {
		cfg.Sourcing.EUPremiumThreshold = 0.30
	}

	// Estimator
	if cfg.Estimator.Workers == 0 {
		cfg.Estimator.Workers = 4
	}

	// Cache
	if cfg.Cache.DistributorTTL == 0 {
		cfg.Cache.DistributorTTL = 24 * time.Hour
	}
	if cfg.Cache.AdvisoryTTL == 0 {
		cfg.Cache.AdvisoryTTL = 30 * 24 * time.Hour
	}
	if cfg.Cache.CleanupSchedule == "" {
		cfg.Cache.CleanupSchedule = "0 3 * * *"
	}

	// Logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	// Metrics
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "fabcost"
	}
	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = ":9090"
	}
}

// DefaultConfig returns a fully-populated configuration with defaults
// applied. The result passes Validate.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
