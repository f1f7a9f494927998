package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "pricing.quantity_breaks").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides access
// to all field errors.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a
// ValidationError if any rules fail. All errors are collected and
// returned together. Validation failure is the only fatal error class
// in the engine; everything downstream degrades to warnings.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validatePricing(&cfg.Pricing)...)
	errs = append(errs, validateAssembly(&cfg.Assembly)...)
	errs = append(errs, validateOverhead(&cfg.Overhead)...)
	errs = append(errs, validateSourcing(&cfg.Sourcing)...)
	errs = append(errs, validateEstimator(&cfg.Estimator)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validatePricing(p *PricingConfig) []FieldError {
	var errs []FieldError

	for category, pricing := range p.Categories {
		field := fmt.Sprintf("pricing.categories.%s", category)
		if pricing.Low < 0 || pricing.Typical < 0 || pricing.High < 0 {
			errs = append(errs, FieldError{field, "prices must be non-negative"})
		}
		if pricing.Low > pricing.Typical || pricing.Typical > pricing.High {
			errs = append(errs, FieldError{field, "prices must satisfy low <= typical <= high"})
		}
	}

	if p.DefaultCategory.Low > p.DefaultCategory.Typical || p.DefaultCategory.Typical > p.DefaultCategory.High {
		errs = append(errs, FieldError{"pricing.default_category", "prices must satisfy low <= typical <= high"})
	}

	for pkg, pricing := range p.Packages {
		if pricing.Multiplier < 0.1 || pricing.Multiplier > 10.0 {
			errs = append(errs, FieldError{
				fmt.Sprintf("pricing.packages.%s", pkg),
				fmt.Sprintf("multiplier %.3f out of range [0.1, 10.0]", pricing.Multiplier),
			})
		}
	}

	errs = append(errs, validateQuantityBreaks(&p.QuantityBreaks)...)
	return errs
}

func validateQuantityBreaks(qb *QuantityBreaks) []FieldError {
	var errs []FieldError
	const field = "pricing.quantity_breaks"

	if len(qb.Tiers) == 0 {
		errs = append(errs, FieldError{field, "at least one tier is required"})
		return errs
	}
	if len(qb.Tiers) != len(qb.Discounts) {
		errs = append(errs, FieldError{field, fmt.Sprintf(
			"tiers (%d) and discounts (%d) must have the same length",
			len(qb.Tiers), len(qb.Discounts))})
		return errs
	}

	for i, tier := range qb.Tiers {
		if tier < 1 {
			errs = append(errs, FieldError{field, fmt.Sprintf("tier quantity %d must be >= 1", tier)})
		}
		if i > 0 && tier <= qb.Tiers[i-1] {
			errs = append(errs, FieldError{field, fmt.Sprintf(
				"tier quantities must be strictly ascending (%d after %d)", tier, qb.Tiers[i-1])})
		}
	}

	for i, discount := range qb.Discounts {
		if discount <= 0 || discount > 1.0 {
			errs = append(errs, FieldError{field, fmt.Sprintf(
				"discount %.3f at tier %d out of range (0, 1.0]", discount, qb.Tiers[i])})
		}
		// Volume must never raise the unit price.
		if i > 0 && discount > qb.Discounts[i-1] {
			errs = append(errs, FieldError{field, fmt.Sprintf(
				"discounts must be non-increasing (%.3f after %.3f at tier %d)",
				discount, qb.Discounts[i-1], qb.Tiers[i])})
		}
	}

	return errs
}

func validateAssembly(a *AssemblyConfig) []FieldError {
	var errs []FieldError
	if a.SetupCost < 0 {
		errs = append(errs, FieldError{"assembly.setup_cost", "must be non-negative"})
	}
	for pkg, cost := range a.PlacementCosts {
		if cost < 0 {
			errs = append(errs, FieldError{
				fmt.Sprintf("assembly.placement_costs.%s", pkg), "must be non-negative"})
		}
	}
	return errs
}

func validateOverhead(o *OverheadConfig) []FieldError {
	var errs []FieldError
	if o.NRECost < 0 {
		errs = append(errs, FieldError{"overhead.nre_cost", "must be non-negative"})
	}
	if o.ProcurementOverheadPct < 0 || o.ProcurementOverheadPct > 100 {
		errs = append(errs, FieldError{"overhead.procurement_overhead_pct", "must be within [0, 100]"})
	}
	risk := map[string]float64{
		"overhead.supply_chain_risk_low":    o.SupplyChainRiskLow,
		"overhead.supply_chain_risk_medium": o.SupplyChainRiskMedium,
		"overhead.supply_chain_risk_high":   o.SupplyChainRiskHigh,
	}
	for field, multiplier := range risk {
		if multiplier < 1.0 {
			errs = append(errs, FieldError{field, fmt.Sprintf("risk multiplier %.3f must be >= 1.0", multiplier)})
		}
	}
	return errs
}

func validateSourcing(s *SourcingConfig) []FieldError {
	var errs []FieldError
	switch s.Mode {
	case "global", "eu_preferred", "eu_only":
	default:
		errs = append(errs, FieldError{"sourcing.mode", fmt.Sprintf(
			"unknown mode %q (want global, eu_preferred, or eu_only)", s.Mode)})
	}
	if s.EUPremiumThreshold < 0 {
		errs = append(errs, FieldError{"sourcing.eu_premium_threshold", "must be non-negative"})
	}
	return errs
}

func validateEstimator(e *EstimatorConfig) []FieldError {
	var errs []FieldError
	if e.Workers < 1 {
		errs = append(errs, FieldError{"estimator.workers", "must be >= 1"})
	}
	return errs
}

func validateLogging(l *LoggingConfig) []FieldError {
	var errs []FieldError
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{"logging.level", fmt.Sprintf("unknown level %q", l.Level)})
	}
	switch strings.ToLower(l.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{"logging.format", fmt.Sprintf("unknown format %q", l.Format)})
	}
	return errs
}
