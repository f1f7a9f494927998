package sourcing

// Mode controls which distributor quotes a sourcing decision may use.
type Mode string

const (
	// ModeGlobal places no restrictions on sourcing.
	ModeGlobal Mode = "global"

	// ModeEUPreferred prefers EU distributors but falls back to global
	// pricing when the EU premium exceeds the configured threshold.
	ModeEUPreferred Mode = "eu_preferred"

	// ModeEUOnly requires an EU/UK source and flags parts without one.
	ModeEUOnly Mode = "eu_only"
)

// ParseMode normalizes a mode string, accepting both underscore and
// hyphen separators. Unknown values fall back to ModeGlobal.
func ParseMode(s string) Mode {
	switch s {
	case "global", "":
		return ModeGlobal
	case "eu_preferred", "eu-preferred":
		return ModeEUPreferred
	case "eu_only", "eu-only":
		return ModeEUOnly
	default:
		return ModeGlobal
	}
}

// Risk grades the provenance exposure of a sourcing decision.
type Risk string

const (
	RiskLow    Risk = "LOW"
	RiskMedium Risk = "MEDIUM"
	RiskHigh   Risk = "HIGH"
)

// Quote is a price offer returned by a single distributor.
type Quote struct {
	// Distributor is the canonical distributor key (e.g. "farnell").
	Distributor string `json:"distributor"`

	// EU reports whether the distributor ships from EU/UK warehouses.
	EU bool `json:"eu"`

	// UnitPrice is the quoted unit price.
	UnitPrice float64 `json:"unit_price"`

	// InStock reports current availability.
	InStock bool `json:"in_stock"`

	// MinQuantity is the minimum order quantity.
	MinQuantity int `json:"min_quantity"`

	// LeadTimeDays is the quoted lead time.
	LeadTimeDays int `json:"lead_time_days"`

	// Currency is the quote currency code.
	Currency string `json:"currency"`
}

// DisplayName returns the human-readable distributor name.
func (q Quote) DisplayName() string {
	if name, ok := distributorDisplayNames[q.Distributor]; ok {
		return name
	}
	return q.Distributor
}

// Score is the provenance judgment for one component under a sourcing
// mode. Both the EU and global candidate prices are populated when
// known, regardless of which one the mode selects.
type Score struct {
	// Mode is the sourcing mode this score was computed under.
	Mode Mode `json:"sourcing_mode"`

	// EUAvailable reports whether any EU distributor quoted the part.
	EUAvailable bool `json:"eu_available"`

	// EUDistributor is the display name of the cheapest EU source.
	EUDistributor string `json:"eu_distributor,omitempty"`

	// GlobalDistributor is the display name of the cheapest global
	// source.
	GlobalDistributor string `json:"global_distributor,omitempty"`

	// EUUnitPrice is the cheapest EU unit price. Zero when no EU quote
	// exists; check EUAvailable before using it.
	EUUnitPrice float64 `json:"eu_unit_price,omitempty"`

	// GlobalUnitPrice is the cheapest global unit price.
	GlobalUnitPrice float64 `json:"global_unit_price"`

	// EUPriceDeltaPct is how much more expensive the EU price is than
	// the global price, in percent. Nil when no EU quote exists.
	EUPriceDeltaPct *float64 `json:"eu_price_delta_pct,omitempty"`

	// Risk is the provenance risk grade.
	Risk Risk `json:"provenance_risk"`

	// Flagged marks parts needing provenance review.
	Flagged bool `json:"flagged"`

	// FlagReason explains why the part was flagged.
	FlagReason string `json:"flag_reason,omitempty"`
}

// EffectiveUnitPrice returns the unit price the sourcing decision
// selected. EU pricing is used only when the mode prefers it, an EU
// quote exists, and the decision was not flagged back to global.
func (s *Score) EffectiveUnitPrice() float64 {
	switch s.Mode {
	case ModeEUPreferred:
		if s.EUAvailable && !s.Flagged {
			return s.EUUnitPrice
		}
	case ModeEUOnly:
		if s.EUAvailable {
			return s.EUUnitPrice
		}
	}
	return s.GlobalUnitPrice
}
