package estimate

import (
	"time"

	"calder-eda/fabcost/pkg/bom"
	"calder-eda/fabcost/pkg/sourcing"
)

// PackageType is the assembly package bucket a component lands in.
// Buckets drive both the package price multiplier and the placement
// cost.
type PackageType string

const (
	PackageSMDSmall    PackageType = "smd_small"
	PackageSMDMedium   PackageType = "smd_medium"
	PackageSMDLarge    PackageType = "smd_large"
	PackageSOIC        PackageType = "soic"
	PackageQFP         PackageType = "qfp"
	PackageQFN         PackageType = "qfn"
	PackageBGA         PackageType = "bga"
	PackageThroughHole PackageType = "through_hole"
	PackageConnector   PackageType = "connector"
	PackageOther       PackageType = "other"
	PackageUnknown     PackageType = "unknown"
)

// PackageTypes lists all buckets in a stable order.
var PackageTypes = []PackageType{
	PackageSMDSmall,
	PackageSMDMedium,
	PackageSMDLarge,
	PackageSOIC,
	PackageQFP,
	PackageQFN,
	PackageBGA,
	PackageThroughHole,
	PackageConnector,
	PackageOther,
	PackageUnknown,
}

// PriceBreak is one row of the quantity-break table for a component.
// Quantity is a number of boards, not an absolute unit count: the
// total price covers item quantity times that many boards.
type PriceBreak struct {
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// ComponentCostEstimate is the per-line-item cost breakdown.
type ComponentCostEstimate struct {
	RefDes      string       `json:"reference_designator"`
	Quantity    int          `json:"quantity"`
	Category    bom.Category `json:"category"`
	PackageType PackageType  `json:"package_type"`

	UnitCostLow     float64 `json:"unit_cost_low"`
	UnitCostTypical float64 `json:"unit_cost_typical"`
	UnitCostHigh    float64 `json:"unit_cost_high"`

	TotalCostLow     float64 `json:"total_cost_low"`
	TotalCostTypical float64 `json:"total_cost_typical"`
	TotalCostHigh    float64 `json:"total_cost_high"`

	PriceBreaks []PriceBreak `json:"price_breaks"`

	Manufacturer string   `json:"manufacturer,omitempty"`
	MPN          string   `json:"mpn,omitempty"`
	Description  string   `json:"description,omitempty"`
	Notes        []string `json:"notes,omitempty"`

	// Provenance is the sourcing judgment for this part.
	Provenance *sourcing.Score `json:"provenance,omitempty"`

	// EUPriceDeltaPct mirrors Provenance.EUPriceDeltaPct for report
	// convenience.
	EUPriceDeltaPct *float64 `json:"eu_price_delta_pct,omitempty"`
}

// AssemblyCost is the per-board assembly breakdown derived from the
// package mix.
type AssemblyCost struct {
	TotalComponents  int `json:"total_components"`
	UniqueComponents int `json:"unique_components"`

	// PackageCounts is the quantity-weighted placement count per
	// bucket.
	PackageCounts map[PackageType]int `json:"package_counts"`

	SetupCost             float64 `json:"setup_cost"`
	PlacementCostPerBoard float64 `json:"placement_cost_per_board"`
	TotalPerBoard         float64 `json:"total_assembly_cost_per_board"`
}

// OverheadCosts are the volume-independent costs added to each board.
type OverheadCosts struct {
	NRECost               float64 `json:"nre_cost"`
	ProcurementOverhead   float64 `json:"procurement_overhead"`
	SupplyChainRiskFactor float64 `json:"supply_chain_risk_factor"`
	MarkupPercentage      float64 `json:"markup_percentage"`
	TotalOverhead         float64 `json:"total_overhead"`
}

// CostEstimate is the complete estimate for one BOM at one board
// quantity.
type CostEstimate struct {
	// ID uniquely identifies this estimate run.
	ID string `json:"id"`

	FilePath      string        `json:"file_path,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
	Currency      string        `json:"currency"`
	SourcingMode  sourcing.Mode `json:"sourcing_mode"`
	BoardQuantity int           `json:"board_quantity"`

	ComponentCosts []ComponentCostEstimate `json:"component_costs"`
	AssemblyCost   AssemblyCost            `json:"assembly_cost"`
	OverheadCosts  OverheadCosts           `json:"overhead_costs"`

	TotalComponentCostLow     float64 `json:"total_component_cost_low"`
	TotalComponentCostTypical float64 `json:"total_component_cost_typical"`
	TotalComponentCostHigh    float64 `json:"total_component_cost_high"`

	TotalCostPerBoardLow     float64 `json:"total_cost_per_board_low"`
	TotalCostPerBoardTypical float64 `json:"total_cost_per_board_typical"`
	TotalCostPerBoardHigh    float64 `json:"total_cost_per_board_high"`

	// FlaggedParts lists reference designators needing provenance
	// review.
	FlaggedParts []string `json:"provenance_flagged_parts,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
	Notes    []string `json:"notes,omitempty"`
}
