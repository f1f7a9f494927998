package advisory

import (
	"context"

	"calder-eda/fabcost/pkg/bom"
)

// Classification is an advisor's category judgment for one part.
type Classification struct {
	// Category is the suggested component category.
	Category bom.Category `json:"category"`

	// Confidence is in [0, 1]. Callers typically require > 0.5 before
	// trusting the suggestion over heuristics.
	Confidence float64 `json:"confidence"`

	// PackageType is the suggested package, if the advisor knows it.
	PackageType string `json:"package_type,omitempty"`

	// TypicalPriceUSD is an optional {low, typical, high} price map.
	TypicalPriceUSD map[string]float64 `json:"typical_price_usd,omitempty"`

	// Reasoning explains the judgment.
	Reasoning string `json:"reasoning,omitempty"`
}

// PriceAssessment is an advisor's opinion on whether an estimate's
// price range is plausible for the part.
type PriceAssessment struct {
	// IsReasonable is the verdict.
	IsReasonable bool `json:"is_reasonable"`

	// Confidence is in [0, 1].
	Confidence float64 `json:"confidence"`

	// ExpectedLow and ExpectedHigh bound the advisor's own price
	// expectation, when given.
	ExpectedLow  float64 `json:"expected_low,omitempty"`
	ExpectedHigh float64 `json:"expected_high,omitempty"`

	// Reasoning explains the verdict.
	Reasoning string `json:"reasoning,omitempty"`
}

// ObsolescenceAssessment grades a part's end-of-life exposure.
type ObsolescenceAssessment struct {
	// MPN is the part this assessment belongs to.
	MPN string `json:"mpn"`

	// RiskLevel is one of none, low, medium, high, obsolete.
	RiskLevel string `json:"risk_level"`

	// LifecycleStatus is one of active, nrnd, eol, obsolete, unknown.
	LifecycleStatus string `json:"lifecycle_status"`

	// Confidence is in [0, 1].
	Confidence float64 `json:"confidence"`

	// Alternatives lists suggested replacement MPNs.
	Alternatives []string `json:"alternatives,omitempty"`

	// Reasoning explains the grade.
	Reasoning string `json:"reasoning,omitempty"`
}

// HighRisk reports whether the part needs an obsolescence warning.
func (a *ObsolescenceAssessment) HighRisk() bool {
	return a.RiskLevel == "high" || a.RiskLevel == "obsolete"
}

// PriceCheckRequest carries the estimate values for a price
// reasonableness check.
type PriceCheckRequest struct {
	Item            *bom.LineItem
	Category        bom.Category
	PackageType     string
	UnitCostLow     float64
	UnitCostTypical float64
	UnitCostHigh    float64
	Quantity        int
}

// Advisor is the enrichment collaborator interface.
//
// All methods return nil, nil when the advisor has no answer; errors
// indicate transient failures a wrapper may retry. Callers must treat
// both the same way: proceed without advice.
type Advisor interface {
	// ClassifyComponent suggests a category for an ambiguous part.
	ClassifyComponent(ctx context.Context, item *bom.LineItem) (*Classification, error)

	// CheckPrice judges whether an estimated price range is plausible.
	CheckPrice(ctx context.Context, req *PriceCheckRequest) (*PriceAssessment, error)

	// CheckObsolescence grades end-of-life exposure for a part.
	CheckObsolescence(ctx context.Context, item *bom.LineItem) (*ObsolescenceAssessment, error)
}

// CheckObsolescenceBatch runs CheckObsolescence over items, skipping
// parts without advice. Per-item failures are dropped, not propagated.
func CheckObsolescenceBatch(ctx context.Context, advisor Advisor, items []*bom.LineItem) []*ObsolescenceAssessment {
	var results []*ObsolescenceAssessment
	for _, item := range items {
		assessment, err := advisor.CheckObsolescence(ctx, item)
		if err != nil || assessment == nil {
			continue
		}
		results = append(results, assessment)
	}
	return results
}
