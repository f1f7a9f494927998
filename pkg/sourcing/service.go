package sourcing

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log/slog"

	"calder-eda/fabcost/pkg/bom"
)

// Service resolves distributor quotes for a component and applies
// sourcing-mode rules to produce a provenance Score.
type Service interface {
	// GetComponentInfo evaluates item under mode given its
	// unconstrained global unit price. The category overrides the
	// item's own when non-empty.
	GetComponentInfo(item *bom.LineItem, baseUnitPrice float64, mode Mode, category bom.Category) *Score
}

// SimulatedService is the built-in deterministic quote source. Global
// distributors always quote the base price; EU distributors apply a
// category premium; EU availability is decided by a stable hash of the
// component seed, so the same part always sources the same way.
type SimulatedService struct {
	// EUPremiumThreshold is the maximum EU premium, as a fraction of
	// the global price, before eu_preferred falls back to global
	// pricing.
	EUPremiumThreshold float64

	logger *slog.Logger
}

// NewSimulatedService returns a simulated quote source with the given
// premium threshold. A threshold of 0 or less uses the 0.30 default.
func NewSimulatedService(euPremiumThreshold float64) *SimulatedService {
	if euPremiumThreshold <= 0 {
		euPremiumThreshold = 0.30
	}
	return &SimulatedService{
		EUPremiumThreshold: euPremiumThreshold,
		logger:             slog.Default().With("component", "sourcing"),
	}
}

// GetComponentInfo implements Service.
func (s *SimulatedService) GetComponentInfo(item *bom.LineItem, baseUnitPrice float64, mode Mode, category bom.Category) *Score {
	if category == "" {
		category = bom.ParseCategory(string(item.Category))
	}

	quotes := s.simulateQuotes(item, baseUnitPrice, category)
	return s.decide(quotes, mode, baseUnitPrice)
}

// StableHash returns a float in [0, 1) derived from value. The same
// value always hashes to the same float, which makes per-component
// sourcing decisions reproducible across runs.
func StableHash(value string) float64 {
	digest := sha256.Sum256([]byte(value))
	return float64(binary.BigEndian.Uint32(digest[:4])) / float64(0xFFFFFFFF)
}

func (s *SimulatedService) euAvailable(item *bom.LineItem, category bom.Category) bool {
	probability, ok := euAvailability[category]
	if !ok {
		probability = defaultEUAvailability
	}
	return StableHash(item.Seed()) < probability
}

func (s *SimulatedService) simulateQuotes(item *bom.LineItem, baseUnitPrice float64, category bom.Category) []Quote {
	quotes := []Quote{
		{Distributor: "digikey", EU: false, UnitPrice: baseUnitPrice, InStock: true, MinQuantity: 1, LeadTimeDays: 3, Currency: "USD"},
		{Distributor: "mouser", EU: false, UnitPrice: baseUnitPrice * 1.01, InStock: true, MinQuantity: 1, LeadTimeDays: 3, Currency: "USD"},
	}

	if s.euAvailable(item, category) {
		premium, ok := euPremium[category]
		if !ok {
			premium = defaultEUPremium
		}
		euPrice := baseUnitPrice * (1.0 + premium)
		quotes = append(quotes,
			Quote{Distributor: "farnell", EU: true, UnitPrice: euPrice, InStock: true, MinQuantity: 1, LeadTimeDays: 3, Currency: "USD"},
			Quote{Distributor: "rs_components", EU: true, UnitPrice: euPrice * 1.01, InStock: true, MinQuantity: 1, LeadTimeDays: 3, Currency: "USD"},
		)
	}

	return quotes
}

func (s *SimulatedService) decide(quotes []Quote, mode Mode, baseUnitPrice float64) *Score {
	var bestEU, bestGlobal *Quote
	for i := range quotes {
		q := &quotes[i]
		if q.EU {
			if bestEU == nil || q.UnitPrice < bestEU.UnitPrice {
				bestEU = q
			}
		} else {
			if bestGlobal == nil || q.UnitPrice < bestGlobal.UnitPrice {
				bestGlobal = q
			}
		}
	}

	score := &Score{
		Mode:        mode,
		EUAvailable: bestEU != nil,
		Risk:        RiskLow,
	}

	if bestGlobal != nil {
		score.GlobalDistributor = bestGlobal.DisplayName()
		score.GlobalUnitPrice = bestGlobal.UnitPrice
	} else {
		score.GlobalUnitPrice = baseUnitPrice
	}

	if bestEU != nil {
		score.EUDistributor = bestEU.DisplayName()
		score.EUUnitPrice = bestEU.UnitPrice
		if score.GlobalUnitPrice > 0 {
			delta := (score.EUUnitPrice - score.GlobalUnitPrice) / score.GlobalUnitPrice * 100.0
			score.EUPriceDeltaPct = &delta
		}
	}

	switch mode {
	case ModeGlobal:
		// No restrictions, cheapest global source wins.

	case ModeEUPreferred:
		if !score.EUAvailable {
			score.Risk = RiskMedium
			score.Flagged = true
			score.FlagReason = "EU sourcing unavailable for this component"
		} else if score.EUPriceDeltaPct != nil && *score.EUPriceDeltaPct > s.EUPremiumThreshold*100 {
			score.Risk = RiskMedium
			score.Flagged = true
			score.FlagReason = fmt.Sprintf(
				"EU price premium (%.1f%%) exceeds threshold (%.0f%%); using global price",
				*score.EUPriceDeltaPct, s.EUPremiumThreshold*100)
		}

	case ModeEUOnly:
		if !score.EUAvailable {
			score.Risk = RiskHigh
			score.Flagged = true
			score.FlagReason = "No EU/UK source available – provenance gap"
		}
	}

	return score
}
