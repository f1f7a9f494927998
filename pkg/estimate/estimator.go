package estimate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"calder-eda/fabcost/pkg/advisory"
	"calder-eda/fabcost/pkg/bom"
	"calder-eda/fabcost/pkg/config"
	"calder-eda/fabcost/pkg/sourcing"
)

// Estimator is the deterministic cost estimation engine. It is safe
// for concurrent use; SetConfig may swap the configuration between
// runs without interrupting an estimate already in flight.
type Estimator struct {
	mu  sync.RWMutex
	cfg *config.Config

	sourcing   sourcing.Service
	advisor    advisory.Advisor
	classifier *ComponentClassifier
	logger     *slog.Logger
}

// NewEstimator builds an estimator. The sourcing service and advisor
// may be nil, in which case provenance scoring and advisory enrichment
// are skipped.
func NewEstimator(cfg *config.Config, svc sourcing.Service, advisor advisory.Advisor) *Estimator {
	return &Estimator{
		cfg:        cfg,
		sourcing:   svc,
		advisor:    advisor,
		classifier: NewComponentClassifier(advisor),
		logger:     slog.Default().With("component", "estimator"),
	}
}

// SetConfig swaps the active configuration. Estimates already running
// keep the configuration they started with.
func (e *Estimator) SetConfig(cfg *config.Config) {
	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()
}

func (e *Estimator) config() *config.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// SetSourcing swaps the sourcing service, so a configuration reload
// can rebuild it with new thresholds. Estimates already running keep
// the service they started with.
func (e *Estimator) SetSourcing(svc sourcing.Service) {
	e.mu.Lock()
	e.sourcing = svc
	e.mu.Unlock()
}

func (e *Estimator) sourcingService() sourcing.Service {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sourcing
}

// itemResult is one worker's output. A nil estimate with a non-nil
// err means the item was skipped; its warnings still surface.
type itemResult struct {
	estimate *ComponentCostEstimate
	warnings []string
	err      error
}

// Estimate prices a parsed BOM for the given board quantity under the
// given sourcing mode. Per-item failures become warnings and the item
// is skipped; only context cancellation aborts the whole run.
func (e *Estimator) Estimate(ctx context.Context, result *bom.ParseResult, boardQuantity int, mode sourcing.Mode) (*CostEstimate, error) {
	if boardQuantity < 1 {
		return nil, fmt.Errorf("estimate: board quantity must be >= 1, got %d", boardQuantity)
	}
	cfg := e.config()
	svc := e.sourcingService()

	active := result.ActiveItems()
	e.logger.Info("estimating BOM cost",
		"items", len(result.Items),
		"active_items", len(active),
		"board_quantity", boardQuantity,
		"sourcing_mode", mode)

	results := make([]itemResult, len(active))

	g, gctx := errgroup.WithContext(ctx)
	workers := cfg.Estimator.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	for i := range active {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item := active[i]
			est, warnings, err := e.estimateComponent(gctx, cfg, svc, &item, boardQuantity, mode)
			results[i] = itemResult{estimate: est, warnings: warnings, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}

	warnings := append([]string{}, result.Warnings...)
	componentCosts := make([]ComponentCostEstimate, 0, len(active))
	var flaggedParts []string

	for i, r := range results {
		if r.err != nil {
			e.logger.Error("component estimate failed", "ref_des", active[i].RefDes, "error", r.err)
			warnings = append(warnings, fmt.Sprintf("Could not estimate cost for %s: %v", active[i].RefDes, r.err))
			continue
		}
		warnings = append(warnings, r.warnings...)
		est := r.estimate
		if est.Provenance != nil && est.Provenance.Flagged {
			flaggedParts = append(flaggedParts, est.RefDes)
			warnings = append(warnings, fmt.Sprintf("%s: %s", est.RefDes, est.Provenance.FlagReason))
		}
		componentCosts = append(componentCosts, *est)
	}

	var totalLow, totalTypical, totalHigh float64
	for _, c := range componentCosts {
		totalLow += c.TotalCostLow
		totalTypical += c.TotalCostTypical
		totalHigh += c.TotalCostHigh
	}

	assembly := calculateAssemblyCost(cfg, componentCosts)
	overhead := calculateOverheadCosts(cfg, totalTypical)

	notes := e.obsolescenceNotes(ctx, active, &warnings)

	return &CostEstimate{
		ID:            uuid.NewString(),
		FilePath:      result.FilePath,
		Timestamp:     time.Now().UTC(),
		Currency:      cfg.Pricing.Currency,
		SourcingMode:  mode,
		BoardQuantity: boardQuantity,

		ComponentCosts: componentCosts,
		AssemblyCost:   assembly,
		OverheadCosts:  overhead,

		TotalComponentCostLow:     totalLow,
		TotalComponentCostTypical: totalTypical,
		TotalComponentCostHigh:    totalHigh,

		TotalCostPerBoardLow:     totalLow + assembly.TotalPerBoard + overhead.TotalOverhead,
		TotalCostPerBoardTypical: totalTypical + assembly.TotalPerBoard + overhead.TotalOverhead,
		TotalCostPerBoardHigh:    totalHigh + assembly.TotalPerBoard + overhead.TotalOverhead,

		FlaggedParts: flaggedParts,
		Warnings:     warnings,
		Notes:        notes,
	}, nil
}

// estimateComponent prices one line item. The returned warnings are
// advisory findings that do not invalidate the estimate itself.
func (e *Estimator) estimateComponent(ctx context.Context, cfg *config.Config, svc sourcing.Service, item *bom.LineItem, boardQuantity int, mode sourcing.Mode) (*ComponentCostEstimate, []string, error) {
	if err := item.Validate(); err != nil {
		return nil, nil, err
	}
	var warnings []string

	category, classification := e.classifier.Classify(ctx, item)
	packageType := ClassifyPackage(item, category)

	pricing := e.categoryPricing(cfg, category)
	multiplier := packageMultiplier(cfg, packageType)

	unitLow := pricing.Low * multiplier
	unitTypical := pricing.Typical * multiplier
	unitHigh := pricing.High * multiplier

	notes := append([]string{}, item.Notes...)
	if classification != nil {
		notes = append(notes, fmt.Sprintf("advisory classification (confidence: %.2f)", classification.Confidence))
	}

	est := &ComponentCostEstimate{
		RefDes:      item.RefDes,
		Quantity:    item.Quantity,
		Category:    category,
		PackageType: packageType,

		UnitCostLow:     unitLow,
		UnitCostTypical: unitTypical,
		UnitCostHigh:    unitHigh,

		TotalCostLow:     unitLow * float64(item.Quantity),
		TotalCostTypical: unitTypical * float64(item.Quantity),
		TotalCostHigh:    unitHigh * float64(item.Quantity),

		PriceBreaks: calculatePriceBreaks(cfg, unitTypical, item.Quantity),

		Manufacturer: item.Manufacturer,
		MPN:          item.MPN,
		Description:  item.Description,
	}

	if e.advisor != nil && item.MPN != "" {
		assessment, err := e.advisor.CheckPrice(ctx, &advisory.PriceCheckRequest{
			Item:            item,
			Category:        category,
			PackageType:     string(packageType),
			UnitCostLow:     unitLow,
			UnitCostTypical: unitTypical,
			UnitCostHigh:    unitHigh,
			Quantity:        item.Quantity,
		})
		if err != nil {
			e.logger.Debug("price check unavailable", "ref_des", item.RefDes, "error", err)
		}
		if assessment != nil && !assessment.IsReasonable {
			warnings = append(warnings, fmt.Sprintf("%s (%s): price may be unreasonable: %s", item.RefDes, item.MPN, assessment.Reasoning))
			notes = append(notes, fmt.Sprintf("price check: %s", truncate(assessment.Reasoning, 100)))
			if assessment.ExpectedHigh > 0 {
				notes = append(notes, fmt.Sprintf("expected range: %.4f - %.4f", assessment.ExpectedLow, assessment.ExpectedHigh))
			}
		}
	}

	if svc != nil {
		score := svc.GetComponentInfo(item, unitTypical, mode, category)
		est.Provenance = score
		est.EUPriceDeltaPct = score.EUPriceDeltaPct
	}

	est.Notes = notes
	return est, warnings, nil
}

// categoryPricing resolves the base price band for a category, falling
// back to the conservative default band when nothing is configured.
func (e *Estimator) categoryPricing(cfg *config.Config, category bom.Category) config.CategoryPricing {
	if pricing, ok := cfg.Pricing.Categories[string(category)]; ok {
		return pricing
	}
	e.logger.Warn("no pricing for category, using defaults", "category", category)
	if cfg.Pricing.DefaultCategory != (config.CategoryPricing{}) {
		return cfg.Pricing.DefaultCategory
	}
	return config.CategoryPricing{Low: 0.01, Typical: 0.10, High: 1.00}
}

func packageMultiplier(cfg *config.Config, packageType PackageType) float64 {
	if pricing, ok := cfg.Pricing.Packages[string(packageType)]; ok {
		return pricing.Multiplier
	}
	return 1.0
}

// calculatePriceBreaks expands the volume discount curve for one
// component. Tier quantities are board counts: the total at each tier
// covers the per-board quantity times that many boards.
func calculatePriceBreaks(cfg *config.Config, unitPrice float64, quantityPerBoard int) []PriceBreak {
	tiers := cfg.Pricing.QuantityBreaks.Tiers
	discounts := cfg.Pricing.QuantityBreaks.Discounts

	n := len(tiers)
	if len(discounts) < n {
		n = len(discounts)
	}

	breaks := make([]PriceBreak, 0, n)
	for i := 0; i < n; i++ {
		tierUnitPrice := unitPrice * discounts[i]
		totalQuantity := quantityPerBoard * tiers[i]
		breaks = append(breaks, PriceBreak{
			Quantity:   tiers[i],
			UnitPrice:  tierUnitPrice,
			TotalPrice: tierUnitPrice * float64(totalQuantity),
		})
	}
	return breaks
}

// calculateAssemblyCost prices placement from the quantity-weighted
// package mix plus the one-time setup cost.
func calculateAssemblyCost(cfg *config.Config, componentCosts []ComponentCostEstimate) AssemblyCost {
	counts := make(map[PackageType]int, len(PackageTypes))
	for _, bucket := range PackageTypes {
		counts[bucket] = 0
	}

	totalComponents := 0
	for _, c := range componentCosts {
		totalComponents += c.Quantity
		counts[c.PackageType] += c.Quantity
	}

	var placementCost float64
	for bucket, count := range counts {
		placementCost += float64(count) * cfg.Assembly.PlacementCosts[string(bucket)]
	}

	return AssemblyCost{
		TotalComponents:  totalComponents,
		UniqueComponents: len(componentCosts),
		PackageCounts:    counts,

		SetupCost:             cfg.Assembly.SetupCost,
		PlacementCostPerBoard: placementCost,
		TotalPerBoard:         cfg.Assembly.SetupCost + placementCost,
	}
}

// calculateOverheadCosts computes the volume-independent overhead.
// The supply chain risk factor is pinned to the low tier; aggregated
// provenance risk does not feed back into it yet.
func calculateOverheadCosts(cfg *config.Config, totalComponentCostTypical float64) OverheadCosts {
	procurement := totalComponentCostTypical * (cfg.Overhead.ProcurementOverheadPct / 100.0)
	return OverheadCosts{
		NRECost:               cfg.Overhead.NRECost,
		ProcurementOverhead:   procurement,
		SupplyChainRiskFactor: cfg.Overhead.SupplyChainRiskLow,
		MarkupPercentage:      cfg.Overhead.ProcurementOverheadPct,
		TotalOverhead:         cfg.Overhead.NRECost + procurement,
	}
}

// obsolescenceNotes runs the batch obsolescence check over items that
// carry an MPN. High-risk parts raise a warning; medium-risk parts get
// a monitoring note.
func (e *Estimator) obsolescenceNotes(ctx context.Context, active []bom.LineItem, warnings *[]string) []string {
	if e.advisor == nil {
		return nil
	}

	var withMPN []*bom.LineItem
	for i := range active {
		if active[i].MPN != "" {
			withMPN = append(withMPN, &active[i])
		}
	}
	if len(withMPN) == 0 {
		return nil
	}

	e.logger.Info("checking obsolescence", "components", len(withMPN))
	assessments := advisory.CheckObsolescenceBatch(ctx, e.advisor, withMPN)

	var notes []string
	for _, a := range assessments {
		switch {
		case a.HighRisk():
			*warnings = append(*warnings, fmt.Sprintf("Obsolescence risk for %s: %s (lifecycle: %s)",
				a.MPN, strings.ToUpper(a.RiskLevel), a.LifecycleStatus))
			if len(a.Alternatives) > 0 {
				alternatives := a.Alternatives
				if len(alternatives) > 3 {
					alternatives = alternatives[:3]
				}
				notes = append(notes, fmt.Sprintf("%s: consider alternatives - %s", a.MPN, strings.Join(alternatives, ", ")))
			}
		case a.RiskLevel == "medium":
			notes = append(notes, fmt.Sprintf("%s: medium obsolescence risk - monitor availability", a.MPN))
		}
	}
	return notes
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
