package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"calder-eda/fabcost/pkg/bom"
	"calder-eda/fabcost/pkg/cache"
)

// CachedAdvisor wraps an Advisor with the advisory cache namespace.
// Advisory answers are stable for a given part, so the namespace
// carries a long TTL (30 days by default). Cache IO failures are
// treated as misses.
type CachedAdvisor struct {
	inner  Advisor
	store  cache.Store
	logger *slog.Logger
}

// NewCachedAdvisor builds a caching wrapper around inner.
func NewCachedAdvisor(inner Advisor, store cache.Store) *CachedAdvisor {
	return &CachedAdvisor{
		inner:  inner,
		store:  store,
		logger: slog.Default().With("component", "advisory"),
	}
}

// ClassifyComponent implements Advisor.
func (c *CachedAdvisor) ClassifyComponent(ctx context.Context, item *bom.LineItem) (*Classification, error) {
	extra := fmt.Sprintf("classify|%s|%s", item.Description, item.RefDes)

	var cached Classification
	if c.lookup(ctx, item.Seed(), extra, &cached) {
		return &cached, nil
	}

	result, err := c.inner.ClassifyComponent(ctx, item)
	if err != nil || result == nil {
		return result, err
	}
	c.save(ctx, item.Seed(), extra, result)
	return result, nil
}

// CheckPrice implements Advisor.
func (c *CachedAdvisor) CheckPrice(ctx context.Context, req *PriceCheckRequest) (*PriceAssessment, error) {
	extra := fmt.Sprintf("price|%s|%s|%.4f|%d",
		req.Category, req.PackageType, req.UnitCostTypical, req.Quantity)

	var cached PriceAssessment
	if c.lookup(ctx, req.Item.Seed(), extra, &cached) {
		return &cached, nil
	}

	result, err := c.inner.CheckPrice(ctx, req)
	if err != nil || result == nil {
		return result, err
	}
	c.save(ctx, req.Item.Seed(), extra, result)
	return result, nil
}

// CheckObsolescence implements Advisor.
func (c *CachedAdvisor) CheckObsolescence(ctx context.Context, item *bom.LineItem) (*ObsolescenceAssessment, error) {
	extra := fmt.Sprintf("obsolescence|%s|%s", item.Manufacturer, item.Category)

	var cached ObsolescenceAssessment
	if c.lookup(ctx, item.Seed(), extra, &cached) {
		return &cached, nil
	}

	result, err := c.inner.CheckObsolescence(ctx, item)
	if err != nil || result == nil {
		return result, err
	}
	c.save(ctx, item.Seed(), extra, result)
	return result, nil
}

func (c *CachedAdvisor) lookup(ctx context.Context, key, extra string, out any) bool {
	payload, err := c.store.Get(ctx, cache.NamespaceAdvisory, key, extra)
	if err != nil || payload == nil {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		c.logger.Warn("discarding corrupt advisory cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (c *CachedAdvisor) save(ctx context.Context, key, extra string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, cache.NamespaceAdvisory, key, extra, payload); err != nil {
		c.logger.Warn("failed to cache advisory result", "key", key, "error", err)
	}
}
