package distributor

import (
	"context"
	"time"
)

// PriceBreak is one quantity pricing tier from a distributor.
type PriceBreak struct {
	// Quantity is the minimum order quantity for this tier.
	Quantity int `json:"quantity"`

	// UnitPrice is the per-unit price at this tier.
	UnitPrice float64 `json:"unit_price"`
}

// Result is the outcome of a distributor lookup for a single MPN.
type Result struct {
	// MPN is the manufacturer part number as queried.
	MPN string `json:"mpn"`

	// SKU is the distributor-specific order code.
	SKU string `json:"sku,omitempty"`

	// Manufacturer is the manufacturer name, if reported.
	Manufacturer string `json:"manufacturer,omitempty"`

	// Description is the distributor's component description.
	Description string `json:"description,omitempty"`

	// Package is the package type, if reported.
	Package string `json:"package,omitempty"`

	// Distributor is the distributor name (e.g. "Farnell").
	Distributor string `json:"distributor"`

	// Region is the region code for this result (e.g. "UK", "EU").
	Region string `json:"region"`

	// StockLevel is the current stock quantity.
	StockLevel int `json:"stock_level"`

	// LeadTimeDays is the lead time when out of stock.
	LeadTimeDays int `json:"lead_time_days,omitempty"`

	// Currency is the currency for all prices.
	Currency string `json:"currency"`

	// PriceBreaks are the quantity pricing tiers, ascending by
	// quantity.
	PriceBreaks []PriceBreak `json:"price_breaks,omitempty"`

	// LifecycleStatus is e.g. "Active", "NRND", "Obsolete".
	LifecycleStatus string `json:"lifecycle_status,omitempty"`

	// RetrievedAt is when the lookup was performed.
	RetrievedAt time.Time `json:"retrieved_at"`
}

// UnitPrice returns the unit price at the smallest quantity tier, or
// 0 when no price breaks are known.
func (r *Result) UnitPrice() float64 {
	if len(r.PriceBreaks) == 0 {
		return 0
	}
	return r.PriceBreaks[0].UnitPrice
}

// InStock reports whether the distributor has stock.
func (r *Result) InStock() bool {
	return r.StockLevel > 0
}

// Client looks up component data at a single distributor.
//
// Implementations return nil, nil when the part is not found. A
// non-nil error indicates a transient failure that a wrapper may
// retry; callers above CachedClient never see it.
type Client interface {
	// Name is the distributor name (e.g. "Farnell").
	Name() string

	// Lookup fetches data for one MPN.
	Lookup(ctx context.Context, mpn string) (*Result, error)
}
