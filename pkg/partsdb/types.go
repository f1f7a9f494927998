package partsdb

import (
	"fmt"
	"time"
)

// Component is a catalog record for a single manufacturer part number.
type Component struct {
	// MPN is the manufacturer part number (primary key).
	MPN string `json:"mpn"`

	// Manufacturer is the manufacturer name.
	Manufacturer string `json:"manufacturer,omitempty"`

	// Description is a free-text component description.
	Description string `json:"description,omitempty"`

	// Category is the component category string.
	Category string `json:"category,omitempty"`

	// Package is the package or footprint string.
	Package string `json:"package,omitempty"`

	// ManufacturerCountry is an ISO 3166-1 alpha-2 country code.
	ManufacturerCountry string `json:"manufacturer_country,omitempty"`

	// ManufacturerRegion is a coarse region value (EU, US, CN, ...).
	ManufacturerRegion string `json:"manufacturer_region,omitempty"`

	// LastUpdated is when this record was last written.
	LastUpdated time.Time `json:"last_updated"`
}

// Availability is a per-distributor stock and pricing record for an MPN.
type Availability struct {
	// MPN is the manufacturer part number this record belongs to.
	MPN string `json:"mpn"`

	// Distributor is the distributor name (e.g. "mouser", "farnell").
	Distributor string `json:"distributor"`

	// Region is the distributor region (EU, UK, US, APAC, GLOBAL).
	Region string `json:"region"`

	// InStock reports whether the part is currently available.
	InStock bool `json:"in_stock"`

	// StockQuantity is the available stock quantity, if known.
	StockQuantity int64 `json:"stock_quantity,omitempty"`

	// UnitPrice is the unit price in Currency.
	UnitPrice float64 `json:"unit_price,omitempty"`

	// Currency is the price currency code.
	Currency string `json:"currency"`

	// WarehouseLocation is a country or warehouse code (e.g. "DE").
	WarehouseLocation string `json:"warehouse_location,omitempty"`

	// LeadTimeDays is the lead time when out of stock.
	LeadTimeDays int `json:"lead_time_days,omitempty"`

	// LastUpdated is when this record was last written.
	LastUpdated time.Time `json:"last_updated"`
}

// StorageError describes a failed database operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("partsdb %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func newStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
