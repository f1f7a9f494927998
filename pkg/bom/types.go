package bom

import (
	"fmt"
	"strings"
)

// Category identifies the broad component class of a line item.
// Category values are stable strings so they can be used directly as
// keys in pricing configuration and cache namespaces.
type Category string

const (
	CategoryResistor    Category = "resistor"
	CategoryCapacitor   Category = "capacitor"
	CategoryInductor    Category = "inductor"
	CategoryIC          Category = "ic"
	CategoryConnector   Category = "connector"
	CategoryDiode       Category = "diode"
	CategoryTransistor  Category = "transistor"
	CategoryLED         Category = "led"
	CategoryCrystal     Category = "crystal"
	CategorySwitch      Category = "switch"
	CategoryRelay       Category = "relay"
	CategoryFuse        Category = "fuse"
	CategoryTransformer Category = "transformer"
	CategoryOther       Category = "other"
	CategoryUnknown     Category = "unknown"
)

// Categories lists every known category in a stable order.
// Useful for configuration validation and reporting.
var Categories = []Category{
	CategoryResistor,
	CategoryCapacitor,
	CategoryInductor,
	CategoryIC,
	CategoryConnector,
	CategoryDiode,
	CategoryTransistor,
	CategoryLED,
	CategoryCrystal,
	CategorySwitch,
	CategoryRelay,
	CategoryFuse,
	CategoryTransformer,
	CategoryOther,
	CategoryUnknown,
}

// ParseCategory normalizes a category string to a known Category.
// Unrecognized or empty values map to CategoryUnknown.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryUnknown
}

// LineItem is a single normalized BOM line.
//
// RefDes and Quantity are required; everything else is optional and an
// empty string means "not provided". Quantity is the count per board
// unit, not the total purchase quantity.
type LineItem struct {
	// RefDes is the reference designator(s), e.g. "R1" or "C1-C5".
	RefDes string `json:"ref_des" yaml:"ref_des"`

	// Quantity is the per-board count. Must be >= 1.
	Quantity int `json:"quantity" yaml:"quantity"`

	// Manufacturer is the component manufacturer name.
	Manufacturer string `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`

	// MPN is the manufacturer part number.
	MPN string `json:"mpn,omitempty" yaml:"mpn,omitempty"`

	// Description is a free-form component description.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Package is the package or footprint string, e.g. "0805", "SOIC-8".
	Package string `json:"package,omitempty" yaml:"package,omitempty"`

	// Value is the component value, e.g. "10k", "100nF".
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	// Category is the caller-asserted category. When set to anything
	// other than CategoryUnknown the classifier treats it as
	// authoritative.
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`

	// DNP marks a do-not-place/do-not-install item. DNP items are
	// excluded from cost, assembly and provenance scoring.
	DNP bool `json:"dnp,omitempty" yaml:"dnp,omitempty"`

	// Notes carries free-form annotations from the source file.
	Notes []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Normalize trims string fields and defaults the category.
// It mutates the receiver and returns it for chaining.
func (li *LineItem) Normalize() *LineItem {
	li.RefDes = strings.TrimSpace(li.RefDes)
	li.Manufacturer = strings.TrimSpace(li.Manufacturer)
	li.MPN = strings.TrimSpace(li.MPN)
	li.Description = strings.TrimSpace(li.Description)
	li.Package = strings.TrimSpace(li.Package)
	li.Value = strings.TrimSpace(li.Value)
	if li.Category == "" {
		li.Category = CategoryUnknown
	}
	return li
}

// Validate checks the line item invariants: non-empty reference
// designator after trimming, and quantity >= 1.
func (li *LineItem) Validate() error {
	if strings.TrimSpace(li.RefDes) == "" {
		return fmt.Errorf("line item: reference designator cannot be empty")
	}
	if li.Quantity < 1 {
		return fmt.Errorf("line item %s: quantity must be >= 1, got %d", li.RefDes, li.Quantity)
	}
	return nil
}

// Seed returns the stable identity string used for deterministic
// per-component decisions: the MPN when present, otherwise the
// reference designator.
func (li *LineItem) Seed() string {
	if li.MPN != "" {
		return li.MPN
	}
	return li.RefDes
}

// ParseResult is a loaded BOM plus any non-fatal warnings produced
// while reading it.
type ParseResult struct {
	Items    []LineItem `json:"items"`
	Warnings []string   `json:"warnings,omitempty"`
	FilePath string     `json:"file_path,omitempty"`
}

// ActiveItems returns the items that are not marked DNP.
func (r *ParseResult) ActiveItems() []LineItem {
	active := make([]LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		if !item.DNP {
			active = append(active, item)
		}
	}
	return active
}
