// Package bom defines the canonical Bill of Materials line item model.
//
// A BOM is a list of LineItems describing the parts for one board unit.
// Line items arrive pre-normalized: upstream ingestion (spreadsheet
// parsing, column matching) is a separate collaborator and this package
// only validates the invariants the engine relies on (non-empty
// reference designator, quantity >= 1).
//
// The package also provides loaders for already-normalized CSV and JSON
// BOM files with fixed column names. There is no fuzzy header matching
// here by design.
package bom
