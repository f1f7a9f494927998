// Package estimate implements the deterministic cost estimation
// engine.
//
// Given a normalized BOM, a board quantity, and a sourcing mode, the
// estimator classifies each active line item, prices it from the
// configured category and package tables, computes quantity-break
// pricing, scores sourcing provenance, and rolls everything up into a
// CostEstimate: component costs at low/typical/high, assembly cost
// from the package mix, and volume-independent overheads.
//
// Per-item work runs on a bounded worker pool; the reduction into BOM
// totals is single-threaded. A failure on one item becomes a warning,
// never an aborted estimate.
package estimate
