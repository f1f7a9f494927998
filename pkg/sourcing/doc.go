// Package sourcing implements provenance-aware distributor sourcing.
//
// Given a component and its unconstrained global unit price, the
// service collects quotes from global and EU distributors and applies
// a sourcing policy (global, eu_preferred, eu_only) to decide which
// price to use and whether the part carries provenance risk. Both the
// EU and global candidate prices are always reported so estimates can
// show the cost of EU sourcing even when it is not selected.
//
// The built-in quote source is a deterministic simulation keyed on the
// component's MPN hash, so results are reproducible without network
// access. A production deployment swaps in cached distributor API
// lookups behind the same Service interface.
package sourcing
