// Package advisory defines the optional enrichment collaborator.
//
// An Advisor answers judgment questions the deterministic cost model
// cannot: classifying ambiguous parts, sanity-checking price
// estimates, and assessing obsolescence risk. Every answer carries an
// explicit confidence and reasoning so callers can decide how much
// weight to give it. The collaborator is strictly optional: absence or
// failure degrades to "no advice" and never blocks an estimate.
//
// CachedAdvisor wraps any Advisor with the long-lived advisory cache
// namespace so repeated runs over the same BOM do not re-ask settled
// questions.
package advisory
