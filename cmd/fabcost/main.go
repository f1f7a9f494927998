// Fabcost estimates PCB manufacturing cost from a bill of materials.
//
// It classifies each line item, prices it from category and package
// tables with quantity-break curves, adds assembly and overhead costs,
// and applies a sourcing policy (global, EU-preferred, or EU-only)
// that grades provenance risk per part.
//
// Usage:
//
//	# Estimate a BOM for 100 boards under the EU-preferred policy
//	fabcost estimate board.csv --boards 100 --mode eu_preferred
//
//	# Re-estimate automatically when the BOM or config changes
//	fabcost estimate board.csv --watch
//
//	# Validate a configuration file and a BOM without estimating
//	fabcost validate board.csv
//
//	# Inspect or prune the result cache
//	fabcost cache stats
//	fabcost cache cleanup
package main

func main() {
	Execute()
}
