package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"calder-eda/fabcost/pkg/distributor"
	"calder-eda/fabcost/pkg/ratelimit"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <mpn>",
	Short: "Look up distributor quotes for a part",
	Long: `Look up distributor quotes for a single manufacturer part number.

Quotes come from the built-in deterministic distributor simulation and
are cached in the result cache, so repeated lookups for the same part
are served locally.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}

// quoteClients mirrors the sourcing tables: global distributors quote
// the base price, EU distributors carry a premium and thinner stock.
func quoteClients() []distributor.Client {
	farnell := distributor.NewSimulated("farnell", "EU")
	farnell.PriceFactor = 1.06
	farnell.Availability = 0.9

	rs := distributor.NewSimulated("rs_components", "UK")
	rs.PriceFactor = 1.07
	rs.Availability = 0.9

	return []distributor.Client{
		distributor.NewSimulated("digikey", "US"),
		distributor.NewSimulated("mouser", "US"),
		farnell,
		rs,
	}
}

func runQuote(cmd *cobra.Command, args []string) error {
	store, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	// One bucket shared across distributors, matching the simulated
	// upstream's request budget.
	bucket := ratelimit.NewTokenBucket(10, 5.0)

	var results []*distributor.Result
	for _, client := range quoteClients() {
		cached := distributor.NewCachedClient(client, store, bucket)
		result, _ := cached.Lookup(cmd.Context(), args[0])
		if result != nil {
			results = append(results, result)
		}
	}

	if len(results) == 0 {
		return fmt.Errorf("no distributor stocks %q", args[0])
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
