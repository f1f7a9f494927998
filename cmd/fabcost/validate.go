package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"calder-eda/fabcost/pkg/bom"
	"calder-eda/fabcost/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [bom-file]",
	Short: "Validate the config file and optionally a BOM",
	Long: `Validate the configuration file and, when given, a BOM file.

Configuration validation checks the pricing tables, tier/discount
alignment, and sourcing settings. BOM validation parses the file and
reports per-row problems without producing an estimate.

Examples:
  # Check the config only
  fabcost validate

  # Check the config and a BOM file
  fabcost validate board.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	// LoadConfig validates on load; Initialize surfaces any problem.
	if err := config.Initialize(cfgFile); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	fmt.Printf("Config OK: %s\n", cfgFile)

	if len(args) == 0 {
		return nil
	}

	result, err := bom.Load(args[0])
	if err != nil {
		return fmt.Errorf("BOM invalid: %w", err)
	}

	active := result.ActiveItems()
	fmt.Printf("BOM OK: %s (%d line items, %d active)\n",
		args[0], len(result.Items), len(active))
	for _, warning := range result.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
	return nil
}
