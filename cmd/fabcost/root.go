package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fabcost",
	Short: "Fabcost - PCB manufacturing cost estimation",
	Long: `Fabcost turns a bill of materials into a manufacturing cost estimate:
per-component pricing with low/typical/high bands, quantity-break
curves, assembly and overhead costs, and a sourcing-policy decision
with provenance risk flags for every part.

Estimates are deterministic: the same BOM, configuration, and sourcing
mode always produce the same numbers.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "fabcost.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
