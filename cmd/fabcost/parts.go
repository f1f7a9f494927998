package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"calder-eda/fabcost/pkg/config"
	"calder-eda/fabcost/pkg/partsdb"
)

var partsCmd = &cobra.Command{
	Use:   "parts",
	Short: "Manage the local component catalog",
	Long: `Manage the local component catalog.

The catalog stores component metadata and per-distributor availability
in a SQLite database under the application data directory. Imported
records override the heuristic classifiers when a BOM line carries a
matching MPN.`,
}

var partsLookupCmd = &cobra.Command{
	Use:   "lookup <mpn>",
	Short: "Show a catalog record and its availability",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openPartsDB()
		if err != nil {
			return err
		}
		defer db.Close()

		component, err := db.GetComponent(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if component == nil {
			return fmt.Errorf("no catalog record for %q", args[0])
		}

		availability, err := db.GetAvailability(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Component    *partsdb.Component      `json:"component"`
			Availability []*partsdb.Availability `json:"availability,omitempty"`
		}{component, availability})
	},
}

var partsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all catalog records",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openPartsDB()
		if err != nil {
			return err
		}
		defer db.Close()

		components, err := db.ListComponents(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range components {
			fmt.Printf("%-24s %-20s %-12s %s\n", c.MPN, c.Manufacturer, c.Category, c.Description)
		}
		fmt.Printf("%d components\n", len(components))
		return nil
	},
}

var partsImportCmd = &cobra.Command{
	Use:   "import <json-file>",
	Short: "Import catalog records from a JSON file",
	Long: `Import catalog records from a JSON file.

The file holds an array of component records, each optionally carrying
an "availability" array of per-distributor records. Existing records
with the same MPN are overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var records []struct {
			partsdb.Component
			Availability []*partsdb.Availability `json:"availability,omitempty"`
		}
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		db, err := openPartsDB()
		if err != nil {
			return err
		}
		defer db.Close()

		imported := 0
		for i := range records {
			r := &records[i]
			if err := db.UpsertComponent(cmd.Context(), &r.Component); err != nil {
				return fmt.Errorf("import %s: %w", r.MPN, err)
			}
			for _, a := range r.Availability {
				if a.MPN == "" {
					a.MPN = r.MPN
				}
				if err := db.UpsertAvailability(cmd.Context(), a); err != nil {
					return fmt.Errorf("import %s availability: %w", r.MPN, err)
				}
			}
			imported++
		}
		fmt.Printf("Imported %d components\n", imported)
		return nil
	},
}

var partsDeleteCmd = &cobra.Command{
	Use:   "delete <mpn>",
	Short: "Remove a catalog record and its availability",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openPartsDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteComponent(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(partsCmd)
	partsCmd.AddCommand(partsLookupCmd)
	partsCmd.AddCommand(partsListCmd)
	partsCmd.AddCommand(partsImportCmd)
	partsCmd.AddCommand(partsDeleteCmd)
}

func openPartsDB() (*partsdb.DB, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	dir, err := config.GetConfig().DataDir()
	if err != nil {
		return nil, err
	}
	return partsdb.Open(&partsdb.Config{Path: filepath.Join(dir, "components.db")})
}
