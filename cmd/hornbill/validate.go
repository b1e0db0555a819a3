package main

import (
	"fmt"

	"github.com/aretw0/hornbill/pkg/catalog"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a catalog file for consistency",
	Long: `Loads a catalog (YAML or JSON) and reports every problem: duplicate or
missing IDs, presets pointing at unknown destinations, bad rates and dates.
Without --catalog the built-in catalog is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("catalog")

		cat := catalog.Default()
		if path != "" {
			var err error
			if cat, err = catalog.Load(path); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
		}
		if err := cat.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog is valid: %d destinations, %d experiences, %d presets.\n",
			len(cat.Destinations), len(cat.Experiences), len(cat.Presets))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("catalog", "", "Path to the catalog file")
}
