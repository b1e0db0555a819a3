package main

import (
	"fmt"

	"github.com/aretw0/hornbill/internal/presentation/report"
	"github.com/aretw0/hornbill/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show destinations, experiences and festivals",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		raw, _ := cmd.Flags().GetBool("raw")

		p, backend, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer backend.Close()

		md := report.Catalog(p.Catalog(), category)
		if !raw {
			if out, err := tui.NewRenderer(0)(md); err == nil {
				md = out
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().String("category", "", "Only show one destination or experience category")
	catalogCmd.Flags().Bool("raw", false, "Print Markdown without terminal styling")
}
