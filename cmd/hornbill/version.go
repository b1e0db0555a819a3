package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/hornbill"
	"github.com/aretw0/hornbill/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hornbill",
	Run: func(cmd *cobra.Command, args []string) {
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(cmd.OutOrStdout(), hornbill.Version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "hornbill version %s\n", strings.TrimSpace(hornbill.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the banner too")
}
