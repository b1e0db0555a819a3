package main

import (
	"fmt"

	"github.com/aretw0/hornbill/internal/cli"
	"github.com/aretw0/hornbill/internal/presentation/graph"
	"github.com/aretw0/hornbill/pkg/domain"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the wizard flow as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart of the planning steps. With --session the
visited steps and the current step of that session are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		var overlay *graph.GraphOverlay
		if sessionID != "" {
			p, backend, _, err := setup(cmd)
			if err != nil {
				return err
			}
			defer backend.Close()
			s, err := cli.Overlay(cmd.Context(), p, sessionID)
			if err != nil {
				return fmt.Errorf("failed to load session '%s': %w", sessionID, err)
			}
			overlay = graph.OverlayFor(s)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(domain.Steps, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the progress of this session")
}
