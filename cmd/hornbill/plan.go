package main

import (
	"github.com/aretw0/hornbill/internal/cli"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a trip in the terminal",
	Long: `Walks through the four planning steps. On a terminal it shows interactive
forms; when input is piped it reads line commands (type help for the list).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")

		p, backend, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer backend.Close()

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		_, err = cli.RunPlan(sigCtx, p, logger, cli.PlanOptions{
			SessionID: sessionID,
			JSON:      jsonMode,
			Quiet:     quiet,
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
		})
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringP("session", "s", "", "Resume or name a session")
	planCmd.Flags().Bool("json", false, "Read and write JSON lines")
	planCmd.Flags().BoolP("quiet", "q", false, "Skip the banner")
}
