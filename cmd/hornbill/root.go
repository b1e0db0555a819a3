package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/hornbill"
	"github.com/aretw0/hornbill/internal/cli"
	"github.com/aretw0/hornbill/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hornbill",
	Short: "Hornbill plans trips to Nagaland",
	Long: `Hornbill is a four-step trip planning wizard: choose dates, pick places,
add experiences and send the request. Run it in the terminal, or serve it
over HTTP and MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if env := os.Getenv("HORNBILL_CONFIG"); env != "" {
			path = env
		}
	}
	return config.Load(path)
}

func debugEnabled(cmd *cobra.Command) bool {
	debug, _ := cmd.Flags().GetBool("debug")
	return debug
}

// setup loads config and wires the planner. Callers must close the backend.
func setup(cmd *cobra.Command, extra ...hornbill.Option) (*hornbill.Planner, *cli.Backend, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := cli.NewLogger(os.Stderr, cfg.Log, debugEnabled(cmd))
	p, backend, err := cli.NewPlanner(cfg, logger, extra...)
	if err != nil {
		return nil, nil, nil, err
	}
	return p, backend, logger, nil
}
