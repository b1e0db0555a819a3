package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/hornbill"
	"github.com/aretw0/hornbill/internal/cli"
	"github.com/aretw0/hornbill/internal/logging"
	httpadapter "github.com/aretw0/hornbill/pkg/adapters/http"
	"github.com/aretw0/hornbill/pkg/observability"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serves the planner as a JSON API with server-sent session events and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		level, _ := logging.ParseLevel(cfg.Log.Level)
		if debugEnabled(cmd) {
			level = slog.LevelDebug
		}
		logger := logging.NewJSON(os.Stderr, level)

		metrics := observability.NewMetrics()
		p, backend, err := cli.NewPlanner(cfg, logger, hornbill.WithLifecycleHooks(metrics.Hooks()))
		if err != nil {
			return err
		}
		defer backend.Close()

		srv := &http.Server{
			Addr: fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: httpadapter.NewHandler(p,
				httpadapter.WithLogger(logger),
				httpadapter.WithMetrics(metrics.Handler()),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting hornbill server", "addr", srv.Addr, "store", cfg.Store.Driver)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-sigCtx.Done():
			logger.Info("shutting down", "signal", fmt.Sprint(sigCtx.Signal()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("hornbill server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides server.port)")
}
