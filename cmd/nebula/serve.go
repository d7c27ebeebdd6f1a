package main

import (
	"context"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/creamcroissant/nebula/internal/config"
	"github.com/creamcroissant/nebula/internal/server"
	"github.com/creamcroissant/nebula/internal/support/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var metricsAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the file server",
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address (disabled when empty)")
}

func newLogger(w io.Writer) *slog.Logger {
	return logging.New(logging.Options{
		Level:  logging.ParseLevel(flags.logLevel),
		Format: flags.logFormat,
		Output: w,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cmd.OutOrStdout())
	slog.SetDefault(logger)

	cfg, src := config.Load(flags.configPath, logger)
	logger.Info("configuration loaded", "source", src, "path", flags.configPath)

	var metrics *server.Metrics
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = server.NewMetrics(server.DefaultMetricsConfig(), reg)

		admin := server.NewAdminServer(metricsAddr, reg, logger)
		go func() {
			if err := admin.Start(); err != nil {
				logger.Error("admin server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := admin.Shutdown(shutdownCtx); err != nil {
				logger.Warn("admin server shutdown", "error", err)
			}
		}()
	}

	srv := server.New(cfg, server.Options{
		Logger:  logger,
		Metrics: metrics,
	})
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server failed", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
