package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"greenpulse/internal/app"
	"greenpulse/internal/config"
	"greenpulse/internal/logging"
)

const appName = "greenpulse"

func newServeCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the GreenPulse HTTP server",
		Long: `Starts the dashboard server. Configuration comes from the environment.

Endpoints:
  GET /                  Dashboard page
  GET /api/refresh-data  Current reading, prediction and 24h history
  GET /api/chart.png     Server-rendered score chart
  GET /healthz           Health check
  WS  /ws                Live reading push (when LIVE_PUSH is enabled)`,
		Example: `  greenpulse serve
  HTTP_ADDR=:9090 STATION_ID=2 greenpulse serve
  MQTT_BROKER=broker.local MQTT_TOPIC=greenpulse/telemetry greenpulse serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}

			logger := logging.New(cfg, version, appName)
			slog.SetDefault(logger)

			slog.Info("starting",
				"app", appName,
				"version", version,
				"env", cfg.AppEnv,
				"log_level", cfg.LogLevel.String(),
			)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("run failed", "err", err)
				return err
			}

			slog.Info("shutting down")
			return nil
		},
	}
}
