package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"greenpulse/internal/dashboard"
	"greenpulse/internal/dashboard/chart"
	"greenpulse/internal/dashboard/term"
)

func newWatchCmd() *cobra.Command {
	var (
		server    string
		interval  time.Duration
		chartPath string
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a GreenPulse server from the terminal",
		Long: `Polls a running server's refresh endpoint and renders the dashboard
panels in the terminal. With --chart, each refresh also writes the
score chart as a PNG file.`,
		Example: `  greenpulse watch
  greenpulse watch --server http://monitor.local:8080 --interval 30s
  greenpulse watch --chart /tmp/score.png --no-color`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}))

			client := dashboard.NewClient(server)
			surface := term.NewSurface(cmd.OutOrStdout(), !noColor)
			notifier := &term.Notifier{Out: cmd.OutOrStdout()}
			renderer := chart.NewRenderer(chartPath)

			ctrl := dashboard.NewController(client, surface, renderer, notifier, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ctrl.Initialize(ctx)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					ctrl.Refresh(ctx)
				}
			}
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "base URL of the GreenPulse server")
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "refresh interval")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write the score chart PNG to this path on every refresh")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")

	return cmd
}
