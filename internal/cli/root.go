package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root greenpulse command.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "greenpulse",
		Short: "Urban emission monitoring dashboard",
		Long: `GreenPulse serves an emission monitoring dashboard backed by sensor
readings stored in SQLite, with optional live ingest over MQTT.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(version),
		newWatchCmd(),
	)

	return root
}
