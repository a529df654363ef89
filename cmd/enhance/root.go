package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/enhance/internal/logging"
	"github.com/spf13/cobra"
)

var logger = logging.NewNop()

var rootCmd = &cobra.Command{
	Use:   "enhance",
	Short: "Enhance applies plugin pipelines without letting a plugin failure escape",
	Long: `Enhance loads a manifest of plugin steps, applies them to a host through the
enhanced use method and runs the resulting transformers over a context.
Plugin failures are reported, never fatal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(raw)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("log-json")
		logger = logging.NewWriter(os.Stderr, level, asJSON)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
}
