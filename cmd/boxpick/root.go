package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boxpick",
		Short: "boxpick - shipping box selection and pricing for packing stores",
		Long: `boxpick ranks the packing strategies a store can sell for an item:
standard boxes, pre-scored and manual cut-downs, telescoping, flattened,
and diagonal packs. Strategies are scored on price, fit tightness, and
ease of execution per the store's configured weights.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newRecommendCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newConfigCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
