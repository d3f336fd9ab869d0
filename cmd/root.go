package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Track stock positions, live quotes and profit/loss",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yaml)")

	rootCmd.AddCommand(
		newAddCmd(&configPath),
		newListCmd(&configPath),
		newShowCmd(&configPath),
		newUpdateCmd(&configPath),
		newDeleteCmd(&configPath),
		newQuoteCmd(&configPath),
		newPlanCmd(&configPath),
		newRefreshCmd(&configPath),
		newStartCmd(&configPath),
		newMigrateCmd(&configPath),
	)
	return rootCmd
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
