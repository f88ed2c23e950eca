package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/celosave/savings/cmd/savings/cmd"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "savings",
		Short:         "Manage savings goals against the configured backend",
		SilenceUsage: true,
	}

	cmd.AddFlags(rootCmd)
	rootCmd.AddCommand(cmd.GoalsCmd())
	rootCmd.AddCommand(cmd.SummaryCmd())
	rootCmd.AddCommand(cmd.TokenCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
