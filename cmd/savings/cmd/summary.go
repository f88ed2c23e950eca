package cmd

import (
	"context"
	"fmt"

	"github.com/celosave/savings/internal/app"
	"github.com/spf13/cobra"
)

func SummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show total savings, streak and goal counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				s, err := a.SavingsService.Summary(ctx, owner)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "mode:      %s\n", s.Mode)
				fmt.Fprintf(w, "saved:     %s\n", s.TotalDisplay)
				fmt.Fprintf(w, "streak:    %d\n", s.Streak)
				fmt.Fprintf(w, "goals:     %d (%d completed)\n", s.GoalCount, s.CompletedCount)
				return nil
			})
		},
	}
}
