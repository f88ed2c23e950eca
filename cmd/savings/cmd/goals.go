package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/celosave/savings/internal/amount"
	"github.com/celosave/savings/internal/app"
	"github.com/celosave/savings/internal/goalid"
	"github.com/spf13/cobra"
)

func GoalsCmd() *cobra.Command {
	goals := &cobra.Command{
		Use:   "goals",
		Short: "List and change savings goals",
	}

	goals.AddCommand(listCmd(), createCmd(), depositCmd(), withdrawCmd(), deleteCmd())
	return goals
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the owner's goals with progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				views, err := a.SavingsService.Views(ctx, owner, true)
				if err != nil {
					return err
				}
				printGoals(cmd.OutOrStdout(), views)
				return nil
			})
		},
	}
}

func createCmd() *cobra.Command {
	var days int

	c := &cobra.Command{
		Use:   "create <name> <target>",
		Short: "Create a goal due in --days days",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := amount.ToBaseUnits(args[1])
			if err != nil {
				return err
			}
			deadline := time.Now().Add(time.Duration(days) * 24 * time.Hour).Unix()

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				op, err := a.SavingsService.CreateGoal(ctx, owner, args[0], target, deadline)
				if err != nil {
					return err
				}
				return settle(ctx, cmd.OutOrStdout(), op)
			})
		},
	}
	c.Flags().IntVar(&days, "days", 30, "days until the deadline")
	return c
}

func depositCmd() *cobra.Command {
	return amountCmd("deposit", "Add funds to a goal", func(ctx context.Context, a *app.App, w io.Writer, id uint64, amt string) error {
		v, err := amount.ToBaseUnits(amt)
		if err != nil {
			return err
		}
		op, err := a.SavingsService.Deposit(ctx, owner, id, v)
		if err != nil {
			return err
		}
		return settle(ctx, w, op)
	})
}

func withdrawCmd() *cobra.Command {
	return amountCmd("withdraw", "Take funds out of a goal", func(ctx context.Context, a *app.App, w io.Writer, id uint64, amt string) error {
		v, err := amount.ToBaseUnits(amt)
		if err != nil {
			return err
		}
		op, err := a.SavingsService.Withdraw(ctx, owner, id, v)
		if err != nil {
			return err
		}
		return settle(ctx, w, op)
	})
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := goalid.Parse(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				op, err := a.SavingsService.DeleteGoal(ctx, owner, id)
				if err != nil {
					return err
				}
				return settle(ctx, cmd.OutOrStdout(), op)
			})
		},
	}
}

func amountCmd(use, short string, run func(ctx context.Context, a *app.App, w io.Writer, id uint64, amt string) error) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <id> <amount>", use),
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := goalid.Parse(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return run(ctx, a, cmd.OutOrStdout(), id, args[1])
			})
		},
	}
}
