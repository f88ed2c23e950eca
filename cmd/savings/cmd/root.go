package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/celosave/savings/internal/app"
	"github.com/celosave/savings/internal/backend"
	"github.com/celosave/savings/internal/config"
	"github.com/celosave/savings/internal/logger"
	"github.com/celosave/savings/internal/model"
	"github.com/spf13/cobra"
)

var (
	owner   string
	timeout time.Duration

	newApp = app.New
)

// AddFlags registers the flags every subcommand honours.
func AddFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&owner, "owner", os.Getenv("SAVINGS_OWNER"), "wallet address acting as the goal owner (env SAVINGS_OWNER)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "how long a ledger operation may take to confirm")
}

// withApp loads config, starts the app, and closes it once fn returns.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg := config.Load()
	flush := logger.InitWriter(io.Discard, cfg.IsDevelopment(), cfg.SentryDSN)
	defer flush()

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a)
}

// settle blocks until a pending op settles or --timeout passes, then prints it.
// Ledger confirmation stops when the app closes, so a still-pending op is an error.
func settle(ctx context.Context, w io.Writer, op *backend.Operation) error {
	if op.State() == backend.StatePending {
		wctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		fmt.Fprintf(w, "waiting for %s to confirm...\n", op.ID)
		if err := op.Wait(wctx); err != nil && op.State() == backend.StatePending {
			printOperation(w, op)
			return fmt.Errorf("operation %s still pending after %s: %w", op.ID, timeout, err)
		}
	}

	printOperation(w, op)
	if op.State() == backend.StateFailed {
		return op.Err()
	}
	return nil
}

func printOperation(w io.Writer, op *backend.Operation) {
	fmt.Fprintf(w, "operation %s: %s %s (%s)\n", op.ID, op.Kind, op.State(), op.Mode)
	if hashes := op.TxHashes(); len(hashes) > 0 {
		fmt.Fprintf(w, "  tx: %s\n", strings.Join(hashes, ", "))
	}
	if err := op.Err(); err != nil {
		fmt.Fprintf(w, "  error: %v\n", err)
	}
	if g := op.Goal(); g != nil {
		fmt.Fprintf(w, "  goal: %d\n", g.ID)
	}
}

func printGoals(w io.Writer, views []model.GoalView) {
	if len(views) == 0 {
		fmt.Fprintln(w, "no goals")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSAVED\tTARGET\tPROGRESS\tDAYS LEFT\tSTATUS")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d%%\t%d\t%s\n",
			v.ID, v.Name, v.CurrentDisplay, v.TargetDisplay, v.Percentage, v.DaysLeft, v.Status)
	}
	tw.Flush()
}
