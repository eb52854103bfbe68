package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salesboard-dev/salesboard/internal/daterange"
	"github.com/salesboard-dev/salesboard/internal/session"
)

func newSummaryCommand(opts *globalOptions) *cobra.Command {
	var rangeName, from, to, format string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Fetch one date range and print the dashboard figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			custom := from != "" || to != ""
			if custom && cmd.Flags().Changed("range") {
				return errors.New("--range cannot be combined with --from/--to")
			}

			a, err := newApp(opts, format, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if custom {
				return runSummaryCustom(cmd.Context(), a, cmd.OutOrStdout(), from, to)
			}
			return runSummaryPreset(cmd.Context(), a, cmd.OutOrStdout(), rangeName)
		},
	}

	cmd.Flags().StringVar(&rangeName, "range", "today", "preset range ("+strings.Join(daterange.Names(), ", ")+")")
	cmd.Flags().StringVar(&from, "from", "", "custom range start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "custom range end date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&format, "format", "", "output format (cards, json, csv)")

	return cmd
}

func runSummaryPreset(ctx context.Context, a *app, out io.Writer, name string) error {
	outcome, err := a.session.SelectPreset(ctx, name)
	if err != nil {
		return err
	}
	return printOutcome(a, out, outcome)
}

func runSummaryCustom(ctx context.Context, a *app, out io.Writer, from, to string) error {
	outcome, errs := a.session.ApplyCustom(ctx, from, to)
	if len(errs) > 0 {
		return fmt.Errorf("invalid date range: %s", strings.Join(daterange.Messages(errs), " "))
	}
	return printOutcome(a, out, outcome)
}

// printOutcome renders the board. A failed cycle is rendered with its error
// and also returned so the process exits non-zero.
func printOutcome(a *app, out io.Writer, outcome session.Outcome) error {
	a.record(outcome)
	if a.renderer.Format() == "cards" {
		fmt.Fprintf(out, "%s (%s)\n", outcome.Query.Label, daterange.Describe(outcome.Query.Range))
	}
	if err := a.render(out); err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}
	if outcome.Kind == session.KindFailed {
		return fmt.Errorf("query failed: %w", outcome.Err)
	}
	return nil
}
