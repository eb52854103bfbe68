package commands

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/salesboard-dev/salesboard/internal/config"
	"github.com/salesboard-dev/salesboard/internal/history"
	"github.com/salesboard-dev/salesboard/internal/model"
	"github.com/salesboard-dev/salesboard/internal/present"
)

func newHistoryCommand(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently published query cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(opts.configPath)
			if err != nil {
				return err
			}
			if cfg.History.Path == "" {
				return errors.New("history is disabled (set history.path in " + config.DefaultFile + ")")
			}
			return runHistory(cmd.OutOrStdout(), cfg.History.Path, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of entries to show (0 for all)")

	return cmd
}

func runHistory(out io.Writer, path string, limit int) error {
	entries, err := history.Read(path)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history yet.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tRANGE\tOUTCOME\tTXNS\tWALLET\tSALES\tREBATES\tTOP UPS")
	for _, e := range history.Tail(entries, limit) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime),
			e.Range,
			e.Outcome,
			e.Transactions,
			present.FormatValue(model.SlotWallet, e.Wallet),
			present.FormatValue(model.SlotSales, e.Sales),
			present.FormatValue(model.SlotRebates, e.Rebates),
			present.FormatValue(model.SlotTopUps, e.TopUps),
		)
	}
	return tw.Flush()
}
