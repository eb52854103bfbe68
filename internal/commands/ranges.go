package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/salesboard-dev/salesboard/internal/daterange"
)

func newRangesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ranges",
		Short: "List the preset ranges and the query each issues today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRanges(cmd.OutOrStdout(), clock())
		},
	}
}

func runRanges(out io.Writer, now time.Time) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL\tDATES\tQUERY")
	for _, p := range daterange.Presets() {
		r, args := p.Args(now)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.Label, daterange.Describe(r), args)
	}
	return tw.Flush()
}
