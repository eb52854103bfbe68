package commands

import (
	"github.com/spf13/cobra"

	"github.com/salesboard-dev/salesboard/internal/buildinfo"
	"github.com/salesboard-dev/salesboard/internal/config"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	endpoint   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "salesboard",
		Short:   "Sales dashboard for a paginated transactions API",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.DefaultFile, "path to salesboard.yaml")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")
	pf.StringVar(&opts.endpoint, "endpoint", "", "transactions API endpoint (overrides config)")

	rootCmd.AddCommand(
		newInitCommand(),
		newSummaryCommand(opts),
		newWatchCommand(opts),
		newRangesCommand(),
		newHistoryCommand(opts),
	)

	return rootCmd
}
