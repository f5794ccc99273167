package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for codeagg.
// Running it without a subcommand performs an aggregation.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codeagg [root-dir]",
		Short: "Aggregate a project's source files into one review document",
		Long: `codeagg walks a project directory, selects files by extension, location
and explicit include/exclude rules, optionally strips comments and blank
lines (compaction), and concatenates everything with per-file headers into
a single output document.

Configuration is loaded from .codeagg/config.yaml (or config.toml) in the
root directory if present. Environment variables (CODEAGG_*, also read from
.env) override the file, and CLI flags override both.

Examples:
  codeagg                                  # Aggregate the current directory
  codeagg ./myproject -o review.txt        # Custom root and output
  codeagg --compact -d "Sprint 12 review"  # Strip comments, add a banner
  codeagg --include Makefile --exclude setup.py
  codeagg list                             # Show what would be aggregated
  codeagg history --limit 5                # Show recent runs`,
		Args:    cobra.MaximumNArgs(1),
		Version: Version,
		RunE:    runAggregate,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Selection flags are shared with the list command
	cmd.PersistentFlags().String("config", "", "Path to config file (default: <root-dir>/.codeagg/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().StringP("output", "o", "", "Output document path (default: full_code_review.txt)")
	cmd.PersistentFlags().StringSlice("exclude-ext", nil, "Extensions never aggregated (repeatable or comma separated)")
	cmd.PersistentFlags().StringSlice("include", nil, "File names always aggregated regardless of extension")
	cmd.PersistentFlags().StringSlice("exclude", nil, "File names never aggregated (wins over --include)")

	cmd.Flags().Bool("compact", false, "Strip comments and blank lines from each file")
	cmd.Flags().Bool("no-compact", false, "Disable compaction (overrides config)")
	cmd.Flags().StringP("description", "d", "", "Description written in a banner at the top of the document")
	cmd.Flags().String("log-dir", "", "Directory for per-run log files")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")

	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
