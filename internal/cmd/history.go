package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/codeagg/internal/history"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [root-dir]",
		Short: "Show recent aggregation runs",
		Long: `Show recent aggregation runs recorded in the history database
(default: <root-dir>/.codeagg/history.db), newest first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 10, "Maximum number of runs to show (0 = all)")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	dbPath := cfg.HistoryPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprint(cmd.OutOrStdout(), formatHistoryTable(nil))
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), formatHistoryTable(runs))
	return nil
}

// formatHistoryTable formats recorded runs as a readable table
func formatHistoryTable(runs []*history.Run) string {
	var sb strings.Builder

	if len(runs) == 0 {
		sb.WriteString("No runs recorded yet\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%-6s %-20s %-7s %-7s %-10s %-8s %s\n",
		"ID", "Started", "Files", "Errors", "Size", "Compact", "Output"))
	sb.WriteString(strings.Repeat("-", 90) + "\n")

	for _, r := range runs {
		compact := "no"
		if r.Compacted {
			compact = "yes"
		}
		sb.WriteString(fmt.Sprintf("%-6d %-20s %-7d %-7d %-10d %-8s %s\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.FileCount,
			r.ReadErrors,
			r.BytesWritten,
			compact,
			r.OutputPath))
	}
	return sb.String()
}
