package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/codeagg/internal/models"
)

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [root-dir]",
		Short: "List the files an aggregation would include",
		Long: `List the files an aggregation would include, in output order, together
with the root that selected them and the compaction type used for them.

Nothing is read or written; this is a dry run of file selection.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runList,
	}
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	entries, err := newAggregator(cfg).Select()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), formatFileTable(entries))
	return nil
}

// formatFileTable formats selected files as a readable table
func formatFileTable(entries []models.FileEntry) string {
	var sb strings.Builder

	if len(entries) == 0 {
		sb.WriteString("No files selected\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%-60s %-12s %-10s\n", "Path", "Root", "Type"))
	sb.WriteString(strings.Repeat("-", 84) + "\n")

	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%-60s %-12s %-10s\n", truncatePath(e.Path, 60), e.Root, e.Tag))
	}

	sb.WriteString(fmt.Sprintf("\n%d file(s) selected\n", len(entries)))
	return sb.String()
}

// truncatePath keeps the tail of long paths, which is the informative end.
func truncatePath(path string, max int) string {
	if len(path) <= max || max <= 3 {
		return path
	}
	return "..." + path[len(path)-(max-3):]
}
