package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/koba789/unrotate/internal/journal"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently collected logs",
		Long: `List the most recent links recorded in the journal, newest first,
followed by the number of links per day partition.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 20, "Maximum number of links to show")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	output := cmd.OutOrStdout()

	s, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	if s.paths.JournalPath == "" {
		fmt.Fprintln(output, "The journal is disabled (journal.enabled: false)")
		return nil
	}

	// Don't create an empty database just to report that it is empty
	if _, err := os.Stat(s.paths.JournalPath); os.IsNotExist(err) {
		fmt.Fprintln(output, "No links recorded yet")
		return nil
	}

	j, err := journal.Open(s.paths.JournalPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := j.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(output, "No links recorded yet")
		return nil
	}

	counts, err := j.CountByPartition(cmd.Context())
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	printHistory(output, entries, counts)
	return nil
}

func printHistory(w io.Writer, entries []journal.Entry, counts []journal.PartitionCount) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)

	cyan.Fprintf(w, "=== Recent links (%d) ===\n", len(entries))
	for _, e := range entries {
		green.Fprintf(w, "%s  ", e.LogDate)
		fmt.Fprintf(w, "%s -> %s ", filepath.Base(e.Source), e.Dest)
		gray.Fprintf(w, "(%s)\n", e.LinkedAt.Local().Format(time.DateTime))
	}

	cyan.Fprintf(w, "\n=== Links per day ===\n")
	for _, c := range counts {
		fmt.Fprintf(w, "%s  %d\n", c.LogDate, c.Links)
	}
}
