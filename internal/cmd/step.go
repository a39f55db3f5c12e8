package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/koba789/unrotate/internal/models"
	"github.com/spf13/cobra"
)

// NewStepCommand creates the step command
func NewStepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Run a single collection step in the foreground",
		Long: `Scan the source directory once, link every log into the collection
and print a summary. Exits non-zero if the step failed; links made before
the failure are kept.`,
		Args: cobra.NoArgs,
		RunE: runStep,
	}

	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	return cmd
}

func runStep(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	log, closeLog := buildLogger(s, cmd.ErrOrStderr())
	defer closeLog()

	c, err := openCollector(cmd.Context(), s, log)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	defer c.Close()

	result, err := c.unrotator.Step()
	printStepResult(cmd.OutOrStdout(), s.paths.CollectionRoot, result)
	return err
}

// printStepResult formats one step's counters.
func printStepResult(w io.Writer, root string, result models.StepResult) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)

	cyan.Fprintf(w, "Collection: %s\n", root)
	fmt.Fprintf(w, "  Candidates:      %d\n", result.Candidates)
	green.Fprintf(w, "  Linked:          %d\n", result.Linked)
	fmt.Fprintf(w, "  Already present: %d\n", result.AlreadyPresent)
	gray.Fprintf(w, "  Skipped:         %d\n", result.Skipped)
}
