package cmd

import (
	"fmt"
	"os"

	"github.com/koba789/unrotate/internal/opener"
	"github.com/spf13/cobra"
)

// openDir is swapped out in tests.
var openDir = opener.Open

// NewOpenCommand creates the open command
func NewOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the collection root in the file browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return fmt.Errorf("setup: %w", err)
			}

			root := s.paths.CollectionRoot
			if err := os.MkdirAll(root, 0755); err != nil {
				return fmt.Errorf("create collection root: %w", err)
			}
			if err := openDir(root); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", root)
			return nil
		},
	}
}
