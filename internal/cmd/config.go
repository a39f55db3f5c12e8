package cmd

import (
	"fmt"
	"os"

	"github.com/koba789/unrotate/internal/config"
	"github.com/koba789/unrotate/internal/filelock"
	"github.com/spf13/cobra"
)

// NewConfigCommand creates the 'unrotate config' command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(cmd)
			if err != nil {
				return fmt.Errorf("setup: %w", err)
			}

			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}

			data, err := config.DefaultConfig().Marshal()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			if err := filelock.AtomicWrite(path, data); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration and resolved paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return fmt.Errorf("setup: %w", err)
			}

			data, err := s.cfg.Marshal()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# config file: %s\n", s.configPath)
			fmt.Fprint(out, string(data))
			fmt.Fprintln(out, "# resolved paths")
			fmt.Fprintf(out, "#   source:     %s\n", s.paths.SourceDir)
			fmt.Fprintf(out, "#   collection: %s\n", s.paths.CollectionRoot)
			fmt.Fprintf(out, "#   logs:       %s\n", s.paths.LogDir)
			if s.paths.JournalPath != "" {
				fmt.Fprintf(out, "#   journal:    %s\n", s.paths.JournalPath)
			}
			return nil
		},
	}
}
