package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for unrotate
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unrotate",
		Short: "Keep every VRChat log by hard-linking it into a dated collection",
		Long: `Unrotate collects VRChat output logs before the client rotates them away.

Every log in the VRChat data directory is hard-linked into
<collection root>/YYYY-MM/DD/ using the date written at the top of the
log itself. Source files are never modified, moved or deleted.

The collection root defaults to <LocalLow>/KOBA789/VRCLogUnrotate/Logs.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: <base dir>/KOBA789/VRCLogUnrotate/config.yaml)")
	cmd.PersistentFlags().String("base-dir", "", "LocalLow data directory (default: detected, or $"+baseDirEnvName()+")")
	cmd.PersistentFlags().String("source-dir", "", "Directory VRChat writes logs to (default: <base dir>/VRChat/VRChat)")
	cmd.PersistentFlags().String("root", "", "Collection root (default: <base dir>/KOBA789/VRCLogUnrotate/Logs)")

	// Add subcommands
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewStepCommand())
	cmd.AddCommand(NewOpenCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewConfigCommand())

	return cmd
}
