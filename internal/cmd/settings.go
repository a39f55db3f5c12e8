package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/koba789/unrotate/internal/config"
	"github.com/koba789/unrotate/internal/logger"
	"github.com/spf13/cobra"
)

// settings is the effective configuration of one command invocation.
type settings struct {
	configPath string
	cfg        *config.Config
	paths      *config.Paths
}

func baseDirEnvName() string {
	return config.BaseDirEnv
}

// stringFlag returns the flag value only when the user set it.
func stringFlag(cmd *cobra.Command, name string) *string {
	if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func boolFlag(cmd *cobra.Command, name string) *bool {
	if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

func durationFlag(cmd *cobra.Command, name string) *time.Duration {
	if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetDuration(name)
	return &v
}

// resolveConfigPath returns --config, or the default location under the
// base directory named by --base-dir or detected for this platform.
func resolveConfigPath(cmd *cobra.Command) (string, error) {
	if path := stringFlag(cmd, "config"); path != nil && *path != "" {
		return *path, nil
	}

	baseDir := ""
	if flag := stringFlag(cmd, "base-dir"); flag != nil {
		baseDir = *flag
	}
	if baseDir == "" {
		var err error
		baseDir, err = config.ResolveBaseDir()
		if err != nil {
			return "", err
		}
	}
	return config.DefaultConfigPath(baseDir), nil
}

// loadSettings loads the config file, applies CLI flags and resolves paths.
// Any failure here is a setup error.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	configPath, err := resolveConfigPath(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}

	cfg.MergeWithFlags(
		stringFlag(cmd, "base-dir"),
		stringFlag(cmd, "source-dir"),
		stringFlag(cmd, "root"),
		durationFlag(cmd, "interval"),
		stringFlag(cmd, "log-level"),
		boolFlag(cmd, "watch"),
	)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, err
	}

	return &settings{configPath: configPath, cfg: cfg, paths: paths}, nil
}

// buildLogger fans out to the console and, when a log directory is
// configured, to a run log file. The returned close func is never nil.
func buildLogger(s *settings, console io.Writer) (logger.Logger, func()) {
	consoleLog := logger.NewConsoleLogger(console, s.cfg.LogLevel)
	if s.paths.LogDir == "" {
		return consoleLog, func() {}
	}

	fileLog, err := logger.NewFileLoggerWithDirAndLevel(s.paths.LogDir, s.cfg.LogLevel)
	if err != nil {
		consoleLog.LogWarn(fmt.Sprintf("file logging disabled: %v", err))
		return consoleLog, func() {}
	}

	return logger.NewMultiLogger(consoleLog, fileLog), func() { fileLog.Close() }
}
