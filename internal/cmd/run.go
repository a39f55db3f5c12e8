package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/koba789/unrotate/internal/notify"
	"github.com/koba789/unrotate/internal/unrotate"
	"github.com/koba789/unrotate/internal/watch"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Collect logs in the background until interrupted",
		Long: `Run the collector: one step immediately, then one step every interval.

Step errors are shown as they happen and collection continues. If the
collector itself crashes a final notice is shown and the command exits
with status 1; it does not restart on its own.

Configuration is loaded from <base dir>/KOBA789/VRCLogUnrotate/config.yaml
if present. CLI flags override configuration file settings.

Examples:
  # Collect with defaults
  unrotate run

  # Also react to new logs immediately
  unrotate run --watch

  # Collect a copy of the data directory somewhere else
  unrotate run --source-dir ./VRChat --root ./collected --interval 10s`,
		Args: cobra.NoArgs,
		RunE: runCollect,
	}

	cmd.Flags().Duration("interval", 0, "Time between steps (default from config: 60s)")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().Bool("watch", false, "Run a step as soon as a new log appears")

	return cmd
}

func runCollect(cmd *cobra.Command, args []string) error {
	console := notify.NewConsole(cmd.ErrOrStderr())

	s, err := loadSettings(cmd)
	if err != nil {
		console.ShowCrash()
		return fmt.Errorf("setup: %w", err)
	}

	log, closeLog := buildLogger(s, cmd.ErrOrStderr())
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := openCollector(ctx, s, log)
	if err != nil {
		console.ShowCrash()
		return fmt.Errorf("setup: %w", err)
	}
	defer c.Close()

	worker := unrotate.Start(c.unrotator, unrotate.WorkerOptions{
		Interval: s.cfg.Interval,
		Logger:   log,
	})

	if s.cfg.Watch {
		w, err := watch.New(s.paths.SourceDir, worker.Nudge, func(err error) {
			log.LogWarn(fmt.Sprintf("watch: %v", err))
		})
		if err != nil {
			log.LogWarn(fmt.Sprintf("watching disabled, polling only: %v", err))
		} else {
			defer w.Close()
			log.LogInfo(fmt.Sprintf("watching %s for new logs", w.Dir()))
		}
	}

	consumeErr := console.Consume(ctx, worker)
	worker.Stop()
	workerErr := worker.Wait()

	if errors.Is(consumeErr, notify.ErrStopped) || workerErr != nil {
		if workerErr == nil {
			workerErr = unrotate.ErrCrashed
		}
		return workerErr
	}
	return nil
}
