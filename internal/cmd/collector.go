package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/koba789/unrotate/internal/collection"
	"github.com/koba789/unrotate/internal/filelock"
	"github.com/koba789/unrotate/internal/journal"
	"github.com/koba789/unrotate/internal/logger"
	"github.com/koba789/unrotate/internal/source"
	"github.com/koba789/unrotate/internal/unrotate"
)

// collector bundles an Unrotator with the resources it holds.
type collector struct {
	unrotator *unrotate.Unrotator
	lock      *filelock.FileLock
	journal   *journal.Journal
}

// openCollector takes the collection lock and opens the journal. A journal
// that cannot be opened only costs history, so it is logged and skipped.
func openCollector(ctx context.Context, s *settings, log logger.Logger) (*collector, error) {
	lock, err := filelock.LockCollection(s.paths.CollectionRoot)
	if err != nil {
		if errors.Is(err, filelock.ErrLocked) {
			return nil, fmt.Errorf("another collector is already running: %w", err)
		}
		return nil, err
	}

	c := &collector{lock: lock}
	opts := []unrotate.Option{unrotate.WithLogger(log)}

	if s.paths.JournalPath != "" {
		j, err := journal.Open(s.paths.JournalPath)
		if err != nil {
			log.LogWarn(fmt.Sprintf("journal disabled: %v", err))
		} else {
			runID, err := j.BeginRun(ctx, s.paths.SourceDir, s.paths.CollectionRoot)
			if err != nil {
				log.LogWarn(fmt.Sprintf("journal disabled: %v", err))
				j.Close()
			} else {
				c.journal = j
				opts = append(opts, unrotate.WithRecorder(j.ForRun(runID)))
				log.LogDebug(fmt.Sprintf("journal run %s in %s", runID, j.Path()))
			}
		}
	}

	c.unrotator = unrotate.New(
		source.NewScanner(s.paths.SourceDir),
		collection.NewStore(s.paths.CollectionRoot),
		opts...,
	)
	return c, nil
}

// Close releases the journal and the collection lock.
func (c *collector) Close() error {
	var errs []error
	if c.journal != nil {
		errs = append(errs, c.journal.Close())
	}
	errs = append(errs, c.lock.Unlock())
	return errors.Join(errs...)
}
