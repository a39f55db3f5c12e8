// Package unrotate runs the collection engine: each step scans the watched
// directory, classifies candidates by their header date and links them into
// the partitioned collection tree. A Worker repeats the step on an interval.
package unrotate

import (
	"context"
	"fmt"
	"time"

	"github.com/koba789/unrotate/internal/classifier"
	"github.com/koba789/unrotate/internal/collection"
	"github.com/koba789/unrotate/internal/logger"
	"github.com/koba789/unrotate/internal/models"
	"github.com/koba789/unrotate/internal/source"
)

// Phase names the part of a step that failed.
type Phase string

const (
	PhaseScan     Phase = "scan"
	PhaseClassify Phase = "classify"
	PhaseStore    Phase = "store"
)

// StepError is a recoverable failure of one step.
type StepError struct {
	Phase Phase
	Path  string // directory for scan failures, candidate file otherwise
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// LinkRecorder is told about every link a step creates.
type LinkRecorder interface {
	RecordLink(ctx context.Context, rec models.LogRecord, dest string) error
}

// Unrotator performs single steps. It holds no state between steps.
type Unrotator struct {
	scanner  *source.Scanner
	store    *collection.Store
	classify func(path string) (*models.LogRecord, error)
	recorder LinkRecorder
	logger   logger.Logger
}

// Option configures an Unrotator.
type Option func(*Unrotator)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(u *Unrotator) {
		if l != nil {
			u.logger = l
		}
	}
}

// WithRecorder sets a recorder for newly created links.
func WithRecorder(r LinkRecorder) Option {
	return func(u *Unrotator) {
		u.recorder = r
	}
}

// New creates an Unrotator that moves logs found by scanner into store.
func New(scanner *source.Scanner, store *collection.Store, opts ...Option) *Unrotator {
	u := &Unrotator{
		scanner:  scanner,
		store:    store,
		classify: classifier.Classify,
		logger:   logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// SourceDir returns the watched directory.
func (u *Unrotator) SourceDir() string {
	return u.scanner.Dir()
}

// CollectionRoot returns the root of the partitioned tree.
func (u *Unrotator) CollectionRoot() string {
	return u.store.Root()
}

// Step runs one scan -> classify -> store pass over the watched directory.
//
// Candidates are processed one at a time and the first failure ends the step.
// Links made before the failure are kept; the next step simply finds them
// already present.
func (u *Unrotator) Step() (models.StepResult, error) {
	result := models.StepResult{Started: time.Now()}
	err := u.step(&result)
	result.Duration = time.Since(result.Started)
	if err != nil {
		return result, err
	}

	u.logger.LogStepComplete(result)
	return result, nil
}

func (u *Unrotator) step(result *models.StepResult) error {
	paths, err := u.scanner.List()
	if err != nil {
		return &StepError{Phase: PhaseScan, Path: u.scanner.Dir(), Err: err}
	}
	result.Candidates = len(paths)

	for _, path := range paths {
		rec, err := u.classify(path)
		if err != nil {
			return &StepError{Phase: PhaseClassify, Path: path, Err: err}
		}
		if rec == nil {
			result.Skipped++
			continue
		}

		outcome, dest, err := u.store.Link(*rec)
		if err != nil {
			return &StepError{Phase: PhaseStore, Path: path, Err: err}
		}

		switch outcome {
		case models.LinkCreated:
			result.Linked++
			u.logger.LogLinked(*rec, dest)
			u.record(*rec, dest)
		case models.LinkExisting:
			result.AlreadyPresent++
		}
	}

	return nil
}

// record forwards a new link to the recorder. Recorder failures never fail the
// step: the link itself already exists.
func (u *Unrotator) record(rec models.LogRecord, dest string) {
	if u.recorder == nil {
		return
	}
	if err := u.recorder.RecordLink(context.Background(), rec, dest); err != nil {
		u.logger.LogWarn(fmt.Sprintf("journal: could not record %s: %v", rec.FileName(), err))
	}
}
