package models

import (
	"path/filepath"
	"time"
)

// LogRecord is a source log file whose date was confirmed from its header.
type LogRecord struct {
	Path string       // Path of the source file in the watched directory
	Date CalendarDate // Date taken from the first header line
}

// FileName returns the base name used for the link in the partition directory.
func (r LogRecord) FileName() string {
	return filepath.Base(r.Path)
}

// LinkOutcome reports what the store did for a single record
type LinkOutcome int

const (
	// LinkCreated means a new hard link was made
	LinkCreated LinkOutcome = iota
	// LinkExisting means the destination was already present
	LinkExisting
)

// String returns a human-readable representation of the outcome
func (o LinkOutcome) String() string {
	switch o {
	case LinkCreated:
		return "created"
	case LinkExisting:
		return "existing"
	default:
		return "unknown"
	}
}

// StepResult summarises one scan -> classify -> store pass
type StepResult struct {
	Started        time.Time     // When the step began
	Duration       time.Duration // Wall time of the step
	Candidates     int           // Files whose names matched the log pattern
	Skipped        int           // Candidates without a recognised date header
	Linked         int           // New links created
	AlreadyPresent int           // Records whose destination already existed
}

// Processed returns how many candidates reached a terminal outcome in this step.
func (r StepResult) Processed() int {
	return r.Skipped + r.Linked + r.AlreadyPresent
}
