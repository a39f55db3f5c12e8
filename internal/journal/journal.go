// Package journal keeps an audit trail of the links the collector created.
//
// The journal is write-mostly history for people; the collector never reads
// it back to decide what to link. Losing or deleting it changes nothing about
// how the collection tree is maintained.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/koba789/unrotate/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

const timeLayout = time.RFC3339Nano

// Entry is one recorded link.
type Entry struct {
	ID       int64
	RunID    string
	Source   string
	Dest     string
	LogDate  string // YYYY-MM-DD taken from the log header
	LinkedAt time.Time
}

// PartitionCount is the number of recorded links for one day partition.
type PartitionCount struct {
	LogDate string
	Links   int
}

// Journal is a SQLite-backed link history.
type Journal struct {
	db     *sql.DB
	dbPath string
}

// Open opens (creating if needed) the journal database at dbPath.
// ":memory:" gives a throwaway in-memory journal.
func Open(dbPath string) (*Journal, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer goroutine; a single connection also keeps ":memory:" coherent.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	j := &Journal{db: db, dbPath: dbPath}
	if err := j.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return j, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path.
func (j *Journal) Path() string {
	return j.dbPath
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// BeginRun registers a collector run and returns its id.
func (j *Journal) BeginRun(ctx context.Context, sourceDir, collectionRoot string) (string, error) {
	runID := uuid.New().String()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, source_dir, collection_root) VALUES (?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(timeLayout), sourceDir, collectionRoot)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return runID, nil
}

// RecordLink stores one newly created link.
func (j *Journal) RecordLink(ctx context.Context, runID string, rec models.LogRecord, dest string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO links (run_id, source_path, dest_path, log_date, linked_at) VALUES (?, ?, ?, ?, ?)`,
		runID, rec.Path, dest, rec.Date.String(), time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("record link %s: %w", dest, err)
	}
	return nil
}

// ForRun binds the journal to a run id so it can be handed to the collector.
func (j *Journal) ForRun(runID string) *RunRecorder {
	return &RunRecorder{journal: j, runID: runID}
}

// RunRecorder records links under a fixed run id.
type RunRecorder struct {
	journal *Journal
	runID   string
}

// RunID returns the run this recorder writes under.
func (r *RunRecorder) RunID() string {
	return r.runID
}

// RecordLink stores one newly created link for the bound run.
func (r *RunRecorder) RecordLink(ctx context.Context, rec models.LogRecord, dest string) error {
	return r.journal.RecordLink(ctx, r.runID, rec, dest)
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, run_id, source_path, dest_path, log_date, linked_at
		 FROM links ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var linkedAt string
		if err := rows.Scan(&e.ID, &e.RunID, &e.Source, &e.Dest, &e.LogDate, &linkedAt); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		if e.LinkedAt, err = time.Parse(timeLayout, linkedAt); err != nil {
			return nil, fmt.Errorf("parse linked_at %q: %w", linkedAt, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByPartition returns link counts per log date, newest date first.
func (j *Journal) CountByPartition(ctx context.Context) ([]PartitionCount, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT log_date, COUNT(*) FROM links GROUP BY log_date ORDER BY log_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query partitions: %w", err)
	}
	defer rows.Close()

	var counts []PartitionCount
	for rows.Next() {
		var c PartitionCount
		if err := rows.Scan(&c.LogDate, &c.Links); err != nil {
			return nil, fmt.Errorf("scan partition: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
