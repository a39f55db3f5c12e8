// Package collection maintains the date-partitioned tree of hard links.
//
// The tree is strictly additive: directories and links are created, nothing
// is ever removed, moved or overwritten.
package collection

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/koba789/unrotate/internal/models"
)

// Store places dated log records under <root>/<YYYY>-<MM>/<DD>/.
type Store struct {
	root string
}

// NewStore creates a Store rooted at root. Nothing is created until Link.
func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

// Root returns the collection root.
func (s *Store) Root() string {
	return s.root
}

// PartitionDir returns the directory that holds links for date.
func (s *Store) PartitionDir(date models.CalendarDate) string {
	return filepath.Join(s.root, date.MonthKey(), date.DayKey())
}

// Destination returns where the link for rec lives.
func (s *Store) Destination(rec models.LogRecord) string {
	return filepath.Join(s.PartitionDir(rec.Date), rec.FileName())
}

// Link hard-links rec.Path into its partition directory, creating the directory
// if needed. An existing destination counts as success and reports LinkExisting.
func (s *Store) Link(rec models.LogRecord) (models.LinkOutcome, string, error) {
	dir := s.PartitionDir(rec.Date)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, "", fmt.Errorf("create partition %s: %w", dir, err)
	}

	dest := filepath.Join(dir, rec.FileName())
	if err := os.Link(rec.Path, dest); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return models.LinkExisting, dest, nil
		}
		return 0, "", fmt.Errorf("link %s -> %s: %w", rec.Path, dest, err)
	}

	return models.LinkCreated, dest, nil
}
