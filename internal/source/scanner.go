// Package source lists rotated log files in the watched directory.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ErrNotDirectory is returned when the watched path exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// logNamePattern matches output_log_NN-NN-NN.txt exactly.
var logNamePattern = regexp.MustCompile(`^output_log_[0-9]{2}-[0-9]{2}-[0-9]{2}\.txt$`)

// IsLogFileName reports whether name has the shape of a rotated log file.
func IsLogFileName(name string) bool {
	return logNamePattern.MatchString(name)
}

// Scanner enumerates candidate log files in a single directory.
type Scanner struct {
	dir string
}

// NewScanner creates a Scanner for dir. The directory is not touched until List.
func NewScanner(dir string) *Scanner {
	return &Scanner{dir: filepath.Clean(dir)}
}

// Dir returns the watched directory.
func (s *Scanner) Dir() string {
	return s.dir
}

// List returns the paths of regular files in the watched directory whose names
// match the log pattern. The directory is not walked recursively.
//
// Any failure to list the directory or to read an entry's type fails the whole
// call; a partial listing is never returned.
func (s *Scanner) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) && isNotDir(pathErr) {
			return nil, fmt.Errorf("list %s: %w", s.dir, ErrNotDirectory)
		}
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !IsLogFileName(entry.Name()) {
			continue
		}
		// Type comes from the directory entry itself, so a symlink named like a
		// log is reported as a symlink and excluded.
		if !entry.Type().IsRegular() {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}

	return paths, nil
}

func isNotDir(err *os.PathError) bool {
	info, statErr := os.Stat(err.Path)
	return statErr == nil && !info.IsDir()
}
