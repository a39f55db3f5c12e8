// Package classifier decides whether a candidate file is a log and which day it
// belongs to, using only the first bytes of its content.
package classifier

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/koba789/unrotate/internal/models"
)

// HeaderSize is the number of bytes read from the start of every candidate.
const HeaderSize = 30

var (
	// ErrTruncated is returned when a candidate is shorter than HeaderSize.
	ErrTruncated = errors.New("file too small to hold a log header")

	// ErrInvalidDate is returned when the header names a day that does not exist.
	ErrInvalidDate = models.ErrInvalidDate
)

// headerPattern matches "YYYY.MM.DD HH:MM:SS " at the start of any line.
var headerPattern = regexp.MustCompile(`(?m)^([0-9]{4})\.([0-9]{2})\.([0-9]{2}) [0-9]{2}:[0-9]{2}:[0-9]{2} `)

// Classify opens path read-only, reads its header and returns the dated record.
// A nil record with a nil error means the file is not a recognised log.
func Classify(path string) (*models.LogRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read header of %s: %w", path, ErrTruncated)
		}
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	date, ok, err := ParseHeader(header)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", path, err)
	}
	if !ok {
		return nil, nil
	}

	return &models.LogRecord{Path: path, Date: date}, nil
}

// ParseHeader extracts the date from the first line of header that starts with a
// log timestamp. ok is false when no line matches.
func ParseHeader(header []byte) (date models.CalendarDate, ok bool, err error) {
	m := headerPattern.FindSubmatch(header)
	if m == nil {
		return models.CalendarDate{}, false, nil
	}

	year := mustAtoi(m[1])
	month := mustAtoi(m[2])
	day := mustAtoi(m[3])

	date, err = models.NewCalendarDate(year, month, day)
	if err != nil {
		return models.CalendarDate{}, false, err
	}
	return date, true, nil
}

// mustAtoi parses digits already constrained by headerPattern. A failure here
// is a bug, not bad input.
func mustAtoi(b []byte) int {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		panic(fmt.Sprintf("classifier: matched digit group %q did not parse: %v", b, err))
	}
	return n
}
