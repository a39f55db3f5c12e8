package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCalendarDate(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
		wantErr          bool
	}{
		{"ordinary", 2024, 3, 7, false},
		{"leap day", 2024, 2, 29, false},
		{"common year feb 29", 2023, 2, 29, true},
		{"april 31", 2024, 4, 31, true},
		{"month 13", 2024, 13, 1, true},
		{"month 0", 2024, 0, 1, true},
		{"day 0", 2024, 1, 0, true},
		{"year 0", 0, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewCalendarDate(tt.year, tt.month, tt.day)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, d.Year)
			assert.Equal(t, time.Month(tt.month), d.Month)
			assert.Equal(t, tt.day, d.Day)
		})
	}
}

func TestCalendarDateKeys(t *testing.T) {
	d, err := NewCalendarDate(2024, 3, 7)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-07", d.String())
	assert.Equal(t, "2024-03", d.MonthKey())
	assert.Equal(t, "07", d.DayKey())
}

func TestLogRecordFileName(t *testing.T) {
	rec := LogRecord{Path: "/src/output_log_24-03-07.txt"}
	assert.Equal(t, "output_log_24-03-07.txt", rec.FileName())
}

func TestStepResultProcessed(t *testing.T) {
	r := StepResult{Candidates: 5, Skipped: 1, Linked: 2, AlreadyPresent: 1}
	assert.Equal(t, 4, r.Processed())
	assert.Equal(t, "created", LinkCreated.String())
	assert.Equal(t, "existing", LinkExisting.String())
}
