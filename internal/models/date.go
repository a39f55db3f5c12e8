package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned when year/month/day do not name a real calendar day.
var ErrInvalidDate = errors.New("invalid calendar date")

// CalendarDate is a timezone-free year/month/day triple.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewCalendarDate validates the triple against the proleptic Gregorian calendar.
// Out-of-range values (month 13, day 31 in April, Feb 29 in a common year) are
// rejected rather than normalised the way time.Date would.
func NewCalendarDate(year, month, day int) (CalendarDate, error) {
	if year < 0 || year > 9999 || month < 1 || month > 12 || day < 1 {
		return CalendarDate{}, fmt.Errorf("%w: %04d.%02d.%02d", ErrInvalidDate, year, month, day)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return CalendarDate{}, fmt.Errorf("%w: %04d.%02d.%02d", ErrInvalidDate, year, month, day)
	}
	return CalendarDate{Year: year, Month: time.Month(month), Day: day}, nil
}

// String formats the date as YYYY-MM-DD.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MonthKey returns the first partition level, YYYY-MM.
func (d CalendarDate) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// DayKey returns the second partition level, DD.
func (d CalendarDate) DayKey() string {
	return fmt.Sprintf("%02d", d.Day)
}
