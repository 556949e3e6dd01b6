package timecalc

import (
	"fmt"
	"time"
)

// Canonical wire formats used everywhere in the pipeline.
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// Calculator converts relative day/hour/minute triples to absolute
// calendar dates and times in a fixed timezone.
type Calculator struct {
	location *time.Location
}

// New creates a Calculator for the given IANA timezone string,
// e.g. "Asia/Shanghai".
func New(timezone string) (*Calculator, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Calculator{location: loc}, nil
}

// Location returns the calculator's timezone.
func (c *Calculator) Location() *time.Location {
	return c.location
}

// Now returns the current instant in the calculator's timezone.
func (c *Calculator) Now() time.Time {
	return time.Now().In(c.location)
}

// Compute resolves (dayOffset, hour, minute) against now into canonical
// date and time strings. dayOffset counts whole days from now's date
// (0 = today, 1 = tomorrow). hour is the absolute hour-of-day on the
// target date (0-23), never an offset from now; minute is 0-59.
// The result is independent of now's own time-of-day.
func (c *Calculator) Compute(now time.Time, dayOffset, hour, minute int) (string, string) {
	now = now.In(c.location)
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, c.location)
	target = target.AddDate(0, 0, dayOffset)
	return target.Format(DateFormat), target.Format(TimeFormat)
}

// ParseDate parses a canonical YYYY-MM-DD string in the calculator's timezone.
func (c *Calculator) ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, date, c.location)
}

// ParseDateTime parses a canonical YYYY-MM-DD date plus HH:MM time into one
// instant in the calculator's timezone.
func (c *Calculator) ParseDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation(DateFormat+" "+TimeFormat, date+" "+clock, c.location)
}

// Split renders an instant back into canonical date and time strings.
func (c *Calculator) Split(t time.Time) (string, string) {
	t = t.In(c.location)
	return t.Format(DateFormat), t.Format(TimeFormat)
}

// ToUTCISO converts a canonical local date and time to a UTC ISO-8601
// string as the task store expects it (YYYY-MM-DDTHH:MM:SS.000Z).
// An empty clock means midnight local time.
func (c *Calculator) ToUTCISO(date, clock string) (string, error) {
	if clock == "" {
		clock = "00:00"
	}
	local, err := c.ParseDateTime(date, clock)
	if err != nil {
		return "", fmt.Errorf("invalid local datetime %q %q: %w", date, clock, err)
	}
	return local.UTC().Format("2006-01-02T15:04:05.000Z"), nil
}

// StartOfDay returns midnight at the start of t's day in the calculator's timezone.
func (c *Calculator) StartOfDay(t time.Time) time.Time {
	t = t.In(c.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.location)
}
