package format

import (
	"errors"
	"strings"
	"time"
)

const (
	isoDay = "2006-01-02"
	brDay  = "02/01/2006"
)

// ErrInvalidDate is returned when a user-entered date cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// ParseISO parses the timestamps the backend emits: RFC 3339 with or without
// fractional seconds, or a bare yyyy-mm-dd day.
func ParseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if len(s) >= len(isoDay) {
		if t, err := time.Parse(isoDay, s[:len(isoDay)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateBR renders a backend timestamp as dd/mm/yyyy, or "" when it is absent
// or malformed.
func DateBR(iso string) string {
	t, ok := ParseISO(iso)
	if !ok {
		return ""
	}
	return t.UTC().Format(brDay)
}

// Day renders t as yyyy-mm-dd, the form the backend expects in query strings.
func Day(t time.Time) string {
	return t.Format(isoDay)
}

// ParseDate reads a user-entered date in either dd/mm/yyyy or yyyy-mm-dd.
// The result is midnight UTC, so ISO and DateBR give back the typed day in
// any local zone.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{brDay, isoDay} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// MonthRange returns the first and last day of the month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}

// ISO renders t in UTC with millisecond precision, the form the backend
// stores for user-entered dates.
func ISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
