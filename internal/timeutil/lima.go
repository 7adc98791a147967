package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Lima is the Peru time location (UTC-5, no DST)
var Lima *time.Location

func init() {
	var err error
	Lima, err = time.LoadLocation("America/Lima")
	if err != nil {
		// Fallback when tzdata is missing from the image
		Lima = time.FixedZone("PET", -5*60*60)
	}
}

// Now returns the current time in Lima
func Now() time.Time {
	return time.Now().In(Lima)
}

// ToLima converts any time to Lima
func ToLima(t time.Time) time.Time {
	return t.In(Lima)
}

// StartOfMonth returns 00:00 of the first day of t's month in Lima
func StartOfMonth(t time.Time) time.Time {
	l := t.In(Lima)
	return time.Date(l.Year(), l.Month(), 1, 0, 0, 0, 0, Lima)
}

// SameMonth reports whether a and b fall in the same calendar month in Lima
func SameMonth(a, b time.Time) bool {
	return StartOfMonth(a).Equal(StartOfMonth(b))
}

// Layouts the lab backend is known to emit for dates
var backendLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
	time.RFC1123,
	DisplayLayout,
}

var ErrEmptyDate = errors.New("empty date")

// ParseBackendDate parses any of the date shapes returned by the backend.
// Dates without zone information are interpreted in Lima.
func ParseBackendDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmptyDate
	}
	var lastErr error
	for _, layout := range backendLayouts {
		t, err := time.ParseInLocation(layout, value, Lima)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// DateOnly strips a time component from an ISO date string ("2025-10-29T00:00:00" -> "2025-10-29")
func DateOnly(value string) string {
	if i := strings.IndexByte(value, 'T'); i >= 0 {
		return value[:i]
	}
	return value
}

// FormatDisplay renders a backend date as dd/mm/yyyy, or the raw value if it cannot be parsed
func FormatDisplay(value string) string {
	t, err := ParseBackendDate(value)
	if err != nil {
		return value
	}
	return t.Format(DisplayLayout)
}

// TimeAgo renders the elapsed time between t and now in Spanish.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "Recientemente"
	}
	d := now.Sub(t)
	days := int(d.Hours()) / 24
	hours := int(d.Hours())
	mins := int(d.Minutes())
	switch {
	case days > 1:
		return fmt.Sprintf("Hace %d días", days)
	case days == 1:
		return "Hace 1 día"
	case hours > 0:
		return fmt.Sprintf("Hace %d h", hours)
	case mins > 0:
		return fmt.Sprintf("Hace %d min", mins)
	}
	return "Hace un momento"
}

// Common layouts
const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	DateTimeLayout  = "2006-01-02 15:04:05"
	DisplayLayout   = "02/01/2006"
	GeneratedLayout = "02/01/2006 15:04"
)
