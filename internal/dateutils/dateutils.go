// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutStatement = "02 Jan 2006" // Primary bank-export layout
	DateLayoutISO       = "2006-01-02"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutUS        = "01/02/2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
)

// CommonFormats is the ordered list of layouts tried when parsing dates.
// The statement layout comes first since it is what exports actually use.
var CommonFormats = []string{
	DateLayoutStatement,
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutFull,
	"02/01/2006",
	DateLayoutUS,
	"02-01-2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 02, 2006",
	"2-Jan-2006",
}

// Clock supplies the current time. Injecting it keeps date-fallback
// behavior deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock is a Clock pinned to a single instant, for tests.
type FixedClock struct {
	Time time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time { return c.Time }

// ParseDate attempts to parse a date string using the common formats.
// Returns the parsed time and the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseDateOrNow parses a date string, falling back to the clock's current
// time when no layout matches. Statement rows are never rejected for an
// unreadable date.
func ParseDateOrNow(dateStr string, clock Clock) time.Time {
	if t, _, err := ParseDate(dateStr); err == nil {
		return t
	}
	return clock.Now()
}

// CleanDateString trims and collapses whitespace in a date string.
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	re := regexp.MustCompile(`\s+`)
	return re.ReplaceAllString(dateStr, " ")
}

// DaysBetween returns the whole-day distance between two dates, ignoring
// the time-of-day component.
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

// SameCalendarDay reports whether two times fall on the same calendar day.
func SameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// StartOfMonth returns the first day of the month for a given date.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date.
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}
