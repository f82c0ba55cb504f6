// Package format renders backend values (timestamps, durations, byte counts)
// the way the admin console displays them.
package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// InvalidDate is what FormatDate renders for input it cannot parse.
const InvalidDate = "Invalid Date"

// DateLayout is the pt-BR date-time rendering used across the console.
const DateLayout = "02/01/2006, 15:04:05"

var ErrInvalidDate = errors.New("invalid date")

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// ParseDate parses the ISO-like timestamps the backend emits. Strings without
// a zone are read in loc; nil loc means time.Local.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// FormatDate renders s as "dd/mm/yyyy, hh:mm:ss" in loc. Unparseable input
// yields InvalidDate rather than an error.
func FormatDate(s string, loc *time.Location) string {
	t, err := ParseDate(s, loc)
	if err != nil {
		return InvalidDate
	}
	return t.Format(DateLayout)
}

// FormatDuration renders seconds as "12.3s", "4m 5s" or "1h 2m".
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 60:
		return strconv.FormatFloat(seconds, 'f', 1, 64) + "s"
	case seconds < 3600:
		minutes := math.Floor(seconds / 60)
		secs := math.Floor(math.Mod(seconds, 60))
		return fmt.Sprintf("%.0fm %.0fs", minutes, secs)
	default:
		hours := math.Floor(seconds / 3600)
		minutes := math.Floor(math.Mod(seconds, 3600) / 60)
		return fmt.Sprintf("%.0fh %.0fm", hours, minutes)
	}
}

const (
	kib = 1024
	mib = 1048576
	gib = 1073741824
)

// FormatFileSize renders a byte count; below 1024 the value is unscaled,
// above it uses binary multiples with two decimals.
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < kib:
		return strconv.FormatInt(bytes, 10) + " B"
	case bytes < mib:
		return strconv.FormatFloat(float64(bytes)/kib, 'f', 2, 64) + " KB"
	case bytes < gib:
		return strconv.FormatFloat(float64(bytes)/mib, 'f', 2, 64) + " MB"
	default:
		return strconv.FormatFloat(float64(bytes)/gib, 'f', 2, 64) + " GB"
	}
}

// FormatCount renders n with pt-BR digit grouping, e.g. 1.234.567.
func FormatCount(n int64) string {
	return ptBR.Sprintf("%d", n)
}
