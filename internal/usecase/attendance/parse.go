package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NormalizeBadge maps a terminal badge id to an employee id.
func NormalizeBadge(raw string, threshold, modulo uint64) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid badge id %q", raw)
	}
	if modulo > 0 && n >= threshold {
		n %= modulo
	}
	if n == 0 {
		return 0, fmt.Errorf("badge id %q does not map to an employee", raw)
	}
	return n, nil
}

// layouts with an explicit offset; the offset in the value wins over the device zone
var zonedLayouts = []string{
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	time.RFC3339Nano,
}

// layouts without offset; read as device local time
var localLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDeviceTime reads a terminal timestamp and returns it in UTC.
func ParseDeviceTime(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	// JS-style dates end with a zone name in parentheses
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}
	for _, l := range zonedLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	for _, l := range localLayouts {
		if t, err := time.ParseInLocation(l, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp format: %s", raw)
}

// dayBounds returns the UTC instants bounding the local calendar day containing t.
func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	l := t.In(loc)
	start := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

func localDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
