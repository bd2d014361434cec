// Package cli holds argument parsing shared by commands.
package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// "2h ago", "3d", "1mo ago"
var relativeRegex = regexp.MustCompile(`^(\d+)\s*(mo|w|d|h|m)(\s+ago)?$`)

// epochMillisMin separates epoch milliseconds from other digit strings;
// anything shorter than 2001-09-09 in milliseconds is not a timestamp.
const epochMillisMin = 1_000_000_000_000

// ParsePastTime parses a point in the past for history filters.
//
// Accepted forms: "today", "yesterday", a weekday ("monday" is the most
// recent Monday, today excluded), a relative offset ("2h ago" or "2h"),
// a date (2006-01-02), RFC3339, or epoch milliseconds.
func ParsePastTime(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	input := strings.ToLower(raw)

	switch input {
	case "now":
		return now, nil
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	if weekday, ok := weekdays[strings.TrimPrefix(input, "last ")]; ok {
		base := startOfDay(now)
		delta := (int(base.Weekday()) - int(weekday) + 7) % 7
		if delta == 0 {
			delta = 7
		}
		return base.AddDate(0, 0, -delta), nil
	}

	if m := relativeRegex.FindStringSubmatch(input); m != nil {
		value, err := strconv.Atoi(m[1])
		if err != nil || value < 1 {
			return time.Time{}, fmt.Errorf("invalid relative time %q", raw)
		}
		return goBack(now, value, m[2]), nil
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms >= epochMillisMin {
		return time.UnixMilli(ms), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid time expression %q", raw)
}

// EpochMillis formats t the way LinkedIn time filters expect.
func EpochMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func goBack(now time.Time, value int, unit string) time.Time {
	switch unit {
	case "mo":
		return now.AddDate(0, -value, 0)
	case "w":
		return now.AddDate(0, 0, -7*value)
	case "d":
		return now.AddDate(0, 0, -value)
	case "h":
		return now.Add(-time.Duration(value) * time.Hour)
	default:
		return now.Add(-time.Duration(value) * time.Minute)
	}
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}
