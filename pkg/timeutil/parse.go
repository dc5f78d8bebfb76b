// Package timeutil parses flight designators, user-entered dates and
// provider timestamps, and formats instants for display. Everything here is
// UTC: the service deliberately shows no local times.
package timeutil

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidDesignator  = errors.New("invalid flight designator")
	ErrInvalidDate        = errors.New("invalid date")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// Placeholder is rendered wherever a timestamp or field is absent.
const Placeholder = "—"

// DisplayLayout is the wire-to-human timestamp layout, always UTC.
const DisplayLayout = "02.01.2006 15:04 UTC"

var (
	designatorPattern = regexp.MustCompile(`^[A-Z0-9]{2,3}[0-9]{1,5}$`)
	datePattern       = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
)

// NormalizeDesignator uppercases the input, strips spaces and hyphens and
// validates the result against the airline designator shape (2-3
// alphanumerics followed by 1-5 digits, e.g. SU123, BT767, W6123).
func NormalizeDesignator(input string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	if !designatorPattern.MatchString(s) {
		return "", ErrInvalidDesignator
	}
	return s, nil
}

// ParseDate parses a strict DD.MM.YYYY date and anchors it at 00:00 UTC.
// The result is a selection anchor for occurrence matching, not an event
// time. Dates that do not exist on the calendar (31.02.2025) are rejected.
func ParseDate(input string) (time.Time, error) {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return time.Time{}, ErrInvalidDate
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31.02 becomes 02.03 or 03.03), so a
	// changed component means the date never existed.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ToUTCInstant parses an ISO-8601 timestamp with or without an explicit
// offset or Z suffix. A timestamp with no offset is treated as already UTC.
// The result is always normalized to UTC.
func ToUTCInstant(ts string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrMalformedTimestamp
}

// FormatTimestamp renders a provider timestamp as "DD.MM.YYYY HH:MM UTC".
// Absent or unparsable values render as the placeholder so one bad field
// never breaks a whole card.
func FormatTimestamp(ts string) string {
	if ts == "" {
		return Placeholder
	}
	t, err := ToUTCInstant(ts)
	if err != nil {
		return Placeholder
	}
	return FormatInstant(t)
}

// FormatInstant renders an instant as "DD.MM.YYYY HH:MM UTC".
func FormatInstant(t time.Time) string {
	return t.UTC().Format(DisplayLayout)
}
