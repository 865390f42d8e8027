package datetime

import (
	"fmt"
	"strings"
	"time"

	"eventhub/core/constants"
)

const (
	ISODateLayout = "2006-01-02"
	ClockLayout   = "15:04"
)

// dateLayouts are tried in order when the input is not already ISO.
var dateLayouts = []string{
	ISODateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ValidateAndFormatDate accepts an ISO date or any of the known layouts and
// returns the canonical YYYY-MM-DD form. Past dates are accepted; callers
// that care should check IsPastDate and warn.
func ValidateAndFormatDate(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t.Format(ISODateLayout), nil
		}
	}
	return "", fmt.Errorf("unparseable date: %q", input)
}

// IsPastDate reports whether the ISO date falls strictly before now's date.
func IsPastDate(isoDate string, now time.Time) bool {
	t, err := time.ParseInLocation(ISODateLayout, isoDate, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return t.Before(today)
}

// ValidateTimeFormat accepts 24-hour H:MM/HH:MM and 12-hour H:MM AM/PM,
// rejecting out-of-range hours and minutes.
func ValidateTimeFormat(input string) bool {
	_, err := NormalizeTimeFormat(input)
	return err == nil
}

// NormalizeTimeFormat converts any accepted clock string to zero-padded
// 24-hour HH:MM. Already-24-hour input passes through (padded), so the
// function is idempotent on its own output.
func NormalizeTimeFormat(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("time is required")
	}

	upper := strings.ToUpper(input)
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		for _, layout := range []string{"3:04 PM", "3:04PM", "03:04 PM", "03:04PM"} {
			if t, err := time.Parse(layout, upper); err == nil {
				return t.Format(ClockLayout), nil
			}
		}
		return "", fmt.Errorf("invalid 12-hour time: %q", input)
	}

	for _, layout := range []string{ClockLayout, "3:04"} {
		if t, err := time.Parse(layout, input); err == nil {
			return t.Format(ClockLayout), nil
		}
	}
	return "", fmt.Errorf("invalid 24-hour time: %q", input)
}

// CombineInstant builds the single instant an event starts at from its stored
// date and time, interpreted in now's location. A missing or malformed time
// defaults to midnight so a date alone still yields a usable instant.
func CombineInstant(isoDate, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(ISODateLayout, isoDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", isoDate, err)
	}
	hour, minute := 0, 0
	if clock != "" {
		t, err := time.Parse(ClockLayout, clock)
		if err == nil {
			hour, minute = t.Hour(), t.Minute()
		}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}

// ComputeStatus derives the automatic lifecycle status: completed when the
// event's instant is strictly before now, upcoming otherwise. An event later
// today stays upcoming.
func ComputeStatus(isoDate, clock string, now time.Time) string {
	instant, err := CombineInstant(isoDate, clock, now.Location())
	if err != nil {
		return constants.EventStatusUpcoming
	}
	if instant.Before(now) {
		return constants.EventStatusCompleted
	}
	return constants.EventStatusUpcoming
}
