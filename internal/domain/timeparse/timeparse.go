// Package timeparse converts user-supplied date/time fragments into an
// unambiguous UTC instant.
//
// Inputs arrive as numeric strings straight from command arguments. A
// meridiem indicator switches the hour to 12-hour interpretation:
// hour mod 12, plus 12 for "pm". Without one the hour is taken as given.
package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Instant is the normalized result: the absolute instant plus the display
// string shown to users.
type Instant struct {
	At   time.Time // always UTC
	Text string    // e.g. "25/12/2025 8:30 PM" or "25/12/2025 20:30"
}

// Normalize validates the fragments and produces a UTC instant.
// All fragments must parse as integers and form a valid calendar date/time;
// otherwise ErrInvalidTimestamp is returned. Callers must treat that as a
// user input error, never fatal.
func Normalize(day, month, year, hour, minute, meridiem string) (Instant, error) {
	d, err := atoi("day", day)
	if err != nil {
		return Instant{}, err
	}
	mo, err := atoi("month", month)
	if err != nil {
		return Instant{}, err
	}
	y, err := atoi("year", year)
	if err != nil {
		return Instant{}, err
	}
	h, err := atoi("hour", hour)
	if err != nil {
		return Instant{}, err
	}
	mi, err := atoi("minute", minute)
	if err != nil {
		return Instant{}, err
	}

	mer := strings.ToLower(strings.TrimSpace(meridiem))
	switch mer {
	case "", "am", "pm":
	default:
		return Instant{}, fmt.Errorf("%w: meridiem must be am or pm, got %q", ErrInvalidTimestamp, meridiem)
	}
	if mer != "" {
		h = h % 12
		if mer == "pm" {
			h += 12
		}
	}

	if mo < 1 || mo > 12 {
		return Instant{}, fmt.Errorf("%w: month %d out of range", ErrInvalidTimestamp, mo)
	}
	if d < 1 || d > daysIn(mo, y) {
		return Instant{}, fmt.Errorf("%w: day %d out of range for %d/%d", ErrInvalidTimestamp, d, mo, y)
	}
	if h < 0 || h > 23 {
		return Instant{}, fmt.Errorf("%w: hour %d out of range", ErrInvalidTimestamp, h)
	}
	if mi < 0 || mi > 59 {
		return Instant{}, fmt.Errorf("%w: minute %d out of range", ErrInvalidTimestamp, mi)
	}

	at := time.Date(y, time.Month(mo), d, h, mi, 0, 0, time.UTC)
	return Instant{At: at, Text: displayText(d, mo, y, h, mi, mer)}, nil
}

// Renormalize maps an absolute instant back to fragments and normalizes them
// again. Used to prove the round-trip property and to rebuild display text
// after an edit.
func Renormalize(at time.Time) Instant {
	at = at.UTC()
	ins, _ := Normalize(
		strconv.Itoa(at.Day()),
		strconv.Itoa(int(at.Month())),
		strconv.Itoa(at.Year()),
		strconv.Itoa(at.Hour()),
		strconv.Itoa(at.Minute()),
		"",
	)
	return ins
}

func atoi(field, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidTimestamp, field, s)
	}
	return v, nil
}

func daysIn(month, year int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func displayText(d, mo, y, h, mi int, meridiem string) string {
	if meridiem == "" {
		return fmt.Sprintf("%02d/%02d/%04d %d:%02d", d, mo, y, h, mi)
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%02d/%02d/%04d %d:%02d %s", d, mo, y, display, mi, strings.ToUpper(meridiem))
}
