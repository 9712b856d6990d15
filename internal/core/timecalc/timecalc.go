// Package timecalc converts timestamp and clock-time pairs into decimal
// working hours. All functions are pure; callers supply every input including
// the current time.
package timecalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// NoValue is the display form for an absent duration. It is distinct from the
// rendering of a zero-length duration.
const NoValue = "-"

// HoursBetween returns the signed difference between two instants in decimal
// hours. Both arguments are absolute timestamps, so no midnight rollover
// applies: a negative result means the caller passed the pair in the wrong
// order and is returned as-is rather than corrected.
func HoursBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// HoursBetweenClock returns the elapsed hours between two "HH:MM" clock times,
// rounded to two decimals. An end strictly earlier than the start is read as
// crossing midnight and gets a full day added; equal times yield 0, never 24.
func HoursBetweenClock(start, end string) (float64, error) {
	startMin, err := parseClock(start)
	if err != nil {
		return 0, err
	}
	endMin, err := parseClock(end)
	if err != nil {
		return 0, err
	}

	diff := endMin - startMin
	if diff < 0 {
		diff += minutesPerDay
	}
	return math.Round(float64(diff)/60*100) / 100, nil
}

// Parts splits a decimal-hour value into whole hours and remainder minutes.
// When the minute remainder rounds up to 60 it carries into the hour, so
// 1.999 becomes (2, 0) rather than (1, 60).
func Parts(hours float64) (int, int) {
	h := int(math.Floor(hours))
	m := int(math.Round((hours - math.Floor(hours)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	return h, m
}

// Format renders a decimal-hour value for display. A nil input produces the
// NoValue sentinel. Compact mode is the dense calendar-cell form; the long
// form spells out hours and minutes.
func Format(hours *float64, compact bool) string {
	if hours == nil {
		return NoValue
	}
	if compact {
		return fmt.Sprintf("%.1fh", *hours)
	}
	h, m := Parts(*hours)
	return fmt.Sprintf("%d hours %d minutes", h, m)
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return h*60 + m, nil
}
