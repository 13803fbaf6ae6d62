package domain

import (
	"fmt"
	"time"
)

// Times of day are minutes since midnight; dates are civil dates stored as
// midnight instants in the calendar's local time.

const MinutesPerDay = 24 * 60

// ParseClock parses an "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q (want HH:MM)", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// DateOf truncates an instant to its civil date (midnight, same location).
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MinuteOf returns the minute-of-day of an instant.
func MinuteOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// AtMinute places a minute-of-day on the given civil date.
func AtMinute(date time.Time, min int) time.Time {
	d := DateOf(date)
	return d.Add(time.Duration(min) * time.Minute)
}

// SameDate reports whether two instants fall on the same civil date.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
