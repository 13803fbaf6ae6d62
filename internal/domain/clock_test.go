package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock_Valid(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"08:00": 480,
		"12:30": 750,
		"23:59": 1439,
		"9:05":  545,
	}
	for s, want := range cases {
		got, err := ParseClock(s)
		require.NoError(t, err, "should accept %q", s)
		assert.Equal(t, want, got, "minutes for %q", s)
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, s := range []string{"", "morning", "24:00", "12:60", "-1:00"} {
		_, err := ParseClock(s)
		assert.Error(t, err, "should reject %q", s)
	}
}

func TestFormatClock_RoundTrip(t *testing.T) {
	for _, min := range []int{0, 480, 750, 960, 1439} {
		got, err := ParseClock(FormatClock(min))
		require.NoError(t, err)
		assert.Equal(t, min, got)
	}
}

func TestAtMinute_DropsTimeOfDay(t *testing.T) {
	noon := time.Date(2026, 3, 2, 12, 45, 33, 0, time.Local)
	got := AtMinute(noon, 480)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local), got)
}

func TestSameDate(t *testing.T) {
	a := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	b := time.Date(2026, 3, 2, 23, 59, 0, 0, time.Local)
	c := time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local)
	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(a, c))
}
