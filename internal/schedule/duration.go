package schedule

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tmarceau/jalon/internal/domain"
)

// maxScanDays bounds every forward day walk. A calendar that cannot satisfy
// a request within a year of scanning is misconfigured, and the walk fails
// with ErrExhausted instead of truncating silently.
const maxScanDays = 365

// Calculator walks calendar days through a Resolver to turn required work
// amounts into end instants, and to sum available hours over a range.
//
// Corrupt days encountered mid-walk are treated as closed and collected as
// warnings; read them with Warnings after the run. Not safe for concurrent
// use: create one calculator per engine invocation.
type Calculator struct {
	res      *Resolver
	warnings []*IntegrityError
}

func NewCalculator(res *Resolver) *Calculator {
	return &Calculator{res: res}
}

// Warnings returns the integrity warnings collected so far, in encounter
// order. Callers surface them alongside the result.
func (c *Calculator) Warnings() []*IntegrityError {
	return c.warnings
}

// resolve treats a corrupt day as closed, recording the warning.
func (c *Calculator) resolve(ctx context.Context, calendarID string, date time.Time) (DaySchedule, error) {
	sched, err := c.res.ResolveDay(ctx, calendarID, date)
	if err != nil {
		var ie *IntegrityError
		if errors.As(err, &ie) {
			c.warnings = append(c.warnings, ie)
			return DaySchedule{}, nil
		}
		return DaySchedule{}, err
	}
	return sched, nil
}

// AddWorkingDays returns the end instant after dayCount open days strictly
// following the start date: each open day after start counts for one, and
// the end lands on the last counted day at its closing time. A dayCount of
// zero returns start unchanged.
func (c *Calculator) AddWorkingDays(ctx context.Context, calendarID string, start time.Time, dayCount int) (time.Time, error) {
	if dayCount < 0 {
		return time.Time{}, fmt.Errorf("day count %d: %w", dayCount, ErrInvalidDuration)
	}
	if dayCount == 0 {
		return start, nil
	}

	day := domain.DateOf(start)
	counted := 0
	for i := 0; i < maxScanDays; i++ {
		day = day.AddDate(0, 0, 1)
		sched, err := c.resolve(ctx, calendarID, day)
		if err != nil {
			return time.Time{}, err
		}
		if !sched.Open {
			continue
		}
		counted++
		if counted == dayCount {
			return sched.EndOn(day), nil
		}
	}
	return time.Time{}, fmt.Errorf("calendar %s: %d of %d working days found in %d days: %w",
		calendarID, counted, dayCount, maxScanDays, ErrExhausted)
}

// AddWorkingHours returns the exact end instant after hourCount working
// hours from start, honoring the start-of-day offset and each day's break
// window. The start must land on an open day before its closing time: a
// start earlier than opening is clamped forward to opening (same-date
// alignment), and a start inside the break resumes at break end, but a
// closed day or a start at or after closing fails with ErrStartNotWorking.
// Use AlignToWorkingTime first when the start may need to cross dates.
func (c *Calculator) AddWorkingHours(ctx context.Context, calendarID string, start time.Time, hourCount float64) (time.Time, error) {
	if hourCount <= 0 {
		return time.Time{}, fmt.Errorf("hour count %v: %w", hourCount, ErrInvalidDuration)
	}

	remaining := int(math.Round(hourCount * 60))
	day := domain.DateOf(start)

	sched, err := c.resolve(ctx, calendarID, day)
	if err != nil {
		return time.Time{}, err
	}
	if !sched.Open {
		return time.Time{}, fmt.Errorf("%s on calendar %s: %w", day.Format("2006-01-02"), calendarID, ErrStartNotWorking)
	}
	cursor := domain.MinuteOf(start)
	if cursor < sched.StartMin {
		cursor = sched.StartMin
	}
	if cursor >= sched.EndMin {
		return time.Time{}, fmt.Errorf("%s %s on calendar %s: %w",
			day.Format("2006-01-02"), domain.FormatClock(cursor), calendarID, ErrStartNotWorking)
	}
	// A start inside the break resumes when the break ends.
	if sched.HasBreak() && cursor >= *sched.BreakStartMin && cursor < *sched.BreakEndMin {
		cursor = *sched.BreakEndMin
	}

	for i := 0; i < maxScanDays; i++ {
		if sched.Open {
			if end, ok := consumeDay(sched, cursor, &remaining); ok {
				return domain.AtMinute(day, end), nil
			}
		}
		day = day.AddDate(0, 0, 1)
		sched, err = c.resolve(ctx, calendarID, day)
		if err != nil {
			return time.Time{}, err
		}
		cursor = sched.StartMin
	}
	return time.Time{}, fmt.Errorf("calendar %s: %s of work unplaced after %d days: %w",
		calendarID, formatHours(remaining), maxScanDays, ErrExhausted)
}

// consumeDay burns minutes from the day's working segments starting at
// cursor. It returns the end minute-of-day if the remainder fits today.
func consumeDay(sched DaySchedule, cursor int, remaining *int) (int, bool) {
	type segment struct{ from, to int }
	var segs []segment
	if sched.HasBreak() && cursor < *sched.BreakStartMin {
		segs = []segment{{cursor, *sched.BreakStartMin}, {*sched.BreakEndMin, sched.EndMin}}
	} else {
		segs = []segment{{cursor, sched.EndMin}}
	}
	for _, seg := range segs {
		span := seg.to - seg.from
		if span <= 0 {
			continue
		}
		if *remaining <= span {
			return seg.from + *remaining, true
		}
		*remaining -= span
	}
	return 0, false
}

// AlignToWorkingTime advances an instant to the next moment inside working
// time: unchanged if already inside an open window, otherwise the opening
// time of the next open day (or after the break, for an instant inside one).
func (c *Calculator) AlignToWorkingTime(ctx context.Context, calendarID string, t time.Time) (time.Time, error) {
	day := domain.DateOf(t)
	minute := domain.MinuteOf(t)
	for i := 0; i < maxScanDays; i++ {
		sched, err := c.resolve(ctx, calendarID, day)
		if err != nil {
			return time.Time{}, err
		}
		if sched.Open && minute < sched.EndMin {
			if minute < sched.StartMin {
				minute = sched.StartMin
			}
			if sched.HasBreak() && minute >= *sched.BreakStartMin && minute < *sched.BreakEndMin {
				minute = *sched.BreakEndMin
			}
			return domain.AtMinute(day, minute), nil
		}
		day = day.AddDate(0, 0, 1)
		minute = 0
	}
	return time.Time{}, fmt.Errorf("calendar %s: no open day within %d days of %s: %w",
		calendarID, maxScanDays, t.Format("2006-01-02"), ErrExhausted)
}

// WorkingHoursBetween sums the nominal working hours of every calendar date
// in [start, end]. Whole-day granularity: intended for capacity estimates,
// not exact end placement. An inverted range yields zero.
func (c *Calculator) WorkingHoursBetween(ctx context.Context, calendarID string, start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, nil
	}
	last := domain.DateOf(end)
	total := 0.0
	for day := domain.DateOf(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		sched, err := c.resolve(ctx, calendarID, day)
		if err != nil {
			return 0, err
		}
		if sched.Open {
			total += sched.NominalHours
		}
	}
	return total, nil
}

func formatHours(minutes int) string {
	return fmt.Sprintf("%.2fh", float64(minutes)/60)
}
