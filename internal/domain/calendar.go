package domain

import (
	"fmt"
	"time"
)

// WorkCalendar defines working time for a site (or, with a nil SiteID, the
// unscoped default every site falls back to). It owns one WeekdayPattern per
// weekday plus per-date DayOverride exceptions.
type WorkCalendar struct {
	ID        string
	SiteID    *string
	Name      string
	Year      int
	Active    bool
	Pattern   []WeekdayPattern
	Overrides []DayOverride
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PatternFor returns the weekly pattern entry for the given weekday
// (0 = Sunday, matching time.Weekday), or nil if none is defined.
func (c *WorkCalendar) PatternFor(weekday time.Weekday) *WeekdayPattern {
	for i := range c.Pattern {
		if c.Pattern[i].Weekday == int(weekday) {
			return &c.Pattern[i]
		}
	}
	return nil
}

// OverrideFor returns the override for the given civil date, or nil.
// At most one override exists per (calendar, date) pair.
func (c *WorkCalendar) OverrideFor(date time.Time) *DayOverride {
	d := DateOf(date)
	for i := range c.Overrides {
		if SameDate(c.Overrides[i].Date, d) {
			return &c.Overrides[i]
		}
	}
	return nil
}

// WeekdayPattern is the default schedule for one weekday of a calendar.
// Times are minutes since midnight; the break window is optional.
type WeekdayPattern struct {
	CalendarID    string
	Weekday       int // 0-6, Sunday = 0
	Kind          DayKind
	StartMin      int
	EndMin        int
	BreakStartMin *int
	BreakEndMin   *int
	NominalHours  float64
}

// Validate enforces the pattern invariants: an open day needs a positive
// span and any break window must sit inside it.
func (p *WeekdayPattern) Validate() error {
	if p.Weekday < 0 || p.Weekday > 6 {
		return fmt.Errorf("weekday %d out of range 0-6", p.Weekday)
	}
	if p.Kind != DayOpen {
		return nil
	}
	return validateDayWindow(p.StartMin, p.EndMin, p.BreakStartMin, p.BreakEndMin)
}

// DayOverride replaces the weekly default for one concrete date (holiday,
// special hours). FromTemplate marks overrides stamped out of a recurring
// holiday template rather than entered one-off.
type DayOverride struct {
	ID            string
	CalendarID    string
	Date          time.Time
	Kind          DayKind
	StartMin      *int
	EndMin        *int
	BreakStartMin *int
	BreakEndMin   *int
	FixedHours    *float64
	FromTemplate  bool
	CreatedAt     time.Time
}

// Validate enforces the override invariants from the data model: an "open"
// override must define start and end, and the break window must be ordered
// and contained in [start, end].
func (o *DayOverride) Validate() error {
	if o.Kind != DayOpen {
		return nil
	}
	if o.StartMin == nil || o.EndMin == nil {
		return fmt.Errorf("open override on %s must define start and end", o.Date.Format("2006-01-02"))
	}
	return validateDayWindow(*o.StartMin, *o.EndMin, o.BreakStartMin, o.BreakEndMin)
}

func validateDayWindow(start, end int, breakStart, breakEnd *int) error {
	if start < 0 || end > MinutesPerDay || start >= end {
		return fmt.Errorf("day window %s-%s is not a positive span", FormatClock(start), FormatClock(end))
	}
	if (breakStart == nil) != (breakEnd == nil) {
		return fmt.Errorf("break window must define both bounds")
	}
	if breakStart != nil {
		if *breakStart >= *breakEnd {
			return fmt.Errorf("break %s-%s is not a positive span", FormatClock(*breakStart), FormatClock(*breakEnd))
		}
		if *breakStart < start || *breakEnd > end {
			return fmt.Errorf("break %s-%s lies outside day window %s-%s",
				FormatClock(*breakStart), FormatClock(*breakEnd), FormatClock(start), FormatClock(end))
		}
	}
	return nil
}
