package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/tmarceau/jalon/internal/domain"
)

// DaySchedule is the effective working-time definition for one civil date.
// Times are minutes since midnight. A closed day carries no time fields.
type DaySchedule struct {
	Open          bool
	StartMin      int
	EndMin        int
	BreakStartMin *int
	BreakEndMin   *int
	NominalHours  float64
}

// HasBreak reports whether the day defines a break window.
func (s DaySchedule) HasBreak() bool {
	return s.BreakStartMin != nil && s.BreakEndMin != nil
}

// StartOn places the day's opening time on the given date.
func (s DaySchedule) StartOn(date time.Time) time.Time {
	return domain.AtMinute(date, s.StartMin)
}

// EndOn places the day's closing time on the given date.
func (s DaySchedule) EndOn(date time.Time) time.Time {
	return domain.AtMinute(date, s.EndMin)
}

// CalendarSource is the storage collaborator the resolver reads through.
// Calendar returns the full definition (weekly pattern plus overrides) or
// nil when the id is unknown.
type CalendarSource interface {
	Calendar(ctx context.Context, calendarID string) (*domain.WorkCalendar, error)
}

// Resolver resolves the effective day schedule for (calendar, date): a
// per-date override wins over the weekly pattern, and anything unresolved or
// corrupt is closed. Calendars are cached per resolver, so a resolver sees
// one consistent snapshot; create a fresh one per engine invocation.
type Resolver struct {
	src   CalendarSource
	cache map[string]*domain.WorkCalendar
}

func NewResolver(src CalendarSource) *Resolver {
	return &Resolver{src: src, cache: make(map[string]*domain.WorkCalendar)}
}

// ResolveDay returns the effective schedule for the given date.
//
// A corrupt "open" definition (missing or inverted window) returns a closed
// schedule together with an *IntegrityError: the day is safe to treat as
// closed, but the caller must surface the warning, never drop it.
func (r *Resolver) ResolveDay(ctx context.Context, calendarID string, date time.Time) (DaySchedule, error) {
	cal, err := r.calendar(ctx, calendarID)
	if err != nil {
		return DaySchedule{}, err
	}

	if ov := cal.OverrideFor(date); ov != nil {
		if ov.Kind != domain.DayOpen {
			return DaySchedule{}, nil
		}
		if verr := ov.Validate(); verr != nil {
			return DaySchedule{}, &IntegrityError{CalendarID: calendarID, Date: domain.DateOf(date), Reason: verr.Error()}
		}
		sched := DaySchedule{
			Open:          true,
			StartMin:      *ov.StartMin,
			EndMin:        *ov.EndMin,
			BreakStartMin: ov.BreakStartMin,
			BreakEndMin:   ov.BreakEndMin,
		}
		sched.NominalHours = nominalHours(sched, ov.FixedHours)
		return sched, nil
	}

	p := cal.PatternFor(date.Weekday())
	if p == nil || p.Kind != domain.DayOpen {
		return DaySchedule{}, nil
	}
	if verr := p.Validate(); verr != nil {
		return DaySchedule{}, &IntegrityError{CalendarID: calendarID, Date: domain.DateOf(date), Reason: verr.Error()}
	}
	sched := DaySchedule{
		Open:          true,
		StartMin:      p.StartMin,
		EndMin:        p.EndMin,
		BreakStartMin: p.BreakStartMin,
		BreakEndMin:   p.BreakEndMin,
	}
	var fixed *float64
	if p.NominalHours > 0 {
		fixed = &p.NominalHours
	}
	sched.NominalHours = nominalHours(sched, fixed)
	return sched, nil
}

func (r *Resolver) calendar(ctx context.Context, calendarID string) (*domain.WorkCalendar, error) {
	if cal, ok := r.cache[calendarID]; ok {
		return cal, nil
	}
	cal, err := r.src.Calendar(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("loading calendar %s: %w", calendarID, err)
	}
	if cal == nil {
		return nil, fmt.Errorf("calendar %s: %w", calendarID, ErrCalendarNotFound)
	}
	r.cache[calendarID] = cal
	return cal, nil
}

// nominalHours prefers an explicitly recorded hour count and otherwise
// derives it from the day window net of the break.
func nominalHours(s DaySchedule, fixed *float64) float64 {
	if fixed != nil && *fixed > 0 {
		return *fixed
	}
	minutes := s.EndMin - s.StartMin
	if s.HasBreak() {
		minutes -= *s.BreakEndMin - *s.BreakStartMin
	}
	return float64(minutes) / 60
}
