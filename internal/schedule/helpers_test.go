package schedule

import (
	"context"
	"time"

	"github.com/tmarceau/jalon/internal/domain"
)

// memorySource is an in-memory CalendarSource for engine tests.
type memorySource struct {
	calendars map[string]*domain.WorkCalendar
	calls     int
}

func newMemorySource(cals ...*domain.WorkCalendar) *memorySource {
	m := &memorySource{calendars: make(map[string]*domain.WorkCalendar)}
	for _, c := range cals {
		m.calendars[c.ID] = c
	}
	return m
}

func (m *memorySource) Calendar(_ context.Context, id string) (*domain.WorkCalendar, error) {
	m.calls++
	return m.calendars[id], nil
}

// A fixed week in March 2026: the 2nd is a Monday.
var (
	mon     = time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	tue     = mon.AddDate(0, 0, 1)
	wed     = mon.AddDate(0, 0, 2)
	thu     = mon.AddDate(0, 0, 3)
	fri     = mon.AddDate(0, 0, 4)
	sat     = mon.AddDate(0, 0, 5)
	sun     = mon.AddDate(0, 0, 6)
	nextMon = mon.AddDate(0, 0, 7)
	nextTue = mon.AddDate(0, 0, 8)
)

func at(date time.Time, hour, minute int) time.Time {
	return domain.AtMinute(date, hour*60+minute)
}
