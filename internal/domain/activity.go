package domain

import "time"

// Activity is one schedulable node of a project plan. Required work is
// expressed either as a working-day count or a working-hour count; the
// duration calculator picks the matching algorithm.
type Activity struct {
	ID        string
	ProjectID string
	ParentID  *string
	LotID     *string
	Label     string

	PlannedStart time.Time
	PlannedEnd   time.Time
	ActualStart  *time.Time
	ActualEnd    *time.Time

	RequiredDays  *int
	RequiredHours *float64

	TimeClass WorkTimeClass
	Status    ActivityStatus
	Progress  int // percent, 0-100

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HourDriven reports whether required work is expressed in working hours.
// Day-driven is the default when both (or neither) are set.
func (a *Activity) HourDriven() bool {
	return a.RequiredHours != nil && a.RequiredDays == nil
}

// RequiredDayCount returns the day-count work amount, defaulting to 1 day
// when no amount is recorded at all.
func (a *Activity) RequiredDayCount() int {
	if a.RequiredDays != nil {
		return *a.RequiredDays
	}
	return 1
}
