package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/tmarceau/jalon/internal/domain"
)

// Standard test week: Monday-Friday 08:00-16:00 with a 12:00-13:00 break.
const (
	DayStartMin   = 8 * 60
	DayEndMin     = 16 * 60
	BreakStartMin = 12 * 60
	BreakEndMin   = 13 * 60
)

func NewTestSite(name string) *domain.Site {
	return &domain.Site{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Project options
type ProjectOption func(*domain.Project)

func WithSiteID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.SiteID = &id
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Calendar options
type CalendarOption func(*domain.WorkCalendar)

func WithCalendarSite(siteID string) CalendarOption {
	return func(c *domain.WorkCalendar) {
		c.SiteID = &siteID
	}
}

func WithInactive() CalendarOption {
	return func(c *domain.WorkCalendar) {
		c.Active = false
	}
}

// WithNoBreak strips the break window from every open weekday.
func WithNoBreak() CalendarOption {
	return func(c *domain.WorkCalendar) {
		for i := range c.Pattern {
			c.Pattern[i].BreakStartMin = nil
			c.Pattern[i].BreakEndMin = nil
			if c.Pattern[i].Kind == domain.DayOpen {
				c.Pattern[i].NominalHours = float64(c.Pattern[i].EndMin-c.Pattern[i].StartMin) / 60
			}
		}
	}
}

// WithClosedDate adds a closed override (a holiday) for the given date.
func WithClosedDate(date time.Time) CalendarOption {
	return func(c *domain.WorkCalendar) {
		c.Overrides = append(c.Overrides, domain.DayOverride{
			ID:         uuid.New().String(),
			CalendarID: c.ID,
			Date:       domain.DateOf(date),
			Kind:       domain.DayClosed,
			CreatedAt:  time.Now().UTC(),
		})
	}
}

// WithOpenOverride adds an open override with special hours for the date.
func WithOpenOverride(date time.Time, startMin, endMin int) CalendarOption {
	return func(c *domain.WorkCalendar) {
		c.Overrides = append(c.Overrides, domain.DayOverride{
			ID:         uuid.New().String(),
			CalendarID: c.ID,
			Date:       domain.DateOf(date),
			Kind:       domain.DayOpen,
			StartMin:   &startMin,
			EndMin:     &endMin,
			CreatedAt:  time.Now().UTC(),
		})
	}
}

// WithCorruptOverride adds an "open" override missing its window, which the
// resolver must treat as closed with a warning.
func WithCorruptOverride(date time.Time) CalendarOption {
	return func(c *domain.WorkCalendar) {
		c.Overrides = append(c.Overrides, domain.DayOverride{
			ID:         uuid.New().String(),
			CalendarID: c.ID,
			Date:       domain.DateOf(date),
			Kind:       domain.DayOpen,
			CreatedAt:  time.Now().UTC(),
		})
	}
}

// NewTestCalendar builds an active Monday-Friday calendar with the standard
// test week.
func NewTestCalendar(name string, opts ...CalendarOption) *domain.WorkCalendar {
	now := time.Now().UTC()
	c := &domain.WorkCalendar{
		ID:        uuid.New().String(),
		Name:      name,
		Year:      now.Year(),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for wd := 0; wd < 7; wd++ {
		p := domain.WeekdayPattern{
			CalendarID: c.ID,
			Weekday:    wd,
			Kind:       domain.DayClosed,
		}
		if wd >= 1 && wd <= 5 {
			bs, be := BreakStartMin, BreakEndMin
			p.Kind = domain.DayOpen
			p.StartMin = DayStartMin
			p.EndMin = DayEndMin
			p.BreakStartMin = &bs
			p.BreakEndMin = &be
			p.NominalHours = 7
		}
		c.Pattern = append(c.Pattern, p)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Activity options
type ActivityOption func(*domain.Activity)

func WithPlannedDates(start, end time.Time) ActivityOption {
	return func(a *domain.Activity) {
		a.PlannedStart = start
		a.PlannedEnd = end
	}
}

func WithRequiredDays(n int) ActivityOption {
	return func(a *domain.Activity) {
		a.RequiredDays = &n
		a.RequiredHours = nil
	}
}

func WithRequiredHours(h float64) ActivityOption {
	return func(a *domain.Activity) {
		a.RequiredHours = &h
		a.RequiredDays = nil
	}
}

func WithActivityStatus(s domain.ActivityStatus) ActivityOption {
	return func(a *domain.Activity) {
		a.Status = s
	}
}

func WithActivityParent(id string) ActivityOption {
	return func(a *domain.Activity) {
		a.ParentID = &id
	}
}

// WithCreatedAt pins creation time, which drives deterministic propagation
// ordering in tests.
func WithCreatedAt(t time.Time) ActivityOption {
	return func(a *domain.Activity) {
		a.CreatedAt = t
		a.UpdatedAt = t
	}
}

func NewTestActivity(projectID, label string, opts ...ActivityOption) *domain.Activity {
	now := time.Now().UTC()
	a := &domain.Activity{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Label:     label,
		TimeClass: domain.WorkStandard,
		Status:    domain.ActivityPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func NewTestDependency(predecessorID, successorID string, relation domain.RelationKind, lagDays int) *domain.Dependency {
	return &domain.Dependency{
		ID:            uuid.New().String(),
		PredecessorID: predecessorID,
		SuccessorID:   successorID,
		Relation:      relation,
		LagDays:       lagDays,
		CreatedAt:     time.Now().UTC(),
	}
}

// Template task options
type TaskOption func(*domain.TemplateTask)

func WithTaskDuration(days int) TaskOption {
	return func(t *domain.TemplateTask) {
		t.DurationDays = &days
	}
}

func WithTaskParent(parentID string) TaskOption {
	return func(t *domain.TemplateTask) {
		t.ParentTaskID = &parentID
		t.Level = 1
	}
}

func WithTaskPredecessor(predecessorTaskID string, relation domain.RelationKind) TaskOption {
	return func(t *domain.TemplateTask) {
		t.PredecessorTaskID = &predecessorTaskID
		t.Relation = relation
	}
}

func WithTaskOrder(i int) TaskOption {
	return func(t *domain.TemplateTask) {
		t.OrderIndex = i
	}
}

func NewTestTask(id, label string, opts ...TaskOption) domain.TemplateTask {
	t := domain.TemplateTask{
		ID:       id,
		Label:    label,
		Relation: domain.FinishToStart,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func NewTestTemplate(name string, tasks ...domain.TemplateTask) *domain.Template {
	now := time.Now().UTC()
	tpl := &domain.Template{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range tasks {
		tasks[i].TemplateID = tpl.ID
	}
	tpl.Tasks = tasks
	return tpl
}
