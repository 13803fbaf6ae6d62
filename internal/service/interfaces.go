package service

import (
	"context"
	"time"

	"github.com/tmarceau/jalon/internal/domain"
	"github.com/tmarceau/jalon/internal/schedule"
)

// PlanningService exposes the scheduling engine over stored calendars and
// activity graphs. Every call reads a fresh snapshot; nothing is cached
// across invocations.
type PlanningService interface {
	ResolveDay(ctx context.Context, calendarID string, date time.Time) (schedule.DaySchedule, error)
	ComputeEndByDays(ctx context.Context, calendarID string, start time.Time, dayCount int) (time.Time, error)
	ComputeEndByHours(ctx context.Context, calendarID string, start time.Time, hourCount float64) (time.Time, error)
	WorkingHoursInRange(ctx context.Context, calendarID string, start, end time.Time) (float64, error)
	// PropagateDependencies recomputes and persists the dates of everything
	// reachable from the trigger, atomically and in topological order.
	PropagateDependencies(ctx context.Context, projectID, triggerID string) ([]schedule.DateChange, error)
}

type CalendarService interface {
	Create(ctx context.Context, c *domain.WorkCalendar) error
	GetByID(ctx context.Context, id string) (*domain.WorkCalendar, error)
	List(ctx context.Context) ([]*domain.WorkCalendar, error)
	SetPattern(ctx context.Context, p *domain.WeekdayPattern) error
	SetOverride(ctx context.Context, o *domain.DayOverride) error
	RemoveOverride(ctx context.Context, calendarID string, date time.Time) error
	// ResolveForSite returns the site's active calendar, or the active
	// unscoped default when the site has none.
	ResolveForSite(ctx context.Context, siteID string) (*domain.WorkCalendar, error)
}

type ActivityService interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	// Delete refuses to remove an activity that other activities still
	// depend on unless cascade is set, which removes the edges with it.
	Delete(ctx context.Context, id string, cascade bool) error
	// AddDependency validates the edge and rejects any that would close a
	// cycle in the project graph.
	AddDependency(ctx context.Context, d *domain.Dependency) error
	RemoveDependency(ctx context.Context, predecessorID, successorID string) error
}

type TemplateService interface {
	Create(ctx context.Context, t *domain.Template) error
	GetByID(ctx context.Context, id string) (*domain.Template, error)
	List(ctx context.Context) ([]*domain.Template, error)
	// Instantiate materializes the template into a concrete activity tree
	// anchored at referenceStart, atomically; it returns the created
	// activity ids in creation order.
	Instantiate(ctx context.Context, templateID, projectID string, referenceStart time.Time) ([]string, error)
}

type SiteService interface {
	Create(ctx context.Context, s *domain.Site) error
	GetByID(ctx context.Context, id string) (*domain.Site, error)
	List(ctx context.Context) ([]*domain.Site, error)
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}
