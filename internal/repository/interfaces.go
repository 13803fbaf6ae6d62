package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tmarceau/jalon/internal/domain"
)

// ErrNotFound is wrapped by every repository lookup that finds no row.
var ErrNotFound = errors.New("not found")

type CalendarRepo interface {
	Create(ctx context.Context, c *domain.WorkCalendar) error
	// GetByID loads the calendar with its full weekly pattern and overrides.
	GetByID(ctx context.Context, id string) (*domain.WorkCalendar, error)
	// ActiveForSite returns the site's active calendar, falling back to the
	// active unscoped default when the site has none.
	ActiveForSite(ctx context.Context, siteID string) (*domain.WorkCalendar, error)
	List(ctx context.Context) ([]*domain.WorkCalendar, error)
	Update(ctx context.Context, c *domain.WorkCalendar) error
	Delete(ctx context.Context, id string) error

	UpsertPattern(ctx context.Context, p *domain.WeekdayPattern) error
	UpsertOverride(ctx context.Context, o *domain.DayOverride) error
	GetOverride(ctx context.Context, calendarID string, date time.Time) (*domain.DayOverride, error)
	DeleteOverride(ctx context.Context, calendarID string, date time.Time) error
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	// UpdateDates rewrites only the planned window, used by propagation so
	// writes stay minimal and ordered.
	UpdateDates(ctx context.Context, id string, start, end time.Time) error
	Delete(ctx context.Context, id string) error
}

type DependencyRepo interface {
	Create(ctx context.Context, d *domain.Dependency) error
	Delete(ctx context.Context, predecessorID, successorID string) error
	// DeleteForActivity removes every edge touching the activity; the
	// cascade path of a forced activity delete.
	DeleteForActivity(ctx context.Context, activityID string) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
	ListPredecessors(ctx context.Context, activityID string) ([]domain.Dependency, error)
	ListSuccessors(ctx context.Context, activityID string) ([]domain.Dependency, error)
	// HasDependents reports whether any dependency still names the activity
	// as predecessor. Guards against dangling edges on delete.
	HasDependents(ctx context.Context, activityID string) (bool, error)
}

type TemplateRepo interface {
	// Create persists the template with all its tasks.
	Create(ctx context.Context, t *domain.Template) error
	// GetByID loads the template with tasks ordered by (level, order_index).
	GetByID(ctx context.Context, id string) (*domain.Template, error)
	List(ctx context.Context) ([]*domain.Template, error)
	Delete(ctx context.Context, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type SiteRepo interface {
	Create(ctx context.Context, s *domain.Site) error
	GetByID(ctx context.Context, id string) (*domain.Site, error)
	List(ctx context.Context) ([]*domain.Site, error)
}
