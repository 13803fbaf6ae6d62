package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tmarceau/jalon/internal/db"
	"github.com/tmarceau/jalon/internal/domain"
	"github.com/tmarceau/jalon/internal/repository"
	"github.com/tmarceau/jalon/internal/schedule"
)

type templateService struct {
	templates repository.TemplateRepo
	projects  repository.ProjectRepo
	calendars repository.CalendarRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewTemplateService(
	templates repository.TemplateRepo,
	projects repository.ProjectRepo,
	calendars repository.CalendarRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) TemplateService {
	return &templateService{
		templates: templates,
		projects:  projects,
		calendars: calendars,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *templateService) Create(ctx context.Context, t *domain.Template) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	for i := range t.Tasks {
		if t.Tasks[i].ID == "" {
			t.Tasks[i].ID = uuid.New().String()
		}
		t.Tasks[i].TemplateID = t.ID
	}
	return s.templates.Create(ctx, t)
}

func (s *templateService) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *templateService) List(ctx context.Context) ([]*domain.Template, error) {
	return s.templates.List(ctx)
}

// Instantiate generates the full activity tree and dependency set from the
// template, then persists it all in one transaction: either every task
// materializes or none does.
func (s *templateService) Instantiate(ctx context.Context, templateID, projectID string, referenceStart time.Time) (ids []string, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"template": templateID, "project": projectID}
	calc := schedule.NewCalculator(schedule.NewResolver(calendarSource{s.calendars}))
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "instantiate-template",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    withWarnings(fields, calc),
		})
	}()

	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	proj, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	siteID := ""
	if proj.SiteID != nil {
		siteID = *proj.SiteID
	}
	cal, err := s.calendars.ActiveForSite(ctx, siteID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("project %s has no applicable calendar: %w", projectID, schedule.ErrCalendarNotFound)
	}
	if err != nil {
		return nil, err
	}

	inst := schedule.NewInstantiator(calc)
	plan, err := inst.Instantiate(ctx, tpl, projectID, cal.ID, referenceStart)
	if err != nil {
		return nil, err
	}
	fields["activity_count"] = len(plan.Activities)
	fields["dependency_count"] = len(plan.Dependencies)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActs := repository.NewSQLiteActivityRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)
		for _, act := range plan.Activities {
			if err := txActs.Create(ctx, act); err != nil {
				return fmt.Errorf("creating activity '%s': %w", act.Label, err)
			}
		}
		for _, dep := range plan.Dependencies {
			if err := txDeps.Create(ctx, dep); err != nil {
				return fmt.Errorf("creating dependency: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids = make([]string, len(plan.Activities))
	for i, act := range plan.Activities {
		ids[i] = act.ID
	}
	return ids, nil
}
