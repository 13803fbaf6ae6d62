package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmarceau/jalon/internal/db"
	"github.com/tmarceau/jalon/internal/domain"
	"github.com/tmarceau/jalon/internal/repository"
	"github.com/tmarceau/jalon/internal/schedule"
)

// calendarSource adapts a CalendarRepo to the engine's read interface:
// a missing calendar becomes nil so the engine reports its own error.
type calendarSource struct {
	calendars repository.CalendarRepo
}

func (s calendarSource) Calendar(ctx context.Context, calendarID string) (*domain.WorkCalendar, error) {
	cal, err := s.calendars.GetByID(ctx, calendarID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return cal, err
}

type planningService struct {
	calendars  repository.CalendarRepo
	activities repository.ActivityRepo
	deps       repository.DependencyRepo
	projects   repository.ProjectRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewPlanningService(
	calendars repository.CalendarRepo,
	activities repository.ActivityRepo,
	deps repository.DependencyRepo,
	projects repository.ProjectRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanningService {
	return &planningService{
		calendars:  calendars,
		activities: activities,
		deps:       deps,
		projects:   projects,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// calculator builds a fresh resolver + calculator pair, one per invocation,
// so every call computes over its own consistent snapshot.
func (s *planningService) calculator() *schedule.Calculator {
	return schedule.NewCalculator(schedule.NewResolver(calendarSource{s.calendars}))
}

func (s *planningService) ResolveDay(ctx context.Context, calendarID string, date time.Time) (schedule.DaySchedule, error) {
	res := schedule.NewResolver(calendarSource{s.calendars})
	return res.ResolveDay(ctx, calendarID, date)
}

func (s *planningService) ComputeEndByDays(ctx context.Context, calendarID string, start time.Time, dayCount int) (time.Time, error) {
	calc := s.calculator()
	end, err := calc.AddWorkingDays(ctx, calendarID, start, dayCount)
	s.observeCalc(ctx, "compute-end-by-days", calendarID, calc, err)
	return end, err
}

func (s *planningService) ComputeEndByHours(ctx context.Context, calendarID string, start time.Time, hourCount float64) (time.Time, error) {
	calc := s.calculator()
	end, err := calc.AddWorkingHours(ctx, calendarID, start, hourCount)
	s.observeCalc(ctx, "compute-end-by-hours", calendarID, calc, err)
	return end, err
}

func (s *planningService) WorkingHoursInRange(ctx context.Context, calendarID string, start, end time.Time) (float64, error) {
	calc := s.calculator()
	hours, err := calc.WorkingHoursBetween(ctx, calendarID, start, end)
	s.observeCalc(ctx, "working-hours-in-range", calendarID, calc, err)
	return hours, err
}

func (s *planningService) PropagateDependencies(ctx context.Context, projectID, triggerID string) (changes []schedule.DateChange, err error) {
	startedAt := time.Now().UTC()
	calc := s.calculator()
	fields := map[string]any{"project": projectID, "trigger": triggerID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "propagate-dependencies",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    withWarnings(fields, calc),
		})
	}()

	cal, err := s.projectCalendar(ctx, projectID)
	if err != nil {
		return nil, err
	}

	acts, err := s.activities.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	deps, err := s.deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	prop := schedule.NewPropagator(calc)
	changes, err = prop.Propagate(ctx, cal.ID, schedule.Graph{Activities: acts, Dependencies: deps}, triggerID)
	if err != nil {
		return nil, err
	}
	fields["changed"] = len(changes)
	if len(changes) == 0 {
		return nil, nil
	}

	// One write per activity, in topological order, inside one transaction:
	// observers never see a successor move before its predecessor, and a
	// failure leaves every date untouched.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActs := repository.NewSQLiteActivityRepo(tx)
		for _, ch := range changes {
			if err := txActs.UpdateDates(ctx, ch.ActivityID, ch.NewStart, ch.NewEnd); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// projectCalendar resolves the calendar governing a project: the active
// calendar of its site, or the active unscoped default.
func (s *planningService) projectCalendar(ctx context.Context, projectID string) (*domain.WorkCalendar, error) {
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
	return cal, err
}

func (s *planningService) observeCalc(ctx context.Context, name, calendarID string, calc *schedule.Calculator, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: time.Now().UTC(),
		Success:   err == nil,
		Err:       err,
		Fields:    withWarnings(map[string]any{"calendar": calendarID}, calc),
	})
}

// withWarnings surfaces calendar integrity warnings collected during a run;
// they are reported even when the use case succeeds.
func withWarnings(fields map[string]any, calc *schedule.Calculator) map[string]any {
	if warns := calc.Warnings(); len(warns) > 0 {
		msgs := make([]string, len(warns))
		for i, w := range warns {
			msgs[i] = w.Error()
		}
		fields["calendar_warnings"] = msgs
	}
	return fields
}
