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

// ErrHasDependents is returned when deleting an activity that other
// activities still depend on without requesting a cascade.
var ErrHasDependents = errors.New("activity has dependents")

type activityService struct {
	activities repository.ActivityRepo
	deps       repository.DependencyRepo
	uow        db.UnitOfWork
}

func NewActivityService(activities repository.ActivityRepo, deps repository.DependencyRepo, uow db.UnitOfWork) ActivityService {
	return &activityService{activities: activities, deps: deps, uow: uow}
}

func (s *activityService) Create(ctx context.Context, a *domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = domain.ActivityPlanned
	}
	if a.TimeClass == "" {
		a.TimeClass = domain.WorkStandard
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.activities.Create(ctx, a)
}

func (s *activityService) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

func (s *activityService) ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error) {
	return s.activities.ListByProject(ctx, projectID)
}

func (s *activityService) Update(ctx context.Context, a *domain.Activity) error {
	a.UpdatedAt = time.Now().UTC()
	return s.activities.Update(ctx, a)
}

// Delete removes an activity. A predecessor may never vanish under its
// dependents: without cascade the delete is rejected, with cascade the
// touching edges are removed in the same transaction.
func (s *activityService) Delete(ctx context.Context, id string, cascade bool) error {
	hasDeps, err := s.deps.HasDependents(ctx, id)
	if err != nil {
		return err
	}
	if hasDeps && !cascade {
		return fmt.Errorf("activity %s: %w", id, ErrHasDependents)
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txDeps := repository.NewSQLiteDependencyRepo(tx)
		txActs := repository.NewSQLiteActivityRepo(tx)
		if err := txDeps.DeleteForActivity(ctx, id); err != nil {
			return err
		}
		return txActs.Delete(ctx, id)
	})
}

// AddDependency validates the edge, then refuses any edge that would close
// a cycle in the project's dependency graph.
func (s *activityService) AddDependency(ctx context.Context, d *domain.Dependency) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	succ, err := s.activities.GetByID(ctx, d.SuccessorID)
	if err != nil {
		return fmt.Errorf("successor: %w", err)
	}
	if _, err := s.activities.GetByID(ctx, d.PredecessorID); err != nil {
		return fmt.Errorf("predecessor: %w", err)
	}

	acts, err := s.activities.ListByProject(ctx, succ.ProjectID)
	if err != nil {
		return err
	}
	deps, err := s.deps.ListByProject(ctx, succ.ProjectID)
	if err != nil {
		return err
	}
	if err := schedule.CheckAcyclic(schedule.Graph{
		Activities:   acts,
		Dependencies: append(deps, *d),
	}); err != nil {
		return err
	}

	return s.deps.Create(ctx, d)
}

func (s *activityService) RemoveDependency(ctx context.Context, predecessorID, successorID string) error {
	return s.deps.Delete(ctx, predecessorID, successorID)
}
