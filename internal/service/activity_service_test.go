package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarceau/jalon/internal/domain"
	"github.com/tmarceau/jalon/internal/repository"
	"github.com/tmarceau/jalon/internal/schedule"
	"github.com/tmarceau/jalon/internal/testutil"
)

func TestActivityService_CreateAssignsDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	proj := env.seedProject(t)

	act := &domain.Activity{ProjectID: proj.ID, Label: "Terrassement"}
	require.NoError(t, env.activity.Create(ctx, act))

	assert.NotEmpty(t, act.ID)
	assert.Equal(t, domain.ActivityPlanned, act.Status)
	assert.Equal(t, domain.WorkStandard, act.TimeClass)
	assert.False(t, act.CreatedAt.IsZero())
}

func TestActivityService_Delete_RejectedWithDependents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	proj := env.seedProject(t)

	pred := testutil.NewTestActivity(proj.ID, "Pred")
	succ := testutil.NewTestActivity(proj.ID, "Succ")
	require.NoError(t, env.acts.Create(ctx, pred))
	require.NoError(t, env.acts.Create(ctx, succ))
	require.NoError(t, env.deps.Create(ctx, testutil.NewTestDependency(pred.ID, succ.ID, domain.FinishToStart, 0)))

	err := env.activity.Delete(ctx, pred.ID, false)
	assert.True(t, errors.Is(err, ErrHasDependents))

	_, err = env.acts.GetByID(ctx, pred.ID)
	assert.NoError(t, err)
}

func TestActivityService_Delete_CascadeRemovesEdges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	proj := env.seedProject(t)

	pred := testutil.NewTestActivity(proj.ID, "Pred")
	succ := testutil.NewTestActivity(proj.ID, "Succ")
	require.NoError(t, env.acts.Create(ctx, pred))
	require.NoError(t, env.acts.Create(ctx, succ))
	require.NoError(t, env.deps.Create(ctx, testutil.NewTestDependency(pred.ID, succ.ID, domain.FinishToStart, 0)))

	require.NoError(t, env.activity.Delete(ctx, pred.ID, true))

	_, err := env.acts.GetByID(ctx, pred.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	deps, err := env.deps.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, deps)

	// The successor survives.
	_, err = env.acts.GetByID(ctx, succ.ID)
	assert.NoError(t, err)
}

func TestActivityService_AddDependency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	proj := env.seedProject(t)

	a := testutil.NewTestActivity(proj.ID, "A")
	b := testutil.NewTestActivity(proj.ID, "B")
	require.NoError(t, env.acts.Create(ctx, a))
	require.NoError(t, env.acts.Create(ctx, b))

	dep := &domain.Dependency{PredecessorID: a.ID, SuccessorID: b.ID, Relation: domain.FinishToStart}
	require.NoError(t, env.activity.AddDependency(ctx, dep))
	assert.NotEmpty(t, dep.ID)

	deps, err := env.deps.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, deps, 1)
}

func TestActivityService_AddDependency_RejectsCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	proj := env.seedProject(t)

	a := testutil.NewTestActivity(proj.ID, "A")
	b := testutil.NewTestActivity(proj.ID, "B")
	c := testutil.NewTestActivity(proj.ID, "C")
	for _, act := range []*domain.Activity{a, b, c} {
		require.NoError(t, env.acts.Create(ctx, act))
	}
	require.NoError(t, env.activity.AddDependency(ctx,
		&domain.Dependency{PredecessorID: a.ID, SuccessorID: b.ID, Relation: domain.FinishToStart}))
	require.NoError(t, env.activity.AddDependency(ctx,
		&domain.Dependency{PredecessorID: b.ID, SuccessorID: c.ID, Relation: domain.FinishToStart}))

	err := env.activity.AddDependency(ctx,
		&domain.Dependency{PredecessorID: c.ID, SuccessorID: a.ID, Relation: domain.FinishToStart})

	var ce *schedule.CycleError
	require.ErrorAs(t, err, &ce)

	deps, err := env.deps.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, deps, 2)
}

func TestActivityService_AddDependency_RejectsSelfEdge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	proj := env.seedProject(t)

	a := testutil.NewTestActivity(proj.ID, "A")
	require.NoError(t, env.acts.Create(ctx, a))

	err := env.activity.AddDependency(ctx,
		&domain.Dependency{PredecessorID: a.ID, SuccessorID: a.ID, Relation: domain.FinishToStart})
	assert.Error(t, err)
}

func TestActivityService_AddDependency_UnknownActivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	proj := env.seedProject(t)

	a := testutil.NewTestActivity(proj.ID, "A")
	require.NoError(t, env.acts.Create(ctx, a))

	err := env.activity.AddDependency(ctx,
		&domain.Dependency{PredecessorID: a.ID, SuccessorID: "missing", Relation: domain.FinishToStart})
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestActivityService_RemoveDependency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	proj := env.seedProject(t)

	a := testutil.NewTestActivity(proj.ID, "A")
	b := testutil.NewTestActivity(proj.ID, "B")
	require.NoError(t, env.acts.Create(ctx, a))
	require.NoError(t, env.acts.Create(ctx, b))
	require.NoError(t, env.activity.AddDependency(ctx,
		&domain.Dependency{PredecessorID: a.ID, SuccessorID: b.ID, Relation: domain.FinishToStart}))

	require.NoError(t, env.activity.RemoveDependency(ctx, a.ID, b.ID))

	deps, err := env.deps.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, deps)
}
