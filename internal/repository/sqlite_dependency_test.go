package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarceau/jalon/internal/domain"
	"github.com/tmarceau/jalon/internal/testutil"
)

// depTestSetup creates a project with two activities for dependency tests.
func depTestSetup(t *testing.T) (*SQLiteDependencyRepo, string, string, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	actRepo := NewSQLiteActivityRepo(db)
	depRepo := NewSQLiteDependencyRepo(db)

	proj := testutil.NewTestProject("DepTest")
	require.NoError(t, projRepo.Create(ctx, proj))

	pred := testutil.NewTestActivity(proj.ID, "Predecessor")
	require.NoError(t, actRepo.Create(ctx, pred))
	succ := testutil.NewTestActivity(proj.ID, "Successor")
	require.NoError(t, actRepo.Create(ctx, succ))

	return depRepo, proj.ID, pred.ID, succ.ID
}

func TestDependencyRepo_CreateAndList(t *testing.T) {
	depRepo, projID, predID, succID := depTestSetup(t)
	ctx := context.Background()

	dep := testutil.NewTestDependency(predID, succID, domain.FinishToStart, 2)
	require.NoError(t, depRepo.Create(ctx, dep))

	preds, err := depRepo.ListPredecessors(ctx, succID)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, predID, preds[0].PredecessorID)
	assert.Equal(t, domain.FinishToStart, preds[0].Relation)
	assert.Equal(t, 2, preds[0].LagDays)

	succs, err := depRepo.ListSuccessors(ctx, predID)
	require.NoError(t, err)
	require.Len(t, succs, 1)
	assert.Equal(t, succID, succs[0].SuccessorID)

	all, err := depRepo.ListByProject(ctx, projID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDependencyRepo_Create_RejectsSelfDependency(t *testing.T) {
	depRepo, _, predID, _ := depTestSetup(t)

	dep := testutil.NewTestDependency(predID, predID, domain.FinishToStart, 0)
	err := depRepo.Create(context.Background(), dep)
	assert.Error(t, err)
}

func TestDependencyRepo_Create_RejectsDuplicateEdge(t *testing.T) {
	depRepo, _, predID, succID := depTestSetup(t)
	ctx := context.Background()

	require.NoError(t, depRepo.Create(ctx, testutil.NewTestDependency(predID, succID, domain.FinishToStart, 0)))
	err := depRepo.Create(ctx, testutil.NewTestDependency(predID, succID, domain.StartToStart, 1))
	assert.Error(t, err)
}

func TestDependencyRepo_Delete(t *testing.T) {
	depRepo, _, predID, succID := depTestSetup(t)
	ctx := context.Background()

	require.NoError(t, depRepo.Create(ctx, testutil.NewTestDependency(predID, succID, domain.FinishToStart, 0)))
	require.NoError(t, depRepo.Delete(ctx, predID, succID))

	preds, err := depRepo.ListPredecessors(ctx, succID)
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestDependencyRepo_DeleteForActivity_RemovesBothDirections(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	actRepo := NewSQLiteActivityRepo(db)
	depRepo := NewSQLiteDependencyRepo(db)

	proj := testutil.NewTestProject("Cascade")
	require.NoError(t, projRepo.Create(ctx, proj))

	a := testutil.NewTestActivity(proj.ID, "A")
	b := testutil.NewTestActivity(proj.ID, "B")
	c := testutil.NewTestActivity(proj.ID, "C")
	for _, act := range []*domain.Activity{a, b, c} {
		require.NoError(t, actRepo.Create(ctx, act))
	}

	require.NoError(t, depRepo.Create(ctx, testutil.NewTestDependency(a.ID, b.ID, domain.FinishToStart, 0)))
	require.NoError(t, depRepo.Create(ctx, testutil.NewTestDependency(b.ID, c.ID, domain.FinishToStart, 0)))

	require.NoError(t, depRepo.DeleteForActivity(ctx, b.ID))

	all, err := depRepo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDependencyRepo_HasDependents(t *testing.T) {
	depRepo, _, predID, succID := depTestSetup(t)
	ctx := context.Background()

	has, err := depRepo.HasDependents(ctx, predID)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, depRepo.Create(ctx, testutil.NewTestDependency(predID, succID, domain.FinishToStart, 0)))

	has, err = depRepo.HasDependents(ctx, predID)
	require.NoError(t, err)
	assert.True(t, has)

	// The successor has no dependents of its own.
	has, err = depRepo.HasDependents(ctx, succID)
	require.NoError(t, err)
	assert.False(t, has)
}
