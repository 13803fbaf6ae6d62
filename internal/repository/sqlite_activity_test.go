package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarceau/jalon/internal/domain"
	"github.com/tmarceau/jalon/internal/testutil"
)

// activityTestSetup creates a project for activity tests.
func activityTestSetup(t *testing.T) (*SQLiteActivityRepo, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	actRepo := NewSQLiteActivityRepo(db)

	proj := testutil.NewTestProject("Chantier A")
	require.NoError(t, projRepo.Create(ctx, proj))

	return actRepo, proj.ID
}

func TestActivityRepo_CreateAndGet(t *testing.T) {
	repo, projID := activityTestSetup(t)
	ctx := context.Background()

	start := testDate(t, "2026-03-02").Add(8 * time.Hour)
	end := testDate(t, "2026-03-04").Add(16 * time.Hour)
	act := testutil.NewTestActivity(projID, "Terrassement",
		testutil.WithRequiredDays(2),
		testutil.WithPlannedDates(start, end))
	require.NoError(t, repo.Create(ctx, act))

	got, err := repo.GetByID(ctx, act.ID)
	require.NoError(t, err)

	assert.Equal(t, "Terrassement", got.Label)
	assert.Equal(t, projID, got.ProjectID)
	require.NotNil(t, got.RequiredDays)
	assert.Equal(t, 2, *got.RequiredDays)
	assert.Nil(t, got.RequiredHours)
	assert.True(t, got.PlannedStart.Equal(start), "got %s want %s", got.PlannedStart, start)
	assert.True(t, got.PlannedEnd.Equal(end))
	assert.Equal(t, domain.ActivityPlanned, got.Status)
	assert.Equal(t, domain.WorkStandard, got.TimeClass)
}

func TestActivityRepo_GetByID_NotFound(t *testing.T) {
	repo, _ := activityTestSetup(t)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestActivityRepo_HourDrivenRoundTrip(t *testing.T) {
	repo, projID := activityTestSetup(t)
	ctx := context.Background()

	act := testutil.NewTestActivity(projID, "Pose menuiseries", testutil.WithRequiredHours(12.5))
	require.NoError(t, repo.Create(ctx, act))

	got, err := repo.GetByID(ctx, act.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RequiredHours)
	assert.Equal(t, 12.5, *got.RequiredHours)
	assert.Nil(t, got.RequiredDays)
	assert.True(t, got.HourDriven())
}

func TestActivityRepo_ListByProject_OrderedByCreation(t *testing.T) {
	repo, projID := activityTestSetup(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, label := range []string{"First", "Second", "Third"} {
		act := testutil.NewTestActivity(projID, label,
			testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, repo.Create(ctx, act))
	}

	acts, err := repo.ListByProject(ctx, projID)
	require.NoError(t, err)
	require.Len(t, acts, 3)
	assert.Equal(t, "First", acts[0].Label)
	assert.Equal(t, "Second", acts[1].Label)
	assert.Equal(t, "Third", acts[2].Label)
}

func TestActivityRepo_ListChildren(t *testing.T) {
	repo, projID := activityTestSetup(t)
	ctx := context.Background()

	parent := testutil.NewTestActivity(projID, "Gros oeuvre")
	require.NoError(t, repo.Create(ctx, parent))

	child := testutil.NewTestActivity(projID, "Fondations", testutil.WithActivityParent(parent.ID))
	require.NoError(t, repo.Create(ctx, child))

	children, err := repo.ListChildren(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)
	require.NotNil(t, children[0].ParentID)
	assert.Equal(t, parent.ID, *children[0].ParentID)
}

func TestActivityRepo_UpdateDates(t *testing.T) {
	repo, projID := activityTestSetup(t)
	ctx := context.Background()

	act := testutil.NewTestActivity(projID, "Couverture",
		testutil.WithPlannedDates(testDate(t, "2026-03-02"), testDate(t, "2026-03-03")))
	require.NoError(t, repo.Create(ctx, act))

	newStart := testDate(t, "2026-03-09").Add(8 * time.Hour)
	newEnd := testDate(t, "2026-03-10").Add(16 * time.Hour)
	require.NoError(t, repo.UpdateDates(ctx, act.ID, newStart, newEnd))

	got, err := repo.GetByID(ctx, act.ID)
	require.NoError(t, err)
	assert.True(t, got.PlannedStart.Equal(newStart))
	assert.True(t, got.PlannedEnd.Equal(newEnd))
	// Only the planned window moves.
	assert.Equal(t, act.Label, got.Label)
	assert.Equal(t, act.Status, got.Status)
}

func TestActivityRepo_Update(t *testing.T) {
	repo, projID := activityTestSetup(t)
	ctx := context.Background()

	act := testutil.NewTestActivity(projID, "Plomberie")
	require.NoError(t, repo.Create(ctx, act))

	now := time.Now().UTC().Truncate(time.Second)
	act.Status = domain.ActivityInProgress
	act.Progress = 40
	act.ActualStart = &now
	require.NoError(t, repo.Update(ctx, act))

	got, err := repo.GetByID(ctx, act.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityInProgress, got.Status)
	assert.Equal(t, 40, got.Progress)
	require.NotNil(t, got.ActualStart)
	assert.True(t, got.ActualStart.Equal(now))
}

func TestActivityRepo_DeleteCascadesToChildren(t *testing.T) {
	repo, projID := activityTestSetup(t)
	ctx := context.Background()

	parent := testutil.NewTestActivity(projID, "Gros oeuvre")
	require.NoError(t, repo.Create(ctx, parent))
	child := testutil.NewTestActivity(projID, "Fondations", testutil.WithActivityParent(parent.ID))
	require.NoError(t, repo.Create(ctx, child))

	require.NoError(t, repo.Delete(ctx, parent.ID))

	_, err := repo.GetByID(ctx, child.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
