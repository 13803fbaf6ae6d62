package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarceau/jalon/internal/domain"
	"github.com/tmarceau/jalon/internal/repository"
	"github.com/tmarceau/jalon/internal/testutil"
)

func TestProjectService_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	proj := &domain.Project{Name: "Chantier A"}
	require.NoError(t, env.projectSvc.Create(ctx, proj))
	assert.NotEmpty(t, proj.ID)

	got, err := env.projectSvc.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chantier A", got.Name)
}

func TestProjectService_DeleteCascadesActivities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	proj := env.seedProject(t)

	act := testutil.NewTestActivity(proj.ID, "Terrassement")
	require.NoError(t, env.acts.Create(ctx, act))

	require.NoError(t, env.projectSvc.Delete(ctx, proj.ID))

	_, err := env.acts.GetByID(ctx, act.ID)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
