package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmarceau/jalon/internal/db"
	"github.com/tmarceau/jalon/internal/domain"
	"github.com/tmarceau/jalon/internal/repository"
	"github.com/tmarceau/jalon/internal/testutil"
)

// A fixed week in March 2026: the 2nd is a Monday.
var (
	monday    = time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	tuesday   = monday.AddDate(0, 0, 1)
	wednesday = monday.AddDate(0, 0, 2)
	thursday  = monday.AddDate(0, 0, 3)
	friday    = monday.AddDate(0, 0, 4)
)

func clock(date time.Time, hour, minute int) time.Time {
	return domain.AtMinute(date, hour*60+minute)
}

// testEnv wires every repository and service over one in-memory database.
type testEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	sites     repository.SiteRepo
	projects  repository.ProjectRepo
	calendars repository.CalendarRepo
	acts      repository.ActivityRepo
	deps      repository.DependencyRepo
	templates repository.TemplateRepo

	planning   PlanningService
	calendar   CalendarService
	activity   ActivityService
	template   TemplateService
	projectSvc ProjectService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	env := &testEnv{
		db:        database,
		uow:       uow,
		sites:     repository.NewSQLiteSiteRepo(database),
		projects:  repository.NewSQLiteProjectRepo(database),
		calendars: repository.NewSQLiteCalendarRepo(database),
		acts:      repository.NewSQLiteActivityRepo(database),
		deps:      repository.NewSQLiteDependencyRepo(database),
		templates: repository.NewSQLiteTemplateRepo(database),
	}
	env.planning = NewPlanningService(env.calendars, env.acts, env.deps, env.projects, uow)
	env.calendar = NewCalendarService(env.calendars)
	env.activity = NewActivityService(env.acts, env.deps, uow)
	env.template = NewTemplateService(env.templates, env.projects, env.calendars, uow)
	env.projectSvc = NewProjectService(env.projects)
	return env
}

// seedProject creates a project governed by the standard calendar.
func (e *testEnv) seedProject(t *testing.T) *domain.Project {
	t.Helper()
	ctx := context.Background()

	cal := testutil.NewTestCalendar("standard")
	require.NoError(t, e.calendars.Create(ctx, cal))

	proj := testutil.NewTestProject("Chantier")
	require.NoError(t, e.projects.Create(ctx, proj))
	return proj
}
