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

func TestCalendarService_CreateAssignsIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cal := testutil.NewTestCalendar("standard")
	cal.ID = ""
	for i := range cal.Pattern {
		cal.Pattern[i].CalendarID = ""
	}
	require.NoError(t, env.calendar.Create(ctx, cal))

	assert.NotEmpty(t, cal.ID)
	got, err := env.calendar.GetByID(ctx, cal.ID)
	require.NoError(t, err)
	assert.Len(t, got.Pattern, 7)
}

func TestCalendarService_Create_RejectsInvalidPattern(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cal := testutil.NewTestCalendar("inverted")
	// Monday closes before it opens.
	cal.Pattern[1].StartMin = 16 * 60
	cal.Pattern[1].EndMin = 8 * 60

	err := env.calendar.Create(ctx, cal)
	assert.Error(t, err)
}

func TestCalendarService_Create_RejectsOpenOverrideWithoutWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cal := testutil.NewTestCalendar("corrupt", testutil.WithCorruptOverride(wednesday))
	err := env.calendar.Create(ctx, cal)
	assert.Error(t, err)
}

func TestCalendarService_SetOverride(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cal := testutil.NewTestCalendar("standard")
	require.NoError(t, env.calendar.Create(ctx, cal))

	require.NoError(t, env.calendar.SetOverride(ctx, &domain.DayOverride{
		CalendarID: cal.ID,
		Date:       wednesday,
		Kind:       domain.DayClosed,
	}))

	got, err := env.calendar.GetByID(ctx, cal.ID)
	require.NoError(t, err)
	require.Len(t, got.Overrides, 1)
	assert.Equal(t, domain.DayClosed, got.Overrides[0].Kind)

	require.NoError(t, env.calendar.RemoveOverride(ctx, cal.ID, wednesday))
	got, err = env.calendar.GetByID(ctx, cal.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Overrides)
}

func TestCalendarService_SetPattern(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cal := testutil.NewTestCalendar("standard")
	require.NoError(t, env.calendar.Create(ctx, cal))

	// Open Saturday mornings.
	require.NoError(t, env.calendar.SetPattern(ctx, &domain.WeekdayPattern{
		CalendarID:   cal.ID,
		Weekday:      6,
		Kind:         domain.DayOpen,
		StartMin:     8 * 60,
		EndMin:       12 * 60,
		NominalHours: 4,
	}))

	got, err := env.calendar.GetByID(ctx, cal.ID)
	require.NoError(t, err)
	saturday := got.PatternFor(6)
	require.NotNil(t, saturday)
	assert.Equal(t, domain.DayOpen, saturday.Kind)
	assert.Equal(t, 12*60, saturday.EndMin)
}

func TestCalendarService_ResolveForSite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	site := testutil.NewTestSite("Lyon")
	require.NoError(t, env.sites.Create(ctx, site))

	fallback := testutil.NewTestCalendar("default")
	require.NoError(t, env.calendar.Create(ctx, fallback))

	got, err := env.calendar.ResolveForSite(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, fallback.ID, got.ID)

	scoped := testutil.NewTestCalendar("lyon hours", testutil.WithCalendarSite(site.ID))
	require.NoError(t, env.calendar.Create(ctx, scoped))

	got, err = env.calendar.ResolveForSite(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, scoped.ID, got.ID)
}

func TestCalendarService_ResolveForSite_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.calendar.ResolveForSite(context.Background(), "nowhere")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
