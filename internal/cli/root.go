package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tmarceau/jalon/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Planning   service.PlanningService
	Calendars  service.CalendarService
	Activities service.ActivityService
	Templates  service.TemplateService
	Projects   service.ProjectService
	Sites      service.SiteService
}

// NewRootCmd creates the top-level "jalon" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "jalon",
		Short: "Calendar-aware activity scheduler",
	}

	root.AddCommand(
		newCalendarCmd(app),
		newPlanCmd(app),
		newActivityCmd(app),
		newTemplateCmd(app),
		newSiteCmd(app),
	)

	return root
}

// markRequired marks flags as required, panicking on a misspelled name so
// wiring mistakes surface at startup rather than being silently ignored.
func markRequired(fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if fs.Lookup(name) == nil {
			panic(fmt.Sprintf("unknown flag %q", name))
		}
		if err := cobra.MarkFlagRequired(fs, name); err != nil {
			panic(err)
		}
	}
}

// parseDate parses a civil date flag in the calendar's local time.
func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// parseInstant accepts a date with an optional clock time.
func parseInstant(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q (want YYYY-MM-DD or YYYY-MM-DD HH:MM): %w", s, err)
	}
	return t, nil
}
