package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmarceau/jalon/internal/cli/formatter"
	"github.com/tmarceau/jalon/internal/domain"
	"github.com/tmarceau/jalon/internal/schedule"
)

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Manage work calendars",
	}

	cmd.AddCommand(
		newCalendarListCmd(app),
		newCalendarShowCmd(app),
		newCalendarResolveCmd(app),
	)

	return cmd
}

func newCalendarListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List work calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			cals, err := app.Calendars.List(context.Background())
			if err != nil {
				return err
			}
			if len(cals) == 0 {
				fmt.Println(formatter.Dim("No calendars."))
				return nil
			}

			rows := make([][]string, len(cals))
			for i, c := range cals {
				scope := formatter.Dim("default")
				if c.SiteID != nil {
					scope = *c.SiteID
				}
				state := formatter.StyleGreen.Render("active")
				if !c.Active {
					state = formatter.Dim("inactive")
				}
				rows[i] = []string{c.ID, c.Name, strconv.Itoa(c.Year), scope, state}
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "NAME", "YEAR", "SITE", "STATE"}, rows))
			return nil
		},
	}
}

func newCalendarShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <calendar-id>",
		Short: "Show a calendar's weekly pattern and overrides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cal, err := app.Calendars.GetByID(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header(cal.Name))

			rows := make([][]string, 0, 7)
			for wd := 0; wd < 7; wd++ {
				day := time.Weekday(wd)
				p := cal.PatternFor(day)
				if p == nil || p.Kind != domain.DayOpen {
					rows = append(rows, []string{day.String(), formatter.Dim("closed"), "", ""})
					continue
				}
				window := fmt.Sprintf("%s - %s", domain.FormatClock(p.StartMin), domain.FormatClock(p.EndMin))
				brk := ""
				if p.BreakStartMin != nil && p.BreakEndMin != nil {
					brk = fmt.Sprintf("%s - %s", domain.FormatClock(*p.BreakStartMin), domain.FormatClock(*p.BreakEndMin))
				}
				rows = append(rows, []string{day.String(), window, brk, formatter.FormatHours(p.NominalHours)})
			}
			fmt.Print(formatter.RenderTable([]string{"DAY", "HOURS", "BREAK", "NOMINAL"}, rows))

			if len(cal.Overrides) > 0 {
				fmt.Println()
				fmt.Println(formatter.Header("overrides"))
				orows := make([][]string, len(cal.Overrides))
				for i, o := range cal.Overrides {
					kind := formatter.StyleRed.Render("closed")
					window := ""
					if o.Kind == domain.DayOpen {
						kind = formatter.StyleGreen.Render("open")
						if o.StartMin != nil && o.EndMin != nil {
							window = fmt.Sprintf("%s - %s", domain.FormatClock(*o.StartMin), domain.FormatClock(*o.EndMin))
						}
					}
					orows[i] = []string{o.Date.Format("2006-01-02"), kind, window}
				}
				fmt.Print(formatter.RenderTable([]string{"DATE", "KIND", "HOURS"}, orows))
			}
			return nil
		},
	}
}

func newCalendarResolveCmd(app *App) *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "resolve <calendar-id>",
		Short: "Resolve the effective schedule for one date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}

			sched, err := app.Planning.ResolveDay(context.Background(), args[0], date)
			var ie *schedule.IntegrityError
			if errors.As(err, &ie) {
				fmt.Println(formatter.StyleYellow.Render("warning: " + ie.Error()))
				err = nil
			}
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatDaySchedule(date, sched))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Date to resolve (YYYY-MM-DD)")
	markRequired(cmd.Flags(), "date")
	return cmd
}
