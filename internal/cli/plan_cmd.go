package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmarceau/jalon/internal/cli/formatter"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute end dates and available hours on a calendar",
	}

	cmd.AddCommand(
		newPlanEndByDaysCmd(app),
		newPlanEndByHoursCmd(app),
		newPlanHoursCmd(app),
	)

	return cmd
}

func newPlanEndByDaysCmd(app *App) *cobra.Command {
	var startStr string
	var days int

	cmd := &cobra.Command{
		Use:   "end-by-days <calendar-id>",
		Short: "Compute the end instant after a number of working days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseInstant(startStr)
			if err != nil {
				return err
			}
			end, err := app.Planning.ComputeEndByDays(context.Background(), args[0], start, days)
			if err != nil {
				return err
			}
			fmt.Printf("%s + %d working days = %s\n",
				formatter.FormatInstant(start), days, formatter.Bold(formatter.FormatInstant(end)))
			return nil
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "Start instant (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	cmd.Flags().IntVar(&days, "days", 1, "Working days to add")
	markRequired(cmd.Flags(), "start")
	return cmd
}

func newPlanEndByHoursCmd(app *App) *cobra.Command {
	var startStr string
	var hours float64

	cmd := &cobra.Command{
		Use:   "end-by-hours <calendar-id>",
		Short: "Compute the exact end instant after a number of working hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseInstant(startStr)
			if err != nil {
				return err
			}
			end, err := app.Planning.ComputeEndByHours(context.Background(), args[0], start, hours)
			if err != nil {
				return err
			}
			fmt.Printf("%s + %s = %s\n",
				formatter.FormatInstant(start), formatter.FormatHours(hours), formatter.Bold(formatter.FormatInstant(end)))
			return nil
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "Start instant (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Working hours to add")
	markRequired(cmd.Flags(), "start", "hours")
	return cmd
}

func newPlanHoursCmd(app *App) *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "hours <calendar-id>",
		Short: "Sum nominal working hours over a date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseDate(fromStr)
			if err != nil {
				return err
			}
			to, err := parseDate(toStr)
			if err != nil {
				return err
			}
			total, err := app.Planning.WorkingHoursInRange(context.Background(), args[0], from, to)
			if err != nil {
				return err
			}
			fmt.Printf("%s .. %s: %s\n",
				from.Format("2006-01-02"), to.Format("2006-01-02"),
				formatter.Bold(formatter.FormatHours(total)))
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "Range start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "Range end date (YYYY-MM-DD)")
	markRequired(cmd.Flags(), "from", "to")
	return cmd
}
