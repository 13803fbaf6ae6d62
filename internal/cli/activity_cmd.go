package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmarceau/jalon/internal/cli/formatter"
	"github.com/tmarceau/jalon/internal/domain"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Inspect and reschedule project activities",
	}

	cmd.AddCommand(
		newActivityListCmd(app),
		newActivityShowCmd(app),
		newActivityPropagateCmd(app),
	)

	return cmd
}

func newActivityShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <activity-id>",
		Short: "Show one activity's status and dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := app.Activities.GetByID(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header(act.Label))
			fmt.Println(formatter.StatusIndicator(act.Status))
			fmt.Printf("  planned   %s\n", formatter.ActivityWindow(act))
			fmt.Printf("  actual    %s → %s\n",
				formatInstantPtr(act.ActualStart), formatInstantPtr(act.ActualEnd))
			fmt.Printf("  work      %s\n", requiredWork(act))
			fmt.Printf("  progress  %d%%\n", act.Progress)
			return nil
		},
	}
}

func formatInstantPtr(t *time.Time) string {
	if t == nil {
		return formatter.Dim("-")
	}
	return formatter.FormatInstant(*t)
}

func requiredWork(a *domain.Activity) string {
	if a.HourDriven() {
		return formatter.FormatHours(*a.RequiredHours)
	}
	return fmt.Sprintf("%dd", a.RequiredDayCount())
}

func newActivityListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's activities as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acts, err := app.Activities.ListByProject(context.Background(), args[0])
			if err != nil {
				return err
			}
			if len(acts) == 0 {
				fmt.Println(formatter.Dim("No activities."))
				return nil
			}

			fmt.Print(formatter.RenderTree(activityTree(acts)))
			return nil
		},
	}
	return cmd
}

// activityTree flattens the parent hierarchy into display order, roots
// first, each followed by its children.
func activityTree(acts []*domain.Activity) []formatter.TreeItem {
	children := make(map[string][]*domain.Activity)
	var roots []*domain.Activity
	for _, a := range acts {
		if a.ParentID == nil {
			roots = append(roots, a)
			continue
		}
		children[*a.ParentID] = append(children[*a.ParentID], a)
	}

	var items []formatter.TreeItem
	var walk func(a *domain.Activity, level int, isLast bool)
	walk = func(a *domain.Activity, level int, isLast bool) {
		items = append(items, formatter.TreeItem{
			Label:  a.Label,
			Level:  level,
			IsLast: isLast,
			Status: a.Status,
			Detail: formatter.ActivityWindow(a),
		})
		kids := children[a.ID]
		for i, kid := range kids {
			walk(kid, level+1, i == len(kids)-1)
		}
	}
	for i, root := range roots {
		walk(root, 0, i == len(roots)-1)
	}
	return items
}

func newActivityPropagateCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "propagate <activity-id>",
		Short: "Push date constraints forward from an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			triggerID := args[0]

			if projectID == "" {
				act, err := app.Activities.GetByID(ctx, triggerID)
				if err != nil {
					return err
				}
				projectID = act.ProjectID
			}

			changes, err := app.Planning.PropagateDependencies(ctx, projectID, triggerID)
			if err != nil {
				return err
			}

			labels := make(map[string]string)
			if acts, err := app.Activities.ListByProject(ctx, projectID); err == nil {
				for _, a := range acts {
					labels[a.ID] = a.Label
				}
			}
			fmt.Print(formatter.FormatDateChanges(changes, labels))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID (defaults to the activity's project)")
	return cmd
}
