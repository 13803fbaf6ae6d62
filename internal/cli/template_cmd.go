package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tmarceau/jalon/internal/cli/formatter"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "List and apply activity templates",
	}

	cmd.AddCommand(
		newTemplateListCmd(app),
		newTemplateApplyCmd(app),
	)

	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			tpls, err := app.Templates.List(context.Background())
			if err != nil {
				return err
			}
			if len(tpls) == 0 {
				fmt.Println(formatter.Dim("No templates."))
				return nil
			}

			rows := make([][]string, len(tpls))
			for i, tpl := range tpls {
				rows[i] = []string{tpl.ID, tpl.Name, strconv.Itoa(len(tpl.Tasks))}
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "NAME", "TASKS"}, rows))
			return nil
		},
	}
}

func newTemplateApplyCmd(app *App) *cobra.Command {
	var projectID, startStr string

	cmd := &cobra.Command{
		Use:   "apply <template-id>",
		Short: "Instantiate a template into a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseInstant(startStr)
			if err != nil {
				return err
			}

			ids, err := app.Templates.Instantiate(context.Background(), args[0], projectID, start)
			if err != nil {
				return err
			}
			fmt.Printf("Created %d activities from template.\n", len(ids))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Target project ID")
	cmd.Flags().StringVar(&startStr, "start", "", "Reference start (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	markRequired(cmd.Flags(), "project", "start")
	return cmd
}
