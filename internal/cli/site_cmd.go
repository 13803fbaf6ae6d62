package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmarceau/jalon/internal/cli/formatter"
	"github.com/tmarceau/jalon/internal/repository"
)

func newSiteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "List sites and their calendars",
	}

	cmd.AddCommand(newSiteListCmd(app))
	return cmd
}

func newSiteListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sites, err := app.Sites.List(ctx)
			if err != nil {
				return err
			}
			if len(sites) == 0 {
				fmt.Println(formatter.Dim("No sites."))
				return nil
			}

			rows := make([][]string, len(sites))
			for i, s := range sites {
				calName := formatter.Dim("none")
				cal, err := app.Calendars.ResolveForSite(ctx, s.ID)
				switch {
				case err == nil:
					calName = cal.Name
				case !errors.Is(err, repository.ErrNotFound):
					return err
				}
				rows[i] = []string{s.ID, s.Name, calName}
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "NAME", "CALENDAR"}, rows))
			return nil
		},
	}
}
