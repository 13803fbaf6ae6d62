package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/tmarceau/jalon/internal/cli"
	"github.com/tmarceau/jalon/internal/cli/formatter"
	"github.com/tmarceau/jalon/internal/db"
	"github.com/tmarceau/jalon/internal/repository"
	"github.com/tmarceau/jalon/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// DB path: env var or default ~/.jalon/jalon.db
	dbPath := os.Getenv("JALON_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".jalon", "jalon.db")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.DisableColor()
	}

	// Wire repositories
	siteRepo := repository.NewSQLiteSiteRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	calendarRepo := repository.NewSQLiteCalendarRepo(database)
	activityRepo := repository.NewSQLiteActivityRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	templateRepo := repository.NewSQLiteTemplateRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if os.Getenv("JALON_DEBUG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Planning:   service.NewPlanningService(calendarRepo, activityRepo, depRepo, projectRepo, uow, observers...),
		Calendars:  service.NewCalendarService(calendarRepo),
		Activities: service.NewActivityService(activityRepo, depRepo, uow),
		Templates:  service.NewTemplateService(templateRepo, projectRepo, calendarRepo, uow, observers...),
		Projects:   service.NewProjectService(projectRepo),
		Sites:      service.NewSiteService(siteRepo),
	}

	return cli.NewRootCmd(app).Execute()
}
