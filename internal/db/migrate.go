package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations in order. Statements are idempotent
// (IF NOT EXISTS); ALTER TABLE duplicates are tolerated so the full list can
// be re-run against an existing database.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sites (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		site_id    TEXT REFERENCES sites(id),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS work_calendars (
		id         TEXT PRIMARY KEY,
		site_id    TEXT REFERENCES sites(id),
		name       TEXT NOT NULL,
		year       INTEGER NOT NULL,
		active     INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_calendars_site ON work_calendars(site_id, active)`,

	`CREATE TABLE IF NOT EXISTS weekday_patterns (
		calendar_id     TEXT NOT NULL REFERENCES work_calendars(id) ON DELETE CASCADE,
		weekday         INTEGER NOT NULL CHECK(weekday BETWEEN 0 AND 6),
		kind            TEXT NOT NULL CHECK(kind IN ('open','closed')),
		start_min       INTEGER NOT NULL DEFAULT 0,
		end_min         INTEGER NOT NULL DEFAULT 0,
		break_start_min INTEGER,
		break_end_min   INTEGER,
		nominal_hours   REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (calendar_id, weekday)
	)`,

	`CREATE TABLE IF NOT EXISTS day_overrides (
		id              TEXT PRIMARY KEY,
		calendar_id     TEXT NOT NULL REFERENCES work_calendars(id) ON DELETE CASCADE,
		date            TEXT NOT NULL,
		kind            TEXT NOT NULL CHECK(kind IN ('open','closed')),
		start_min       INTEGER,
		end_min         INTEGER,
		break_start_min INTEGER,
		break_end_min   INTEGER,
		fixed_hours     REAL,
		from_template   INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL
	)`,

	// At most one override per (calendar, date).
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_day_overrides_date ON day_overrides(calendar_id, date)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id      TEXT REFERENCES activities(id) ON DELETE CASCADE,
		lot_id         TEXT,
		label          TEXT NOT NULL,
		planned_start  TEXT NOT NULL,
		planned_end    TEXT NOT NULL,
		actual_start   TEXT,
		actual_end     TEXT,
		required_days  INTEGER,
		required_hours REAL,
		time_class     TEXT NOT NULL DEFAULT 'standard'
		               CHECK(time_class IN ('standard','night','weekend','holiday')),
		status         TEXT NOT NULL DEFAULT 'planned'
		               CHECK(status IN ('planned','in_progress','completed','cancelled')),
		progress       INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_project ON activities(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_parent ON activities(parent_id)`,

	// RESTRICT keeps the graph free of dangling edges: a predecessor cannot
	// vanish while a dependency still points at it.
	`CREATE TABLE IF NOT EXISTS dependencies (
		id             TEXT PRIMARY KEY,
		predecessor_id TEXT NOT NULL REFERENCES activities(id) ON DELETE RESTRICT,
		successor_id   TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		relation       TEXT NOT NULL CHECK(relation IN ('FS','SS','FF','SF')),
		lag_days       INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		UNIQUE (predecessor_id, successor_id),
		CHECK (predecessor_id <> successor_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_dependencies_successor ON dependencies(successor_id)`,

	`CREATE TABLE IF NOT EXISTS templates (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	// Task references (predecessor, parent) stay soft: templates may name
	// tasks in any order, and dangling references are caught at
	// instantiation time.
	`CREATE TABLE IF NOT EXISTS template_tasks (
		id                  TEXT PRIMARY KEY,
		template_id         TEXT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
		label               TEXT NOT NULL,
		duration_days       INTEGER,
		predecessor_task_id TEXT,
		relation            TEXT NOT NULL DEFAULT 'FS' CHECK(relation IN ('FS','SS','FF','SF')),
		level               INTEGER NOT NULL DEFAULT 0,
		order_index         INTEGER NOT NULL DEFAULT 0,
		parent_task_id      TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_template_tasks_template ON template_tasks(template_id)`,
}
