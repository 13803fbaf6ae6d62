package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tmarceau/jalon/internal/db"
	"github.com/tmarceau/jalon/internal/domain"
)

// activityColumns is the canonical SELECT column list for activities.
const activityColumns = `id, project_id, parent_id, lot_id, label,
		planned_start, planned_end, actual_start, actual_end,
		required_days, required_hours, time_class, status, progress,
		created_at, updated_at`

// SQLiteActivityRepo implements ActivityRepo over a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

func NewSQLiteActivityRepo(db db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: db}
}

func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	query := `INSERT INTO activities (` + activityColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ProjectID,
		nullableStrToValue(a.ParentID),
		nullableStrToValue(a.LotID),
		a.Label,
		a.PlannedStart.Format(time.RFC3339),
		a.PlannedEnd.Format(time.RFC3339),
		nullableTimeToString(a.ActualStart, time.RFC3339),
		nullableTimeToString(a.ActualEnd, time.RFC3339),
		nullableIntToValue(a.RequiredDays),
		nullableFloatToValue(a.RequiredHours),
		string(a.TimeClass),
		string(a.Status),
		a.Progress,
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanActivity(row)
}

func (r *SQLiteActivityRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE project_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing activities by project: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

func (r *SQLiteActivityRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE parent_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child activities: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

func (r *SQLiteActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	query := `UPDATE activities SET parent_id = ?, lot_id = ?, label = ?,
		planned_start = ?, planned_end = ?, actual_start = ?, actual_end = ?,
		required_days = ?, required_hours = ?, time_class = ?, status = ?, progress = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableStrToValue(a.ParentID),
		nullableStrToValue(a.LotID),
		a.Label,
		a.PlannedStart.Format(time.RFC3339),
		a.PlannedEnd.Format(time.RFC3339),
		nullableTimeToString(a.ActualStart, time.RFC3339),
		nullableTimeToString(a.ActualEnd, time.RFC3339),
		nullableIntToValue(a.RequiredDays),
		nullableFloatToValue(a.RequiredHours),
		string(a.TimeClass),
		string(a.Status),
		a.Progress,
		nowUTC(),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) UpdateDates(ctx context.Context, id string, start, end time.Time) error {
	query := `UPDATE activities SET planned_start = ?, planned_end = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		start.Format(time.RFC3339),
		end.Format(time.RFC3339),
		nowUTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating activity dates: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return nil
}

func scanActivity(row *sql.Row) (*domain.Activity, error) {
	var a domain.Activity
	var parentID, lotID, actualStart, actualEnd sql.NullString
	var requiredDays sql.NullInt64
	var requiredHours sql.NullFloat64
	var timeClass, status, startStr, endStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&a.ID, &a.ProjectID, &parentID, &lotID, &a.Label,
		&startStr, &endStr, &actualStart, &actualEnd,
		&requiredDays, &requiredHours, &timeClass, &status, &a.Progress,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("activity: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning activity: %w", err)
	}
	return finishActivity(&a, parentID, lotID, actualStart, actualEnd, requiredDays, requiredHours,
		timeClass, status, startStr, endStr, createdAtStr, updatedAtStr)
}

func scanActivities(rows *sql.Rows) ([]*domain.Activity, error) {
	var acts []*domain.Activity
	for rows.Next() {
		var a domain.Activity
		var parentID, lotID, actualStart, actualEnd sql.NullString
		var requiredDays sql.NullInt64
		var requiredHours sql.NullFloat64
		var timeClass, status, startStr, endStr, createdAtStr, updatedAtStr string

		err := rows.Scan(
			&a.ID, &a.ProjectID, &parentID, &lotID, &a.Label,
			&startStr, &endStr, &actualStart, &actualEnd,
			&requiredDays, &requiredHours, &timeClass, &status, &a.Progress,
			&createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		act, err := finishActivity(&a, parentID, lotID, actualStart, actualEnd, requiredDays, requiredHours,
			timeClass, status, startStr, endStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		acts = append(acts, act)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return acts, nil
}

func finishActivity(a *domain.Activity,
	parentID, lotID, actualStart, actualEnd sql.NullString,
	requiredDays sql.NullInt64, requiredHours sql.NullFloat64,
	timeClass, status, startStr, endStr, createdAtStr, updatedAtStr string,
) (*domain.Activity, error) {
	a.ParentID = strPtrFromNull(parentID)
	a.LotID = strPtrFromNull(lotID)
	a.ActualStart = parseNullableTime(actualStart, time.RFC3339)
	a.ActualEnd = parseNullableTime(actualEnd, time.RFC3339)
	a.RequiredDays = intPtrFromNull(requiredDays)
	a.RequiredHours = floatPtrFromNull(requiredHours)
	a.TimeClass = domain.WorkTimeClass(timeClass)
	a.Status = domain.ActivityStatus(status)

	var err error
	if a.PlannedStart, err = time.Parse(time.RFC3339, startStr); err != nil {
		return nil, fmt.Errorf("parsing planned_start: %w", err)
	}
	if a.PlannedEnd, err = time.Parse(time.RFC3339, endStr); err != nil {
		return nil, fmt.Errorf("parsing planned_end: %w", err)
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return a, nil
}
