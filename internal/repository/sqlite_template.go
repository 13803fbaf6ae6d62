package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tmarceau/jalon/internal/db"
	"github.com/tmarceau/jalon/internal/domain"
)

// SQLiteTemplateRepo implements TemplateRepo over a SQLite database.
type SQLiteTemplateRepo struct {
	db db.DBTX
}

func NewSQLiteTemplateRepo(db db.DBTX) *SQLiteTemplateRepo {
	return &SQLiteTemplateRepo{db: db}
}

func (r *SQLiteTemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	query := `INSERT INTO templates (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}

	taskQuery := `INSERT INTO template_tasks
		(id, template_id, label, duration_days, predecessor_task_id, relation, level, order_index, parent_task_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, task := range t.Tasks {
		relation := task.Relation
		if relation == "" {
			relation = domain.FinishToStart
		}
		_, err := r.db.ExecContext(ctx, taskQuery,
			task.ID,
			t.ID,
			task.Label,
			nullableIntToValue(task.DurationDays),
			nullableStrToValue(task.PredecessorTaskID),
			string(relation),
			task.Level,
			task.OrderIndex,
			nullableStrToValue(task.ParentTaskID),
		)
		if err != nil {
			return fmt.Errorf("inserting template task '%s': %w", task.Label, err)
		}
	}
	return nil
}

func (r *SQLiteTemplateRepo) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	query := `SELECT id, name, created_at, updated_at FROM templates WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var t domain.Template
	var createdAtStr, updatedAtStr string
	err := row.Scan(&t.ID, &t.Name, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("template: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning template: %w", err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	taskQuery := `SELECT id, template_id, label, duration_days, predecessor_task_id, relation, level, order_index, parent_task_id
		FROM template_tasks WHERE template_id = ? ORDER BY level, order_index, id`
	rows, err := r.db.QueryContext(ctx, taskQuery, id)
	if err != nil {
		return nil, fmt.Errorf("loading template tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var task domain.TemplateTask
		var durationDays sql.NullInt64
		var predecessorID, parentID sql.NullString
		var relation string
		if err := rows.Scan(&task.ID, &task.TemplateID, &task.Label, &durationDays,
			&predecessorID, &relation, &task.Level, &task.OrderIndex, &parentID); err != nil {
			return nil, fmt.Errorf("scanning template task: %w", err)
		}
		task.DurationDays = intPtrFromNull(durationDays)
		task.PredecessorTaskID = strPtrFromNull(predecessorID)
		task.Relation = domain.RelationKind(relation)
		task.ParentTaskID = strPtrFromNull(parentID)
		t.Tasks = append(t.Tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating template tasks: %w", err)
	}
	return &t, nil
}

func (r *SQLiteTemplateRepo) List(ctx context.Context) ([]*domain.Template, error) {
	query := `SELECT id, name, created_at, updated_at FROM templates ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var templates []*domain.Template
	for rows.Next() {
		var t domain.Template
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&t.ID, &t.Name, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		if t.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		templates = append(templates, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates: %w", err)
	}
	return templates, nil
}

func (r *SQLiteTemplateRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	return nil
}
