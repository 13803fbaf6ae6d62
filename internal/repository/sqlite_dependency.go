package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tmarceau/jalon/internal/db"
	"github.com/tmarceau/jalon/internal/domain"
)

const dependencyColumns = `id, predecessor_id, successor_id, relation, lag_days, created_at`

// SQLiteDependencyRepo implements DependencyRepo over a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

func NewSQLiteDependencyRepo(db db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: db}
}

func (r *SQLiteDependencyRepo) Create(ctx context.Context, d *domain.Dependency) error {
	if err := d.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO dependencies (` + dependencyColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.PredecessorID,
		d.SuccessorID,
		string(d.Relation),
		d.LagDays,
		d.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, predecessorID, successorID string) error {
	query := `DELETE FROM dependencies WHERE predecessor_id = ? AND successor_id = ?`
	_, err := r.db.ExecContext(ctx, query, predecessorID, successorID)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) DeleteForActivity(ctx context.Context, activityID string) error {
	query := `DELETE FROM dependencies WHERE predecessor_id = ? OR successor_id = ?`
	_, err := r.db.ExecContext(ctx, query, activityID, activityID)
	if err != nil {
		return fmt.Errorf("deleting dependencies for activity: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	query := `SELECT d.id, d.predecessor_id, d.successor_id, d.relation, d.lag_days, d.created_at
		FROM dependencies d
		JOIN activities a ON d.successor_id = a.id
		WHERE a.project_id = ?
		ORDER BY d.created_at, d.id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project dependencies: %w", err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) ListPredecessors(ctx context.Context, activityID string) ([]domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM dependencies WHERE successor_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("listing predecessors: %w", err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) ListSuccessors(ctx context.Context, activityID string) ([]domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM dependencies WHERE predecessor_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("listing successors: %w", err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) HasDependents(ctx context.Context, activityID string) (bool, error) {
	query := `SELECT COUNT(*) FROM dependencies WHERE predecessor_id = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, activityID).Scan(&count); err != nil {
		return false, fmt.Errorf("counting dependents: %w", err)
	}
	return count > 0, nil
}

func (r *SQLiteDependencyRepo) scanDependencies(rows *sql.Rows) ([]domain.Dependency, error) {
	var deps []domain.Dependency
	for rows.Next() {
		var d domain.Dependency
		var relation, createdAtStr string
		if err := rows.Scan(&d.ID, &d.PredecessorID, &d.SuccessorID, &relation, &d.LagDays, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		d.Relation = domain.RelationKind(relation)
		var err error
		if d.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing dependency created_at: %w", err)
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}
