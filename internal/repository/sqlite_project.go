package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tmarceau/jalon/internal/db"
	"github.com/tmarceau/jalon/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo over a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (id, name, site_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		nullableStrToValue(p.SiteID),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT id, name, site_id, created_at, updated_at FROM projects WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var p domain.Project
	var siteID sql.NullString
	var createdAtStr, updatedAtStr string
	err := row.Scan(&p.ID, &p.Name, &siteID, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	p.SiteID = strPtrFromNull(siteID)
	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT id, name, site_id, created_at, updated_at FROM projects ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		var p domain.Project
		var siteID sql.NullString
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&p.ID, &p.Name, &siteID, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		p.SiteID = strPtrFromNull(siteID)
		if p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, site_id = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, p.Name, nullableStrToValue(p.SiteID), nowUTC(), p.ID)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// SQLiteSiteRepo implements SiteRepo over a SQLite database.
type SQLiteSiteRepo struct {
	db db.DBTX
}

func NewSQLiteSiteRepo(db db.DBTX) *SQLiteSiteRepo {
	return &SQLiteSiteRepo{db: db}
}

func (r *SQLiteSiteRepo) Create(ctx context.Context, s *domain.Site) error {
	query := `INSERT INTO sites (id, name, created_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting site: %w", err)
	}
	return nil
}

func (r *SQLiteSiteRepo) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	query := `SELECT id, name, created_at FROM sites WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var s domain.Site
	var createdAtStr string
	err := row.Scan(&s.ID, &s.Name, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("site: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning site: %w", err)
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &s, nil
}

func (r *SQLiteSiteRepo) List(ctx context.Context) ([]*domain.Site, error) {
	query := `SELECT id, name, created_at FROM sites ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}
	defer rows.Close()

	var sites []*domain.Site
	for rows.Next() {
		var s domain.Site
		var createdAtStr string
		if err := rows.Scan(&s.ID, &s.Name, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning site: %w", err)
		}
		if s.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		sites = append(sites, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sites: %w", err)
	}
	return sites, nil
}
