package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tmarceau/jalon/internal/db"
	"github.com/tmarceau/jalon/internal/domain"
)

// SQLiteCalendarRepo implements CalendarRepo over a SQLite database.
type SQLiteCalendarRepo struct {
	db db.DBTX
}

func NewSQLiteCalendarRepo(db db.DBTX) *SQLiteCalendarRepo {
	return &SQLiteCalendarRepo{db: db}
}

func (r *SQLiteCalendarRepo) Create(ctx context.Context, c *domain.WorkCalendar) error {
	query := `INSERT INTO work_calendars (id, site_id, name, year, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		nullableStrToValue(c.SiteID),
		c.Name,
		c.Year,
		boolToInt(c.Active),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting calendar: %w", err)
	}
	for i := range c.Pattern {
		if err := r.UpsertPattern(ctx, &c.Pattern[i]); err != nil {
			return err
		}
	}
	for i := range c.Overrides {
		if err := r.UpsertOverride(ctx, &c.Overrides[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteCalendarRepo) GetByID(ctx context.Context, id string) (*domain.WorkCalendar, error) {
	query := `SELECT id, site_id, name, year, active, created_at, updated_at
		FROM work_calendars WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	cal, err := r.scanCalendar(row)
	if err != nil {
		return nil, err
	}
	return r.loadDefinition(ctx, cal)
}

func (r *SQLiteCalendarRepo) ActiveForSite(ctx context.Context, siteID string) (*domain.WorkCalendar, error) {
	// Site-scoped first; the active unscoped default is the fallback.
	query := `SELECT id, site_id, name, year, active, created_at, updated_at
		FROM work_calendars
		WHERE active = 1 AND (site_id = ? OR site_id IS NULL)
		ORDER BY site_id IS NULL
		LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, siteID)
	cal, err := r.scanCalendar(row)
	if err != nil {
		return nil, err
	}
	return r.loadDefinition(ctx, cal)
}

func (r *SQLiteCalendarRepo) List(ctx context.Context) ([]*domain.WorkCalendar, error) {
	query := `SELECT id, site_id, name, year, active, created_at, updated_at
		FROM work_calendars ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing calendars: %w", err)
	}
	defer rows.Close()

	var cals []*domain.WorkCalendar
	for rows.Next() {
		c, err := r.scanCalendarFromRows(rows)
		if err != nil {
			return nil, err
		}
		cals = append(cals, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calendars: %w", err)
	}
	return cals, nil
}

func (r *SQLiteCalendarRepo) Update(ctx context.Context, c *domain.WorkCalendar) error {
	query := `UPDATE work_calendars SET site_id = ?, name = ?, year = ?, active = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableStrToValue(c.SiteID),
		c.Name,
		c.Year,
		boolToInt(c.Active),
		nowUTC(),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating calendar: %w", err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM work_calendars WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting calendar: %w", err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) UpsertPattern(ctx context.Context, p *domain.WeekdayPattern) error {
	query := `INSERT INTO weekday_patterns
		(calendar_id, weekday, kind, start_min, end_min, break_start_min, break_end_min, nominal_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (calendar_id, weekday) DO UPDATE SET
			kind = excluded.kind,
			start_min = excluded.start_min,
			end_min = excluded.end_min,
			break_start_min = excluded.break_start_min,
			break_end_min = excluded.break_end_min,
			nominal_hours = excluded.nominal_hours`
	_, err := r.db.ExecContext(ctx, query,
		p.CalendarID,
		p.Weekday,
		string(p.Kind),
		p.StartMin,
		p.EndMin,
		nullableIntToValue(p.BreakStartMin),
		nullableIntToValue(p.BreakEndMin),
		p.NominalHours,
	)
	if err != nil {
		return fmt.Errorf("upserting weekday pattern: %w", err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) UpsertOverride(ctx context.Context, o *domain.DayOverride) error {
	query := `INSERT INTO day_overrides
		(id, calendar_id, date, kind, start_min, end_min, break_start_min, break_end_min, fixed_hours, from_template, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (calendar_id, date) DO UPDATE SET
			kind = excluded.kind,
			start_min = excluded.start_min,
			end_min = excluded.end_min,
			break_start_min = excluded.break_start_min,
			break_end_min = excluded.break_end_min,
			fixed_hours = excluded.fixed_hours,
			from_template = excluded.from_template`
	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.CalendarID,
		o.Date.Format(dateLayout),
		string(o.Kind),
		nullableIntToValue(o.StartMin),
		nullableIntToValue(o.EndMin),
		nullableIntToValue(o.BreakStartMin),
		nullableIntToValue(o.BreakEndMin),
		nullableFloatToValue(o.FixedHours),
		boolToInt(o.FromTemplate),
		o.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting day override: %w", err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) GetOverride(ctx context.Context, calendarID string, date time.Time) (*domain.DayOverride, error) {
	query := `SELECT id, calendar_id, date, kind, start_min, end_min, break_start_min, break_end_min, fixed_hours, from_template, created_at
		FROM day_overrides WHERE calendar_id = ? AND date = ?`
	rows, err := r.db.QueryContext(ctx, query, calendarID, date.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("loading day override: %w", err)
	}
	defer rows.Close()

	ovs, err := scanOverrides(rows)
	if err != nil {
		return nil, err
	}
	if len(ovs) == 0 {
		return nil, fmt.Errorf("override for %s on calendar %s: %w", date.Format(dateLayout), calendarID, ErrNotFound)
	}
	return &ovs[0], nil
}

func (r *SQLiteCalendarRepo) DeleteOverride(ctx context.Context, calendarID string, date time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM day_overrides WHERE calendar_id = ? AND date = ?`,
		calendarID, date.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("deleting day override: %w", err)
	}
	return nil
}

// loadDefinition attaches the weekly pattern and overrides to a calendar.
func (r *SQLiteCalendarRepo) loadDefinition(ctx context.Context, cal *domain.WorkCalendar) (*domain.WorkCalendar, error) {
	patQuery := `SELECT calendar_id, weekday, kind, start_min, end_min, break_start_min, break_end_min, nominal_hours
		FROM weekday_patterns WHERE calendar_id = ? ORDER BY weekday`
	rows, err := r.db.QueryContext(ctx, patQuery, cal.ID)
	if err != nil {
		return nil, fmt.Errorf("loading weekday patterns: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.WeekdayPattern
		var kind string
		var breakStart, breakEnd sql.NullInt64
		if err := rows.Scan(&p.CalendarID, &p.Weekday, &kind, &p.StartMin, &p.EndMin, &breakStart, &breakEnd, &p.NominalHours); err != nil {
			return nil, fmt.Errorf("scanning weekday pattern: %w", err)
		}
		p.Kind = domain.DayKind(kind)
		p.BreakStartMin = intPtrFromNull(breakStart)
		p.BreakEndMin = intPtrFromNull(breakEnd)
		cal.Pattern = append(cal.Pattern, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weekday patterns: %w", err)
	}

	ovQuery := `SELECT id, calendar_id, date, kind, start_min, end_min, break_start_min, break_end_min, fixed_hours, from_template, created_at
		FROM day_overrides WHERE calendar_id = ? ORDER BY date`
	ovRows, err := r.db.QueryContext(ctx, ovQuery, cal.ID)
	if err != nil {
		return nil, fmt.Errorf("loading day overrides: %w", err)
	}
	defer ovRows.Close()
	cal.Overrides, err = scanOverrides(ovRows)
	if err != nil {
		return nil, err
	}
	return cal, nil
}

func (r *SQLiteCalendarRepo) scanCalendar(row *sql.Row) (*domain.WorkCalendar, error) {
	var c domain.WorkCalendar
	var siteID sql.NullString
	var active int
	var createdAtStr, updatedAtStr string

	err := row.Scan(&c.ID, &siteID, &c.Name, &c.Year, &active, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("calendar: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning calendar: %w", err)
	}
	c.SiteID = strPtrFromNull(siteID)
	c.Active = intToBool(active)
	if c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}

func (r *SQLiteCalendarRepo) scanCalendarFromRows(rows *sql.Rows) (*domain.WorkCalendar, error) {
	var c domain.WorkCalendar
	var siteID sql.NullString
	var active int
	var createdAtStr, updatedAtStr string

	if err := rows.Scan(&c.ID, &siteID, &c.Name, &c.Year, &active, &createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scanning calendar: %w", err)
	}
	c.SiteID = strPtrFromNull(siteID)
	c.Active = intToBool(active)
	var err error
	if c.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}

func scanOverrides(rows *sql.Rows) ([]domain.DayOverride, error) {
	var ovs []domain.DayOverride
	for rows.Next() {
		var o domain.DayOverride
		var dateStr, kind, createdAtStr string
		var start, end, breakStart, breakEnd sql.NullInt64
		var fixedHours sql.NullFloat64
		var fromTemplate int
		if err := rows.Scan(&o.ID, &o.CalendarID, &dateStr, &kind,
			&start, &end, &breakStart, &breakEnd, &fixedHours, &fromTemplate, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning day override: %w", err)
		}
		var err error
		if o.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parsing override date: %w", err)
		}
		o.Kind = domain.DayKind(kind)
		o.StartMin = intPtrFromNull(start)
		o.EndMin = intPtrFromNull(end)
		o.BreakStartMin = intPtrFromNull(breakStart)
		o.BreakEndMin = intPtrFromNull(breakEnd)
		o.FixedHours = floatPtrFromNull(fixedHours)
		o.FromTemplate = intToBool(fromTemplate)
		if o.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing override created_at: %w", err)
		}
		ovs = append(ovs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating day overrides: %w", err)
	}
	return ovs, nil
}
