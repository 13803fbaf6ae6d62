package domain

import "time"

// Project ("affaire") exclusively owns its activities.
type Project struct {
	ID        string
	Name      string
	SiteID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Site owns at most one active work calendar at a time; date resolution for
// a site without one falls back to the unscoped default calendar.
type Site struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
