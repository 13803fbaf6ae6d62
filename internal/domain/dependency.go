package domain

import (
	"fmt"
	"time"
)

// Dependency is a typed edge predecessor -> successor with an optional lag
// in calendar days (negative lag expresses lead).
type Dependency struct {
	ID            string
	PredecessorID string
	SuccessorID   string
	Relation      RelationKind
	LagDays       int
	CreatedAt     time.Time
}

// Validate rejects self-dependencies and unknown relation kinds. Acyclicity
// is a graph-level property checked by the propagator before any update.
func (d *Dependency) Validate() error {
	if d.PredecessorID == d.SuccessorID {
		return fmt.Errorf("activity %s cannot depend on itself", d.SuccessorID)
	}
	if !ValidRelationKinds[string(d.Relation)] {
		return fmt.Errorf("unknown relation kind %q", d.Relation)
	}
	return nil
}
