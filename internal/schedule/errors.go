package schedule

import (
	"errors"
	"fmt"
	"time"
)

// All engine failures are logical or data problems, never transient: callers
// surface them with the offending identifiers instead of retrying.
var (
	// ErrInvalidDuration indicates a zero or negative requested work amount.
	ErrInvalidDuration = errors.New("requested work amount must be positive")

	// ErrStartNotWorking indicates a start instant on a closed day or
	// outside working hours; the caller must align the start first.
	ErrStartNotWorking = errors.New("start instant is outside working time")

	// ErrExhausted indicates the day-scan safety bound was reached without
	// satisfying the request, almost always a calendar with too few open days.
	ErrExhausted = errors.New("calendar scan bound exhausted")

	// ErrCalendarNotFound indicates an unknown calendar id.
	ErrCalendarNotFound = errors.New("calendar not found")
)

// IntegrityError reports a corrupt calendar definition (an "open" override
// or pattern whose window does not validate). The day resolves as closed,
// but the warning must travel to the caller rather than be swallowed.
type IntegrityError struct {
	CalendarID string
	Date       time.Time
	Reason     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("calendar %s has a corrupt definition for %s: %s (treated as closed)",
		e.CalendarID, e.Date.Format("2006-01-02"), e.Reason)
}

// CycleError reports the edge that closes a cycle in the dependency graph.
// Propagation aborts entirely rather than guessing which edge to drop.
type CycleError struct {
	PredecessorID string
	SuccessorID   string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle closed by edge %s -> %s", e.PredecessorID, e.SuccessorID)
}

// TemplateIntegrityError reports a template task whose predecessor reference
// could not be resolved after the re-link pass; instantiation aborts with no
// partial activity tree.
type TemplateIntegrityError struct {
	TemplateID        string
	TaskID            string
	PredecessorTaskID string
}

func (e *TemplateIntegrityError) Error() string {
	return fmt.Sprintf("template %s: task %s references unresolved predecessor %s",
		e.TemplateID, e.TaskID, e.PredecessorTaskID)
}
