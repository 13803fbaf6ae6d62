package domain

type DayKind string

const (
	DayOpen   DayKind = "open"
	DayClosed DayKind = "closed"
)

type ActivityStatus string

const (
	ActivityPlanned    ActivityStatus = "planned"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityCompleted  ActivityStatus = "completed"
	ActivityCancelled  ActivityStatus = "cancelled"
)

// Terminal reports whether the status freezes the activity: completed and
// cancelled activities are never rescheduled by propagation.
func (s ActivityStatus) Terminal() bool {
	return s == ActivityCompleted || s == ActivityCancelled
}

// WorkTimeClass selects billing coefficients downstream; the scheduler
// carries it but never interprets it.
type WorkTimeClass string

const (
	WorkStandard WorkTimeClass = "standard"
	WorkNight    WorkTimeClass = "night"
	WorkWeekend  WorkTimeClass = "weekend"
	WorkHoliday  WorkTimeClass = "holiday"
)

type RelationKind string

const (
	FinishToStart  RelationKind = "FS"
	StartToStart   RelationKind = "SS"
	FinishToFinish RelationKind = "FF"
	StartToFinish  RelationKind = "SF"
)

// ValidRelationKinds is the canonical set of accepted relation strings.
var ValidRelationKinds = map[string]bool{
	"FS": true, "SS": true, "FF": true, "SF": true,
}

// AnchorsFinish reports whether the relation constrains the successor's end
// rather than its start.
func (r RelationKind) AnchorsFinish() bool {
	return r == FinishToFinish || r == StartToFinish
}
