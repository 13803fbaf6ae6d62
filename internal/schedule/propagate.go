package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tmarceau/jalon/internal/domain"
)

// Graph is a consistent snapshot of one project's activities and typed
// dependency edges, as read from storage.
type Graph struct {
	Activities   []*domain.Activity
	Dependencies []domain.Dependency
}

// DateChange records a recomputed activity, emitted in topological order so
// an observer reading mid-propagation never sees a successor updated before
// its predecessor.
type DateChange struct {
	ActivityID string
	OldStart   time.Time
	OldEnd     time.Time
	NewStart   time.Time
	NewEnd     time.Time
}

// Propagator pushes date constraints forward through the dependency graph.
// It never mutates the input graph: the result is a change list the caller
// persists inside one transaction, so a failed run leaves every activity at
// its pre-propagation dates.
type Propagator struct {
	calc *Calculator
}

func NewPropagator(calc *Calculator) *Propagator {
	return &Propagator{calc: calc}
}

// span is the working copy of an activity's dates during a run.
type span struct {
	start, end time.Time
}

// Propagate recomputes the dates of every activity reachable forward from
// the trigger so that all edge constraints hold. The whole graph is cycle
// checked first; any cycle aborts the run with a *CycleError naming the
// closing edge.
func (p *Propagator) Propagate(ctx context.Context, calendarID string, g Graph, triggerID string) ([]DateChange, error) {
	byID := make(map[string]*domain.Activity, len(g.Activities))
	for _, a := range g.Activities {
		byID[a.ID] = a
	}
	if _, ok := byID[triggerID]; !ok {
		return nil, fmt.Errorf("trigger activity %s not in graph", triggerID)
	}

	if err := detectCycle(byID, g.Dependencies); err != nil {
		return nil, err
	}

	affected := reachableFrom(g.Dependencies, triggerID)
	return p.run(ctx, calendarID, g, byID, affected)
}

// PropagateAll recomputes every activity of the graph in topological order.
// Used by template instantiation, where the whole freshly created tree must
// settle at once.
func (p *Propagator) PropagateAll(ctx context.Context, calendarID string, g Graph) ([]DateChange, error) {
	byID := make(map[string]*domain.Activity, len(g.Activities))
	affected := make(map[string]bool, len(g.Activities))
	for _, a := range g.Activities {
		byID[a.ID] = a
		affected[a.ID] = true
	}
	if err := detectCycle(byID, g.Dependencies); err != nil {
		return nil, err
	}
	return p.run(ctx, calendarID, g, byID, affected)
}

func (p *Propagator) run(ctx context.Context, calendarID string, g Graph, byID map[string]*domain.Activity, affected map[string]bool) ([]DateChange, error) {
	order, err := topoOrder(byID, g.Dependencies, affected)
	if err != nil {
		return nil, err
	}

	incoming := make(map[string][]domain.Dependency)
	for _, d := range g.Dependencies {
		incoming[d.SuccessorID] = append(incoming[d.SuccessorID], d)
	}

	// Working dates start from the snapshot and are updated as the pass
	// advances, so each constraint reads its predecessor's recomputed dates.
	current := make(map[string]span, len(byID))
	for id, a := range byID {
		current[id] = span{start: a.PlannedStart, end: a.PlannedEnd}
	}

	var changes []DateChange
	for _, id := range order {
		act := byID[id]
		if act.Status.Terminal() {
			continue
		}

		startBound, endBound := bounds(incoming[id], current)
		cur := current[id]
		moved := cur

		if !startBound.IsZero() && startBound.After(cur.start) {
			newStart, newEnd, err := p.reschedule(ctx, calendarID, act, startBound)
			if err != nil {
				return nil, err
			}
			moved = span{start: newStart, end: newEnd}
		}
		// A finish-anchored bound only pushes the end; the start is
		// re-derived on the next propagation pass.
		if !endBound.IsZero() && endBound.After(moved.end) {
			moved.end = endBound
		}

		if !moved.start.Equal(cur.start) || !moved.end.Equal(cur.end) {
			current[id] = moved
			changes = append(changes, DateChange{
				ActivityID: id,
				OldStart:   act.PlannedStart,
				OldEnd:     act.PlannedEnd,
				NewStart:   moved.start,
				NewEnd:     moved.end,
			})
		}
	}
	return changes, nil
}

// reschedule moves an activity to a new earliest start and recomputes its
// end preserving the required work amount.
func (p *Propagator) reschedule(ctx context.Context, calendarID string, act *domain.Activity, start time.Time) (time.Time, time.Time, error) {
	if act.HourDriven() {
		aligned, err := p.calc.AlignToWorkingTime(ctx, calendarID, start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("activity %s: %w", act.ID, err)
		}
		end, err := p.calc.AddWorkingHours(ctx, calendarID, aligned, *act.RequiredHours)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("activity %s: %w", act.ID, err)
		}
		return aligned, end, nil
	}
	end, err := p.calc.AddWorkingDays(ctx, calendarID, start, act.RequiredDayCount())
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("activity %s: %w", act.ID, err)
	}
	return start, end, nil
}

// bounds folds every incoming edge into the latest start bound and latest
// end bound implied by the predecessors' current dates. Lag is calendar
// days and may be negative.
func bounds(edges []domain.Dependency, current map[string]span) (startBound, endBound time.Time) {
	for _, d := range edges {
		pred, ok := current[d.PredecessorID]
		if !ok {
			continue
		}
		var basis time.Time
		switch d.Relation {
		case domain.FinishToStart, domain.FinishToFinish:
			basis = pred.end
		case domain.StartToStart, domain.StartToFinish:
			basis = pred.start
		default:
			continue
		}
		bound := basis.AddDate(0, 0, d.LagDays)
		if d.Relation.AnchorsFinish() {
			if bound.After(endBound) {
				endBound = bound
			}
		} else {
			if bound.After(startBound) {
				startBound = bound
			}
		}
	}
	return startBound, endBound
}

// CheckAcyclic verifies the dependency graph has no cycle, reporting the
// closing edge of the first one found. Used before accepting a new edge.
func CheckAcyclic(g Graph) error {
	byID := make(map[string]*domain.Activity, len(g.Activities))
	for _, a := range g.Activities {
		byID[a.ID] = a
	}
	return detectCycle(byID, g.Dependencies)
}

// detectCycle runs a coloring DFS over the whole graph and reports the back
// edge that closes a cycle.
func detectCycle(byID map[string]*domain.Activity, deps []domain.Dependency) error {
	succs := successorLists(byID, deps)

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(byID))

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		for _, d := range succs[id] {
			switch color[d.SuccessorID] {
			case gray:
				return &CycleError{PredecessorID: d.PredecessorID, SuccessorID: d.SuccessorID}
			case white:
				if err := visit(d.SuccessorID); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}

	for _, id := range creationOrder(byID) {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// reachableFrom returns the trigger plus everything forward-reachable from it.
func reachableFrom(deps []domain.Dependency, triggerID string) map[string]bool {
	succs := make(map[string][]string)
	for _, d := range deps {
		succs[d.PredecessorID] = append(succs[d.PredecessorID], d.SuccessorID)
	}
	seen := map[string]bool{triggerID: true}
	queue := []string{triggerID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range succs[id] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// topoOrder computes a deterministic topological ordering of the affected
// subgraph (Kahn's algorithm, ready set ordered by creation order).
func topoOrder(byID map[string]*domain.Activity, deps []domain.Dependency, affected map[string]bool) ([]string, error) {
	indeg := make(map[string]int)
	succs := make(map[string][]string)
	for id := range affected {
		indeg[id] = 0
	}
	for _, d := range deps {
		if affected[d.PredecessorID] && affected[d.SuccessorID] {
			indeg[d.SuccessorID]++
			succs[d.PredecessorID] = append(succs[d.PredecessorID], d.SuccessorID)
		}
	}

	var ready []string
	for id, n := range indeg {
		if n == 0 {
			ready = append(ready, id)
		}
	}
	sortByCreation(ready, byID)

	var order []string
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		var freed []string
		for _, next := range succs[id] {
			indeg[next]--
			if indeg[next] == 0 {
				freed = append(freed, next)
			}
		}
		if len(freed) > 0 {
			sortByCreation(freed, byID)
			ready = append(ready, freed...)
		}
	}
	if len(order) != len(indeg) {
		// Unreachable after detectCycle; kept as a guard.
		return nil, &CycleError{}
	}
	return order, nil
}

func creationOrder(byID map[string]*domain.Activity) []string {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sortByCreation(ids, byID)
	return ids
}

// sortByCreation orders ids by activity creation time, then id, so runs are
// reproducible regardless of map iteration order.
func sortByCreation(ids []string, byID map[string]*domain.Activity) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := byID[ids[i]], byID[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func successorLists(byID map[string]*domain.Activity, deps []domain.Dependency) map[string][]domain.Dependency {
	succs := make(map[string][]domain.Dependency)
	for _, d := range deps {
		if _, ok := byID[d.PredecessorID]; !ok {
			continue
		}
		if _, ok := byID[d.SuccessorID]; !ok {
			continue
		}
		succs[d.PredecessorID] = append(succs[d.PredecessorID], d)
	}
	for id := range succs {
		edges := succs[id]
		sort.Slice(edges, func(i, j int) bool {
			a, b := byID[edges[i].SuccessorID], byID[edges[j].SuccessorID]
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		})
	}
	return succs
}
