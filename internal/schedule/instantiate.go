package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tmarceau/jalon/internal/domain"
)

// InstantiatedPlan is the full output of applying a template: a concrete
// activity tree plus the dependency rows derived from the template. Nothing
// is persisted here; the caller writes the whole plan in one transaction.
type InstantiatedPlan struct {
	Activities   []*domain.Activity
	Dependencies []*domain.Dependency
}

// Instantiator turns a reusable task template into concrete activities
// anchored to a reference start date. The template is never mutated.
type Instantiator struct {
	calc *Calculator
	prop *Propagator
}

func NewInstantiator(calc *Calculator) *Instantiator {
	return &Instantiator{calc: calc, prop: NewPropagator(calc)}
}

// Instantiate creates one activity per template task. Root tasks anchor at
// referenceStart in display order; each child anchors at its parent's
// computed end and receives an implicit finish-to-start edge from the parent
// unless the template names an explicit predecessor, which is honored with
// its own relation. Tasks whose predecessor is not yet materialized are
// re-linked in a second pass; an unresolved reference after that pass aborts
// the whole instantiation.
func (i *Instantiator) Instantiate(ctx context.Context, tpl *domain.Template, projectID, calendarID string, referenceStart time.Time) (*InstantiatedPlan, error) {
	taskByID := make(map[string]*domain.TemplateTask, len(tpl.Tasks))
	for idx := range tpl.Tasks {
		taskByID[tpl.Tasks[idx].ID] = &tpl.Tasks[idx]
	}

	b := &planBuilder{
		inst:       i,
		tpl:        tpl,
		projectID:  projectID,
		calendarID: calendarID,
		created:    make(map[string]*domain.Activity, len(tpl.Tasks)),
		baseTime:   time.Now().UTC(),
	}

	for _, root := range tpl.OrderedRoots() {
		if err := b.materialize(ctx, root, referenceStart, nil); err != nil {
			return nil, err
		}
	}

	// Second pass: forward references, resolvable now that every task has
	// been created once.
	for _, d := range b.deferred {
		pred, ok := b.created[d.predecessorTaskID]
		if !ok {
			return nil, &TemplateIntegrityError{
				TemplateID:        tpl.ID,
				TaskID:            d.taskID,
				PredecessorTaskID: d.predecessorTaskID,
			}
		}
		b.link(pred, b.created[d.taskID], d.relation, 0)
	}

	plan := &InstantiatedPlan{Activities: b.activities, Dependencies: b.dependencies}

	// Settle explicit template relations across the whole new tree, so the
	// plan already satisfies every edge before it is persisted.
	graph := Graph{Activities: plan.Activities}
	for _, d := range plan.Dependencies {
		graph.Dependencies = append(graph.Dependencies, *d)
	}
	changes, err := i.prop.PropagateAll(ctx, calendarID, graph)
	if err != nil {
		return nil, fmt.Errorf("settling template %s: %w", tpl.ID, err)
	}
	byID := make(map[string]*domain.Activity, len(plan.Activities))
	for _, a := range plan.Activities {
		byID[a.ID] = a
	}
	for _, ch := range changes {
		byID[ch.ActivityID].PlannedStart = ch.NewStart
		byID[ch.ActivityID].PlannedEnd = ch.NewEnd
	}

	return plan, nil
}

type deferredLink struct {
	taskID            string
	predecessorTaskID string
	relation          domain.RelationKind
}

type planBuilder struct {
	inst       *Instantiator
	tpl        *domain.Template
	projectID  string
	calendarID string

	activities   []*domain.Activity
	dependencies []*domain.Dependency
	created      map[string]*domain.Activity
	deferred     []deferredLink

	baseTime time.Time
	seq      int
}

// materialize creates the activity for one task, then recurses into its
// children chained at the computed end.
func (b *planBuilder) materialize(ctx context.Context, task domain.TemplateTask, anchor time.Time, parent *domain.Activity) error {
	duration := 1
	if task.DurationDays != nil {
		duration = *task.DurationDays
	}

	end, err := b.inst.calc.AddWorkingDays(ctx, b.calendarID, anchor, duration)
	if err != nil {
		return fmt.Errorf("task %q: %w", task.Label, err)
	}

	act := &domain.Activity{
		ID:           uuid.New().String(),
		ProjectID:    b.projectID,
		Label:        task.Label,
		PlannedStart: anchor,
		PlannedEnd:   end,
		RequiredDays: &duration,
		TimeClass:    domain.WorkStandard,
		Status:       domain.ActivityPlanned,
		CreatedAt:    b.nextCreatedAt(),
	}
	act.UpdatedAt = act.CreatedAt
	if parent != nil {
		act.ParentID = &parent.ID
	}
	b.activities = append(b.activities, act)
	b.created[task.ID] = act

	switch {
	case task.PredecessorTaskID != nil:
		relation := task.Relation
		if relation == "" {
			relation = domain.FinishToStart
		}
		if pred, ok := b.created[*task.PredecessorTaskID]; ok {
			b.link(pred, act, relation, 0)
		} else {
			b.deferred = append(b.deferred, deferredLink{
				taskID:            task.ID,
				predecessorTaskID: *task.PredecessorTaskID,
				relation:          relation,
			})
		}
	case parent != nil:
		// Implicit chaining from the parent-derived activity.
		b.link(parent, act, domain.FinishToStart, 0)
	}

	for _, child := range b.tpl.ChildrenOf(task.ID) {
		if err := b.materialize(ctx, child, end, act); err != nil {
			return err
		}
	}
	return nil
}

func (b *planBuilder) link(pred, succ *domain.Activity, relation domain.RelationKind, lagDays int) {
	b.dependencies = append(b.dependencies, &domain.Dependency{
		ID:            uuid.New().String(),
		PredecessorID: pred.ID,
		SuccessorID:   succ.ID,
		Relation:      relation,
		LagDays:       lagDays,
		CreatedAt:     b.baseTime,
	})
}

// nextCreatedAt returns strictly increasing timestamps so the propagator's
// creation-order tie-break matches template display order.
func (b *planBuilder) nextCreatedAt() time.Time {
	t := b.baseTime.Add(time.Duration(b.seq) * time.Microsecond)
	b.seq++
	return t
}
