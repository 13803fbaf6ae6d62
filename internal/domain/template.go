package domain

import "time"

// Template is a reusable hierarchical task plan. Templates are read-only at
// instantiation time: applying one only ever creates activities.
type Template struct {
	ID        string
	Name      string
	Tasks     []TemplateTask
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderedRoots returns the root-level tasks (no parent) in display order.
// Tasks is kept sorted by (level, order) by the repository.
func (t *Template) OrderedRoots() []TemplateTask {
	var roots []TemplateTask
	for _, task := range t.Tasks {
		if task.ParentTaskID == nil {
			roots = append(roots, task)
		}
	}
	return roots
}

// ChildrenOf returns the direct sub-tasks of a task in display order.
func (t *Template) ChildrenOf(taskID string) []TemplateTask {
	var children []TemplateTask
	for _, task := range t.Tasks {
		if task.ParentTaskID != nil && *task.ParentTaskID == taskID {
			children = append(children, task)
		}
	}
	return children
}

// TemplateTask is one node of a template: a label, an optional duration in
// working days, an optional intra-template predecessor with its relation,
// and its place in the hierarchy.
type TemplateTask struct {
	ID                string
	TemplateID        string
	Label             string
	DurationDays      *int
	PredecessorTaskID *string
	Relation          RelationKind
	Level             int
	OrderIndex        int
	ParentTaskID      *string
}
