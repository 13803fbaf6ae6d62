package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencyValidate_Accepts(t *testing.T) {
	for _, rel := range []RelationKind{FinishToStart, StartToStart, FinishToFinish, StartToFinish} {
		d := &Dependency{PredecessorID: "a", SuccessorID: "b", Relation: rel}
		assert.NoError(t, d.Validate(), "relation %s", rel)
	}
}

func TestDependencyValidate_NegativeLagAllowed(t *testing.T) {
	d := &Dependency{PredecessorID: "a", SuccessorID: "b", Relation: FinishToStart, LagDays: -3}
	assert.NoError(t, d.Validate())
}

func TestDependencyValidate_SelfEdge(t *testing.T) {
	d := &Dependency{PredecessorID: "a", SuccessorID: "a", Relation: FinishToStart}
	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depend on itself")
}

func TestDependencyValidate_UnknownRelation(t *testing.T) {
	d := &Dependency{PredecessorID: "a", SuccessorID: "b", Relation: RelationKind("FB")}
	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown relation")
}

func TestActivityHourDriven(t *testing.T) {
	hours := 12.5
	days := 3

	assert.False(t, (&Activity{}).HourDriven())
	assert.True(t, (&Activity{RequiredHours: &hours}).HourDriven())
	assert.False(t, (&Activity{RequiredDays: &days}).HourDriven())
	assert.False(t, (&Activity{RequiredDays: &days, RequiredHours: &hours}).HourDriven())
}

func TestActivityRequiredDayCount_DefaultsToOne(t *testing.T) {
	days := 5
	assert.Equal(t, 5, (&Activity{RequiredDays: &days}).RequiredDayCount())
	assert.Equal(t, 1, (&Activity{}).RequiredDayCount())
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, ActivityCompleted.Terminal())
	assert.True(t, ActivityCancelled.Terminal())
	assert.False(t, ActivityPlanned.Terminal())
	assert.False(t, ActivityInProgress.Terminal())
}
