package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tmarceau/jalon/internal/domain"
)

func TestStatusIndicator_Labels(t *testing.T) {
	assert.Contains(t, StatusIndicator(domain.ActivityPlanned), "● PLANNED")
	assert.Contains(t, StatusIndicator(domain.ActivityInProgress), "● IN PROGRESS")
	assert.Contains(t, StatusIndicator(domain.ActivityCompleted), "● COMPLETED")
	assert.Contains(t, StatusIndicator(domain.ActivityCancelled), "● CANCELLED")
}

func TestStatusColor_PerStatus(t *testing.T) {
	assert.Equal(t, StyleGreen, StatusColor(domain.ActivityCompleted))
	assert.Equal(t, StyleYellow, StatusColor(domain.ActivityInProgress))
	assert.Equal(t, StyleDim, StatusColor(domain.ActivityCancelled))
	assert.Equal(t, StyleBlue, StatusColor(domain.ActivityPlanned))
}
