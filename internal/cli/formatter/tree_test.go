package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarceau/jalon/internal/domain"
)

func TestRenderTree_Connectors(t *testing.T) {
	out := RenderTree([]TreeItem{
		{Label: "Gros oeuvre", Level: 0, Status: domain.ActivityPlanned},
		{Label: "Terrassement", Level: 1, Status: domain.ActivityCompleted},
		{Label: "Fondations", Level: 1, IsLast: true, Status: domain.ActivityInProgress},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Gros oeuvre")
	assert.Contains(t, lines[1], treeBranch)
	assert.Contains(t, lines[1], "✔")
	assert.Contains(t, lines[2], treeCorner)
	assert.Contains(t, lines[2], "▶")
}

func TestRenderTree_BadgesAligned(t *testing.T) {
	out := RenderTree([]TreeItem{
		{Label: "A", Detail: "2026-03-02 → 2026-03-04"},
		{Label: "A much longer label", IsLast: true, Detail: "2026-03-04 → 2026-03-05"},
	})
	assert.Contains(t, out, "[ 2026-03-02 → 2026-03-04 ]")
	assert.Contains(t, out, "[ 2026-03-04 → 2026-03-05 ]")
}

func TestRenderTree_Empty(t *testing.T) {
	assert.Equal(t, "", RenderTree(nil))
}
