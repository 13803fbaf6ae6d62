package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tmarceau/jalon/internal/domain"
)

// TreeItem is one node of an activity tree display.
type TreeItem struct {
	Label  string
	Level  int
	IsLast bool
	Status domain.ActivityStatus
	Detail string // planned window or duration badge
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders activities as an indented tree with box-drawing
// connectors. Completed items are dimmed with a ✔ prefix, in-progress items
// highlighted with ▶, and detail badges right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type line struct {
		content string
		badge   string
	}

	lines := make([]line, len(items))
	maxWidth := 0
	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				prefix += treePipe
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		label := item.Label
		switch item.Status {
		case domain.ActivityCompleted:
			label = StyleGreen.Render("✔ ") + Dim(label)
		case domain.ActivityInProgress:
			label = StyleYellow.Render("▶ " + label)
		case domain.ActivityCancelled:
			label = Dim(label)
		}

		lines[idx].content = prefix + label
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		if w := lipgloss.Width(lines[idx].content); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}
	return b.String()
}
