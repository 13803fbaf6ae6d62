package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/tmarceau/jalon/internal/domain"
	"github.com/tmarceau/jalon/internal/schedule"
)

// FormatDaySchedule renders the resolved schedule of one date.
func FormatDaySchedule(date time.Time, s schedule.DaySchedule) string {
	day := fmt.Sprintf("%s %s", date.Weekday(), date.Format("2006-01-02"))
	if !s.Open {
		return fmt.Sprintf("%s  %s\n", Bold(day), StyleRed.Render("closed"))
	}

	window := fmt.Sprintf("%s - %s", domain.FormatClock(s.StartMin), domain.FormatClock(s.EndMin))
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n", Bold(day), StyleGreen.Render("open"), window)
	if s.HasBreak() {
		fmt.Fprintf(&b, "  break    %s - %s\n",
			domain.FormatClock(*s.BreakStartMin), domain.FormatClock(*s.BreakEndMin))
	}
	fmt.Fprintf(&b, "  nominal  %s\n", FormatHours(s.NominalHours))
	return b.String()
}

// FormatDateChanges renders a propagation result as a table of moved
// activities, labels resolved through the given lookup.
func FormatDateChanges(changes []schedule.DateChange, labels map[string]string) string {
	if len(changes) == 0 {
		return Dim("No activities moved.") + "\n"
	}
	rows := make([][]string, len(changes))
	for i, ch := range changes {
		label := labels[ch.ActivityID]
		if label == "" {
			label = ch.ActivityID
		}
		rows[i] = []string{
			label,
			FormatInstant(ch.OldStart) + " → " + FormatInstant(ch.NewStart),
			FormatInstant(ch.OldEnd) + " → " + FormatInstant(ch.NewEnd),
		}
	}
	return RenderTable([]string{"ACTIVITY", "START", "END"}, rows)
}

// FormatInstant renders a schedule instant compactly: the date alone at
// midnight, otherwise date plus clock time.
func FormatInstant(t time.Time) string {
	if t.IsZero() {
		return Dim("-")
	}
	if domain.MinuteOf(t) == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04")
}

// FormatHours renders an hour amount, trimming a trailing zero fraction.
func FormatHours(h float64) string {
	if h == float64(int(h)) {
		return fmt.Sprintf("%dh", int(h))
	}
	return fmt.Sprintf("%.2fh", h)
}

// ActivityWindow renders the planned window badge of an activity.
func ActivityWindow(a *domain.Activity) string {
	return FormatInstant(a.PlannedStart) + " → " + FormatInstant(a.PlannedEnd)
}
