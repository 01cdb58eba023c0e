package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/caseboard/caseboard/internal/board"
	"github.com/caseboard/caseboard/internal/kanban"
	"github.com/caseboard/caseboard/internal/store"
)

const shortIDLen = 8

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	alertStyle = lipgloss.NewStyle()
}

// ShortID returns the display prefix of a card id.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// CardTable renders cards as a table. Due dates are annotated relative to now.
func CardTable(w io.Writer, cards []kanban.Card, now time.Time) {
	if len(cards) == 0 {
		fmt.Fprintln(os.Stderr, "No cards found.")
		return
	}

	const pad = 2
	idW, stageW, prioW, titleW, assignW := shortIDLen+pad, 7, 10, 7, 10
	for _, c := range cards {
		stageW = max(stageW, len(c.StageID)+pad)
		prioW = max(prioW, len(c.Priority)+pad)
		titleW = max(titleW, min(len([]rune(c.Title))+pad, 50)) //nolint:mnd // max title column width
		if c.Assignee != nil {
			assignW = max(assignW, len([]rune(c.Assignee.Name))+pad)
		}
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", stageW, "STAGE", prioW, "PRIORITY",
		titleW, "TITLE", assignW, "ASSIGNEE", "DUE")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, c := range cards {
		assignee := dimStyle.Render(padRight("--", assignW))
		if c.Assignee != nil {
			assignee = padRight(c.Assignee.Name, assignW)
		}
		fmt.Fprintf(w, "%-*s %-*s %-*s %s %s %s\n",
			idW, ShortID(c.ID), stageW, c.StageID, prioW, c.Priority,
			padRight(kanban.Excerpt(c.Title, titleW-pad), titleW), assignee, dueCell(c, now))
	}
}

// CardDetail renders a single card with full detail.
func CardDetail(w io.Writer, c kanban.Card, stage kanban.Stage, locale string, now time.Time) {
	titleLine := "Card " + ShortID(c.ID) + ": " + c.Title
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "ID", c.ID)
	printField(w, "Stage", stage.Name.In(locale))
	printField(w, "Priority", string(c.Priority))
	if c.Assignee != nil {
		printField(w, "Assignee", c.Assignee.Name)
	} else {
		printField(w, "Assignee", dimStyle.Render("--"))
	}
	if len(c.Tags) > 0 {
		printField(w, "Tags", strings.Join(c.Tags, ", "))
	} else {
		printField(w, "Tags", dimStyle.Render("--"))
	}
	printField(w, "Due", dueCell(c, now))
	if c.Value != nil {
		printField(w, "Value", FormatValue(*c.Value))
	}
	printField(w, "Created", c.Created.Format("2006-01-02 15:04"))
	printField(w, "Updated", c.Updated.Format("2006-01-02 15:04"))
	if days := kanban.StaleDays(c, now); days > 0 {
		printField(w, "In stage", strconv.Itoa(days)+"d")
	}

	if c.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, c.Description)
	}
}

// OverviewTable renders a board summary as a dashboard.
func OverviewTable(w io.Writer, ov board.Overview) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(ov.BoardName))
	fmt.Fprintf(w, "Total: %d cards, value %s\n\n", ov.TotalCards, FormatValue(ov.TotalValue))

	header := fmt.Sprintf("%-20s %6s %12s %7s %8s %6s", "STAGE", "COUNT", "VALUE", "URGENT", "OVERDUE", "STALE")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, s := range ov.Stages {
		fmt.Fprintf(w, "%s %6d %12s %7d %8d %6d\n",
			padRight(s.Name, 20), s.Count, FormatValue(s.Value), s.Urgent, s.Overdue, s.Stale)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-20s %6s", "PRIORITY", "COUNT")))
	for _, pc := range ov.Priorities {
		fmt.Fprintf(w, "%-20s %6d\n", pc.Priority, pc.Count)
	}
	if ov.Orphans > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, alertStyle.Render(strconv.Itoa(ov.Orphans)+" card(s) reference unknown stages"))
	}
}

// ActivityLogTable renders activity log entries as a table.
func ActivityLogTable(w io.Writer, entries []store.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity log entries found.")
		return
	}

	header := fmt.Sprintf("%-19s %-8s %-10s %s", "TIMESTAMP", "ACTION", "CARD", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, e := range entries {
		fmt.Fprintf(w, "%-19s %-8s %-10s %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, ShortID(e.CardID), e.Detail)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// FormatValue renders a claim amount with thousands separators.
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func dueCell(c kanban.Card, now time.Time) string {
	if c.Due == nil {
		return dimStyle.Render("--")
	}
	s := c.Due.String()
	switch st := kanban.ClassifyDue(now, c.Due); st {
	case kanban.DueOverdue:
		return alertStyle.Render(s + " (" + st.String() + ")")
	case kanban.DueToday, kanban.DueTomorrow:
		return s + " (" + st.String() + ")"
	}
	return s
}

// padRight pads s to width display cells; fmt's width counts bytes.
func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}
