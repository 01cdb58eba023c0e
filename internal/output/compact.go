package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/caseboard/caseboard/internal/board"
	"github.com/caseboard/caseboard/internal/kanban"
	"github.com/caseboard/caseboard/internal/store"
)

// CardCompact renders cards one per line.
func CardCompact(w io.Writer, cards []kanban.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(os.Stderr, "No cards found.")
		return
	}
	for _, c := range cards {
		fmt.Fprintln(w, formatCardLine(c))
	}
}

// CardDetailCompact renders a single card in compact format.
func CardDetailCompact(w io.Writer, c kanban.Card) {
	line := formatCardLine(c)
	if c.Value != nil {
		line += " value:" + FormatValue(*c.Value)
	}
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "  created:"+c.Created.Format("2006-01-02")+" updated:"+c.Updated.Format("2006-01-02"))
	if c.Description != "" {
		for _, l := range strings.Split(c.Description, "\n") {
			fmt.Fprintln(w, "  "+l)
		}
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, ov board.Overview) {
	fmt.Fprintf(w, "%s (%d cards, value %s)\n", ov.BoardName, ov.TotalCards, FormatValue(ov.TotalValue))

	for _, s := range ov.Stages {
		line := "  " + s.Stage + ": " + strconv.Itoa(s.Count)
		var notes []string
		if s.Urgent > 0 {
			notes = append(notes, strconv.Itoa(s.Urgent)+" urgent")
		}
		if s.Overdue > 0 {
			notes = append(notes, strconv.Itoa(s.Overdue)+" overdue")
		}
		if s.Stale > 0 {
			notes = append(notes, strconv.Itoa(s.Stale)+" stale")
		}
		if len(notes) > 0 {
			line += " (" + strings.Join(notes, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}

	parts := make([]string, 0, len(ov.Priorities))
	for _, pc := range ov.Priorities {
		parts = append(parts, string(pc.Priority)+"="+strconv.Itoa(pc.Count))
	}
	if len(parts) > 0 {
		fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
	}
}

// ActivityLogCompact renders activity log entries in compact format.
func ActivityLogCompact(w io.Writer, entries []store.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity log entries found.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, ShortID(e.CardID), e.Detail)
	}
}

func formatCardLine(c kanban.Card) string {
	line := ShortID(c.ID) + " [" + c.StageID + "/" + string(c.Priority) + "] " + c.Title
	if c.Assignee != nil {
		line += " @" + c.Assignee.Name
	}
	if len(c.Tags) > 0 {
		line += " (" + strings.Join(c.Tags, ", ") + ")"
	}
	if c.Due != nil {
		line += " due:" + c.Due.String()
	}
	return line
}
