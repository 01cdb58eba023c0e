package kanban_test

import (
	"testing"
	"time"

	"github.com/caseboard/caseboard/internal/date"
	"github.com/caseboard/caseboard/internal/kanban"
)

func TestClassifyDue(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		due  *date.Date
		want kanban.DueState
	}{
		{ptr(date.New(2025, 1, 9)), kanban.DueOverdue},
		{ptr(date.New(2024, 11, 2)), kanban.DueOverdue},
		{ptr(date.New(2025, 1, 10)), kanban.DueToday},
		{ptr(date.New(2025, 1, 11)), kanban.DueTomorrow},
		{ptr(date.New(2025, 1, 15)), kanban.DueNone},
		{nil, kanban.DueNone},
	}
	for _, tt := range tests {
		name := "nil"
		if tt.due != nil {
			name = tt.due.String()
		}
		t.Run(name, func(t *testing.T) {
			if got := kanban.ClassifyDue(now, tt.due); got != tt.want {
				t.Errorf("ClassifyDue(%s) = %v, want %v", name, got, tt.want)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	for _, p := range kanban.Priorities {
		if got, ok := kanban.ParsePriority(string(p)); !ok || got != p {
			t.Errorf("ParsePriority(%q) = %q, %v", p, got, ok)
		}
	}
	if _, ok := kanban.ParsePriority("urgent"); ok {
		t.Error("ParsePriority accepted urgent")
	}
}

func TestVisibleTags(t *testing.T) {
	shown, hidden := kanban.VisibleTags([]string{"a", "b", "c", "d", "e"}, 3)
	if len(shown) != 3 || hidden != 2 {
		t.Errorf("VisibleTags = %v, %d; want 3 shown, 2 hidden", shown, hidden)
	}
	shown, hidden = kanban.VisibleTags([]string{"a"}, 3)
	if len(shown) != 1 || hidden != 0 {
		t.Errorf("VisibleTags = %v, %d", shown, hidden)
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"multi\nline   text", 20, "multi line text"},
		{"a long description", 7, "a long…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := kanban.Excerpt(tt.in, tt.n); got != tt.want {
			t.Errorf("Excerpt(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestLocalizedName(t *testing.T) {
	n := kanban.LocalizedName{EN: "Intake", AR: "استقبال"}
	if n.In("ar") != "استقبال" {
		t.Errorf("In(ar) = %q", n.In("ar"))
	}
	if n.In("en") != "Intake" || n.In("fr") != "Intake" {
		t.Error("non-Arabic locales should fall back to English")
	}
	if (kanban.LocalizedName{EN: "Won"}).In("ar") != "Won" {
		t.Error("missing Arabic name should fall back to English")
	}
}

func TestAssigneeInitials(t *testing.T) {
	if got := (kanban.Assignee{Name: "sara al harbi"}).Initials(); got != "SA" {
		t.Errorf("Initials() = %q, want SA", got)
	}
	if got := (kanban.Assignee{}).Initials(); got != "" {
		t.Errorf("Initials() = %q, want empty", got)
	}
}
