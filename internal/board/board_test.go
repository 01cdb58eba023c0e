package board

import (
	"testing"
	"time"

	"github.com/caseboard/caseboard/internal/date"
	"github.com/caseboard/caseboard/internal/kanban"
)

var now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func testStages() []kanban.Stage {
	return []kanban.Stage{
		{ID: "intake", Name: kanban.LocalizedName{EN: "Intake", AR: "استقبال"}, Position: 0},
		{ID: "active", Name: kanban.LocalizedName{EN: "Active"}, Position: 1},
		{ID: "won", Name: kanban.LocalizedName{EN: "Won"}, Position: 2, Won: true},
	}
}

func ptr[T any](v T) *T { return &v }

func TestSummaryEmptyBoard(t *testing.T) {
	ov := Summary("Firm", "en", testStages(), nil, now, 14)
	if ov.BoardName != "Firm" {
		t.Errorf("BoardName = %q", ov.BoardName)
	}
	if ov.TotalCards != 0 {
		t.Errorf("TotalCards = %d, want 0", ov.TotalCards)
	}
	if len(ov.Stages) != 3 {
		t.Fatalf("Stages = %d, want 3", len(ov.Stages))
	}
	if len(ov.Priorities) != len(kanban.Priorities) {
		t.Errorf("Priorities = %d, want %d", len(ov.Priorities), len(kanban.Priorities))
	}
}

func TestSummaryCounts(t *testing.T) {
	overdue := date.New(2025, 6, 10)
	cards := []kanban.Card{
		{ID: "1", StageID: "intake", Priority: kanban.PriorityHigh, Value: ptr(100.0), Due: &overdue, Updated: now},
		{ID: "2", StageID: "intake", Priority: kanban.PriorityLow, Value: ptr(50.0), Updated: now.AddDate(0, 0, -30)},
		{ID: "3", StageID: "won", Priority: kanban.PriorityCritical, Value: ptr(1000.0), Due: &overdue, Updated: now.AddDate(0, 0, -30)},
		{ID: "4", StageID: "archived", Priority: kanban.PriorityLow},
	}
	ov := Summary("Firm", "ar", testStages(), cards, now, 14)

	if ov.TotalCards != 3 {
		t.Errorf("TotalCards = %d, want 3", ov.TotalCards)
	}
	if ov.TotalValue != 1150 {
		t.Errorf("TotalValue = %v, want 1150", ov.TotalValue)
	}
	if ov.Orphans != 1 {
		t.Errorf("Orphans = %d, want 1", ov.Orphans)
	}

	intake := ov.Stages[0]
	if intake.Name != "استقبال" {
		t.Errorf("intake name = %q, want Arabic name", intake.Name)
	}
	if intake.Count != 2 || intake.Value != 150 || intake.Urgent != 1 {
		t.Errorf("intake = %+v", intake)
	}
	if intake.Overdue != 1 || intake.Stale != 1 {
		t.Errorf("intake overdue/stale = %d/%d, want 1/1", intake.Overdue, intake.Stale)
	}

	won := ov.Stages[2]
	if won.Overdue != 0 || won.Stale != 0 {
		t.Errorf("terminal stage counted overdue/stale: %+v", won)
	}
	if !won.Won {
		t.Error("won stage not flagged")
	}

	want := map[kanban.Priority]int{kanban.PriorityLow: 1, kanban.PriorityHigh: 1, kanban.PriorityCritical: 1}
	for _, pc := range ov.Priorities {
		if pc.Count != want[pc.Priority] {
			t.Errorf("priority %s = %d, want %d", pc.Priority, pc.Count, want[pc.Priority])
		}
	}
}

func TestListDefaultsToBoardOrder(t *testing.T) {
	cards := []kanban.Card{
		{ID: "w", StageID: "won", Order: 0},
		{ID: "b", StageID: "intake", Order: 1},
		{ID: "a", StageID: "intake", Order: 0},
		{ID: "x", StageID: "gone", Order: 0},
	}
	got := ids(List(testStages(), cards, ListOptions{}))
	if got != "abw" {
		t.Errorf("List = %q, want %q", got, "abw")
	}
}

func TestListStageFilterAndLimit(t *testing.T) {
	cards := []kanban.Card{
		{ID: "a", StageID: "intake", Order: 0},
		{ID: "b", StageID: "intake", Order: 1},
		{ID: "c", StageID: "intake", Order: 2},
		{ID: "d", StageID: "active", Order: 0},
	}
	got := ids(List(testStages(), cards, ListOptions{Stage: "intake", Limit: 2}))
	if got != "ab" {
		t.Errorf("List = %q, want %q", got, "ab")
	}
}

func TestListSearch(t *testing.T) {
	cards := []kanban.Card{
		{ID: "a", StageID: "intake", Title: "Lease dispute"},
		{ID: "b", StageID: "active", Title: "Estate planning"},
	}
	got := ids(List(testStages(), cards, ListOptions{Filter: kanban.FilterOptions{Search: "lease"}}))
	if got != "a" {
		t.Errorf("List = %q, want %q", got, "a")
	}
}

func ids(cards []kanban.Card) string {
	var s string
	for _, c := range cards {
		s += c.ID
	}
	return s
}
