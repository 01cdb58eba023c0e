package kanban_test

import (
	"testing"
	"time"

	"github.com/caseboard/caseboard/internal/kanban"
)

func ptr[T any](v T) *T { return &v }

func TestStats(t *testing.T) {
	cards := []kanban.Card{
		{ID: "a", Priority: kanban.PriorityLow, Value: ptr(1500.0)},
		{ID: "b", Priority: kanban.PriorityHigh},
		{ID: "c", Priority: kanban.PriorityCritical, Value: ptr(250.5)},
		{ID: "d", Priority: kanban.PriorityMedium, Value: ptr(0.0)},
	}
	got := kanban.Stats(cards)
	want := kanban.ColumnStats{Count: 4, Value: 1750.5, Urgent: 2}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestStats_Empty(t *testing.T) {
	if got := kanban.Stats(nil); got != (kanban.ColumnStats{}) {
		t.Errorf("Stats(nil) = %+v, want zero", got)
	}
}

func TestColumnToggle(t *testing.T) {
	col := &kanban.Column{StageID: "todo"}
	if col.Collapsed() {
		t.Fatal("new column should be expanded")
	}
	col.Toggle()
	if !col.Collapsed() {
		t.Error("Toggle did not collapse")
	}
	col.Toggle()
	if col.Collapsed() {
		t.Error("second Toggle did not expand")
	}
}

func TestIsStale(t *testing.T) {
	now := time.Date(2025, 1, 30, 9, 0, 0, 0, time.UTC)
	c := kanban.Card{Updated: now.Add(-20 * 24 * time.Hour)}

	if got := kanban.StaleDays(c, now); got != 20 {
		t.Errorf("StaleDays = %d, want 20", got)
	}
	if !kanban.IsStale(c, now, 14) {
		t.Error("20 days should be stale at threshold 14")
	}
	if kanban.IsStale(c, now, 30) {
		t.Error("20 days should not be stale at threshold 30")
	}
	if kanban.IsStale(c, now, 0) {
		t.Error("threshold 0 disables staleness")
	}
	if got := kanban.StaleDays(kanban.Card{}, now); got != 0 {
		t.Errorf("StaleDays(zero) = %d, want 0", got)
	}
}
