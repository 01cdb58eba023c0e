package board

import (
	"testing"

	"github.com/caseboard/caseboard/internal/date"
	"github.com/caseboard/caseboard/internal/kanban"
)

func TestSort(t *testing.T) {
	d1 := date.New(2025, 6, 1)
	d2 := date.New(2025, 7, 1)
	base := func() []kanban.Card {
		return []kanban.Card{
			{ID: "a", StageID: "won", Order: 0, Title: "beta", Priority: kanban.PriorityLow, Due: &d2, Value: ptr(10.0)},
			{ID: "b", StageID: "intake", Order: 1, Title: "Alpha", Priority: kanban.PriorityCritical, Value: ptr(30.0)},
			{ID: "c", StageID: "intake", Order: 0, Title: "gamma", Priority: kanban.PriorityMedium, Due: &d1},
		}
	}

	tests := []struct {
		field   string
		reverse bool
		want    string
	}{
		{SortStage, false, "cba"},
		{SortPriority, false, "acb"},
		{SortPriority, true, "bca"},
		{SortDue, false, "cab"},
		{SortTitle, false, "bac"},
		{SortValue, true, "bac"},
		{"", false, "cba"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cards := base()
			Sort(cards, tt.field, tt.reverse, testStages())
			if got := ids(cards); got != tt.want {
				t.Errorf("Sort(%q, reverse=%v) = %q, want %q", tt.field, tt.reverse, got, tt.want)
			}
		})
	}
}

func TestValidSortField(t *testing.T) {
	for _, f := range SortFields {
		if err := ValidSortField(f); err != nil {
			t.Errorf("ValidSortField(%q) = %v", f, err)
		}
	}
	if err := ValidSortField("id"); err == nil {
		t.Error("expected error for unknown field")
	}
}
