package output

import (
	"strings"
	"testing"

	"github.com/caseboard/caseboard/internal/board"
	"github.com/caseboard/caseboard/internal/kanban"
)

func TestCardCompact(t *testing.T) {
	var buf strings.Builder
	CardCompact(&buf, []kanban.Card{sampleCard()})
	want := "3f2a9c1e [intake/high] Estate of Haddad @Omar Saleh (probate, family) due:2025-06-14\n"
	if buf.String() != want {
		t.Errorf("CardCompact =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestCardDetailCompact(t *testing.T) {
	var buf strings.Builder
	CardDetailCompact(&buf, sampleCard())
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], "value:12,500") {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != "  created:2025-06-12 updated:2025-06-13" {
		t.Errorf("timestamps line = %q", lines[1])
	}
	if lines[3] != "  second line" {
		t.Errorf("description line = %q", lines[3])
	}
}

func TestOverviewCompact(t *testing.T) {
	ov := board.Overview{
		BoardName:  "Firm",
		TotalCards: 3,
		Stages: []board.StageSummary{
			{Stage: "intake", Count: 2, Urgent: 1, Stale: 2},
			{Stage: "won", Count: 1},
		},
		Priorities: []board.PriorityCount{{Priority: kanban.PriorityLow, Count: 3}},
	}
	var buf strings.Builder
	OverviewCompact(&buf, ov)
	want := "Firm (3 cards, value 0)\n  intake: 2 (1 urgent, 2 stale)\n  won: 1\nPriority: low=3\n"
	if buf.String() != want {
		t.Errorf("OverviewCompact =\n%q\nwant\n%q", buf.String(), want)
	}
}
