package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/caseboard/caseboard/internal/kanban"
)

// Sort fields.
const (
	SortStage    = "stage"
	SortPriority = "priority"
	SortDue      = "due"
	SortTitle    = "title"
	SortValue    = "value"
	SortUpdated  = "updated"
	SortCreated  = "created"
)

// SortFields lists the accepted sort fields.
var SortFields = []string{SortStage, SortPriority, SortDue, SortTitle, SortValue, SortUpdated, SortCreated}

// ValidSortField reports an error for unknown sort fields.
func ValidSortField(field string) error {
	for _, f := range SortFields {
		if f == field {
			return nil
		}
	}
	return fmt.Errorf("invalid sort field %q (valid: %s)", field, strings.Join(SortFields, ", "))
}

// Sort orders cards in place by field. The stage order breaks ties so the
// result is deterministic.
func Sort(cards []kanban.Card, field string, reverse bool, stages []kanban.Stage) {
	pos := make(map[string]int, len(stages))
	for _, s := range stages {
		pos[s.ID] = s.Position
	}
	byStage := func(a, b kanban.Card) int {
		if d := pos[a.StageID] - pos[b.StageID]; d != 0 {
			return d
		}
		return a.Order - b.Order
	}

	var cmp func(a, b kanban.Card) int
	switch field {
	case SortPriority:
		cmp = func(a, b kanban.Card) int { return priorityRank(a.Priority) - priorityRank(b.Priority) }
	case SortDue:
		cmp = compareDue
	case SortTitle:
		cmp = func(a, b kanban.Card) int { return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)) }
	case SortValue:
		cmp = func(a, b kanban.Card) int { return compareFloat(valueOf(a), valueOf(b)) }
	case SortUpdated:
		cmp = func(a, b kanban.Card) int { return a.Updated.Compare(b.Updated) }
	case SortCreated:
		cmp = func(a, b kanban.Card) int { return a.Created.Compare(b.Created) }
	default:
		cmp = byStage
	}

	sort.SliceStable(cards, func(i, j int) bool {
		c := cmp(cards[i], cards[j])
		if c == 0 {
			return byStage(cards[i], cards[j]) < 0
		}
		if reverse {
			return c > 0
		}
		return c < 0
	})
}

func priorityRank(p kanban.Priority) int {
	for i, q := range kanban.Priorities {
		if q == p {
			return i
		}
	}
	return -1
}

// compareDue sorts cards without a due date last.
func compareDue(a, b kanban.Card) int {
	switch {
	case a.Due == nil && b.Due == nil:
		return 0
	case a.Due == nil:
		return 1
	case b.Due == nil:
		return -1
	}
	return a.Due.Compare(b.Due.Time)
}

func valueOf(c kanban.Card) float64 {
	if c.Value == nil {
		return 0
	}
	return *c.Value
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
