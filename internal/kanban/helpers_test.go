package kanban_test

import "github.com/caseboard/caseboard/internal/kanban"

func stages(ids ...string) []kanban.Stage {
	out := make([]kanban.Stage, len(ids))
	for i, id := range ids {
		out[i] = kanban.Stage{ID: id, Name: kanban.LocalizedName{EN: id}, Position: i}
	}
	return out
}

func card(id, stage string, order int) kanban.Card {
	return kanban.Card{ID: id, Title: "Card " + id, StageID: stage, Order: order, Priority: kanban.PriorityMedium}
}

func ids(cards []kanban.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type moveCall struct {
	cardID, stageID string
	order           int
}

// recorder collects handler invocations.
type recorder struct {
	moves   []moveCall
	clicks  []string
	creates []moveCall
}

func (r *recorder) handlers() kanban.Handlers {
	return kanban.Handlers{
		OnCardMove: func(cardID, stageID string, order int) {
			r.moves = append(r.moves, moveCall{cardID, stageID, order})
		},
		OnCardClick: func(c kanban.Card) {
			r.clicks = append(r.clicks, c.ID)
		},
		OnQuickCreate: func(stageID, title string) {
			r.creates = append(r.creates, moveCall{cardID: title, stageID: stageID})
		},
	}
}
