// Package board builds the CLI views of a case board: filtered and sorted
// card listings and the per-stage overview.
package board

import (
	"time"

	"github.com/caseboard/caseboard/internal/kanban"
)

// ListOptions controls how cards are listed.
type ListOptions struct {
	Filter  kanban.FilterOptions
	Stage   string
	SortBy  string
	Reverse bool
	Limit   int
}

// List filters and sorts cards. Cards of unknown stages are left out.
func List(stages []kanban.Stage, cards []kanban.Card, opts ListOptions) []kanban.Card {
	p := kanban.DerivePartition(stages, cards)
	out := make([]kanban.Card, 0, len(cards))
	for _, s := range p.Stages() {
		if opts.Stage != "" && s.ID != opts.Stage {
			continue
		}
		out = append(out, p.Cards(s.ID)...)
	}
	out = kanban.Filter(out, opts.Filter)

	field := opts.SortBy
	if field == "" {
		field = SortStage
	}
	Sort(out, field, opts.Reverse, stages)

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// StageSummary is one row of the board overview.
type StageSummary struct {
	Stage   string  `json:"stage"`
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Value   float64 `json:"value"`
	Urgent  int     `json:"urgent"`
	Overdue int     `json:"overdue"`
	Stale   int     `json:"stale"`
	Won     bool    `json:"won,omitempty"`
	Lost    bool    `json:"lost,omitempty"`
}

// PriorityCount is the number of cards with a priority.
type PriorityCount struct {
	Priority kanban.Priority `json:"priority"`
	Count    int             `json:"count"`
}

// Overview summarizes a board for the board command.
type Overview struct {
	BoardName  string          `json:"board_name"`
	TotalCards int             `json:"total_cards"`
	TotalValue float64         `json:"total_value"`
	Stages     []StageSummary  `json:"stages"`
	Priorities []PriorityCount `json:"priorities"`
	Orphans    int             `json:"orphans,omitempty"`
	Generated  time.Time       `json:"generated"`
}

// Summary computes the overview. Terminal stages never count overdue or stale
// cards.
func Summary(name, locale string, stages []kanban.Stage, cards []kanban.Card, now time.Time, staleDays int) Overview {
	p := kanban.DerivePartition(stages, cards)
	ov := Overview{
		BoardName: name,
		Stages:    make([]StageSummary, 0, len(p.Stages())),
		Orphans:   len(p.Orphans()),
		Generated: now,
	}

	prio := make(map[kanban.Priority]int)
	for _, s := range p.Stages() {
		group := p.Cards(s.ID)
		st := kanban.Stats(group)
		row := StageSummary{
			Stage:  s.ID,
			Name:   s.Name.In(locale),
			Count:  st.Count,
			Value:  st.Value,
			Urgent: st.Urgent,
			Won:    s.Won,
			Lost:   s.Lost,
		}
		for _, c := range group {
			prio[c.Priority]++
			if s.Terminal() {
				continue
			}
			if kanban.ClassifyDue(now, c.Due) == kanban.DueOverdue {
				row.Overdue++
			}
			if kanban.IsStale(c, now, staleDays) {
				row.Stale++
			}
		}
		ov.TotalCards += st.Count
		ov.TotalValue += st.Value
		ov.Stages = append(ov.Stages, row)
	}

	for _, pr := range kanban.Priorities {
		ov.Priorities = append(ov.Priorities, PriorityCount{Priority: pr, Count: prio[pr]})
	}
	return ov
}
