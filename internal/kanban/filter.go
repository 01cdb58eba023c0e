package kanban

import "strings"

// FilterOptions narrows the cards handed to the board. Empty fields match
// everything.
type FilterOptions struct {
	Search     string // case-insensitive substring over title, description and tags
	Assignee   string // assignee id or name
	Priorities []Priority
	Tag        string
}

// Filter returns the cards matching every set option, preserving input order.
func Filter(cards []Card, opts FilterOptions) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if matches(c, opts) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c Card, opts FilterOptions) bool {
	if opts.Assignee != "" {
		if c.Assignee == nil || (c.Assignee.ID != opts.Assignee && c.Assignee.Name != opts.Assignee) {
			return false
		}
	}
	if len(opts.Priorities) > 0 && !containsPriority(opts.Priorities, c.Priority) {
		return false
	}
	if opts.Tag != "" && !containsFold(c.Tags, opts.Tag) {
		return false
	}
	if opts.Search != "" && !matchesSearch(c, opts.Search) {
		return false
	}
	return true
}

func matchesSearch(c Card, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(c.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Description), q) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func containsPriority(ps []Priority, p Priority) bool {
	for _, x := range ps {
		if x == p {
			return true
		}
	}
	return false
}

func containsFold(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// RebaseIntent maps an intent computed on a filtered partition onto the full
// one. The order of a filtered intent indexes the visible cards of the target
// stage; the rebased order is the full index of the card it landed on, or the
// full stage length when it landed past the last visible card.
func RebaseIntent(full, view Partition, in MoveIntent) MoveIntent {
	visible := view.Cards(in.StageID)
	if in.Order < 0 || in.Order >= len(visible) {
		in.Order = len(full.Cards(in.StageID))
		return in
	}
	if _, idx, ok := full.Locate(visible[in.Order].ID); ok {
		in.Order = idx
	}
	return in
}
