package kanban

import "time"

// ColumnStats are the display aggregates of one column.
type ColumnStats struct {
	Count  int     `json:"count"`
	Value  float64 `json:"value"`
	Urgent int     `json:"urgent"`
}

// Stats folds a column's cards into its header aggregates: card count, sum of
// card values (cards without a value count as zero) and the number of high or
// critical cards.
func Stats(cards []Card) ColumnStats {
	s := ColumnStats{Count: len(cards)}
	for _, c := range cards {
		if c.Value != nil {
			s.Value += *c.Value
		}
		if c.Priority.Urgent() {
			s.Urgent++
		}
	}
	return s
}

// StaleDays returns whole days since the card last changed.
func StaleDays(c Card, now time.Time) int {
	last := c.Updated
	if last.IsZero() {
		last = c.Created
	}
	if last.IsZero() || now.Before(last) {
		return 0
	}
	return int(now.Sub(last) / (24 * time.Hour))
}

// IsStale reports whether a card has sat unchanged longer than threshold
// days. A non-positive threshold disables the check.
func IsStale(c Card, now time.Time, threshold int) bool {
	return threshold > 0 && StaleDays(c, now) > threshold
}

// Column is the per-stage view state. It never owns cards; membership and
// order always come from the partition.
type Column struct {
	StageID   string
	collapsed bool
}

// Collapsed reports whether the card list is hidden.
func (c *Column) Collapsed() bool {
	return c.collapsed
}

// Toggle flips the collapsed state. The column stays a drop target either way.
func (c *Column) Toggle() {
	c.collapsed = !c.collapsed
}
