// Package kanban implements the case-pipeline board: the stage partition, the
// drag coordinator that turns drops into move intents, column statistics and
// inline quick create. It owns no persistent state; callers supply stages and
// cards and receive intents through Handlers.
package kanban

import (
	"sort"
	"strings"
	"time"

	"github.com/caseboard/caseboard/internal/date"
)

// Priority is the urgency of a card.
type Priority string

// Card priorities in ascending urgency.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists every valid priority in ascending urgency.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// ParsePriority validates s as a priority name.
func ParsePriority(s string) (Priority, bool) {
	for _, p := range Priorities {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Urgent reports whether the priority counts toward a column's urgent total.
func (p Priority) Urgent() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// LocalizedName is a display name in the two supported locales.
type LocalizedName struct {
	EN string `yaml:"en" json:"en"`
	AR string `yaml:"ar,omitempty" json:"ar,omitempty"`
}

// In returns the name for locale, falling back to English.
func (n LocalizedName) In(locale string) string {
	if locale == "ar" && n.AR != "" {
		return n.AR
	}
	return n.EN
}

// Stage is one column of the board.
type Stage struct {
	ID       string        `json:"id"`
	Name     LocalizedName `json:"name"`
	Color    string        `json:"color"`
	Position int           `json:"position"`
	Won      bool          `json:"won,omitempty"`
	Lost     bool          `json:"lost,omitempty"`
}

// Terminal reports whether moving a card here closes it.
func (s Stage) Terminal() bool {
	return s.Won || s.Lost
}

// SortStages returns a copy of stages ordered by Position. Stages with equal
// positions keep their input order.
func SortStages(stages []Stage) []Stage {
	out := append([]Stage(nil), stages...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

// Assignee is the person a card is assigned to.
type Assignee struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Avatar string `yaml:"avatar,omitempty" json:"avatar,omitempty"`
}

// Initials returns up to two initials for an avatar placeholder.
func (a Assignee) Initials() string {
	var b strings.Builder
	for _, f := range strings.Fields(a.Name) {
		r := []rune(f)
		b.WriteString(strings.ToUpper(string(r[0])))
		if b.Len() >= 2 { //nolint:mnd // two initials
			break
		}
	}
	return b.String()
}

// Card is one unit of work on the board.
type Card struct {
	ID          string         `yaml:"id" json:"id"`
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Assignee    *Assignee      `yaml:"assignee,omitempty" json:"assignee,omitempty"`
	Priority    Priority       `yaml:"priority" json:"priority"`
	Due         *date.Date     `yaml:"due,omitempty" json:"due,omitempty"`
	Tags        []string       `yaml:"tags,omitempty" json:"tags,omitempty"`
	StageID     string         `yaml:"stage" json:"stageId"`
	Order       int            `yaml:"order" json:"order"`
	Value       *float64       `yaml:"value,omitempty" json:"value,omitempty"`
	Extra       map[string]any `yaml:"extra,omitempty" json:"extra,omitempty"`
	Created     time.Time      `yaml:"created" json:"created"`
	Updated     time.Time      `yaml:"updated" json:"updated"`
}

// MoveIntent is the single mutation the board asks its owner to persist.
type MoveIntent struct {
	CardID  string `json:"cardId"`
	StageID string `json:"stageId"`
	Order   int    `json:"order"`
}

// DueState classifies a due date relative to now.
type DueState int

// Due states, mutually exclusive.
const (
	DueNone DueState = iota
	DueOverdue
	DueToday
	DueTomorrow
)

func (s DueState) String() string {
	switch s {
	case DueOverdue:
		return "overdue"
	case DueToday:
		return "due today"
	case DueTomorrow:
		return "due tomorrow"
	default:
		return ""
	}
}

// ClassifyDue compares due with the calendar day of now. A nil due date is
// DueNone.
func ClassifyDue(now time.Time, due *date.Date) DueState {
	if due == nil {
		return DueNone
	}
	switch days := due.DaysFrom(now); {
	case days < 0:
		return DueOverdue
	case days == 0:
		return DueToday
	case days == 1:
		return DueTomorrow
	default:
		return DueNone
	}
}

// VisibleTags returns at most limit tags and how many were left out.
func VisibleTags(tags []string, limit int) ([]string, int) {
	if limit < 0 {
		limit = 0
	}
	if len(tags) <= limit {
		return tags, 0
	}
	return tags[:limit], len(tags) - limit
}

// Excerpt shortens s to at most n runes on a single line.
func Excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-1]) + "…"
}
