// Package store persists cards for a board directory and applies the move
// intents the board emits. Stages come from the board config; cards live in
// a single YAML file guarded by an advisory lock.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/config"
	"github.com/caseboard/caseboard/internal/date"
	"github.com/caseboard/caseboard/internal/filelock"
	"github.com/caseboard/caseboard/internal/kanban"
)

const (
	fileMode     = 0o600
	lockFileName = ".lock"
)

// Log actions.
const (
	ActionCreate = "create"
	ActionMove   = "move"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Snapshot is the props a board renders from.
type Snapshot struct {
	Stages []kanban.Stage `json:"stages"`
	Cards  []kanban.Card  `json:"cards"`
}

// CardPatch lists optional field changes. Nil fields are left alone.
type CardPatch struct {
	Title         *string
	Description   *string
	Priority      *kanban.Priority
	Due           *date.Date
	ClearDue      bool
	Assignee      *kanban.Assignee
	ClearAssignee bool
	Tags          []string
	Value         *float64
}

// Empty reports whether the patch changes nothing.
func (p CardPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Due == nil && !p.ClearDue && p.Assignee == nil && !p.ClearAssignee &&
		p.Tags == nil && p.Value == nil
}

type cardsFile struct {
	Cards []kanban.Card `yaml:"cards"`
}

// Store reads and writes the cards of one board.
type Store struct {
	cfg *config.Config
	now func() time.Time
}

// Open returns a store for the board described by cfg.
func Open(cfg *config.Config) *Store {
	return &Store{cfg: cfg, now: time.Now}
}

// SetClock replaces the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Config returns the board config the store was opened with.
func (s *Store) Config() *config.Config {
	return s.cfg
}

// Snapshot reads the current stages and cards.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	cards, err := s.read()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Stages: s.cfg.BoardStages(), Cards: cards}, nil
}

// Get returns a single card.
func (s *Store) Get(ctx context.Context, id string) (kanban.Card, error) {
	if err := ctx.Err(); err != nil {
		return kanban.Card{}, err
	}
	cards, err := s.read()
	if err != nil {
		return kanban.Card{}, err
	}
	i := indexOf(cards, id)
	if i < 0 {
		return kanban.Card{}, cardNotFound(id)
	}
	return cards[i], nil
}

// Resolve expands ref, a full card id or a unique id prefix, to a card id.
func (s *Store) Resolve(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cards, err := s.read()
	if err != nil {
		return "", err
	}
	var matches []string
	for _, c := range cards {
		if c.ID == ref {
			return c.ID, nil
		}
		if ref != "" && strings.HasPrefix(c.ID, ref) {
			matches = append(matches, c.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", cardNotFound(ref)
	case 1:
		return matches[0], nil
	default:
		return "", clierr.Newf(clierr.InvalidInput, "card id %q is ambiguous (%d matches)", ref, len(matches)).
			WithDetails(map[string]any{"id": ref, "matches": matches})
	}
}

// Check returns cards whose stage is not configured. Such cards are never
// rendered.
func (s *Store) Check(ctx context.Context) ([]kanban.Card, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return kanban.DerivePartition(snap.Stages, snap.Cards).Orphans(), nil
}

// Move applies a move intent. The card leaves its stage sequence and is
// inserted into the target sequence at the clamped order, then both stages
// are renumbered densely from zero.
func (s *Store) Move(ctx context.Context, in kanban.MoveIntent) (kanban.Card, error) {
	var moved kanban.Card
	err := s.mutate(ctx, func(cards []kanban.Card) ([]kanban.Card, LogEntry, error) {
		i := indexOf(cards, in.CardID)
		if i < 0 {
			return nil, LogEntry{}, cardNotFound(in.CardID)
		}
		if s.cfg.StageIndex(in.StageID) < 0 {
			return nil, LogEntry{}, stageNotFound(in.StageID)
		}

		from := cards[i].StageID
		src := sequence(cards, from, in.CardID)
		dst := src
		if in.StageID != from {
			dst = sequence(cards, in.StageID, in.CardID)
		}
		pos := min(max(in.Order, 0), len(dst))
		dst = append(dst[:pos], append([]int{i}, dst[pos:]...)...)

		cards[i].StageID = in.StageID
		cards[i].Updated = s.now()
		if in.StageID != from {
			renumber(cards, src)
		}
		renumber(cards, dst)
		moved = cards[i]

		detail := fmt.Sprintf("%s -> %s @%d", from, in.StageID, pos)
		return cards, LogEntry{Action: ActionMove, CardID: in.CardID, Detail: detail}, nil
	})
	return moved, err
}

// Create adds a card with default priority at the end of a stage.
func (s *Store) Create(ctx context.Context, stageID, title string) (kanban.Card, error) {
	return s.CreateWith(ctx, stageID, title, CardPatch{})
}

// CreateWith adds a card at the end of a stage and applies patch to it.
func (s *Store) CreateWith(ctx context.Context, stageID, title string, patch CardPatch) (kanban.Card, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return kanban.Card{}, clierr.New(clierr.InvalidTitle, "title must not be empty")
	}
	if stageID == "" {
		stageID = s.cfg.Defaults.Stage
	}
	if s.cfg.StageIndex(stageID) < 0 {
		return kanban.Card{}, stageNotFound(stageID)
	}

	var created kanban.Card
	err := s.mutate(ctx, func(cards []kanban.Card) ([]kanban.Card, LogEntry, error) {
		now := s.now()
		c := kanban.Card{
			ID:       uuid.NewString(),
			Title:    title,
			Priority: kanban.Priority(s.cfg.Defaults.Priority),
			StageID:  stageID,
			Order:    len(sequence(cards, stageID, "")),
			Created:  now,
			Updated:  now,
		}
		if err := apply(&c, patch); err != nil {
			return nil, LogEntry{}, err
		}
		created = c
		return append(cards, c), LogEntry{Action: ActionCreate, CardID: c.ID, Detail: c.Title}, nil
	})
	return created, err
}

// Update applies patch to a card.
func (s *Store) Update(ctx context.Context, id string, patch CardPatch) (kanban.Card, error) {
	var updated kanban.Card
	err := s.mutate(ctx, func(cards []kanban.Card) ([]kanban.Card, LogEntry, error) {
		i := indexOf(cards, id)
		if i < 0 {
			return nil, LogEntry{}, cardNotFound(id)
		}
		if err := apply(&cards[i], patch); err != nil {
			return nil, LogEntry{}, err
		}
		cards[i].Updated = s.now()
		updated = cards[i]
		return cards, LogEntry{Action: ActionEdit, CardID: id, Detail: cards[i].Title}, nil
	})
	return updated, err
}

// Delete removes a card and closes the gap in its stage.
func (s *Store) Delete(ctx context.Context, id string) (kanban.Card, error) {
	var deleted kanban.Card
	err := s.mutate(ctx, func(cards []kanban.Card) ([]kanban.Card, LogEntry, error) {
		i := indexOf(cards, id)
		if i < 0 {
			return nil, LogEntry{}, cardNotFound(id)
		}
		deleted = cards[i]
		cards = append(cards[:i], cards[i+1:]...)
		renumber(cards, sequence(cards, deleted.StageID, ""))
		return cards, LogEntry{Action: ActionDelete, CardID: id, Detail: deleted.Title}, nil
	})
	return deleted, err
}

// mutate runs fn on the current cards under the board lock, writes the result
// and records the log entry fn returns.
func (s *Store) mutate(ctx context.Context, fn func([]kanban.Card) ([]kanban.Card, LogEntry, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock, err := filelock.Lock(filepath.Join(s.cfg.Dir(), lockFileName))
	if err != nil {
		return fmt.Errorf("locking board: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock

	cards, err := s.read()
	if err != nil {
		return err
	}
	cards, entry, err := fn(cards)
	if err != nil {
		return err
	}
	if err := s.write(cards); err != nil {
		return err
	}
	entry.Timestamp = s.now()
	return AppendLog(s.cfg.Dir(), entry)
}

func (s *Store) read() ([]kanban.Card, error) {
	data, err := os.ReadFile(s.cfg.CardsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []kanban.Card{}, nil
		}
		return nil, fmt.Errorf("reading cards: %w", err)
	}
	var f cardsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(s.cfg.CardsPath()), err)
	}
	if f.Cards == nil {
		f.Cards = []kanban.Card{}
	}
	return f.Cards, nil
}

func (s *Store) write(cards []kanban.Card) error {
	if cards == nil {
		cards = []kanban.Card{}
	}
	data, err := yaml.Marshal(cardsFile{Cards: cards})
	if err != nil {
		return fmt.Errorf("marshaling cards: %w", err)
	}
	return writeAtomic(s.cfg.CardsPath(), data)
}

// writeAtomic replaces path through a temp file in the same directory so
// readers and the watcher never observe a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(name, fileMode); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("chmod %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// sequence returns the indexes of a stage's cards sorted by order, leaving
// out skip.
func sequence(cards []kanban.Card, stageID, skip string) []int {
	var seq []int
	for i, c := range cards {
		if c.StageID == stageID && c.ID != skip {
			seq = append(seq, i)
		}
	}
	sort.SliceStable(seq, func(a, b int) bool {
		return cards[seq[a]].Order < cards[seq[b]].Order
	})
	return seq
}

func renumber(cards []kanban.Card, seq []int) {
	for order, i := range seq {
		cards[i].Order = order
	}
}

func indexOf(cards []kanban.Card, id string) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func apply(c *kanban.Card, p CardPatch) error {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return clierr.New(clierr.InvalidTitle, "title must not be empty")
		}
		c.Title = t
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Priority != nil {
		if _, ok := kanban.ParsePriority(string(*p.Priority)); !ok {
			return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", *p.Priority).
				WithDetails(map[string]any{"priority": string(*p.Priority)})
		}
		c.Priority = *p.Priority
	}
	switch {
	case p.ClearDue:
		c.Due = nil
	case p.Due != nil:
		d := *p.Due
		c.Due = &d
	}
	switch {
	case p.ClearAssignee:
		c.Assignee = nil
	case p.Assignee != nil:
		a := *p.Assignee
		c.Assignee = &a
	}
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
		if len(c.Tags) == 0 {
			c.Tags = nil
		}
	}
	if p.Value != nil {
		v := *p.Value
		c.Value = &v
	}
	return nil
}

func cardNotFound(id string) error {
	return clierr.Newf(clierr.CardNotFound, "card %s not found", id).
		WithDetails(map[string]any{"id": id})
}

func stageNotFound(id string) error {
	return clierr.Newf(clierr.StageNotFound, "stage %q not found", id).
		WithDetails(map[string]any{"stage": id})
}
