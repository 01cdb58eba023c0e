package kanban

import "sort"

// Partition is the stage-grouped, order-sorted view of a card collection.
// It is derived from props and never mutated; callers rebuild it whenever the
// stages or cards change.
type Partition struct {
	stages  []Stage
	groups  map[string][]Card
	orphans []Card
}

// DerivePartition groups cards by stage. Every stage gets a group, empty or
// not, and each group is sorted ascending by Order with ties kept in input
// order. Cards that reference an unknown stage are set aside as orphans.
func DerivePartition(stages []Stage, cards []Card) Partition {
	p := Partition{
		stages: SortStages(stages),
		groups: make(map[string][]Card, len(stages)),
	}
	for _, s := range p.stages {
		p.groups[s.ID] = []Card{}
	}
	for _, c := range cards {
		g, ok := p.groups[c.StageID]
		if !ok {
			p.orphans = append(p.orphans, c)
			continue
		}
		p.groups[c.StageID] = append(g, c)
	}
	for id, g := range p.groups {
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].Order < g[j].Order
		})
		p.groups[id] = g
	}
	return p
}

// Stages returns the stages in display order.
func (p Partition) Stages() []Stage {
	return p.stages
}

// Len returns the number of groups, one per stage.
func (p Partition) Len() int {
	return len(p.groups)
}

// HasStage reports whether id is a stage of this partition.
func (p Partition) HasStage(id string) bool {
	_, ok := p.groups[id]
	return ok
}

// Stage returns the stage with the given id.
func (p Partition) Stage(id string) (Stage, bool) {
	for _, s := range p.stages {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}

// Cards returns the sorted cards of a stage. The slice must not be modified.
func (p Partition) Cards(stageID string) []Card {
	return p.groups[stageID]
}

// Orphans returns cards whose stage is not part of the board.
func (p Partition) Orphans() []Card {
	return p.orphans
}

// Locate finds a rendered card and returns its stage and index within it.
func (p Partition) Locate(cardID string) (string, int, bool) {
	for _, s := range p.stages {
		for i, c := range p.groups[s.ID] {
			if c.ID == cardID {
				return s.ID, i, true
			}
		}
	}
	return "", -1, false
}

// Card returns a rendered card by id.
func (p Partition) Card(cardID string) (Card, bool) {
	stageID, idx, ok := p.Locate(cardID)
	if !ok {
		return Card{}, false
	}
	return p.groups[stageID][idx], true
}

// ClosesCase reports whether applying in would take a card into a terminal
// stage from a different stage. Owners ask for confirmation before such moves.
func (p Partition) ClosesCase(in MoveIntent) bool {
	s, ok := p.Stage(in.StageID)
	if !ok || !s.Terminal() {
		return false
	}
	from, _, found := p.Locate(in.CardID)
	return found && from != in.StageID
}
