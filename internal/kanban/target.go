package kanban

// DropTarget is where a dragged card was released: either a stage as a whole
// or a specific sibling card. The set of implementations is closed.
type DropTarget interface {
	dropTarget()
}

// StageTarget is a drop on a column's free area, header or collapsed body.
type StageTarget struct {
	StageID string
}

// CardTarget is a drop onto another card.
type CardTarget struct {
	CardID string
}

func (StageTarget) dropTarget() {}
func (CardTarget) dropTarget() {}

// Hit describes what lay under the pointer when it was released, as reported
// by the renderer's hit-tester. Both fields may be empty.
type Hit struct {
	StageID string
	CardID  string
}

// ResolveDropTarget turns a pointer hit into a drop target against the
// current partition. A card under the pointer wins over its column. Hits
// naming identifiers that are no longer present resolve to nil.
func ResolveDropTarget(p Partition, hit Hit) DropTarget {
	if hit.CardID != "" {
		if _, _, ok := p.Locate(hit.CardID); ok {
			return CardTarget{CardID: hit.CardID}
		}
	}
	if hit.StageID != "" && p.HasStage(hit.StageID) {
		return StageTarget{StageID: hit.StageID}
	}
	return nil
}

// ComputeMove is the drop policy. It returns the intent for dropping the
// active card on target, or false when the drop changes nothing or refers to
// identifiers missing from the partition.
//
//   - On a stage: append, so the order is the stage's current card count.
//   - On a card: take that card's index in its stage, whether the stage is the
//     active card's own (reorder) or another one (insert before it).
func ComputeMove(p Partition, activeID string, target DropTarget) (MoveIntent, bool) {
	fromStage, fromIdx, ok := p.Locate(activeID)
	if !ok {
		return MoveIntent{}, false
	}

	switch t := target.(type) {
	case StageTarget:
		if !p.HasStage(t.StageID) {
			return MoveIntent{}, false
		}
		n := len(p.Cards(t.StageID))
		if t.StageID == fromStage && fromIdx == n-1 {
			return MoveIntent{}, false
		}
		return MoveIntent{CardID: activeID, StageID: t.StageID, Order: n}, true

	case CardTarget:
		if t.CardID == activeID {
			return MoveIntent{}, false
		}
		toStage, toIdx, ok := p.Locate(t.CardID)
		if !ok {
			return MoveIntent{}, false
		}
		return MoveIntent{CardID: activeID, StageID: toStage, Order: toIdx}, true
	}

	return MoveIntent{}, false
}
