package kanban

// Handlers are the callbacks the board emits. Every field is optional.
type Handlers struct {
	// OnCardMove receives the single intent of a completed drop.
	OnCardMove func(cardID, stageID string, order int)
	// OnCardClick receives a card clicked outside of any drag gesture.
	OnCardClick func(card Card)
	// OnQuickCreate receives a non-empty, trimmed title for a new card.
	OnQuickCreate func(stageID, title string)
}

// Props is the input the board renders from.
type Props struct {
	Stages  []Stage
	Cards   []Card
	Loading bool
}

// DragState is the phase of the drag gesture state machine.
type DragState int

// Drag phases. Dropped and cancelled sessions return to DragIdle
// immediately; they are not observable as separate states.
const (
	DragIdle DragState = iota
	DragActive
)

// Board coordinates drags over a partition derived from its props. It is not
// safe for concurrent use; it is driven from a single event loop.
type Board struct {
	handlers Handlers
	props    Props
	part     Partition

	activeID string
	// swallowClickID is the card a drag gesture last ended on; the click
	// event that trails the release on that card is ignored once.
	swallowClickID string
}

// NewBoard returns an idle board with no stages.
func NewBoard(h Handlers) *Board {
	b := &Board{handlers: h}
	b.part = DerivePartition(nil, nil)
	return b
}

// SetProps replaces the board input and rebuilds the partition. An active
// session survives; a drop of a card that disappeared meanwhile is a no-op.
func (b *Board) SetProps(p Props) {
	b.props = p
	b.part = DerivePartition(p.Stages, p.Cards)
}

// Props returns the current input.
func (b *Board) Props() Props {
	return b.props
}

// Partition returns the derived stage partition.
func (b *Board) Partition() Partition {
	return b.part
}

// Loading reports whether the board is waiting for data.
func (b *Board) Loading() bool {
	return b.props.Loading
}

// State returns the drag phase.
func (b *Board) State() DragState {
	if b.activeID != "" {
		return DragActive
	}
	return DragIdle
}

// Dragging reports whether a drag session is active.
func (b *Board) Dragging() bool {
	return b.activeID != ""
}

// Active returns the card being dragged, for the overlay renderer.
func (b *Board) Active() (Card, bool) {
	if b.activeID == "" {
		return Card{}, false
	}
	return b.part.Card(b.activeID)
}

// BeginDrag starts a session for cardID. It refuses while loading, while
// another session is active, or when the card is not on the board.
func (b *Board) BeginDrag(cardID string) bool {
	if b.props.Loading || b.activeID != "" {
		return false
	}
	if _, _, ok := b.part.Locate(cardID); !ok {
		return false
	}
	b.activeID = cardID
	b.swallowClickID = ""
	return true
}

// ResolveDropTarget resolves a pointer hit against the current partition.
func (b *Board) ResolveDropTarget(hit Hit) DropTarget {
	return ResolveDropTarget(b.part, hit)
}

// Drop ends the active session at hit. When the drop yields an intent,
// OnCardMove is called exactly once with it. The session is cleared
// afterwards even if the callback panics.
func (b *Board) Drop(hit Hit) (MoveIntent, bool) {
	if b.activeID == "" {
		return MoveIntent{}, false
	}
	activeID := b.activeID
	defer b.endSession(activeID)

	if b.props.Loading {
		return MoveIntent{}, false
	}
	target := b.ResolveDropTarget(hit)
	if target == nil {
		return MoveIntent{}, false
	}
	intent, ok := ComputeMove(b.part, activeID, target)
	if !ok {
		return MoveIntent{}, false
	}
	if b.handlers.OnCardMove != nil {
		b.handlers.OnCardMove(intent.CardID, intent.StageID, intent.Order)
	}
	return intent, true
}

// Cancel ends the active session without an intent.
func (b *Board) Cancel() {
	if b.activeID != "" {
		b.endSession(b.activeID)
	}
}

func (b *Board) endSession(cardID string) {
	b.activeID = ""
	b.swallowClickID = cardID
}

// Click opens a card unless a drag is in progress or the click is the tail
// of the gesture that just ended on that card. It reports whether
// OnCardClick was invoked.
func (b *Board) Click(cardID string) bool {
	if b.activeID != "" {
		return false
	}
	if b.swallowClickID != "" {
		swallowed := b.swallowClickID == cardID
		b.swallowClickID = ""
		if swallowed {
			return false
		}
	}
	c, ok := b.part.Card(cardID)
	if !ok {
		return false
	}
	if b.handlers.OnCardClick != nil {
		b.handlers.OnCardClick(c)
	}
	return true
}

// ResetClickGuard forgets the card of the last gesture so the next click on
// it opens it. Renderers call it when a fresh pointer press starts.
func (b *Board) ResetClickGuard() {
	b.swallowClickID = ""
}

// QuickCreate returns a quick-create form bound to stageID that submits
// through OnQuickCreate.
func (b *Board) QuickCreate(stageID string) *QuickCreate {
	return &QuickCreate{stageID: stageID, submit: b.handlers.OnQuickCreate}
}
