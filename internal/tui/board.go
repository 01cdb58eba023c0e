// Package tui implements the interactive terminal board. Cards are dragged
// with the mouse or grabbed with the keyboard; every drop goes through the
// kanban drag coordinator and lands in the store as a single move intent.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/caseboard/caseboard/internal/config"
	"github.com/caseboard/caseboard/internal/kanban"
	"github.com/caseboard/caseboard/internal/store"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewDetail
	viewConfirmMove
	viewConfirmDelete
	viewHelp
)

const (
	keyEsc   = "esc"
	keyEnter = "enter"
	keyDown  = "down"
	keyUp    = "up"
	keyLeft  = "left"
	keyRight = "right"
	keySpace = " "

	maxScrollOff = 1<<31 - 1
)

// Board is the top-level bubbletea model.
type Board struct {
	st  *store.Store
	cfg *config.Config
	kb  *kanban.Board
	ctx context.Context

	loaded    bool
	snap      store.Snapshot
	full      kanban.Partition
	columns   []column
	activeCol int
	activeRow int
	view      view
	width     int
	height    int
	err       error
	now       func() time.Time

	filter    kanban.FilterOptions
	search    textinput.Model
	searching bool

	quick *kanban.QuickCreate
	input textinput.Model

	// pending is the intent emitted by the drop being processed.
	pending *kanban.MoveIntent
	// confirm is a move into a terminal stage waiting for y/n.
	confirm kanban.MoveIntent

	detail          kanban.Card
	detailScrollOff int

	deleteID    string
	deleteTitle string

	// Keyboard drop cursor. dropRow == len(cards) targets the stage itself.
	dropCol int
	dropRow int

	press *press
	hover kanban.Hit
}

// column is the view state of one stage.
type column struct {
	kanban.Column
	scrollOff int
}

// press tracks a left-button gesture until release.
type press struct {
	cardID string
	x, y   int
	moved  bool
}

// NewBoard creates a board over st. It starts in the loading state; Init
// requests the first snapshot.
func NewBoard(st *store.Store) *Board {
	b := &Board{
		st:  st,
		cfg: st.Config(),
		ctx: context.Background(),
		now: time.Now,
	}
	b.kb = kanban.NewBoard(kanban.Handlers{
		OnCardMove: func(cardID, stageID string, order int) {
			b.pending = &kanban.MoveIntent{CardID: cardID, StageID: stageID, Order: order}
		},
		OnCardClick:   b.openDetail,
		OnQuickCreate: b.createCard,
	})
	b.kb.SetProps(kanban.Props{Stages: b.cfg.BoardStages(), Loading: true})
	b.syncColumns()

	b.search = textinput.New()
	b.search.Prompt = "/"
	b.search.Placeholder = "search cases"

	b.input = textinput.New()
	b.input.Prompt = "+ "
	b.input.Placeholder = "case title"
	b.input.CharLimit = 200 //nolint:mnd // title length cap
	return b
}

// SetNow overrides the clock used for due dates and stage age (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// Dragging reports whether a card is being dragged.
func (b *Board) Dragging() bool {
	return b.kb.Dragging()
}

// Selected returns the card under the keyboard cursor.
func (b *Board) Selected() (kanban.Card, bool) {
	return b.selectedCard()
}

// WatchPaths returns the directories to watch for changes.
func (b *Board) WatchPaths() []string {
	return []string{filepath.Dir(b.cfg.CardsPath())}
}

// WatchFiles returns the file names within WatchPaths that trigger a reload.
func (b *Board) WatchFiles() []string {
	return []string{filepath.Base(b.cfg.CardsPath())}
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return func() tea.Msg { return ReloadMsg{} }
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.ensureVisible()
		return b, nil
	case ReloadMsg:
		b.load()
		return b, nil
	case WatchErrorMsg:
		b.err = fmt.Errorf("watching board: %w", msg.Err)
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewDetail:
		return b.viewDetail()
	case viewConfirmMove:
		return b.viewConfirmMove()
	case viewConfirmDelete:
		return b.viewDeleteConfirm()
	case viewHelp:
		return b.viewHelp()
	default:
		return b.viewBoard()
	}
}

// --- Data ---

// load reads a fresh snapshot and hands it to the drag coordinator.
func (b *Board) load() {
	snap, err := b.st.Snapshot(b.ctx)
	if err != nil {
		b.err = err
		return
	}
	b.snap = snap
	b.loaded = true
	b.refresh()
}

// refresh rebuilds props from the last snapshot and the active filter.
func (b *Board) refresh() {
	if !b.loaded {
		return
	}
	b.full = kanban.DerivePartition(b.snap.Stages, b.snap.Cards)
	b.kb.SetProps(kanban.Props{
		Stages: b.snap.Stages,
		Cards:  kanban.Filter(b.snap.Cards, b.filter),
	})
	b.syncColumns()
	b.clampRow()
}

// syncColumns matches view state to the partition's stages, keeping the
// collapsed flag and scroll position of stages that survive.
func (b *Board) syncColumns() {
	prev := make(map[string]column, len(b.columns))
	for _, c := range b.columns {
		prev[c.StageID] = c
	}
	stages := b.kb.Partition().Stages()
	cols := make([]column, len(stages))
	for i, s := range stages {
		c, ok := prev[s.ID]
		if !ok {
			c = column{Column: kanban.Column{StageID: s.ID}}
		}
		cols[i] = c
	}
	b.columns = cols
	if b.activeCol >= len(cols) {
		b.activeCol = max(len(cols)-1, 0)
	}
	if b.dropCol >= len(cols) {
		b.dropCol = max(len(cols)-1, 0)
	}
}

func (b *Board) cards(col int) []kanban.Card {
	if col < 0 || col >= len(b.columns) {
		return nil
	}
	return b.kb.Partition().Cards(b.columns[col].StageID)
}

func (b *Board) stage(col int) kanban.Stage {
	s, _ := b.kb.Partition().Stage(b.columns[col].StageID)
	return s
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedCard() (kanban.Card, bool) {
	col := b.currentColumn()
	if col == nil || col.Collapsed() {
		return kanban.Card{}, false
	}
	cards := b.cards(b.activeCol)
	if b.activeRow >= 0 && b.activeRow < len(cards) {
		return cards[b.activeRow], true
	}
	return kanban.Card{}, false
}

// selectCard moves the cursor to a card if it is on the board.
func (b *Board) selectCard(id string) {
	stageID, idx, ok := b.kb.Partition().Locate(id)
	if !ok {
		return
	}
	for i, c := range b.columns {
		if c.StageID == stageID {
			b.activeCol = i
			b.activeRow = idx
			b.ensureVisible()
			return
		}
	}
}

func (b *Board) selectStage(id string) {
	for i, c := range b.columns {
		if c.StageID == id {
			b.activeCol = i
			b.clampRow()
			return
		}
	}
}

func (b *Board) rtl() bool {
	return b.cfg.Locale == "ar"
}

// visual converts a left/right step on screen into a stage index step.
func (b *Board) visual(step int) int {
	if b.rtl() {
		return -step
	}
	return step
}

// --- Keys ---

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return b, tea.Quit
	}
	b.err = nil

	if b.searching {
		return b.handleSearchKey(msg)
	}
	if b.quick != nil {
		return b.handleQuickKey(msg)
	}

	switch b.view {
	case viewBoard:
		if b.kb.Dragging() {
			return b.handleDragKey(msg)
		}
		return b.handleBoardKey(msg)
	case viewDetail:
		return b.handleDetailKey(msg)
	case viewConfirmMove:
		return b.handleConfirmMoveKey(msg)
	case viewConfirmDelete:
		return b.handleDeleteKey(msg)
	case viewHelp:
		b.view = viewBoard
	}
	return b, nil
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc:
		return b, tea.Quit
	case "?":
		b.view = viewHelp
	case "h", keyLeft, "l", keyRight, "j", keyDown, "k", keyUp:
		b.handleNavigation(msg.String())
	case keyEnter:
		if c, ok := b.selectedCard(); ok {
			b.kb.Click(c.ID)
		}
	case keySpace:
		b.beginKeyboardDrag()
	case "N":
		b.shiftStage(1)
	case "P":
		b.shiftStage(-1)
	case "n":
		return b, b.openQuickCreate()
	case "z":
		if col := b.currentColumn(); col != nil {
			col.Toggle()
			b.clampRow()
		}
	case "/":
		b.searching = true
		b.search.SetValue(b.filter.Search)
		return b, b.search.Focus()
	case "d":
		if c, ok := b.selectedCard(); ok {
			b.deleteID = c.ID
			b.deleteTitle = c.Title
			b.view = viewConfirmDelete
		}
	case "r":
		b.load()
	}
	return b, nil
}

func (b *Board) handleNavigation(k string) {
	switch k {
	case "h", keyLeft:
		b.stepColumn(b.visual(-1))
	case "l", keyRight:
		b.stepColumn(b.visual(1))
	case "j", keyDown:
		if b.activeRow < len(b.cards(b.activeCol))-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case "k", keyUp:
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	}
}

func (b *Board) stepColumn(step int) {
	next := b.activeCol + step
	if next >= 0 && next < len(b.columns) {
		b.activeCol = next
		b.clampRow()
	}
}

// --- Drag and drop ---

func (b *Board) beginKeyboardDrag() {
	c, ok := b.selectedCard()
	if !ok {
		return
	}
	b.kb.ResetClickGuard()
	if b.kb.BeginDrag(c.ID) {
		b.dropCol = b.activeCol
		b.dropRow = b.activeRow
	}
}

func (b *Board) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", keyLeft:
		b.stepDropColumn(b.visual(-1))
	case "l", keyRight:
		b.stepDropColumn(b.visual(1))
	case "k", keyUp:
		if b.dropRow > 0 {
			b.dropRow--
		}
	case "j", keyDown:
		if b.dropRow < len(b.cards(b.dropCol)) {
			b.dropRow++
		}
	case keyEnter, keySpace:
		b.drop(b.dropHit())
	case keyEsc:
		b.kb.Cancel()
	}
	return b, nil
}

func (b *Board) stepDropColumn(step int) {
	next := b.dropCol + step
	if next < 0 || next >= len(b.columns) {
		return
	}
	b.dropCol = next
	b.dropRow = min(b.dropRow, len(b.cards(next)))
}

// dropHit is what the keyboard drop cursor points at.
func (b *Board) dropHit() kanban.Hit {
	if len(b.columns) == 0 {
		return kanban.Hit{}
	}
	col := b.columns[b.dropCol]
	hit := kanban.Hit{StageID: col.StageID}
	cards := b.cards(b.dropCol)
	if !col.Collapsed() && b.dropRow < len(cards) {
		hit.CardID = cards[b.dropRow].ID
	}
	return hit
}

// drop ends the drag session at hit and forwards any resulting intent.
func (b *Board) drop(hit kanban.Hit) {
	b.pending = nil
	b.kb.Drop(hit)
	if b.pending == nil {
		return
	}
	in := *b.pending
	b.pending = nil
	b.requestMove(in)
}

// shiftStage moves the selected card to the end of a neighbouring stage.
func (b *Board) shiftStage(step int) {
	c, ok := b.selectedCard()
	if !ok {
		return
	}
	next := b.activeCol + step
	if next < 0 || next >= len(b.columns) {
		edge := "first"
		if step > 0 {
			edge = "last"
		}
		b.err = fmt.Errorf("%q is already in the %s stage", c.Title, edge)
		return
	}
	b.kb.ResetClickGuard()
	if b.kb.BeginDrag(c.ID) {
		b.drop(kanban.Hit{StageID: b.columns[next].StageID})
	}
}

// requestMove persists in, asking first when it closes the case.
func (b *Board) requestMove(in kanban.MoveIntent) {
	in = kanban.RebaseIntent(b.full, b.kb.Partition(), in)
	if b.full.ClosesCase(in) && !b.cfg.TUI.SkipTerminalConfirm {
		b.confirm = in
		b.view = viewConfirmMove
		return
	}
	b.commitMove(in)
}

func (b *Board) commitMove(in kanban.MoveIntent) {
	card, err := b.st.Move(b.ctx, in)
	if err != nil {
		b.err = fmt.Errorf("moving card: %w", err)
		b.load()
		return
	}
	b.load()
	b.selectCard(card.ID)
}

func (b *Board) handleConfirmMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", keyEnter:
		b.view = viewBoard
		b.commitMove(b.confirm)
		b.confirm = kanban.MoveIntent{}
	case "n", "N", keyEsc, "q":
		b.view = viewBoard
		b.confirm = kanban.MoveIntent{}
	}
	return b, nil
}

// --- Mouse ---

func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if b.view != viewBoard || b.searching {
		return b, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return b, nil
		}
		if b.quick != nil {
			b.quick.Blur()
			b.closeQuickCreate()
		}
		b.kb.ResetClickGuard()
		hit, ok := b.hitAt(msg.X, msg.Y)
		if !ok {
			return b, nil
		}
		if hit.CardID == "" {
			b.selectStage(hit.StageID)
			return b, nil
		}
		b.selectCard(hit.CardID)
		b.press = &press{cardID: hit.CardID, x: msg.X, y: msg.Y}

	case tea.MouseActionMotion:
		if b.press == nil {
			return b, nil
		}
		if !b.press.moved && (msg.X != b.press.x || msg.Y != b.press.y) {
			b.press.moved = true
			if !b.kb.BeginDrag(b.press.cardID) {
				b.press = nil
				return b, nil
			}
		}
		if b.kb.Dragging() {
			b.hover, _ = b.hitAt(msg.X, msg.Y)
		}

	case tea.MouseActionRelease:
		p := b.press
		b.press = nil
		b.hover = kanban.Hit{}
		if p == nil {
			return b, nil
		}
		if !b.kb.Dragging() {
			if !p.moved {
				b.kb.Click(p.cardID)
			}
			return b, nil
		}
		hit, ok := b.hitAt(msg.X, msg.Y)
		if !ok {
			b.kb.Cancel()
			return b, nil
		}
		b.drop(hit)
	}
	return b, nil
}

// --- Quick create ---

func (b *Board) openQuickCreate() tea.Cmd {
	col := b.currentColumn()
	if col == nil || b.kb.Loading() {
		return nil
	}
	if col.Collapsed() {
		col.Toggle()
	}
	b.quick = b.kb.QuickCreate(col.StageID)
	b.quick.Open()
	b.input.Reset()
	return b.input.Focus()
}

func (b *Board) closeQuickCreate() {
	b.quick = nil
	b.input.Blur()
	b.input.Reset()
}

func (b *Board) handleQuickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		b.quick.SetText(b.input.Value())
		if b.quick.Submit() {
			b.closeQuickCreate()
		}
		return b, nil
	case tea.KeyEsc:
		b.quick.Cancel()
		b.closeQuickCreate()
		return b, nil
	}
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	b.quick.SetText(b.input.Value())
	return b, cmd
}

func (b *Board) createCard(stageID, title string) {
	c, err := b.st.Create(b.ctx, stageID, title)
	if err != nil {
		b.err = fmt.Errorf("creating card: %w", err)
		return
	}
	b.load()
	b.selectCard(c.ID)
}

// --- Search ---

func (b *Board) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		b.filter.Search = strings.TrimSpace(b.search.Value())
	case tea.KeyEsc:
		b.filter.Search = ""
		b.search.SetValue("")
	default:
		var cmd tea.Cmd
		b.search, cmd = b.search.Update(msg)
		return b, cmd
	}
	b.searching = false
	b.search.Blur()
	b.refresh()
	return b, nil
}

// --- Detail and delete ---

func (b *Board) openDetail(c kanban.Card) {
	b.detail = c
	b.detailScrollOff = 0
	b.view = viewDetail
}

func (b *Board) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc, "backspace":
		b.view = viewBoard
		b.detail = kanban.Card{}
		b.detailScrollOff = 0
	case "j", keyDown:
		b.detailScrollOff++
	case "k", keyUp:
		if b.detailScrollOff > 0 {
			b.detailScrollOff--
		}
	case "g":
		b.detailScrollOff = 0
	case "G":
		b.detailScrollOff = maxScrollOff
	}
	return b, nil
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if _, err := b.st.Delete(b.ctx, b.deleteID); err != nil {
			b.err = fmt.Errorf("deleting card: %w", err)
		}
		b.view = viewBoard
		b.load()
	case "n", "N", keyEsc, "q":
		b.view = viewBoard
	}
	return b, nil
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

// WatchErrorMsg reports a file watcher failure in the status bar.
type WatchErrorMsg struct{ Err error }
