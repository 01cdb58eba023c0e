package tui

import "github.com/caseboard/caseboard/internal/kanban"

// Layout constants. Every card renders at exactly cardHeight lines so that
// hit-testing can be computed from the same geometry the renderer uses.
const (
	cardHeight      = 4 // border (2) + title line + details line
	boardTop        = 1 // title line above the columns
	boardChrome     = 3 // title line, blank line and status bar
	columnChrome    = 2 // header line and the add-card line
	collapsedWidth  = 6
	defaultColWidth = 30
	minColWidth     = 16
	maxColWidth     = 40
)

// span is the horizontal extent of a column on screen.
type span struct {
	col int // index into b.columns
	x   int
	w   int
}

// layout returns the columns in screen order with their x extents. Arabic
// boards run right to left.
func (b *Board) layout() []span {
	n := len(b.columns)
	if n == 0 {
		return nil
	}

	collapsed := 0
	for _, c := range b.columns {
		if c.Collapsed() {
			collapsed++
		}
	}
	w := defaultColWidth
	if open := n - collapsed; b.width > 0 && open > 0 {
		w = (b.width - collapsed*collapsedWidth) / open
		w = max(min(w, maxColWidth), minColWidth)
	}

	spans := make([]span, 0, n)
	x := 0
	for i := range n {
		col := i
		if b.rtl() {
			col = n - 1 - i
		}
		cw := w
		if b.columns[col].Collapsed() {
			cw = collapsedWidth
		}
		spans = append(spans, span{col: col, x: x, w: cw})
		x += cw
	}
	return spans
}

// bodyHeight is the number of lines every column occupies.
func (b *Board) bodyHeight() int {
	return max(b.height-boardChrome, columnChrome+cardHeight)
}

// visibleCards returns how many cards of col fit, accounting for the
// "↑ N more" and "↓ N more" indicator lines.
func (b *Board) visibleCards(col *column, total int) int {
	avail := b.bodyHeight() - columnChrome
	if col.scrollOff > 0 {
		avail--
	}
	n := max(avail/cardHeight, 1)
	if col.scrollOff+n < total {
		n = max((avail-1)/cardHeight, 1)
	}
	return n
}

// visibleRange returns the first and one-past-last visible card index of a
// column and the line, relative to the column top, where the first card
// starts.
func (b *Board) visibleRange(colIdx int) (start, end, top int) {
	col := &b.columns[colIdx]
	total := len(b.cards(colIdx))
	start = min(col.scrollOff, total)
	end = min(start+b.visibleCards(col, total), total)
	top = 1
	if start > 0 {
		top++
	}
	return start, end, top
}

// hitAt maps a screen cell to what lies under it. It reports false outside
// every column, which cancels a drag released there. Collapsed columns are
// still drop zones for their stage.
func (b *Board) hitAt(x, y int) (kanban.Hit, bool) {
	y -= boardTop
	if y < 0 || y >= b.bodyHeight() {
		return kanban.Hit{}, false
	}
	for _, s := range b.layout() {
		if x < s.x || x >= s.x+s.w {
			continue
		}
		col := b.columns[s.col]
		hit := kanban.Hit{StageID: col.StageID}
		if col.Collapsed() {
			return hit, true
		}
		start, end, top := b.visibleRange(s.col)
		if y >= top {
			if k := start + (y-top)/cardHeight; k < end {
				hit.CardID = b.cards(s.col)[k].ID
			}
		}
		return hit, true
	}
	return kanban.Hit{}, false
}

func (b *Board) clampRow() {
	cards := b.cards(b.activeCol)
	if len(cards) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(cards) {
		b.activeRow = len(cards) - 1
	}
	b.ensureVisible()
}

// ensureVisible scrolls the active column so the selected row is shown.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	maxVis := b.visibleCards(col, len(b.cards(b.activeCol)))
	if b.activeRow >= col.scrollOff+maxVis {
		col.scrollOff = b.activeRow - maxVis + 1
	}
	if b.activeRow < col.scrollOff {
		col.scrollOff = b.activeRow
	}
}
