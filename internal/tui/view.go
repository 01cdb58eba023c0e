package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/caseboard/caseboard/internal/kanban"
	"github.com/caseboard/caseboard/internal/output"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	dropColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("114")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = cardStyle.BorderForeground(lipgloss.Color("62"))
	dropCardStyle   = cardStyle.BorderForeground(lipgloss.Color("114"))
	ghostCardStyle  = cardStyle.BorderForeground(lipgloss.Color("237")).Faint(true)
	overdueStyle    = cardStyle.BorderForeground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	priorityStyles = map[kanban.Priority]lipgloss.Style{
		kanban.PriorityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		kanban.PriorityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		kanban.PriorityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		kanban.PriorityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	dueStyles = map[kanban.DueState]lipgloss.Style{
		kanban.DueOverdue:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		kanban.DueToday:    lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		kanban.DueTomorrow: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	}

	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	skeletonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	staleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	detailLabelStyle = lipgloss.NewStyle().Bold(true).Width(14) //nolint:mnd // label column width

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2) //nolint:mnd // dialog padding
)

const skeletonCards = 3

// --- Board ---

func (b *Board) viewBoard() string {
	if len(b.columns) == 0 {
		return "No stages configured."
	}

	spans := b.layout()
	rendered := make([]string, len(spans))
	for i, s := range spans {
		rendered[i] = b.renderColumn(s.col, s.w)
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	parts := []string{b.renderTitleLine(), boardView, "", b.renderStatusBar()}
	if b.err != nil {
		parts = append(parts, errorStyle.Render(truncate("Error: "+b.err.Error(), b.width)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderTitleLine() string {
	if b.searching {
		return b.search.View()
	}
	line := titleStyle.Render(b.cfg.Board.Name)
	if b.filter.Search != "" {
		line += dimStyle.Render(fmt.Sprintf("  filter: %q (/ to change, esc in search to clear)", b.filter.Search))
	}
	return line
}

func (b *Board) renderColumn(colIdx, width int) string {
	col := b.columns[colIdx]
	box := lipgloss.NewStyle().Width(width).Height(b.bodyHeight()).MaxHeight(b.bodyHeight())
	if col.Collapsed() {
		return box.Render(b.renderCollapsed(colIdx, width))
	}

	stage := b.stage(colIdx)
	cards := b.cards(colIdx)
	parts := []string{b.renderHeader(colIdx, stage, cards, width)}

	if b.kb.Loading() {
		for range skeletonCards {
			parts = append(parts, cardStyle.Width(width-2).Render(
				skeletonStyle.Render(strings.Repeat("░", max(width-6, 1)))+"\n"+
					skeletonStyle.Render(strings.Repeat("░", max((width-6)/2, 1)))))
		}
		return box.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	}

	start, end, _ := b.visibleRange(colIdx)
	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↑ %d more", start), width)))
	}
	for row := start; row < end; row++ {
		parts = append(parts, b.renderCard(colIdx, row, cards[row], width))
	}
	if end < len(cards) {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↓ %d more", len(cards)-end), width)))
	}

	switch {
	case b.quick != nil && b.quick.StageID() == col.StageID:
		b.input.Width = max(width-4, 1)
		parts = append(parts, b.input.View())
	case len(cards) == 0:
		parts = append(parts, dimStyle.Render("  (empty)"))
	case colIdx == b.activeCol:
		parts = append(parts, dimStyle.Render("  + n: add case"))
	}

	return box.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (b *Board) renderHeader(colIdx int, stage kanban.Stage, cards []kanban.Card, width int) string {
	st := kanban.Stats(cards)
	text := "▾ " + stage.Name.In(b.cfg.Locale) + " (" + strconv.Itoa(st.Count) + ")"
	if st.Value > 0 {
		text += " " + output.FormatValue(st.Value)
	}
	if st.Urgent > 0 {
		text += " !" + strconv.Itoa(st.Urgent)
	}
	const headerPad = 2
	text = truncate(text, width-headerPad)

	style := columnHeaderStyle
	switch {
	case b.isDropStage(colIdx):
		style = dropColumnHeaderStyle
	case colIdx == b.activeCol:
		style = activeColumnHeaderStyle
	case stage.Color != "":
		style = style.Foreground(lipgloss.Color(stage.Color))
	}
	return style.Width(width).Render(text)
}

func (b *Board) renderCollapsed(colIdx, width int) string {
	stage := b.stage(colIdx)
	cards := b.cards(colIdx)

	style := columnHeaderStyle
	switch {
	case b.isDropStage(colIdx):
		style = dropColumnHeaderStyle
	case colIdx == b.activeCol:
		style = activeColumnHeaderStyle
	}
	lines := []string{style.Width(width).Render(truncate("▸"+strconv.Itoa(len(cards)), width-2))}
	for _, r := range []rune(stage.Name.In(b.cfg.Locale)) {
		if len(lines) >= b.bodyHeight() {
			break
		}
		lines = append(lines, dimStyle.Render(" "+string(r)))
	}
	return strings.Join(lines, "\n")
}

// isDropStage reports whether the current drop target is the stage itself
// rather than one of its cards.
func (b *Board) isDropStage(colIdx int) bool {
	if !b.kb.Dragging() {
		return false
	}
	if b.press != nil {
		return b.hover.StageID == b.columns[colIdx].StageID && b.hover.CardID == ""
	}
	if b.dropCol != colIdx {
		return false
	}
	return b.dropHit().CardID == ""
}

func (b *Board) isDropCard(cardID string) bool {
	if !b.kb.Dragging() {
		return false
	}
	if b.press != nil {
		return b.hover.CardID == cardID
	}
	return b.dropHit().CardID == cardID
}

func (b *Board) renderCard(colIdx, row int, c kanban.Card, width int) string {
	const cardChrome = 4 // border (2) + padding (2)
	inner := max(width-cardChrome, 1)

	title := kanban.Excerpt(c.Title, inner)
	details := b.cardDetails(c, inner)

	active, _ := b.kb.Active()
	due := kanban.ClassifyDue(b.now(), c.Due)
	style := cardStyle
	switch {
	case b.kb.Dragging() && active.ID == c.ID:
		style = ghostCardStyle
	case b.isDropCard(c.ID):
		style = dropCardStyle
	case colIdx == b.activeCol && row == b.activeRow:
		style = activeCardStyle
	case due == kanban.DueOverdue && !b.stage(colIdx).Terminal():
		style = overdueStyle
	}
	return style.Width(width - 2).Render(title + "\n" + details) //nolint:mnd // border width
}

// cardDetails builds the second card line from as many badges as fit.
func (b *Board) cardDetails(c kanban.Card, width int) string {
	now := b.now()
	var parts []string

	pStyle, ok := priorityStyles[c.Priority]
	if !ok {
		pStyle = dimStyle
	}
	parts = append(parts, pStyle.Render(string(c.Priority)))

	if st := kanban.ClassifyDue(now, c.Due); st != kanban.DueNone {
		parts = append(parts, dueStyles[st].Render(st.String()))
	} else if c.Due != nil {
		parts = append(parts, dimStyle.Render(c.Due.Format("Jan 2")))
	}

	if c.Assignee != nil {
		parts = append(parts, dimStyle.Render("@"+c.Assignee.Initials()))
	}

	shown, hidden := kanban.VisibleTags(c.Tags, b.cfg.TUI.VisibleTags)
	for _, t := range shown {
		parts = append(parts, dimStyle.Render("#"+t))
	}
	if hidden > 0 {
		parts = append(parts, dimStyle.Render("+"+strconv.Itoa(hidden)))
	}

	if days := kanban.StaleDays(c, now); days > 0 {
		label := strconv.Itoa(days) + "d"
		if kanban.IsStale(c, now, b.cfg.TUI.StaleDays) {
			parts = append(parts, staleStyle.Render(label))
		} else {
			parts = append(parts, dimStyle.Render(label))
		}
	}

	line := ""
	for _, p := range parts {
		next := p
		if line != "" {
			next = line + " " + p
		}
		if lipgloss.Width(next) > width {
			break
		}
		line = next
	}
	return line
}

func (b *Board) renderStatusBar() string {
	var status string
	switch {
	case b.kb.Loading():
		status = " Loading cases..."
	case b.kb.Dragging():
		active, _ := b.kb.Active()
		status = " Dragging " + strconv.Quote(active.Title) + " → " + b.describeTarget() +
			" | ←→↑↓:target enter:drop esc:cancel"
	default:
		total := 0
		for i := range b.columns {
			total += len(b.cards(i))
		}
		status = fmt.Sprintf(" %s | %d cases | ←↓↑→:navigate space:grab enter:open n:new z:collapse /:search ?:help q:quit",
			b.cfg.Board.Name, total)
	}
	return statusBarStyle.Render(truncate(status, max(b.width, 1)))
}

func (b *Board) describeTarget() string {
	hit := b.hover
	if b.press == nil {
		hit = b.dropHit()
	}
	if hit.StageID == "" {
		return "nowhere"
	}
	s, _ := b.kb.Partition().Stage(hit.StageID)
	name := s.Name.In(b.cfg.Locale)
	if hit.CardID == "" {
		return "end of " + name
	}
	c, _ := b.kb.Partition().Card(hit.CardID)
	return name + " before " + strconv.Quote(kanban.Excerpt(c.Title, 20)) //nolint:mnd // short title
}

// --- Detail ---

func (b *Board) viewDetail() string {
	lines := b.detailLines(b.detail)

	viewHeight := b.height - 1
	if viewHeight < 1 {
		viewHeight = len(lines)
	}

	hint := "q/esc:back"
	if len(lines) > viewHeight {
		hint += "  j/k:scroll  g/G:top/bottom"
	}

	off := min(b.detailScrollOff, max(len(lines)-viewHeight, 0))
	end := min(off+viewHeight, len(lines))
	return strings.Join(lines[off:end], "\n") + "\n" + dimStyle.Render(hint)
}

func (b *Board) detailLines(c kanban.Card) []string {
	now := b.now()
	field := func(label, value string) string {
		return detailLabelStyle.Render(label+":") + "  " + value
	}

	titleLine := titleStyle.Render(c.Title)
	lines := []string{titleLine, strings.Repeat("─", lipgloss.Width(titleLine)), ""}

	stage, _ := b.full.Stage(c.StageID)
	lines = append(lines, field("Stage", stage.Name.In(b.cfg.Locale)))
	lines = append(lines, field("Priority", string(c.Priority)))
	if c.Assignee != nil {
		lines = append(lines, field("Assignee", c.Assignee.Name))
	}
	if len(c.Tags) > 0 {
		lines = append(lines, field("Tags", strings.Join(c.Tags, ", ")))
	}
	if c.Due != nil {
		due := c.Due.String()
		if st := kanban.ClassifyDue(now, c.Due); st != kanban.DueNone {
			due += " " + dueStyles[st].Render("("+st.String()+")")
		}
		lines = append(lines, field("Due", due))
	}
	if c.Value != nil {
		lines = append(lines, field("Value", output.FormatValue(*c.Value)))
	}
	lines = append(lines, field("Created", c.Created.Format("2006-01-02 15:04")))
	lines = append(lines, field("Updated", c.Updated.Format("2006-01-02 15:04")))
	lines = append(lines, field("In stage", strconv.Itoa(kanban.StaleDays(c, now))+"d"))
	lines = append(lines, field("ID", dimStyle.Render(c.ID)))

	if c.Description != "" {
		lines = append(lines, "")
		wrapped := lipgloss.NewStyle().Width(max(b.width, 20)).Render(c.Description) //nolint:mnd // min wrap width
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	return lines
}

// --- Dialogs ---

func (b *Board) viewConfirmMove() string {
	c, _ := b.full.Card(b.confirm.CardID)
	s, _ := b.full.Stage(b.confirm.StageID)
	verb := "won"
	if s.Lost {
		verb = "lost"
	}
	content := titleStyle.Render("Close case as "+verb+"?") + "\n\n" +
		"  " + c.Title + " → " + s.Name.In(b.cfg.Locale) + "\n\n" +
		dimStyle.Render("y:confirm  n:cancel")
	return dialogStyle.Render(content)
}

func (b *Board) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete case?") + "\n\n" +
		"  " + b.deleteTitle + "\n\n" +
		dimStyle.Render("y:yes  n:no")
	return dialogStyle.Render(content)
}

func (b *Board) viewHelp() string {
	help := []struct{ key, desc string }{
		{"h/←  l/→", "Previous / next column"},
		{"j/↓  k/↑", "Move cursor"},
		{"enter", "Open case"},
		{"space", "Grab case, then arrows + enter to drop"},
		{"mouse", "Drag a case; click to open"},
		{"N / P", "Move case to next / previous stage"},
		{"n", "New case in column"},
		{"z", "Collapse or expand column"},
		{"/", "Search"},
		{"d", "Delete case"},
		{"r", "Refresh"},
		{"?", "Show this help"},
		{"esc/q", "Quit"},
	}

	lines := []string{titleStyle.Render("Keyboard Shortcuts"), ""}
	keyStyle := lipgloss.NewStyle().Bold(true).Width(12) //nolint:mnd // key column width
	for _, h := range help {
		lines = append(lines, keyStyle.Render(h.key)+"  "+h.desc)
	}
	lines = append(lines, "", dimStyle.Render("Press any key to close"))
	return dialogStyle.Render(strings.Join(lines, "\n"))
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
