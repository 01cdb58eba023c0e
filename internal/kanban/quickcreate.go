package kanban

import "strings"

// QuickCreate is the inline "add card" form of a column. It is either closed
// (showing the add affordance) or open with the text typed so far.
type QuickCreate struct {
	stageID string
	submit  func(stageID, title string)
	open    bool
	text    string
}

// StageID returns the column the form creates cards in.
func (q *QuickCreate) StageID() string {
	return q.stageID
}

// IsOpen reports whether the input form is showing.
func (q *QuickCreate) IsOpen() bool {
	return q.open
}

// Text returns the current input.
func (q *QuickCreate) Text() string {
	return q.text
}

// Open shows an empty input form.
func (q *QuickCreate) Open() {
	q.open = true
	q.text = ""
}

// SetText replaces the current input.
func (q *QuickCreate) SetText(s string) {
	if q.open {
		q.text = s
	}
}

// Submit sends the trimmed input when it is non-empty and closes the form.
// Empty or whitespace-only input keeps the form open and sends nothing.
func (q *QuickCreate) Submit() bool {
	if !q.open {
		return false
	}
	title := strings.TrimSpace(q.text)
	if title == "" {
		return false
	}
	if q.submit != nil {
		q.submit(q.stageID, title)
	}
	q.open = false
	q.text = ""
	return true
}

// Cancel discards the input and closes the form.
func (q *QuickCreate) Cancel() {
	q.open = false
	q.text = ""
}

// Blur handles focus loss, which discards rather than submits.
func (q *QuickCreate) Blur() {
	q.Cancel()
}
