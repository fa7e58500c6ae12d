package controller

import "github.com/dshills/docedit/internal/ops"

// InsertText replaces the member's selection with text, as typing does.
func (c *SessionController) InsertText(text string) {
	if text == "" || c.doc.Cursor(c.member) == nil {
		return
	}
	c.insertText(text)
}

// Select moves the member's selection. A negative length selects
// backwards from position.
func (c *SessionController) Select(position, length int) {
	if c.doc.Cursor(c.member) == nil {
		return
	}
	c.session.Enqueue(ops.MoveCursor{Member: c.member, Position: position, Length: length})
}

// Selection returns the member's selection as a position and a signed
// length.
func (c *SessionController) Selection() (position, length int) {
	sel := c.doc.CursorSelection(c.member)
	return sel.Position, sel.Length
}

// SelectedText returns the text of the member's selection.
func (c *SessionController) SelectedText() string {
	return c.doc.SelectedText(c.member)
}

// Text returns the document text, one line per paragraph.
func (c *SessionController) Text() string {
	return c.doc.PlainText()
}
