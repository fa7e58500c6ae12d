package controller

import (
	"github.com/dshills/docedit/internal/odt"
	"github.com/dshills/docedit/internal/ops"
)

// removeSelection enqueues the removal of a non-empty selection and
// reports whether it did.
func (c *SessionController) removeSelection() bool {
	sel := c.doc.CursorSelection(c.member).ToForward()
	if sel.Length == 0 {
		return false
	}
	c.session.Enqueue(ops.RemoveText{Member: c.member, Position: sel.Position, Length: sel.Length})
	return true
}

// removeTextByBackspaceKey removes the selection, or the step before a
// collapsed cursor. It consumes the key even when there is nothing to
// remove.
func (c *SessionController) removeTextByBackspaceKey() bool {
	if c.removeSelection() {
		return true
	}
	position := c.doc.CursorSelection(c.member).Position
	if position > 0 && c.doc.PositionInTextNode(position-1) {
		c.session.Enqueue(ops.RemoveText{Member: c.member, Position: position - 1, Length: 1})
	}
	return true
}

// removeTextByDeleteKey removes the selection, or the step after a
// collapsed cursor.
func (c *SessionController) removeTextByDeleteKey() bool {
	if c.removeSelection() {
		return true
	}
	position := c.doc.CursorSelection(c.member).Position
	if !c.doc.PositionInTextNode(position + 1) {
		return false
	}
	c.session.Enqueue(ops.RemoveText{Member: c.member, Position: position, Length: 1})
	return true
}

// removeCurrentSelection removes a non-empty selection. It always
// consumes the key.
func (c *SessionController) removeCurrentSelection() bool {
	c.removeSelection()
	return true
}

// insertText replaces the selection with text.
func (c *SessionController) insertText(text string) {
	position := c.doc.CursorSelection(c.member).ToForward().Position
	c.removeSelection()
	c.session.Enqueue(ops.InsertText{Member: c.member, Position: position, Text: text, MoveCursor: true})
}

// enqueueParagraphSplittingOps splits the paragraph at the cursor.
func (c *SessionController) enqueueParagraphSplittingOps() bool {
	position := c.doc.CursorPosition(c.member)
	c.session.Enqueue(ops.SplitParagraph{Member: c.member, Position: position, MoveCursor: true})
	return true
}

// applyTextProperty sets one text property on the selected text. A
// collapsed selection has no text to style.
func (c *SessionController) applyTextProperty(key, value string) {
	sel := c.doc.CursorSelection(c.member).ToForward()
	if sel.Length == 0 {
		return
	}
	c.session.Enqueue(ops.ApplyDirectStyling{
		Member:     c.member,
		Position:   sel.Position,
		Length:     sel.Length,
		Properties: map[string]string{key: value},
	})
}

func (c *SessionController) toggleBold() bool {
	value := "bold"
	if c.doc.IsBold(c.member) {
		value = "normal"
	}
	c.applyTextProperty(odt.PropFontWeight, value)
	return true
}

func (c *SessionController) toggleItalic() bool {
	value := "italic"
	if c.doc.IsItalic(c.member) {
		value = "normal"
	}
	c.applyTextProperty(odt.PropFontStyle, value)
	return true
}

func (c *SessionController) toggleUnderline() bool {
	value := "solid"
	if c.doc.HasUnderline(c.member) {
		value = "none"
	}
	c.applyTextProperty(odt.PropUnderline, value)
	return true
}

func (c *SessionController) undoOnce() bool {
	if c.undo == nil {
		return false
	}
	c.undo.MoveBackward(1)
	c.maintainCursorSelection()
	return true
}

func (c *SessionController) redoOnce() bool {
	if c.undo == nil {
		return false
	}
	c.undo.MoveForward(1)
	c.maintainCursorSelection()
	return true
}
