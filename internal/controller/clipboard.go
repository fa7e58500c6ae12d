package controller

import (
	"strings"

	"github.com/dshills/docedit/internal/host"
)

// handleBeforeCut reports whether a cut would have nothing to cut, so the
// host keeps its cut command enabled.
func (c *SessionController) handleBeforeCut(*host.Event) bool {
	return c.doc.CursorSelection(c.member).Length == 0
}

func (c *SessionController) handleCut(*host.Event) bool {
	sel := c.doc.CursorSelection(c.member)
	if sel.Length == 0 {
		return false
	}
	if err := c.host.Clipboard().SetText(c.doc.SelectedText(c.member)); err != nil {
		c.log.Warn("cut failed, selection kept: %v", err)
		return false
	}
	c.removeSelection()
	return true
}

func (c *SessionController) handleCopy(*host.Event) bool {
	if c.doc.CursorSelection(c.member).Length == 0 {
		return false
	}
	if err := c.host.Clipboard().SetText(c.doc.SelectedText(c.member)); err != nil {
		c.log.Warn("copy failed: %v", err)
		return false
	}
	return true
}

func (c *SessionController) handleBeforePaste(*host.Event) bool {
	return false
}

// handlePaste replaces the selection with the pasted plain text.
func (c *SessionController) handlePaste(e *host.Event) bool {
	data := strings.ReplaceAll(e.ClipboardText, "\r", "")
	if data == "" {
		return false
	}
	c.removeSelection()
	for _, op := range c.pasteboard.CreatePasteOps(data) {
		c.session.Enqueue(op)
	}
	return true
}
