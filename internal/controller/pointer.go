package controller

import (
	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/host"
	"github.com/dshills/docedit/internal/input/mouse"
	"github.com/dshills/docedit/internal/odt"
	"github.com/dshills/docedit/internal/ops"
)

func (c *SessionController) insideCanvas(n dom.NodeID) bool {
	t := c.doc.Tree()
	return n != dom.None && t.Valid(n) && t.Contains(c.doc.CanvasNode(), n)
}

func (c *SessionController) handlePointerDown(e *host.Event) bool {
	c.clickStartedInCanvas = c.insideCanvas(e.Target)
	return false
}

func (c *SessionController) handlePointerUp(e *host.Event) bool {
	if ann := c.removeButtonAnnotation(e.Target); ann != dom.None {
		c.removeAnnotation(ann)
		return true
	}
	if !c.clickStartedInCanvas {
		return false
	}
	switch e.Clicks {
	case mouse.ClickSingle:
		c.selectRange(e)
	case mouse.ClickDouble:
		c.selectWord()
	case mouse.ClickTriple:
		c.selectParagraph()
	}
	return false
}

func (c *SessionController) handleContextMenu(e *host.Event) bool {
	c.selectRange(e)
	return false
}

// removeButtonAnnotation returns the annotation whose remove button is
// target, or dom.None.
func (c *SessionController) removeButtonAnnotation(target dom.NodeID) dom.NodeID {
	t := c.doc.Tree()
	if !c.insideCanvas(target) {
		return dom.None
	}
	// the button's label text can be hit instead of the button
	if t.IsText(target) {
		target = t.Parent(target)
	}
	if !t.IsElement(target) || t.Name(target) != odt.ElementButton {
		return dom.None
	}
	if class, _ := t.Attr(target, odt.AttrClass); class != odt.ClassRemoveAnnotation {
		return dom.None
	}
	parent := t.Parent(target)
	if !t.IsElement(parent) || t.Name(parent) != odt.ElementAnnotation {
		return dom.None
	}
	return parent
}

func (c *SessionController) removeAnnotation(ann dom.NodeID) {
	position, length, ok := c.doc.AnnotationRange(ann)
	if !ok {
		c.log.Warn("annotation %d has no range", ann)
		return
	}
	c.session.Enqueue(ops.RemoveAnnotation{Member: c.member, Position: position, Length: length})
}

func (c *SessionController) cancelPendingSelection() {
	if c.cancelPending != nil {
		c.cancelPending()
		c.cancelPending = nil
	}
}

// selectRange reads the host selection after the current event turn and
// moves the cursor onto it. A newer click replaces a pending read.
func (c *SessionController) selectRange(e *host.Event) {
	c.cancelPendingSelection()
	x, y := e.X, e.Y
	c.cancelPending = c.host.Scheduler().Defer(func() {
		c.cancelPending = nil
		c.applyHostSelection(x, y)
	})
}

func (c *SessionController) applyHostSelection(x, y int) {
	if c.doc.Cursor(c.member) == nil {
		return
	}
	sel, ok := c.hostSelection(x, y)
	if !ok {
		return
	}
	toAnchor := c.countStepsToNode(sel.Anchor)
	toFocus := c.countStepsToNode(sel.Focus)
	if toAnchor == 0 && toFocus == 0 {
		return
	}
	position := c.doc.CursorPosition(c.member)
	c.session.Enqueue(ops.MoveCursor{Member: c.member, Position: position + toAnchor, Length: toFocus - toAnchor})
}

// hostSelection returns the host selection, or the caret under the
// pointer when there is none. An end outside the canvas is replaced by
// the other end; with both ends outside there is no selection.
func (c *SessionController) hostSelection(x, y int) (host.Selection, bool) {
	sel, ok := c.host.Selection()
	if !ok {
		loc, found := c.host.CaretFromPoint(x, y)
		if !found {
			return host.Selection{}, false
		}
		sel = host.Selection{Anchor: loc, Focus: loc}
	}
	anchorInside := c.insideCanvas(sel.Anchor.Node)
	focusInside := c.insideCanvas(sel.Focus.Node)
	switch {
	case !anchorInside && !focusInside:
		return host.Selection{}, false
	case !anchorInside:
		sel.Anchor = sel.Focus
	case !focusInside:
		sel.Focus = sel.Anchor
	}
	return sel, true
}

// countStepsToNode returns the steps from the cursor to loc. A location
// inside a marker is redirected to just after the marker.
func (c *SessionController) countStepsToNode(loc dom.Location) int {
	t := c.doc.Tree()
	canvas := c.doc.CanvasNode()
	for n := loc.Node; n != dom.None && n != canvas; n = t.Parent(n) {
		if t.IsMarker(n) {
			parent := t.Parent(n)
			loc = dom.Location{Node: parent, Offset: t.IndexOf(n) + 1}
			break
		}
	}
	return c.doc.DistanceFromCursor(c.member, loc.Node, loc.Offset)
}
