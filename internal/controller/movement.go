package controller

import (
	"unicode"

	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/odt"
	"github.com/dshills/docedit/internal/ops"
	"github.com/dshills/docedit/internal/steps"
)

// toBaseSteps converts a signed count of keyboard filter steps into
// canonical steps, walking from the cursor.
func (c *SessionController) toBaseSteps(adjust int) int {
	counter := c.doc.Cursor(c.member).StepCounter()
	if adjust > 0 {
		return counter.ConvertForwardStepsBetweenFilters(adjust, c.keyboardFilter, c.baseFilter)
	}
	return -counter.ConvertBackwardStepsBetweenFilters(-adjust, c.keyboardFilter, c.baseFilter)
}

// moveCursorByAdjustment collapses the selection at the focus moved by
// adjust keyboard steps.
func (c *SessionController) moveCursorByAdjustment(adjust int) {
	if adjust == 0 || c.doc.Cursor(c.member) == nil {
		return
	}
	c.moveCursorBySteps(c.toBaseSteps(adjust))
}

func (c *SessionController) moveCursorBySteps(delta int) {
	if delta == 0 {
		return
	}
	position := c.doc.CursorPosition(c.member)
	c.session.Enqueue(ops.MoveCursor{Member: c.member, Position: position + delta})
}

// extendCursorByAdjustment moves the focus by adjust keyboard steps and
// keeps the anchor.
func (c *SessionController) extendCursorByAdjustment(adjust int) {
	if adjust == 0 || c.doc.Cursor(c.member) == nil {
		return
	}
	c.extendCursorBySteps(c.toBaseSteps(adjust))
}

func (c *SessionController) extendCursorBySteps(delta int) {
	if delta == 0 {
		return
	}
	sel := c.doc.CursorSelection(c.member)
	c.session.Enqueue(ops.MoveCursor{Member: c.member, Position: sel.Position, Length: sel.Length + delta})
}

func (c *SessionController) counter() *steps.Counter {
	cur := c.doc.Cursor(c.member)
	if cur == nil {
		return nil
	}
	return cur.StepCounter()
}

func (c *SessionController) linesSteps(direction int) int {
	if cnt := c.counter(); cnt != nil {
		return cnt.CountLinesSteps(direction, c.keyboardFilter)
	}
	return 0
}

func (c *SessionController) lineBoundarySteps(direction int) int {
	if cnt := c.counter(); cnt != nil {
		return cnt.CountStepsToLineBoundary(direction, c.keyboardFilter)
	}
	return 0
}

func (c *SessionController) moveCursorToLeft() bool {
	c.moveCursorByAdjustment(-1)
	return true
}

func (c *SessionController) moveCursorToRight() bool {
	c.moveCursorByAdjustment(1)
	return true
}

func (c *SessionController) extendSelectionToLeft() bool {
	c.extendCursorByAdjustment(-1)
	return true
}

func (c *SessionController) extendSelectionToRight() bool {
	c.extendCursorByAdjustment(1)
	return true
}

func (c *SessionController) moveCursorUp() bool {
	c.moveCursorByAdjustment(c.linesSteps(-1))
	return true
}

func (c *SessionController) moveCursorDown() bool {
	c.moveCursorByAdjustment(c.linesSteps(1))
	return true
}

func (c *SessionController) extendSelectionUp() bool {
	c.extendCursorByAdjustment(c.linesSteps(-1))
	return true
}

func (c *SessionController) extendSelectionDown() bool {
	c.extendCursorByAdjustment(c.linesSteps(1))
	return true
}

func (c *SessionController) moveCursorToLineStart() bool {
	c.moveCursorByAdjustment(c.lineBoundarySteps(-1))
	return true
}

func (c *SessionController) moveCursorToLineEnd() bool {
	c.moveCursorByAdjustment(c.lineBoundarySteps(1))
	return true
}

func (c *SessionController) extendSelectionToLineStart() bool {
	c.extendCursorByAdjustment(c.lineBoundarySteps(-1))
	return true
}

func (c *SessionController) extendSelectionToLineEnd() bool {
	c.extendCursorByAdjustment(c.lineBoundarySteps(1))
	return true
}

// documentBoundarySteps returns the canonical steps from the cursor to
// the start (direction < 0) or end of the body.
func (c *SessionController) documentBoundarySteps(direction int) int {
	if c.doc.Cursor(c.member) == nil {
		return 0
	}
	it := dom.NewPositionIterator(c.doc.Tree(), c.doc.RootNode())
	if direction > 0 {
		it.MoveToEnd()
	}
	return c.doc.DistanceFromCursor(c.member, it.Container(), it.UnfilteredDomOffset())
}

func (c *SessionController) moveCursorToDocumentStart() bool {
	c.moveCursorBySteps(c.documentBoundarySteps(-1))
	return true
}

func (c *SessionController) moveCursorToDocumentEnd() bool {
	c.moveCursorBySteps(c.documentBoundarySteps(1))
	return true
}

func (c *SessionController) extendSelectionToDocumentStart() bool {
	c.extendCursorBySteps(c.documentBoundarySteps(-1))
	return true
}

func (c *SessionController) extendSelectionToDocumentEnd() bool {
	c.extendCursorBySteps(c.documentBoundarySteps(1))
	return true
}

// extendSelectionToEntireDocument selects from the first to the last step.
func (c *SessionController) extendSelectionToEntireDocument() bool {
	if c.doc.Cursor(c.member) == nil {
		return true
	}
	toStart := c.documentBoundarySteps(-1)
	toEnd := c.documentBoundarySteps(1)
	position := c.doc.CursorPosition(c.member)
	c.session.Enqueue(ops.MoveCursor{Member: c.member, Position: position + toStart, Length: toEnd - toStart})
	return true
}

// cursorParagraph returns the paragraph holding the member's cursor. A
// cursor outside every paragraph is a broken invariant.
func (c *SessionController) cursorParagraph() dom.NodeID {
	cur := c.doc.Cursor(c.member)
	assert(cur != nil, "no cursor for member %s", c.member)
	p := c.doc.ParagraphElement(cur.Node())
	assert(p != dom.None, "cursor of member %s is outside any paragraph", c.member)
	return p
}

func (c *SessionController) isParagraph(n dom.NodeID) bool {
	return n != dom.None && c.doc.ParagraphElement(n) == n
}

// extendSelectionToParagraphStart extends to the start of the cursor's
// paragraph, or to the start of the previous one when already there.
func (c *SessionController) extendSelectionToParagraphStart() bool {
	p := c.cursorParagraph()
	delta := c.doc.DistanceFromCursor(c.member, p, 0)

	it := dom.NewPositionIterator(c.doc.Tree(), c.doc.RootNode())
	it.SetUnfilteredPosition(p, 0)
	watch := steps.NewWatchDog(c.doc.LoopGuard())
	for delta == 0 && it.PreviousPosition() {
		watch.Check()
		if n := it.CurrentNode(); c.isParagraph(n) {
			delta = c.doc.DistanceFromCursor(c.member, n, 0)
		}
	}
	c.extendCursorBySteps(delta)
	return true
}

// extendSelectionToParagraphEnd extends to the end of the cursor's
// paragraph, or to the end of the next one when already there.
func (c *SessionController) extendSelectionToParagraphEnd() bool {
	p := c.cursorParagraph()
	it := dom.NewPositionIterator(c.doc.Tree(), c.doc.RootNode())
	it.MoveToEndOfNode(p)
	delta := c.doc.DistanceFromCursor(c.member, it.Container(), it.UnfilteredDomOffset())

	watch := steps.NewWatchDog(c.doc.LoopGuard())
	for delta == 0 && it.NextPosition() {
		watch.Check()
		if n := it.CurrentNode(); c.isParagraph(n) {
			it.MoveToEndOfNode(n)
			delta = c.doc.DistanceFromCursor(c.member, it.Container(), it.UnfilteredDomOffset())
		}
	}
	c.extendCursorBySteps(delta)
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (c *SessionController) atWordRune(it *dom.PositionIterator) bool {
	t := c.doc.Tree()
	n := it.Container()
	return t.IsText(n) && c.doc.ParagraphElement(n) != dom.None &&
		isWordRune(t.RuneAt(n, it.UnfilteredDomOffset()))
}

// atSpanBoundary reports whether it sits on the start or end of a text
// span. Words continue across such positions.
func (c *SessionController) atSpanBoundary(it *dom.PositionIterator) bool {
	t := c.doc.Tree()
	n := it.CurrentNode()
	return t.IsElement(n) && t.Name(n) == odt.ElementSpan
}

// selectWord selects the run of letters and digits around the cursor.
// Runs continue through span boundaries.
func (c *SessionController) selectWord() bool {
	cur := c.doc.Cursor(c.member)
	if cur == nil || !cur.IsPlaced() {
		return false
	}
	watch := steps.NewWatchDog(c.doc.LoopGuard())

	it := dom.NewPositionIterator(c.doc.Tree(), c.doc.RootNode())
	it.SetUnfilteredPosition(cur.Node(), 0)
	start := it.Location()
	for it.PreviousPosition() {
		watch.Check()
		if c.atWordRune(it) {
			start = it.Location()
		} else if !c.atSpanBoundary(it) {
			break
		}
	}

	it.SetUnfilteredPosition(cur.Node(), 0)
	for c.atWordRune(it) || c.atSpanBoundary(it) {
		watch.Check()
		if !it.NextPosition() {
			break
		}
	}
	end := it.Location()

	toStart := c.doc.DistanceFromCursor(c.member, start.Node, start.Offset)
	toEnd := c.doc.DistanceFromCursor(c.member, end.Node, end.Offset)
	if toStart == 0 && toEnd == 0 {
		return true
	}
	position := c.doc.CursorPosition(c.member)
	c.session.Enqueue(ops.MoveCursor{Member: c.member, Position: position + toStart, Length: toEnd - toStart})
	return true
}

// selectParagraph selects the cursor's paragraph up to its end step.
func (c *SessionController) selectParagraph() bool {
	p := c.cursorParagraph()
	toStart := c.doc.DistanceFromCursor(c.member, p, 0)
	toEnd := c.doc.DistanceFromCursor(c.member, p, c.doc.Tree().ChildCount(p))
	if toStart == 0 && toEnd == 0 {
		return true
	}
	position := c.doc.CursorPosition(c.member)
	c.session.Enqueue(ops.MoveCursor{Member: c.member, Position: position + toStart, Length: toEnd - toStart})
	return true
}
