// Package odt implements the in-memory document that operations are
// applied to.
//
// The document owns a content tree laid out as a window holding chrome, a
// canvas and a status bar; the canvas holds the body, which is the editable
// root. Step positions are measured under the canonical text filter: every
// character inside a paragraph is a step, and so is the end of every
// paragraph. A paragraph of n characters therefore spans n+1 steps.
//
// Each member's cursor is a marker node inside the body. Mutations run on a
// marker-free tree: the markers are taken out, the edit is applied, the
// stored selections are shifted, and the markers are put back at their
// selection focus.
package odt

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dshills/docedit/internal/cursor"
	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/event"
	"github.com/dshills/docedit/internal/filter"
	"github.com/dshills/docedit/internal/logging"
	"github.com/dshills/docedit/internal/steps"
)

// Option configures a Document.
type Option func(*options)

type options struct {
	loopGuard int
	logger    *logging.Logger
	content   []Content
}

// WithLoopGuard sets the iteration limit for position walks.
func WithLoopGuard(limit int) Option {
	return func(o *options) {
		o.loopGuard = limit
	}
}

// WithLogger sets the document logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithContent sets the initial body content.
func WithContent(content ...Content) Option {
	return func(o *options) {
		o.content = append(o.content, content...)
	}
}

// Document is an editable document with per-member cursors.
//
// Document is not safe for concurrent use.
type Document struct {
	tree      *dom.Tree
	window    dom.NodeID
	canvas    dom.NodeID
	body      dom.NodeID
	cursors   map[string]*cursor.Cursor
	bus       *event.Bus
	canonical filter.Filter
	loopGuard int
	log       *logging.Logger
}

// New creates a document. Without content the body holds one empty
// paragraph.
func New(opts ...Option) *Document {
	o := options{loopGuard: steps.DefaultLoopGuard, logger: logging.Null}
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.content) == 0 {
		o.content = []Content{Paragraph()}
	}

	t := dom.NewTree()
	d := &Document{
		tree:      t,
		window:    t.NewElement(ElementWindow),
		cursors:   make(map[string]*cursor.Cursor),
		bus:       event.NewBus(),
		loopGuard: o.loopGuard,
		log:       o.logger.WithComponent("odt"),
	}
	chrome := t.NewElement(ElementChrome)
	t.AppendChild(chrome, t.NewText("docedit"))
	d.canvas = t.NewElement(ElementCanvas)
	d.body = t.NewElement(ElementBody)
	t.AppendChild(d.window, chrome)
	t.AppendChild(d.window, d.canvas)
	t.AppendChild(d.window, t.NewElement(ElementStatusBar))
	t.AppendChild(d.canvas, d.body)
	for _, c := range o.content {
		c(t, d.body)
	}
	d.canonical = filter.Func(d.acceptPosition)
	return d
}

// Tree returns the content tree.
func (d *Document) Tree() *dom.Tree { return d.tree }

// WindowNode returns the outermost node.
func (d *Document) WindowNode() dom.NodeID { return d.window }

// CanvasNode returns the node holding the editable body.
func (d *Document) CanvasNode() dom.NodeID { return d.canvas }

// RootNode returns the editable body.
func (d *Document) RootNode() dom.NodeID { return d.body }

// LoopGuard returns the iteration limit for position walks.
func (d *Document) LoopGuard() int { return d.loopGuard }

// PositionFilter returns the canonical filter that defines steps.
func (d *Document) PositionFilter() filter.Filter { return d.canonical }

func (d *Document) acceptPosition(it *dom.PositionIterator) filter.Result {
	t := d.tree
	c := it.Container()
	if t.IsText(c) {
		if d.ParagraphElement(c) != dom.None {
			return filter.Accept
		}
		return filter.Reject
	}
	if t.IsElement(c) && t.Name(c) == ElementParagraph && it.UnfilteredDomOffset() == t.ChildCount(c) {
		return filter.Accept
	}
	return filter.Reject
}

func (d *Document) accepted(it *dom.PositionIterator) bool {
	return d.canonical.AcceptPosition(it) == filter.Accept
}

// ParagraphElement returns the paragraph containing node. Content of an
// annotation that is not inside one of its own paragraphs, and anything
// outside the body, has no paragraph.
func (d *Document) ParagraphElement(node dom.NodeID) dom.NodeID {
	t := d.tree
	for n := node; n != dom.None && n != d.body; n = t.Parent(n) {
		if !t.IsElement(n) {
			continue
		}
		switch t.Name(n) {
		case ElementParagraph:
			return n
		case ElementAnnotation:
			return dom.None
		}
	}
	return dom.None
}

func (d *Document) isAnnotation(n dom.NodeID) bool {
	return d.tree.IsElement(n) && d.tree.Name(n) == ElementAnnotation
}

// rootOf returns the editing root of node: its closest annotation, or the
// body.
func (d *Document) rootOf(node dom.NodeID) dom.NodeID {
	if a := d.tree.Ancestor(node, d.isAnnotation); a != dom.None {
		return a
	}
	return d.body
}

// CreateRootFilter returns a filter accepting only positions that share
// the editing root of the member's cursor, so keyboard movement never
// crosses into or out of an annotation.
func (d *Document) CreateRootFilter(member string) filter.Filter {
	return filter.Func(func(it *dom.PositionIterator) filter.Result {
		root := d.body
		if c := d.cursors[member]; c != nil && c.IsPlaced() {
			root = d.rootOf(c.Node())
		}
		if d.rootOf(it.Container()) == root {
			return filter.Accept
		}
		return filter.Reject
	})
}

func (d *Document) iterator() *dom.PositionIterator {
	return dom.NewPositionIterator(d.tree, d.body)
}

// walk calls fn for every accepted position with its step, until fn
// returns false.
func (d *Document) walk(fn func(step int, it *dom.PositionIterator) bool) {
	it := d.iterator()
	watch := steps.NewWatchDog(d.loopGuard)
	step := 0
	for {
		watch.Check()
		if d.accepted(it) {
			if !fn(step, it) {
				return
			}
			step++
		}
		if !it.NextPosition() {
			return
		}
	}
}

// StepCount returns the number of steps in the document.
func (d *Document) StepCount() int {
	n := 0
	d.walk(func(int, *dom.PositionIterator) bool {
		n++
		return true
	})
	return n
}

// LocationAt returns the tree location of step.
func (d *Document) LocationAt(step int) (dom.Location, bool) {
	var (
		loc   dom.Location
		found bool
	)
	if step < 0 {
		return loc, false
	}
	d.walk(func(s int, it *dom.PositionIterator) bool {
		if s == step {
			loc, found = it.Location(), true
			return false
		}
		return true
	})
	return loc, found
}

// StepOf returns the step of a raw location. A location between steps maps
// to the following step. Locations before the body map to the first step
// and locations after it to the last.
func (d *Document) StepOf(node dom.NodeID, offset int) int {
	t := d.tree
	last := max(d.StepCount()-1, 0)
	if !t.Contains(d.body, node) {
		if t.Precedes(node, d.body) {
			return 0
		}
		return last
	}
	target := d.iterator()
	target.SetUnfilteredPosition(node, offset)

	it := d.iterator()
	watch := steps.NewWatchDog(d.loopGuard)
	count := 0
	for !it.Equal(target) {
		watch.Check()
		if d.accepted(it) {
			count++
		}
		if !it.NextPosition() {
			break
		}
	}
	return min(count, last)
}

// PositionInTextNode reports whether step addresses a location inside a
// paragraph.
func (d *Document) PositionInTextNode(step int) bool {
	loc, ok := d.LocationAt(step)
	return ok && d.ParagraphElement(loc.Node) != dom.None
}

func (d *Document) paragraphAtStep(step int) dom.NodeID {
	loc, ok := d.LocationAt(step)
	if !ok {
		return dom.None
	}
	return d.ParagraphElement(loc.Node)
}

// collect returns the locations of count steps starting at position, in
// document order. Paragraph ends are reported as (paragraph, child count).
func (d *Document) collect(position, count int) []dom.Location {
	var out []dom.Location
	d.walk(func(s int, it *dom.PositionIterator) bool {
		if s >= position+count {
			return false
		}
		if s >= position {
			out = append(out, it.Location())
		}
		return true
	})
	return out
}

// Locations returns the location of every step, indexed by step.
func (d *Document) Locations() []dom.Location {
	var out []dom.Location
	d.walk(func(_ int, it *dom.PositionIterator) bool {
		out = append(out, it.Location())
		return true
	})
	return out
}

// Members returns the ids of all members with a cursor, sorted.
func (d *Document) Members() []string {
	return slices.Sorted(maps.Keys(d.cursors))
}

// Cursor returns the member's cursor, or nil.
func (d *Document) Cursor(member string) *cursor.Cursor {
	return d.cursors[member]
}

// CursorSelection returns the member's selection.
func (d *Document) CursorSelection(member string) cursor.Selection {
	if c := d.cursors[member]; c != nil {
		sel, _ := c.Selection()
		return sel
	}
	return cursor.Selection{}
}

// CursorPosition returns the step of the member's selection focus.
func (d *Document) CursorPosition(member string) int {
	return d.CursorSelection(member).Focus()
}

// DistanceFromCursor returns the signed step distance from the member's
// cursor to the raw location.
func (d *Document) DistanceFromCursor(member string, node dom.NodeID, offset int) int {
	return d.StepOf(node, offset) - d.CursorPosition(member)
}

// SelectedText returns the text of the member's selection. Paragraph
// boundaries become newlines.
func (d *Document) SelectedText(member string) string {
	sel := d.CursorSelection(member).ToForward()
	return d.textOf(sel.Position, sel.Length)
}

// PlainText returns the document text with one line per paragraph.
func (d *Document) PlainText() string {
	total := d.StepCount()
	return d.textOf(0, total-1)
}

func (d *Document) textOf(position, count int) string {
	var b []rune
	for _, loc := range d.collect(position, count) {
		if d.tree.IsText(loc.Node) {
			b = append(b, d.tree.RuneAt(loc.Node, loc.Offset))
		} else {
			b = append(b, '\n')
		}
	}
	return string(b)
}

// Dump renders the body, cursor markers included.
func (d *Document) Dump() string {
	return d.tree.Dump(d.body)
}

func (d *Document) checkPosition(position int) error {
	if total := d.StepCount(); position < 0 || position >= total {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidPosition, position, total)
	}
	return nil
}

func (d *Document) checkRange(position, length int) error {
	if total := d.StepCount(); position < 0 || position+length > total {
		return fmt.Errorf("%w: [%d,%d) outside [0,%d)", ErrInvalidRange, position, position+length, total)
	}
	return nil
}

func (d *Document) newCursor(member string) *cursor.Cursor {
	return cursor.New(d.tree, d.body, member, d, d.ParagraphElement, steps.WithLoopGuard(d.loopGuard))
}

// detachCursors takes every marker out of the tree.
func (d *Document) detachCursors() {
	for _, m := range d.Members() {
		if c := d.cursors[m]; c.IsPlaced() {
			c.Remove()
		}
	}
}

// attachCursors clamps every selection to the document and places the
// markers at their focus.
func (d *Document) attachCursors() {
	total := d.StepCount()
	for _, m := range d.Members() {
		c := d.cursors[m]
		if sel, ok := c.Selection(); ok {
			c.SetSelection(clampSelection(sel, total))
		}
		c.UpdateToSelection(nil, nil)
	}
}

// edit applies mutate to the marker-free tree. On success every selection
// is passed through adjust. The markers are restored either way.
func (d *Document) edit(mutate func() error, adjust func(step int) int) error {
	d.detachCursors()
	err := mutate()
	if err == nil && adjust != nil {
		for _, c := range d.cursors {
			if sel, ok := c.Selection(); ok {
				c.SetSelection(sel.Shift(adjust))
			}
		}
	}
	d.attachCursors()
	return err
}

func clampSelection(sel cursor.Selection, total int) cursor.Selection {
	last := max(total-1, 0)
	anchor := min(max(sel.Anchor(), 0), last)
	focus := min(max(sel.Focus(), 0), last)
	return cursor.NewSelection(anchor, focus)
}
