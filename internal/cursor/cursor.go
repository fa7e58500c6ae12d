package cursor

import (
	"errors"
	"fmt"

	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/steps"
)

// MarkerName is the name of cursor marker nodes.
const MarkerName = "cursor"

var (
	// ErrNotPlaced indicates Remove on a cursor that is not in the tree.
	ErrNotPlaced = errors.New("cursor is not in the tree")

	// ErrAlreadyPlaced indicates PlaceAt on a cursor that is in the tree.
	ErrAlreadyPlaced = errors.New("cursor is already in the tree")

	// ErrNoParent indicates a placement target without a parent container.
	ErrNoParent = errors.New("container has no parent")
)

// Locator resolves a step of the canonical filter into a tree location.
type Locator interface {
	LocationAt(step int) (dom.Location, bool)
}

// NodeFilter selects sibling nodes that count towards a filtered offset.
type NodeFilter func(tree *dom.Tree, node dom.NodeID) bool

// ChangeFunc is notified when the marker is removed or added. next is the
// node following the marker; delta is the text length merged into it on
// removal, or split off it on insertion.
type ChangeFunc func(next dom.NodeID, delta int)

// Cursor is a member's marker inside the content tree, kept in sync with
// the member's selection.
type Cursor struct {
	tree      *dom.Tree
	root      dom.NodeID
	member    string
	node      dom.NodeID
	locator   Locator
	selection Selection
	live      bool
	counter   *steps.Counter
}

// New creates a detached cursor for member. root bounds the cursor's step
// walks; locator maps selection steps to tree locations.
func New(tree *dom.Tree, root dom.NodeID, member string, locator Locator, paragraphOf steps.ParagraphFunc, opts ...steps.Option) *Cursor {
	c := &Cursor{
		tree:    tree,
		root:    root,
		member:  member,
		node:    tree.NewMarker(MarkerName),
		locator: locator,
	}
	c.counter = steps.NewCounter(c.iteratorAtCursor, paragraphOf, opts...)
	return c
}

// MemberID returns the owning member.
func (c *Cursor) MemberID() string { return c.member }

// Node returns the marker node.
func (c *Cursor) Node() dom.NodeID { return c.node }

// IsPlaced reports whether the marker is attached to the tree.
func (c *Cursor) IsPlaced() bool { return c.tree.Parent(c.node) != dom.None }

// Selection returns the current selection and whether one is set.
func (c *Cursor) Selection() (Selection, bool) { return c.selection, c.live }

// SetSelection replaces the selection. It does not move the marker.
func (c *Cursor) SetSelection(s Selection) {
	c.selection = s
	c.live = true
}

// ClearSelection drops the selection; the next update removes the marker.
func (c *Cursor) ClearSelection() {
	c.live = false
}

// StepCounter returns a step counter anchored at the marker.
func (c *Cursor) StepCounter() *steps.Counter { return c.counter }

func (c *Cursor) iteratorAtCursor() *dom.PositionIterator {
	it := dom.NewPositionIterator(c.tree, c.root)
	if c.IsPlaced() {
		it.SetUnfilteredPosition(c.node, 0)
	}
	return it
}

// PlaceAt inserts the marker at loc. Inside a text leaf at an interior
// offset the leaf is split and the marker goes between the parts; at offset
// 0 the marker goes before the leaf and at its end after it, so placement
// never creates an empty leaf. Inside an element the marker becomes the
// child at offset. The cursor must not be placed. It returns the node
// following the marker and the text length split off that node.
func (c *Cursor) PlaceAt(loc dom.Location) (dom.NodeID, int) {
	t := c.tree
	if c.IsPlaced() {
		panic(fmt.Errorf("%w: member %s", ErrAlreadyPlaced, c.member))
	}
	switch t.Kind(loc.Node) {
	case dom.KindText:
		parent := t.Parent(loc.Node)
		if parent == dom.None {
			panic(fmt.Errorf("%w: text %d", ErrNoParent, loc.Node))
		}
		length := t.TextLen(loc.Node)
		switch {
		case loc.Offset <= 0:
			t.InsertBefore(parent, c.node, loc.Node)
			return loc.Node, 0
		case loc.Offset >= length:
			t.InsertAt(parent, c.node, t.IndexOf(loc.Node)+1)
			return t.NextSibling(c.node), 0
		default:
			left := t.NewText(t.Substring(loc.Node, 0, loc.Offset))
			t.DeleteData(loc.Node, 0, loc.Offset)
			t.InsertBefore(parent, left, loc.Node)
			t.InsertBefore(parent, c.node, loc.Node)
			return loc.Node, loc.Offset
		}
	case dom.KindMarker:
		parent := t.Parent(loc.Node)
		if parent == dom.None {
			panic(fmt.Errorf("%w: marker %d", ErrNoParent, loc.Node))
		}
		t.InsertAt(parent, c.node, t.IndexOf(loc.Node)+1)
		return t.NextSibling(c.node), 0
	default:
		t.InsertAt(loc.Node, c.node, loc.Offset)
		return t.NextSibling(c.node), 0
	}
}

// Remove detaches the marker. When both neighbours are non-empty text
// leaves they are merged into the right one and the left one's length is
// returned as gained. Empty neighbouring leaves are dropped.
func (c *Cursor) Remove() (next dom.NodeID, gained int) {
	t := c.tree
	if !c.IsPlaced() {
		panic(fmt.Errorf("%w: member %s", ErrNotPlaced, c.member))
	}
	prev, next := t.PrevSibling(c.node), t.NextSibling(c.node)
	if t.IsText(prev) && t.IsText(next) && t.TextLen(prev) > 0 && t.TextLen(next) > 0 {
		gained = t.TextLen(prev)
		t.InsertData(next, 0, t.Text(prev))
		t.Detach(prev)
	}
	t.Detach(c.node)
	for _, n := range []dom.NodeID{prev, next} {
		if t.IsText(n) && t.TextLen(n) == 0 {
			t.Detach(n)
			if n == next {
				next = dom.None
			}
		}
	}
	return next, gained
}

// UpdateToSelection removes the marker if present and places it at the
// selection focus. Without a selection, or when the focus does not resolve,
// the marker stays out of the tree.
func (c *Cursor) UpdateToSelection(onRemove, onAdd ChangeFunc) {
	if c.IsPlaced() {
		next, gained := c.Remove()
		if onRemove != nil {
			onRemove(next, gained)
		}
	}
	if !c.live {
		return
	}
	loc, ok := c.locator.LocationAt(c.selection.Focus())
	if !ok {
		return
	}
	next, split := c.PlaceAt(loc)
	if onAdd != nil {
		onAdd(next, split)
	}
}

// Locate returns the marker's location with the marker itself left out.
// A neighbouring text leaf is preferred; otherwise the offset counts the
// preceding siblings that accept admits. A nil accept counts every
// non-transparent sibling.
//
// An element offset is therefore a filtered sibling count, not a raw
// child index: it only matches Tree.IndexOf when no rejected sibling
// precedes the marker. Pass it to a position iterator only after mapping
// it back to a child index.
func (c *Cursor) Locate(accept NodeFilter) dom.Location {
	t := c.tree
	if !c.IsPlaced() {
		panic(fmt.Errorf("%w: member %s", ErrNotPlaced, c.member))
	}
	if prev := t.PrevSibling(c.node); t.IsText(prev) {
		return dom.Location{Node: prev, Offset: t.TextLen(prev)}
	}
	if next := t.NextSibling(c.node); t.IsText(next) {
		return dom.Location{Node: next, Offset: 0}
	}
	if accept == nil {
		accept = func(tr *dom.Tree, n dom.NodeID) bool { return !tr.IsTransparent(n) }
	}
	offset := 0
	for n := t.PrevSibling(c.node); n != dom.None; n = t.PrevSibling(n) {
		if accept(t, n) {
			offset++
		}
	}
	return dom.Location{Node: t.Parent(c.node), Offset: offset}
}
