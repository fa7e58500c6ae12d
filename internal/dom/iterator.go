package dom

import "fmt"

// Location is a raw tree location: a container and an offset inside it.
// For text leaves the offset counts code points, for elements it counts
// children.
type Location struct {
	Node   NodeID
	Offset int
}

// String returns a debug representation.
func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.Node, l.Offset)
}

// PositionIterator walks every raw position below a root in document order.
//
// The positions are:
//   - (T, o) for every non-empty text leaf T and 0 <= o < len(T); the
//     location after the last code point is represented by the position
//     following the leaf;
//   - (E, i) for every element E and child index i where child i is a
//     non-transparent element, or i is the child count.
//
// Transparent nodes (markers and empty text leaves) contribute nothing.
// The iterator applies no position filter; callers filter.
type PositionIterator struct {
	tree      *Tree
	root      NodeID
	container NodeID
	offset    int
}

// NewPositionIterator creates an iterator at the first position in root.
func NewPositionIterator(tree *Tree, root NodeID) *PositionIterator {
	it := &PositionIterator{tree: tree, root: root}
	it.MoveToStart()
	return it
}

// Tree returns the walked tree.
func (it *PositionIterator) Tree() *Tree { return it.tree }

// Root returns the iteration root.
func (it *PositionIterator) Root() NodeID { return it.root }

// Container returns the current container node.
func (it *PositionIterator) Container() NodeID { return it.container }

// UnfilteredDomOffset returns the current raw offset.
func (it *PositionIterator) UnfilteredDomOffset() int { return it.offset }

// Location returns the current (container, offset) pair.
func (it *PositionIterator) Location() Location {
	return Location{Node: it.container, Offset: it.offset}
}

// CurrentNode returns the text leaf at a text position, otherwise the
// child at the offset, or the container itself at its end.
func (it *PositionIterator) CurrentNode() NodeID {
	if it.tree.IsText(it.container) {
		return it.container
	}
	if c := it.tree.Child(it.container, it.offset); c != None {
		return c
	}
	return it.container
}

// Clone returns an independent copy of the iterator.
func (it *PositionIterator) Clone() *PositionIterator {
	c := *it
	return &c
}

// MoveToStart moves to the first position in the root.
func (it *PositionIterator) MoveToStart() {
	it.settle(it.root, 0)
}

// MoveToEnd moves to the last position in the root.
func (it *PositionIterator) MoveToEnd() {
	it.container = it.root
	it.offset = it.tree.ChildCount(it.root)
}

// MoveToEndOfNode moves to the last position inside node.
func (it *PositionIterator) MoveToEndOfNode(node NodeID) {
	if it.tree.IsText(node) {
		it.SetUnfilteredPosition(node, it.tree.TextLen(node))
		return
	}
	it.container = node
	it.offset = it.tree.ChildCount(node)
}

// SetUnfilteredPosition moves to the position equivalent to the raw
// location, normalizing text-leaf ends and transparent nodes.
func (it *PositionIterator) SetUnfilteredPosition(container NodeID, offset int) {
	t := it.tree
	switch t.Kind(container) {
	case KindText:
		if offset >= 0 && offset < t.TextLen(container) {
			it.container, it.offset = container, offset
			return
		}
		if offset < 0 {
			it.settle(t.Parent(container), t.IndexOf(container))
			return
		}
		it.settle(t.Parent(container), t.IndexOf(container)+1)
	case KindMarker:
		it.settle(t.Parent(container), t.IndexOf(container))
	default:
		it.settle(container, clamp(offset, 0, t.ChildCount(container)))
	}
}

// settle moves to the first position at or after child index i of e.
func (it *PositionIterator) settle(e NodeID, i int) {
	t := it.tree
	n := t.ChildCount(e)
	for i < n && t.IsTransparent(t.Child(e, i)) {
		i++
	}
	if i < n {
		if c := t.Child(e, i); t.IsText(c) {
			it.container, it.offset = c, 0
			return
		}
	}
	it.container, it.offset = e, i
}

// NextPosition advances one position. It returns false at the end of the
// root, leaving the iterator unchanged.
func (it *PositionIterator) NextPosition() bool {
	t := it.tree
	if t.IsText(it.container) {
		if it.offset+1 < t.TextLen(it.container) {
			it.offset++
			return true
		}
		it.settle(t.Parent(it.container), t.IndexOf(it.container)+1)
		return true
	}
	if it.offset < t.ChildCount(it.container) {
		it.settle(t.Child(it.container, it.offset), 0)
		return true
	}
	if it.container == it.root {
		return false
	}
	it.settle(t.Parent(it.container), t.IndexOf(it.container)+1)
	return true
}

// PreviousPosition moves back one position. It returns false at the start
// of the root, leaving the iterator unchanged.
func (it *PositionIterator) PreviousPosition() bool {
	t := it.tree
	if t.IsText(it.container) {
		if it.offset > 0 {
			it.offset--
			return true
		}
		return it.before(t.Parent(it.container), t.IndexOf(it.container))
	}
	return it.before(it.container, it.offset)
}

// before moves to the position preceding the start of child i of e.
func (it *PositionIterator) before(e NodeID, i int) bool {
	t := it.tree
	j := i - 1
	for j >= 0 && t.IsTransparent(t.Child(e, j)) {
		j--
	}
	if j < 0 {
		if e == it.root {
			return false
		}
		it.container, it.offset = t.Parent(e), t.IndexOf(e)
		return true
	}
	c := t.Child(e, j)
	if t.IsText(c) {
		it.container, it.offset = c, t.TextLen(c)-1
		return true
	}
	it.container, it.offset = c, t.ChildCount(c)
	return true
}

// Equal reports whether both iterators sit on the same position.
func (it *PositionIterator) Equal(other *PositionIterator) bool {
	return it.container == other.container && it.offset == other.offset
}
