package dom

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NodeID addresses a node in a Tree's arena. The zero value is None.
type NodeID int

// None is the invalid node id.
const None NodeID = 0

// Kind identifies the type of a node.
type Kind uint8

const (
	// KindElement is a branching node; offsets inside it count children.
	KindElement Kind = iota + 1
	// KindText is a text leaf; offsets inside it count code points.
	KindText
	// KindMarker is a transient annotation node such as a cursor. Markers
	// never contribute positions and are skipped by every structural walk.
	KindMarker
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindMarker:
		return "marker"
	default:
		return "unknown"
	}
}

type node struct {
	kind     Kind
	name     string
	text     []rune
	attrs    map[string]string
	parent   NodeID
	children []NodeID
}

// Tree is an arena-backed ordered content tree.
// Node ids stay valid for the lifetime of the tree; detached nodes are kept
// in the arena and may be re-attached.
//
// Tree is not safe for concurrent use.
type Tree struct {
	nodes []node
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	// slot 0 backs None
	return &Tree{nodes: make([]node, 1, 64)}
}

func (t *Tree) alloc(n node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) get(id NodeID) *node {
	if id <= None || int(id) >= len(t.nodes) {
		panic(fmt.Errorf("%w: %d", ErrInvalidNode, id))
	}
	return &t.nodes[id]
}

// Valid reports whether id addresses a node in this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id > None && int(id) < len(t.nodes)
}

// NewElement allocates a detached element node.
func (t *Tree) NewElement(name string) NodeID {
	return t.alloc(node{kind: KindElement, name: name})
}

// NewText allocates a detached text leaf.
func (t *Tree) NewText(text string) NodeID {
	return t.alloc(node{kind: KindText, name: "#text", text: []rune(text)})
}

// NewMarker allocates a detached marker node.
func (t *Tree) NewMarker(name string) NodeID {
	return t.alloc(node{kind: KindMarker, name: name})
}

// Kind returns the node kind.
func (t *Tree) Kind(id NodeID) Kind { return t.get(id).kind }

// Name returns the element or marker name.
func (t *Tree) Name(id NodeID) string { return t.get(id).name }

// IsText reports whether id is a text leaf.
func (t *Tree) IsText(id NodeID) bool { return t.Valid(id) && t.get(id).kind == KindText }

// IsElement reports whether id is an element.
func (t *Tree) IsElement(id NodeID) bool { return t.Valid(id) && t.get(id).kind == KindElement }

// IsMarker reports whether id is a marker.
func (t *Tree) IsMarker(id NodeID) bool { return t.Valid(id) && t.get(id).kind == KindMarker }

// IsTransparent reports whether the node contributes no positions:
// markers and empty text leaves.
func (t *Tree) IsTransparent(id NodeID) bool {
	n := t.get(id)
	return n.kind == KindMarker || (n.kind == KindText && len(n.text) == 0)
}

// Text returns the content of a text leaf.
func (t *Tree) Text(id NodeID) string { return string(t.get(id).text) }

// TextLen returns the length of a text leaf in code points.
func (t *Tree) TextLen(id NodeID) int { return len(t.get(id).text) }

// RuneAt returns the code point at offset in a text leaf.
func (t *Tree) RuneAt(id NodeID, offset int) rune {
	n := t.get(id)
	if offset < 0 || offset >= len(n.text) {
		return utf8.RuneError
	}
	return n.text[offset]
}

// SetText replaces the content of a text leaf.
func (t *Tree) SetText(id NodeID, text string) {
	n := t.get(id)
	if n.kind != KindText {
		panic(fmt.Errorf("%w: SetText on %s", ErrNotText, n.kind))
	}
	n.text = []rune(text)
}

// Substring returns the text between from and to.
func (t *Tree) Substring(id NodeID, from, to int) string {
	n := t.get(id)
	from, to = clamp(from, 0, len(n.text)), clamp(to, 0, len(n.text))
	if from >= to {
		return ""
	}
	return string(n.text[from:to])
}

// InsertData inserts s at offset in a text leaf.
func (t *Tree) InsertData(id NodeID, offset int, s string) {
	n := t.get(id)
	if n.kind != KindText {
		panic(fmt.Errorf("%w: InsertData on %s", ErrNotText, n.kind))
	}
	offset = clamp(offset, 0, len(n.text))
	ins := []rune(s)
	out := make([]rune, 0, len(n.text)+len(ins))
	out = append(out, n.text[:offset]...)
	out = append(out, ins...)
	out = append(out, n.text[offset:]...)
	n.text = out
}

// DeleteData removes count code points starting at offset.
func (t *Tree) DeleteData(id NodeID, offset, count int) {
	n := t.get(id)
	if n.kind != KindText {
		panic(fmt.Errorf("%w: DeleteData on %s", ErrNotText, n.kind))
	}
	offset = clamp(offset, 0, len(n.text))
	end := clamp(offset+count, offset, len(n.text))
	n.text = append(n.text[:offset:offset], n.text[end:]...)
}

// Attr returns an attribute value.
func (t *Tree) Attr(id NodeID, key string) (string, bool) {
	v, ok := t.get(id).attrs[key]
	return v, ok
}

// SetAttr sets an attribute value.
func (t *Tree) SetAttr(id NodeID, key, value string) {
	n := t.get(id)
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// Attrs returns a copy of all attributes.
func (t *Tree) Attrs(id NodeID) map[string]string {
	src := t.get(id).attrs
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Parent returns the parent or None.
func (t *Tree) Parent(id NodeID) NodeID { return t.get(id).parent }

// Children returns the child list. The slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID { return t.get(id).children }

// ChildCount returns the number of children.
func (t *Tree) ChildCount(id NodeID) int { return len(t.get(id).children) }

// Child returns the i-th child or None when out of range.
func (t *Tree) Child(id NodeID, i int) NodeID {
	c := t.get(id).children
	if i < 0 || i >= len(c) {
		return None
	}
	return c[i]
}

// IndexOf returns the index of id among its siblings, or -1 if detached.
func (t *Tree) IndexOf(id NodeID) int {
	p := t.get(id).parent
	if p == None {
		return -1
	}
	for i, c := range t.get(p).children {
		if c == id {
			return i
		}
	}
	return -1
}

// PrevSibling returns the previous sibling or None.
func (t *Tree) PrevSibling(id NodeID) NodeID {
	i := t.IndexOf(id)
	if i <= 0 {
		return None
	}
	return t.get(t.get(id).parent).children[i-1]
}

// NextSibling returns the next sibling or None.
func (t *Tree) NextSibling(id NodeID) NodeID {
	i := t.IndexOf(id)
	if i < 0 {
		return None
	}
	return t.Child(t.get(id).parent, i+1)
}

// InsertAt attaches child to parent at index, detaching it first if needed.
func (t *Tree) InsertAt(parent, child NodeID, index int) {
	if t.get(parent).kind != KindElement {
		panic(fmt.Errorf("%w: insert into %s", ErrNotElement, t.get(parent).kind))
	}
	if t.Contains(child, parent) {
		panic(fmt.Errorf("%w: %d into %d", ErrCycle, child, parent))
	}
	t.Detach(child)
	p := t.get(parent)
	index = clamp(index, 0, len(p.children))
	p.children = append(p.children, None)
	copy(p.children[index+1:], p.children[index:])
	p.children[index] = child
	t.get(child).parent = parent
}

// AppendChild attaches child as the last child of parent.
func (t *Tree) AppendChild(parent, child NodeID) {
	t.InsertAt(parent, child, len(t.get(parent).children))
}

// InsertBefore attaches child before ref; ref None appends.
func (t *Tree) InsertBefore(parent, child, ref NodeID) {
	if ref == None {
		t.AppendChild(parent, child)
		return
	}
	if t.get(ref).parent != parent {
		panic(fmt.Errorf("%w: ref %d is not a child of %d", ErrNotChild, ref, parent))
	}
	if ref == child {
		return
	}
	t.Detach(child)
	t.InsertAt(parent, child, t.IndexOf(ref))
}

// Detach removes id from its parent. Detaching a detached node is a no-op.
func (t *Tree) Detach(id NodeID) {
	n := t.get(id)
	if n.parent == None {
		return
	}
	p := t.get(n.parent)
	for i, c := range p.children {
		if c == id {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = None
}

// Contains reports whether node is ancestor or a descendant of ancestor.
func (t *Tree) Contains(ancestor, node NodeID) bool {
	if !t.Valid(ancestor) || !t.Valid(node) {
		return false
	}
	for n := node; n != None; n = t.get(n).parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// Ancestor returns the closest ancestor-or-self for which match is true.
func (t *Tree) Ancestor(id NodeID, match func(NodeID) bool) NodeID {
	for n := id; n != None; n = t.get(n).parent {
		if match(n) {
			return n
		}
	}
	return None
}

// path returns the child-index path from the root to id.
func (t *Tree) path(id NodeID) []int {
	var rev []int
	for n := id; t.get(n).parent != None; n = t.get(n).parent {
		rev = append(rev, t.IndexOf(n))
	}
	out := make([]int, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}

// Precedes reports whether a comes before b in document (pre-)order.
// An ancestor precedes its descendants.
func (t *Tree) Precedes(a, b NodeID) bool {
	if a == b {
		return false
	}
	pa, pb := t.path(a), t.path(b)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			return pa[i] < pb[i]
		}
	}
	return len(pa) < len(pb)
}

// Descendants calls fn for every descendant of id in document order.
// Returning false from fn skips the node's subtree.
func (t *Tree) Descendants(id NodeID, fn func(NodeID) bool) {
	for _, c := range t.get(id).children {
		if fn(c) {
			t.Descendants(c, fn)
		}
	}
}

// Clone returns a deep copy of the tree. Node ids are preserved.
func (t *Tree) Clone() *Tree {
	out := &Tree{nodes: make([]node, len(t.nodes))}
	for i, n := range t.nodes {
		c := n
		if n.text != nil {
			c.text = append([]rune(nil), n.text...)
		}
		if n.children != nil {
			c.children = append([]NodeID(nil), n.children...)
		}
		if n.attrs != nil {
			c.attrs = make(map[string]string, len(n.attrs))
			for k, v := range n.attrs {
				c.attrs[k] = v
			}
		}
		out.nodes[i] = c
	}
	return out
}

// Restore replaces the content of t with a copy of from. Holders of t see
// the restored content; node ids follow from.
func (t *Tree) Restore(from *Tree) {
	*t = *from.Clone()
}

// Dump renders the subtree rooted at id in a compact XML-like form.
// Markers render as [name].
func (t *Tree) Dump(id NodeID) string {
	var b strings.Builder
	t.dump(&b, id)
	return b.String()
}

func (t *Tree) dump(b *strings.Builder, id NodeID) {
	n := t.get(id)
	switch n.kind {
	case KindText:
		b.WriteString(string(n.text))
	case KindMarker:
		b.WriteString("[" + n.name + "]")
	default:
		b.WriteString("<" + n.name + ">")
		for _, c := range n.children {
			t.dump(b, c)
		}
		b.WriteString("</" + n.name + ">")
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
