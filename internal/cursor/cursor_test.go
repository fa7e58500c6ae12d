package cursor

import (
	"errors"
	"testing"

	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/filter"
)

// iterLocator maps steps onto text positions and paragraph ends.
type iterLocator struct {
	tree *dom.Tree
	root dom.NodeID
}

func (l iterLocator) accept(it *dom.PositionIterator) bool {
	c := it.Container()
	if l.tree.IsText(c) {
		return true
	}
	return l.tree.Name(c) == "p" && it.UnfilteredDomOffset() == l.tree.ChildCount(c)
}

func (l iterLocator) LocationAt(step int) (dom.Location, bool) {
	it := dom.NewPositionIterator(l.tree, l.root)
	n := 0
	for {
		if l.accept(it) {
			if n == step {
				return it.Location(), true
			}
			n++
		}
		if !it.NextPosition() {
			return dom.Location{}, false
		}
	}
}

func paragraphOf(tree *dom.Tree) func(dom.NodeID) dom.NodeID {
	return func(n dom.NodeID) dom.NodeID {
		return tree.Ancestor(n, func(id dom.NodeID) bool { return tree.Name(id) == "p" })
	}
}

func newHello(t *testing.T) (*dom.Tree, dom.NodeID, dom.NodeID, dom.NodeID, *Cursor) {
	t.Helper()
	tr := dom.NewTree()
	body := tr.NewElement("body")
	p := tr.NewElement("p")
	txt := tr.NewText("Hello")
	tr.AppendChild(body, p)
	tr.AppendChild(p, txt)
	c := New(tr, body, "m1", iterLocator{tr, body}, paragraphOf(tr))
	return tr, body, p, txt, c
}

func TestPlaceAtSplitsInteriorText(t *testing.T) {
	tr, body, p, txt, c := newHello(t)

	next, split := c.PlaceAt(dom.Location{Node: txt, Offset: 2})
	if next != txt || split != 2 {
		t.Errorf("PlaceAt() = (%d, %d), want (%d, 2)", next, split, txt)
	}
	if got := tr.Dump(body); got != "<body><p>He[cursor]llo</p></body>" {
		t.Errorf("Dump() = %q", got)
	}
	for _, ch := range tr.Children(p) {
		if tr.IsText(ch) && tr.TextLen(ch) == 0 {
			t.Error("placement left an empty text leaf")
		}
	}
}

func TestPlaceAtTextBoundariesDoNotSplit(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{"start", 0, "<body><p>[cursor]Hello</p></body>"},
		{"end", 5, "<body><p>Hello[cursor]</p></body>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, body, p, txt, c := newHello(t)
			_, split := c.PlaceAt(dom.Location{Node: txt, Offset: tt.offset})
			if split != 0 {
				t.Errorf("split = %d, want 0", split)
			}
			if got := tr.Dump(body); got != tt.want {
				t.Errorf("Dump() = %q, want %q", got, tt.want)
			}
			if tr.ChildCount(p) != 2 {
				t.Errorf("paragraph has %d children, want 2", tr.ChildCount(p))
			}
		})
	}
}

func TestPlaceAtTwicePanics(t *testing.T) {
	_, _, p, _, c := newHello(t)
	c.PlaceAt(dom.Location{Node: p, Offset: 0})
	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, ErrAlreadyPlaced) {
			t.Errorf("recover() = %v, want ErrAlreadyPlaced", err)
		}
	}()
	c.PlaceAt(dom.Location{Node: p, Offset: 0})
}

func TestRemoveMergesTextNeighbours(t *testing.T) {
	tr := dom.NewTree()
	body := tr.NewElement("body")
	p := tr.NewElement("p")
	left := tr.NewText("ab")
	right := tr.NewText("cd")
	tr.AppendChild(body, p)
	tr.AppendChild(p, left)
	tr.AppendChild(p, right)
	c := New(tr, body, "m1", iterLocator{tr, body}, paragraphOf(tr))

	c.PlaceAt(dom.Location{Node: p, Offset: 1})
	next, gained := c.Remove()

	if next != right {
		t.Errorf("next = %d, want right leaf %d", next, right)
	}
	if gained != 2 {
		t.Errorf("gained = %d, want 2", gained)
	}
	if tr.ChildCount(p) != 1 || tr.Text(right) != "abcd" {
		t.Errorf("Dump() = %q", tr.Dump(body))
	}
	if c.IsPlaced() {
		t.Error("cursor still placed")
	}
}

func TestRemoveNextToElementKeepsText(t *testing.T) {
	tr := dom.NewTree()
	body := tr.NewElement("body")
	p := tr.NewElement("p")
	span := tr.NewElement("span")
	txt := tr.NewText("ab")
	tr.AppendChild(body, p)
	tr.AppendChild(p, txt)
	tr.AppendChild(p, span)
	c := New(tr, body, "m1", iterLocator{tr, body}, paragraphOf(tr))

	c.PlaceAt(dom.Location{Node: p, Offset: 1})
	next, gained := c.Remove()
	if next != span || gained != 0 {
		t.Errorf("Remove() = (%d, %d), want (%d, 0)", next, gained, span)
	}
	if got := tr.Dump(body); got != "<body><p>ab<span></span></p></body>" {
		t.Errorf("Dump() = %q", got)
	}
}

func TestRemoveUnplacedPanics(t *testing.T) {
	_, _, _, _, c := newHello(t)
	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, ErrNotPlaced) {
			t.Errorf("recover() = %v, want ErrNotPlaced", err)
		}
	}()
	c.Remove()
}

func TestUpdateToSelectionResyncs(t *testing.T) {
	tr, body, _, txt, c := newHello(t)

	var removed, added []int
	onRemove := func(_ dom.NodeID, delta int) { removed = append(removed, delta) }
	onAdd := func(_ dom.NodeID, delta int) { added = append(added, delta) }

	c.SetSelection(Collapsed(2))
	c.UpdateToSelection(onRemove, onAdd)
	if got := tr.Dump(body); got != "<body><p>He[cursor]llo</p></body>" {
		t.Fatalf("Dump() = %q", got)
	}

	c.SetSelection(NewSelection(1, 4))
	c.UpdateToSelection(onRemove, onAdd)
	if got := tr.Dump(body); got != "<body><p>Hell[cursor]o</p></body>" {
		t.Fatalf("Dump() = %q", got)
	}
	if tr.Text(txt) != "o" {
		t.Errorf("original leaf holds %q, want remainder %q", tr.Text(txt), "o")
	}

	c.SetSelection(Collapsed(5))
	c.UpdateToSelection(onRemove, onAdd)
	if got := tr.Dump(body); got != "<body><p>Hello[cursor]</p></body>" {
		t.Fatalf("Dump() = %q", got)
	}

	if len(removed) != 2 || removed[0] != 2 || removed[1] != 4 {
		t.Errorf("removed deltas = %v, want [2 4]", removed)
	}
	if len(added) != 3 || added[0] != 2 || added[1] != 4 || added[2] != 0 {
		t.Errorf("added deltas = %v, want [2 4 0]", added)
	}
}

func TestUpdateToSelectionWithoutSelectionRemoves(t *testing.T) {
	tr, body, _, _, c := newHello(t)
	c.SetSelection(Collapsed(3))
	c.UpdateToSelection(nil, nil)
	c.ClearSelection()
	c.UpdateToSelection(nil, nil)
	if c.IsPlaced() {
		t.Error("cursor should be absent without a selection")
	}
	if got := tr.Dump(body); got != "<body><p>Hello</p></body>" {
		t.Errorf("Dump() = %q", got)
	}
}

func TestUpdateToSelectionUnresolvableFocus(t *testing.T) {
	_, _, _, _, c := newHello(t)
	c.SetSelection(Collapsed(42))
	c.UpdateToSelection(nil, nil)
	if c.IsPlaced() {
		t.Error("cursor placed at unresolvable step")
	}
}

func TestLocate(t *testing.T) {
	tr, body, _, _, c := newHello(t)
	c.SetSelection(Collapsed(2))
	c.UpdateToSelection(nil, nil)

	loc := c.Locate(nil)
	if tr.Text(loc.Node) != "He" || loc.Offset != 2 {
		t.Errorf("Locate() = %v (%q), want end of \"He\"", loc, tr.Text(loc.Node))
	}

	empty := tr.NewElement("p")
	tr.AppendChild(body, empty)
	other := New(tr, body, "m2", iterLocator{tr, body}, paragraphOf(tr))
	other.PlaceAt(dom.Location{Node: empty, Offset: 0})
	c.Remove()
	c.PlaceAt(dom.Location{Node: empty, Offset: 1})

	if loc := c.Locate(nil); loc.Node != empty || loc.Offset != 0 {
		t.Errorf("Locate() next to another marker = %v, want (%d,0)", loc, empty)
	}
}

func TestLocateOffsetIsFiltered(t *testing.T) {
	tr, body, _, _, c := newHello(t)
	p := tr.NewElement("p")
	tr.AppendChild(body, p)
	// An empty leaf is transparent and never counted.
	tr.AppendChild(p, tr.NewText(""))
	tr.AppendChild(p, tr.NewElement("img"))
	tr.AppendChild(p, tr.NewElement("note"))
	tr.AppendChild(p, tr.NewElement("img"))
	c.PlaceAt(dom.Location{Node: p, Offset: 4})

	onlyImages := func(tr *dom.Tree, n dom.NodeID) bool { return tr.Name(n) == "img" }
	tests := []struct {
		name   string
		accept NodeFilter
		want   int
	}{
		{"non-transparent siblings", nil, 3},
		{"images only", onlyImages, 2},
		{"nothing", func(*dom.Tree, dom.NodeID) bool { return false }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := c.Locate(tt.accept)
			if loc.Node != p || loc.Offset != tt.want {
				t.Errorf("Locate() = %v, want (%d,%d)", loc, p, tt.want)
			}
		})
	}
	if raw := tr.IndexOf(c.Node()); raw != 4 {
		t.Errorf("marker child index = %d, want 4", raw)
	}
}

func TestStepCounterAnchoredAtMarker(t *testing.T) {
	_, _, _, _, c := newHello(t)
	c.SetSelection(Collapsed(1))
	c.UpdateToSelection(nil, nil)

	accept := filter.Func(func(it *dom.PositionIterator) filter.Result {
		if (iterLocator{it.Tree(), it.Root()}).accept(it) {
			return filter.Accept
		}
		return filter.Reject
	})
	if got := c.StepCounter().CountStepsToLineBoundary(1, accept); got != 4 {
		t.Errorf("steps to line end = %d, want 4", got)
	}
	if got := c.StepCounter().CountStepsToLineBoundary(-1, accept); got != -1 {
		t.Errorf("steps to line start = %d, want -1", got)
	}
}

func TestSelectionNormalization(t *testing.T) {
	tests := []struct {
		name       string
		sel        Selection
		start, end int
		forward    bool
	}{
		{"collapsed", Collapsed(3), 3, 3, true},
		{"forward", NewSelection(2, 5), 2, 5, true},
		{"backward", NewSelection(5, 2), 2, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.sel.Start() != tt.start || tt.sel.End() != tt.end {
				t.Errorf("range = [%d,%d), want [%d,%d)", tt.sel.Start(), tt.sel.End(), tt.start, tt.end)
			}
			if tt.sel.IsForward() != tt.forward {
				t.Errorf("IsForward() = %v, want %v", tt.sel.IsForward(), tt.forward)
			}
			fwd := tt.sel.ToForward()
			if fwd.Length < 0 || !fwd.SameRange(tt.sel) {
				t.Errorf("ToForward() = %v", fwd)
			}
			if fwd.ToForward() != fwd {
				t.Errorf("ToForward() not idempotent: %v", fwd.ToForward())
			}
		})
	}
}

func TestSelectionExtend(t *testing.T) {
	s := NewSelection(4, 6).Extend(1)
	if s.Anchor() != 4 || s.Focus() != 1 || s.Length != -3 {
		t.Errorf("Extend() = %v", s)
	}
	if got := s.ExtendBy(5).Focus(); got != 6 {
		t.Errorf("ExtendBy() focus = %d, want 6", got)
	}
	shifted := s.Shift(func(step int) int {
		if step >= 2 {
			return step + 10
		}
		return step
	})
	if shifted.Anchor() != 14 || shifted.Focus() != 1 {
		t.Errorf("Shift() = %v", shifted)
	}
	if s.String() != "Selection(4←1)" || Collapsed(2).String() != "Cursor(2)" {
		t.Errorf("String() = %q / %q", s.String(), Collapsed(2).String())
	}
}
