package steps

import (
	"errors"
	"testing"

	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/filter"
)

type fixture struct {
	tree       *dom.Tree
	body       dom.NodeID
	p1, p2, p3 dom.NodeID
	t1, t2     dom.NodeID
}

// newFixture builds <body><p>Hello</p><p>ab</p><p></p></body>.
func newFixture() *fixture {
	tr := dom.NewTree()
	body := tr.NewElement("body")
	f := &fixture{tree: tr, body: body}
	f.p1, f.p2, f.p3 = tr.NewElement("p"), tr.NewElement("p"), tr.NewElement("p")
	f.t1, f.t2 = tr.NewText("Hello"), tr.NewText("ab")
	tr.AppendChild(body, f.p1)
	tr.AppendChild(body, f.p2)
	tr.AppendChild(body, f.p3)
	tr.AppendChild(f.p1, f.t1)
	tr.AppendChild(f.p2, f.t2)
	return f
}

// textAndParagraphEnd accepts text positions and the end of each paragraph.
var textAndParagraphEnd = filter.Func(func(it *dom.PositionIterator) filter.Result {
	t, c := it.Tree(), it.Container()
	if t.IsText(c) {
		return filter.Accept
	}
	if t.Name(c) == "p" && it.UnfilteredDomOffset() == t.ChildCount(c) {
		return filter.Accept
	}
	return filter.Reject
})

func (f *fixture) counter(node dom.NodeID, offset int, opts ...Option) *Counter {
	anchor := func() *dom.PositionIterator {
		it := dom.NewPositionIterator(f.tree, f.body)
		it.SetUnfilteredPosition(node, offset)
		return it
	}
	paragraphOf := func(n dom.NodeID) dom.NodeID {
		return f.tree.Ancestor(n, func(id dom.NodeID) bool { return f.tree.Name(id) == "p" })
	}
	return NewCounter(anchor, paragraphOf, opts...)
}

func TestCountForwardSteps(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name   string
		node   dom.NodeID
		offset int
		n      int
		want   int
	}{
		{"within text", f.t1, 0, 2, 2},
		{"onto paragraph end", f.t1, 4, 1, 1},
		{"across paragraphs", f.t1, 4, 2, 3},
		{"clamped at document end", f.t2, 0, 100, 4},
		{"zero", f.t1, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.counter(tt.node, tt.offset).CountForwardSteps(tt.n, textAndParagraphEnd)
			if got != tt.want {
				t.Errorf("CountForwardSteps(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

func TestCountBackwardSteps(t *testing.T) {
	f := newFixture()
	// (t2,0) <- (body,1) <- (p1,1): two raw positions for one step
	if got := f.counter(f.t2, 0).CountBackwardSteps(1, textAndParagraphEnd); got != 2 {
		t.Errorf("CountBackwardSteps(1) = %d, want 2", got)
	}
	if got := f.counter(f.t1, 0).CountBackwardSteps(1, textAndParagraphEnd); got != 0 {
		t.Errorf("CountBackwardSteps at start = %d, want 0", got)
	}
}

func TestConvertStepsBetweenFilters(t *testing.T) {
	f := newFixture()
	c := f.counter(f.t1, 4)

	if got := c.ConvertForwardStepsBetweenFilters(1, textAndParagraphEnd, filter.All); got != 1 {
		t.Errorf("forward 1 = %d, want 1", got)
	}
	if got := c.ConvertForwardStepsBetweenFilters(2, textAndParagraphEnd, filter.All); got != 3 {
		t.Errorf("forward 2 = %d, want 3", got)
	}
	if got := f.counter(f.t2, 0).ConvertBackwardStepsBetweenFilters(1, textAndParagraphEnd, filter.All); got != 2 {
		t.Errorf("backward 1 = %d, want 2", got)
	}
}

func TestConvertSubsetIsMonotonic(t *testing.T) {
	f := newFixture()
	c := f.counter(f.t1, 0)
	prev := 0
	for n := 1; n <= 8; n++ {
		got := c.ConvertForwardStepsBetweenFilters(n, textAndParagraphEnd, filter.All)
		if got < n {
			t.Errorf("n=%d: converted %d, want >= n", n, got)
		}
		if got < prev {
			t.Errorf("n=%d: converted %d, less than previous %d", n, got, prev)
		}
		prev = got
	}
}

func TestConvertRoundTrip(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name    string
		node    dom.NodeID
		offset  int
		forward bool
	}{
		{"forward from text start", f.t1, 0, true},
		{"forward from line end", f.t1, 4, true},
		{"forward from second paragraph", f.t2, 0, true},
		{"backward from second paragraph", f.t2, 0, false},
		{"backward from text end", f.t1, 4, false},
	}
	for _, tt := range tests {
		for n := 0; n <= 3; n++ {
			c := f.counter(tt.node, tt.offset)
			convert, inverse := c.ConvertForwardStepsBetweenFilters, c.ConvertForwardStepsBetweenFilters
			if !tt.forward {
				convert, inverse = c.ConvertBackwardStepsBetweenFilters, c.ConvertBackwardStepsBetweenFilters
			}
			wide := convert(n, textAndParagraphEnd, filter.All)
			if wide < n {
				t.Errorf("%s n=%d: converted to %d, want >= n", tt.name, n, wide)
			}
			if got := inverse(wide, filter.All, textAndParagraphEnd); got != n {
				t.Errorf("%s n=%d: %d back to %d, want %d", tt.name, n, wide, got, n)
			}
		}
	}
}

func TestCountStepsToLineBoundary(t *testing.T) {
	f := newFixture()
	c := f.counter(f.t1, 2)
	if got := c.CountStepsToLineBoundary(1, textAndParagraphEnd); got != 3 {
		t.Errorf("to line end = %d, want 3", got)
	}
	if got := c.CountStepsToLineBoundary(-1, textAndParagraphEnd); got != -2 {
		t.Errorf("to line start = %d, want -2", got)
	}
	outside := f.counter(f.body, 1)
	if got := outside.CountStepsToLineBoundary(1, textAndParagraphEnd); got != 0 {
		t.Errorf("outside any paragraph = %d, want 0", got)
	}
}

func TestCountLinesSteps(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name      string
		node      dom.NodeID
		offset    int
		direction int
		want      int
	}{
		// step 2 -> step 8 (column 2 of "ab", its end)
		{"down keeps column", f.t1, 2, 1, 6},
		// step 4 -> step 8 (column clamped to 2)
		{"down clamps column", f.t1, 4, 1, 4},
		// step 7 -> step 1
		{"up keeps column", f.t2, 1, -1, -6},
		{"up from first line", f.t1, 3, -1, 0},
		{"down from last line", f.p3, 0, 1, 0},
		// step 9 -> step 6
		{"up into longer line", f.p3, 0, -1, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.counter(tt.node, tt.offset).CountLinesSteps(tt.direction, textAndParagraphEnd)
			if got != tt.want {
				t.Errorf("CountLinesSteps(%d) = %d, want %d", tt.direction, got, tt.want)
			}
		})
	}
}

func TestLoopGuard(t *testing.T) {
	f := newFixture()
	c := f.counter(f.t1, 0, WithLoopGuard(2))
	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, ErrRunaway) {
			t.Errorf("recover() = %v, want ErrRunaway", err)
		}
	}()
	c.CountForwardSteps(5, textAndParagraphEnd)
}

func TestWatchDogDefaultLimit(t *testing.T) {
	w := NewWatchDog(0)
	if w.limit != DefaultLoopGuard {
		t.Errorf("limit = %d, want %d", w.limit, DefaultLoopGuard)
	}
	for range 10 {
		w.Check()
	}
}
