package odt

import (
	"testing"

	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/filter"
)

func newDoc(t *testing.T, text string) *Document {
	t.Helper()
	return New(WithContent(Lines(text)...))
}

func findText(t *testing.T, d *Document, text string) dom.NodeID {
	t.Helper()
	found := dom.None
	d.Tree().Descendants(d.WindowNode(), func(n dom.NodeID) bool {
		if found == dom.None && d.Tree().IsText(n) && d.Tree().Text(n) == text {
			found = n
		}
		return found == dom.None
	})
	if found == dom.None {
		t.Fatalf("no text leaf %q in %s", text, d.Dump())
	}
	return found
}

func mustAddCursor(t *testing.T, d *Document, member string) {
	t.Helper()
	if err := d.AddCursor(member); err != nil {
		t.Fatalf("AddCursor(%s) = %v", member, err)
	}
}

func TestNewDocumentLayout(t *testing.T) {
	d := New()
	tr := d.Tree()
	if tr.Parent(d.RootNode()) != d.CanvasNode() || tr.Parent(d.CanvasNode()) != d.WindowNode() {
		t.Fatal("body is not inside canvas inside window")
	}
	if got := d.Dump(); got != "<body><p></p></body>" {
		t.Errorf("Dump() = %q", got)
	}
	if d.StepCount() != 1 {
		t.Errorf("StepCount() = %d, want 1", d.StepCount())
	}
}

func TestStepMapping(t *testing.T) {
	d := newDoc(t, "Hello\nworld")
	hello := findText(t, d, "Hello")
	world := findText(t, d, "world")
	p1 := d.Tree().Parent(hello)

	if got := d.StepCount(); got != 12 {
		t.Fatalf("StepCount() = %d, want 12", got)
	}

	locTests := []struct {
		step int
		want dom.Location
	}{
		{0, dom.Location{Node: hello, Offset: 0}},
		{4, dom.Location{Node: hello, Offset: 4}},
		{5, dom.Location{Node: p1, Offset: 1}},
		{6, dom.Location{Node: world, Offset: 0}},
	}
	for _, tt := range locTests {
		got, ok := d.LocationAt(tt.step)
		if !ok || got != tt.want {
			t.Errorf("LocationAt(%d) = %v, %v; want %v", tt.step, got, ok, tt.want)
		}
	}
	if _, ok := d.LocationAt(12); ok {
		t.Error("LocationAt(12) resolved past the end")
	}

	chrome := findText(t, d, "docedit")
	stepTests := []struct {
		name   string
		node   dom.NodeID
		offset int
		want   int
	}{
		{"text", world, 2, 8},
		{"end of leaf", hello, 5, 5},
		{"paragraph end", p1, 1, 5},
		{"body start", d.RootNode(), 0, 0},
		{"body end", d.RootNode(), 2, 11},
		{"chrome before body", chrome, 0, 0},
		{"status bar after body", d.Tree().Child(d.WindowNode(), 2), 0, 11},
	}
	for _, tt := range stepTests {
		if got := d.StepOf(tt.node, tt.offset); got != tt.want {
			t.Errorf("%s: StepOf() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestPositionInTextNode(t *testing.T) {
	d := newDoc(t, "ab")
	tests := []struct {
		step int
		want bool
	}{
		{-1, false},
		{0, true},
		{2, true},
		{3, false},
	}
	for _, tt := range tests {
		if got := d.PositionInTextNode(tt.step); got != tt.want {
			t.Errorf("PositionInTextNode(%d) = %v, want %v", tt.step, got, tt.want)
		}
	}
}

func TestCursorQueries(t *testing.T) {
	d := newDoc(t, "Hello\nworld")
	mustAddCursor(t, d, "m1")
	if got := d.Dump(); got != "<body><p>[cursor]Hello</p><p>world</p></body>" {
		t.Errorf("Dump() after AddCursor = %q", got)
	}
	if err := d.MoveCursor("m1", 3, 4); err != nil {
		t.Fatal(err)
	}
	if d.CursorPosition("m1") != 7 {
		t.Errorf("CursorPosition() = %d, want 7", d.CursorPosition("m1"))
	}
	if got := d.SelectedText("m1"); got != "lo\nw" {
		t.Errorf("SelectedText() = %q, want %q", got, "lo\nw")
	}
	if got := d.Dump(); got != "<body><p>Hello</p><p>w[cursor]orld</p></body>" {
		t.Errorf("Dump() = %q", got)
	}

	hello := findText(t, d, "Hello")
	if got := d.DistanceFromCursor("m1", hello, 1); got != -6 {
		t.Errorf("DistanceFromCursor() = %d, want -6", got)
	}
	if got := d.DistanceFromCursor("m1", d.Cursor("m1").Node(), 0); got != 0 {
		t.Errorf("DistanceFromCursor(own marker) = %d, want 0", got)
	}
}

func TestRootFilter(t *testing.T) {
	d := New(WithContent(
		Paragraph(Text("ab"), Annotation(Paragraph(Text("xy"))), Text("cd")),
	))
	mustAddCursor(t, d, "m1")
	if err := d.MoveCursor("m1", 3, 0); err != nil {
		t.Fatal(err)
	}
	rf := d.CreateRootFilter("m1")
	it := dom.NewPositionIterator(d.Tree(), d.RootNode())

	it.SetUnfilteredPosition(findText(t, d, "ab"), 1)
	if r := rf.AcceptPosition(it); r != filter.Reject {
		t.Errorf("outside the annotation: %s, want reject", r)
	}
	it.SetUnfilteredPosition(findText(t, d, "x"), 0)
	if r := rf.AcceptPosition(it); r != filter.Accept {
		t.Errorf("inside the annotation: %s, want accept", r)
	}

	// the remove button is not a step
	if got := d.StepCount(); got != 8 {
		t.Errorf("StepCount() = %d, want 8", got)
	}
}

func TestSnapshotRestore(t *testing.T) {
	d := newDoc(t, "Hello")
	mustAddCursor(t, d, "m1")
	if err := d.MoveCursor("m1", 2, 0); err != nil {
		t.Fatal(err)
	}
	before := d.Dump()
	snap := d.Snapshot()
	if d.Dump() != before {
		t.Fatalf("Snapshot changed the document: %q", d.Dump())
	}

	if err := d.InsertText("m1", 2, "XY", true); err != nil {
		t.Fatal(err)
	}
	mustAddCursor(t, d, "m2")
	if d.PlainText() != "HeXYllo" {
		t.Fatalf("PlainText() = %q", d.PlainText())
	}

	d.Restore(snap)
	if d.Dump() != before {
		t.Errorf("Dump() after Restore = %q, want %q", d.Dump(), before)
	}
	if d.Cursor("m2") != nil {
		t.Error("cursor added after the snapshot survived Restore")
	}
	if d.CursorPosition("m1") != 2 {
		t.Errorf("CursorPosition() = %d, want 2", d.CursorPosition("m1"))
	}

	// a snapshot can be restored more than once
	if err := d.RemoveText("m1", 0, 2); err != nil {
		t.Fatal(err)
	}
	d.Restore(snap)
	if d.PlainText() != "Hello" {
		t.Errorf("second Restore: PlainText() = %q", d.PlainText())
	}
}

func TestStyleQueries(t *testing.T) {
	bold := map[string]string{PropFontWeight: "bold"}
	d := New(WithContent(Paragraph(Text("a"), Span(bold, Text("bc")), Text("d"))))
	mustAddCursor(t, d, "m1")

	tests := []struct {
		pos, length int
		want        bool
	}{
		{1, 2, true},
		{3, -2, true},
		{0, 2, false},
		{1, 0, false},
		{4, 1, false},
	}
	for _, tt := range tests {
		if err := d.MoveCursor("m1", tt.pos, tt.length); err != nil {
			t.Fatal(err)
		}
		if got := d.IsBold("m1"); got != tt.want {
			t.Errorf("IsBold() over (%d,%d) = %v, want %v", tt.pos, tt.length, got, tt.want)
		}
	}
	if d.IsItalic("m1") || d.HasUnderline("m1") {
		t.Error("unexpected italic or underline")
	}
}

func TestLocations(t *testing.T) {
	d := newDoc(t, "ab\nc")
	locs := d.Locations()
	if len(locs) != d.StepCount() {
		t.Fatalf("len(Locations()) = %d, want %d", len(locs), d.StepCount())
	}
	for step, loc := range locs {
		if got, _ := d.LocationAt(step); got != loc {
			t.Errorf("Locations()[%d] = %v, LocationAt = %v", step, loc, got)
		}
	}
}
