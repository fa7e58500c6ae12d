package controller

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/host"
	"github.com/dshills/docedit/internal/input/key"
	"github.com/dshills/docedit/internal/input/keymap"
	"github.com/dshills/docedit/internal/input/mouse"
	"github.com/dshills/docedit/internal/odt"
	"github.com/dshills/docedit/internal/ops"
	"github.com/dshills/docedit/internal/session"
	"github.com/dshills/docedit/internal/undo"
)

const member = "m1"

type fixture struct {
	t    *testing.T
	doc  *odt.Document
	sess *session.LocalSession
	host *host.Virtual
	c    *SessionController
	mark int
}

func newFixture(t *testing.T, content ...odt.Content) *fixture {
	t.Helper()
	doc := odt.New(odt.WithContent(content...))
	sess := session.NewLocal(doc)
	h := host.NewVirtual()
	c := New(sess, doc, h, member, WithPlatform(keymap.PlatformOther))
	return &fixture{t: t, doc: doc, sess: sess, host: h, c: c}
}

// start begins editing and forgets the operations enqueued so far.
func (f *fixture) start() *fixture {
	f.c.StartEditing()
	f.forget()
	return f
}

func (f *fixture) forget() {
	f.mark = len(f.sess.Entries())
}

// enqueued returns the operations enqueued since the last forget.
func (f *fixture) enqueued() []ops.Operation {
	var out []ops.Operation
	for _, e := range f.sess.Entries()[f.mark:] {
		out = append(out, e.Op)
	}
	return out
}

func (f *fixture) wantOps(want ...ops.Operation) {
	f.t.Helper()
	got := f.enqueued()
	if len(got) != len(want) {
		f.t.Fatalf("enqueued %d ops %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			f.t.Errorf("op %d = %s, want %s", i, ops.Describe(got[i]), ops.Describe(want[i]))
		}
	}
}

func (f *fixture) moveTo(position, length int) {
	f.t.Helper()
	f.sess.Enqueue(ops.MoveCursor{Member: member, Position: position, Length: length})
	f.forget()
}

func (f *fixture) wantText(want string) {
	f.t.Helper()
	if got := f.doc.PlainText(); got != want {
		f.t.Errorf("PlainText() = %q, want %q", got, want)
	}
}

func (f *fixture) wantSelection(position, length int) {
	f.t.Helper()
	sel := f.doc.CursorSelection(member)
	if sel.Position != position || sel.Length != length {
		f.t.Errorf("selection = %+v, want {%d %d}", sel, position, length)
	}
}

// press sends a key-down and, when nothing handled it, a key-press.
func (f *fixture) press(e key.Event) bool {
	if f.host.Dispatch(&host.Event{Type: host.KeyDown, Key: e}) {
		return true
	}
	return f.host.Dispatch(&host.Event{Type: host.KeyPress, Key: e})
}

func (f *fixture) pressKey(k key.Key, mods key.Modifier) bool {
	return f.press(key.NewSpecialEvent(k, mods))
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.press(key.NewRuneEvent(r, 0))
	}
}

func (f *fixture) click(target dom.NodeID, clicks mouse.ClickType) {
	f.host.Dispatch(&host.Event{Type: host.PointerDown, Target: target, Button: mouse.ButtonLeft})
	f.host.Dispatch(&host.Event{Type: host.PointerUp, Target: target, Button: mouse.ButtonLeft, Clicks: clicks})
}

func (f *fixture) findText(text string) dom.NodeID {
	f.t.Helper()
	return f.find(func(n dom.NodeID) bool {
		return f.doc.Tree().IsText(n) && f.doc.Tree().Text(n) == text
	})
}

func (f *fixture) find(match func(dom.NodeID) bool) dom.NodeID {
	f.t.Helper()
	found := dom.None
	f.doc.Tree().Descendants(f.doc.WindowNode(), func(n dom.NodeID) bool {
		if found == dom.None && match(n) {
			found = n
		}
		return found == dom.None
	})
	if found == dom.None {
		f.t.Fatalf("no matching node in %s", f.doc.Dump())
	}
	return found
}

func wantPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrPrecondition) {
			t.Errorf("%s: recovered %v, want ErrPrecondition", name, r)
		}
	}()
	fn()
}

func TestStartAndEndEditing(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello")...)
	f.c.StartEditing()
	f.wantOps(ops.AddCursor{Member: member})
	if !f.c.IsActive() || f.doc.Cursor(member) == nil {
		t.Fatal("no active cursor after StartEditing")
	}
	if f.host.HandlerCount(host.KeyDown) != 1 || f.host.HandlerCount(host.PointerUp) != 1 {
		t.Error("host handlers not subscribed")
	}
	if f.host.FocusCount() != 1 {
		t.Errorf("FocusCount() = %d, want 1", f.host.FocusCount())
	}
	wantPanic(t, "second StartEditing", f.c.StartEditing)

	f.forget()
	f.c.EndEditing()
	f.wantOps(ops.RemoveCursor{Member: member})
	if f.c.IsActive() || f.doc.Cursor(member) != nil {
		t.Error("cursor kept after EndEditing")
	}
	for _, typ := range host.EventTypes {
		if n := f.host.HandlerCount(typ); n != 0 {
			t.Errorf("%s still has %d handlers", typ, n)
		}
	}
	wantPanic(t, "EndEditing while inactive", f.c.EndEditing)
}

func TestBackspaceAndDelete(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello")...).start()

	f.moveTo(5, 0)
	f.pressKey(key.KeyBackspace, 0)
	f.wantOps(ops.RemoveText{Member: member, Position: 4, Length: 1})
	f.wantText("Hell")

	f.moveTo(0, 0)
	if !f.pressKey(key.KeyBackspace, 0) {
		t.Error("backspace at the document start was not consumed")
	}
	f.wantOps()
	f.wantText("Hell")

	f.moveTo(4, 0)
	if f.pressKey(key.KeyDelete, 0) {
		t.Error("delete at the document end was handled")
	}
	f.wantOps()

	f.moveTo(0, 0)
	f.pressKey(key.KeyDelete, 0)
	f.wantOps(ops.RemoveText{Member: member, Position: 0, Length: 1})
	f.wantText("ell")
}

func TestBackspaceWithoutPreviousStep(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		position int
	}{
		{"document start", "Hello", 0},
		{"empty document", "", 0},
		{"start of an empty first line", "\nab", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, odt.Lines(tt.text)...).start()
			want := f.doc.PlainText()
			f.moveTo(tt.position, 0)
			if !f.pressKey(key.KeyBackspace, 0) {
				t.Error("backspace not consumed")
			}
			f.wantOps()
			f.wantText(want)
		})
	}
}

func TestRemovalPrefersSelection(t *testing.T) {
	tests := []struct {
		name string
		key  key.Key
	}{
		{"backspace", key.KeyBackspace},
		{"delete", key.KeyDelete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, odt.Lines("Hello")...).start()
			f.moveTo(4, -3)
			f.pressKey(tt.key, 0)
			f.wantOps(ops.RemoveText{Member: member, Position: 1, Length: 3})
			f.wantText("Ho")
		})
	}
}

func TestTyping(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello")...).start()
	f.typeText("ab")
	f.wantOps(
		ops.InsertText{Member: member, Position: 0, Text: "a", MoveCursor: true},
		ops.InsertText{Member: member, Position: 1, Text: "b", MoveCursor: true},
	)
	f.wantText("abHello")

	f.forget()
	f.press(key.NewRuneEvent('q', key.ModCtrl))
	f.wantOps()

	f.moveTo(2, 3)
	f.typeText("X")
	f.wantOps(
		ops.RemoveText{Member: member, Position: 2, Length: 3},
		ops.InsertText{Member: member, Position: 2, Text: "X", MoveCursor: true},
	)
	f.wantText("abXlo")

	f.forget()
	f.pressKey(key.KeyTab, 0)
	f.pressKey(key.KeyEnter, 0)
	f.wantOps(
		ops.InsertText{Member: member, Position: 3, Text: "\t", MoveCursor: true},
		ops.SplitParagraph{Member: member, Position: 4, MoveCursor: true},
	)
	f.wantText("abX\t\nlo")
}

func TestKeyboardMovement(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello\nworld")...).start()

	f.pressKey(key.KeyRight, 0)
	f.pressKey(key.KeyRight, 0)
	f.wantSelection(2, 0)
	f.pressKey(key.KeyLeft, 0)
	f.wantSelection(1, 0)

	f.pressKey(key.KeyRight, key.ModShift)
	f.pressKey(key.KeyRight, key.ModShift)
	f.wantSelection(1, 2)
	f.pressKey(key.KeyLeft, 0)
	f.wantSelection(2, 0)

	f.pressKey(key.KeyEnd, key.ModCtrl)
	f.wantSelection(11, 0)
	f.pressKey(key.KeyHome, key.ModCtrl|key.ModShift)
	f.wantSelection(11, -11)
	f.pressKey(key.KeyEnd, key.ModCtrl|key.ModShift)
	f.wantSelection(11, 0)
	f.pressKey(key.KeyHome, key.ModCtrl)
	f.wantSelection(0, 0)

	f.press(key.NewRuneEvent('a', key.ModCtrl))
	f.wantSelection(0, 11)
}

func TestArrowsStayOutOfAnnotations(t *testing.T) {
	f := newFixture(t, odt.Paragraph(
		odt.Text("ab"),
		odt.Annotation(odt.Paragraph(odt.Text("note"))),
		odt.Text("cd"),
	)).start()
	f.moveTo(1, 0)
	f.pressKey(key.KeyRight, 0)
	f.wantOps(ops.MoveCursor{Member: member, Position: 7})
}

func TestParagraphSelection(t *testing.T) {
	f := newFixture(t, odt.Lines("one\ntwo\nthree")...).start()

	f.moveTo(5, 0)
	f.pressKey(key.KeyDown, key.ModCtrl|key.ModShift)
	f.wantSelection(5, 2)

	f.moveTo(7, 0)
	f.pressKey(key.KeyDown, key.ModCtrl|key.ModShift)
	f.wantSelection(7, 6)

	f.moveTo(5, 0)
	f.pressKey(key.KeyUp, key.ModCtrl|key.ModShift)
	f.wantSelection(5, -1)

	f.moveTo(4, 0)
	f.pressKey(key.KeyUp, key.ModCtrl|key.ModShift)
	f.wantSelection(4, -4)
}

func TestPaste(t *testing.T) {
	f := newFixture(t, odt.Lines("XY")...).start()
	handled := f.host.Dispatch(&host.Event{Type: host.Paste, ClipboardText: "ab\r\ncd"})
	if !handled {
		t.Fatal("paste not handled")
	}
	f.wantOps(
		ops.InsertText{Member: member, Position: 0, Text: "ab", MoveCursor: true},
		ops.SplitParagraph{Member: member, Position: 2, MoveCursor: true},
		ops.InsertText{Member: member, Position: 3, Text: "cd", MoveCursor: true},
	)
	f.wantText("ab\ncdXY")
	f.wantSelection(5, 0)

	f.forget()
	if f.host.Dispatch(&host.Event{Type: host.Paste}) {
		t.Error("empty paste handled")
	}
	if f.host.Dispatch(&host.Event{Type: host.BeforePaste}) {
		t.Error("before-paste disabled pasting")
	}
	f.wantOps()
}

func TestPasteOnlyCarriageReturns(t *testing.T) {
	for _, text := range []string{"\r", "\r\r"} {
		f := newFixture(t, odt.Lines("Hello")...).start()
		f.moveTo(1, 2)
		if f.host.Dispatch(&host.Event{Type: host.Paste, ClipboardText: text}) {
			t.Errorf("paste of %q handled", text)
		}
		f.wantOps()
		f.wantText("Hello")
		f.wantSelection(1, 2)
	}
}

func TestPasteReplacesSelection(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello")...).start()
	f.moveTo(1, 3)
	f.host.Dispatch(&host.Event{Type: host.Paste, ClipboardText: "i"})
	f.wantOps(
		ops.RemoveText{Member: member, Position: 1, Length: 3},
		ops.InsertText{Member: member, Position: 1, Text: "i", MoveCursor: true},
	)
	f.wantText("Hio")
}

func TestCutAndCopy(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello")...).start()

	if !f.host.Dispatch(&host.Event{Type: host.BeforeCut}) {
		t.Error("before-cut allowed cutting a collapsed selection")
	}
	if f.host.Dispatch(&host.Event{Type: host.Cut}) || f.host.Dispatch(&host.Event{Type: host.Copy}) {
		t.Error("cut or copy of a collapsed selection was handled")
	}
	f.wantOps()

	f.moveTo(1, 3)
	if f.host.Dispatch(&host.Event{Type: host.BeforeCut}) {
		t.Error("before-cut disabled cutting a selection")
	}
	if !f.host.Dispatch(&host.Event{Type: host.Copy}) {
		t.Fatal("copy not handled")
	}
	if got, _ := f.host.MemoryClipboard().Text(); got != "ell" {
		t.Errorf("clipboard after copy = %q, want ell", got)
	}
	f.wantOps()

	f.host.MemoryClipboard().Err = errors.New("clipboard denied")
	if f.host.Dispatch(&host.Event{Type: host.Cut}) {
		t.Error("failed cut was handled")
	}
	f.wantOps()
	f.wantText("Hello")

	f.host.MemoryClipboard().Err = nil
	f.moveTo(4, -4)
	if !f.host.Dispatch(&host.Event{Type: host.Cut}) {
		t.Fatal("cut not handled")
	}
	f.wantOps(ops.RemoveText{Member: member, Position: 0, Length: 4})
	f.wantText("o")
	if got, _ := f.host.MemoryClipboard().Text(); got != "Hell" {
		t.Errorf("clipboard after cut = %q, want Hell", got)
	}
}

func TestUndoRedo(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello")...)
	f.c.SetUndoManager(undo.NewTrivialManager())
	var changes int
	if _, err := f.doc.Subscribe(odt.SignalUndoStackChanged, func(any) { changes++ }); err != nil {
		t.Fatal(err)
	}
	f.start()

	f.press(key.NewRuneEvent('z', key.ModCtrl))
	f.wantText("Hello")
	f.typeText("ab")
	f.wantText("abHello")

	f.press(key.NewRuneEvent('z', key.ModCtrl))
	f.wantText("Hello")
	f.wantSelection(0, 0)
	sel, ok := f.host.Selection()
	if want, _ := f.doc.LocationAt(0); !ok || sel.Focus != want {
		t.Errorf("host selection after undo = %+v, want focus %v", sel, want)
	}

	f.press(key.NewRuneEvent('z', key.ModCtrl|key.ModShift))
	f.wantText("abHello")
	f.wantSelection(2, 0)
	if changes == 0 {
		t.Error("undo stack changes were not forwarded to the document")
	}

	f.c.Destroy(nil)
	if f.c.UndoManager() != nil || f.c.IsActive() {
		t.Error("Destroy kept the controller attached")
	}
}

func TestUndoWithoutManager(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello")...).start()
	if f.press(key.NewRuneEvent('z', key.ModCtrl)) {
		t.Error("undo handled without a manager")
	}
}

func TestToggleBold(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello")...).start()
	f.press(key.NewRuneEvent('b', key.ModCtrl))
	f.wantOps()

	f.moveTo(0, 2)
	f.press(key.NewRuneEvent('b', key.ModCtrl))
	got := f.enqueued()
	if len(got) != 1 {
		t.Fatalf("enqueued %v, want one styling op", got)
	}
	op, ok := got[0].(ops.ApplyDirectStyling)
	if !ok || op.Position != 0 || op.Length != 2 || op.Properties[odt.PropFontWeight] != "bold" {
		t.Fatalf("op = %s", ops.Describe(got[0]))
	}
	if !f.doc.IsBold(member) {
		t.Fatal("selection not bold after toggling")
	}

	f.forget()
	f.press(key.NewRuneEvent('b', key.ModCtrl))
	op = f.enqueued()[0].(ops.ApplyDirectStyling)
	if op.Properties[odt.PropFontWeight] != "normal" {
		t.Errorf("second toggle set %q", op.Properties[odt.PropFontWeight])
	}
}

func TestMaintainCursorSelection(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello")...).start()
	f.moveTo(1, 2)
	sel, ok := f.host.Selection()
	if !ok {
		t.Fatal("no host selection")
	}
	anchor, _ := f.doc.LocationAt(1)
	focus, _ := f.doc.LocationAt(3)
	if sel.Anchor != anchor || sel.Focus != focus {
		t.Errorf("host selection = %+v, want %v..%v", sel, anchor, focus)
	}
}

func TestSingleClickSelectsCaret(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello world")...).start()
	text := f.findText("Hello world")
	f.host.ClearSelection()
	f.host.SetCaretFunc(func(x, _ int) (dom.Location, bool) {
		return dom.Location{Node: text, Offset: x}, true
	})

	f.host.Dispatch(&host.Event{Type: host.PointerDown, Target: text})
	f.host.Dispatch(&host.Event{Type: host.PointerUp, Target: text, X: 3, Clicks: mouse.ClickSingle})
	f.host.Dispatch(&host.Event{Type: host.PointerDown, Target: text})
	f.host.Dispatch(&host.Event{Type: host.PointerUp, Target: text, X: 6, Clicks: mouse.ClickSingle})
	f.wantOps()

	f.host.Queue().RunPending()
	f.wantOps(ops.MoveCursor{Member: member, Position: 6})
}

func TestClickOutsideCanvas(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello")...).start()
	chrome := f.findText("docedit")
	f.click(chrome, mouse.ClickTriple)
	f.host.Queue().RunPending()
	f.wantOps()
}

func TestHostSelectionResolution(t *testing.T) {
	type nodes struct{ marker, tail, chrome dom.NodeID }
	tests := []struct {
		name string
		sel  func(n nodes) host.Selection
		want []ops.Operation
	}{
		{
			name: "anchor in marker",
			sel: func(n nodes) host.Selection {
				return host.Selection{Anchor: dom.Location{Node: n.marker}, Focus: dom.Location{Node: n.tail, Offset: 2}}
			},
			want: []ops.Operation{ops.MoveCursor{Member: member, Position: 3, Length: 2}},
		},
		{
			name: "anchor outside canvas",
			sel: func(n nodes) host.Selection {
				return host.Selection{Anchor: dom.Location{Node: n.chrome}, Focus: dom.Location{Node: n.tail, Offset: 4}}
			},
			want: []ops.Operation{ops.MoveCursor{Member: member, Position: 7}},
		},
		{
			name: "both ends outside canvas",
			sel: func(n nodes) host.Selection {
				return host.Selection{Anchor: dom.Location{Node: n.chrome}, Focus: dom.Location{Node: n.chrome, Offset: 1}}
			},
		},
		{
			name: "same as cursor",
			sel: func(n nodes) host.Selection {
				return host.Selection{Anchor: dom.Location{Node: n.tail}, Focus: dom.Location{Node: n.tail}}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, odt.Lines("Hello world")...).start()
			f.moveTo(3, 0)
			n := nodes{
				marker: f.doc.Cursor(member).Node(),
				tail:   f.findText("lo world"),
				chrome: f.findText("docedit"),
			}
			f.host.SetSelection(tt.sel(n))
			f.host.Dispatch(&host.Event{Type: host.ContextMenu, Target: n.tail})
			f.wantOps()
			f.host.Queue().RunPending()
			f.wantOps(tt.want...)
		})
	}
}

func TestDoubleAndTripleClick(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello world\nnext")...).start()
	f.moveTo(8, 0)
	target := f.doc.Cursor(member).Node()

	f.click(target, mouse.ClickDouble)
	f.wantOps(ops.MoveCursor{Member: member, Position: 6, Length: 5})

	f.moveTo(3, 0)
	f.click(f.doc.Cursor(member).Node(), mouse.ClickTriple)
	f.wantOps(ops.MoveCursor{Member: member, Position: 0, Length: 11})
}

func TestDoubleClickWordAcrossSpans(t *testing.T) {
	bold := map[string]string{odt.PropFontWeight: "bold"}
	tests := []struct {
		name    string
		content odt.Content
		cursor  int
		want    ops.MoveCursor
	}{
		{
			"word continues into span",
			odt.Paragraph(odt.Text("He"), odt.Span(bold, odt.Text("llo")), odt.Text(" x")),
			1,
			ops.MoveCursor{Member: member, Position: 0, Length: 5},
		},
		{
			"word starts in span",
			odt.Paragraph(odt.Text("a "), odt.Span(bold, odt.Text("wor")), odt.Text("ds")),
			5,
			ops.MoveCursor{Member: member, Position: 2, Length: 5},
		},
		{
			"adjacent spans",
			odt.Paragraph(odt.Span(bold, odt.Text("ab")), odt.Span(nil, odt.Text("cd"))),
			3,
			ops.MoveCursor{Member: member, Position: 0, Length: 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.content).start()
			f.moveTo(tt.cursor, 0)
			f.click(f.doc.Cursor(member).Node(), mouse.ClickDouble)
			f.wantOps(tt.want)
		})
	}
}

func TestRemoveAnnotationButton(t *testing.T) {
	f := newFixture(t, odt.Paragraph(
		odt.Text("ab"),
		odt.Annotation(odt.Paragraph(odt.Text("note"))),
		odt.Text("cd"),
	)).start()
	button := f.find(func(n dom.NodeID) bool {
		return f.doc.Tree().IsElement(n) && f.doc.Tree().Name(n) == odt.ElementButton
	})

	if !f.host.Dispatch(&host.Event{Type: host.PointerUp, Target: button, Clicks: mouse.ClickSingle}) {
		t.Fatal("remove button click not handled")
	}
	f.wantOps(ops.RemoveAnnotation{Member: member, Position: 2, Length: 5})
	if f.host.Queue().Len() != 0 {
		t.Error("remove button click also scheduled a selection read")
	}
}

func TestApplyBindings(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello")...).start()
	ctrlJ := key.NewRuneEvent('j', key.ModCtrl)

	err := f.c.ApplyBindings([]keymap.Binding{{Keys: "Ctrl+J", Action: keymap.ActionSplitParagraph}})
	if err != nil {
		t.Fatal(err)
	}
	f.press(ctrlJ)
	f.wantOps(ops.SplitParagraph{Member: member, Position: 0, MoveCursor: true})

	if err := f.c.ApplyBindings(nil); err != nil {
		t.Fatal(err)
	}
	f.forget()
	f.press(ctrlJ)
	f.wantOps()

	if err := f.c.ApplyBindings([]keymap.Binding{{Keys: "Ctrl+Bogus", Action: keymap.ActionUndo}}); err == nil {
		t.Error("invalid binding accepted")
	}
}

func TestRegisterAction(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello")...)
	var ran int
	f.c.RegisterAction("custom.count", func() bool { ran++; return true })
	if !f.c.Run("custom.count") || ran != 1 {
		t.Errorf("custom action ran %d times", ran)
	}
	if f.c.Run("custom.missing") {
		t.Error("unknown action reported handled")
	}
}

func TestEditingAPI(t *testing.T) {
	f := newFixture(t, odt.Lines("Hello\nworld")...).start()

	f.c.Select(6, 5)
	if pos, length := f.c.Selection(); pos != 6 || length != 5 {
		t.Errorf("Selection() = %d, %d; want 6, 5", pos, length)
	}
	if got := f.c.SelectedText(); got != "world" {
		t.Errorf("SelectedText() = %q", got)
	}

	f.forget()
	f.c.InsertText("")
	f.wantOps()
	f.c.InsertText("there")
	if got := f.c.Text(); got != "Hello\nthere" {
		t.Errorf("Text() = %q", got)
	}
}
