// Package terminal runs the editor in a terminal through tcell.
//
// Terminal implements host.Host. Terminal keys, mouse buttons and
// bracketed paste become host events; the document is drawn one
// paragraph per row with the host selection highlighted. Like a browser
// the terminal keeps its own selection: pressing a mouse button places
// it, dragging extends it, and the controller reads it back after the
// event turn.
//
// A Terminal is driven by a single goroutine. Other goroutines hand work
// to it with Post.
package terminal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/host"
	"github.com/dshills/docedit/internal/input/key"
	"github.com/dshills/docedit/internal/input/mouse"
	"github.com/dshills/docedit/internal/logging"
	"github.com/dshills/docedit/internal/odt"
)

// DefaultQuitKey ends Run.
const DefaultQuitKey = "Ctrl+Q"

// Option configures a Terminal.
type Option func(*Terminal)

// WithLogger sets the terminal logger.
func WithLogger(l *logging.Logger) Option {
	return func(t *Terminal) {
		t.log = l
	}
}

// WithQuitKey sets the combination that ends Run.
func WithQuitKey(c key.Combo) Option {
	return func(t *Terminal) {
		t.quit = c
	}
}

// WithClickTracker replaces the click counter.
func WithClickTracker(tr *mouse.Tracker) Option {
	return func(t *Terminal) {
		t.clicks = tr
	}
}

// Terminal is a host drawing a document on a tcell screen.
type Terminal struct {
	host.Dispatcher

	screen tcell.Screen
	doc    *odt.Document
	log    *logging.Logger

	layout *layout
	top    int
	status string

	selection    host.Selection
	hasSel       bool
	anchorStep   int
	focusStep    int
	shownFocus   int
	focusRequest bool

	clicks   *mouse.Tracker
	buttons  tcell.ButtonMask
	clickN   mouse.ClickType
	dragging bool

	pasting bool
	paste   strings.Builder

	clipboard *host.MemoryClipboard
	queue     *host.Queue
	quit      key.Combo
	clipKeys  map[key.Combo]func()
	done      bool
}

// New creates a terminal host for doc on screen. The screen is
// initialized by Init.
func New(screen tcell.Screen, doc *odt.Document, opts ...Option) *Terminal {
	t := &Terminal{
		screen:     screen,
		doc:        doc,
		log:        logging.Null,
		clicks:     mouse.NewTracker(mouse.DefaultClickTime, mouse.DefaultClickDistance),
		clipboard:  &host.MemoryClipboard{},
		queue:      &host.Queue{},
		quit:       key.MustParseCombo(DefaultQuitKey),
		shownFocus: -1,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.WithComponent("terminal")
	t.clipKeys = map[key.Combo]func(){
		key.MustParseCombo("Ctrl+C"): t.copy,
		key.MustParseCombo("Ctrl+X"): t.cut,
		key.MustParseCombo("Ctrl+V"): t.pasteClipboard,
	}
	t.layout = buildLayout(doc)
	return t
}

// Init prepares the screen and enables mouse and bracketed paste.
func (t *Terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	return nil
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}

// SetStatus sets the text of the status row.
func (t *Terminal) SetStatus(text string) {
	t.status = text
}

// QuitKey returns the combination that ends Run.
func (t *Terminal) QuitKey() string { return t.quit.String() }

// Quit makes Run return after the current event.
func (t *Terminal) Quit() {
	t.done = true
}

// Post runs fn on the event loop. It is safe for concurrent use.
func (t *Terminal) Post(fn func()) error {
	return t.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// Run draws the document and handles events until Quit, the quit key or
// ctx ends it.
func (t *Terminal) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			if err := t.Post(t.Quit); err != nil {
				t.log.Warn("posting quit: %v", err)
			}
		case <-stop:
		}
	}()

	t.Draw()
	for !t.done {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		t.HandleEvent(ev)
	}
	return ctx.Err()
}

// HandleEvent translates one tcell event, runs the continuations it
// scheduled and redraws.
func (t *Terminal) HandleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		t.handleKey(e)
	case *tcell.EventMouse:
		t.handleMouse(e)
	case *tcell.EventPaste:
		t.handlePaste(e)
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventInterrupt:
		if fn, ok := e.Data().(func()); ok {
			fn()
		}
	}
	t.queue.RunPending()
	t.Draw()
}

func (t *Terminal) handleKey(ev *tcell.EventKey) {
	if t.pasting {
		t.bufferPaste(ev)
		return
	}
	k, ok := convertKey(ev)
	if !ok {
		return
	}
	combo := k.Combo()
	if combo == t.quit {
		t.Quit()
		return
	}
	handled := t.Dispatch(&host.Event{Type: host.KeyDown, Key: k})
	if !handled {
		if fn, ok := t.clipKeys[combo]; ok {
			fn()
			handled = true
		}
	}
	if !handled && k.IsPrintable() {
		t.Dispatch(&host.Event{Type: host.KeyPress, Key: k})
	}
	t.Dispatch(&host.Event{Type: host.KeyUp, Key: k})
}

func (t *Terminal) copy() {
	t.Dispatch(&host.Event{Type: host.Copy})
}

func (t *Terminal) cut() {
	t.Dispatch(&host.Event{Type: host.BeforeCut})
	t.Dispatch(&host.Event{Type: host.Cut})
}

func (t *Terminal) pasteClipboard() {
	text, err := t.clipboard.Text()
	if err != nil {
		t.log.Warn("reading clipboard: %v", err)
		return
	}
	t.pasteText(text)
}

func (t *Terminal) pasteText(text string) {
	t.Dispatch(&host.Event{Type: host.BeforePaste})
	t.Dispatch(&host.Event{Type: host.Paste, ClipboardText: text})
}

func (t *Terminal) handlePaste(ev *tcell.EventPaste) {
	if ev.Start() {
		t.pasting = true
		t.paste.Reset()
		return
	}
	t.pasting = false
	t.pasteText(t.paste.String())
	t.paste.Reset()
}

func (t *Terminal) bufferPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		t.paste.WriteRune(ev.Rune())
	case tcell.KeyEnter:
		t.paste.WriteByte('\n')
	case tcell.KeyTab:
		t.paste.WriteByte('\t')
	}
}

func (t *Terminal) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	btns := ev.Buttons()
	switch {
	case btns&tcell.WheelUp != 0:
		t.scroll(-1)
		return
	case btns&tcell.WheelDown != 0:
		t.scroll(1)
		return
	}

	held := btns & (tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle)
	pressed := held &^ t.buttons
	released := t.buttons &^ held
	t.buttons = held
	switch {
	case pressed != 0:
		t.pointerDown(x, y, convertButton(pressed), ev.Modifiers()&tcell.ModShift != 0)
	case released != 0:
		t.pointerUp(x, y, convertButton(released))
	case t.dragging:
		t.drag(x, y)
	}
}

func (t *Terminal) pointerDown(x, y int, b mouse.Button, extend bool) {
	t.clickN = t.clicks.Record(mouse.Position{X: x, Y: y}, time.Now())
	if b == mouse.ButtonLeft {
		if loc, ok := t.CaretFromPoint(x, y); ok {
			if extend && t.hasSel {
				t.selectLocations(t.selection.Anchor, loc)
			} else {
				t.selectLocations(loc, loc)
			}
			t.dragging = true
		}
	}
	e := t.pointerEvent(host.PointerDown, x, y, b)
	t.Dispatch(e)
	if b == mouse.ButtonRight {
		menu := *e
		menu.Type = host.ContextMenu
		t.Dispatch(&menu)
	}
}

func (t *Terminal) pointerUp(x, y int, b mouse.Button) {
	if t.dragging {
		t.drag(x, y)
		t.dragging = false
	}
	t.Dispatch(t.pointerEvent(host.PointerUp, x, y, b))
}

func (t *Terminal) drag(x, y int) {
	if loc, ok := t.CaretFromPoint(x, y); ok && t.hasSel {
		t.selectLocations(t.selection.Anchor, loc)
	}
}

func (t *Terminal) pointerEvent(typ host.EventType, x, y int, b mouse.Button) *host.Event {
	return &host.Event{
		Type:   typ,
		X:      x,
		Y:      y,
		Target: t.layout.targetAt(x, y+t.top),
		Button: b,
		Clicks: t.clickN,
	}
}

func (t *Terminal) scroll(delta int) {
	_, h := t.screen.Size()
	limit := max(len(t.layout.rows)-max(h-1, 1), 0)
	t.top = min(max(t.top+delta, 0), limit)
}

// Selection returns the terminal selection.
func (t *Terminal) Selection() (host.Selection, bool) {
	return t.selection, t.hasSel
}

// SetSelection shows sel.
func (t *Terminal) SetSelection(sel host.Selection) {
	t.selectLocations(sel.Anchor, sel.Focus)
}

func (t *Terminal) selectLocations(anchor, focus dom.Location) {
	t.selection = host.Selection{Anchor: anchor, Focus: focus}
	t.hasSel = true
	t.anchorStep = t.stepOf(anchor)
	t.focusStep = t.stepOf(focus)
}

func (t *Terminal) stepOf(loc dom.Location) int {
	if !t.doc.Tree().Valid(loc.Node) {
		return -1
	}
	return t.doc.StepOf(loc.Node, loc.Offset)
}

// ClearSelection removes the terminal selection.
func (t *Terminal) ClearSelection() {
	t.selection, t.hasSel = host.Selection{}, false
}

// CaretFromPoint returns the location under screen position (x, y).
func (t *Terminal) CaretFromPoint(x, y int) (dom.Location, bool) {
	_, h := t.screen.Size()
	if y < 0 || y >= h-1 {
		return dom.Location{}, false
	}
	return t.layout.caretAt(x, y+t.top)
}

// Clipboard returns the in-process clipboard shared by cut, copy and
// paste keys.
func (t *Terminal) Clipboard() host.Clipboard { return t.clipboard }

// Scheduler returns the continuation queue run after every event.
func (t *Terminal) Scheduler() host.Scheduler { return t.queue }

// Focus shows the caret on the next draw.
func (t *Terminal) Focus() {
	t.focusRequest = true
}

// Draw lays the document out again and paints it.
func (t *Terminal) Draw() {
	t.layout = buildLayout(t.doc)
	w, h := t.screen.Size()
	body := max(h-1, 0)

	caretX, caretRow, caretOK := 0, 0, false
	if t.hasSel && t.focusStep >= 0 {
		caretX, caretRow, caretOK = t.layout.caret(t.focusStep)
	}
	if caretOK && t.focusStep != t.shownFocus {
		t.shownFocus = t.focusStep
		switch {
		case caretRow < t.top:
			t.top = caretRow
		case caretRow >= t.top+body:
			t.top = caretRow - body + 1
		}
	}

	t.screen.Clear()
	from, to := t.selectedSteps()
	for y := 0; y < body && t.top+y < len(t.layout.rows); y++ {
		for _, c := range t.layout.rows[t.top+y].cells {
			if c.x >= w {
				break
			}
			style := c.style
			if !c.decoration() && c.step >= from && c.step < to {
				style = style.Reverse(true)
			}
			runes := []rune(c.text)
			t.screen.SetContent(c.x, y, runes[0], runes[1:], style)
		}
	}
	t.drawStatus(w, h-1)

	if caretOK && t.focusRequest && caretRow >= t.top && caretRow < t.top+body {
		t.screen.ShowCursor(caretX, caretRow-t.top)
	} else {
		t.screen.HideCursor()
	}
	t.screen.Show()
}

func (t *Terminal) selectedSteps() (from, to int) {
	if !t.hasSel || t.anchorStep < 0 || t.focusStep < 0 {
		return 0, 0
	}
	return min(t.anchorStep, t.focusStep), max(t.anchorStep, t.focusStep)
}

func (t *Terminal) drawStatus(w, y int) {
	if y < 0 {
		return
	}
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < w; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
	x := 0
	for _, r := range t.status {
		if x >= w {
			break
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

var _ host.Host = (*Terminal)(nil)
