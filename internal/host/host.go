// Package host defines what the editing engine needs from the platform
// it runs on: input events, the host's own text selection, a clipboard and
// a way to run code after the current event turn.
//
// Platform quirks stay in the adapters. The engine sees one subscription
// mechanism and plain values.
package host

import (
	"fmt"

	"github.com/dshills/docedit/internal/dom"
	"github.com/dshills/docedit/internal/input/key"
	"github.com/dshills/docedit/internal/input/mouse"
)

// EventType names an input channel.
type EventType string

const (
	KeyDown     EventType = "keydown"
	KeyPress    EventType = "keypress"
	KeyUp       EventType = "keyup"
	BeforeCut   EventType = "beforecut"
	Cut         EventType = "cut"
	Copy        EventType = "copy"
	BeforePaste EventType = "beforepaste"
	Paste       EventType = "paste"
	ContextMenu EventType = "contextmenu"
	PointerDown EventType = "pointerdown"
	PointerUp   EventType = "pointerup"
)

// EventTypes lists every channel a host delivers.
var EventTypes = []EventType{
	KeyDown, KeyPress, KeyUp,
	BeforeCut, Cut, Copy, BeforePaste, Paste,
	ContextMenu, PointerDown, PointerUp,
}

// Event is one input event. Only the fields of its channel are set.
type Event struct {
	Type EventType

	// Key is set for KeyDown, KeyPress and KeyUp.
	Key key.Event

	// X and Y are the pointer position for pointer and context menu
	// events. Target is the node under the pointer, Clicks the position
	// of the press within a click sequence.
	X, Y   int
	Target dom.NodeID
	Button mouse.Button
	Clicks mouse.ClickType

	// ClipboardText carries the pasted text for Paste.
	ClipboardText string
}

// String describes the event for logs.
func (e *Event) String() string {
	switch e.Type {
	case KeyDown, KeyPress, KeyUp:
		return fmt.Sprintf("%s %s", e.Type, e.Key)
	case PointerDown, PointerUp, ContextMenu:
		return fmt.Sprintf("%s (%d,%d) x%d", e.Type, e.X, e.Y, e.Clicks)
	default:
		return string(e.Type)
	}
}

// Handler handles an event and reports whether it was consumed. A
// consumed event suppresses the host's default action.
type Handler func(e *Event) bool

// Unsubscribe removes a subscription. Calling it again does nothing.
type Unsubscribe func()

// Selection is the host's text selection as two tree locations.
type Selection struct {
	Anchor dom.Location
	Focus  dom.Location
}

// Collapsed reports whether anchor and focus coincide.
func (s Selection) Collapsed() bool {
	return s.Anchor == s.Focus
}

// Clipboard is the system clipboard.
type Clipboard interface {
	// SetText replaces the clipboard content. It fails when the host
	// does not allow clipboard writes.
	SetText(text string) error
	Text() (string, error)
}

// Scheduler runs continuations after the current event turn.
type Scheduler interface {
	// Defer queues fn and returns a function that cancels it if it has
	// not run yet.
	Defer(fn func()) (cancel func())

	// RunPending runs every queued continuation, including ones queued
	// while running.
	RunPending()
}

// Host is the platform the engine runs on.
type Host interface {
	Subscribe(t EventType, h Handler) Unsubscribe

	// Selection returns the host selection, false when there is none.
	Selection() (Selection, bool)

	// SetSelection makes the host show sel.
	SetSelection(sel Selection)

	// CaretFromPoint returns the location under a pointer position.
	CaretFromPoint(x, y int) (dom.Location, bool)

	Clipboard() Clipboard
	Scheduler() Scheduler

	// Focus gives the editing surface input focus.
	Focus()
}
