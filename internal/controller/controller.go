// Package controller turns host input into document operations.
//
// A SessionController edits a document on behalf of one member. While
// active it listens to the host's key, pointer and clipboard channels,
// maps each event to an intent and enqueues the operations that carry the
// intent out. It never mutates the document itself: every change goes
// through the session, and the controller learns about applied changes
// from the document's operation/executed signal.
//
// Positions are steps of the document's canonical filter. Keyboard
// movement additionally respects the member's editing root, so the caret
// never leaves or enters an annotation by arrow keys.
package controller

import (
	"github.com/dshills/docedit/internal/event"
	"github.com/dshills/docedit/internal/filter"
	"github.com/dshills/docedit/internal/host"
	"github.com/dshills/docedit/internal/input/keymap"
	"github.com/dshills/docedit/internal/logging"
	"github.com/dshills/docedit/internal/odt"
	"github.com/dshills/docedit/internal/ops"
	"github.com/dshills/docedit/internal/session"
	"github.com/dshills/docedit/internal/undo"
)

// Filter names in the keyboard movement chain.
const (
	BaseFilterName = "BaseFilter"
	RootFilterName = "RootFilter"
)

// userKeymapName is the keymap configured bindings are registered under.
const userKeymapName = "user"

// Action is an intent. It reports whether the triggering event was
// consumed.
type Action func() bool

// Option configures a SessionController.
type Option func(*SessionController)

// WithLogger sets the controller logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *SessionController) {
		c.log = l
	}
}

// WithKeymap sets the binding registry. Without it the defaults for the
// detected platform are used.
func WithKeymap(r *keymap.Registry) Option {
	return func(c *SessionController) {
		c.keymap = r
	}
}

// WithPlatform selects the default binding tables.
func WithPlatform(p keymap.Platform) Option {
	return func(c *SessionController) {
		c.platform = p
	}
}

// SessionController edits a document for one member.
type SessionController struct {
	session session.Session
	doc     Document
	host    host.Host
	member  string

	keymap   *keymap.Registry
	platform keymap.Platform
	actions  map[string]Action

	baseFilter     filter.Filter
	keyboardFilter *filter.Chain
	pasteboard     *Pasteboard

	undo    undo.Manager
	undoSub *event.Subscription

	active        bool
	unsubscribers []host.Unsubscribe
	opSub         *event.Subscription

	clickStartedInCanvas bool
	cancelPending        func()

	log *logging.Logger
}

// New creates an inactive controller for member.
func New(s session.Session, doc Document, h host.Host, member string, opts ...Option) *SessionController {
	c := &SessionController{
		session:  s,
		doc:      doc,
		host:     h,
		member:   member,
		platform: keymap.DetectPlatform(),
		log:      logging.Null,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("controller").WithField("member", member)

	if c.keymap == nil {
		c.keymap = keymap.NewRegistry(c.platform)
		if err := keymap.LoadDefaults(c.keymap); err != nil {
			c.log.Error("loading default keymaps: %v", err)
		}
	}

	c.baseFilter = doc.PositionFilter()
	c.keyboardFilter = filter.NewChain()
	c.keyboardFilter.AddFilter(BaseFilterName, c.baseFilter)
	c.keyboardFilter.AddFilter(RootFilterName, doc.CreateRootFilter(member))
	c.pasteboard = NewPasteboard(doc, member)

	c.actions = c.defaultActions()
	return c
}

func (c *SessionController) defaultActions() map[string]Action {
	return map[string]Action{
		keymap.ActionMoveLeft:          c.moveCursorToLeft,
		keymap.ActionMoveRight:         c.moveCursorToRight,
		keymap.ActionMoveUp:            c.moveCursorUp,
		keymap.ActionMoveDown:          c.moveCursorDown,
		keymap.ActionMoveLineStart:     c.moveCursorToLineStart,
		keymap.ActionMoveLineEnd:       c.moveCursorToLineEnd,
		keymap.ActionMoveDocumentStart: c.moveCursorToDocumentStart,
		keymap.ActionMoveDocumentEnd:   c.moveCursorToDocumentEnd,

		keymap.ActionExtendLeft:           c.extendSelectionToLeft,
		keymap.ActionExtendRight:          c.extendSelectionToRight,
		keymap.ActionExtendUp:             c.extendSelectionUp,
		keymap.ActionExtendDown:           c.extendSelectionDown,
		keymap.ActionExtendLineStart:      c.extendSelectionToLineStart,
		keymap.ActionExtendLineEnd:        c.extendSelectionToLineEnd,
		keymap.ActionExtendParagraphStart: c.extendSelectionToParagraphStart,
		keymap.ActionExtendParagraphEnd:   c.extendSelectionToParagraphEnd,
		keymap.ActionExtendDocumentStart:  c.extendSelectionToDocumentStart,
		keymap.ActionExtendDocumentEnd:    c.extendSelectionToDocumentEnd,
		keymap.ActionSelectAll:            c.extendSelectionToEntireDocument,

		keymap.ActionBackspace:      c.removeTextByBackspaceKey,
		keymap.ActionDelete:         c.removeTextByDeleteKey,
		keymap.ActionClear:          c.removeCurrentSelection,
		keymap.ActionInsertTab:      func() bool { c.insertText("\t"); return true },
		keymap.ActionSplitParagraph: c.enqueueParagraphSplittingOps,

		keymap.ActionToggleBold:      c.toggleBold,
		keymap.ActionToggleItalic:    c.toggleItalic,
		keymap.ActionToggleUnderline: c.toggleUnderline,

		keymap.ActionUndo: c.undoOnce,
		keymap.ActionRedo: c.redoOnce,
	}
}

// MemberID returns the member the controller edits for.
func (c *SessionController) MemberID() string { return c.member }

// Session returns the session operations are enqueued on.
func (c *SessionController) Session() session.Session { return c.session }

// Keymap returns the binding registry.
func (c *SessionController) Keymap() *keymap.Registry { return c.keymap }

// IsActive reports whether StartEditing has been called without a
// matching EndEditing.
func (c *SessionController) IsActive() bool { return c.active }

// RegisterAction adds or replaces the action bound keys resolve to.
func (c *SessionController) RegisterAction(name string, fn Action) {
	c.actions[name] = fn
}

// Run performs the named action and reports whether it handled anything.
// Unknown names are logged and not handled.
func (c *SessionController) Run(name string) bool {
	fn, ok := c.actions[name]
	if !ok {
		c.log.Warn("unknown action %q", name)
		return false
	}
	return fn()
}

// ApplyBindings replaces the configured bindings. An empty list removes
// them.
func (c *SessionController) ApplyBindings(bindings []keymap.Binding) error {
	if len(bindings) == 0 {
		c.keymap.Unregister(userKeymapName)
		return nil
	}
	km, err := keymap.FromBindings(userKeymapName, 10, bindings)
	if err != nil {
		return err
	}
	if err := c.keymap.Register(km); err != nil {
		return err
	}
	c.log.Info("applied %d configured bindings", len(bindings))
	return nil
}

// StartEditing subscribes to host input, adds the member's cursor and
// saves the initial undo state.
func (c *SessionController) StartEditing() {
	assert(!c.active, "StartEditing on an active controller")

	subscribe := func(t host.EventType, h host.Handler) {
		c.unsubscribers = append(c.unsubscribers, c.host.Subscribe(t, h))
	}
	subscribe(host.KeyDown, c.handleKeyDown)
	subscribe(host.KeyPress, c.handleKeyPress)
	subscribe(host.KeyUp, c.handleKeyUp)
	subscribe(host.BeforeCut, c.handleBeforeCut)
	subscribe(host.Cut, c.handleCut)
	subscribe(host.Copy, c.handleCopy)
	subscribe(host.BeforePaste, c.handleBeforePaste)
	subscribe(host.Paste, c.handlePaste)
	subscribe(host.ContextMenu, c.handleContextMenu)
	subscribe(host.PointerDown, c.handlePointerDown)
	subscribe(host.PointerUp, c.handlePointerUp)

	sub, err := c.doc.Subscribe(odt.SignalOperationExecuted, c.onOperationExecuted)
	assert(err == nil, "subscribing to %s: %v", odt.SignalOperationExecuted, err)
	c.opSub = sub

	c.active = true
	c.session.Enqueue(ops.AddCursor{Member: c.member})
	if c.undo != nil {
		c.undo.SaveInitialState()
	}
	c.host.Focus()
	c.log.Debug("editing started")
}

// EndEditing unsubscribes from host input, removes the member's cursor
// and drops the undo history.
func (c *SessionController) EndEditing() {
	assert(c.active, "EndEditing on an inactive controller")

	for _, unsub := range c.unsubscribers {
		unsub()
	}
	c.unsubscribers = nil
	if c.opSub != nil {
		if err := c.doc.Unsubscribe(c.opSub); err != nil {
			c.log.Warn("unsubscribing from %s: %v", odt.SignalOperationExecuted, err)
		}
		c.opSub = nil
	}
	c.cancelPendingSelection()

	c.active = false
	c.session.Enqueue(ops.RemoveCursor{Member: c.member})
	if c.undo != nil {
		c.undo.ResetInitialState()
	}
	c.log.Debug("editing ended")
}

// SetUndoManager attaches m, or detaches the current manager when m is
// nil. The manager replays operations directly on the document, so
// replays emit no operation/executed signals.
func (c *SessionController) SetUndoManager(m undo.Manager) {
	if c.undo != nil && c.undoSub != nil {
		if err := c.undo.Unsubscribe(c.undoSub); err != nil {
			c.log.Warn("unsubscribing from the undo manager: %v", err)
		}
		c.undoSub = nil
	}
	c.undo = m
	if m == nil {
		return
	}
	m.SetDocument(c.doc)
	replay := session.NewRouter(session.DirectPlayback(c.doc))
	m.SetPlaybackFunction(replay.Play)
	sub, err := m.Subscribe(undo.SignalUndoStackChanged, c.forwardUndoStackChange)
	if err != nil {
		c.log.Warn("subscribing to the undo manager: %v", err)
		return
	}
	c.undoSub = sub
}

// UndoManager returns the attached undo manager, or nil.
func (c *SessionController) UndoManager() undo.Manager { return c.undo }

// Destroy ends editing if needed, detaches the undo manager and reports
// completion through callback.
func (c *SessionController) Destroy(callback func(error)) {
	if c.active {
		c.EndEditing()
	}
	c.SetUndoManager(nil)
	if callback != nil {
		callback(nil)
	}
}

func (c *SessionController) forwardUndoStackChange(payload any) {
	c.doc.Emit(odt.SignalUndoStackChanged, payload)
}

func (c *SessionController) onOperationExecuted(payload any) {
	op, ok := payload.(ops.Operation)
	if !ok {
		return
	}
	if c.undo != nil {
		c.undo.OnOperationExecuted(op)
	}
	c.maintainCursorSelection()
}

// maintainCursorSelection mirrors the member's selection into the host.
func (c *SessionController) maintainCursorSelection() {
	if c.doc.Cursor(c.member) == nil {
		return
	}
	sel := c.doc.CursorSelection(c.member)
	anchor, ok := c.doc.LocationAt(sel.Anchor())
	if !ok {
		return
	}
	focus, ok := c.doc.LocationAt(sel.Focus())
	if !ok {
		return
	}
	c.host.SetSelection(host.Selection{Anchor: anchor, Focus: focus})
}

func (c *SessionController) handleKeyDown(e *host.Event) bool {
	b, ok := c.keymap.LookupEvent(e.Key)
	if !ok {
		return false
	}
	c.log.Debug("%s -> %s", e.Key, b.Action)
	return c.Run(b.Action)
}

func (c *SessionController) handleKeyPress(e *host.Event) bool {
	text := e.Key.Text()
	if text == "" {
		return false
	}
	c.insertText(text)
	return true
}

func (c *SessionController) handleKeyUp(*host.Event) bool {
	return false
}
