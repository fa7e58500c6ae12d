// Package undo implements undo and redo by replaying operations.
//
// The manager keeps a snapshot of the document taken when editing starts
// and the operations executed since, grouped into states. Moving backward
// or forward restores the snapshot and replays the operations of every
// state that remains done, through the same playback path used for live
// editing.
package undo

import (
	"sync"
	"time"

	"github.com/dshills/docedit/internal/event"
	"github.com/dshills/docedit/internal/logging"
	"github.com/dshills/docedit/internal/odt"
	"github.com/dshills/docedit/internal/ops"
)

// SignalUndoStackChanged is emitted with a StackState whenever the undo
// or redo stack changes.
const SignalUndoStackChanged event.Topic = "undo/changed"

// DefaultMaxStates is the number of undo states kept when none is set.
const DefaultMaxStates = 1000

// Document is the document whose states are saved and restored.
type Document interface {
	Snapshot() *odt.Snapshot
	Restore(s *odt.Snapshot)
}

// PlaybackFunc re-applies one operation to the document.
type PlaybackFunc func(op ops.Operation) error

// StackState describes the stacks after a change.
type StackState struct {
	UndoStates int
	RedoStates int
}

// Manager is the contract the session controller uses.
type Manager interface {
	SetDocument(doc Document)
	SetPlaybackFunction(fn PlaybackFunc)
	SaveInitialState()
	ResetInitialState()
	OnOperationExecuted(op ops.Operation)
	MoveBackward(n int) int
	MoveForward(n int) int
	HasUndoStates() bool
	HasRedoStates() bool
	Subscribe(topic event.Topic, h event.Handler) (*event.Subscription, error)
	Unsubscribe(sub *event.Subscription) error
}

type state struct {
	ops     []ops.Operation
	hasEdit bool
	started time.Time
}

func (s *state) lastIsEdit() bool {
	return len(s.ops) > 0 && s.ops[len(s.ops)-1].Kind().IsEdit()
}

// Option configures a TrivialManager.
type Option func(*TrivialManager)

// WithMaxStates caps the number of undo states.
func WithMaxStates(n int) Option {
	return func(m *TrivialManager) {
		if n > 0 {
			m.maxStates = n
		}
	}
}

// WithLogger sets the manager logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *TrivialManager) {
		m.log = l
	}
}

// TrivialManager groups consecutive edits into undo states and undoes by
// replay.
//
// An edit operation opens a new state once the current state holds an
// edit and has since seen a cursor-only operation, so a run of typing is
// one state. Cursor operations join the current state. States without
// edits cannot be undone on their own.
type TrivialManager struct {
	mu        sync.Mutex
	doc       Document
	playback  PlaybackFunc
	initial   *odt.Snapshot
	done      []*state
	undone    []*state
	maxStates int

	bus *event.Bus
	log *logging.Logger
}

// NewTrivialManager creates a manager without a document.
func NewTrivialManager(opts ...Option) *TrivialManager {
	m := &TrivialManager{
		maxStates: DefaultMaxStates,
		bus:       event.NewBus(),
		log:       logging.Null,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.WithComponent("undo")
	return m
}

// SetDocument sets the document to snapshot and restore.
func (m *TrivialManager) SetDocument(doc Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc
}

// SetPlaybackFunction sets how operations are re-applied.
func (m *TrivialManager) SetPlaybackFunction(fn PlaybackFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playback = fn
}

// Subscribe registers h for SignalUndoStackChanged.
func (m *TrivialManager) Subscribe(topic event.Topic, h event.Handler) (*event.Subscription, error) {
	return m.bus.Subscribe(topic, h)
}

// Unsubscribe removes a subscription.
func (m *TrivialManager) Unsubscribe(sub *event.Subscription) error {
	return m.bus.Unsubscribe(sub)
}

// SaveInitialState snapshots the document and clears both stacks.
func (m *TrivialManager) SaveInitialState() {
	m.mu.Lock()
	if m.doc == nil {
		m.mu.Unlock()
		m.log.Warn("cannot save initial state: %v", ErrNoDocument)
		return
	}
	m.initial = m.doc.Snapshot()
	m.done, m.undone = nil, nil
	st := m.stateLocked()
	m.mu.Unlock()
	m.bus.Emit(SignalUndoStackChanged, st)
}

// ResetInitialState drops the snapshot and both stacks.
func (m *TrivialManager) ResetInitialState() {
	m.mu.Lock()
	m.initial = nil
	m.done, m.undone = nil, nil
	st := m.stateLocked()
	m.mu.Unlock()
	m.bus.Emit(SignalUndoStackChanged, st)
}

// OnOperationExecuted records an executed operation. Operations arriving
// before SaveInitialState are ignored.
func (m *TrivialManager) OnOperationExecuted(op ops.Operation) {
	m.mu.Lock()
	if m.initial == nil {
		m.mu.Unlock()
		return
	}
	edit := op.Kind().IsEdit()
	cur := m.currentLocked()
	if cur == nil || (edit && cur.hasEdit && !cur.lastIsEdit()) {
		cur = &state{started: time.Now()}
		m.done = append(m.done, cur)
	}
	cur.ops = append(cur.ops, op)
	changed := false
	if edit {
		changed = !cur.hasEdit || len(m.undone) > 0
		cur.hasEdit = true
		m.undone = nil
	}
	m.trimLocked()
	st := m.stateLocked()
	m.mu.Unlock()
	if changed {
		m.bus.Emit(SignalUndoStackChanged, st)
	}
}

func (m *TrivialManager) currentLocked() *state {
	if len(m.done) == 0 {
		return nil
	}
	return m.done[len(m.done)-1]
}

// MoveBackward undoes up to n states and returns how many were undone.
func (m *TrivialManager) MoveBackward(n int) int {
	m.mu.Lock()
	moved := 0
	for moved < n && len(m.done) > 0 && m.done[len(m.done)-1].hasEdit {
		last := m.done[len(m.done)-1]
		m.done = m.done[:len(m.done)-1]
		m.undone = append(m.undone, last)
		moved++
	}
	if moved > 0 {
		m.replayLocked()
	}
	st := m.stateLocked()
	m.mu.Unlock()
	if moved > 0 {
		m.bus.Emit(SignalUndoStackChanged, st)
	}
	return moved
}

// MoveForward redoes up to n states and returns how many were redone.
func (m *TrivialManager) MoveForward(n int) int {
	m.mu.Lock()
	moved := 0
	for moved < n && len(m.undone) > 0 {
		next := m.undone[len(m.undone)-1]
		m.undone = m.undone[:len(m.undone)-1]
		m.done = append(m.done, next)
		moved++
	}
	if moved > 0 {
		m.replayLocked()
	}
	st := m.stateLocked()
	m.mu.Unlock()
	if moved > 0 {
		m.bus.Emit(SignalUndoStackChanged, st)
	}
	return moved
}

// replayLocked restores the snapshot and re-applies every done state.
func (m *TrivialManager) replayLocked() {
	if m.doc == nil || m.initial == nil {
		m.log.Warn("cannot replay: %v", ErrNoDocument)
		return
	}
	if m.playback == nil {
		m.log.Warn("cannot replay: %v", ErrNoPlayback)
		return
	}
	m.doc.Restore(m.initial)
	for _, s := range m.done {
		m.playLocked(s)
	}
}

func (m *TrivialManager) playLocked(s *state) {
	for _, op := range s.ops {
		if err := m.playback(op); err != nil {
			m.log.Error("replay of %s failed: %v", ops.Describe(op), err)
		}
	}
}

// trimLocked folds the oldest states into the snapshot once there are
// more than maxStates.
func (m *TrivialManager) trimLocked() {
	excess := len(m.done) - m.maxStates
	if excess <= 0 || m.doc == nil || m.playback == nil {
		return
	}
	m.doc.Restore(m.initial)
	for _, s := range m.done[:excess] {
		m.playLocked(s)
	}
	m.initial = m.doc.Snapshot()
	m.done = append(m.done[:0:0], m.done[excess:]...)
	for _, s := range m.done {
		m.playLocked(s)
	}
}

// HasUndoStates reports whether MoveBackward can undo anything.
func (m *TrivialManager) HasUndoStates() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.undoCountLocked() > 0
}

// HasRedoStates reports whether MoveForward can redo anything.
func (m *TrivialManager) HasRedoStates() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undone) > 0
}

func (m *TrivialManager) undoCountLocked() int {
	n := 0
	for _, s := range m.done {
		if s.hasEdit {
			n++
		}
	}
	return n
}

func (m *TrivialManager) stateLocked() StackState {
	return StackState{UndoStates: m.undoCountLocked(), RedoStates: len(m.undone)}
}
