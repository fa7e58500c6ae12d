// Package session sequences a member's operations onto a document.
//
// A Session accepts operations and eventually applies them to the
// document, announcing each applied operation with the document's
// operation/executed signal. LocalSession is the single-process
// implementation: Enqueue applies the operation synchronously, records it
// in an operation log and emits the signal before returning.
package session

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/docedit/internal/event"
	"github.com/dshills/docedit/internal/logging"
	"github.com/dshills/docedit/internal/odt"
	"github.com/dshills/docedit/internal/ops"
)

// Session accepts operations for execution.
type Session interface {
	Enqueue(op ops.Operation)
}

// Target is a document operations are applied to.
type Target interface {
	ops.Document
	Emit(topic event.Topic, payload any)
}

// Entry is one record of the operation log.
type Entry struct {
	Seq      uint64
	Op       ops.Operation
	Err      error
	Executed time.Time
}

// Option configures a LocalSession.
type Option func(*LocalSession)

// WithLogger sets the session logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *LocalSession) {
		s.log = l
	}
}

// WithLogLimit caps the number of log entries kept. Zero keeps all.
func WithLogLimit(n int) Option {
	return func(s *LocalSession) {
		s.limit = n
	}
}

// LocalSession applies operations to a document in the calling goroutine.
type LocalSession struct {
	id     string
	doc    Target
	router *Router

	mu      sync.RWMutex
	entries []Entry
	seq     uint64
	limit   int
	closed  bool

	metrics *Metrics
	log     *logging.Logger
	journal io.Writer
}

// NewLocal creates a session applying operations to doc.
func NewLocal(doc Target, opts ...Option) *LocalSession {
	s := &LocalSession{
		id:      uuid.NewString(),
		doc:     doc,
		metrics: NewMetrics(),
		log:     logging.Null,
	}
	s.router = NewRouter(DirectPlayback(doc))
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("session").WithField("session", s.id[:8])
	return s
}

// NewMemberID returns a fresh member id.
func NewMemberID() string {
	return "member-" + uuid.NewString()
}

// ID returns the session id.
func (s *LocalSession) ID() string { return s.id }

// Router returns the router operations are applied through.
func (s *LocalSession) Router() *Router { return s.router }

// Metrics returns the execution statistics.
func (s *LocalSession) Metrics() *Metrics { return s.metrics }

// Enqueue applies op and emits odt.SignalOperationExecuted on success.
// Failures are logged and recorded; they never reach the caller.
func (s *LocalSession) Enqueue(op ops.Operation) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		s.log.Warn("dropping %s: %v", ops.Describe(op), ErrClosed)
		return
	}

	start := time.Now()
	err := s.apply(op)
	s.metrics.Record(op.Kind(), time.Since(start), err)
	s.record(op, err)
	if err != nil {
		s.log.Error("operation %s failed: %v", ops.Describe(op), err)
		return
	}
	s.log.Debug("executed %s", ops.Describe(op))
	s.doc.Emit(odt.SignalOperationExecuted, op)
}

func (s *LocalSession) apply(op ops.Operation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.RecordPanic()
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return s.router.Play(op)
}

func (s *LocalSession) record(op ops.Operation, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.entries = append(s.entries, Entry{Seq: s.seq, Op: op, Err: err, Executed: time.Now()})
	if err == nil {
		s.journalLocked(op)
	}
	if s.limit > 0 && len(s.entries) > s.limit {
		s.entries = append(s.entries[:0:0], s.entries[len(s.entries)-s.limit:]...)
	}
}

// Entries returns a copy of the operation log.
func (s *LocalSession) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.entries...)
}

// Applied returns the successfully applied operations in order.
func (s *LocalSession) Applied() []ops.Operation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ops.Operation
	for _, e := range s.entries {
		if e.Err == nil {
			out = append(out, e.Op)
		}
	}
	return out
}

// Close stops the session. Later operations are dropped.
func (s *LocalSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
