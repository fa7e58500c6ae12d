package session

import (
	"sync"

	"github.com/dshills/docedit/internal/ops"
)

// Handler applies one operation.
type Handler func(op ops.Operation) error

// DirectPlayback returns a handler executing operations on doc without
// any signal emission.
func DirectPlayback(doc ops.Document) Handler {
	return func(op ops.Operation) error {
		return op.Execute(doc)
	}
}

// Router routes operations to handlers by kind, with a fallback for kinds
// that have no handler of their own.
type Router struct {
	mu       sync.RWMutex
	handlers map[ops.Kind]Handler
	fallback Handler
}

// NewRouter creates a router. fallback may be nil.
func NewRouter(fallback Handler) *Router {
	return &Router{
		handlers: make(map[ops.Kind]Handler),
		fallback: fallback,
	}
}

// Register sets the handler for a kind.
func (r *Router) Register(kind ops.Kind, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = h
}

// Unregister removes the handler for a kind.
func (r *Router) Unregister(kind ops.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, kind)
}

// SetFallback sets the handler for unmatched kinds.
func (r *Router) SetFallback(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

// Route returns the handler for op, or nil.
func (r *Router) Route(op ops.Operation) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.handlers[op.Kind()]; ok {
		return h
	}
	return r.fallback
}

// Play routes and applies op.
func (r *Router) Play(op ops.Operation) error {
	h := r.Route(op)
	if h == nil {
		return ErrNoHandler
	}
	return h(op)
}
