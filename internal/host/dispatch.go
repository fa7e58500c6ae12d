package host

import "sync"

type subscription struct {
	id      uint64
	handler Handler
}

// Dispatcher keeps handler subscriptions per event type. Adapters embed it
// to implement Host.Subscribe.
type Dispatcher struct {
	mu       sync.Mutex
	next     uint64
	handlers map[EventType][]subscription
}

// Subscribe registers h for t.
func (d *Dispatcher) Subscribe(t EventType, h Handler) Unsubscribe {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handlers == nil {
		d.handlers = make(map[EventType][]subscription)
	}
	d.next++
	id := d.next
	d.handlers[t] = append(d.handlers[t], subscription{id: id, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() { d.remove(t, id) })
	}
}

func (d *Dispatcher) remove(t EventType, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	subs := d.handlers[t]
	for i, s := range subs {
		if s.id == id {
			d.handlers[t] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Dispatch runs every handler of e.Type in subscription order and reports
// whether any of them consumed the event.
func (d *Dispatcher) Dispatch(e *Event) bool {
	d.mu.Lock()
	subs := append([]subscription(nil), d.handlers[e.Type]...)
	d.mu.Unlock()

	handled := false
	for _, s := range subs {
		if s.handler(e) {
			handled = true
		}
	}
	return handled
}

// HandlerCount returns the number of handlers subscribed to t.
func (d *Dispatcher) HandlerCount(t EventType) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers[t])
}

// Queue is a Scheduler backed by a FIFO of continuations.
type Queue struct {
	mu      sync.Mutex
	pending []*deferred
}

type deferred struct {
	fn        func()
	cancelled bool
}

// Defer queues fn.
func (q *Queue) Defer(fn func()) func() {
	d := &deferred{fn: fn}
	q.mu.Lock()
	q.pending = append(q.pending, d)
	q.mu.Unlock()
	return func() {
		q.mu.Lock()
		d.cancelled = true
		q.mu.Unlock()
	}
}

// RunPending runs queued continuations until the queue is empty.
func (q *Queue) RunPending() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		d := q.pending[0]
		q.pending = q.pending[1:]
		cancelled := d.cancelled
		q.mu.Unlock()
		if !cancelled {
			d.fn()
		}
	}
}

// Len returns the number of queued continuations, cancelled ones included.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// MemoryClipboard is an in-process clipboard. Setting Err makes every
// write fail with it.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
	Err  error
}

// SetText stores text unless Err is set.
func (c *MemoryClipboard) SetText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.text = text
	return nil
}

// Text returns the stored text.
func (c *MemoryClipboard) Text() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}
