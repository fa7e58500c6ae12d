package event

import (
	"sort"
	"sync"
)

// Registry manages subscriptions organized by topic.
// It is safe for concurrent access.
type Registry struct {
	mu   sync.RWMutex
	subs map[Topic][]*Subscription
	byID map[string]*Subscription
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		subs: make(map[Topic][]*Subscription),
		byID: make(map[string]*Subscription),
	}
}

// Add registers a subscription. Subscriptions of a topic are kept in
// priority order, and in registration order within one priority.
func (r *Registry) Add(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := append(r.subs[sub.Topic()], sub)
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].config.Priority != subs[j].config.Priority {
			return subs[i].config.Priority < subs[j].config.Priority
		}
		return subs[i].seq < subs[j].seq
	})
	r.subs[sub.Topic()] = subs
	r.byID[sub.ID()] = sub
}

// Remove removes a subscription by ID. It reports whether one was removed.
func (r *Registry) Remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.byID[subID]
	if !ok {
		return false
	}
	subs := r.subs[sub.Topic()]
	for i, s := range subs {
		if s.ID() == subID {
			r.subs[sub.Topic()] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(r.subs[sub.Topic()]) == 0 {
		delete(r.subs, sub.Topic())
	}
	delete(r.byID, subID)
	return true
}

// Get returns a subscription by ID.
func (r *Registry) Get(subID string) (*Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byID[subID]
	return sub, ok
}

// Match returns the active subscriptions of t in delivery order.
// The returned slice is a copy.
func (r *Registry) Match(t Topic) []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.subs[t]
	if len(subs) == 0 {
		return nil
	}
	out := make([]*Subscription, 0, len(subs))
	for _, s := range subs {
		if s.IsActive() {
			out = append(out, s)
		}
	}
	return out
}

// Count returns the total number of subscriptions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// CountByTopic returns the number of subscriptions of t.
func (r *Registry) CountByTopic(t Topic) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[t])
}

// Clear removes every subscription.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		s.Cancel()
	}
	r.subs = make(map[Topic][]*Subscription)
	r.byID = make(map[string]*Subscription)
}
