package event

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Bus delivers signals synchronously to subscribed handlers.
type Bus struct {
	registry *Registry
	seq      atomic.Uint64
	emitted  atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{registry: NewRegistry()}
}

// Subscribe registers handler for t.
func (b *Bus) Subscribe(t Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if t == "" {
		return nil, ErrInvalidTopic
	}
	sub := newSubscription(uuid.NewString(), t, handler, b.seq.Add(1), opts...)
	b.registry.Add(sub)
	return sub, nil
}

// Unsubscribe cancels and removes sub.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}
	sub.Cancel()
	if !b.registry.Remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Emit delivers payload to every active subscriber of t and returns once
// all of them have run. Subscriptions cancelled by an earlier handler of
// the same emission are skipped; subscriptions added during it are not
// called until the next one.
func (b *Bus) Emit(t Topic, payload any) {
	b.emitted.Add(1)
	for _, sub := range b.registry.Match(t) {
		if !sub.IsActive() {
			continue
		}
		if sub.config.Once {
			sub.Cancel()
			b.registry.Remove(sub.ID())
		}
		sub.handler(payload)
	}
}

// SubscriberCount returns the number of subscriptions of t.
func (b *Bus) SubscriberCount(t Topic) int {
	return b.registry.CountByTopic(t)
}

// Emitted returns how many signals the bus has emitted.
func (b *Bus) Emitted() uint64 {
	return b.emitted.Load()
}

// Close removes every subscription.
func (b *Bus) Close() {
	b.registry.Clear()
}

// SubscribeTyped registers a handler for payloads of type T. Payloads of
// any other type are not delivered to it.
func SubscribeTyped[T any](b *Bus, t Topic, fn func(T), opts ...SubscriptionOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(t, func(payload any) {
		if v, ok := payload.(T); ok {
			fn(v)
		}
	}, opts...)
}
