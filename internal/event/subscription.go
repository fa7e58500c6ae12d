package event

import "sync/atomic"

// SubscriptionConfig contains configuration for a subscription.
type SubscriptionConfig struct {
	// Priority determines execution order (lower values execute first).
	Priority Priority

	// Once cancels the subscription after its first delivery.
	Once bool
}

// DefaultSubscriptionConfig returns a default subscription configuration.
func DefaultSubscriptionConfig() SubscriptionConfig {
	return SubscriptionConfig{Priority: PriorityNormal}
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithOnce cancels the subscription after the first delivered signal.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

// Subscription is a registered handler. It is the token passed back to
// Bus.Unsubscribe.
type Subscription struct {
	id        string
	topic     Topic
	handler   Handler
	config    SubscriptionConfig
	seq       uint64
	cancelled atomic.Bool
}

func newSubscription(id string, t Topic, h Handler, seq uint64, opts ...SubscriptionOption) *Subscription {
	config := DefaultSubscriptionConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Subscription{
		id:      id,
		topic:   t,
		handler: h,
		config:  config,
		seq:     seq,
	}
}

// ID returns the subscription ID.
func (s *Subscription) ID() string { return s.id }

// Topic returns the subscribed topic.
func (s *Subscription) Topic() Topic { return s.topic }

// Config returns the subscription configuration.
func (s *Subscription) Config() SubscriptionConfig { return s.config }

// IsActive reports whether the subscription still receives signals.
func (s *Subscription) IsActive() bool { return !s.cancelled.Load() }

// Cancel stops delivery. It does not remove the subscription from its bus.
func (s *Subscription) Cancel() { s.cancelled.Store(true) }
