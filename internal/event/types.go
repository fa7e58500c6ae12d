// Package event is a synchronous signal bus.
//
// A Bus owns a registry of subscriptions keyed by Topic. Emit delivers a
// payload to every active subscriber of the topic, in priority order, on
// the caller's goroutine and before Emit returns. Subscribers must keep
// the returned Subscription and pass it to Unsubscribe when they are torn
// down; nothing is released implicitly.
package event

// Topic names a signal, for example "operation/executed".
type Topic string

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for document bookkeeping that must run first.
	PriorityCritical Priority = 0

	// PriorityHigh is for controllers reacting to document changes.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for observers such as logging that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler receives the payload of an emitted signal.
type Handler func(payload any)
