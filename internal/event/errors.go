package event

import "errors"

// Sentinel errors for the signal bus.
var (
	// ErrInvalidTopic is returned when a topic is empty.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidSubscription is returned when Unsubscribe gets nil.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrSubscriptionNotFound is returned when unsubscribing a subscription
	// that is not registered.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
