package session

import "errors"

// Session errors.
var (
	// ErrNoHandler indicates no handler accepts an operation.
	ErrNoHandler = errors.New("session: no handler for operation")

	// ErrPanic indicates an operation panicked while executing.
	ErrPanic = errors.New("session: operation panic")

	// ErrClosed indicates an operation enqueued after Close.
	ErrClosed = errors.New("session: session is closed")
)
