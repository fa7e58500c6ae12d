package script

import "errors"

// Errors returned by the script host.
var (
	// ErrClosed is returned when using a closed host.
	ErrClosed = errors.New("script host closed")

	// ErrTimeout is returned when a script runs past its time limit.
	ErrTimeout = errors.New("script timed out")
)
