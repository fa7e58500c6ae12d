package app

import "errors"

// Application errors.
var (
	// ErrAlreadyRunning indicates Run was called while running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrShutdown indicates the application was shut down.
	ErrShutdown = errors.New("application shut down")
)

// InitError reports the component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
