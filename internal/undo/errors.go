package undo

import "errors"

var (
	// ErrNoDocument indicates SaveInitialState without a document.
	ErrNoDocument = errors.New("undo: no document")

	// ErrNoPlayback indicates a replay without a playback function.
	ErrNoPlayback = errors.New("undo: no playback function")
)
