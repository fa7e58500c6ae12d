package odt

import "errors"

// Errors returned when an operation cannot be applied.
var (
	// ErrInvalidPosition indicates a step outside the document.
	ErrInvalidPosition = errors.New("position out of range")

	// ErrInvalidRange indicates a step range that cannot be applied.
	ErrInvalidRange = errors.New("invalid step range")

	// ErrNoParagraph indicates a step that lies outside any paragraph.
	ErrNoParagraph = errors.New("step is not inside a paragraph")

	// ErrNoAnnotation indicates that no annotation starts at the step.
	ErrNoAnnotation = errors.New("no annotation at position")

	// ErrCursorExists indicates AddCursor for a member that has a cursor.
	ErrCursorExists = errors.New("cursor already exists")

	// ErrNoCursor indicates an operation for a member without a cursor.
	ErrNoCursor = errors.New("no cursor for member")

	// ErrInvalidMember indicates an empty member id.
	ErrInvalidMember = errors.New("invalid member id")
)
