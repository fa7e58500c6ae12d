package key

import (
	"fmt"
	"time"
	"unicode"
)

// Event is a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
	Timestamp time.Time
}

// NewEvent creates a key event stamped with the current time.
func NewEvent(k Key, r rune, mods Modifier) Event {
	return Event{Key: k, Rune: r, Modifiers: mods, Timestamp: time.Now()}
}

// NewRuneEvent creates an event for a character key.
func NewRuneEvent(r rune, mods Modifier) Event {
	return NewEvent(KeyRune, r, mods)
}

// NewSpecialEvent creates an event for a non-character key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return NewEvent(k, 0, mods)
}

// IsRune reports whether the event carries a character.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsPrintable reports whether the event should insert its character:
// a printable rune with neither Ctrl, Alt nor Meta held. Shift only
// selects the character.
func (e Event) IsPrintable() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) && !e.Modifiers.Has(ModCtrl) &&
		!e.Modifiers.Has(ModAlt) && !e.Modifiers.Has(ModMeta)
}

// Text returns the character of a printable event.
func (e Event) Text() string {
	if !e.IsPrintable() {
		return ""
	}
	return string(e.Rune)
}

// Combo returns the normalized combination of the event.
func (e Event) Combo() Combo {
	return NewCombo(e.Key, e.Rune, e.Modifiers)
}

// String formats the event like its combo.
func (e Event) String() string {
	return e.Combo().String()
}

// GoString implements fmt.GoStringer.
func (e Event) GoString() string {
	return fmt.Sprintf("key.Event{Key: %s, Rune: %q, Modifiers: %s}", e.Key, e.Rune, e.Modifiers)
}
