// Package key defines key events and key combinations.
//
// An Event is what a host delivers when a key goes down: the key, the
// character for printable keys and the held modifiers. A Combo is the
// normalized form of an event used to look up bindings, so that "Ctrl+Z",
// "ctrl+z" and a Ctrl-modified 'Z' rune all name the same entry.
//
// Combos are written as modifier names followed by the key, joined with
// "+": "Ctrl+Shift+Home", "Meta+A", "Alt+Shift+Up", "Clear".
package key
