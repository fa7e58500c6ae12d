package key

import (
	"fmt"
	"strings"
)

// Key identifies a keyboard key. Character keys use KeyRune with the
// character stored in the event.
type Key uint8

const (
	KeyNone Key = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyClear
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyRune
)

var keyNames = [...]string{
	KeyNone:      "None",
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyClear:     "Clear",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyRune:      "Rune",
}

// String returns the key name.
func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsArrow reports whether k is one of the four arrow keys.
func (k Key) IsArrow() bool {
	return k >= KeyUp && k <= KeyRight
}

// IsNavigation reports whether k moves the caret.
func (k Key) IsNavigation() bool {
	return k.IsArrow() || k == KeyHome || k == KeyEnd || k == KeyPageUp || k == KeyPageDown
}

var keyAliases = map[string]Key{
	"esc":    KeyEscape,
	"return": KeyEnter,
	"cr":     KeyEnter,
	"bs":     KeyBackspace,
	"del":    KeyDelete,
	"pgup":   KeyPageUp,
	"pgdn":   KeyPageDown,
}

// KeyFromName returns the key with the given name, ignoring case. It
// returns KeyNone for unknown names and for "rune".
func KeyFromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyAliases[name]; ok {
		return k
	}
	for k, n := range keyNames {
		if Key(k) != KeyRune && strings.ToLower(n) == name {
			return Key(k)
		}
	}
	return KeyNone
}
