package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Combo is a key with modifiers, the unit bindings are keyed by. Letter
// runes are stored in lower case; an upper case letter implies Shift.
type Combo struct {
	Key  Key
	Rune rune
	Mods Modifier
}

// NewCombo normalizes a key, rune and modifiers into a Combo.
func NewCombo(k Key, r rune, mods Modifier) Combo {
	if k != KeyRune {
		return Combo{Key: k, Mods: mods}
	}
	if unicode.IsUpper(r) {
		r = unicode.ToLower(r)
		mods = mods.With(ModShift)
	}
	return Combo{Key: KeyRune, Rune: r, Mods: mods}
}

// String formats c as it is parsed, e.g. "Ctrl+Shift+Z".
func (c Combo) String() string {
	name := c.Key.String()
	if c.Key == KeyRune {
		switch c.Rune {
		case ' ':
			name = "Space"
		default:
			name = string(unicode.ToUpper(c.Rune))
		}
	}
	if c.Mods == ModNone {
		return name
	}
	return c.Mods.String() + "+" + name
}

// ParseCombo parses a combination such as "Meta+Shift+Z" or "Home".
// A single letter names the key, not the character, so "Ctrl+Z" and
// "Ctrl+z" are the same combo.
func ParseCombo(spec string) (Combo, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Combo{}, ErrEmptySpec
	}

	keyPart := spec
	var mods Modifier
	if i := strings.LastIndex(spec[:len(spec)-1], "+"); i >= 0 {
		keyPart = spec[i+1:]
		for _, name := range strings.Split(spec[:i], "+") {
			mod := ModifierFromName(name)
			if mod == ModNone {
				return Combo{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, name, spec)
			}
			mods = mods.With(mod)
		}
	}

	keyPart = strings.TrimSpace(keyPart)
	if strings.EqualFold(keyPart, "space") {
		return Combo{Key: KeyRune, Rune: ' ', Mods: mods}, nil
	}
	if k := KeyFromName(keyPart); k != KeyNone {
		return Combo{Key: k, Mods: mods}, nil
	}
	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Combo{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidSpec, keyPart, spec)
	}
	return Combo{Key: KeyRune, Rune: unicode.ToLower(runes[0]), Mods: mods}, nil
}

// MustParseCombo is ParseCombo for known-valid specs. It panics on error.
func MustParseCombo(spec string) Combo {
	c, err := ParseCombo(spec)
	if err != nil {
		panic(err)
	}
	return c
}
