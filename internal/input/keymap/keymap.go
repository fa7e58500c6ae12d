package keymap

import (
	"fmt"
	"runtime"

	"github.com/dshills/docedit/internal/input/key"
)

// Platform selects the platform-specific binding tables.
type Platform string

const (
	// PlatformAll marks keymaps that apply everywhere.
	PlatformAll   Platform = ""
	PlatformMac   Platform = "mac"
	PlatformOther Platform = "other"
)

// DetectPlatform returns the platform of the running process.
func DetectPlatform() Platform {
	if runtime.GOOS == "darwin" {
		return PlatformMac
	}
	return PlatformOther
}

// ParsePlatform parses "mac", "other" or "auto".
func ParsePlatform(s string) (Platform, error) {
	switch s {
	case "mac":
		return PlatformMac, nil
	case "other":
		return PlatformOther, nil
	case "", "auto":
		return DetectPlatform(), nil
	}
	return PlatformAll, fmt.Errorf("unknown platform %q", s)
}

// Binding maps one key combination to an action.
type Binding struct {
	// Keys is the combination, e.g. "Ctrl+Shift+Home".
	Keys string

	// Action names what the controller does, e.g. "cursor.left".
	Action string

	Description string

	// Priority breaks ties between keymaps of equal priority.
	Priority int
}

// Keymap is a named table of bindings.
type Keymap struct {
	Name string

	// Platform restricts the keymap; PlatformAll applies everywhere.
	Platform Platform

	Bindings []Binding

	// Priority orders keymaps; user overrides use a high value.
	Priority int

	// Source records where the keymap came from: "default", "config",
	// "script".
	Source string
}

// NewKeymap creates an empty keymap.
func NewKeymap(name string) *Keymap {
	return &Keymap{Name: name}
}

// ForPlatform restricts the keymap to p.
func (k *Keymap) ForPlatform(p Platform) *Keymap {
	k.Platform = p
	return k
}

// WithPriority sets the keymap priority.
func (k *Keymap) WithPriority(priority int) *Keymap {
	k.Priority = priority
	return k
}

// WithSource sets the keymap source.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add appends a binding.
func (k *Keymap) Add(keys, action string) *Keymap {
	k.Bindings = append(k.Bindings, Binding{Keys: keys, Action: action})
	return k
}

// Validate checks that every binding has parseable keys and an action.
// Unknown action names are allowed; scripts register their own.
func (k *Keymap) Validate() error {
	for i, b := range k.Bindings {
		if b.Action == "" {
			return fmt.Errorf("keymap %s: binding %d (%s): empty action", k.Name, i, b.Keys)
		}
		if _, err := key.ParseCombo(b.Keys); err != nil {
			return fmt.Errorf("keymap %s: binding %d: %w", k.Name, i, err)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (k *Keymap) Clone() *Keymap {
	c := *k
	c.Bindings = append([]Binding(nil), k.Bindings...)
	return &c
}

// appliesTo reports whether the keymap is active on p.
func (k *Keymap) appliesTo(p Platform) bool {
	return k.Platform == PlatformAll || k.Platform == p
}
