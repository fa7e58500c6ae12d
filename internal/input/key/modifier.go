package key

import "strings"

// Modifier is a set of held modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every modifier in mod is held.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod == mod
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier { return m | mod }

// Without returns m with mod removed.
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }

// String joins the held modifiers in the order Ctrl, Alt, Shift, Meta.
func (m Modifier) String() string {
	var parts []string
	for _, mn := range modifierOrder {
		if m.Has(mn.mod) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "+")
}

var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModMeta, "Meta"},
}

var modifierNames = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"super":   ModMeta,
}

// ModifierFromName returns the modifier with the given name, ignoring
// case, or ModNone.
func ModifierFromName(name string) Modifier {
	return modifierNames[strings.ToLower(strings.TrimSpace(name))]
}
