package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/docedit/internal/input/key"
	"github.com/dshills/docedit/internal/input/mouse"
)

var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyClear:      key.KeyClear,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
}

// convertKey maps a tcell key event to a key event. Control characters
// become Ctrl with the matching letter.
func convertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(ev.Modifiers())
	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		return key.NewRuneEvent(ev.Rune(), mods), true
	case k == tcell.KeyBacktab:
		return key.NewSpecialEvent(key.KeyTab, mods.With(key.ModShift)), true
	}
	if sk, ok := specialKeys[k]; ok {
		return key.NewSpecialEvent(sk, mods), true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.NewRuneEvent('a'+rune(k-tcell.KeyCtrlA), mods.With(key.ModCtrl)), true
	}
	return key.Event{}, false
}

func convertMod(m tcell.ModMask) key.Modifier {
	var out key.Modifier
	if m&tcell.ModShift != 0 {
		out = out.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		out = out.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		out = out.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		out = out.With(key.ModMeta)
	}
	return out
}

func convertButton(b tcell.ButtonMask) mouse.Button {
	switch {
	case b&tcell.ButtonPrimary != 0:
		return mouse.ButtonLeft
	case b&tcell.ButtonSecondary != 0:
		return mouse.ButtonRight
	case b&tcell.ButtonMiddle != 0:
		return mouse.ButtonMiddle
	default:
		return mouse.ButtonNone
	}
}
