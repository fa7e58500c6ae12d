// Package keymap maps key combinations to editing actions.
//
// A Keymap is a named table of bindings, optionally restricted to one
// platform. The Registry merges every registered keymap that applies to
// the current platform into a single combo index; when two keymaps bind
// the same combo the higher score wins:
//
//  1. keymap priority (times 100)
//  2. platform-specific keymaps over shared ones (+50)
//  3. binding priority
//  4. later registration
//
// Binding a combo to ActionNone in a higher priority keymap unbinds it.
//
//	reg := keymap.NewRegistry(keymap.PlatformMac)
//	if err := keymap.LoadDefaults(reg); err != nil {
//	    return err
//	}
//	if b, ok := reg.LookupEvent(ev); ok {
//	    run(b.Action)
//	}
package keymap
