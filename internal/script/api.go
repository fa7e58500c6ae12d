package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/docedit/internal/input/keymap"
)

func (h *Host) api() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"action":        h.luaAction,
		"bind":          h.luaBind,
		"run":           h.luaRun,
		"insert":        h.luaInsert,
		"select":        h.luaSelect,
		"selection":     h.luaSelection,
		"selected_text": h.luaSelectedText,
		"text":          h.luaText,
		"log":           h.luaLog,
	}
}

// docedit.action(name, fn)
func (h *Host) luaAction(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if name == "" {
		L.ArgError(1, "action name must not be empty")
	}
	h.editor.RegisterAction(name, h.action(name, fn))
	h.actions = append(h.actions, name)
	return 0
}

// docedit.bind(keys, intent [, description])
func (h *Host) luaBind(L *lua.LState) int {
	b := keymap.Binding{
		Keys:        L.CheckString(1),
		Action:      L.CheckString(2),
		Description: L.OptString(3, ""),
	}
	if err := h.bind(b); err != nil {
		L.RaiseError("bind %s: %s", b.Keys, err.Error())
	}
	return 0
}

// docedit.run(intent) -> handled
func (h *Host) luaRun(L *lua.LState) int {
	L.Push(lua.LBool(h.editor.Run(L.CheckString(1))))
	return 1
}

// docedit.insert(text)
func (h *Host) luaInsert(L *lua.LState) int {
	h.editor.InsertText(L.CheckString(1))
	return 0
}

// docedit.select(position [, length])
func (h *Host) luaSelect(L *lua.LState) int {
	h.editor.Select(L.CheckInt(1), L.OptInt(2, 0))
	return 0
}

// docedit.selection() -> position, length
func (h *Host) luaSelection(L *lua.LState) int {
	position, length := h.editor.Selection()
	L.Push(lua.LNumber(position))
	L.Push(lua.LNumber(length))
	return 2
}

func (h *Host) luaSelectedText(L *lua.LState) int {
	L.Push(lua.LString(h.editor.SelectedText()))
	return 1
}

func (h *Host) luaText(L *lua.LState) int {
	L.Push(lua.LString(h.editor.Text()))
	return 1
}

// docedit.log(message)
func (h *Host) luaLog(L *lua.LState) int {
	h.log.Info("%s", L.CheckString(1))
	return 0
}
