package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/docedit/internal/controller"
	"github.com/dshills/docedit/internal/input/keymap"
	"github.com/dshills/docedit/internal/logging"
)

const (
	// ModuleName is the global table scripts use.
	ModuleName = "docedit"

	// KeymapName is the keymap script bindings are registered under.
	KeymapName = "script"

	// KeymapPriority ranks script bindings above the defaults and below
	// configured bindings.
	KeymapPriority = 5

	// DefaultTimeout bounds a single script run or action call.
	DefaultTimeout = 2 * time.Second
)

// Editor is what scripts can drive.
type Editor interface {
	RegisterAction(name string, fn controller.Action)
	Run(name string) bool
	Keymap() *keymap.Registry

	InsertText(text string)
	Select(position, length int)
	Selection() (position, length int)
	SelectedText() string
	Text() string
}

var _ Editor = (*controller.SessionController)(nil)

// Host owns one Lua state bound to an editor.
type Host struct {
	L       *lua.LState
	editor  Editor
	timeout time.Duration
	log     *logging.Logger

	bindings []keymap.Binding
	actions  []string
	depth    int
	closed   bool
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger. Script log calls go here too.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		h.log = l
	}
}

// WithTimeout bounds each script run and action call. Zero disables the
// limit.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// NewHost creates a Lua state exposing editor to scripts.
func NewHost(editor Editor, opts ...Option) *Host {
	h := &Host{
		editor:  editor,
		timeout: DefaultTimeout,
		log:     logging.Null,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("script")

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.L)
	h.L.SetGlobal(ModuleName, h.L.SetFuncs(h.L.NewTable(), h.api()))
	return h
}

// openSafeLibraries opens the libraries that cannot reach the file
// system or the process.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// LoadFile runs the script at path.
func (h *Host) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script %s: %w", path, err)
	}
	return h.LoadString(path, string(data))
}

// LoadString runs code. name identifies the chunk in errors.
func (h *Host) LoadString(name, code string) error {
	if h.closed {
		return ErrClosed
	}
	fn, err := h.L.Load(strings.NewReader(code), name)
	if err != nil {
		return fmt.Errorf("loading script %s: %w", name, err)
	}
	if _, err := h.call(fn, 0); err != nil {
		return fmt.Errorf("running script %s: %w", name, err)
	}
	h.log.Debug("loaded %s", name)
	return nil
}

// Actions returns the intents registered by scripts, in order.
func (h *Host) Actions() []string {
	return append([]string(nil), h.actions...)
}

// Bindings returns the bindings registered by scripts, in order.
func (h *Host) Bindings() []keymap.Binding {
	return append([]keymap.Binding(nil), h.bindings...)
}

// Close releases the Lua state and removes the script bindings. Actions
// stay registered but report unhandled.
func (h *Host) Close() {
	if h.closed {
		return
	}
	h.closed = true
	h.editor.Keymap().Unregister(KeymapName)
	h.L.Close()
}

// call runs fn under the time limit and returns its first result when
// nret is 1. Nested calls share the outermost limit.
func (h *Host) call(fn *lua.LFunction, nret int) (lua.LValue, error) {
	if h.depth == 0 && h.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		h.L.SetContext(ctx)
		defer h.L.RemoveContext()
	}
	h.depth++
	defer func() { h.depth-- }()

	err := h.L.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true})
	if err != nil {
		if ctx := h.L.Context(); ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %v", ErrTimeout, h.timeout, err)
		}
		return nil, err
	}
	if nret == 0 {
		return lua.LNil, nil
	}
	ret := h.L.Get(-1)
	h.L.Pop(1)
	return ret, nil
}

// action adapts a Lua function to a controller action.
func (h *Host) action(name string, fn *lua.LFunction) controller.Action {
	return func() bool {
		if h.closed {
			return false
		}
		ret, err := h.call(fn, 1)
		if err != nil {
			h.log.Error("action %s: %v", name, err)
			return false
		}
		return ret != lua.LFalse
	}
}

// bind adds a binding and re-registers the script keymap.
func (h *Host) bind(b keymap.Binding) error {
	bindings := append(h.Bindings(), b)
	km, err := keymap.FromBindings(KeymapName, KeymapPriority, bindings)
	if err != nil {
		return err
	}
	if err := h.editor.Keymap().Register(km.WithSource("script")); err != nil {
		return err
	}
	h.bindings = bindings
	return nil
}
