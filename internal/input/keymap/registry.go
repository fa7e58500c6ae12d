package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/docedit/internal/input/key"
)

// ErrNilKeymap is returned when registering a nil keymap.
var ErrNilKeymap = errors.New("keymap: nil keymap")

type registered struct {
	km    *Keymap
	seq   int
	combo []key.Combo
}

type match struct {
	binding Binding
	score   int
	seq     int
}

// Registry holds keymaps and resolves combos for one platform.
type Registry struct {
	mu       sync.RWMutex
	keymaps  map[string]*registered
	platform Platform
	seq      int
	index    map[key.Combo]match
}

// NewRegistry creates an empty registry for platform p.
func NewRegistry(p Platform) *Registry {
	return &Registry{
		keymaps:  make(map[string]*registered),
		platform: p,
		index:    make(map[key.Combo]match),
	}
}

// Register adds km, replacing any keymap with the same name.
func (r *Registry) Register(km *Keymap) error {
	if km == nil {
		return ErrNilKeymap
	}
	if err := km.Validate(); err != nil {
		return err
	}
	reg := &registered{km: km.Clone()}
	for _, b := range km.Bindings {
		reg.combo = append(reg.combo, key.MustParseCombo(b.Keys))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	reg.seq = r.seq
	r.keymaps[km.Name] = reg
	r.rebuildLocked()
	return nil
}

// Unregister removes the named keymap and reports whether it existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keymaps[name]; !ok {
		return false
	}
	delete(r.keymaps, name)
	r.rebuildLocked()
	return true
}

// Get returns a copy of the named keymap.
func (r *Registry) Get(name string) (*Keymap, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.keymaps[name]
	if !ok {
		return nil, false
	}
	return reg.km.Clone(), true
}

// Names returns the registered keymap names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.keymaps))
	for name := range r.keymaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Platform returns the platform bindings are resolved for.
func (r *Registry) Platform() Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.platform
}

// SetPlatform switches the platform and re-resolves every combo.
func (r *Registry) SetPlatform(p Platform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.platform = p
	r.rebuildLocked()
}

// Lookup returns the binding for c.
func (r *Registry) Lookup(c key.Combo) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.index[c]
	if !ok || m.binding.Action == ActionNone {
		return Binding{}, false
	}
	return m.binding, true
}

// LookupEvent returns the binding for a key event.
func (r *Registry) LookupEvent(e key.Event) (Binding, bool) {
	return r.Lookup(e.Combo())
}

// Bindings returns the effective bindings, sorted by keys.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Binding, 0, len(r.index))
	for c, m := range r.index {
		if m.binding.Action == ActionNone {
			continue
		}
		b := m.binding
		b.Keys = c.String()
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Keys < out[j].Keys })
	return out
}

func (r *Registry) rebuildLocked() {
	r.index = make(map[key.Combo]match)
	for _, reg := range r.keymaps {
		if !reg.km.appliesTo(r.platform) {
			continue
		}
		base := reg.km.Priority * 100
		if reg.km.Platform != PlatformAll {
			base += 50
		}
		for i, b := range reg.km.Bindings {
			m := match{binding: b, score: base + b.Priority, seq: reg.seq}
			c := reg.combo[i]
			if cur, ok := r.index[c]; ok && !m.beats(cur) {
				continue
			}
			r.index[c] = m
		}
	}
}

func (m match) beats(other match) bool {
	if m.score != other.score {
		return m.score > other.score
	}
	return m.seq >= other.seq
}

// FromBindings builds a keymap from configured bindings. Later entries
// win over earlier ones for the same keys.
func FromBindings(name string, priority int, bindings []Binding) (*Keymap, error) {
	km := NewKeymap(name).WithPriority(priority).WithSource("config")
	km.Bindings = append(km.Bindings, bindings...)
	if err := km.Validate(); err != nil {
		return nil, fmt.Errorf("building keymap %s: %w", name, err)
	}
	return km, nil
}
