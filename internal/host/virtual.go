package host

import (
	"sync"

	"github.com/dshills/docedit/internal/dom"
)

// CaretFunc resolves a pointer position to a tree location.
type CaretFunc func(x, y int) (dom.Location, bool)

// Virtual is a host without a platform. Tests and headless drivers set
// its selection and caret resolver directly and feed events through
// Dispatch.
type Virtual struct {
	Dispatcher

	mu        sync.Mutex
	selection Selection
	hasSel    bool
	caret     CaretFunc
	sets      []Selection
	focused   int

	clipboard *MemoryClipboard
	queue     *Queue
}

// NewVirtual creates a host with no selection and an empty clipboard.
func NewVirtual() *Virtual {
	return &Virtual{
		clipboard: &MemoryClipboard{},
		queue:     &Queue{},
	}
}

// Selection returns the current host selection.
func (v *Virtual) Selection() (Selection, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selection, v.hasSel
}

// SetSelection sets the host selection and records the call.
func (v *Virtual) SetSelection(sel Selection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection, v.hasSel = sel, true
	v.sets = append(v.sets, sel)
}

// ClearSelection removes the host selection.
func (v *Virtual) ClearSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection, v.hasSel = Selection{}, false
}

// SelectionSets returns every selection passed to SetSelection.
func (v *Virtual) SelectionSets() []Selection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Selection(nil), v.sets...)
}

// SetCaretFunc sets the resolver used by CaretFromPoint.
func (v *Virtual) SetCaretFunc(fn CaretFunc) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.caret = fn
}

// CaretFromPoint resolves through the caret function, if any.
func (v *Virtual) CaretFromPoint(x, y int) (dom.Location, bool) {
	v.mu.Lock()
	fn := v.caret
	v.mu.Unlock()
	if fn == nil {
		return dom.Location{}, false
	}
	return fn(x, y)
}

// Clipboard returns the in-memory clipboard.
func (v *Virtual) Clipboard() Clipboard { return v.clipboard }

// MemoryClipboard returns the clipboard for inspection and failure
// injection.
func (v *Virtual) MemoryClipboard() *MemoryClipboard { return v.clipboard }

// Scheduler returns the continuation queue.
func (v *Virtual) Scheduler() Scheduler { return v.queue }

// Queue returns the continuation queue for inspection.
func (v *Virtual) Queue() *Queue { return v.queue }

// Focus records a focus request.
func (v *Virtual) Focus() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.focused++
}

// FocusCount returns how many times Focus was called.
func (v *Virtual) FocusCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.focused
}

var _ Host = (*Virtual)(nil)
