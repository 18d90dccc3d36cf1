package mode

import (
	"fmt"
	"sync"

	"github.com/dshills/longmode/internal/engine/buffer"
)

// Host is the mode registry surface the engine consumes from the editor.
// Mode selection itself is host territory; the engine only intercepts its
// result and may activate a different mode.
type Host interface {
	// SelectedMode returns the mode the host chose for the buffer.
	SelectedMode(buf *buffer.Buffer) ID

	// Activate switches the buffer's active mode.
	Activate(buf *buffer.Buffer, id ID) error

	// IsMinorModeActive reports whether a minor mode is active for the buffer.
	IsMinorModeActive(buf *buffer.Buffer, id ID) bool

	// SetMinorMode activates or deactivates a minor mode for the buffer.
	// Unknown minor modes are silently ignored.
	SetMinorMode(buf *buffer.Buffer, id ID, on bool)
}

// LocalConfigResolver resolves file-local configuration for a buffer.
type LocalConfigResolver interface {
	// ResolveLocalConfig reports the mode a file-local declaration would
	// apply, if any. With queryOnly it must not apply settings, only report.
	ResolveLocalConfig(buf *buffer.Buffer, queryOnly bool) (ID, bool)
}

// MapHost is a self-contained Host backed by per-buffer maps. The CLI probe
// and tests use it in place of a real editor.
type MapHost struct {
	mu          sync.RWMutex
	defaultMode ID
	selected    map[string]ID
	active      map[string]ID
	minors      map[string]*MinorModeState
}

// NewMapHost creates a MapHost. Buffers without an explicit selection get
// defaultMode.
func NewMapHost(defaultMode ID) *MapHost {
	return &MapHost{
		defaultMode: defaultMode,
		selected:    make(map[string]ID),
		active:      make(map[string]ID),
		minors:      make(map[string]*MinorModeState),
	}
}

// SetSelected records the mode the host would select for a buffer.
func (h *MapHost) SetSelected(buf *buffer.Buffer, id ID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.selected[buf.ID()] = id
}

// SelectedMode implements Host.
func (h *MapHost) SelectedMode(buf *buffer.Buffer) ID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if id, ok := h.selected[buf.ID()]; ok {
		return id
	}
	return h.defaultMode
}

// Activate implements Host.
func (h *MapHost) Activate(buf *buffer.Buffer, id ID) error {
	if id == "" {
		return fmt.Errorf("cannot activate empty mode")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active[buf.ID()] = id
	return nil
}

// ActiveMode returns the currently active mode for a buffer, or the empty
// ID if none was activated.
func (h *MapHost) ActiveMode(buf *buffer.Buffer) ID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.active[buf.ID()]
}

// IsMinorModeActive implements Host.
func (h *MapHost) IsMinorModeActive(buf *buffer.Buffer, id ID) bool {
	h.mu.RLock()
	state := h.minors[buf.ID()]
	h.mu.RUnlock()

	if state == nil {
		return false
	}
	return state.IsActive(id)
}

// SetMinorMode implements Host.
func (h *MapHost) SetMinorMode(buf *buffer.Buffer, id ID, on bool) {
	h.mu.Lock()
	state, ok := h.minors[buf.ID()]
	if !ok {
		state = NewMinorModeState()
		h.minors[buf.ID()] = state
	}
	h.mu.Unlock()

	state.Set(id, on)
}
