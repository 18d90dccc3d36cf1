package mode

import "sync"

// MinorModeState tracks which minor modes are active for a single buffer.
// Minor modes are independently togglable buffer features (highlighting,
// line numbers) distinct from the primary mode.
type MinorModeState struct {
	mu     sync.RWMutex
	active map[ID]bool
}

// NewMinorModeState creates an empty minor-mode state.
func NewMinorModeState() *MinorModeState {
	return &MinorModeState{
		active: make(map[ID]bool),
	}
}

// IsActive reports whether a minor mode is active.
func (s *MinorModeState) IsActive(id ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active[id]
}

// Set activates or deactivates a minor mode.
func (s *MinorModeState) Set(id ID, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.active[id] = true
	} else {
		delete(s.active, id)
	}
}

// Active returns the active minor modes.
func (s *MinorModeState) Active() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]ID, 0, len(s.active))
	for id := range s.active {
		ids = append(ids, id)
	}
	return ids
}
