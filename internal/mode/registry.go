package mode

import "sync"

// maxInheritanceDepth bounds ancestor walks. The inheritance graph is a
// forest in practice; the bound keeps a misregistered cycle from hanging
// the walk.
const maxInheritanceDepth = 64

// Registry holds the mode inheritance relation.
// All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	parents map[ID]ID
}

// NewRegistry creates an empty mode registry.
func NewRegistry() *Registry {
	return &Registry{
		parents: make(map[ID]ID),
	}
}

// Register records a mode and its parent. A root mode has an empty parent.
// Re-registering a mode replaces its parent pointer.
func (r *Registry) Register(id, parent ID) {
	if id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parents[id] = parent
}

// ParentOf returns the parent of a mode. The second return is false when
// the mode is unknown or is a root.
func (r *Registry) ParentOf(id ID) (ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parent, ok := r.parents[id]
	if !ok || parent == "" {
		return "", false
	}
	return parent, true
}

// Known reports whether a mode has been registered.
func (r *Registry) Known(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.parents[id]
	return ok
}

// IsDerivedFrom reports whether id equals ancestor or derives from it via
// the parent chain.
func (r *Registry) IsDerivedFrom(id, ancestor ID) bool {
	if id == "" || ancestor == "" {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	current := id
	for depth := 0; depth < maxInheritanceDepth; depth++ {
		if current == ancestor {
			return true
		}
		parent, ok := r.parents[current]
		if !ok || parent == "" {
			return false
		}
		current = parent
	}
	return false
}

// IsTarget reports whether id equals any member of targets or derives from
// one via the inheritance relation.
func (r *Registry) IsTarget(id ID, targets []ID) bool {
	for _, target := range targets {
		if r.IsDerivedFrom(id, target) {
			return true
		}
	}
	return false
}

// DefaultRegistry returns a registry preloaded with a small mode forest so
// the engine runs without a host: prog and text roots, a stylesheet family
// under prog, and a handful of common programming modes.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(Fundamental, "")
	r.Register(Text, "")
	r.Register(Prog, "")
	r.Register(CSS, Prog)

	for _, id := range []ID{"go", "c", "javascript", "json", "python", "rust", "html"} {
		r.Register(id, Prog)
	}
	r.Register("scss", CSS)
	r.Register("less", CSS)
	r.Register("markdown", Text)

	return r
}
