package localvar

import (
	"github.com/dshills/longmode/internal/engine/buffer"
	"github.com/dshills/longmode/internal/mode"
)

// Resolver resolves file-local configuration from the buffer content
// itself. It implements mode.LocalConfigResolver for hosts that do not
// bring their own resolver.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveLocalConfig reports the mode a file-local declaration would apply.
// The trailing block takes precedence over the header comment, matching the
// order in which a host applies them. The resolver holds no state, so the
// queryOnly flag only signals intent; nothing is ever applied here.
func (r *Resolver) ResolveLocalConfig(buf *buffer.Buffer, queryOnly bool) (mode.ID, bool) {
	_ = queryOnly

	if block, ok := TrailingBlock(buf); ok {
		if id, ok := block.Mode(); ok {
			return id, true
		}
	}

	if modes := HeaderModes(buf); len(modes) > 0 {
		return modes[0], true
	}

	return "", false
}
