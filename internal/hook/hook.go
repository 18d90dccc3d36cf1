package hook

import (
	"fmt"

	"github.com/dshills/longmode/internal/engine/buffer"
	"github.com/dshills/longmode/internal/log"
	"github.com/dshills/longmode/internal/mode"
)

// MinorToggler is the minor-mode surface a hook may act on.
type MinorToggler interface {
	IsMinorModeActive(buf *buffer.Buffer, id mode.ID) bool
	SetMinorMode(buf *buffer.Buffer, id mode.ID, on bool)
}

// Context carries the state a hook acts on.
type Context struct {
	// Buffer is the overridden buffer.
	Buffer *buffer.Buffer

	// OriginalMode is the mode recorded before the override.
	OriginalMode mode.ID

	// FallbackMode is the mode now active on the buffer.
	FallbackMode mode.ID

	// Minor toggles minor modes on the host. May be nil for headless runs.
	Minor MinorToggler

	// Log is the logger for hook diagnostics. Never nil inside Run.
	Log *log.Logger
}

// Hook is a single post-override side effect.
type Hook interface {
	// Name identifies the hook in configuration and logs.
	Name() string

	// Run executes the side effect.
	Run(ctx *Context) error
}

// Func adapts a plain function into a Hook.
type Func struct {
	name string
	fn   func(*Context) error
}

// NewFunc creates a function-backed hook.
func NewFunc(name string, fn func(*Context) error) *Func {
	return &Func{name: name, fn: fn}
}

// Name implements Hook.
func (f *Func) Name() string { return f.name }

// Run implements Hook.
func (f *Func) Run(ctx *Context) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(ctx)
}

// Sequence runs an ordered list of hooks with per-hook failure isolation.
type Sequence struct {
	hooks  []Hook
	logger *log.Logger
}

// NewSequence creates a hook sequence. A nil logger discards diagnostics.
func NewSequence(hooks []Hook, logger *log.Logger) *Sequence {
	if logger == nil {
		logger = log.Null
	}
	return &Sequence{hooks: hooks, logger: logger}
}

// Len returns the number of hooks in the sequence.
func (s *Sequence) Len() int { return len(s.hooks) }

// Run executes every hook in order. Failures are logged and do not stop
// the sequence. The number of failed hooks is returned.
func (s *Sequence) Run(ctx *Context) int {
	if ctx.Log == nil {
		ctx.Log = s.logger
	}

	failed := 0
	for _, h := range s.hooks {
		if h == nil {
			continue
		}
		if err := s.runOne(h, ctx); err != nil {
			failed++
			s.logger.Error("hook %q failed: %v", h.Name(), err)
		}
	}
	return failed
}

// runOne executes a single hook with panic recovery.
func (s *Sequence) runOne(h Hook, ctx *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.Run(ctx)
}
