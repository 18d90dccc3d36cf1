package hook

import "github.com/dshills/longmode/internal/mode"

// Builtin hook names, usable in configuration files.
const (
	NameSuppressWhitespace = "suppress-whitespace-display"
	NameReadOnly           = "read-only"
)

// SuppressWhitespaceDisplay returns a hook that turns off the whitespace
// display minor mode if it is active. Without a minor-mode surface the hook
// is a no-op.
func SuppressWhitespaceDisplay() Hook {
	return NewFunc(NameSuppressWhitespace, func(ctx *Context) error {
		if ctx.Minor == nil {
			return nil
		}
		if ctx.Minor.IsMinorModeActive(ctx.Buffer, mode.MinorWhitespace) {
			ctx.Minor.SetMinorMode(ctx.Buffer, mode.MinorWhitespace, false)
		}
		return nil
	})
}

// MakeReadOnly returns a hook that marks the buffer read-only. It should
// run last: earlier side effects may need to mutate the buffer.
func MakeReadOnly() Hook {
	return NewFunc(NameReadOnly, func(ctx *Context) error {
		if ctx.Buffer != nil {
			ctx.Buffer.SetReadOnly(true)
		}
		return nil
	})
}

// Builtin returns the builtin hook registered under name, or nil.
func Builtin(name string) Hook {
	switch name {
	case NameSuppressWhitespace:
		return SuppressWhitespaceDisplay()
	case NameReadOnly:
		return MakeReadOnly()
	default:
		return nil
	}
}

// Defaults returns the default post-override hook sequence: suppress
// whitespace display first, make the buffer read-only last.
func Defaults() []Hook {
	return []Hook{
		SuppressWhitespaceDisplay(),
		MakeReadOnly(),
	}
}
