package override

import "github.com/dshills/longmode/internal/mode"

// Session is the per-buffer override state. It lives for the buffer's
// lifetime; the inhibition list is recomputed at the start of every
// mode-selection pass and never leaks across passes or buffers.
type Session struct {
	// OriginalMode is the mode recorded when an override was applied.
	// Empty iff no override is currently in effect.
	OriginalMode mode.ID

	// Inhibited holds the mode names explicitly declared by the file,
	// in encounter order. Non-empty means the override is suppressed
	// for the current pass.
	Inhibited []mode.ID

	// LastState is the outcome of the most recent pass.
	LastState State
}

// resetPass clears the per-pass state. The original mode survives until
// reverted; a fresh pass re-evaluates everything else.
func (s *Session) resetPass() {
	s.Inhibited = nil
	s.LastState = Unevaluated
}

// inhibit appends declared modes to the inhibition list.
func (s *Session) inhibit(ids ...mode.ID) {
	for _, id := range ids {
		if id != "" {
			s.Inhibited = append(s.Inhibited, id)
		}
	}
}

// inhibited reports whether any explicit declaration was found this pass.
func (s *Session) inhibited() bool {
	return len(s.Inhibited) > 0
}
