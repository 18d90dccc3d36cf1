package override

// State is the outcome of the most recent mode-selection pass for a buffer.
type State uint8

const (
	// Unevaluated means no pass has run for the buffer yet.
	Unevaluated State = iota

	// Inhibited means an explicit mode declaration suppressed the override.
	Inhibited

	// NoOverride means the pass ran and decided against overriding.
	NoOverride

	// Overridden means the fallback mode replaced the selected mode.
	Overridden

	// Reverted means a previous override was undone by the user.
	Reverted
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Unevaluated:
		return "unevaluated"
	case Inhibited:
		return "inhibited"
	case NoOverride:
		return "no-override"
	case Overridden:
		return "overridden"
	case Reverted:
		return "reverted"
	default:
		return "unknown"
	}
}
