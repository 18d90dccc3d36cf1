package mode

import "strings"

// ID identifies an editing mode. IDs are lowercase names such as "go" or
// "fundamental". The empty ID means "no mode".
type ID string

// Normalize converts a raw mode token into a canonical ID.
func Normalize(s string) ID {
	return ID(strings.ToLower(strings.TrimSpace(s)))
}

// Standard mode names.
const (
	// Fundamental is the minimal fallback mode with no syntax-aware features.
	Fundamental ID = "fundamental"

	// Prog is the root of the generic programming mode family.
	Prog ID = "prog"

	// Text is the plain-text mode family root.
	Text ID = "text"

	// CSS is the stylesheet mode family root.
	CSS ID = "css"
)

// Common minor-mode names used in default configuration.
const (
	MinorHighlight       ID = "highlight"
	MinorLineNumbers     ID = "line-numbers"
	MinorPrettifySymbols ID = "prettify-symbols"
	MinorVisualWrap      ID = "visual-wrap"
	MinorDiffHL          ID = "diff-hl"
	MinorHLLine          ID = "hl-line"
	MinorWhitespace      ID = "whitespace"
)
