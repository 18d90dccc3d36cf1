// Package override implements the mode-override controller.
//
// The controller wraps the host's mode selection as middleware: it runs a
// pre-check for header-comment mode declarations, delegates selection to
// the host, re-checks file-local declarations afterwards, and — when the
// selected mode is a configured target and the buffer contains an
// excessively long line — substitutes the fallback mode. The original mode
// is recorded on a per-buffer session so the user can revert.
//
// A pass always terminates with a valid mode for the buffer. Explicit
// user or file declarations inhibit the heuristic; a disabled engine
// performs no detection and no side effects at all.
package override
