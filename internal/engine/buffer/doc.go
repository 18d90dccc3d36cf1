// Package buffer provides a line-oriented, thread-safe document buffer used
// by the long-line decision engine.
//
// The buffer holds the already-resident text of a document as a sequence of
// lines with normalized line endings. It is read-mostly: the engine inspects
// line lengths and leading content during a mode-selection pass, and the only
// mutation the engine itself performs is toggling the read-only flag as a
// post-override side effect.
//
// Basic usage:
//
//	buf := buffer.NewFromString("// header\nshort line\n")
//	n := buf.LineCount()
//	start := buf.SkipLeadingIrrelevant()
//	width := buf.LineLen(start)
//
// Coordinates are 0-indexed line numbers. Line lengths are measured in runes,
// matching the "end-of-line offset minus line-start offset" contract of the
// scanner.
package buffer
