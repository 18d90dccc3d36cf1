// Package localvar discovers file-local configuration declarations.
//
// Two conventions are recognized:
//
//   - A header comment on the first line of the file (or the second line,
//     after a #! interpreter line) delimited by -*- markers. The single-token
//     form "-*- text -*-" declares one mode; the list form
//     "-*- mode: text; tab-width: 4 -*-" declares a mode per "mode" entry,
//     collected in encounter order.
//
//   - A trailing local-variables block within the last few kilobytes of the
//     file: a "Local Variables:" marker line whose surrounding comment text
//     fixes the prefix and suffix every entry line must carry, a sequence of
//     "name: value" entries, and a mandatory "End:" terminator.
//
// An explicit mode declaration found by either path inhibits the automatic
// long-line override: a user or file declaration always wins over the
// heuristic.
//
// The grammar here is a pinned contract; malformed markers and entries are
// ignored, never an error.
package localvar
