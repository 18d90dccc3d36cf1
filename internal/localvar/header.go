package localvar

import (
	"strings"

	"github.com/dshills/longmode/internal/engine/buffer"
	"github.com/dshills/longmode/internal/mode"
)

// headerMarker delimits a first-line local-variable declaration.
const headerMarker = "-*-"

// HeaderModes returns the modes declared in the buffer's header comment, in
// encounter order. An empty result means no declaration was found.
//
// The header line is the first line of the buffer, or the second line when
// the first is a #! interpreter line.
func HeaderModes(buf *buffer.Buffer) []mode.ID {
	if buf == nil || buf.LineCount() == 0 {
		return nil
	}

	line := buf.Line(0)
	if strings.HasPrefix(line, "#!") {
		line = buf.Line(1)
	}

	return parseHeaderLine(line)
}

// parseHeaderLine extracts declared modes from a header line.
func parseHeaderLine(line string) []mode.ID {
	start := strings.Index(line, headerMarker)
	if start < 0 {
		return nil
	}
	rest := line[start+len(headerMarker):]

	end := strings.Index(rest, headerMarker)
	if end < 0 {
		// Unterminated marker: ignored.
		return nil
	}
	cell := strings.TrimSpace(rest[:end])
	if cell == "" {
		return nil
	}

	// Single-token form: "-*- text -*-".
	if !strings.Contains(cell, ":") {
		if strings.ContainsAny(cell, " \t") {
			return nil
		}
		return []mode.ID{mode.Normalize(cell)}
	}

	// List form: "-*- mode: text; mode: fundamental; tab-width: 4 -*-".
	var modes []mode.ID
	for _, entry := range strings.Split(cell, ";") {
		key, value, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(key), "mode") {
			continue
		}
		id := mode.Normalize(value)
		if id != "" {
			modes = append(modes, id)
		}
	}
	return modes
}
