package localvar

import (
	"strings"

	"github.com/dshills/longmode/internal/engine/buffer"
	"github.com/dshills/longmode/internal/mode"
)

const (
	// blockMarker opens a trailing local-variables block.
	blockMarker = "Local Variables:"

	// blockTerminator closes a trailing local-variables block.
	blockTerminator = "End:"

	// tailBytes is how far from the end of the buffer the block marker is
	// searched for.
	tailBytes = 3000
)

// Entry is a single name/value setting from a local-variables block.
type Entry struct {
	Name  string
	Value string
}

// Block is a parsed trailing local-variables block.
type Block struct {
	Entries []Entry
}

// Mode returns the mode declared by the block, if any.
func (b *Block) Mode() (mode.ID, bool) {
	for _, e := range b.Entries {
		if strings.EqualFold(e.Name, "mode") {
			id := mode.Normalize(e.Value)
			if id != "" {
				return id, true
			}
		}
	}
	return "", false
}

// Lookup returns the value of a named entry.
func (b *Block) Lookup(name string) (string, bool) {
	for _, e := range b.Entries {
		if strings.EqualFold(e.Name, name) {
			return e.Value, true
		}
	}
	return "", false
}

// TrailingBlock locates and parses the local-variables block within the
// last tailBytes of the buffer. The second return is false when no
// well-formed block exists; a block missing its End: terminator is treated
// as absent.
func TrailingBlock(buf *buffer.Buffer) (*Block, bool) {
	if buf == nil {
		return nil, false
	}

	lines := buf.Tail(tailBytes)

	markerIdx := -1
	var prefix, suffix string
	for i, line := range lines {
		pos := strings.Index(line, blockMarker)
		if pos < 0 {
			continue
		}
		markerIdx = i
		prefix = line[:pos]
		suffix = strings.TrimSpace(line[pos+len(blockMarker):])
	}
	if markerIdx < 0 {
		return nil, false
	}

	block := &Block{}
	terminated := false
	for _, line := range lines[markerIdx+1:] {
		body, ok := stripAffixes(line, prefix, suffix)
		if !ok {
			// Entry lines must carry the same prefix and suffix as the
			// marker line; anything else invalidates the block.
			return nil, false
		}

		if strings.TrimSpace(body) == blockTerminator {
			terminated = true
			break
		}

		name, value, ok := strings.Cut(body, ":")
		if !ok {
			continue
		}
		block.Entries = append(block.Entries, Entry{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	if !terminated {
		return nil, false
	}

	return block, true
}

// stripAffixes removes the block's comment prefix and suffix from an entry
// line. Whitespace-only deviations in the prefix are tolerated.
func stripAffixes(line, prefix, suffix string) (string, bool) {
	body := line

	trimmedPrefix := strings.TrimRight(prefix, " \t")
	if trimmedPrefix != "" {
		if !strings.HasPrefix(body, trimmedPrefix) {
			return "", false
		}
		body = strings.TrimLeft(body[len(trimmedPrefix):], " \t")
	} else {
		body = strings.TrimLeft(body, " \t")
	}

	if suffix != "" {
		trimmed := strings.TrimRight(body, " \t")
		if !strings.HasSuffix(trimmed, suffix) {
			return "", false
		}
		body = strings.TrimRight(trimmed[:len(trimmed)-len(suffix)], " \t")
	}

	return body, true
}
