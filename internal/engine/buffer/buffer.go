package buffer

import (
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// defaultCommentPrefixes are the prefixes treated as comment starters when
// skipping the leading comment block of a document.
var defaultCommentPrefixes = []string{"//", "#", ";", "--", "/*", "*"}

// Buffer is a line-oriented document buffer.
// All methods are safe for concurrent use.
type Buffer struct {
	mu              sync.RWMutex
	id              string
	name            string
	lines           []string
	lineEnding      LineEnding
	commentPrefixes []string
	readOnly        bool
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithName sets a display name for the buffer (usually the file path).
func WithName(name string) Option {
	return func(b *Buffer) {
		b.name = name
	}
}

// WithLineEnding sets the preferred line ending style.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithCommentPrefixes sets the comment prefixes recognized when skipping
// the leading comment block. Overrides the defaults entirely.
func WithCommentPrefixes(prefixes ...string) Option {
	return func(b *Buffer) {
		b.commentPrefixes = prefixes
	}
}

// New creates a new empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		id:              uuid.NewString(),
		lineEnding:      LineEndingLF,
		commentPrefixes: defaultCommentPrefixes,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewFromString creates a buffer with initial content.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.lines = splitLines(normalizeLineEndings(s))
	return b
}

// NewFromReader creates a buffer from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read all content first so CRLF sequences split across read
	// boundaries normalize correctly.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return NewFromString(string(data), opts...), nil
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

// splitLines splits normalized text into lines without trailing newlines.
// A trailing newline does not produce a final empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// ID returns the unique buffer identifier.
func (b *Buffer) ID() string {
	return b.id
}

// Name returns the buffer display name.
func (b *Buffer) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

// LineCount returns the number of lines in the buffer.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Line returns the text of line i (0-indexed) without its line ending.
// Returns the empty string for out-of-range indices.
func (b *Buffer) Line(i int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// LineLen returns the length of line i in runes, or 0 for out-of-range
// indices. This is the distance between the line start and end-of-line.
func (b *Buffer) LineLen(i int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.lines) {
		return 0
	}
	return utf8.RuneCountInString(b.lines[i])
}

// Lines returns a copy of all lines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	return lines
}

// SkipLeadingIrrelevant returns the index of the first line that is neither
// blank nor comment-only. Returns LineCount() if every line is skipped.
func (b *Buffer) SkipLeadingIrrelevant() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, line := range b.lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !b.isCommentLocked(trimmed) {
			return i
		}
	}
	return len(b.lines)
}

// isCommentLocked reports whether a trimmed line starts with a comment
// prefix (must hold lock).
func (b *Buffer) isCommentLocked(trimmed string) bool {
	for _, prefix := range b.commentPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// Tail returns the trailing lines of the buffer whose combined byte size,
// including line separators, does not exceed maxBytes. Used for locating a
// trailing local-variables block without scanning the whole document.
func (b *Buffer) Tail(maxBytes int) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if maxBytes <= 0 || len(b.lines) == 0 {
		return nil
	}

	total := 0
	start := len(b.lines)
	for i := len(b.lines) - 1; i >= 0; i-- {
		total += len(b.lines[i]) + 1
		if total > maxBytes {
			break
		}
		start = i
	}

	tail := make([]string, len(b.lines)-start)
	copy(tail, b.lines[start:])
	return tail
}

// SetReadOnly sets the buffer's read-only flag.
func (b *Buffer) SetReadOnly(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readOnly = on
}

// ReadOnly reports whether the buffer is read-only.
func (b *Buffer) ReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readOnly
}
