// Package scan implements the bounded long-line detector.
//
// The detector inspects a bounded prefix window of a buffer: it skips the
// leading run of blank and comment-only lines, then examines at most
// maxLines subsequent lines, short-circuiting on the first line whose
// length exceeds the threshold. Cost is independent of total buffer size.
package scan

import "github.com/dshills/longmode/internal/engine/buffer"

// Result describes the outcome of a detection scan.
type Result struct {
	// Found is true when a line longer than the threshold was seen.
	Found bool

	// Line is the 0-indexed line number of the detected long line.
	// Only meaningful when Found is true.
	Line int

	// Length is the rune length of the detected long line.
	Length int

	// Scanned is the number of lines the scan actually examined.
	Scanned int
}

// Detect reports whether any of the first maxLines lines after the leading
// comment/blank block exceeds threshold runes.
func Detect(buf *buffer.Buffer, maxLines, threshold int) bool {
	return DetectResult(buf, maxLines, threshold).Found
}

// DetectResult runs the detection scan and returns full details.
//
// A maxLines of zero or less yields an immediate negative. A threshold of
// zero makes any non-empty line count as excessive. A buffer shorter than
// the scan window yields a negative if no examined line matches.
func DetectResult(buf *buffer.Buffer, maxLines, threshold int) Result {
	var res Result
	if buf == nil || maxLines <= 0 {
		return res
	}
	if threshold < 0 {
		threshold = 0
	}

	start := buf.SkipLeadingIrrelevant()
	count := buf.LineCount()

	for i := start; i < count && res.Scanned < maxLines; i++ {
		res.Scanned++
		if length := buf.LineLen(i); length > threshold {
			res.Found = true
			res.Line = i
			res.Length = length
			return res
		}
	}
	return res
}
