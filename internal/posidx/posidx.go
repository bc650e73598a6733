// Package posidx translates byte offsets into 1-based (line, column) pairs
// for a content blob, built once per parse in O(n) and queried in O(log n).
package posidx

import "sort"

// Position is a single located point in a content blob. Column and offset
// are counted in bytes, not grapheme clusters — a deliberate choice
// consistent with how downstream tools index slices.
type Position struct {
	Line       int
	Column     int
	ByteOffset int
	ByteLength int
}

// Index is an ordered sequence of byte offsets of line starts, built once
// per content blob.
type Index struct {
	lineStarts []int
	length     int
}

// New scans content once for newline bytes and records the offset of the
// start of each line. Line 1 always starts at offset 0.
func New(content []byte) *Index {
	starts := make([]int, 1, 64)
	starts[0] = 0
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{lineStarts: starts, length: len(content)}
}

// NewFromString is a convenience wrapper around New.
func NewFromString(content string) *Index {
	return New([]byte(content))
}

// Locate converts a byte offset into a (line, column) pair, both 1-based.
// line = 1 + upper_bound(line_starts, offset) - 1
// column = 1 + offset - line_starts[line-1]
func (idx *Index) Locate(offset int) (line, column int) {
	// upper_bound: index of first line start strictly greater than offset.
	ub := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > offset
	})
	line = ub // 1 + ub - 1
	if line < 1 {
		line = 1
	}
	column = 1 + offset - idx.lineStarts[line-1]
	return line, column
}

// Position builds a full Position for a [offset, offset+length) span.
func (idx *Index) Position(offset, length int) Position {
	line, col := idx.Locate(offset)
	return Position{Line: line, Column: col, ByteOffset: offset, ByteLength: length}
}

// LineCount returns the number of lines recorded (always >= 1).
func (idx *Index) LineCount() int {
	return len(idx.lineStarts)
}

// LineStart returns the byte offset where the given 1-based line starts.
func (idx *Index) LineStart(line int) int {
	if line < 1 {
		line = 1
	}
	if line > len(idx.lineStarts) {
		return idx.length
	}
	return idx.lineStarts[line-1]
}

// LineEnd returns the byte offset one past the end of the given 1-based
// line's content, excluding its trailing newline.
func (idx *Index) LineEnd(line int) int {
	start := idx.LineStart(line)
	if line >= len(idx.lineStarts) {
		return idx.length
	}
	next := idx.lineStarts[line]
	if next > start && next-1 <= idx.length {
		return next - 1
	}
	return next
}
