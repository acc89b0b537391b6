// Package span provides the byte-offset location primitives shared by every
// layer of the SuperHTML toolchain. Diagnostics and cross-references carry
// Spans, never copied strings; row/column are derived on demand from the
// original source bytes.
package span

import "sort"

// Span is a half-open byte range [Start, End) into some source buffer.
type Span struct {
	Start uint32
	End   uint32
}

// Zero is the empty span used as a "none" sentinel (e.g. the close span of a
// void element).
var Zero = Span{}

// New builds a Span, panicking if end < start (a programmer error: every
// caller computes these from token boundaries it has already read).
func New(start, end uint32) Span {
	if end < start {
		panic("span: end before start")
	}
	return Span{Start: start, End: end}
}

// IsEmpty reports whether the span covers zero bytes.
func (s Span) IsEmpty() bool { return s.Start == s.End }

// Len returns the number of bytes the span covers.
func (s Span) Len() uint32 { return s.End - s.Start }

// Contains reports whether the byte offset lies within the span.
func (s Span) Contains(offset uint32) bool {
	return offset >= s.Start && offset < s.End
}

// Encloses reports whether s fully contains other (invariant I3 of the HTML
// AST: parent spans enclose child spans).
func (s Span) Encloses(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Slice returns the bytes the span covers in src.
func (s Span) Slice(src []byte) []byte {
	return src[s.Start:s.End]
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end}
}

// Pos is a 1-based row/column location derived from a Span's start offset.
type Pos struct {
	Line   int // 1-based
	Column int // 1-based, counted in runes
}

// LineIndex supports cheap offset -> (line, column) lookups over a source
// buffer by precomputing line-start offsets once and binary-searching them
// thereafter. This is the "derive row/column on demand" design called for in
// the data model: tokens and AST nodes store only byte offsets.
type LineIndex struct {
	src         []byte
	lineStarts  []uint32
}

// NewLineIndex scans src once for newlines.
func NewLineIndex(src []byte) *LineIndex {
	starts := make([]uint32, 1, 64)
	starts[0] = 0
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return &LineIndex{src: src, lineStarts: starts}
}

// Pos returns the row/column of a byte offset. Column is counted in runes
// from the start of the line, per the data model.
func (li *LineIndex) Pos(offset uint32) Pos {
	line := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	lineStart := li.lineStarts[line]
	col := 1
	for _, r := range string(li.src[lineStart:minU32(offset, uint32(len(li.src)))]) {
		_ = r
		col++
	}
	return Pos{Line: line + 1, Column: col}
}

// Locate is a convenience one-shot helper for callers that do not hold onto
// a LineIndex (e.g. one-off error formatting). Prefer NewLineIndex when
// locating many offsets in the same source.
func Locate(src []byte, offset uint32) Pos {
	return NewLineIndex(src).Pos(offset)
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
