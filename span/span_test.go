package span_test

import (
	"testing"

	"github.com/dpotapov/superhtml/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanBasics(t *testing.T) {
	s := span.New(3, 7)
	assert.Equal(t, uint32(4), s.Len())
	assert.False(t, s.IsEmpty())
	assert.True(t, s.Contains(3))
	assert.True(t, s.Contains(6))
	assert.False(t, s.Contains(7))
	assert.False(t, s.Contains(2))
}

func TestSpanZero(t *testing.T) {
	assert.True(t, span.Zero.IsEmpty())
}

func TestSpanEncloses(t *testing.T) {
	parent := span.New(0, 10)
	child := span.New(2, 5)
	outside := span.New(8, 12)
	assert.True(t, parent.Encloses(child))
	assert.False(t, parent.Encloses(outside))
}

func TestSpanJoin(t *testing.T) {
	a := span.New(4, 6)
	b := span.New(1, 3)
	j := span.Join(a, b)
	assert.Equal(t, span.New(1, 6), j)
}

func TestSpanSlice(t *testing.T) {
	src := []byte("hello world")
	s := span.New(6, 11)
	assert.Equal(t, "world", string(s.Slice(src)))
}

func TestLineIndexPos(t *testing.T) {
	src := []byte("abc\ndef\nghij")
	li := span.NewLineIndex(src)

	require.Equal(t, span.Pos{Line: 1, Column: 1}, li.Pos(0))
	require.Equal(t, span.Pos{Line: 1, Column: 4}, li.Pos(3)) // the '\n' itself
	require.Equal(t, span.Pos{Line: 2, Column: 1}, li.Pos(4)) // 'd'
	require.Equal(t, span.Pos{Line: 3, Column: 3}, li.Pos(10)) // 'i'
}

func TestLocateConvenience(t *testing.T) {
	src := []byte("line1\nline2")
	pos := span.Locate(src, 6)
	assert.Equal(t, span.Pos{Line: 2, Column: 1}, pos)
}

func TestLineIndexMultiByteRunes(t *testing.T) {
	src := []byte("café\nbar")
	li := span.NewLineIndex(src)
	// bytes: c(0) a(1) f(2) é(3-4) \n(5); the newline follows 4 runes, so
	// it sits at column 5 of line 1 even though it is at byte offset 5.
	pos := li.Pos(5)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 5, pos.Column)
}
