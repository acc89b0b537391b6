package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dpotapov/superhtml/value"
)

func TestIsTruthy(t *testing.T) {
	assert.True(t, value.Bool(true).IsTruthy())
	assert.False(t, value.Bool(false).IsTruthy())
	assert.False(t, value.None().IsTruthy())
	assert.True(t, value.Some(value.Int(1)).IsTruthy())
}

func TestAsText(t *testing.T) {
	s, ok := value.String("hi").AsText()
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	s, ok = value.Int(42).AsText()
	assert.True(t, ok)
	assert.Equal(t, "42", s)

	_, ok = value.Bool(true).AsText()
	assert.False(t, ok)
}

func TestArrayIterator(t *testing.T) {
	it := value.NewArrayIterator([]value.Value{value.String("a"), value.String("b")})
	v, ok := it.Next()
	assert.True(t, ok)
	assert.Equal(t, "a", v.Str)

	v, ok = it.Next()
	assert.True(t, ok)
	assert.Equal(t, "b", v.Str)

	_, ok = it.Next()
	assert.False(t, ok)
}

func TestShapeOfOptional(t *testing.T) {
	sh := value.ShapeOf(value.Some(value.String("x")))
	assert.Equal(t, value.ShapeOptional, sh.Kind)
	assert.Equal(t, value.ShapeString, sh.Elem.Kind)
}
