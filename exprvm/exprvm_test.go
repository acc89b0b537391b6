package exprvm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/superhtml/exprvm"
	"github.com/dpotapov/superhtml/span"
	"github.com/dpotapov/superhtml/value"
)

func TestRunSimpleString(t *testing.T) {
	m := exprvm.New()
	res, err := m.Run(value.Context{CtxMap: map[string]value.Value{"name": value.String("world")}},
		`"hello " + name`, span.Zero)
	require.NoError(t, err)
	assert.Equal(t, "hello world", res.Value.Str)
}

func TestRunLoopIt(t *testing.T) {
	m := exprvm.New()
	ctx := value.Context{Loop: &value.LoopContext{It: value.ValueOrNil{Value: value.String("a"), Valid: true}}}
	res, err := m.Run(ctx, "loop.it", span.Zero)
	require.NoError(t, err)
	assert.Equal(t, "a", res.Value.Str)
}

func TestRunArrayBecomesIterator(t *testing.T) {
	m := exprvm.New()
	res, err := m.Run(value.Context{}, `["a", "b"]`, span.Zero)
	require.NoError(t, err)
	require.Equal(t, value.KindIterator, res.Value.Kind)
	v, ok := res.Value.Iter.Next()
	require.True(t, ok)
	assert.Equal(t, "a", v.Str)
}

func TestRunCompileError(t *testing.T) {
	m := exprvm.New()
	_, err := m.Run(value.Context{}, `(((`, span.Zero)
	assert.Error(t, err)
}
