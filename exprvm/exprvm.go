// Package exprvm is the default value.ExprVM implementation, compiling and
// running `$`-prefixed template expressions with github.com/expr-lang/expr.
// It is grounded on the teacher's own use of expr-lang/expr in
// chtml/expr.go and chtml/component.go (expr.Compile, vm.VM.Run against a
// map-based environment) — generalized from "component argument expression"
// to the spec's Value/Context model, and kept behind value.ExprVM so the
// interpreter core never imports this package directly.
package exprvm

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/dpotapov/superhtml/span"
	"github.com/dpotapov/superhtml/value"
)

// VM compiles and caches expr-lang programs by source text, the same
// compile-once/run-many shape as chtml.Component's cond/loop/text *vm.Program
// fields.
type VM struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
}

// New returns a ready-to-use VM.
func New() *VM {
	return &VM{cache: make(map[string]*vm.Program)}
}

var _ value.ExprVM = (*VM)(nil)

// Run compiles code (caching by source text) and evaluates it against an
// environment built from ctx, converting the expr-lang result back into a
// value.Value.
func (m *VM) Run(ctx value.Context, code string, loc span.Span) (value.Result, error) {
	prog, err := m.compile(code)
	if err != nil {
		return value.Result{}, &value.ExprError{Message: err.Error(), Loc: loc}
	}

	env := buildEnv(ctx)
	out, err := expr.Run(prog, env)
	if err != nil {
		return value.Result{}, &value.ExprError{Message: err.Error(), Loc: loc}
	}

	v, err := toValue(out)
	if err != nil {
		return value.Result{}, &value.ExprError{Message: err.Error(), Loc: loc}
	}
	return value.Result{Value: v, Loc: loc}, nil
}

func (m *VM) compile(code string) (*vm.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prog, ok := m.cache[code]; ok {
		return prog, nil
	}
	prog, err := expr.Compile(code, expr.Optimize(true))
	if err != nil {
		return nil, err
	}
	m.cache[code] = prog
	return prog, nil
}

// buildEnv projects value.Context into the map-based environment expr-lang
// expressions see: $loop, $if, and every <ctx> binding by name.
func buildEnv(ctx value.Context) map[string]any {
	env := make(map[string]any, len(ctx.CtxMap)+2)
	for k, v := range ctx.CtxMap {
		env[k] = toAny(v)
	}
	if ctx.Loop != nil {
		env["loop"] = loopEnv(ctx.Loop)
	}
	if ctx.If != nil {
		env["if"] = toAny(*ctx.If)
	}
	return env
}

func loopEnv(l *value.LoopContext) map[string]any {
	out := map[string]any{}
	if l.It.Valid {
		out["it"] = toAny(l.It.Value)
	}
	if l.Up != nil {
		out["up"] = loopEnv(l.Up)
	}
	return out
}

func toAny(v value.Value) any {
	switch v.Kind {
	case value.KindString:
		return v.Str
	case value.KindInt:
		return v.Int
	case value.KindBool:
		return v.Bool
	case value.KindOptional:
		if v.Opt == nil {
			return nil
		}
		return toAny(*v.Opt)
	case value.KindError:
		return v.Err
	default:
		return nil
	}
}

// toValue converts an expr-lang result back into a value.Value. Arrays
// become iterator Values (the implicit array->iterator conversion `:loop`
// relies on); anything else unrepresentable is an error Value rather than a
// panic, since it crosses the host boundary.
func toValue(out any) (value.Value, error) {
	switch v := out.(type) {
	case nil:
		return value.None(), nil
	case string:
		return value.String(v), nil
	case bool:
		return value.Bool(v), nil
	case int:
		return value.Int(int64(v)), nil
	case int64:
		return value.Int(v), nil
	case float64:
		return value.Int(int64(v)), nil
	case []any:
		items := make([]value.Value, 0, len(v))
		for _, e := range v {
			ev, err := toValue(e)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, ev)
		}
		return value.FromArray(items), nil
	default:
		return value.Value{}, fmt.Errorf("exprvm: unsupported result type %T", out)
	}
}
