// Package interp is the tree-walking template interpreter (spec.md §4.6):
// it drives a chain of extend/super templates against a value.ExprVM and
// streams rendered output. It is grounded on chtml/render.go's render/
// renderElement/renderC/evalIf/evalFor walk, generalized from "render a
// live etree-derived Node tree" to "walk an immutable tmplast.Tree,
// emitting pass-through bytes from the original source between the sparse
// set of template-relevant nodes".
//
// The per-evaluation arena spec.md §3/§9 calls for is realized as Go's own
// call stack and garbage collector: every scoped binding (loop context, if
// context, ctx map) lives in a value.Context passed down the recursive
// evaluation walk and is released the moment that call returns — the same
// isolation and release-on-completion guarantee a bump allocator gives,
// without a manual allocator, which matches the idiomatic Go style the
// corpus uses throughout (no example repo hand-rolls an arena either).
package interp

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/dpotapov/superhtml/diag"
	"github.com/dpotapov/superhtml/htmlast"
	"github.com/dpotapov/superhtml/span"
	"github.com/dpotapov/superhtml/tmplast"
	"github.com/dpotapov/superhtml/value"
)

// TemplateSource is one resolved template: its source bytes and both ASTs
// built over them, plus the path used for diagnostics and cycle detection.
type TemplateSource struct {
	Path     string
	Src      []byte
	HTML     *htmlast.Tree
	Template *tmplast.Tree
	IsXML    bool
}

// Status is the interpreter's explicit state, per spec.md §9's
// "suspend/resume without coroutines" design note.
type Status int

const (
	StatusInit Status = iota
	StatusDiscovering
	StatusRunning
	StatusDone
	StatusFatal
	StatusWantTemplate
)

// Error is a fatal interpreter error carrying the extend-chain trace from
// outermost to innermost template, per spec.md §4.6/§7.
type Error struct {
	Tag   diag.Tag
	Msg   string
	Trace []string
	Loc   span.Span
}

func (e *Error) Error() string {
	if len(e.Trace) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (trace: %s)", e.Msg, strings.Join(e.Trace, " -> "))
}

// Config groups the interpreter's functional options (SPEC_FULL.md §3),
// matching the option-function idiom the teacher's chtml package already
// uses for its own parser/importer configuration.
type Config struct {
	Quota int
}

// Option configures an Interpreter.
type Option func(*Config)

// WithQuota overrides the default evaluation-step quota (spec.md §4.6/§6).
func WithQuota(n int) Option {
	return func(c *Config) { c.Quota = n }
}

// Interpreter drives one evaluation of a content template plus its extend
// chain. It is not safe for concurrent use by multiple goroutines on the
// same value, but independent Interpreters (and their independent
// *value.ExprVM, if stateless) may run concurrently (spec.md §5).
type Interpreter struct {
	vm     value.ExprVM
	cfg    Config
	out    io.Writer
	errw   io.Writer

	status   Status
	wantName string
	wantSpan span.Span
	wantFrom *TemplateSource

	chain []*TemplateSource // chain[0] = content/layout; chain[last] = topmost extended
	seen  map[string]bool

	levels []*levelState // populated once execution begins
	steps  int
}

// New creates an Interpreter writing rendered output to out and fatal
// interpreter errors to errw.
func New(vm value.ExprVM, out, errw io.Writer, opts ...Option) *Interpreter {
	cfg := Config{Quota: 100}
	for _, o := range opts {
		o(&cfg)
	}
	return &Interpreter{vm: vm, cfg: cfg, out: out, errw: errw, seen: map[string]bool{}}
}

// Status returns the interpreter's current state.
func (ip *Interpreter) Status() Status { return ip.status }

// WantTemplate returns the name and reference span of the template the
// interpreter is waiting on, valid only when Status() == StatusWantTemplate.
func (ip *Interpreter) WantTemplate() (name string, loc span.Span) {
	return ip.wantName, ip.wantSpan
}

// Start begins discovery from content (the innermost template: the one the
// host asked to render). Call Advance in a loop afterward.
func (ip *Interpreter) Start(content *TemplateSource) {
	ip.chain = []*TemplateSource{content}
	ip.seen = map[string]bool{content.Path: true}
	ip.status = StatusDiscovering
}

// InsertTemplate supplies the template the interpreter last requested via
// WantTemplate. Must be called only when Status() == StatusWantTemplate.
func (ip *Interpreter) InsertTemplate(src *TemplateSource) {
	ip.chain = append(ip.chain, src)
	ip.seen[src.Path] = true
	ip.status = StatusDiscovering
}

// Advance drives the state machine forward. It returns when the caller
// must act: StatusWantTemplate (call InsertTemplate), StatusDone, or an
// error (fatal, matching spec.md §7's "aborts on first error").
func (ip *Interpreter) Advance() error {
	for {
		switch ip.status {
		case StatusInit:
			return fmt.Errorf("interp: Start was never called")

		case StatusDiscovering:
			if err := ip.discoverStep(); err != nil {
				ip.status = StatusFatal
				fmt.Fprintln(ip.errw, err)
				return err
			}
			if ip.status == StatusWantTemplate {
				return nil
			}

		case StatusRunning:
			if err := ip.execute(); err != nil {
				ip.status = StatusFatal
				fmt.Fprintln(ip.errw, err)
				return err
			}
			ip.status = StatusDone
			return nil

		case StatusWantTemplate:
			return nil

		case StatusDone:
			return nil

		case StatusFatal:
			return fmt.Errorf("interp: already fatal")
		}
	}
}

func (ip *Interpreter) discoverStep() error {
	top := ip.chain[len(ip.chain)-1]
	extendsIdx := top.Template.ExtendsIdx
	if extendsIdx == tmplast.None {
		if err := ip.validateChain(); err != nil {
			return err
		}
		ip.status = StatusRunning
		return nil
	}

	extendNode := top.Template.Node(extendsIdx)
	name := extendNode.ID
	loc := extendNode.IDSpan
	resolved, err := ip.resolveTemplateName(top, name, loc)
	if err != nil {
		return err
	}
	if ip.seen[resolved] {
		return &Error{Tag: diag.TagExtensionLoop, Msg: "extension loop detected: " + resolved, Trace: ip.trace(), Loc: loc}
	}

	ip.wantName = resolved
	ip.wantSpan = loc
	ip.wantFrom = top
	ip.status = StatusWantTemplate
	return nil
}

// resolveTemplateName evaluates the extend element's `template` attribute
// if it was scripted; otherwise the literal string captured at Template AST
// build time is used directly.
func (ip *Interpreter) resolveTemplateName(src *TemplateSource, raw string, loc span.Span) (string, error) {
	if raw == "" {
		return "", &Error{Tag: diag.TagUnresolvedTemplate, Msg: "empty template name", Loc: loc}
	}
	if loc.End > loc.Start && src.Src[loc.Start] == '$' {
		v, err := ip.eval(0, raw, loc, value.Context{})
		if err != nil {
			return "", err
		}
		name, ok := v.AsText()
		if !ok || name == "" {
			return "", &Error{Tag: diag.TagUnresolvedTemplate, Msg: "template expression did not produce a name", Loc: loc, Trace: ip.trace()}
		}
		return name, nil
	}
	return raw, nil
}

func (ip *Interpreter) trace() []string {
	out := make([]string, len(ip.chain))
	for i, c := range ip.chain {
		out[len(ip.chain)-1-i] = c.Path
	}
	return out
}

func (ip *Interpreter) validateChain() error {
	for i := 0; i < len(ip.chain)-1; i++ {
		e, x := ip.chain[i], ip.chain[i+1]
		diags := tmplast.ValidateAdjacent(e.Template, x.Template)
		if len(diags) > 0 {
			d := diags[0]
			src := x
			if d.MainInExtend {
				src = e
			}
			return &Error{Tag: d.Tag, Msg: fmt.Sprintf("%s: %s", d.Tag, src.Path), Trace: ip.trace(), Loc: d.Main}
		}
	}
	return nil
}

// execute runs the evaluation walk starting at the topmost extended
// template (the root of the chain), per spec.md §4.6.
func (ip *Interpreter) execute() error {
	levels := make([]*levelState, len(ip.chain))
	for i, c := range ip.chain {
		levels[i] = &levelState{src: c}
	}
	ip.levels = levels

	top := len(levels) - 1
	if err := ip.walkSiblings(top, tmplast.Root, value.Context{}); err != nil {
		return err
	}
	ip.flushTo(top, uint32(len(levels[top].src.Src)))
	ip.flushAllRemaining()
	return nil
}

// flushAllRemaining emits any bytes still unflushed on the bottommost
// (content) template, per spec.md §4.6's "On reaching the end of the
// bottommost template, flush remaining source and terminate."
func (ip *Interpreter) flushAllRemaining() {
	ip.flushTo(0, uint32(len(ip.levels[0].src.Src)))
}

type levelState struct {
	src    *TemplateSource
	cursor uint32
}

func (ip *Interpreter) flushTo(level int, offset uint32) {
	lv := ip.levels[level]
	if offset <= lv.cursor {
		return
	}
	ip.out.Write(lv.src.Src[lv.cursor:offset])
	lv.cursor = offset
}

func (ip *Interpreter) emit(s string) {
	io.WriteString(ip.out, s)
}

func (ip *Interpreter) tick() error {
	ip.steps++
	if ip.steps > ip.cfg.Quota {
		return &Error{Tag: diag.TagInfiniteLoop, Msg: "iteration quota exhausted", Trace: ip.trace()}
	}
	return nil
}

// escapeHTML implements the `:text` / scripted-attribute-value escaping
// policy, using the standard library's html.EscapeString.
func escapeHTML(s string) string { return html.EscapeString(s) }
