// Package emit implements the code-generation engine: per-node-kind
// emission driven by a compilation context, closure-wrapping of
// statements used as expressions, soak desugaring, and the
// continuation-passing cascade for rewritten suspend/resume code.
package emit

import (
	"strings"

	"github.com/oconnor663/coffee-script/ast"
	"github.com/oconnor663/coffee-script/cps"
	"github.com/oconnor663/coffee-script/errors"
)

// methodRef tracks the enclosing class method while its body compiles,
// so super calls can resolve their target.
type methodRef struct {
	class string
	name  string
	ctor  bool
}

// Emitter turns a node tree into target-language text. One Emitter
// serves one compilation; it carries the annotation table produced by
// the analysis passes and caches soak unfoldings.
type Emitter struct {
	marks   *cps.Marks
	soaks   map[ast.Node]ast.Node
	methods []methodRef
}

// New creates an emitter over the given annotation table. A nil table
// is allowed for trees that never suspend.
func New(marks *cps.Marks) *Emitter {
	if marks == nil {
		marks = cps.NewMarks()
	}
	return &Emitter{
		marks: marks,
		soaks: make(map[ast.Node]ast.Node),
	}
}

// flags returns n's annotations, or nil if the passes never marked it.
func (e *Emitter) flags(n ast.Node) *cps.Flags {
	if !e.marks.Has(n) {
		return nil
	}
	return e.marks.Get(n)
}

// Compile emits n into the given context at the given level. The
// context is cloned, never mutated in place.
func (e *Emitter) Compile(n ast.Node, o *ast.Ctx, lvl ast.Level) (string, error) {
	o = o.With(lvl)

	if sub, err := e.unfoldSoak(n, o); err != nil {
		return "", err
	} else if sub != nil {
		return e.Compile(sub, o, o.Level)
	}

	if f := e.flags(n); f != nil && f.Continuation != nil && !f.GotSplit &&
		ast.IsStatement(n, o) {
		return e.compileCascade(n, o)
	}

	// a single-expression block in expression position is transparent
	if b, ok := n.(*ast.Block); ok && o.Level != ast.LevelTop && len(b.Exprs) == 1 {
		return e.Compile(b.Exprs[0], o, o.Level)
	}

	if o.Level == ast.LevelTop || !ast.IsStatement(n, o) {
		return e.compileNode(n, o)
	}
	return e.compileClosure(n, o)
}

// compileNode dispatches on the node kind. Every kind in the model
// must appear here.
func (e *Emitter) compileNode(n ast.Node, o *ast.Ctx) (string, error) {
	switch x := n.(type) {
	case *ast.Block:
		return e.Statements(x, o)
	case *ast.Literal:
		return e.compileLiteral(x, o)
	case *ast.Return:
		return e.compileReturn(x, o)
	case *ast.Value:
		return e.compileValue(x, o)
	case *ast.Range:
		return e.compileRange(x, o)
	case *ast.Obj:
		return e.compileObj(x, o)
	case *ast.Arr:
		return e.compileArr(x, o)
	case *ast.Call:
		return e.compileCall(x, o)
	case *ast.Extends:
		return e.compileExtends(x, o)
	case *ast.Assign:
		return e.compileAssign(x, o)
	case *ast.Func:
		return e.compileFunc(x, o)
	case *ast.Splat:
		// a bare splat outside an arg/array position spreads nothing
		return e.Compile(x.Expr, o, o.Level)
	case *ast.While:
		return e.compileWhile(x, o)
	case *ast.For:
		return e.compileFor(x, o)
	case *ast.Switch:
		return e.compileSwitch(x, o)
	case *ast.If:
		return e.compileIf(x, o)
	case *ast.Op:
		return e.compileOp(x, o)
	case *ast.In:
		return e.compileIn(x, o)
	case *ast.Try:
		return e.compileTry(x, o)
	case *ast.Throw:
		return e.compileThrow(x, o)
	case *ast.Existence:
		return e.compileExistence(x, o)
	case *ast.Parens:
		return e.compileParens(x, o)
	case *ast.Class:
		return e.compileClass(x, o)
	case *ast.Comment:
		return "/*" + x.Text + "*/", nil
	case *ast.Await:
		return e.compileAwait(x, o)
	case *ast.Defer:
		return e.compileDefer(x, o)
	case *ast.TameRequire:
		// the directive was consumed during configuration
		return "", nil
	case *ast.TailCall:
		return e.compileTailCall(x, o)
	default:
		return "", errors.UnknownNode(errors.PhaseEmit, ast.Kind(n))
	}
}

// Statements emits each expression of a block in statement position,
// one line per statement with the context's indentation.
func (e *Emitter) Statements(b *ast.Block, o *ast.Ctx) (string, error) {
	var lines []string
	for _, stmt := range b.Exprs {
		line, err := e.compileStatement(stmt, o)
		if err != nil {
			return "", err
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// compileStatement emits one statement line: indentation, code, and a
// terminating semicolon where the statement form needs one.
func (e *Emitter) compileStatement(n ast.Node, o *ast.Ctx) (string, error) {
	code, err := e.Compile(n, o, ast.LevelTop)
	if err != nil {
		return "", err
	}
	if code == "" {
		return "", nil
	}
	if _, ok := n.(*ast.Comment); ok {
		return o.Indent + code, nil
	}
	// an expression statement may not begin with { or function
	if strings.HasPrefix(code, "{") || strings.HasPrefix(code, "function") {
		code = "(" + code + ")"
	}
	if !strings.HasSuffix(code, ";") && !(bracedStatement(code) && strings.HasSuffix(code, "}")) {
		code += ";"
	}
	return o.Indent + code, nil
}

// bracedStatement reports whether the emitted statement is a braced
// control form, which takes no semicolon. Expression kinds can lower
// to such forms, a guarded soaked write for one, so the check runs on
// the emitted text rather than the node kind.
func bracedStatement(code string) bool {
	for _, kw := range [...]string{"if (", "while (", "for (", "switch (", "try {"} {
		if strings.HasPrefix(code, kw) {
			return true
		}
	}
	return false
}

// compileClosure wraps a statement in an immediately-invoked closure
// so it can be used where an expression is expected. The closure's
// scope is shared with the enclosing one so names still resolve as if
// in the parent. Wrapping a statement that escapes control flow is an
// error.
func (e *Emitter) compileClosure(n ast.Node, o *ast.Ctx) (string, error) {
	if j := ast.Jumps(n, ast.JumpState{}); j != nil {
		return "", errors.JumpInClosure(jumpKeyword(j))
	}
	callThis := ast.ContainsThis(n)
	body := ast.AsBlock(ast.MakeReturn(n, ""))

	inner := o.InScope(o.Scope.NewChild(true)).Indented()
	inner.Level = ast.LevelTop
	text, err := e.Statements(body, inner)
	if err != nil {
		return "", err
	}
	call := "()"
	if callThis {
		call = ".call(this)"
	}
	return "(function() {\n" + text + "\n" + o.Indent + "})" + call, nil
}

func jumpKeyword(j ast.Node) string {
	if l, ok := j.(*ast.Literal); ok {
		return l.Val
	}
	return "return"
}

// compileCascade wraps a rotated pivot statement in the
// continuation-passing form: a single-parameter closure holding the
// pivot, immediately invoked with a zero-parameter closure holding the
// pivot's continuation block.
func (e *Emitter) compileCascade(n ast.Node, o *ast.Ctx) (string, error) {
	f := e.marks.Get(n)
	f.GotSplit = true
	debugf("cascade around %s, continuation of %d statements",
		ast.Kind(n), len(f.Continuation.Exprs))

	inner := o.Indented()
	inner.Tamed = true
	pivot, err := e.compileStatement(n, inner)
	if err != nil {
		return "", err
	}
	contBody, err := e.Statements(f.Continuation, inner)
	if err != nil {
		return "", err
	}
	cont := "function() {}"
	if contBody != "" {
		cont = "function() {\n" + contBody + "\n" + o.Indent + "}"
	}
	return "(function(" + ast.ContName + ") {\n" + pivot + "\n" + o.Indent + "})(" + cont + ");", nil
}
