package coffee

import (
	"strings"

	"github.com/oconnor663/coffee-script/ast"
	"github.com/oconnor663/coffee-script/cps"
	"github.com/oconnor663/coffee-script/emit"
	"github.com/oconnor663/coffee-script/errors"
	"github.com/oconnor663/coffee-script/scope"
)

// Options configures one compilation.
type Options struct {
	// Bare omits the top-level self-invoking closure wrapper.
	Bare bool
	// Indent is the indentation unit, two spaces when empty.
	Indent string
	// Runtime selects how generated suspend/resume code reaches its
	// runtime support object. A tameRequire directive in the source
	// overrides it. Empty means none.
	Runtime scope.RuntimeMode
}

// Compile turns a parsed tree into JavaScript source. It is the single
// entry point for the driver: analysis, scope allocation, and emission
// all happen here, and the first violation aborts with an error.
func Compile(root *ast.Block, opts Options) (string, error) {
	if root == nil {
		root = &ast.Block{}
	}

	runtime, err := resolveRuntime(root, opts.Runtime)
	if err != nil {
		return "", err
	}

	marks := cps.Analyze(root)
	sess := scope.NewSession(opts.Indent, opts.Bare, runtime)
	o := &ast.Ctx{Scope: sess.Root, Session: sess, Level: ast.LevelTop}

	prologue, body := splitPrologue(root)

	e := emit.New(marks)
	bodyCtx := o
	if !opts.Bare {
		bodyCtx = o.Indented()
	}
	code, err := e.Statements(body, bodyCtx)
	if err != nil {
		return "", err
	}

	// hoisted declarations and helper assignments come first, in one
	// var statement
	if sess.Root.HasDeclarations() || sess.Root.HasAssignments() {
		entries := append(sess.Root.DeclaredNames(), sess.Root.AssignedNames()...)
		line := bodyCtx.Indent + "var " + strings.Join(entries, ", ") + ";"
		if code == "" {
			code = line
		} else {
			code = line + "\n" + code
		}
	}

	if !opts.Bare {
		code = "(function() {\n" + code + "\n}).call(this);"
	}

	if len(prologue.Exprs) > 0 {
		pro, err := e.Statements(prologue, o)
		if err != nil {
			return "", err
		}
		code = pro + "\n\n" + code
	}
	return code + "\n", nil
}

// resolveRuntime validates every tameRequire directive in the tree
// before any emission happens, the last one winning over the option.
func resolveRuntime(root *ast.Block, mode scope.RuntimeMode) (scope.RuntimeMode, error) {
	if mode == "" {
		mode = scope.RuntimeNone
	}
	var bad error
	ast.WalkAll(root, func(n ast.Node) bool {
		tr, ok := n.(*ast.TameRequire)
		if !ok {
			return true
		}
		m := scope.RuntimeMode(tr.Mode)
		if !m.Valid() {
			bad = errors.BadRuntimeMode(tr.Mode)
			return false
		}
		mode = m
		return true
	})
	if bad != nil {
		return "", bad
	}
	if !mode.Valid() {
		return "", errors.BadRuntimeMode(string(mode))
	}
	return mode, nil
}

// splitPrologue separates the leading comment and bare string literal
// statements, which hoist above the closure wrapper.
func splitPrologue(root *ast.Block) (prologue, body *ast.Block) {
	i := 0
	for ; i < len(root.Exprs); i++ {
		if !isDirective(root.Exprs[i]) {
			break
		}
	}
	return &ast.Block{Exprs: root.Exprs[:i]}, &ast.Block{Exprs: root.Exprs[i:]}
}

func isDirective(n ast.Node) bool {
	switch x := n.(type) {
	case *ast.Comment:
		return true
	case *ast.Literal:
		return x.IsString()
	case *ast.Value:
		if l, ok := x.Base.(*ast.Literal); ok && len(x.Props) == 0 {
			return l.IsString()
		}
	}
	return false
}
