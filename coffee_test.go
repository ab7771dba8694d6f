package coffee

import (
	"strings"
	"testing"

	"github.com/oconnor663/coffee-script/ast"
	"github.com/oconnor663/coffee-script/errors"
	"github.com/oconnor663/coffee-script/scope"
)

func assign(name string, val ast.Node) *ast.Assign {
	return &ast.Assign{Target: ast.Ident(name), Value: val}
}

func call(name string, args ...ast.Node) *ast.Call {
	return &ast.Call{Callee: ast.Ident(name), Args: args}
}

func num(s string) *ast.Literal { return &ast.Literal{Val: s} }

func mustContain(t *testing.T, out string, frags ...string) {
	t.Helper()
	for _, f := range frags {
		if !strings.Contains(out, f) {
			t.Errorf("output missing %q:\n%s", f, out)
		}
	}
}

func TestCompileBare(t *testing.T) {
	root := ast.NewBlock(assign("x", num("1")))
	got, err := Compile(root, Options{Bare: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "var x;\nx = 1;\n"
	if got != want {
		t.Errorf("Compile = %q, want %q", got, want)
	}
}

func TestCompileWrapsByDefault(t *testing.T) {
	root := ast.NewBlock(assign("x", num("1")))
	got, err := Compile(root, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "(function() {\n  var x;\n  x = 1;\n}).call(this);\n"
	if got != want {
		t.Errorf("Compile = %q, want %q", got, want)
	}
}

func TestCompileNilRoot(t *testing.T) {
	got, err := Compile(nil, Options{Bare: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got != "\n" {
		t.Errorf("Compile = %q, want a single newline", got)
	}
}

func TestPrologueHoistsAboveWrapper(t *testing.T) {
	root := ast.NewBlock(
		&ast.Comment{Text: " license "},
		&ast.Literal{Val: `"use strict"`},
		assign("x", num("1")),
	)
	got, err := Compile(root, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.HasPrefix(got, "/* license */\n\"use strict\";\n\n(function() {") {
		t.Errorf("prologue not hoisted:\n%s", got)
	}
}

func TestCustomIndent(t *testing.T) {
	root := ast.NewBlock(assign("x", num("1")))
	got, err := Compile(root, Options{Indent: "\t"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	mustContain(t, got, "\n\tvar x;\n\tx = 1;\n")
}

func TestSuspendEndToEnd(t *testing.T) {
	aw := &ast.Await{Body: ast.NewBlock(call("g",
		&ast.Defer{Slots: []*ast.Slot{{Target: ast.Ident("a")}}}))}
	root := ast.NewBlock(call("f"), aw, call("h", ast.Ident("a")))

	got, err := Compile(root, Options{Bare: true, Runtime: scope.RuntimeInline})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	mustContain(t, got,
		"f();",
		"(function(__tame_k) {",
		"var __tame_deferrals = new __tame.Deferrals(__tame_k);",
		"g(__tame_deferrals.defer({",
		"a = arguments[0];",
		"__tame_deferrals._fulfill();",
		"})(function() {",
		"h(a);",
		"var a, __tame = { Deferrals:",
	)
}

func TestTamedLoopEndToEnd(t *testing.T) {
	aw := &ast.Await{Body: ast.NewBlock(call("tick",
		&ast.Defer{Slots: nil}))}
	w := &ast.While{Cond: ast.Ident("running"), Body: ast.NewBlock(aw)}
	root := ast.NewBlock(w)

	got, err := Compile(root, Options{Bare: true, Runtime: scope.RuntimeInline})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	mustContain(t, got,
		"var __tame_break = __tame_k;",
		"var __tame_while = function(__tame_k) {",
		"return __tame_while(__tame_k);",
		"return __tame_break();",
		"return __tame_continue();",
	)
}

func TestRuntimeDirectiveNode(t *testing.T) {
	root := ast.NewBlock(
		&ast.TameRequire{Mode: "node"},
		&ast.Await{Body: &ast.Block{}},
	)
	got, err := Compile(root, Options{Bare: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	mustContain(t, got, `__tame = require("coffee-script").tame`)
}

func TestRuntimeDirectiveRejectedBeforeEmission(t *testing.T) {
	root := ast.NewBlock(&ast.TameRequire{Mode: "bogus"})
	_, err := Compile(root, Options{Bare: true})
	ce, ok := err.(*errors.Error)
	if !ok {
		t.Fatalf("err = %v, want structured error", err)
	}
	if ce.Kind != errors.KindBadRuntimeMode {
		t.Fatalf("kind = %s, want %s", ce.Kind, errors.KindBadRuntimeMode)
	}
}

func TestImplicitCallbackEndToEnd(t *testing.T) {
	fn := &ast.Func{
		Params: []*ast.Param{{Name: ast.ImplicitCallbackName}},
		Body:   ast.NewBlock(&ast.Return{Expr: num("1")}),
	}
	root := ast.NewBlock(assign("f", fn))
	got, err := Compile(root, Options{Bare: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	mustContain(t, got, "return autocb(1);")
}

func TestClassEndToEnd(t *testing.T) {
	cls := &ast.Class{
		Name:   "A",
		Parent: ast.Ident("B"),
		Props: []*ast.Assign{
			{Target: ast.Ident("m"), Value: &ast.Func{Body: ast.NewBlock(num("1"))}},
		},
	}
	root := ast.NewBlock(cls)
	got, err := Compile(root, Options{Bare: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	mustContain(t, got,
		"var A, __hasProp = {}.hasOwnProperty, __extends = function(child, parent)",
		"A = (function(_super) {",
		"__extends(A, _super);",
		"return A;",
		"})(B);",
	)
}
