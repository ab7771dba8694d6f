package emit

import (
	"strings"
	"testing"

	"github.com/oconnor663/coffee-script/ast"
	"github.com/oconnor663/coffee-script/errors"
)

func TestCompileAssign(t *testing.T) {
	tests := []struct {
		name  string
		setup func(o *ast.Ctx)
		node  *ast.Assign
		want  string
	}{
		{
			name: "plain",
			node: &ast.Assign{Target: ast.Ident("x"), Value: lit("1")},
			want: "x = 1",
		},
		{
			name: "property target",
			node: &ast.Assign{
				Target: ast.NewValue(lit("a"), &ast.Access{Name: "b"}),
				Value:  lit("1"),
			},
			want: "a.b = 1",
		},
		{
			name: "arithmetic compound",
			node: &ast.Assign{Target: ast.Ident("x"), Value: lit("2"), Op: "+="},
			want: "x += 2",
		},
		{
			name:  "or compound expands",
			setup: func(o *ast.Ctx) { o.Scope.Declare("x") },
			node:  &ast.Assign{Target: ast.Ident("x"), Value: lit("1"), Op: "||="},
			want:  "x || (x = 1)",
		},
		{
			name:  "and compound expands",
			setup: func(o *ast.Ctx) { o.Scope.Declare("x") },
			node:  &ast.Assign{Target: ast.Ident("x"), Value: lit("1"), Op: "&&="},
			want:  "x && (x = 1)",
		},
		{
			name:  "existential compound guards in statement position",
			setup: func(o *ast.Ctx) { o.Scope.Declare("x") },
			node:  &ast.Assign{Target: ast.Ident("x"), Value: lit("1"), Op: "?="},
			want:  "if (x == null) {\n  x = 1;\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testCtx()
			if tt.setup != nil {
				tt.setup(o)
			}
			if got := mustCompile(t, tt.node, o); got != tt.want {
				t.Errorf("Compile = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSoakedAssignTarget(t *testing.T) {
	tests := []struct {
		name string
		node *ast.Assign
		want string
	}{
		{
			name: "plain write hoists the guard",
			node: &ast.Assign{
				Target: ast.NewValue(lit("a"), &ast.Access{Name: "b", Soak: true}),
				Value:  lit("1"),
			},
			want: "if (a != null) {\n  a.b = 1;\n}",
		},
		{
			name: "compound write",
			node: &ast.Assign{
				Target: ast.NewValue(lit("a"), &ast.Access{Name: "b", Soak: true}),
				Value:  lit("2"),
				Op:     "+=",
			},
			want: "if (a != null) {\n  a.b += 2;\n}",
		},
		{
			name: "complex prefix evaluated once",
			node: &ast.Assign{
				Target: ast.NewValue(lit("a"),
					&ast.Index{Expr: lit("0")},
					&ast.Access{Name: "b", Soak: true}),
				Value: lit("1"),
			},
			want: "if ((_ref = a[0]) != null) {\n  _ref.b = 1;\n}",
		},
		{
			name: "existential compound nests its own guard",
			node: &ast.Assign{
				Target: ast.NewValue(lit("a"), &ast.Access{Name: "b", Soak: true}),
				Value:  lit("1"),
				Op:     "?=",
			},
			want: "if (a != null) {\n  if (a.b == null) {\n    a.b = 1;\n  }\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testCtx()
			o.Scope.Declare("a")
			if got := mustCompile(t, tt.node, o); got != tt.want {
				t.Errorf("Compile = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSoakedAssignAsExpression(t *testing.T) {
	o := testCtx()
	o.Scope.Declare("a")
	n := &ast.Assign{
		Target: ast.NewValue(lit("a"), &ast.Access{Name: "b", Soak: true}),
		Value:  lit("1"),
	}
	got, err := New(nil).Compile(n, o, ast.LevelList)
	if err != nil {
		t.Fatal(err)
	}
	want := "a != null ? a.b = 1 : void 0"
	if got != want {
		t.Errorf("Compile = %q, want %q", got, want)
	}
}

func TestExistentialAssignAsExpression(t *testing.T) {
	o := testCtx()
	o.Scope.Declare("x")
	n := &ast.Assign{Target: ast.Ident("x"), Value: lit("1"), Op: "?="}
	got, err := New(nil).Compile(n, o, ast.LevelList)
	if err != nil {
		t.Fatal(err)
	}
	want := "x != null ? x : x = 1"
	if got != want {
		t.Errorf("Compile = %q, want %q", got, want)
	}
}

func TestAssignDeclaresTarget(t *testing.T) {
	o := testCtx()
	mustCompile(t, &ast.Assign{Target: ast.Ident("x"), Value: lit("1")}, o)
	if !o.Scope.Resolve("x") {
		t.Error("assignment to an unresolved name should declare it")
	}

	// a second compilation in a child scope resolves against the parent
	child := o.Scope.NewChild(false)
	mustCompile(t, &ast.Assign{Target: ast.Ident("x"), Value: lit("2")}, o.InScope(child))
	if child.DeclaredLocally("x") {
		t.Error("an already visible name must not be redeclared in the child")
	}
}

func TestAssignErrors(t *testing.T) {
	tests := []struct {
		name string
		node *ast.Assign
		kind errors.Kind
	}{
		{
			name: "reserved word target",
			node: &ast.Assign{Target: ast.Ident("class"), Value: lit("1")},
			kind: errors.KindReservedWord,
		},
		{
			name: "literal target",
			node: &ast.Assign{Target: lit("5"), Value: lit("1")},
			kind: errors.KindBadAssignTarget,
		},
		{
			name: "two splats in one pattern",
			node: &ast.Assign{
				Target: &ast.Arr{Elems: []ast.Node{
					&ast.Splat{Expr: ast.Ident("a")},
					&ast.Splat{Expr: ast.Ident("b")},
				}},
				Value: ast.Ident("src"),
			},
			kind: errors.KindMultipleSplats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testCtx()
			_, err := New(nil).Compile(tt.node, o, ast.LevelTop)
			ce, ok := err.(*errors.Error)
			if !ok || ce.Kind != tt.kind {
				t.Fatalf("err = %v, want kind %s", err, tt.kind)
			}
		})
	}
}

func TestDestructuring(t *testing.T) {
	tests := []struct {
		name string
		node *ast.Assign
		want string
	}{
		{
			name: "array pattern",
			node: &ast.Assign{
				Target: &ast.Arr{Elems: []ast.Node{ast.Ident("a"), ast.Ident("b")}},
				Value:  ast.Ident("src"),
			},
			want: "_ref = src, a = _ref[0], b = _ref[1]",
		},
		{
			name: "trailing splat",
			node: &ast.Assign{
				Target: &ast.Arr{Elems: []ast.Node{ast.Ident("a"), &ast.Splat{Expr: ast.Ident("rest")}}},
				Value:  ast.Ident("src"),
			},
			want: "_ref = src, a = _ref[0], rest = __slice.call(_ref, 1)",
		},
		{
			name: "element after splat indexes from the end",
			node: &ast.Assign{
				Target: &ast.Arr{Elems: []ast.Node{
					ast.Ident("first"),
					&ast.Splat{Expr: ast.Ident("mid")},
					ast.Ident("last"),
				}},
				Value: ast.Ident("src"),
			},
			want: "_ref = src, first = _ref[0], mid = __slice.call(_ref, 1, _ref.length - 1), last = _ref[_ref.length - 1]",
		},
		{
			name: "single target unrolls without a temporary",
			node: &ast.Assign{
				Target: &ast.Obj{Props: []ast.Node{ast.Ident("name")}},
				Value:  ast.Ident("person"),
			},
			want: "name = person.name",
		},
		{
			name: "object pattern with renamed key",
			node: &ast.Assign{
				Target: &ast.Obj{Props: []ast.Node{
					&ast.Assign{Target: ast.Ident("a"), Value: ast.Ident("x"), InObject: true},
					&ast.Assign{Target: ast.Ident("b"), Value: ast.Ident("y"), InObject: true},
				}},
				Value: ast.Ident("src"),
			},
			want: "_ref = src, x = _ref.a, y = _ref.b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testCtx()
			if got := mustCompile(t, tt.node, o); got != tt.want {
				t.Errorf("Compile = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDestructuringEvaluatesSourceOnce(t *testing.T) {
	o := testCtx()
	n := &ast.Assign{
		Target: &ast.Arr{Elems: []ast.Node{ast.Ident("a"), ast.Ident("b")}},
		Value:  &ast.Call{Callee: ast.Ident("f")},
	}
	got := mustCompile(t, n, o)
	if strings.Count(got, "f()") != 1 {
		t.Errorf("source should evaluate exactly once, got %q", got)
	}
	if !strings.HasPrefix(got, "_ref = f()") {
		t.Errorf("source should be cached first, got %q", got)
	}
}

func TestSingleTargetDestructureCompilesSourceOnce(t *testing.T) {
	o := testCtx()
	o.Scope.Declare("b")
	// the argument's existential-or burns a temporary each time it
	// compiles, so a second pass would hoist a spare _ref1
	n := &ast.Assign{
		Target: &ast.Obj{Props: []ast.Node{ast.Ident("name")}},
		Value: &ast.Call{Callee: ast.Ident("h"), Args: []ast.Node{
			&ast.Op{Op: "?", First: &ast.Call{Callee: ast.Ident("g")}, Second: ast.Ident("b")},
		}},
	}
	got := mustCompile(t, n, o)
	if !strings.Contains(got, "_ref = g()") {
		t.Errorf("existential-or should cache its operand, got %q", got)
	}
	for _, d := range o.Scope.DeclaredNames() {
		if d == "_ref1" {
			t.Errorf("single-target unroll compiled the source twice, declared names %v", o.Scope.DeclaredNames())
		}
	}
}

func TestDestructuringAsExpression(t *testing.T) {
	o := testCtx()
	n := &ast.Assign{
		Target: &ast.Arr{Elems: []ast.Node{ast.Ident("a"), ast.Ident("b")}},
		Value:  ast.Ident("src"),
	}
	got, err := New(nil).Compile(n, o, ast.LevelList)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "(") || !strings.HasSuffix(got, ", _ref)") {
		t.Errorf("expression form should parenthesize and yield the source, got %q", got)
	}
}
