package ast

import "testing"

func TestIsStatement(t *testing.T) {
	top := &Ctx{Level: LevelTop}
	expr := &Ctx{Level: LevelList}

	tests := []struct {
		name string
		node Node
		ctx  *Ctx
		want bool
	}{
		{name: "return", node: &Return{}, ctx: expr, want: true},
		{name: "throw", node: &Throw{Expr: Ident("e")}, ctx: expr, want: true},
		{name: "while", node: &While{Cond: Ident("c"), Body: &Block{}}, ctx: expr, want: true},
		{name: "break literal", node: &Literal{Val: "break"}, ctx: expr, want: true},
		{name: "plain literal", node: &Literal{Val: "1"}, ctx: expr, want: false},
		{name: "operator", node: &Op{Op: "+", First: Ident("a"), Second: Ident("b")}, ctx: expr, want: false},
		{name: "named class", node: &Class{Name: "A"}, ctx: expr, want: true},
		{name: "anonymous class", node: &Class{}, ctx: expr, want: false},
		{name: "if at top level", node: &If{Cond: Ident("c"), Body: &Block{}}, ctx: top, want: true},
		{
			name: "if expression with pure branches",
			node: &If{Cond: Ident("c"), Body: NewBlock(Ident("a")), Else: NewBlock(Ident("b"))},
			ctx:  expr,
			want: false,
		},
		{
			name: "if with statement branch",
			node: &If{Cond: Ident("c"), Body: NewBlock(&Return{})},
			ctx:  expr,
			want: true,
		},
		{
			name: "soak unfolding is never a statement",
			node: &If{Cond: Ident("c"), Body: NewBlock(&Return{}), IsSoak: true},
			ctx:  top,
			want: false,
		},
		{
			name: "block with statement child",
			node: NewBlock(Ident("a"), &Return{}),
			ctx:  expr,
			want: true,
		},
		{
			name: "block of expressions",
			node: NewBlock(Ident("a"), Ident("b")),
			ctx:  expr,
			want: false,
		},
		{name: "await", node: &Await{Body: &Block{}}, ctx: expr, want: true},
		{name: "tail call", node: &TailCall{Func: ContName}, ctx: expr, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStatement(tt.node, tt.ctx); got != tt.want {
				t.Errorf("IsStatement(%s) = %v, want %v", Kind(tt.node), got, tt.want)
			}
		})
	}
}

func TestIsComplex(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want bool
	}{
		{name: "literal", node: &Literal{Val: "42"}, want: false},
		{name: "bare identifier", node: Ident("x"), want: false},
		{name: "property access", node: NewValue(&Literal{Val: "x"}, &Access{Name: "y"}), want: true},
		{name: "call", node: &Call{Callee: Ident("f")}, want: true},
		{name: "parens around literal", node: &Parens{Body: &Literal{Val: "1"}}, want: false},
		{name: "parens around call", node: &Parens{Body: &Call{Callee: Ident("f")}}, want: true},
		{name: "literal range", node: &Range{From: &Literal{Val: "1"}, To: &Literal{Val: "3"}}, want: false},
		{name: "computed range", node: &Range{From: &Literal{Val: "1"}, To: &Call{Callee: Ident("f")}}, want: true},
		{name: "operator", node: &Op{Op: "+", First: Ident("a"), Second: Ident("b")}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// repeated queries must agree: the check drives caching
			// decisions on both sides of a reuse
			first := IsComplex(tt.node)
			second := IsComplex(tt.node)
			if first != second {
				t.Fatalf("IsComplex not stable: %v then %v", first, second)
			}
			if first != tt.want {
				t.Errorf("IsComplex(%s) = %v, want %v", Kind(tt.node), first, tt.want)
			}
		})
	}
}

func TestJumps(t *testing.T) {
	tests := []struct {
		name  string
		node  Node
		state JumpState
		want  bool
	}{
		{name: "bare break escapes", node: &Literal{Val: "break"}, want: true},
		{name: "break inside loop", node: &Literal{Val: "break"}, state: JumpState{Loop: true}, want: false},
		{name: "break inside switch", node: &Literal{Val: "break"}, state: JumpState{Block: true}, want: false},
		{name: "continue inside switch still escapes", node: &Literal{Val: "continue"}, state: JumpState{Block: true}, want: true},
		{name: "return always escapes", node: &Return{}, want: true},
		{
			name: "loop contains its own break",
			node: &While{Cond: Ident("c"), Body: NewBlock(&Literal{Val: "break"})},
			want: false,
		},
		{
			name: "loop cannot contain a return",
			node: &While{Cond: Ident("c"), Body: NewBlock(&Return{})},
			want: true,
		},
		{
			name: "if escapes through either branch",
			node: &If{Cond: Ident("c"), Body: NewBlock(Ident("a")), Else: NewBlock(&Return{})},
			want: true,
		},
		{
			name: "switch absorbs breaks",
			node: &Switch{Cases: []*SwitchCase{{Conds: []Node{Ident("a")}, Body: NewBlock(&Literal{Val: "break"})}}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Jumps(tt.node, tt.state) != nil
			if got != tt.want {
				t.Errorf("Jumps(%s) escape = %v, want %v", Kind(tt.node), got, tt.want)
			}
		})
	}
}

func TestMakeReturnBlock(t *testing.T) {
	b := NewBlock(Ident("a"), Ident("b"))
	out := AsBlock(MakeReturn(b, ""))

	if len(out.Exprs) != 2 {
		t.Fatalf("block length = %d, want 2", len(out.Exprs))
	}
	r, ok := out.Exprs[1].(*Return)
	if !ok {
		t.Fatalf("last expression = %s, want Return", Kind(out.Exprs[1]))
	}
	if v, ok := r.Expr.(*Value); !ok || func() bool { n, _ := v.IsIdent(); return n != "b" }() {
		t.Errorf("returned expression is not b")
	}
	if _, ok := out.Exprs[0].(*Value); !ok {
		t.Errorf("first expression should be untouched, got %s", Kind(out.Exprs[0]))
	}
}

func TestMakeReturnSkipsTrailingComment(t *testing.T) {
	b := NewBlock(Ident("a"), &Comment{Text: "done"})
	out := AsBlock(MakeReturn(b, ""))

	if _, ok := out.Exprs[0].(*Return); !ok {
		t.Errorf("return should wrap the last non-comment expression, got %s", Kind(out.Exprs[0]))
	}
	if _, ok := out.Exprs[1].(*Comment); !ok {
		t.Errorf("trailing comment should stay in place")
	}
}

func TestMakeReturnIf(t *testing.T) {
	n := &If{Cond: Ident("c"), Body: NewBlock(Ident("a"))}
	out := MakeReturn(n, "").(*If)

	if _, ok := out.Body.Exprs[0].(*Return); !ok {
		t.Errorf("then branch should return, got %s", Kind(out.Body.Exprs[0]))
	}
	if out.Else != nil {
		t.Errorf("no else branch should be synthesized without an accumulator")
	}

	acc := &If{Cond: Ident("c"), Body: NewBlock(Ident("a"))}
	accOut := MakeReturn(acc, "_results").(*If)
	if accOut.Else == nil {
		t.Fatal("accumulator form should synthesize an else branch")
	}
	call, ok := accOut.Else.Exprs[0].(*Call)
	if !ok {
		t.Fatalf("else branch = %s, want push call", Kind(accOut.Else.Exprs[0]))
	}
	if len(call.Args) != 1 {
		t.Errorf("push call args = %d, want 1", len(call.Args))
	}
}

func TestMakeReturnLoop(t *testing.T) {
	w := &While{Cond: Ident("c"), Body: NewBlock(Ident("a"))}
	out := MakeReturn(w, "").(*While)
	if !out.Returns {
		t.Error("loop should accumulate results for a plain return")
	}

	w2 := &While{Cond: Ident("c"), Body: NewBlock(Ident("a"))}
	pushed := MakeReturn(w2, "_results")
	if _, ok := pushed.(*Call); !ok {
		t.Errorf("loop under an accumulator should become a push call, got %s", Kind(pushed))
	}
}

func TestAssigns(t *testing.T) {
	tests := []struct {
		name string
		node Node
		q    string
		want bool
	}{
		{name: "direct assign", node: &Assign{Target: Ident("x"), Value: &Literal{Val: "1"}}, q: "x", want: true},
		{name: "other name", node: &Assign{Target: Ident("x"), Value: &Literal{Val: "1"}}, q: "y", want: false},
		{
			name: "array pattern",
			node: &Assign{Target: &Arr{Elems: []Node{Ident("a"), Ident("b")}}, Value: Ident("src")},
			q:    "b",
			want: true,
		},
		{
			name: "splat pattern",
			node: &Assign{Target: &Arr{Elems: []Node{&Splat{Expr: Ident("rest")}}}, Value: Ident("src")},
			q:    "rest",
			want: true,
		},
		{name: "loop variable", node: &For{ValueVar: "v", Body: &Block{}}, q: "v", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Assigns(tt.node, tt.q); got != tt.want {
				t.Errorf("Assigns(%s, %q) = %v, want %v", Kind(tt.node), tt.q, got, tt.want)
			}
		})
	}
}
