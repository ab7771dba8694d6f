package ast

import "testing"

func TestWalkStopsAtFunctionBoundary(t *testing.T) {
	inner := &Call{Callee: Ident("hidden")}
	tree := NewBlock(
		&Call{Callee: Ident("visible")},
		&Assign{Target: Ident("f"), Value: &Func{Body: NewBlock(inner)}},
	)

	seenFunc, seenInner := false, false
	Walk(tree, func(n Node) bool {
		if _, ok := n.(*Func); ok {
			seenFunc = true
		}
		if n == Node(inner) {
			seenInner = true
		}
		return true
	})
	if !seenFunc {
		t.Error("the function node itself should be visited")
	}
	if seenInner {
		t.Error("function body must not be entered by Walk")
	}
}

func TestWalkAllCrossesFunctionBoundary(t *testing.T) {
	inner := &Call{Callee: Ident("hidden")}
	tree := NewBlock(&Func{Body: NewBlock(inner)})

	found := false
	WalkAll(tree, func(n Node) bool {
		if n == Node(inner) {
			found = true
		}
		return true
	})
	if !found {
		t.Error("WalkAll should reach nested function bodies")
	}
}

func TestWalkPrunes(t *testing.T) {
	pruned := Ident("pruned")
	tree := NewBlock(&If{Cond: Ident("c"), Body: NewBlock(pruned)})

	visited := false
	Walk(tree, func(n Node) bool {
		if n == Node(pruned) {
			visited = true
		}
		if _, ok := n.(*If); ok {
			return false
		}
		return true
	})
	if visited {
		t.Error("returning false should prune the subtree")
	}
}

func TestContainsThis(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want bool
	}{
		{
			name: "direct reference",
			node: NewBlock(NewValue(&Literal{Val: "this"}, &Access{Name: "x"})),
			want: true,
		},
		{
			name: "no reference",
			node: NewBlock(&Call{Callee: Ident("f")}),
			want: false,
		},
		{
			name: "reference only inside nested function",
			node: NewBlock(&Func{Body: NewBlock(NewValue(&Literal{Val: "this"}))}),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsThis(tt.node); got != tt.want {
				t.Errorf("ContainsThis = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChildrenSkipsNilSlots(t *testing.T) {
	n := &If{Cond: Ident("c"), Body: &Block{}}
	for _, c := range Children(n) {
		if c == nil {
			t.Fatal("Children returned a nil entry")
		}
	}
	ret := &Return{}
	if got := Children(ret); len(got) != 0 {
		t.Errorf("Children of a bare return = %d entries, want 0", len(got))
	}
}
