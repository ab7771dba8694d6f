package cps

import (
	"testing"

	"github.com/oconnor663/coffee-script/ast"
)

func await() *ast.Await {
	return &ast.Await{Body: &ast.Block{}}
}

func call(name string) *ast.Call {
	return &ast.Call{Callee: ast.Ident(name)}
}

func TestMarkSuspensions(t *testing.T) {
	aw := await()
	block := ast.NewBlock(call("a"), aw, call("b"))

	ms := NewMarks()
	ms.MarkSuspensions(block)

	if !ms.Get(aw).ContainsSuspend {
		t.Error("the suspension point itself should be marked")
	}
	if !ms.Get(block).ContainsSuspend {
		t.Error("the enclosing block should be marked")
	}
}

func TestMarkSuspensionsStopsAtFunctions(t *testing.T) {
	inner := await()
	fn := &ast.Func{Body: ast.NewBlock(inner)}
	block := ast.NewBlock(&ast.Assign{Target: ast.Ident("f"), Value: fn})

	ms := NewMarks()
	ms.MarkSuspensions(block)

	if ms.Get(block).ContainsSuspend {
		t.Error("a suspension inside a nested function must not mark the outer block")
	}
	if !ms.Get(fn.Body).ContainsSuspend {
		t.Error("the nested function body should be seeded independently")
	}
}

func TestFloodLoops(t *testing.T) {
	brk := &ast.Literal{Val: "break"}
	body := ast.NewBlock(await(), brk)
	loop := &ast.While{Cond: ast.Ident("c"), Body: body}
	root := ast.NewBlock(loop)

	ms := NewMarks()
	ms.MarkSuspensions(root)
	ms.FloodLoops(root)

	if !ms.Get(loop).InTamedLoop {
		t.Error("the loop itself should carry the tamed flag")
	}
	if !ms.Get(brk).InTamedLoop {
		t.Error("a jump in the loop body should carry the tamed flag")
	}
}

func TestFloodStopsAtUntamedInnerLoop(t *testing.T) {
	innerBrk := &ast.Literal{Val: "break"}
	inner := &ast.While{Cond: ast.Ident("d"), Body: ast.NewBlock(innerBrk)}
	outer := &ast.While{Cond: ast.Ident("c"), Body: ast.NewBlock(await(), inner)}
	root := ast.NewBlock(outer)

	ms := NewMarks()
	ms.MarkSuspensions(root)
	ms.FloodLoops(root)

	if ms.Get(inner).InTamedLoop {
		t.Error("an inner loop without suspensions binds its own jumps natively")
	}
	if ms.Get(innerBrk).InTamedLoop {
		t.Error("a break in an untamed inner loop must stay a native break")
	}
}

func TestMarkPivots(t *testing.T) {
	aw := await()
	cond := &ast.If{Cond: ast.Ident("x"), Body: ast.NewBlock(aw, call("y"))}
	root := ast.NewBlock(cond, call("z"))

	ms := NewMarks()
	ms.MarkSuspensions(root)
	ms.FloodLoops(root)
	ms.MarkPivots(root)

	if !ms.Get(aw).IsPivot {
		t.Error("the suspension point is a pivot")
	}
	if !ms.Get(cond).IsPivot {
		t.Error("an ancestor of a suspension point is a pivot")
	}
	if ms.Has(root.Exprs[1]) && ms.Get(root.Exprs[1]).IsPivot {
		t.Error("a pure trailing sibling is not a pivot")
	}
}

func TestJumpInTamedLoopIsPivot(t *testing.T) {
	brk := &ast.Literal{Val: "break"}
	loop := &ast.While{Cond: ast.Ident("c"), Body: ast.NewBlock(await(), brk)}
	root := ast.NewBlock(loop)

	ms := NewMarks()
	ms.MarkSuspensions(root)
	ms.FloodLoops(root)
	ms.MarkPivots(root)

	if !ms.Get(brk).IsPivot {
		t.Error("a jump inside a tamed loop is a pivot")
	}
}

func TestMarkImplicitCallbacks(t *testing.T) {
	ret := &ast.Return{Expr: &ast.Literal{Val: "1"}}
	withCB := &ast.Func{
		Params: []*ast.Param{{Name: ast.ImplicitCallbackName}},
		Body:   ast.NewBlock(ret),
	}
	plainRet := &ast.Return{}
	plain := &ast.Func{Body: ast.NewBlock(plainRet)}
	root := ast.NewBlock(
		&ast.Assign{Target: ast.Ident("f"), Value: withCB},
		&ast.Assign{Target: ast.Ident("g"), Value: plain},
	)

	ms := NewMarks()
	ms.MarkImplicitCallbacks(root, false)

	if !ms.Get(ret).HasImplicitCallback {
		t.Error("return inside an autocb function should be marked")
	}
	if ms.Has(plainRet) && ms.Get(plainRet).HasImplicitCallback {
		t.Error("return in a plain function must not be marked")
	}
}

func TestNestedFunctionResetsImplicitCallback(t *testing.T) {
	innerRet := &ast.Return{}
	inner := &ast.Func{Body: ast.NewBlock(innerRet)}
	outer := &ast.Func{
		Params: []*ast.Param{{Name: ast.ImplicitCallbackName}},
		Body:   ast.NewBlock(&ast.Assign{Target: ast.Ident("h"), Value: inner}),
	}
	root := ast.NewBlock(&ast.Assign{Target: ast.Ident("f"), Value: outer})

	ms := NewMarks()
	ms.MarkImplicitCallbacks(root, false)

	if ms.Has(innerRet) && ms.Get(innerRet).HasImplicitCallback {
		t.Error("a nested function without autocb resets the mark")
	}
}

func TestRotateDetachesSuffix(t *testing.T) {
	aw := await()
	z := call("z")
	root := ast.NewBlock(call("a"), aw, z, call("w"))

	ms := Analyze(root)

	if len(root.Exprs) != 2 {
		t.Fatalf("block length after rotation = %d, want 2", len(root.Exprs))
	}
	cont := ms.Get(aw).Continuation
	if cont == nil {
		t.Fatal("pivot should own a continuation block")
	}
	if len(cont.Exprs) != 2 {
		t.Fatalf("continuation length = %d, want 2", len(cont.Exprs))
	}
	if cont.Exprs[0] != ast.Node(z) {
		t.Error("continuation should own the detached statements in order")
	}
}

func TestRotateBranchesReconverge(t *testing.T) {
	aw := await()
	branch := &ast.If{Cond: ast.Ident("x"), Body: ast.NewBlock(aw, call("y"))}
	root := ast.NewBlock(branch, call("z"))

	ms := Analyze(root)

	// z() moves into the continuation of the if, not of the await
	cont := ms.Get(branch).Continuation
	if cont == nil {
		t.Fatal("branching pivot should own the trailing statements")
	}
	if len(cont.Exprs) != 1 {
		t.Fatalf("if continuation length = %d, want 1", len(cont.Exprs))
	}

	// y() stays in the continuation of the await
	awCont := ms.Get(aw).Continuation
	if awCont == nil {
		t.Fatal("inner pivot should own its own continuation")
	}
	found := false
	for _, e := range awCont.Exprs {
		if c, ok := e.(*ast.Call); ok {
			if v, ok := c.Callee.(*ast.Value); ok {
				if name, _ := v.IsIdent(); name == "y" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("statements after the await inside the branch belong to its continuation")
	}

	// both branches must invoke the continuation
	if branch.Else == nil {
		t.Fatal("an else branch should be synthesized for reconvergence")
	}
	last := branch.Else.Exprs[len(branch.Else.Exprs)-1]
	tc, ok := last.(*ast.TailCall)
	if !ok || tc.Func != ast.ContName {
		t.Error("the synthesized else branch should call the continuation")
	}
}

func TestRotateAppendsContinueToLoopBody(t *testing.T) {
	aw := await()
	loop := &ast.While{Cond: ast.Ident("c"), Body: ast.NewBlock(aw)}
	root := ast.NewBlock(loop, call("z"))

	ms := Analyze(root)

	if ms.Get(loop).Continuation == nil {
		t.Fatal("the loop pivot should own the trailing statements")
	}
	// the loop body's execution tail re-enters through the step closure
	awCont := ms.Get(aw).Continuation
	if awCont == nil {
		t.Fatal("await inside the loop body should have been rotated")
	}
	last := awCont.Exprs[len(awCont.Exprs)-1]
	tc, ok := last.(*ast.TailCall)
	if !ok || tc.Func != ast.ContinueName {
		t.Errorf("loop body tail should call the step closure, got %s", ast.Kind(last))
	}
}

func TestRotateSkipsJumpingTails(t *testing.T) {
	aw := await()
	body := ast.NewBlock(aw, &ast.Return{})
	branch := &ast.If{Cond: ast.Ident("x"), Body: body}
	root := ast.NewBlock(branch, call("z"))

	ms := Analyze(root)

	if got := len(body.Exprs); got != 1 {
		t.Fatalf("body length after rotation = %d, want 1 (await only)", got)
	}
	// the detached tail ends in a return, so no continuation call is
	// appended after it
	awCont := ms.Get(aw).Continuation
	if awCont == nil {
		t.Fatal("await should own the detached return")
	}
	if _, ok := awCont.Exprs[len(awCont.Exprs)-1].(*ast.Return); !ok {
		t.Error("a jumping tail must not be followed by a continuation call")
	}
}

func TestGotSplitBlocksReentry(t *testing.T) {
	f := &Flags{Continuation: &ast.Block{}}
	if f.GotSplit {
		t.Fatal("fresh flags must not be split")
	}
	f.GotSplit = true
	if !f.GotSplit {
		t.Fatal("split marker should persist")
	}
}

func TestAbsorb(t *testing.T) {
	cont := &Flags{}
	cont.absorb(&Flags{ContainsSuspend: true})
	cont.absorb(&Flags{InTamedLoop: true, HasImplicitCallback: true})

	if !cont.ContainsSuspend || !cont.InTamedLoop || !cont.HasImplicitCallback {
		t.Error("absorb should OR member flags into the continuation")
	}
	if cont.GotSplit {
		t.Error("absorb must not transfer the split marker")
	}
}
