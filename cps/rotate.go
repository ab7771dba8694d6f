package cps

import "github.com/oconnor663/coffee-script/ast"

// Rotate is pass 5: within every pivot-marked statement block, the
// statements following the first pivot are detached into a fresh block
// attached to the pivot as its continuation. Rotation recurses into
// the new continuation (to handle several sequential suspensions) and
// into all other children, so nested blocks each find their own first
// pivot independently.
func (ms *Marks) Rotate(n ast.Node) {
	if n == nil {
		return
	}
	if fn, ok := n.(*ast.Func); ok {
		ms.Rotate(fn.Body)
		return
	}
	if b, ok := n.(*ast.Block); ok && ms.Has(b) && ms.Get(b).IsPivot {
		ms.rotateBlock(b)
		return
	}
	for _, c := range ast.Children(n) {
		ms.Rotate(c)
	}
}

func (ms *Marks) rotateBlock(b *ast.Block) {
	pivotAt := -1
	for i, e := range b.Exprs {
		if ms.Has(e) && ms.Get(e).IsPivot {
			pivotAt = i
			break
		}
	}
	if pivotAt < 0 {
		for _, e := range b.Exprs {
			ms.Rotate(e)
		}
		return
	}

	pivot := b.Exprs[pivotAt]
	debugf("rotating block around %s at %d, detaching %d trailing statements",
		ast.Kind(pivot), pivotAt, len(b.Exprs)-pivotAt-1)

	// Ownership of the suffix transfers to the new continuation block;
	// the original expression list is truncated.
	suffix := append([]ast.Node{}, b.Exprs[pivotAt+1:]...)
	b.Exprs = b.Exprs[:pivotAt+1]
	cont := &ast.Block{Exprs: suffix}

	cf := ms.Get(cont)
	for _, e := range suffix {
		if ms.Has(e) {
			cf.absorb(ms.Get(e))
		}
	}
	ms.Get(pivot).Continuation = cont

	for _, e := range b.Exprs[:pivotAt] {
		ms.Rotate(e)
	}
	for _, c := range ast.Children(pivot) {
		ms.Rotate(c)
	}
	if cf.IsPivot {
		ms.rotateBlock(cont)
	} else {
		for _, e := range cont.Exprs {
			ms.Rotate(e)
		}
	}

	ms.callContinuation(pivot)
}

// callContinuation makes the rotated pivot invoke its continuation on
// every path. Branching constructs push the call onto each branch so
// all paths reconverge; loops call their step closure; suspension
// points leave invocation to the fulfillment tracker.
func (ms *Marks) callContinuation(pivot ast.Node) {
	switch x := pivot.(type) {
	case *ast.Await:
		// the deferral tracker fires the continuation at count zero
	case *ast.Literal:
		// break/continue lower to synthesized closures at emission
	case *ast.If:
		ms.appendToTail(x.Body, contCall())
		if x.Else == nil {
			x.Else = &ast.Block{}
		}
		ms.appendToTail(x.Else, contCall())
	case *ast.Switch:
		for _, c := range x.Cases {
			ms.appendToTail(c.Body, contCall())
		}
		if x.Else == nil {
			x.Else = &ast.Block{}
		}
		ms.appendToTail(x.Else, contCall())
	case *ast.While:
		ms.appendToTail(x.Body, &ast.TailCall{Func: ast.ContinueName})
	case *ast.For:
		ms.appendToTail(x.Body, &ast.TailCall{Func: ast.ContinueName})
	case *ast.Try:
		ms.appendToTail(x.Body, contCall())
		if x.Catch != nil {
			ms.appendToTail(x.Catch, contCall())
		}
	case *ast.Block:
		ms.appendToTail(x, contCall())
	}
}

func contCall() *ast.TailCall {
	return &ast.TailCall{Func: ast.ContName}
}

// appendToTail places call at the true end of the block's execution:
// if the last statement was itself rotated, the call belongs in its
// (possibly nested) continuation; statements that already escape are
// left alone.
func (ms *Marks) appendToTail(b *ast.Block, call *ast.TailCall) {
	if len(b.Exprs) > 0 {
		last := b.Exprs[len(b.Exprs)-1]
		if ms.Has(last) {
			if cont := ms.Get(last).Continuation; cont != nil {
				ms.appendToTail(cont, call)
				return
			}
		}
		if ast.Jumps(last, ast.JumpState{}) != nil {
			return
		}
	}
	b.Exprs = append(b.Exprs, call)
}
