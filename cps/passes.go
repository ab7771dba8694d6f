package cps

import "github.com/oconnor663/coffee-script/ast"

// Analyze runs the five analysis passes over the whole tree in their
// required order. Each pass reads flags written by the previous one,
// so the order is load-bearing: suspension discovery, loop flood,
// pivot marking, implicit-callback marking, rotation.
func Analyze(root ast.Node) *Marks {
	ms := NewMarks()
	ms.MarkSuspensions(root)
	ms.FloodLoops(root)
	ms.MarkPivots(root)
	ms.MarkImplicitCallbacks(root, false)
	ms.Rotate(root)
	return ms
}

// MarkSuspensions is pass 1: leaf suspension points mark themselves
// and the mark propagates up through structural parents within the
// same function scope. Nested function bodies are seeded independently
// since they are separately rewritten.
func (ms *Marks) MarkSuspensions(n ast.Node) bool {
	if n == nil {
		return false
	}
	if fn, ok := n.(*ast.Func); ok {
		if ms.MarkSuspensions(fn.Body) {
			debugf("suspension inside function body")
		}
		return false
	}
	_, found := n.(*ast.Await)
	for _, c := range ast.Children(n) {
		if ms.MarkSuspensions(c) {
			found = true
		}
	}
	if found {
		ms.Get(n).ContainsSuspend = true
	}
	return found
}

// FloodLoops is pass 2: every loop holding a suspension floods the
// tamed-loop flag down into its structural descendants. The flood
// stops at nested function bodies and at inner loops that hold no
// suspension themselves, since jumps inside those still bind natively.
func (ms *Marks) FloodLoops(n ast.Node) {
	if n == nil {
		return
	}
	if fn, ok := n.(*ast.Func); ok {
		ms.FloodLoops(fn.Body)
		return
	}
	if isLoop(n) && ms.Get(n).ContainsSuspend {
		debugf("flooding tamed loop %s", ast.Kind(n))
		ms.flood(n)
	}
	for _, c := range ast.Children(n) {
		ms.FloodLoops(c)
	}
}

func (ms *Marks) flood(n ast.Node) {
	ms.Get(n).InTamedLoop = true
	for _, c := range ast.Children(n) {
		if _, ok := c.(*ast.Func); ok {
			continue
		}
		if isLoop(c) && !ms.Get(c).ContainsSuspend {
			continue
		}
		ms.flood(c)
	}
}

// MarkPivots is pass 3: a node is a pivot if it is suspend-marked, is
// a jump inside a tamed loop, or is an ancestor of either.
func (ms *Marks) MarkPivots(n ast.Node) bool {
	if n == nil {
		return false
	}
	if fn, ok := n.(*ast.Func); ok {
		ms.MarkPivots(fn.Body)
		return false
	}
	pivot := ms.Get(n).ContainsSuspend
	if isJump(n) && ms.Get(n).InTamedLoop {
		pivot = true
	}
	for _, c := range ast.Children(n) {
		if ms.MarkPivots(c) {
			pivot = true
		}
	}
	if pivot {
		ms.Get(n).IsPivot = true
	}
	return pivot
}

// MarkImplicitCallbacks is pass 4: every node lexically inside a
// function declared with the implicit callback parameter is marked.
// A nested function resets the mark according to its own parameters.
func (ms *Marks) MarkImplicitCallbacks(n ast.Node, active bool) {
	if n == nil {
		return
	}
	if fn, ok := n.(*ast.Func); ok {
		inner := fn.HasImplicitCallback()
		if inner {
			ms.Get(fn).HasImplicitCallback = true
		}
		ms.MarkImplicitCallbacks(fn.Body, inner)
		return
	}
	if active {
		ms.Get(n).HasImplicitCallback = true
	}
	for _, c := range ast.Children(n) {
		ms.MarkImplicitCallbacks(c, active)
	}
}

func isLoop(n ast.Node) bool {
	switch n.(type) {
	case *ast.While, *ast.For:
		return true
	}
	return false
}

func isJump(n ast.Node) bool {
	l, ok := n.(*ast.Literal)
	return ok && (l.Val == "break" || l.Val == "continue")
}
