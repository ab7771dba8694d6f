package cps

import "github.com/oconnor663/coffee-script/ast"

// Flags are the derived annotations the five analysis passes attach to
// a node. They live in a side table keyed by node identity rather than
// on the nodes themselves, so passes stay composable and testable in
// isolation.
type Flags struct {
	// Continuation is the block of statements detached from after this
	// node by rotation. Set at most once per node.
	Continuation *ast.Block
	// ContainsSuspend: the node is or contains a suspension point
	// within the same function scope.
	ContainsSuspend bool
	// InTamedLoop: the node is a structural descendant of a loop that
	// contains a suspension point.
	InTamedLoop bool
	// IsPivot: the node is a suspension point, a jump inside a tamed
	// loop, or an ancestor of either.
	IsPivot bool
	// HasImplicitCallback: the node is lexically inside a function
	// declared with the implicit callback parameter.
	HasImplicitCallback bool
	// GotSplit: emission has already applied the continuation-passing
	// cascade for this node and must not re-enter it.
	GotSplit bool
}

// Marks is the annotation table for one compilation.
type Marks struct {
	m map[ast.Node]*Flags
}

// NewMarks creates an empty annotation table.
func NewMarks() *Marks {
	return &Marks{m: make(map[ast.Node]*Flags)}
}

// Get returns the flags for n, allocating them on first use.
func (ms *Marks) Get(n ast.Node) *Flags {
	f, ok := ms.m[n]
	if !ok {
		f = &Flags{}
		ms.m[n] = f
	}
	return f
}

// Has reports whether n carries any annotations yet.
func (ms *Marks) Has(n ast.Node) bool {
	_, ok := ms.m[n]
	return ok
}

// absorb folds the member flags of a detached suffix into the flags of
// the continuation block that now owns it.
func (f *Flags) absorb(member *Flags) {
	f.ContainsSuspend = f.ContainsSuspend || member.ContainsSuspend
	f.InTamedLoop = f.InTamedLoop || member.InTamedLoop
	f.IsPivot = f.IsPivot || member.IsPivot
	f.HasImplicitCallback = f.HasImplicitCallback || member.HasImplicitCallback
}
