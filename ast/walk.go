package ast

// Children returns n's structural children in declaration order.
func Children(n Node) []Node {
	switch x := n.(type) {
	case *Block:
		return x.Exprs
	case *Return:
		return nonNil(x.Expr)
	case *Value:
		return append(nonNil(x.Base), x.Props...)
	case *Index:
		return nonNil(x.Expr)
	case *Slice:
		return nonNil(x.R)
	case *Range:
		return nonNil(x.From, x.To)
	case *Obj:
		return x.Props
	case *Arr:
		return x.Elems
	case *Call:
		return append(nonNil(x.Callee), x.Args...)
	case *Extends:
		return nonNil(x.Child, x.Parent)
	case *Assign:
		return nonNil(x.Target, x.Value)
	case *Func:
		out := make([]Node, 0, len(x.Params)+1)
		for _, p := range x.Params {
			out = append(out, p)
		}
		return append(out, x.Body)
	case *Param:
		return nonNil(x.Default)
	case *Splat:
		return nonNil(x.Expr)
	case *While:
		return nonNil(x.Cond, x.Guard, x.Body)
	case *For:
		return nonNil(x.Source, x.Step, x.Guard, x.Body)
	case *Switch:
		out := nonNil(x.Subject)
		for _, c := range x.Cases {
			out = append(out, c)
		}
		if x.Else != nil {
			out = append(out, x.Else)
		}
		return out
	case *SwitchCase:
		return append(append([]Node{}, x.Conds...), x.Body)
	case *If:
		out := nonNil(x.Cond, x.Body)
		if x.Else != nil {
			out = append(out, x.Else)
		}
		return out
	case *Op:
		return nonNil(x.First, x.Second)
	case *In:
		return nonNil(x.Val, x.Array)
	case *Try:
		return nonNil(x.Body, x.Catch, x.Finally)
	case *Throw:
		return nonNil(x.Expr)
	case *Existence:
		return nonNil(x.Expr)
	case *Parens:
		return nonNil(x.Body)
	case *Class:
		out := nonNil(x.Parent)
		for _, p := range x.Props {
			out = append(out, p)
		}
		return out
	case *Await:
		return nonNil(x.Body)
	case *Defer:
		out := make([]Node, 0, len(x.Slots))
		for _, s := range x.Slots {
			out = append(out, s)
		}
		return out
	case *Slot:
		return nonNil(x.Target)
	case *TailCall:
		return x.Args
	default:
		// Literal, Access, Comment, TameRequire carry no children.
		return nil
	}
}

func nonNil(nodes ...Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		switch v := n.(type) {
		case nil:
			continue
		case *Block:
			if v == nil {
				continue
			}
		case *Value:
			if v == nil {
				continue
			}
		case *Range:
			if v == nil {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// Walk visits n and its descendants depth-first in declaration order,
// without crossing into nested function bodies. The function body
// itself is reached only through its own Walk. Returning false from f
// prunes the subtree below the current node.
func Walk(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	if _, ok := n.(*Func); ok {
		return
	}
	for _, c := range Children(n) {
		Walk(c, f)
	}
}

// WalkAll is Walk without the function-boundary stop.
func WalkAll(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		WalkAll(c, f)
	}
}

// Contains reports whether any strict descendant of n, within the same
// function scope, satisfies pred.
func Contains(n Node, pred func(Node) bool) bool {
	found := false
	for _, c := range Children(n) {
		Walk(c, func(d Node) bool {
			if found {
				return false
			}
			if pred(d) {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}

// ContainsThis reports whether the subtree references this within the
// current function scope, used to decide whether a closure wrapper
// must be invoked with .call(this).
func ContainsThis(n Node) bool {
	if l, ok := n.(*Literal); ok && l.Val == "this" {
		return true
	}
	return Contains(n, func(d Node) bool {
		l, ok := d.(*Literal)
		return ok && l.Val == "this"
	})
}
