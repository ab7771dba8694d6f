package ast

// IsStatement reports whether n must be emitted in statement position.
// Composite nodes are statements when any required child is; the
// classification is stable across tree rewrites because it depends
// only on structure.
func IsStatement(n Node, o *Ctx) bool {
	switch x := n.(type) {
	case *Block:
		for _, e := range x.Exprs {
			if IsStatement(e, o) {
				return true
			}
		}
		return false
	case *Literal:
		return x.Val == "break" || x.Val == "continue" || x.Val == "debugger"
	case *Value:
		return len(x.Props) == 0 && IsStatement(x.Base, o)
	case *Return, *Comment, *While, *For, *Switch, *Try, *Throw,
		*Await, *TameRequire, *TailCall:
		return true
	case *Class:
		return x.Name != ""
	case *If:
		if x.IsSoak {
			return false
		}
		if o != nil && o.Level == LevelTop {
			return true
		}
		if IsStatement(x.Body, o) {
			return true
		}
		return x.Else != nil && IsStatement(x.Else, o)
	default:
		return false
	}
}

// IsComplex reports whether evaluating n may have side effects or
// nontrivial cost, so that reuse requires caching in a temporary. Pure
// for a given node: callers may rely on repeated calls agreeing.
func IsComplex(n Node) bool {
	switch x := n.(type) {
	case nil:
		return false
	case *Literal, *Comment, *Param, *Access:
		return false
	case *Value:
		return len(x.Props) > 0 || IsComplex(x.Base)
	case *Parens:
		return IsComplex(x.Body)
	case *Range:
		return IsComplex(x.From) || IsComplex(x.To)
	case *Slot:
		return IsComplex(x.Target)
	default:
		return true
	}
}

// Jumps returns the node that escapes control flow out of n, or nil.
// A subtree that jumps cannot legally be wrapped in an expression
// closure.
func Jumps(n Node, s JumpState) Node {
	switch x := n.(type) {
	case *Literal:
		switch x.Val {
		case "break":
			if !s.Loop && !s.Block {
				return n
			}
		case "continue":
			if !s.Loop {
				return n
			}
		}
		return nil
	case *Return, *TailCall:
		return n
	case *Block:
		for _, e := range x.Exprs {
			if j := Jumps(e, s); j != nil {
				return j
			}
		}
		return nil
	case *Value:
		if len(x.Props) == 0 {
			return Jumps(x.Base, s)
		}
		return nil
	case *Parens:
		return Jumps(x.Body, s)
	case *If:
		if j := Jumps(x.Body, s); j != nil {
			return j
		}
		if x.Else != nil {
			return Jumps(x.Else, s)
		}
		return nil
	case *While:
		return Jumps(x.Body, JumpState{Loop: true, Block: true})
	case *For:
		return Jumps(x.Body, JumpState{Loop: true, Block: true})
	case *Try:
		if j := Jumps(x.Body, s); j != nil {
			return j
		}
		if x.Catch != nil {
			if j := Jumps(x.Catch, s); j != nil {
				return j
			}
		}
		if x.Finally != nil {
			return Jumps(x.Finally, s)
		}
		return nil
	case *Switch:
		inner := JumpState{Loop: s.Loop, Block: true}
		for _, c := range x.Cases {
			if j := Jumps(c.Body, inner); j != nil {
				return j
			}
		}
		if x.Else != nil {
			return Jumps(x.Else, inner)
		}
		return nil
	default:
		return nil
	}
}

// MakeReturn rewrites n so its value is yielded via return, or pushed
// onto the named accumulator when target is non-empty. Composite nodes
// push the rewrite down into their last expression or every branch.
func MakeReturn(n Node, target string) Node {
	switch x := n.(type) {
	case *Block:
		for i := len(x.Exprs) - 1; i >= 0; i-- {
			if _, ok := x.Exprs[i].(*Comment); ok {
				continue
			}
			x.Exprs[i] = MakeReturn(x.Exprs[i], target)
			return x
		}
		return x
	case *Return, *TailCall, *Comment, *Throw, *Await, *TameRequire:
		return x
	case *If:
		x.Body = AsBlock(MakeReturn(x.Body, target))
		if x.Else != nil {
			x.Else = AsBlock(MakeReturn(x.Else, target))
		} else if target != "" {
			x.Else = AsBlock(MakeReturn(&Literal{Val: "void 0"}, target))
		}
		return x
	case *While:
		if target != "" {
			return pushCall(target, x)
		}
		x.Returns = true
		return x
	case *For:
		if target != "" {
			return pushCall(target, x)
		}
		x.Returns = true
		return x
	case *Switch:
		for _, c := range x.Cases {
			c.Body = AsBlock(MakeReturn(c.Body, target))
		}
		if x.Else != nil {
			x.Else = AsBlock(MakeReturn(x.Else, target))
		}
		return x
	case *Try:
		x.Body = AsBlock(MakeReturn(x.Body, target))
		if x.Catch != nil {
			x.Catch = AsBlock(MakeReturn(x.Catch, target))
		}
		return x
	default:
		if target != "" {
			return pushCall(target, n)
		}
		return &Return{Expr: n}
	}
}

// pushCall builds target.push(n) for accumulator returns.
func pushCall(target string, n Node) Node {
	return &Call{
		Callee: NewValue(&Literal{Val: target}, &Access{Name: "push"}),
		Args:   []Node{n},
	}
}

// Assigns reports whether n binds the given name.
func Assigns(n Node, name string) bool {
	switch x := n.(type) {
	case *Literal:
		return x.Val == name
	case *Value:
		return len(x.Props) == 0 && Assigns(x.Base, name)
	case *Assign:
		if x.InObject {
			return Assigns(x.Value, name)
		}
		return Assigns(x.Target, name)
	case *Block:
		for _, e := range x.Exprs {
			if Assigns(e, name) {
				return true
			}
		}
		return false
	case *Obj:
		for _, p := range x.Props {
			if Assigns(p, name) {
				return true
			}
		}
		return false
	case *Arr:
		for _, e := range x.Elems {
			if Assigns(e, name) {
				return true
			}
		}
		return false
	case *Splat:
		return Assigns(x.Expr, name)
	case *Param:
		return x.Name == name
	case *For:
		return x.ValueVar == name || x.KeyVar == name || Assigns(x.Body, name)
	default:
		return false
	}
}
