package emit

import (
	"github.com/oconnor663/coffee-script/ast"
)

// unfoldSoak substitutes a node's safe-navigation form: a soaked
// access becomes an existence-guarded structural rewrite. The result
// is computed once per node and cached, including the negative case.
func (e *Emitter) unfoldSoak(n ast.Node, o *ast.Ctx) (ast.Node, error) {
	if cached, ok := e.soaks[n]; ok {
		return cached, nil
	}
	var unfolded ast.Node
	var err error
	switch x := n.(type) {
	case *ast.Value:
		unfolded, err = e.unfoldValueSoak(x, o)
	case *ast.Call:
		unfolded, err = e.unfoldCallSoak(x, o)
	case *ast.Assign:
		unfolded, err = e.unfoldAssignSoak(x, o)
	case *ast.Op:
		unfolded, err = e.unfoldOpSoak(x, o)
	}
	if err != nil {
		return nil, err
	}
	e.soaks[n] = unfolded
	return unfolded, nil
}

func (e *Emitter) unfoldValueSoak(x *ast.Value, o *ast.Ctx) (ast.Node, error) {
	if !x.HasSoak() {
		return nil, nil
	}
	cond, rest := e.splitSoak(x, o)
	return &ast.If{
		Cond:   &ast.Existence{Expr: cond},
		Body:   ast.AsBlock(rest),
		IsSoak: true,
	}, nil
}

// splitSoak splits a soaked chain at its first soaked accessor: the
// existence test for the prefix, and the remainder rooted at a reuse of
// that prefix. The caller must have checked HasSoak.
func (e *Emitter) splitSoak(x *ast.Value, o *ast.Ctx) (cond ast.Node, rest *ast.Value) {
	at := -1
	for i, p := range x.Props {
		switch a := p.(type) {
		case *ast.Access:
			if a.Soak {
				at = i
			}
		case *ast.Index:
			if a.Soak {
				at = i
			}
		}
		if at >= 0 {
			break
		}
	}

	prefix := &ast.Value{Base: x.Base, Props: x.Props[:at]}
	var restBase ast.Node
	if name, ok := prefix.IsIdent(); ok {
		cond = prefix
		restBase = ast.Ident(name)
	} else {
		// evaluate the prefix exactly once
		ref := o.Scope.FreshName("ref")
		cond = &ast.Assign{Target: ast.Ident(ref), Value: prefix}
		restBase = &ast.Literal{Val: ref}
	}

	restProps := make([]ast.Node, len(x.Props)-at)
	copy(restProps, x.Props[at:])
	restProps[0] = clearSoak(restProps[0])
	rest = &ast.Value{Base: restBase, Props: restProps}
	return cond, rest
}

// unfoldAssignSoak hoists a soaked target's guard above the whole
// assignment, so the write runs only when the receiver exists and the
// left-hand side stays a plain reference. The guard is not itself a
// soak If: in statement position it compiles as a real if statement.
func (e *Emitter) unfoldAssignSoak(x *ast.Assign, o *ast.Ctx) (ast.Node, error) {
	if x.InObject {
		return nil, nil
	}
	v, ok := x.Target.(*ast.Value)
	if !ok || !v.HasSoak() {
		return nil, nil
	}
	cond, rest := e.splitSoak(v, o)
	inner := &ast.Assign{Target: rest, Value: x.Value, Op: x.Op}
	return &ast.If{
		Cond: &ast.Existence{Expr: cond},
		Body: ast.AsBlock(inner),
	}, nil
}

// unfoldOpSoak hoists the guard for mutating unary operators applied to
// a soaked chain. Only operators that write through the reference need
// the hoist; reads unfold through the plain value path.
func (e *Emitter) unfoldOpSoak(x *ast.Op, o *ast.Ctx) (ast.Node, error) {
	if x.Second != nil {
		return nil, nil
	}
	switch x.Op {
	case "++", "--", "delete":
	default:
		return nil, nil
	}
	v, ok := x.First.(*ast.Value)
	if !ok || !v.HasSoak() {
		return nil, nil
	}
	cond, rest := e.splitSoak(v, o)
	inner := &ast.Op{Op: x.Op, First: rest, Postfix: x.Postfix}
	return &ast.If{
		Cond: &ast.Existence{Expr: cond},
		Body: ast.AsBlock(inner),
	}, nil
}

func (e *Emitter) unfoldCallSoak(x *ast.Call, o *ast.Ctx) (ast.Node, error) {
	if !x.Soak {
		return nil, nil
	}
	callee := x.Callee
	var condCallee, callCallee ast.Node
	if v, ok := callee.(*ast.Value); ok && !ast.IsComplex(v) {
		condCallee, callCallee = callee, callee
	} else {
		ref := o.Scope.FreshName("ref")
		condCallee = &ast.Assign{Target: ast.Ident(ref), Value: callee}
		callCallee = ast.Ident(ref)
	}
	cond := &ast.Op{
		Op:     "===",
		First:  &ast.Op{Op: "typeof", First: condCallee},
		Second: &ast.Literal{Val: `"function"`},
	}
	call := &ast.Call{Callee: callCallee, Args: x.Args, IsNew: x.IsNew}
	return &ast.If{
		Cond:   cond,
		Body:   ast.AsBlock(call),
		IsSoak: true,
	}, nil
}

func clearSoak(p ast.Node) ast.Node {
	switch a := p.(type) {
	case *ast.Access:
		return &ast.Access{Name: a.Name}
	case *ast.Index:
		return &ast.Index{Expr: a.Expr}
	}
	return p
}

// cacheReference splits a value into an evaluation form and a reuse
// form so sub-expressions evaluated more than once run exactly once:
// the evaluation form embeds assignments of the complex base and key
// into temporaries, the reuse form reads the temporaries.
func (e *Emitter) cacheReference(v *ast.Value, o *ast.Ctx) (embed, read *ast.Value) {
	if len(v.Props) == 0 {
		if !ast.IsComplex(v.Base) {
			return v, v
		}
		ref := o.Scope.FreshName("ref")
		embed = ast.NewValue(&ast.Parens{Body: &ast.Assign{Target: ast.Ident(ref), Value: v.Base}})
		read = ast.Ident(ref)
		return embed, read
	}

	last := v.Props[len(v.Props)-1]
	embedLast, readLast := last, last
	if idx, ok := last.(*ast.Index); ok && ast.IsComplex(idx.Expr) {
		nref := o.Scope.FreshName("name")
		embedLast = &ast.Index{Expr: &ast.Assign{Target: ast.Ident(nref), Value: idx.Expr}}
		readLast = &ast.Index{Expr: &ast.Literal{Val: nref}}
	}

	if ast.IsComplex(v.Base) || len(v.Props) > 1 {
		// cache everything up to the last accessor
		bref := o.Scope.FreshName("base")
		front := &ast.Value{Base: v.Base, Props: v.Props[:len(v.Props)-1]}
		embed = &ast.Value{
			Base:  &ast.Parens{Body: &ast.Assign{Target: ast.Ident(bref), Value: front}},
			Props: []ast.Node{embedLast},
		}
		read = &ast.Value{Base: &ast.Literal{Val: bref}, Props: []ast.Node{readLast}}
		return embed, read
	}

	embed = &ast.Value{Base: v.Base, Props: []ast.Node{embedLast}}
	read = &ast.Value{Base: v.Base, Props: []ast.Node{readLast}}
	return embed, read
}
