package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oconnor663/coffee-script/ast"
	"github.com/oconnor663/coffee-script/errors"
)

func (e *Emitter) compileAssign(x *ast.Assign, o *ast.Ctx) (string, error) {
	if x.InObject {
		return e.compileObjectProp(x, o)
	}

	switch target := x.Target.(type) {
	case *ast.Obj:
		return e.compileDestructuring(x, target.Props, true, o)
	case *ast.Arr:
		return e.compileDestructuring(x, target.Elems, false, o)
	case *ast.Value:
		if a := arrayLiteral(target); a != nil {
			return e.compileDestructuring(x, a.Elems, false, o)
		}
		if ob, ok := target.Base.(*ast.Obj); ok && len(target.Props) == 0 {
			return e.compileDestructuring(x, ob.Props, true, o)
		}
	}

	if err := e.checkAssignable(x.Target, o); err != nil {
		return "", err
	}
	if x.Op != "" && x.Op != "=" {
		return e.compileCompound(x, o)
	}

	targetCode, err := e.Compile(x.Target, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	valCode, err := e.Compile(x.Value, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	code := targetCode + " = " + valCode
	if o.Level > ast.LevelList {
		code = "(" + code + ")"
	}
	return code, nil
}

// checkAssignable validates the target and declares unqualified names.
func (e *Emitter) checkAssignable(target ast.Node, o *ast.Ctx) error {
	v, ok := target.(*ast.Value)
	if !ok {
		if l, isLit := target.(*ast.Literal); isLit {
			v = &ast.Value{Base: l}
		} else {
			return errors.BadAssignTarget(ast.Kind(target))
		}
	}
	if len(v.Props) > 0 {
		return nil
	}
	l, isLit := v.Base.(*ast.Literal)
	if !isLit {
		return nil
	}
	if ast.IsReserved(l.Val) {
		return errors.ReservedWord(l.Val)
	}
	if !ast.IsIdentifier(l.Val) {
		return errors.BadAssignTarget(l.Val)
	}
	if !o.Scope.Resolve(l.Val) {
		o.Scope.Declare(l.Val)
	}
	return nil
}

// compileCompound handles op= assignments. Arithmetic compounds map
// directly since the target evaluates once natively; the logical
// compounds expand with the target cached so base and key run exactly
// once.
func (e *Emitter) compileCompound(x *ast.Assign, o *ast.Ctx) (string, error) {
	op := strings.TrimSuffix(x.Op, "=")
	target := ast.NewValue(x.Target)

	switch op {
	case "||", "&&", "or", "and":
		if c, ok := opConversions[op]; ok {
			op = c
		}
		embed, read := e.cacheReference(target, o)
		readCode, err := e.Compile(embed, o, ast.LevelOp)
		if err != nil {
			return "", err
		}
		assignCode, err := e.Compile(&ast.Assign{Target: read, Value: x.Value}, o, ast.LevelParen)
		if err != nil {
			return "", err
		}
		code := readCode + " " + op + " (" + assignCode + ")"
		if o.Level > ast.LevelList {
			code = "(" + code + ")"
		}
		return code, nil
	case "?":
		embed, read := e.cacheReference(target, o)
		o2 := o.With(o.Level)
		o2.IsExistentialEquals = true
		if o.Level == ast.LevelTop {
			// statement position hoists the null test into a guard
			// instead of a conditional expression
			guard := &ast.If{
				Cond:   &ast.Existence{Expr: embed},
				Invert: true,
				Body:   ast.AsBlock(&ast.Assign{Target: read, Value: x.Value}),
			}
			return e.compileIf(guard, o2)
		}
		firstCode, err := e.Compile(embed, o2, ast.LevelOp)
		if err != nil {
			return "", err
		}
		readCode, err := e.Compile(read, o2, ast.LevelOp)
		if err != nil {
			return "", err
		}
		assignCode, err := e.Compile(&ast.Assign{Target: read, Value: x.Value}, o, ast.LevelParen)
		if err != nil {
			return "", err
		}
		code := fmt.Sprintf("%s != null ? %s : %s", firstCode, readCode, assignCode)
		if o.Level >= ast.LevelCond {
			code = "(" + code + ")"
		}
		return code, nil
	default:
		targetCode, err := e.Compile(x.Target, o, ast.LevelList)
		if err != nil {
			return "", err
		}
		valCode, err := e.Compile(x.Value, o, ast.LevelList)
		if err != nil {
			return "", err
		}
		code := targetCode + " " + op + "= " + valCode
		if o.Level > ast.LevelList {
			code = "(" + code + ")"
		}
		return code, nil
	}
}

func (e *Emitter) compileObjectProp(x *ast.Assign, o *ast.Ctx) (string, error) {
	key, err := e.objectKey(x.Target)
	if err != nil {
		return "", err
	}
	val, err := e.Compile(x.Value, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	return key + ": " + val, nil
}

func (e *Emitter) objectKey(target ast.Node) (string, error) {
	switch k := target.(type) {
	case *ast.Literal:
		return k.Val, nil
	case *ast.Value:
		if l, ok := k.Base.(*ast.Literal); ok && len(k.Props) == 0 {
			return l.Val, nil
		}
	}
	return "", errors.Internal("object key must be a literal, got %s", ast.Kind(target))
}

// compileDestructuring lowers a pattern assignment into sequential
// indexed assignments against a single cached evaluation of the
// right-hand side. The single-target case unrolls without a temporary.
func (e *Emitter) compileDestructuring(x *ast.Assign, elems []ast.Node, isObj bool, o *ast.Ctx) (string, error) {
	if len(elems) == 1 {
		if _, isSplat := elems[0].(*ast.Splat); !isSplat {
			target, acc, err := e.destructureElement(elems[0], 0, isObj)
			if err != nil {
				return "", err
			}
			sub := &ast.Assign{
				Target: target,
				Value:  ast.NewValue(&ast.Parens{Body: x.Value}, acc),
			}
			return e.Compile(sub, o, o.Level)
		}
	}

	valCode, err := e.Compile(x.Value, o, ast.LevelList)
	if err != nil {
		return "", err
	}

	ref := valCode
	var parts []string
	if ast.IsComplex(x.Value) || len(elems) > 1 {
		ref = o.Scope.FreshName("ref")
		parts = append(parts, ref+" = "+valCode)
	}

	splatAt := -1
	for i, el := range elems {
		if _, ok := el.(*ast.Splat); ok {
			if splatAt >= 0 {
				return "", errors.MultipleSplats()
			}
			splatAt = i
		}
	}

	for i, el := range elems {
		var code string
		var err error
		switch {
		case !isObj && splatAt >= 0 && i == splatAt:
			code, err = e.destructureSplat(el.(*ast.Splat), ref, i, len(elems)-i-1, o)
		case !isObj && splatAt >= 0 && i > splatAt:
			// elements after the splat index from the end
			code, err = e.destructureFromEnd(el, ref, len(elems)-i, o)
		default:
			code, err = e.destructureAt(el, ref, i, isObj, o)
		}
		if err != nil {
			return "", err
		}
		parts = append(parts, code)
	}

	code := strings.Join(parts, ", ")
	if o.Level > ast.LevelTop {
		code = "(" + code + ", " + ref + ")"
	}
	return code, nil
}

// destructureElement resolves one pattern element to its assignment
// target and the accessor reading it from the source.
func (e *Emitter) destructureElement(el ast.Node, i int, isObj bool) (ast.Node, ast.Node, error) {
	if isObj {
		switch p := el.(type) {
		case *ast.Assign:
			// {key: target}
			key, err := e.objectKey(p.Target)
			if err != nil {
				return nil, nil, err
			}
			return p.Value, &ast.Access{Name: key}, nil
		case *ast.Value:
			name, ok := p.IsIdent()
			if !ok {
				return nil, nil, errors.BadAssignTarget(ast.Kind(p))
			}
			return p, &ast.Access{Name: name}, nil
		default:
			return nil, nil, errors.BadAssignTarget(ast.Kind(el))
		}
	}
	return el, &ast.Index{Expr: &ast.Literal{Val: strconv.Itoa(i)}}, nil
}

func (e *Emitter) destructureAt(el ast.Node, ref string, i int, isObj bool, o *ast.Ctx) (string, error) {
	target, acc, err := e.destructureElement(el, i, isObj)
	if err != nil {
		return "", err
	}
	src := ast.NewValue(&ast.Literal{Val: ref}, acc)
	// nested patterns recurse
	sub := &ast.Assign{Target: target, Value: src}
	return e.Compile(sub, o, ast.LevelList)
}

func (e *Emitter) destructureSplat(sp *ast.Splat, ref string, i, after int, o *ast.Ctx) (string, error) {
	if err := e.checkAssignable(sp.Expr, o); err != nil {
		return "", err
	}
	targetCode, err := e.Compile(sp.Expr, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	slice := e.sliceHelper(o)
	if after == 0 {
		return fmt.Sprintf("%s = %s.call(%s, %d)", targetCode, slice, ref, i), nil
	}
	return fmt.Sprintf("%s = %s.call(%s, %d, %s.length - %d)", targetCode, slice, ref, i, ref, after), nil
}

func (e *Emitter) destructureFromEnd(el ast.Node, ref string, fromEnd int, o *ast.Ctx) (string, error) {
	src := ast.NewValue(&ast.Literal{Val: ref}, &ast.Index{
		Expr: &ast.Literal{Val: fmt.Sprintf("%s.length - %d", ref, fromEnd)},
	})
	sub := &ast.Assign{Target: el, Value: src}
	return e.Compile(sub, o, ast.LevelList)
}
