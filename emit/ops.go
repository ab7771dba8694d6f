package emit

import (
	"fmt"
	"strings"

	"github.com/oconnor663/coffee-script/ast"
)

// source-level operator spellings lowered to target spellings
var opConversions = map[string]string{
	"is": "===", "isnt": "!==", "and": "&&", "or": "||", "not": "!",
}

var wordOps = map[string]bool{
	"typeof": true, "delete": true, "void": true, "instanceof": true, "in": true, "new": true,
}

func (e *Emitter) compileOp(x *ast.Op, o *ast.Ctx) (string, error) {
	op := x.Op
	if conv, ok := opConversions[op]; ok {
		op = conv
	}

	if x.Second == nil {
		return e.compileUnary(x, op, o)
	}
	if op == "?" {
		return e.compileExistentialOr(x, o)
	}
	if x.IsChainable() {
		if inner, ok := x.First.(*ast.Op); ok && inner.IsChainable() && inner.Second != nil {
			return e.compileChain(x, inner, o)
		}
	}

	first, err := e.Compile(x.First, o, ast.LevelOp)
	if err != nil {
		return "", err
	}
	second, err := e.Compile(x.Second, o, ast.LevelOp)
	if err != nil {
		return "", err
	}
	code := first + " " + op + " " + second
	if o.Level >= ast.LevelOp {
		code = "(" + code + ")"
	}
	return code, nil
}

func (e *Emitter) compileUnary(x *ast.Op, op string, o *ast.Ctx) (string, error) {
	operand, err := e.Compile(x.First, o, ast.LevelOp)
	if err != nil {
		return "", err
	}
	var code string
	switch {
	case x.Postfix:
		code = operand + op
	case wordOps[op]:
		code = op + " " + operand
	default:
		code = op + operand
	}
	if o.Level >= ast.LevelAccess {
		code = "(" + code + ")"
	}
	return code, nil
}

// compileChain lowers a chained relational comparison into a
// conjunction, evaluating the shared middle operand exactly once.
func (e *Emitter) compileChain(x, inner *ast.Op, o *ast.Ctx) (string, error) {
	middle := inner.Second
	var embedMiddle, readMiddle ast.Node = middle, middle
	if ast.IsComplex(middle) {
		ref := o.Scope.FreshName("ref")
		embedMiddle = &ast.Parens{Body: &ast.Assign{Target: ast.Ident(ref), Value: middle}}
		readMiddle = &ast.Literal{Val: ref}
	}
	left, err := e.compileOp(&ast.Op{Op: inner.Op, First: inner.First, Second: embedMiddle}, o.With(ast.LevelList))
	if err != nil {
		return "", err
	}
	right, err := e.compileOp(&ast.Op{Op: x.Op, First: readMiddle, Second: x.Second}, o.With(ast.LevelList))
	if err != nil {
		return "", err
	}
	code := left + " && " + right
	if o.Level >= ast.LevelOp {
		code = "(" + code + ")"
	}
	return code, nil
}

// compileExistentialOr lowers a ? b: the left operand when it exists,
// the right otherwise, with the left evaluated exactly once.
func (e *Emitter) compileExistentialOr(x *ast.Op, o *ast.Ctx) (string, error) {
	if v, ok := x.First.(*ast.Value); ok {
		if name, isIdent := v.IsIdent(); isIdent {
			second, err := e.Compile(x.Second, o, ast.LevelList)
			if err != nil {
				return "", err
			}
			var code string
			if o.Scope.Resolve(name) {
				code = fmt.Sprintf("%s != null ? %s : %s", name, name, second)
			} else {
				code = fmt.Sprintf("typeof %s !== \"undefined\" && %s !== null ? %s : %s",
					name, name, name, second)
			}
			if o.Level >= ast.LevelCond {
				code = "(" + code + ")"
			}
			return code, nil
		}
	}
	ref := o.Scope.FreshName("ref")
	first, err := e.Compile(x.First, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	second, err := e.Compile(x.Second, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("(%s = %s) != null ? %s : %s", ref, first, ref, second)
	if o.Level >= ast.LevelCond {
		code = "(" + code + ")"
	}
	return code, nil
}

func (e *Emitter) compileIn(x *ast.In, o *ast.Ctx) (string, error) {
	if arr := arrayLiteral(x.Array); arr != nil {
		return e.compileInArray(x, arr, o)
	}
	needle, err := e.Compile(x.Val, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	haystack, err := e.Compile(x.Array, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	idx := e.indexOfHelper(o)
	cmp := " >= 0"
	if x.Negated {
		cmp = " < 0"
	}
	return idx + ".call(" + haystack + ", " + needle + ")" + cmp, nil
}

func (e *Emitter) compileInArray(x *ast.In, arr *ast.Arr, o *ast.Ctx) (string, error) {
	if len(arr.Elems) == 0 {
		if x.Negated {
			return "true", nil
		}
		return "false", nil
	}
	eq, join := " === ", " || "
	if x.Negated {
		eq, join = " !== ", " && "
	}
	needle, err := e.Compile(x.Val, o, ast.LevelOp)
	if err != nil {
		return "", err
	}
	readNeedle := needle
	if ast.IsComplex(x.Val) {
		ref := o.Scope.FreshName("ref")
		needle = "(" + ref + " = " + needle + ")"
		readNeedle = ref
	}
	var tests []string
	for i, el := range arr.Elems {
		code, err := e.Compile(el, o, ast.LevelOp)
		if err != nil {
			return "", err
		}
		lhs := readNeedle
		if i == 0 {
			lhs = needle
		}
		tests = append(tests, lhs+eq+code)
	}
	code := strings.Join(tests, join)
	if o.Level >= ast.LevelOp {
		code = "(" + code + ")"
	}
	return code, nil
}

func arrayLiteral(n ast.Node) *ast.Arr {
	switch x := n.(type) {
	case *ast.Arr:
		return x
	case *ast.Value:
		if len(x.Props) == 0 {
			return arrayLiteral(x.Base)
		}
	}
	return nil
}

func (e *Emitter) compileExistence(x *ast.Existence, o *ast.Ctx) (string, error) {
	if v, ok := x.Expr.(*ast.Value); ok {
		if name, isIdent := v.IsIdent(); isIdent && !o.Scope.Resolve(name) {
			code := fmt.Sprintf("typeof %s !== \"undefined\" && %s !== null", name, name)
			if o.Level >= ast.LevelOp {
				code = "(" + code + ")"
			}
			return code, nil
		}
	}
	code, err := e.Compile(x.Expr, o, ast.LevelOp)
	if err != nil {
		return "", err
	}
	code += " != null"
	if o.Level >= ast.LevelOp {
		code = "(" + code + ")"
	}
	return code, nil
}

func (e *Emitter) compileParens(x *ast.Parens, o *ast.Ctx) (string, error) {
	code, err := e.Compile(x.Body, o, ast.LevelParen)
	if err != nil {
		return "", err
	}
	if atomic(x.Body) || strings.HasPrefix(code, "(") {
		return code, nil
	}
	return "(" + code + ")", nil
}

func atomic(n ast.Node) bool {
	switch x := n.(type) {
	case *ast.Literal:
		return true
	case *ast.Value:
		return len(x.Props) == 0 && atomic(x.Base)
	}
	return false
}
