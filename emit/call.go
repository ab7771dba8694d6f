package emit

import (
	"fmt"
	"strings"

	"github.com/oconnor663/coffee-script/ast"
	"github.com/oconnor663/coffee-script/errors"
)

func (e *Emitter) compileCall(x *ast.Call, o *ast.Ctx) (string, error) {
	if x.IsSuper {
		return e.compileSuper(x, o)
	}

	hasSplat := false
	for _, a := range x.Args {
		if _, ok := a.(*ast.Splat); ok {
			hasSplat = true
			break
		}
	}
	if hasSplat {
		return e.compileSplatCall(x, o)
	}

	calleeCode, err := e.Compile(x.Callee, o, ast.LevelAccess)
	if err != nil {
		return "", err
	}
	args := make([]string, len(x.Args))
	for i, a := range x.Args {
		args[i], err = e.Compile(a, o, ast.LevelList)
		if err != nil {
			return "", err
		}
	}
	code := calleeCode + "(" + strings.Join(args, ", ") + ")"
	if x.IsNew {
		code = "new " + code
	}
	return code, nil
}

// compileSuper resolves the enclosing method recorded by the class
// emitter and forwards through the prototype chain.
func (e *Emitter) compileSuper(x *ast.Call, o *ast.Ctx) (string, error) {
	if len(e.methods) == 0 {
		return "", errors.SuperOutsideMethod()
	}
	m := e.methods[len(e.methods)-1]
	if m.class == "" {
		return "", errors.AnonymousSuper()
	}

	var ref string
	if m.ctor {
		ref = m.class + ".__super__.constructor"
	} else {
		ref = m.class + ".__super__." + m.name
	}

	// a bare super with no argument list forwards arguments wholesale
	if x.Args == nil {
		return ref + ".apply(this, arguments)", nil
	}
	args := make([]string, len(x.Args))
	for i, a := range x.Args {
		var err error
		args[i], err = e.Compile(a, o, ast.LevelList)
		if err != nil {
			return "", err
		}
	}
	if len(args) == 0 {
		return ref + ".call(this)", nil
	}
	return ref + ".call(this, " + strings.Join(args, ", ") + ")", nil
}

// compileSplatCall spreads splatted arguments with Function.apply. The
// receiver of a method call is cached so it evaluates once as both the
// apply context and the property owner.
func (e *Emitter) compileSplatCall(x *ast.Call, o *ast.Ctx) (string, error) {
	argsCode, err := e.compileSplattedArray(x.Args, o)
	if err != nil {
		return "", err
	}

	if x.IsNew {
		calleeCode, err := e.Compile(x.Callee, o, ast.LevelAccess)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"(function(func, args, ctor) { ctor.prototype = func.prototype; var child = new ctor, result = func.apply(child, args); return Object(result) === result ? result : child; })(%s, %s, function() {})",
			calleeCode, argsCode), nil
	}

	ctxCode := "null"
	calleeCode := ""
	if v, ok := x.Callee.(*ast.Value); ok && len(v.Props) > 0 {
		owner := &ast.Value{Base: v.Base, Props: v.Props[:len(v.Props)-1]}
		if ast.IsComplex(owner) {
			// (ref = owner).method.apply(ref, args)
			ref := o.Scope.FreshName("ref")
			ownerCode, err := e.Compile(owner, o, ast.LevelList)
			if err != nil {
				return "", err
			}
			acc, err := e.compileAccessor(v.Props[len(v.Props)-1], o)
			if err != nil {
				return "", err
			}
			ctxCode = ref
			calleeCode = "(" + ref + " = " + ownerCode + ")" + acc
		} else {
			var err error
			ctxCode, err = e.Compile(owner, o, ast.LevelAccess)
			if err != nil {
				return "", err
			}
			calleeCode, err = e.Compile(v, o, ast.LevelAccess)
			if err != nil {
				return "", err
			}
		}
	} else {
		var err error
		calleeCode, err = e.Compile(x.Callee, o, ast.LevelAccess)
		if err != nil {
			return "", err
		}
	}
	return calleeCode + ".apply(" + ctxCode + ", " + argsCode + ")", nil
}

// compileSplattedArray flattens a mixed element list into concatenated
// array segments around each splat.
func (e *Emitter) compileSplattedArray(elems []ast.Node, o *ast.Ctx) (string, error) {
	slice := e.sliceHelper(o)

	var segments []string
	var plain []string
	flush := func() {
		if len(plain) > 0 {
			segments = append(segments, "["+strings.Join(plain, ", ")+"]")
			plain = nil
		}
	}
	for _, el := range elems {
		if sp, ok := el.(*ast.Splat); ok {
			flush()
			code, err := e.Compile(sp.Expr, o, ast.LevelList)
			if err != nil {
				return "", err
			}
			segments = append(segments, slice+".call("+code+")")
			continue
		}
		code, err := e.Compile(el, o, ast.LevelList)
		if err != nil {
			return "", err
		}
		plain = append(plain, code)
	}
	flush()

	if len(segments) == 1 {
		return segments[0], nil
	}
	return segments[0] + ".concat(" + strings.Join(segments[1:], ", ") + ")", nil
}

func (e *Emitter) compileExtends(x *ast.Extends, o *ast.Ctx) (string, error) {
	helper := e.extendsHelper(o)
	child, err := e.Compile(x.Child, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	parent, err := e.Compile(x.Parent, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	return helper + "(" + child + ", " + parent + ")", nil
}
