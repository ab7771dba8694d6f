package emit

import (
	"strings"

	"github.com/oconnor663/coffee-script/ast"
	"github.com/oconnor663/coffee-script/errors"
)

// compileClass emits the class wrapper: an immediately-invoked closure
// that builds the constructor, wires inheritance, installs prototype
// and static members, and returns the constructor.
func (e *Emitter) compileClass(x *ast.Class, o *ast.Ctx) (string, error) {
	name := x.Name
	if name != "" {
		if !o.Scope.Resolve(name) {
			o.Scope.Declare(name)
		}
	} else {
		name = "_Class"
	}

	ctor, protos, statics, bound, err := e.splitClassProps(x)
	if err != nil {
		return "", err
	}

	inner := o.Indented()
	innerScope := o.Scope.NewChild(false)
	inner = inner.InScope(innerScope)
	inner.Level = ast.LevelTop
	innerScope.Param(name)

	var lines []string
	add := func(line string) { lines = append(lines, inner.Indent+line) }

	parentParam := ""
	if x.Parent != nil {
		parentParam = "_super"
		innerScope.Param(parentParam)
		helper := e.extendsHelper(o)
		add(helper + "(" + name + ", " + parentParam + ");")
	}

	ctorCode, err := e.compileConstructor(x, name, ctor, bound, inner)
	if err != nil {
		return "", err
	}
	lines = append(lines, ctorCode)

	for _, p := range protos {
		value := p.value
		if fn, ok := value.(*ast.Func); ok && fn.Bound {
			// the constructor rebinds per instance; the prototype
			// holds the plain function
			plain := *fn
			plain.Bound = false
			if e.marks.Has(fn) {
				*e.marks.Get(&plain) = *e.marks.Get(fn)
			}
			value = &plain
		}
		e.methods = append(e.methods, methodRef{class: name, name: p.key})
		val, err := e.Compile(value, inner, ast.LevelList)
		e.methods = e.methods[:len(e.methods)-1]
		if err != nil {
			return "", err
		}
		add(name + ".prototype." + p.key + " = " + val + ";")
	}
	for _, p := range statics {
		e.methods = append(e.methods, methodRef{class: name, name: p.key})
		val, err := e.Compile(p.value, inner, ast.LevelList)
		e.methods = e.methods[:len(e.methods)-1]
		if err != nil {
			return "", err
		}
		add(name + "." + p.key + " = " + val + ";")
	}

	add("return " + name + ";")

	if v := varLine(innerScope, inner.Indent); v != "" {
		lines = append([]string{v}, lines...)
	}

	header := "(function(" + parentParam + ") {\n"
	footer := "\n" + o.Indent + "})("
	if x.Parent != nil {
		parentCode, err := e.Compile(x.Parent, o, ast.LevelList)
		if err != nil {
			return "", err
		}
		footer += parentCode
	}
	footer += ")"

	code := header + strings.Join(lines, "\n") + footer
	if x.Name != "" {
		code = x.Name + " = " + code
		if o.Level > ast.LevelList {
			code = "(" + code + ")"
		}
	}
	return code, nil
}

type classProp struct {
	key   string
	value ast.Node
}

// splitClassProps partitions the class body into the constructor, the
// prototype members, the class-level members, and the bound method
// names that need binding in the constructor.
func (e *Emitter) splitClassProps(x *ast.Class) (ctor *ast.Func, protos, statics []classProp, bound []string, err error) {
	for _, p := range x.Props {
		key, kerr := e.objectKey(p.Target)
		static := false
		if kerr != nil {
			// this.name targets declare class-level members
			if v, ok := p.Target.(*ast.Value); ok && ast.ContainsThis(v.Base) && len(v.Props) == 1 {
				if a, ok := v.Props[0].(*ast.Access); ok {
					key = a.Name
					static = true
					kerr = nil
				}
			}
			if kerr != nil {
				return nil, nil, nil, nil, kerr
			}
		}

		if !static && key == "constructor" {
			fn, ok := p.Value.(*ast.Func)
			if !ok {
				return nil, nil, nil, nil, errors.Internal("constructor of %s is not a function", x.Name)
			}
			if ctor != nil {
				return nil, nil, nil, nil, errors.DuplicateConstructor(x.Name)
			}
			if fn.Bound {
				return nil, nil, nil, nil, errors.BoundConstructor(x.Name)
			}
			ctor = fn
			continue
		}
		if static {
			statics = append(statics, classProp{key: key, value: p.Value})
			continue
		}
		if fn, ok := p.Value.(*ast.Func); ok && fn.Bound {
			bound = append(bound, key)
		}
		protos = append(protos, classProp{key: key, value: p.Value})
	}
	return ctor, protos, statics, bound, nil
}

// compileConstructor emits the named constructor function, synthesizing
// a forwarding one when the class declares none, and prepending the
// bound-method rebinding statements.
func (e *Emitter) compileConstructor(x *ast.Class, name string, ctor *ast.Func, bound []string, inner *ast.Ctx) (string, error) {
	var bindLines []string
	bodyIndent := inner.Indent + inner.Session.Tab
	bind := ""
	if len(bound) > 0 {
		bind = e.bindHelper(inner)
	}
	for _, m := range bound {
		bindLines = append(bindLines,
			bodyIndent+"this."+m+" = "+bind+"(this."+m+", this);")
	}

	if ctor == nil {
		var body []string
		body = append(body, bindLines...)
		if x.Parent != nil {
			body = append(body, bodyIndent+name+".__super__.constructor.apply(this, arguments);")
		}
		if len(body) == 0 {
			return inner.Indent + "function " + name + "() {}", nil
		}
		return inner.Indent + "function " + name + "() {\n" +
			strings.Join(body, "\n") + "\n" + inner.Indent + "}", nil
	}

	e.methods = append(e.methods, methodRef{class: name, ctor: true})
	code, err := e.compileFuncAs(ctor, inner, true)
	e.methods = e.methods[:len(e.methods)-1]
	if err != nil {
		return "", err
	}

	// name the function and splice the bind statements after the brace
	code = "function " + name + strings.TrimPrefix(code, "function")
	if len(bindLines) > 0 {
		brace := strings.Index(code, "{")
		head, tail := code[:brace+1], code[brace+1:]
		if strings.HasPrefix(tail, "}") {
			tail = "\n" + inner.Indent + tail
		}
		code = head + "\n" + strings.Join(bindLines, "\n") + tail
	}
	return inner.Indent + code, nil
}
