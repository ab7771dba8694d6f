package emit

import (
	"strings"

	"github.com/oconnor663/coffee-script/ast"
	"github.com/oconnor663/coffee-script/errors"
)

func (e *Emitter) compileObj(x *ast.Obj, o *ast.Ctx) (string, error) {
	if len(x.Props) == 0 {
		return "{}", nil
	}

	seen := make(map[string]bool)
	inner := o.Indented()
	multiline := len(x.Props) > 1

	var parts []string
	var comments []bool
	for _, p := range x.Props {
		var code string
		var err error
		switch prop := p.(type) {
		case *ast.Assign:
			key, kerr := e.objectKey(prop.Target)
			if kerr != nil {
				return "", kerr
			}
			if seen[key] {
				return "", errors.DuplicateKey(key)
			}
			seen[key] = true
			code, err = e.compileObjectProp(prop, inner)
		case *ast.Value:
			// shorthand: a bare name stands for name: name
			name, ok := prop.IsIdent()
			if !ok {
				return "", errors.Internal("object property must be an assignment or a name, got %s", ast.Kind(p))
			}
			if seen[name] {
				return "", errors.DuplicateKey(name)
			}
			seen[name] = true
			code = name + ": " + name
		case *ast.Comment:
			code, err = e.compileNode(prop, inner)
		default:
			return "", errors.Internal("object property must be an assignment or a name, got %s", ast.Kind(p))
		}
		if err != nil {
			return "", err
		}
		parts = append(parts, code)
		_, isComment := p.(*ast.Comment)
		comments = append(comments, isComment)
	}

	if !multiline {
		return "{" + parts[0] + "}", nil
	}
	var b strings.Builder
	b.WriteString("{\n")
	for i, p := range parts {
		b.WriteString(inner.Indent + p)
		// comments carry no separator; neither does the last property
		if i < len(parts)-1 && !comments[i] {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(o.Indent + "}")
	return b.String(), nil
}

func (e *Emitter) compileArr(x *ast.Arr, o *ast.Ctx) (string, error) {
	for _, el := range x.Elems {
		if _, ok := el.(*ast.Splat); ok {
			return e.compileSplattedArray(x.Elems, o)
		}
	}
	parts := make([]string, len(x.Elems))
	for i, el := range x.Elems {
		var err error
		parts[i], err = e.Compile(el, o, ast.LevelList)
		if err != nil {
			return "", err
		}
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}
