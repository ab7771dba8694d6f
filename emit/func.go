package emit

import (
	"fmt"
	"strings"

	"github.com/oconnor663/coffee-script/ast"
	"github.com/oconnor663/coffee-script/errors"
	"github.com/oconnor663/coffee-script/scope"
)

func (e *Emitter) compileFunc(x *ast.Func, o *ast.Ctx) (string, error) {
	return e.compileFuncAs(x, o, false)
}

// compileFuncAs emits the function literal. Constructors keep their
// body statements as-is instead of returning the last one.
func (e *Emitter) compileFuncAs(x *ast.Func, o *ast.Ctx, ctor bool) (string, error) {
	child := o.Scope.NewChild(false)
	inner := o.InScope(child).Indented()
	inner.Level = ast.LevelTop

	params, prelude, err := e.compileParams(x, child, inner)
	if err != nil {
		return "", err
	}

	body := x.Body
	if body == nil {
		body = &ast.Block{}
	}
	if f := e.flags(x); !ctor && (f == nil || !f.ContainsSuspend) {
		body = ast.AsBlock(ast.MakeReturn(body, ""))
	}

	bodyCode, err := e.Statements(body, inner)
	if err != nil {
		return "", err
	}

	var lines []string
	if v := varLine(child, inner.Indent); v != "" {
		lines = append(lines, v)
	}
	lines = append(lines, prelude...)
	if bodyCode != "" {
		lines = append(lines, bodyCode)
	}

	code := "function(" + strings.Join(params, ", ") + ") {"
	if len(lines) > 0 {
		code += "\n" + strings.Join(lines, "\n") + "\n" + o.Indent
	}
	code += "}"

	if x.Bound {
		code = e.bindHelper(o) + "(" + code + ", this)"
	}
	if o.Level >= ast.LevelAccess {
		code = "(" + code + ")"
	}
	return code, nil
}

// compileParams validates the parameter list, binds the names in the
// function scope, and returns the emitted parameter names plus any
// prelude statements (default fills, splat collection).
func (e *Emitter) compileParams(x *ast.Func, child *scope.Scope, inner *ast.Ctx) ([]string, []string, error) {
	seen := make(map[string]bool)
	splats := 0
	for i, p := range x.Params {
		if ast.IsReserved(p.Name) {
			return nil, nil, errors.ReservedWord(p.Name)
		}
		if seen[p.Name] {
			return nil, nil, errors.DuplicateParam(p.Name)
		}
		seen[p.Name] = true
		if p.Splat {
			splats++
			if splats > 1 || i != len(x.Params)-1 {
				return nil, nil, errors.MultipleSplats()
			}
		}
	}

	var params []string
	var prelude []string
	for i, p := range x.Params {
		if p.Splat {
			// collected from arguments, not named in the signature
			child.Declare(p.Name)
			prelude = append(prelude, fmt.Sprintf("%s%s = %s.call(arguments, %d);",
				inner.Indent, p.Name, e.sliceHelper(inner), i))
			continue
		}
		child.Param(p.Name)
		params = append(params, p.Name)
		if p.Default != nil {
			dflt, err := e.Compile(p.Default, inner, ast.LevelList)
			if err != nil {
				return nil, nil, err
			}
			prelude = append(prelude, fmt.Sprintf("%sif (%s == null) {\n%s%s%s = %s;\n%s}",
				inner.Indent, p.Name, inner.Indent, inner.Session.Tab, p.Name, dflt, inner.Indent))
		}
	}
	return params, prelude, nil
}

// varLine renders the hoisted declarations and helper assignments of a
// scope as a single var statement, or "" when the scope owns none.
func varLine(s *scope.Scope, indent string) string {
	if !s.HasDeclarations() && !s.HasAssignments() {
		return ""
	}
	entries := append(s.DeclaredNames(), s.AssignedNames()...)
	return indent + "var " + strings.Join(entries, ", ") + ";"
}
