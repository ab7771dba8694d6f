package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oconnor663/coffee-script/ast"
)

func (e *Emitter) compileLiteral(x *ast.Literal, o *ast.Ctx) (string, error) {
	switch x.Val {
	case "break", "continue":
		if f := e.flags(x); f != nil && f.InTamedLoop {
			// jumps in a tamed loop invoke the synthesized closures
			if x.Val == "break" {
				return "return " + ast.BreakName + "()", nil
			}
			return "return " + ast.ContinueName + "()", nil
		}
	}
	return x.Val, nil
}

func (e *Emitter) compileReturn(x *ast.Return, o *ast.Ctx) (string, error) {
	implicit := false
	if f := e.flags(x); f != nil && f.HasImplicitCallback {
		implicit = true
	}
	if x.Expr == nil {
		if implicit {
			return "return " + ast.ImplicitCallbackName + "()", nil
		}
		return "return", nil
	}
	code, err := e.Compile(x.Expr, o, ast.LevelParen)
	if err != nil {
		return "", err
	}
	if implicit {
		return "return " + ast.ImplicitCallbackName + "(" + code + ")", nil
	}
	return "return " + code, nil
}

func (e *Emitter) compileValue(x *ast.Value, o *ast.Ctx) (string, error) {
	if len(x.Props) == 0 {
		return e.Compile(x.Base, o, o.Level)
	}
	base, err := e.Compile(x.Base, o, ast.LevelAccess)
	if err != nil {
		return "", err
	}
	if l, ok := x.Base.(*ast.Literal); ok && isSimpleNumber(l.Val) {
		base = "(" + base + ")"
	}
	var sb strings.Builder
	sb.WriteString(base)
	for _, p := range x.Props {
		frag, err := e.compileAccessor(p, o)
		if err != nil {
			return "", err
		}
		sb.WriteString(frag)
	}
	return sb.String(), nil
}

func (e *Emitter) compileAccessor(p ast.Node, o *ast.Ctx) (string, error) {
	switch a := p.(type) {
	case *ast.Access:
		if ast.IsIdentifier(a.Name) {
			return "." + a.Name, nil
		}
		return "[" + strconv.Quote(a.Name) + "]", nil
	case *ast.Index:
		code, err := e.Compile(a.Expr, o, ast.LevelParen)
		if err != nil {
			return "", err
		}
		return "[" + code + "]", nil
	case *ast.Slice:
		return e.compileSliceProp(a, o)
	default:
		return "", nil
	}
}

func (e *Emitter) compileSliceProp(s *ast.Slice, o *ast.Ctx) (string, error) {
	from := "0"
	if s.R.From != nil {
		c, err := e.Compile(s.R.From, o, ast.LevelParen)
		if err != nil {
			return "", err
		}
		from = c
	}
	if s.R.To == nil {
		return ".slice(" + from + ")", nil
	}
	to, err := e.Compile(s.R.To, o, ast.LevelParen)
	if err != nil {
		return "", err
	}
	if !s.R.Exclusive {
		if n, ok := parseIntLiteral(s.R.To); ok {
			to = strconv.Itoa(n + 1)
		} else {
			to = "(" + to + ") + 1 || 9e9"
		}
	}
	return ".slice(" + from + ", " + to + ")", nil
}

// compileRange expands a numeric range into an inline literal array
// for small bounded integer ranges, or a generated accumulation loop
// otherwise.
func (e *Emitter) compileRange(x *ast.Range, o *ast.Ctx) (string, error) {
	if from, ok := parseIntLiteral(x.From); ok {
		if to, ok := parseIntLiteral(x.To); ok {
			span := to - from
			if span < 0 {
				span = -span
			}
			if span <= 20 {
				return inlineRange(from, to, x.Exclusive), nil
			}
		}
	}

	fromCode, toCode := "0", "0"
	var err error
	if x.From != nil {
		if fromCode, err = e.Compile(x.From, o, ast.LevelList); err != nil {
			return "", err
		}
	}
	if x.To != nil {
		if toCode, err = e.Compile(x.To, o, ast.LevelList); err != nil {
			return "", err
		}
	}
	iv := o.Scope.FreshName("i")
	rv := o.Scope.FreshName("results")
	cmp := "<="
	if x.Exclusive {
		cmp = "<"
	}
	code := fmt.Sprintf(
		"(function() {\n%[1]s%[2]s%[4]s = [];\n"+
			"%[1]s%[2]sfor (%[3]s = %[5]s; %[5]s <= %[6]s ? %[3]s %[7]s %[6]s : %[3]s >%[8]s %[6]s; %[5]s <= %[6]s ? %[3]s++ : %[3]s--) {\n"+
			"%[1]s%[2]s%[2]s%[4]s.push(%[3]s);\n%[1]s%[2]s}\n"+
			"%[1]s%[2]sreturn %[4]s;\n%[1]s}).apply(this)",
		o.Indent, o.Session.Tab, iv, rv, fromCode, toCode, cmp, strictSuffix(x.Exclusive))
	return code, nil
}

func strictSuffix(exclusive bool) string {
	if exclusive {
		return ""
	}
	return "="
}

func inlineRange(from, to int, exclusive bool) string {
	step := 1
	if to < from {
		step = -1
	}
	var parts []string
	i := from
	for {
		if exclusive && i == to {
			break
		}
		parts = append(parts, strconv.Itoa(i))
		if i == to {
			break
		}
		i += step
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func parseIntLiteral(n ast.Node) (int, bool) {
	var val string
	switch x := n.(type) {
	case *ast.Literal:
		val = x.Val
	case *ast.Value:
		if l, ok := x.Base.(*ast.Literal); ok && len(x.Props) == 0 {
			val = l.Val
		} else {
			return 0, false
		}
	default:
		return 0, false
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return i, true
}

func isSimpleNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
