package emit

import (
	"fmt"
	"strings"

	"github.com/oconnor663/coffee-script/ast"
)

func (e *Emitter) compileWhile(x *ast.While, o *ast.Ctx) (string, error) {
	if f := e.flags(x); f != nil && f.ContainsSuspend {
		return e.compileTamedWhile(x, o)
	}

	cond, err := e.compileLoopCond(x.Cond, x.Invert, o)
	if err != nil {
		return "", err
	}

	inner := o.Indented()
	inner.Level = ast.LevelTop

	body := x.Body
	var head, tail string
	if x.Returns {
		rvar := o.Scope.FreshName("results")
		head = rvar + " = [];\n" + o.Indent
		body = ast.AsBlock(ast.MakeReturn(body, rvar))
		tail = "\n" + o.Indent + "return " + rvar + ";"
	}

	bodyCode, err := e.guardedBody(body, x.Guard, inner)
	if err != nil {
		return "", err
	}

	return head + "while (" + cond + ") {\n" + bodyCode + "\n" + o.Indent + "}" + tail, nil
}

func (e *Emitter) compileLoopCond(cond ast.Node, invert bool, o *ast.Ctx) (string, error) {
	if invert {
		atom, err := e.Compile(cond, o, ast.LevelOp)
		if err != nil {
			return "", err
		}
		return "!" + atom, nil
	}
	return e.Compile(cond, o, ast.LevelParen)
}

// guardedBody emits a loop body, skipping iterations where the guard
// fails.
func (e *Emitter) guardedBody(body *ast.Block, guard ast.Node, inner *ast.Ctx) (string, error) {
	if guard != nil {
		body = &ast.Block{Exprs: append([]ast.Node{
			&ast.If{
				Cond:   guard,
				Invert: true,
				Body:   ast.NewBlock(&ast.Literal{Val: "continue"}),
			},
		}, body.Exprs...)}
	}
	return e.Statements(body, inner)
}

func (e *Emitter) compileFor(x *ast.For, o *ast.Ctx) (string, error) {
	if f := e.flags(x); f != nil && f.ContainsSuspend {
		return e.compileTamedFor(x, o)
	}
	if x.Object {
		return e.compileForObject(x, o)
	}
	return e.compileForArray(x, o)
}

// sourceRef compiles the loop source, caching it in a fresh variable
// when evaluating it per access would repeat work.
func (e *Emitter) sourceRef(src ast.Node, o *ast.Ctx) (ref, init string, err error) {
	code, err := e.Compile(src, o, ast.LevelList)
	if err != nil {
		return "", "", err
	}
	if !ast.IsComplex(src) {
		return code, "", nil
	}
	ref = o.Scope.FreshName("ref")
	return ref, ref + " = " + code, nil
}

func (e *Emitter) compileForObject(x *ast.For, o *ast.Ctx) (string, error) {
	ref, init, err := e.sourceRef(x.Source, o)
	if err != nil {
		return "", err
	}
	key := x.KeyVar
	if key == "" {
		key = o.Scope.FreshName("key")
	} else {
		o.Scope.Declare(key)
	}

	inner := o.Indented()
	inner.Level = ast.LevelTop

	body := x.Body
	var head, tail string
	if x.Returns {
		rvar := o.Scope.FreshName("results")
		head = rvar + " = [];\n" + o.Indent
		body = ast.AsBlock(ast.MakeReturn(body, rvar))
		tail = "\n" + o.Indent + "return " + rvar + ";"
	}
	if x.ValueVar != "" {
		o.Scope.Declare(x.ValueVar)
		body = prependExprs(body, parseRef(x.ValueVar, ref, key))
	}

	bodyCode, err := e.guardedBody(body, x.Guard, inner)
	if err != nil {
		return "", err
	}

	loop := "for (" + key + " in " + ref + ") {\n" + bodyCode + "\n" + o.Indent + "}"
	if init != "" {
		head += init + ";\n" + o.Indent
	}
	return head + loop + tail, nil
}

func (e *Emitter) compileForArray(x *ast.For, o *ast.Ctx) (string, error) {
	if r := rangeSource(x.Source); r != nil {
		return e.compileForRange(x, r, o)
	}

	ref, init, err := e.sourceRef(x.Source, o)
	if err != nil {
		return "", err
	}
	idx := x.KeyVar
	if idx == "" {
		idx = o.Scope.FreshName("i")
	} else {
		o.Scope.Declare(idx)
	}
	length := o.Scope.FreshName("len")

	step := "++"
	if x.Step != nil {
		stepCode, err := e.Compile(x.Step, o, ast.LevelOp)
		if err != nil {
			return "", err
		}
		step = " += " + stepCode
	}

	inner := o.Indented()
	inner.Level = ast.LevelTop

	body := x.Body
	var head, tail string
	if x.Returns {
		rvar := o.Scope.FreshName("results")
		head = rvar + " = [];\n" + o.Indent
		body = ast.AsBlock(ast.MakeReturn(body, rvar))
		tail = "\n" + o.Indent + "return " + rvar + ";"
	}
	if x.ValueVar != "" {
		o.Scope.Declare(x.ValueVar)
		body = prependExprs(body, parseRef(x.ValueVar, ref, idx))
	}

	bodyCode, err := e.guardedBody(body, x.Guard, inner)
	if err != nil {
		return "", err
	}

	var loop string
	if init != "" {
		loop = fmt.Sprintf("for (%s = 0, %s = (%s).length; %s < %s; %s%s) {\n%s\n%s}",
			idx, length, init, idx, length, idx, step, bodyCode, o.Indent)
	} else {
		loop = fmt.Sprintf("for (%s = 0, %s = %s.length; %s < %s; %s%s) {\n%s\n%s}",
			idx, length, ref, idx, length, idx, step, bodyCode, o.Indent)
	}
	return head + loop + tail, nil
}

func (e *Emitter) compileForRange(x *ast.For, r *ast.Range, o *ast.Ctx) (string, error) {
	v := x.ValueVar
	if v == "" {
		v = o.Scope.FreshName("i")
	} else {
		o.Scope.Declare(v)
	}

	header, err := e.rangeHeader(v, r, x.Step, o)
	if err != nil {
		return "", err
	}

	inner := o.Indented()
	inner.Level = ast.LevelTop

	body := x.Body
	var head, tail string
	if x.Returns {
		rvar := o.Scope.FreshName("results")
		head = rvar + " = [];\n" + o.Indent
		body = ast.AsBlock(ast.MakeReturn(body, rvar))
		tail = "\n" + o.Indent + "return " + rvar + ";"
	}

	bodyCode, err := e.guardedBody(body, x.Guard, inner)
	if err != nil {
		return "", err
	}
	return head + "for (" + header + ") {\n" + bodyCode + "\n" + o.Indent + "}" + tail, nil
}

// rangeHeader builds the three clauses of a numeric for loop over a
// range. Literal bounds pick the direction statically; otherwise both
// directions are tested at runtime.
func (e *Emitter) rangeHeader(v string, r *ast.Range, step ast.Node, o *ast.Ctx) (string, error) {
	fromCode, err := e.Compile(r.From, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	toCode, err := e.Compile(r.To, o, ast.LevelList)
	if err != nil {
		return "", err
	}

	stepCode := ""
	if step != nil {
		stepCode, err = e.Compile(step, o, ast.LevelOp)
		if err != nil {
			return "", err
		}
	}

	from, fromOK := parseIntLiteral(r.From)
	to, toOK := parseIntLiteral(r.To)
	if fromOK && toOK {
		up := from <= to
		cmp, bump := "<=", "++"
		if r.Exclusive {
			cmp = "<"
		}
		if !up {
			cmp, bump = ">=", "--"
			if r.Exclusive {
				cmp = ">"
			}
		}
		update := v + bump
		if stepCode != "" {
			update = v + " += " + stepCode
		}
		return fmt.Sprintf("%s = %s; %s %s %s; %s", v, fromCode, v, cmp, toCode, update), nil
	}

	toRef := toCode
	var initExtra string
	if ast.IsComplex(r.To) {
		toRef = o.Scope.FreshName("ref")
		initExtra = ", " + toRef + " = " + toCode
	}
	cmpUp, cmpDown := "<=", ">="
	if r.Exclusive {
		cmpUp, cmpDown = "<", ">"
	}
	cond := fmt.Sprintf("%s %s %s ? %s %s %s : %s %s %s",
		fromCode, "<=", toRef, v, cmpUp, toRef, v, cmpDown, toRef)
	update := fmt.Sprintf("%s %s %s ? %s++ : %s--", fromCode, "<=", toRef, v, v)
	if stepCode != "" {
		update = v + " += " + stepCode
	}
	return fmt.Sprintf("%s = %s%s; %s; %s", v, fromCode, initExtra, cond, update), nil
}

func rangeSource(src ast.Node) *ast.Range {
	switch s := src.(type) {
	case *ast.Range:
		return s
	case *ast.Value:
		if r, ok := s.Base.(*ast.Range); ok && len(s.Props) == 0 {
			return r
		}
	}
	return nil
}

// parseRef synthesizes `name = ref[key]`.
func parseRef(name, ref, key string) ast.Node {
	return &ast.Assign{
		Target: ast.Ident(name),
		Value: ast.NewValue(&ast.Literal{Val: ref},
			&ast.Index{Expr: &ast.Literal{Val: key}}),
	}
}

func prependExprs(b *ast.Block, exprs ...ast.Node) *ast.Block {
	return &ast.Block{Exprs: append(exprs, b.Exprs...)}
}

// trampoline is the shape shared by the tamed loop forms: the loop
// becomes a named closure that re-invokes itself through a synthesized
// continue closure, with break captured as the loop's own continuation.
type trampoline struct {
	init []string // statements before the loop closure
	cond string
	pre  []ast.Node // body prologue (element binding)
	step []string   // statements inside the continue closure, before re-entry
}

func (e *Emitter) compileTrampoline(t trampoline, body *ast.Block, guard ast.Node, o *ast.Ctx) (string, error) {
	tab := o.Session.Tab
	in1 := o.Indent + tab
	in2 := in1 + tab

	bodyCtx := o.Indented().Indented()
	bodyCtx.Level = ast.LevelTop
	bodyCtx.Tamed = true

	if len(t.pre) > 0 {
		body = prependExprs(body, t.pre...)
	}
	if guard != nil {
		body = ast.NewBlock(&ast.If{
			Cond: guard,
			Body: body,
			Else: ast.NewBlock(&ast.TailCall{Func: ast.ContinueName}),
		})
	}
	bodyCode, err := e.Statements(body, bodyCtx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, line := range t.init {
		b.WriteString(line + ";\n" + o.Indent)
	}
	b.WriteString("var " + ast.BreakName + " = " + ast.ContName + ";\n" + o.Indent)
	b.WriteString("var " + ast.LoopName + " = function(" + ast.ContName + ") {\n")
	b.WriteString(in1 + "var " + ast.ContinueName + " = function() {\n")
	for _, line := range t.step {
		b.WriteString(in2 + line + ";\n")
	}
	b.WriteString(in2 + "return " + ast.LoopName + "(" + ast.ContName + ");\n")
	b.WriteString(in1 + "};\n")
	b.WriteString(in1 + "if (" + t.cond + ") {\n")
	b.WriteString(bodyCode + "\n")
	b.WriteString(in1 + "} else {\n")
	b.WriteString(in2 + "return " + ast.BreakName + "();\n")
	b.WriteString(in1 + "}\n")
	b.WriteString(o.Indent + "};\n")
	b.WriteString(o.Indent + ast.LoopName + "(" + ast.ContName + ");")
	return b.String(), nil
}

func (e *Emitter) compileTamedWhile(x *ast.While, o *ast.Ctx) (string, error) {
	cond, err := e.compileLoopCond(x.Cond, x.Invert, o)
	if err != nil {
		return "", err
	}
	return e.compileTrampoline(trampoline{cond: cond}, x.Body, x.Guard, o)
}

func (e *Emitter) compileTamedFor(x *ast.For, o *ast.Ctx) (string, error) {
	if x.Object {
		return e.compileTamedForObject(x, o)
	}
	if r := rangeSource(x.Source); r != nil {
		return e.compileTamedForRange(x, r, o)
	}
	return e.compileTamedForArray(x, o)
}

func (e *Emitter) compileTamedForArray(x *ast.For, o *ast.Ctx) (string, error) {
	ref, init, err := e.sourceRef(x.Source, o)
	if err != nil {
		return "", err
	}
	idx := x.KeyVar
	if idx == "" {
		idx = o.Scope.FreshName("i")
	} else {
		o.Scope.Declare(idx)
	}

	t := trampoline{
		cond: idx + " < " + ref + ".length",
		step: []string{idx + "++"},
	}
	if x.Step != nil {
		stepCode, err := e.Compile(x.Step, o, ast.LevelOp)
		if err != nil {
			return "", err
		}
		t.step = []string{idx + " += " + stepCode}
	}
	if init != "" {
		t.init = append(t.init, init)
	}
	t.init = append(t.init, idx+" = 0")
	if x.ValueVar != "" {
		o.Scope.Declare(x.ValueVar)
		t.pre = append(t.pre, parseRef(x.ValueVar, ref, idx))
	}
	return e.compileTrampoline(t, x.Body, x.Guard, o)
}

func (e *Emitter) compileTamedForObject(x *ast.For, o *ast.Ctx) (string, error) {
	ref, init, err := e.sourceRef(x.Source, o)
	if err != nil {
		return "", err
	}
	keys := o.Scope.FreshName("keys")
	idx := o.Scope.FreshName("i")
	key := x.KeyVar
	if key == "" {
		key = o.Scope.FreshName("key")
	} else {
		o.Scope.Declare(key)
	}

	t := trampoline{
		cond: idx + " < " + keys + ".length",
		step: []string{idx + "++"},
		pre:  []ast.Node{parseRef(key, keys, idx)},
	}
	if init != "" {
		t.init = append(t.init, init)
	}
	// the key list snapshots before the first suspension
	t.init = append(t.init,
		keys+" = []",
		"for (var _k in "+ref+") { "+keys+".push(_k); }",
		idx+" = 0")
	if x.ValueVar != "" {
		o.Scope.Declare(x.ValueVar)
		t.pre = append(t.pre, parseRef(x.ValueVar, ref, key))
	}
	return e.compileTrampoline(t, x.Body, x.Guard, o)
}

func (e *Emitter) compileTamedForRange(x *ast.For, r *ast.Range, o *ast.Ctx) (string, error) {
	v := x.ValueVar
	if v == "" {
		v = o.Scope.FreshName("i")
	} else {
		o.Scope.Declare(v)
	}
	fromCode, err := e.Compile(r.From, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	toCode, err := e.Compile(r.To, o, ast.LevelList)
	if err != nil {
		return "", err
	}

	cmp, bump := "<=", v+"++"
	if from, ok := parseIntLiteral(r.From); ok {
		if to, ok := parseIntLiteral(r.To); ok && from > to {
			cmp, bump = ">=", v+"--"
		}
	}
	if r.Exclusive {
		cmp = strings.TrimSuffix(cmp, "=")
	}
	if x.Step != nil {
		stepCode, err := e.Compile(x.Step, o, ast.LevelOp)
		if err != nil {
			return "", err
		}
		bump = v + " += " + stepCode
	}

	t := trampoline{
		init: []string{v + " = " + fromCode},
		cond: v + " " + cmp + " " + toCode,
		step: []string{bump},
	}
	return e.compileTrampoline(t, x.Body, x.Guard, o)
}
