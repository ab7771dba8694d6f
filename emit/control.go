package emit

import (
	"strings"

	"github.com/oconnor663/coffee-script/ast"
	"github.com/oconnor663/coffee-script/errors"
)

func (e *Emitter) compileIf(x *ast.If, o *ast.Ctx) (string, error) {
	if o.Level == ast.LevelTop && ast.IsStatement(x, o) {
		return e.compileIfStatement(x, o)
	}
	return e.compileIfExpression(x, o)
}

func (e *Emitter) compileIfCond(x *ast.If, o *ast.Ctx) (string, error) {
	if x.Invert {
		// an existential-assignment guard tests its declared target, so
		// the inverted existence spells directly as == null
		if ex, ok := x.Cond.(*ast.Existence); ok && o.IsExistentialEquals {
			expr, err := e.Compile(ex.Expr, o, ast.LevelOp)
			if err != nil {
				return "", err
			}
			return expr + " == null", nil
		}
		atom, err := e.Compile(x.Cond, o, ast.LevelOp)
		if err != nil {
			return "", err
		}
		return "!" + atom, nil
	}
	return e.Compile(x.Cond, o, ast.LevelParen)
}

func (e *Emitter) compileIfStatement(x *ast.If, o *ast.Ctx) (string, error) {
	cond, err := e.compileIfCond(x, o)
	if err != nil {
		return "", err
	}
	inner := o.Indented()
	inner.Level = ast.LevelTop
	// the flag binds to this guard's condition only
	inner.IsExistentialEquals = false
	bodyCode, err := e.Statements(x.Body, inner)
	if err != nil {
		return "", err
	}

	code := "if (" + cond + ") {\n" + bodyCode + "\n" + o.Indent + "}"
	if x.Else == nil {
		return code, nil
	}

	// a lone If in the else block chains as else if
	if elseIf := soleIf(x.Else); elseIf != nil {
		chained, err := e.compileIfStatement(elseIf, o)
		if err != nil {
			return "", err
		}
		return code + " else " + chained, nil
	}

	elseCode, err := e.Statements(x.Else, inner)
	if err != nil {
		return "", err
	}
	return code + " else {\n" + elseCode + "\n" + o.Indent + "}", nil
}

func soleIf(b *ast.Block) *ast.If {
	if b == nil || len(b.Exprs) != 1 {
		return nil
	}
	n, ok := b.Exprs[0].(*ast.If)
	if !ok || n.IsSoak {
		return nil
	}
	return n
}

func (e *Emitter) compileIfExpression(x *ast.If, o *ast.Ctx) (string, error) {
	cond, err := e.compileIfCond(x, o)
	if err != nil {
		return "", err
	}
	body, err := e.Compile(x.Body, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	alt := "void 0"
	if x.Else != nil {
		alt, err = e.Compile(x.Else, o, ast.LevelList)
		if err != nil {
			return "", err
		}
	}
	code := cond + " ? " + body + " : " + alt
	if o.Level >= ast.LevelCond {
		code = "(" + code + ")"
	}
	return code, nil
}

func (e *Emitter) compileSwitch(x *ast.Switch, o *ast.Ctx) (string, error) {
	// with no subject the switch tests each condition against true
	subject := "true"
	if x.Subject != nil {
		var err error
		subject, err = e.Compile(x.Subject, o, ast.LevelParen)
		if err != nil {
			return "", err
		}
	}

	inner := o.Indented()
	inner.Level = ast.LevelTop
	bodyCtx := inner.Indented()
	bodyCtx.Level = ast.LevelTop

	var lines []string
	for _, c := range x.Cases {
		for _, cond := range c.Conds {
			condCode, err := e.Compile(cond, o, ast.LevelParen)
			if err != nil {
				return "", err
			}
			lines = append(lines, inner.Indent+"case "+condCode+":")
		}
		bodyCode, err := e.Statements(c.Body, bodyCtx)
		if err != nil {
			return "", err
		}
		if bodyCode != "" {
			lines = append(lines, bodyCode)
		}
		if ast.Jumps(c.Body, ast.JumpState{Block: true}) == nil {
			lines = append(lines, bodyCtx.Indent+"break;")
		}
	}
	if x.Else != nil {
		lines = append(lines, inner.Indent+"default:")
		elseCode, err := e.Statements(x.Else, bodyCtx)
		if err != nil {
			return "", err
		}
		if elseCode != "" {
			lines = append(lines, elseCode)
		}
	}

	return "switch (" + subject + ") {\n" + strings.Join(lines, "\n") +
		"\n" + o.Indent + "}", nil
}

func (e *Emitter) compileTry(x *ast.Try, o *ast.Ctx) (string, error) {
	inner := o.Indented()
	inner.Level = ast.LevelTop

	bodyCode, err := e.Statements(x.Body, inner)
	if err != nil {
		return "", err
	}
	code := "try {\n" + bodyCode + "\n" + o.Indent + "}"

	hasCatch := x.Catch != nil || x.CatchVar != ""
	if hasCatch {
		catchVar := x.CatchVar
		if catchVar == "" {
			catchVar = "_error"
		}
		if ast.IsReserved(catchVar) {
			return "", errors.ReservedWord(catchVar)
		}
		catchBody := ""
		if x.Catch != nil {
			catchBody, err = e.Statements(x.Catch, inner)
			if err != nil {
				return "", err
			}
		}
		if catchBody == "" {
			code += " catch (" + catchVar + ") {}"
		} else {
			code += " catch (" + catchVar + ") {\n" + catchBody + "\n" + o.Indent + "}"
		}
	}
	if x.Finally != nil {
		finCode, err := e.Statements(x.Finally, inner)
		if err != nil {
			return "", err
		}
		code += " finally {\n" + finCode + "\n" + o.Indent + "}"
	} else if !hasCatch {
		// a bare try needs some clause to be valid
		code += " catch (_error) {}"
	}
	return code, nil
}

func (e *Emitter) compileThrow(x *ast.Throw, o *ast.Ctx) (string, error) {
	expr, err := e.Compile(x.Expr, o, ast.LevelList)
	if err != nil {
		return "", err
	}
	return "throw " + expr + ";", nil
}
