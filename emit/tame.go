package emit

import (
	"fmt"
	"strings"

	"github.com/oconnor663/coffee-script/ast"
	"github.com/oconnor663/coffee-script/errors"
	"github.com/oconnor663/coffee-script/scope"
)

// tameSource is the inline rendition of the runtime support object: a
// fulfillment counter that starts at one, is bumped by each registered
// slot, and fires the continuation when the final decrement lands.
const tameSource = "{ Deferrals: (function() { " +
	"function Deferrals(k) { this.count = 1; this.continuation = k; } " +
	"Deferrals.prototype._fulfill = function() { if (!--this.count) { return this.continuation(); } }; " +
	"Deferrals.prototype.defer = function(params) { var self = this; this.count++; " +
	"return function() { if (params && params.assign_fn) { params.assign_fn.apply(null, arguments); } return self._fulfill(); }; }; " +
	"return Deferrals; })() }"

// runtimeRef returns the expression generated code uses to reach the
// runtime support object, per the session's runtime mode.
func (e *Emitter) runtimeRef(o *ast.Ctx) string {
	switch o.Session.Runtime {
	case scope.RuntimeInline:
		return o.Session.Utility("tame", tameSource)
	case scope.RuntimeNode:
		return o.Session.Utility("tame", `require("coffee-script").tame`)
	default:
		return "tame"
	}
}

// compileAwait emits the suspension point: a fulfillment tracker is
// created around the current continuation, the body runs registering
// slots against it, and the tracker's own initial count is released.
func (e *Emitter) compileAwait(x *ast.Await, o *ast.Ctx) (string, error) {
	inner := o.With(ast.LevelTop)
	inner.Tamed = true

	bodyCode, err := e.Statements(x.Body, inner)
	if err != nil {
		return "", err
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("var %s = new %s.Deferrals(%s);",
		ast.DeferralsName, e.runtimeRef(o), ast.ContName))
	if bodyCode != "" {
		lines = append(lines, bodyCode)
	}
	lines = append(lines, o.Indent+ast.DeferralsName+"._fulfill();")
	return strings.Join(lines, "\n"), nil
}

// compileDefer emits the slot registration: the fulfillment tracker
// hands back a callback, and the synthesized assign_fn routes that
// callback's arguments into the declared targets. Property and index
// owners are captured when the slot registers, not when it fires.
func (e *Emitter) compileDefer(x *ast.Defer, o *ast.Ctx) (string, error) {
	var captureParams []string
	var captureArgs []string
	capture := func(expr string) string {
		name := fmt.Sprintf("__slot_%d", len(captureParams)+1)
		captureParams = append(captureParams, name)
		captureArgs = append(captureArgs, expr)
		return name
	}

	var assigns []string
	for i, slot := range x.Slots {
		if slot.Splat && i != len(x.Slots)-1 {
			return "", errors.MultipleSplats()
		}
		line, err := e.compileSlot(slot, i, capture, o)
		if err != nil {
			return "", err
		}
		assigns = append(assigns, line)
	}

	inner := o.Indented()
	var body string
	if len(assigns) > 0 {
		bodyIndent := inner.Indent + o.Session.Tab
		if len(captureParams) > 0 {
			bodyIndent += o.Session.Tab
		}
		for i, a := range assigns {
			assigns[i] = bodyIndent + a
		}
		body = "\n" + strings.Join(assigns, "\n") + "\n"
	}

	var fn string
	if len(captureParams) == 0 {
		if body == "" {
			fn = "function() {}"
		} else {
			fn = "function() {" + body + inner.Indent + "}"
		}
	} else {
		fn = "(function(" + strings.Join(captureParams, ", ") + ") {\n" +
			inner.Indent + o.Session.Tab + "return function() {" + body +
			inner.Indent + o.Session.Tab + "};\n" +
			inner.Indent + "})(" + strings.Join(captureArgs, ", ") + ")"
	}

	return ast.DeferralsName + ".defer({\n" +
		inner.Indent + "assign_fn: " + fn + "\n" +
		o.Indent + "})", nil
}

// compileSlot renders one slot's assignment inside the assign_fn,
// registering whatever owner and key captures it needs.
func (e *Emitter) compileSlot(slot *ast.Slot, i int, capture func(string) string, o *ast.Ctx) (string, error) {
	v := slot.Target
	if name, ok := v.IsIdent(); ok {
		if ast.IsReserved(name) {
			return "", errors.ReservedWord(name)
		}
		if !o.Scope.Resolve(name) {
			o.Scope.Declare(name)
		}
		if slot.Splat {
			return fmt.Sprintf("%s = %s.call(arguments, %d);", name, e.sliceHelper(o), i), nil
		}
		return fmt.Sprintf("%s = arguments[%d];", name, i), nil
	}

	if len(v.Props) == 0 {
		return "", errors.BadAssignTarget(ast.Kind(v.Base))
	}
	if slot.Splat {
		return "", errors.BadAssignTarget("splat of a property")
	}

	owner := &ast.Value{Base: v.Base, Props: v.Props[:len(v.Props)-1]}
	ownerCode, err := e.Compile(owner, o, ast.LevelAccess)
	if err != nil {
		return "", err
	}
	ownerRef := capture(ownerCode)

	switch last := v.Props[len(v.Props)-1].(type) {
	case *ast.Access:
		return fmt.Sprintf("%s.%s = arguments[%d];", ownerRef, last.Name, i), nil
	case *ast.Index:
		keyCode, err := e.Compile(last.Expr, o, ast.LevelParen)
		if err != nil {
			return "", err
		}
		keyRef := capture(keyCode)
		return fmt.Sprintf("%s[%s] = arguments[%d];", ownerRef, keyRef, i), nil
	default:
		return "", errors.BadAssignTarget(ast.Kind(last))
	}
}

// compileTailCall emits a synthesized continuation invocation. It is
// always a statement and always returns, terminating the enclosing
// rewritten closure.
func (e *Emitter) compileTailCall(x *ast.TailCall, o *ast.Ctx) (string, error) {
	args := make([]string, len(x.Args))
	for i, a := range x.Args {
		var err error
		args[i], err = e.Compile(a, o, ast.LevelList)
		if err != nil {
			return "", err
		}
	}
	return "return " + x.Func + "(" + strings.Join(args, ", ") + ")", nil
}
