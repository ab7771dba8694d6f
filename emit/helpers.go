package emit

import "github.com/oconnor663/coffee-script/ast"

// Sources of the runtime helper functions referenced by generated
// code. Each is registered at most once per compilation, in the root
// scope, via the session's utility registry.
const (
	sliceSource   = "[].slice"
	hasPropSource = "{}.hasOwnProperty"
	bindSource    = "function(fn, me) { return function() { return fn.apply(me, arguments); }; }"
	indexOfSource = "[].indexOf || function(item) { " +
		"for (var i = 0, l = this.length; i < l; i++) { " +
		"if (i in this && this[i] === item) return i; } return -1; }"
)

func (e *Emitter) sliceHelper(o *ast.Ctx) string {
	return o.Session.Utility("slice", sliceSource)
}

func (e *Emitter) bindHelper(o *ast.Ctx) string {
	return o.Session.Utility("bind", bindSource)
}

func (e *Emitter) indexOfHelper(o *ast.Ctx) string {
	return o.Session.Utility("indexOf", indexOfSource)
}

func (e *Emitter) extendsHelper(o *ast.Ctx) string {
	hasProp := o.Session.Utility("hasProp", hasPropSource)
	src := "function(child, parent) { " +
		"for (var key in parent) { if (" + hasProp + ".call(parent, key)) child[key] = parent[key]; } " +
		"function ctor() { this.constructor = child; } " +
		"ctor.prototype = parent.prototype; " +
		"child.prototype = new ctor(); " +
		"child.__super__ = parent.prototype; " +
		"return child; }"
	return o.Session.Utility("extends", src)
}
