// Package ast defines the node model of the compiler: the closed set of
// tree node kinds produced by the parser, the per-kind semantic
// contracts (statement-ness, complexity, jump escape, return pushing),
// and generic tree-walk utilities shared by analysis and emission.
package ast

import (
	"fmt"
	"strings"

	"github.com/oconnor663/coffee-script/scope"
)

// Node is the closed sum of tree node kinds. Operations over nodes are
// package-level functions with exhaustive type switches; the marker
// method seals the set so every switch must account for every kind.
type Node interface {
	node()
}

// Kind returns the node's kind name for diagnostics.
func Kind(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}

// Level is the precedence position a node is being emitted into. It
// decides whether emitted text needs wrapping parentheses.
type Level int

const (
	LevelTop    Level = iota // unparenthesized statement position
	LevelParen               // inside parentheses or a condition
	LevelList                // element of a list or argument position
	LevelCond                // branch of a conditional expression
	LevelOp                  // operand of a unary or binary operator
	LevelAccess              // target of a property access or call
)

// Ctx is the compilation context cloned at every recursive descent.
// Mutating a clone never affects siblings.
type Ctx struct {
	Scope   *scope.Scope
	Session *scope.Session
	Indent  string
	Level   Level
	// Tamed marks the context as belonging to a suspend/resume-active
	// scope so emission knows continuations are in flight.
	Tamed bool
	// IsExistentialEquals is set while compiling a ?= assignment in
	// statement position; the inverted existence guard then spells its
	// test as == null, since the target is always declared by that
	// point.
	IsExistentialEquals bool
}

// With returns a clone of the context at the given level.
func (o *Ctx) With(level Level) *Ctx {
	c := *o
	c.Level = level
	return &c
}

// Indented returns a clone one indentation step deeper.
func (o *Ctx) Indented() *Ctx {
	c := *o
	c.Indent += c.Session.Tab
	return &c
}

// InScope returns a clone using the given scope.
func (o *Ctx) InScope(s *scope.Scope) *Ctx {
	c := *o
	c.Scope = s
	return &c
}

// JumpState carries what a jump may legally escape through while
// testing a subtree with Jumps.
type JumpState struct {
	Loop  bool // break/continue bind to an enclosing loop
	Block bool // break binds to an enclosing switch
}

// reservedWords are names that cannot be declared, used as parameters,
// or bound by a catch clause.
var reservedWords = map[string]bool{
	"arguments": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "debugger": true,
	"default": true, "delete": true, "do": true, "else": true,
	"enum": true, "eval": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "function": true,
	"if": true, "implements": true, "import": true, "in": true,
	"instanceof": true, "interface": true, "let": true, "native": true,
	"new": true, "null": true, "package": true, "private": true,
	"protected": true, "public": true, "return": true, "static": true,
	"super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "undefined": true,
	"var": true, "void": true, "while": true, "with": true, "yield": true,
}

// IsReserved reports whether name may not be declared.
func IsReserved(name string) bool { return reservedWords[name] }

// identifierPattern matches names that can appear bare after a dot.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
