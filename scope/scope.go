package scope

import (
	"fmt"
	"sort"
)

// kind classifies a declared name.
const (
	kindVar      = "var"      // hoisted into the scope's var line
	kindParam    = "param"    // bound by the enclosing function, never hoisted
	kindAssigned = "assigned" // carries an initializer (runtime helpers)
)

type variable struct {
	name  string
	value string
	kind  string
}

// Scope tracks the names declared by one function-like node. Scopes are
// parent-linked for name resolution; a shared scope forwards its
// declarations to the nearest non-shared ancestor, which is how a
// statement wrapped into an expression closure keeps resolving names as
// if it were still in the enclosing function.
type Scope struct {
	parent *Scope
	index  map[string]int
	vars   []variable
	shared bool
}

// New creates a root scope for one compilation.
func New() *Scope {
	return &Scope{index: make(map[string]int)}
}

// NewChild creates a scope nested inside s. A shared child hoists its
// declarations into s rather than owning them.
func (s *Scope) NewChild(shared bool) *Scope {
	return &Scope{parent: s, shared: shared, index: make(map[string]int)}
}

// Parent returns the enclosing scope, or nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Root returns the outermost scope in the chain.
func (s *Scope) Root() *Scope {
	r := s
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// hoistTarget is the scope that actually owns declarations made here.
func (s *Scope) hoistTarget() *Scope {
	t := s
	for t.shared && t.parent != nil {
		t = t.parent
	}
	return t
}

func (s *Scope) add(name, value, kind string) {
	if i, ok := s.index[name]; ok {
		// an assignment upgrades a plain declaration
		if kind == kindAssigned {
			s.vars[i].value = value
			s.vars[i].kind = kind
		}
		return
	}
	s.index[name] = len(s.vars)
	s.vars = append(s.vars, variable{name: name, value: value, kind: kind})
}

// Declare records name as a variable needing a hoisted declaration.
func (s *Scope) Declare(name string) {
	s.hoistTarget().add(name, "", kindVar)
}

// Param records name as bound by the enclosing function's parameter
// list. Params resolve but are never hoisted. Unlike Declare, params
// always belong to this scope, shared or not.
func (s *Scope) Param(name string) {
	s.add(name, "", kindParam)
}

// Assign records name with an initializer expression, used for
// synthesized runtime helpers owned by the root scope.
func (s *Scope) Assign(name, value string) {
	s.hoistTarget().add(name, value, kindAssigned)
}

// Resolve reports whether name is visible from this scope.
func (s *Scope) Resolve(name string) bool {
	for t := s; t != nil; t = t.parent {
		if _, ok := t.index[name]; ok {
			return true
		}
	}
	return false
}

// DeclaredLocally reports whether name is owned by this scope itself.
func (s *Scope) DeclaredLocally(name string) bool {
	_, ok := s.hoistTarget().index[name]
	return ok
}

// FreshName declares and returns a name unused anywhere up the chain,
// derived from hint.
func (s *Scope) FreshName(hint string) string {
	base := "_" + hint
	name := base
	for i := 1; s.Resolve(name); i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	s.Declare(name)
	return name
}

// HasDeclarations reports whether the scope owns any hoisted variables.
func (s *Scope) HasDeclarations() bool {
	t := s.hoistTarget()
	for _, v := range t.vars {
		if v.kind == kindVar {
			return true
		}
	}
	return false
}

// HasAssignments reports whether the scope owns any helper assignments.
func (s *Scope) HasAssignments() bool {
	t := s.hoistTarget()
	for _, v := range t.vars {
		if v.kind == kindAssigned {
			return true
		}
	}
	return false
}

// DeclaredNames returns the hoisted variable names, sorted.
func (s *Scope) DeclaredNames() []string {
	t := s.hoistTarget()
	var names []string
	for _, v := range t.vars {
		if v.kind == kindVar {
			names = append(names, v.name)
		}
	}
	sort.Strings(names)
	return names
}

// AssignedNames returns "name = value" entries in registration order.
func (s *Scope) AssignedNames() []string {
	t := s.hoistTarget()
	var out []string
	for _, v := range t.vars {
		if v.kind == kindAssigned {
			out = append(out, v.name+" = "+v.value)
		}
	}
	return out
}
