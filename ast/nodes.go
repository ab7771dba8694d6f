package ast

// Block is an ordered sequence of statements or expressions, the body
// of every function, branch, and loop. The root of a compilation is a
// Block.
type Block struct {
	Exprs []Node
}

func (*Block) node() {}

// NewBlock builds a block from the given expressions.
func NewBlock(exprs ...Node) *Block { return &Block{Exprs: exprs} }

// AsBlock wraps n in a Block unless it already is one.
func AsBlock(n Node) *Block {
	if b, ok := n.(*Block); ok {
		return b
	}
	if n == nil {
		return &Block{}
	}
	return &Block{Exprs: []Node{n}}
}

// Literal is a raw token: numbers, quoted strings, identifiers,
// keywords such as this, true, null, undefined, break and continue.
type Literal struct {
	Val string
}

func (*Literal) node() {}

// IsString reports whether the literal is a quoted string token.
func (l *Literal) IsString() bool {
	return len(l.Val) > 0 && (l.Val[0] == '"' || l.Val[0] == '\'')
}

// Return yields a value from the enclosing function. Expr is nil for a
// bare return.
type Return struct {
	Expr Node
}

func (*Return) node() {}

// Value is a base expression plus a chain of accessor properties, e.g.
// a.b[c]?.d. Properties are Access, Index or Slice nodes.
type Value struct {
	Base  Node
	Props []Node
}

func (*Value) node() {}

// NewValue wraps base in a Value carrying the given properties. A bare
// Value with no new properties is returned unchanged.
func NewValue(base Node, props ...Node) *Value {
	if v, ok := base.(*Value); ok {
		if len(props) == 0 {
			return v
		}
		return &Value{Base: v.Base, Props: append(append([]Node{}, v.Props...), props...)}
	}
	return &Value{Base: base, Props: props}
}

// Ident builds a bare identifier value.
func Ident(name string) *Value {
	return &Value{Base: &Literal{Val: name}}
}

// IsIdent reports whether the value is a bare, unqualified identifier,
// returning its name.
func (v *Value) IsIdent() (string, bool) {
	if len(v.Props) != 0 {
		return "", false
	}
	if l, ok := v.Base.(*Literal); ok && IsIdentifier(l.Val) {
		return l.Val, true
	}
	return "", false
}

// HasSoak reports whether any accessor in the chain is soaked.
func (v *Value) HasSoak() bool {
	for _, p := range v.Props {
		switch a := p.(type) {
		case *Access:
			if a.Soak {
				return true
			}
		case *Index:
			if a.Soak {
				return true
			}
		}
	}
	return false
}

// Access is a dotted property accessor in a Value chain.
type Access struct {
	Name string
	Soak bool
}

func (*Access) node() {}

// Index is a computed accessor in a Value chain.
type Index struct {
	Expr Node
	Soak bool
}

func (*Index) node() {}

// Slice is a range accessor in a Value chain, e.g. a[1..3].
type Slice struct {
	R *Range
}

func (*Slice) node() {}

// Range is a numeric span. From or To may be nil for open slices.
type Range struct {
	From      Node
	To        Node
	Exclusive bool
}

func (*Range) node() {}

// Obj is an object literal. Properties are Assigns in object context,
// or bare Values for shorthand keys.
type Obj struct {
	Props []Node
}

func (*Obj) node() {}

// Arr is an array literal.
type Arr struct {
	Elems []Node
}

func (*Arr) node() {}

// Call invokes a callee with ordered arguments. IsSuper marks a super
// call, whose callee is resolved against the enclosing method.
type Call struct {
	Callee  Node
	Args    []Node
	Soak    bool
	IsNew   bool
	IsSuper bool
}

func (*Call) node() {}

// Extends links a child constructor to a parent's prototype chain.
type Extends struct {
	Child  Node
	Parent Node
}

func (*Extends) node() {}

// Assign binds Value to Target. Op carries compound operators such as
// += or ||=; InObject marks a key: value pair inside an object literal.
type Assign struct {
	Target   Node
	Value    Node
	Op       string
	InObject bool
}

func (*Assign) node() {}

// Func is a function literal. Bound functions capture the enclosing
// this.
type Func struct {
	Params []*Param
	Body   *Block
	Bound  bool
}

func (*Func) node() {}

// ImplicitCallbackName is the parameter name that declares a function
// as taking an implicit callback: a bare return inside such a function
// invokes the callback.
const ImplicitCallbackName = "autocb"

// HasImplicitCallback reports whether the parameter list declares the
// implicit callback name.
func (f *Func) HasImplicitCallback() bool {
	for _, p := range f.Params {
		if p.Name == ImplicitCallbackName {
			return true
		}
	}
	return false
}

// Param is one function parameter, optionally defaulted or variadic.
type Param struct {
	Name    string
	Default Node
	Splat   bool
}

func (*Param) node() {}

// Splat spreads an expression into an argument list, array literal, or
// destructuring pattern.
type Splat struct {
	Expr Node
}

func (*Splat) node() {}

// While loops while Cond holds (or fails to hold, when Invert is set).
// Returns marks the loop as an expression accumulating its body values.
type While struct {
	Cond    Node
	Body    *Block
	Guard   Node
	Invert  bool
	Returns bool
}

func (*While) node() {}

// For is a comprehension loop over an array, range, or object source.
type For struct {
	Body     *Block
	Source   Node
	Guard    Node
	Step     Node
	ValueVar string
	KeyVar   string
	Object   bool
	Returns  bool
}

func (*For) node() {}

// Switch branches over Subject; a nil Subject switches over true so
// each case condition is tested directly.
type Switch struct {
	Subject Node
	Cases   []*SwitchCase
	Else    *Block
}

func (*Switch) node() {}

// SwitchCase is one arm of a Switch, possibly with several conditions.
type SwitchCase struct {
	Conds []Node
	Body  *Block
}

func (*SwitchCase) node() {}

// If branches on Cond. Else may be nil. IsSoak marks the node as a
// synthesized soak unfolding, which always compiles as an expression
// guard. Invert negates the condition (unless-form).
type If struct {
	Cond   Node
	Body   *Block
	Else   *Block
	Invert bool
	IsSoak bool
}

func (*If) node() {}

// Op is a unary or binary operator application. Second is nil for
// unary operators; Postfix marks x++ and x--.
type Op struct {
	Op      string
	First   Node
	Second  Node
	Postfix bool
}

func (*Op) node() {}

// comparisonOps are the relational operators that chain.
var comparisonOps = map[string]bool{
	"<": true, ">": true, "<=": true, ">=": true,
	"===": true, "!==": true, "==": true, "!=": true,
}

// IsChainable reports whether the operator participates in chained
// comparisons like a < b < c.
func (o *Op) IsChainable() bool { return comparisonOps[o.Op] }

// In tests membership of Val in Array.
type In struct {
	Val     Node
	Array   Node
	Negated bool
}

func (*In) node() {}

// Try guards Body with optional catch and finally clauses.
type Try struct {
	Body     *Block
	CatchVar string
	Catch    *Block
	Finally  *Block
}

func (*Try) node() {}

// Throw raises its expression.
type Throw struct {
	Expr Node
}

func (*Throw) node() {}

// Existence tests that its expression is neither null nor undefined.
type Existence struct {
	Expr Node
}

func (*Existence) node() {}

// Parens wraps an expression in grouping parentheses.
type Parens struct {
	Body Node
}

func (*Parens) node() {}

// Class declares a constructor function with a prototype chain. Props
// are Assigns: plain keys become prototype members, this-qualified
// keys become statics, and the constructor key supplies the
// constructor function.
type Class struct {
	Name   string
	Parent Node
	Props  []*Assign
}

func (*Class) node() {}

// Comment is a passed-through block comment.
type Comment struct {
	Text string
}

func (*Comment) node() {}
