package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in compilation the error occurred
type Phase string

const (
	PhaseParse   Phase = "parse"   // node construction
	PhaseAnalyze Phase = "analyze" // CPS analysis passes
	PhaseEmit    Phase = "emit"    // code generation
	PhaseConfig  Phase = "config"  // directive / option validation
)

// Kind categorizes the error
type Kind string

const (
	KindBadAssignTarget Kind = "bad_assign_target"
	KindReservedWord    Kind = "reserved_word"
	KindDuplicateCtor   Kind = "duplicate_constructor"
	KindBoundCtor       Kind = "bound_constructor"
	KindMultipleSplats  Kind = "multiple_splats"
	KindDuplicateParam  Kind = "duplicate_parameter"
	KindDuplicateKey    Kind = "duplicate_key"
	KindJumpInClosure   Kind = "jump_in_closure"
	KindBadRuntimeMode  Kind = "bad_runtime_mode"
	KindSuperOutside    Kind = "super_outside_method"
	KindAnonymousSuper  Kind = "anonymous_super_target"
	KindUnknownNode     Kind = "unknown_node"
	KindInternal        Kind = "internal"
)

// Error is the structured error type used throughout the compiler
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Node   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Node != "" {
		b.WriteString(" in ")
		b.WriteString(e.Node)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Node sets the node kind the error was raised for
func (b *Builder) Node(kind string) *Builder {
	b.err.Node = kind
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// BadAssignTarget creates an illegal-assignment-target error
func BadAssignTarget(target string) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindBadAssignTarget,
		Detail: fmt.Sprintf("%q cannot be assigned to", target),
	}
}

// ReservedWord creates a reserved-word misuse error
func ReservedWord(name string) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindReservedWord,
		Detail: fmt.Sprintf("reserved word %q can't be declared", name),
	}
}

// DuplicateConstructor creates a duplicate-constructor error
func DuplicateConstructor(class string) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindDuplicateCtor,
		Node:   "Class",
		Detail: fmt.Sprintf("class %s defines more than one constructor", class),
	}
}

// BoundConstructor creates a bound-constructor error
func BoundConstructor(class string) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindBoundCtor,
		Node:   "Class",
		Detail: fmt.Sprintf("class %s declares its constructor as a bound function", class),
	}
}

// MultipleSplats creates a multiple-splat-parameters error
func MultipleSplats() *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindMultipleSplats,
		Detail: "more than one splat in a parameter list",
	}
}

// DuplicateParam creates a duplicate-parameter error
func DuplicateParam(name string) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindDuplicateParam,
		Detail: fmt.Sprintf("parameter %q declared twice", name),
	}
}

// DuplicateKey creates a duplicate-object-key error
func DuplicateKey(key string) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindDuplicateKey,
		Detail: fmt.Sprintf("object literal repeats key %q", key),
	}
}

// JumpInClosure creates an error for a jump statement wrapped in an
// expression closure
func JumpInClosure(keyword string) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindJumpInClosure,
		Detail: fmt.Sprintf("cannot use %q inside an expression", keyword),
	}
}

// BadRuntimeMode creates an invalid tameRequire-mode error
func BadRuntimeMode(mode string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindBadRuntimeMode,
		Detail: fmt.Sprintf("tameRequire mode %q is not one of inline, node, none", mode),
	}
}

// SuperOutsideMethod creates an error for super used outside a method body
func SuperOutsideMethod() *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindSuperOutside,
		Detail: "cannot call super outside of a method",
	}
}

// AnonymousSuper creates an error for super inside an anonymous function
func AnonymousSuper() *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindAnonymousSuper,
		Detail: "cannot call super on an anonymous function",
	}
}

// Internal creates an internal invariant-violation error
func Internal(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseEmit,
		Kind:   KindInternal,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// UnknownNode creates an error for a node kind no operation handles
func UnknownNode(phase Phase, kind string) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindUnknownNode,
		Node:  kind,
	}
}
