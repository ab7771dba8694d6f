package ast

// Names of the synthesized bindings that carry control flow through
// rewritten suspend/resume code. All use a reserved prefix so they can
// never collide with fresh names from the scope tracker.
const (
	ContName      = "__tame_k"         // current continuation parameter
	BreakName     = "__tame_break"     // stored break continuation
	ContinueName  = "__tame_continue"  // loop-step continuation
	LoopName      = "__tame_while"     // recursive loop trampoline
	DeferralsName = "__tame_deferrals" // per-await fulfillment tracker
	RuntimeName   = "__tame"           // runtime support object
)

// Await is a suspension point: its body runs, registering deferred
// slots, and execution resumes once every registered slot has been
// fulfilled.
type Await struct {
	Body *Block
}

func (*Await) node() {}

// Defer registers N slots with the enclosing Await's fulfillment
// tracker and evaluates to the inner callback that fills them.
type Defer struct {
	Slots []*Slot
}

func (*Defer) node() {}

// Slot is one destination registered by a Defer: a plain variable, a
// property or computed index of some owning object, or a trailing
// variadic collector. The owning object and key are captured when the
// slot is registered, not when it is fulfilled.
type Slot struct {
	Target *Value
	Splat  bool
}

func (*Slot) node() {}

// TameRequire is the directive selecting how generated code obtains
// the runtime support object: inline, node, or none.
type TameRequire struct {
	Mode string
}

func (*TameRequire) node() {}

// TailCall is a synthesized continuation invocation. It only ever
// appears in rewritten suspend/resume code: rotation appends it to
// pivot branches, and loops use it for their break/continue closures.
type TailCall struct {
	Func string
	Args []Node
}

func (*TailCall) node() {}
