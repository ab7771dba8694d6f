// Package emit turns an annotated syntax tree into JavaScript source.
//
// Emission is a recursive descent over the node model. Each call site
// states the precedence level it is emitting into, and each node form
// decides from that level whether its output needs wrapping
// parentheses. Statements used where an expression is expected are
// wrapped in immediately-invoked closures whose scope is shared with
// the enclosing function, so name resolution is unchanged by the wrap.
//
// Nodes that the analysis passes marked with a continuation compile in
// cascade form: the pivot statement inside a one-parameter closure,
// invoked with a closure holding everything that followed it. Soaked
// accesses and calls are desugared into guarded conditionals before
// the node itself compiles.
package emit
