// Package coffee compiles a parsed syntax tree into JavaScript source.
//
// The library covers everything between the parser and the output
// text. The parser hands over a tree of ast nodes; Compile runs the
// suspend/resume analysis passes, allocates scopes, and emits the
// program.
//
// The packages are organized by responsibility:
//
//	coffee/       Root entry point tying analysis and emission together
//	├── ast/      Node model, per-kind contracts, tree-walk utilities
//	├── scope/    Lexical scope tracking and session-wide helper registry
//	├── cps/      Suspend/resume analysis passes and block rotation
//	├── emit/     Per-node code generation
//	└── errors/   Structured compile error types
//
// # Quick Start
//
//	tree := parse(source) // external parser
//	js, err := coffee.Compile(tree, coffee.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(js)
//
// # Suspend and Resume
//
// Await nodes mark suspension points. Before emission the cps passes
// find them, mark every ancestor up to the enclosing function, flood
// loops that contain them, and rotate statement blocks so everything
// after a suspension becomes a continuation closure. Emission then
// renders each rotated node in continuation-passing form. Trees
// without Await nodes are unaffected and emit exactly as written.
//
// # Error Handling
//
// Compilation is fail-fast: the first structural violation (illegal
// assignment target, reserved word misuse, duplicate constructor, bad
// runtime mode directive) aborts the run with an *errors.Error. There
// is no partial output and no error aggregation.
//
// # Thread Safety
//
// Each call to Compile builds its own session state, so independent
// compilations may run concurrently. A single tree must not be
// compiled from multiple goroutines at once, since analysis annotates
// the tree in place.
package coffee
