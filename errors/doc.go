// Package errors provides structured error types for the compiler.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Compilation is fail-fast: the first error constructed here aborts the
// whole compilation and is surfaced to the caller unchanged.
//
// Use the Builder for errors needing context, or the convenience
// constructors for the common fatal conditions:
//
//	return errors.New(errors.PhaseEmit, errors.KindDuplicateKey).
//		Node("Obj").
//		Detail("key %q", name).
//		Build()
package errors
