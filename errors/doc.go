// Package errors provides structured error types for the structlayout module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, record and expected type names,
// and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDeclare, errors.KindInvalidDeclaration).
//		Record("Node").
//		Path("flags").
//		Detail("bit width 3 on non-integer type float32").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FieldNotFound(errors.PhaseQuery, "Node", "nxt")
//	err := errors.AlreadyResolved("Dsa", "Dsa")
//
// The Err* sentinels match on Kind alone, so callers can write
//
//	if errors.Is(err, structerrors.ErrAlreadyResolved) { ... }
//
// regardless of the phase that produced the error.
package errors
