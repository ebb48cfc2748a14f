// Package errors provides structured error types for the glb-compose library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, storage key, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMerge, errors.KindGraphIntegrity).
//		Path("accessors", "2").
//		Detail("bufferView 7 out of range").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Format(errors.PhaseDecode, storageKey, cause)
//	err := errors.OutOfBounds(errors.PhaseMerge, path, 10, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
