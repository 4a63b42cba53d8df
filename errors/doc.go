// Package errors provides structured error types for the qirlib library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the input object and symbol the error
// belongs to, plus a cause chain.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.DuplicateSymbol("main", "a.o.wasm", "b.o.wasm")
//	err := errors.InvalidData(errors.PhaseParse, "a.o.wasm", "truncated section")
//
// All errors implement the standard error interface and support errors.Is/As;
// two *Error values match under Is when their Phase and Kind agree.
//
// These errors cover diagnostics the linker reports through its normal return
// path. The driver's abort-style fatal path is a different animal and is
// represented by linker.FatalError instead.
package errors
