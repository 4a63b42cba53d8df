// Package driver invokes the embedded linker with crash containment.
//
// Invoke runs one linker invocation and always returns a Result, even when
// the linker aborts through its fatal path or panics outright. The contract
// mirrors running the tool as a child process: captured stdout and stderr,
// an exit-style code, and a flag saying whether the process is still healthy
// enough for another invocation.
//
// # Recovery Scopes
//
// Each invocation runs under three independent recovery scopes: the linker
// body, a teardown attempt made after the body crashed, and the
// unconditional teardown that follows a clean body. A crash in teardown is
// as fatal to the process as a crash in the body; both clear CanRunAgain.
//
// # Poisoning
//
// Once any scope crashes, global linker state may be arbitrarily corrupt.
// The package latches into a poisoned state and every later Invoke fails
// immediately without touching the linker. Only restarting the process
// clears it.
package driver
