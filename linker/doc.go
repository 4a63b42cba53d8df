// Package linker implements the embedded wasm object linker qirlib ships as
// its driver.
//
// # Entry Point
//
// Run is a library-friendly linker main: it parses an argv-style argument
// vector, links the input objects and writes the output file, reporting
// success as a boolean instead of exiting the process. Ordinary failures
// (usage errors, unreadable or malformed inputs, symbol conflicts) are
// printed to the stderr sink and surface as a false return.
//
// Internal invariant violations take a different route: they panic with a
// *FatalError, the in-process equivalent of a command-line tool aborting.
// Run is therefore not safe to call directly unless the caller installs its
// own recovery; use the driver package, which contains the fatal path and
// tears the linker context down between invocations.
//
// # Global Context
//
// The linker keeps one process-wide Context while a link is in flight and
// until DestroyContext is called. At most one logical invocation may be
// active at a time; the package documents but does not enforce cross-thread
// exclusion. Callers must serialize invocations.
package linker
