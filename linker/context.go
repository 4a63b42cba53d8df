package linker

import "github.com/qir-alliance/qirlib/linker/internal/wasm"

// Context is the process-wide linker state: the objects loaded by the
// current invocation and running diagnostics counters. It exists from the
// first CommonContext call until DestroyContext and must be torn down before
// the next invocation begins.
type Context struct {
	active      bool
	objects     []*wasm.Module
	diagnostics int
	linksDone   int
}

var commonContext *Context

// CommonContext returns the process-wide linker context, creating it on
// first use.
func CommonContext() *Context {
	if commonContext == nil {
		commonContext = &Context{}
	}
	return commonContext
}

// HasContext reports whether a context currently exists.
func HasContext() bool {
	return commonContext != nil
}

// DestroyContext deletes the global context so it cannot be reached by a
// later invocation. Safe to call when no context exists.
func DestroyContext() {
	commonContext = nil
}

// acquire marks the context active for one invocation. A context that is
// already active means a concurrent or unfinished invocation: the singleton's
// one-active-session invariant is broken and the state cannot be trusted.
func acquire() *Context {
	ctx := CommonContext()
	if ctx.active {
		fatal("common linker context already active; unfinished or concurrent invocation")
	}
	ctx.active = true
	return ctx
}
