// Package qirlib provides library-safe access to a QIR toolchain: an IR
// object model, metadata coercion helpers, backend initialization, and a
// crash-recoverable embedded linker driver.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	qirlib/          Root package with version information
//	├── ir/          Context, module, value and metadata object model
//	├── metadata/    Value-to-metadata coercion and module-flag plumbing
//	├── driver/      Crash-recoverable invocation of the embedded linker
//	├── linker/      The embedded wasm object linker (the driver entry point)
//	├── targets/     Backend-initializer registry and trampolines
//	└── errors/      Structured error types for diagnostics
//
// # Quick Start
//
// Link two object files and inspect the outcome:
//
//	res := driver.Invoke([]string{"-o", "out.wasm", "a.o.wasm", "b.o.wasm"})
//	if res.Code != 0 {
//	    log.Printf("link failed: %s", res.Stderr)
//	}
//	if !res.CanRunAgain {
//	    log.Fatal("driver state is no longer trustworthy; restart before linking again")
//	}
//
// Attach a constant as module metadata:
//
//	ctx := ir.NewContext(false)
//	mod := ctx.NewModule("main")
//	md := metadata.AsMetadata(ctx.ConstInt(64, 2))
//	metadata.AddModuleFlag(mod, metadata.BehaviorError, "qir_major_version", md)
//
// # Thread Safety
//
// The driver shares process-wide linker state and must not be invoked from
// two goroutines at once; callers serialize invocations themselves, typically
// with a single worker draining a queue of link jobs. ir.Context and its
// handles are safe for concurrent reads only to the extent the caller does
// not mutate them concurrently.
package qirlib
