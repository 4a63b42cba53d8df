// Package wasm provides the binary-level machinery the embedded linker is
// built on: LEB128 encoding, object decoding/encoding, code rewriting and
// module merging.
//
// # Object model
//
// Decode parses a wasm object into a section-level Module. The linker
// deliberately supports the object shape QIR toolchains emit: core MVP
// modules plus bulk-memory opcodes. SIMD, threads, multiple memories and
// table/memory imports are reported as unsupported rather than silently
// mislinked.
//
// # Merging
//
// Link combines decoded objects into one module: type signatures are
// deduplicated, each object's function and global imports are resolved
// against the exports of the other objects, surviving imports are unioned,
// and all index spaces are rebased, including indices buried in code bodies,
// init expressions and element segments.
//
// This package is internal to the linker and should not be used directly.
package wasm
