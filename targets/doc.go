// Package targets manages code generation backend registration.
//
// A Backend bundles the six initializer categories a code generator
// contributes (target info, target, MC layer, assembly printer, assembly
// parser, disassembler) together with the architectures it covers. The
// InitializeAll functions run one category across every registered backend;
// the InitializeNative functions run against the backend covering the host
// architecture and follow the toolchain convention of returning true on
// failure.
//
// Each backend/category pair runs at most once per process, no matter how
// many times the initializers are called. The package registers a wasm32
// backend at startup; hosts register additional backends before calling any
// initializer.
package targets
