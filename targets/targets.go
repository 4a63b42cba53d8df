package targets

import (
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/qir-alliance/qirlib/errors"
)

// Backend describes one code generation target. Initializer fields may be
// nil when the backend does not provide that category; nil categories are
// skipped rather than treated as failures.
type Backend struct {
	// Name identifies the backend, e.g. "wasm32".
	Name string

	// Arches lists the GOARCH values this backend generates code for.
	Arches []string

	TargetInfo   func()
	Target       func()
	TargetMC     func()
	AsmPrinter   func()
	AsmParser    func()
	Disassembler func()
}

// category indexes the initializer kinds a backend carries.
type category int

const (
	catTargetInfo category = iota
	catTarget
	catTargetMC
	catAsmPrinter
	catAsmParser
	catDisassembler
	numCategories
)

var categoryNames = [numCategories]string{
	"target_info", "target", "target_mc", "asm_printer", "asm_parser", "disassembler",
}

type registeredBackend struct {
	backend *Backend
	done    [numCategories]bool
}

var (
	mu       sync.Mutex
	backends []*registeredBackend
)

// Register adds a backend to the registry. Backends must be registered
// before any initializer runs against them; registering the same name twice
// is an error.
func Register(b *Backend) error {
	if b == nil || b.Name == "" {
		return errors.Registration("", "backend must have a name")
	}
	mu.Lock()
	defer mu.Unlock()
	for _, reg := range backends {
		if reg.backend.Name == b.Name {
			return errors.Registration(b.Name, "backend already registered")
		}
	}
	backends = append(backends, &registeredBackend{backend: b})
	Logger().Debug("backend registered",
		zap.String("backend", b.Name),
		zap.Strings("arches", b.Arches))
	return nil
}

// initializer returns the backend's function for one category.
func (b *Backend) initializer(cat category) func() {
	switch cat {
	case catTargetInfo:
		return b.TargetInfo
	case catTarget:
		return b.Target
	case catTargetMC:
		return b.TargetMC
	case catAsmPrinter:
		return b.AsmPrinter
	case catAsmParser:
		return b.AsmParser
	case catDisassembler:
		return b.Disassembler
	}
	return nil
}

// runCategory runs one category's initializer for a backend exactly once.
// Callers hold mu.
func (reg *registeredBackend) runCategory(cat category) {
	if reg.done[cat] {
		return
	}
	reg.done[cat] = true
	if fn := reg.backend.initializer(cat); fn != nil {
		fn()
		Logger().Debug("backend initialized",
			zap.String("backend", reg.backend.Name),
			zap.String("category", categoryNames[cat]))
	}
}

// initializeAll runs one category across every registered backend.
func initializeAll(cat category) {
	mu.Lock()
	defer mu.Unlock()
	for _, reg := range backends {
		reg.runCategory(cat)
	}
}

// InitializeAllTargetInfos runs the target info initializer of every
// registered backend.
func InitializeAllTargetInfos() { initializeAll(catTargetInfo) }

// InitializeAllTargets runs the target initializer of every registered
// backend.
func InitializeAllTargets() { initializeAll(catTarget) }

// InitializeAllTargetMCs runs the MC layer initializer of every registered
// backend.
func InitializeAllTargetMCs() { initializeAll(catTargetMC) }

// InitializeAllAsmPrinters runs the assembly printer initializer of every
// registered backend.
func InitializeAllAsmPrinters() { initializeAll(catAsmPrinter) }

// InitializeAllAsmParsers runs the assembly parser initializer of every
// registered backend.
func InitializeAllAsmParsers() { initializeAll(catAsmParser) }

// InitializeAllDisassemblers runs the disassembler initializer of every
// registered backend.
func InitializeAllDisassemblers() { initializeAll(catDisassembler) }

// nativeBackend returns the registered backend covering the host
// architecture. Callers hold mu.
func nativeBackend() *registeredBackend {
	for _, reg := range backends {
		for _, arch := range reg.backend.Arches {
			if arch == runtime.GOARCH {
				return reg
			}
		}
	}
	return nil
}

// initializeNative runs the given categories against the host backend,
// returning true when no backend covers the host. The inverted convention
// matches the wrapped toolchain's initialization functions.
func initializeNative(cats ...category) bool {
	mu.Lock()
	defer mu.Unlock()
	reg := nativeBackend()
	if reg == nil {
		Logger().Warn("no backend covers host architecture",
			zap.String("goarch", runtime.GOARCH))
		return true
	}
	for _, cat := range cats {
		reg.runCategory(cat)
	}
	return false
}

// InitializeNativeTarget initializes the host architecture's target info,
// target and MC layer. It returns true on failure.
func InitializeNativeTarget() bool {
	return initializeNative(catTargetInfo, catTarget, catTargetMC)
}

// InitializeNativeAsmPrinter initializes the host architecture's assembly
// printer. It returns true on failure.
func InitializeNativeAsmPrinter() bool {
	return initializeNative(catAsmPrinter)
}

// InitializeNativeAsmParser initializes the host architecture's assembly
// parser. It returns true on failure.
func InitializeNativeAsmParser() bool {
	return initializeNative(catAsmParser)
}

// InitializeNativeDisassembler initializes the host architecture's
// disassembler. It returns true on failure.
func InitializeNativeDisassembler() bool {
	return initializeNative(catDisassembler)
}

func init() {
	// wasm32 is always available: the embedded linker consumes its objects.
	_ = Register(&Backend{
		Name:   "wasm32",
		Arches: []string{"wasm"},
	})
}
