package ir

// Version is the major version of the toolkit model this package implements.
// Feature gates elsewhere in the library key off it; module-flag behavior
// Min exists only from version 14 on.
const Version = 14

type constIntKey struct {
	bits uint32
	val  uint64
}

// Context owns handle identity for values, metadata and modules. All uniqued
// handles (constants, metadata strings, wrappers) live as long as the context.
type Context struct {
	constInts   map[constIntKey]*ConstInt
	constFloats map[float64]*ConstFloat
	constMD     map[Constant]*ConstantAsMetadata
	valueMD     map[Value]*ValueAsMetadata
	mdStrings   map[string]*MDString
	mdValues    map[Metadata]*MetadataAsValue

	// opaquePointers is accepted for signature stability but has no effect
	// in this toolkit version; it is reserved for future versions.
	opaquePointers bool
}

// NewContext creates a fresh context. The opaquePointers parameter is
// currently a no-op reserved for future toolkit versions; it is recorded but
// does not change behavior.
func NewContext(opaquePointers bool) *Context {
	return &Context{
		constInts:      make(map[constIntKey]*ConstInt),
		constFloats:    make(map[float64]*ConstFloat),
		constMD:        make(map[Constant]*ConstantAsMetadata),
		valueMD:        make(map[Value]*ValueAsMetadata),
		mdStrings:      make(map[string]*MDString),
		mdValues:       make(map[Metadata]*MetadataAsValue),
		opaquePointers: opaquePointers,
	}
}

// OpaquePointers reports the value recorded at construction. No component of
// this toolkit version consults it.
func (c *Context) OpaquePointers() bool {
	return c.opaquePointers
}

// NewModule creates an empty module owned by this context.
func (c *Context) NewModule(name string) *Module {
	return &Module{ctx: c, name: name}
}
