package ir

// Value is an opaque handle into the value hierarchy. The dynamic kind of a
// value is discovered by type assertion: Constant for compile-time constants,
// *MetadataAsValue for metadata appearing in value position, anything else
// for ordinary run-time values such as instructions.
type Value interface {
	Context() *Context
	valueNode()
}

// Constant marks values known at compile time.
type Constant interface {
	Value
	constantNode()
}

// ConstInt is an integer constant of a fixed bit width.
type ConstInt struct {
	ctx  *Context
	bits uint32
	val  uint64
}

func (c *ConstInt) Context() *Context { return c.ctx }
func (c *ConstInt) valueNode()        {}
func (c *ConstInt) constantNode()     {}

// Bits returns the integer's bit width.
func (c *ConstInt) Bits() uint32 { return c.bits }

// Uint64 returns the integer's raw (zero-extended) payload.
func (c *ConstInt) Uint64() uint64 { return c.val }

// ConstFloat is a double-precision floating point constant.
type ConstFloat struct {
	ctx *Context
	val float64
}

func (c *ConstFloat) Context() *Context { return c.ctx }
func (c *ConstFloat) valueNode()        {}
func (c *ConstFloat) constantNode()     {}

// Float64 returns the constant's payload.
func (c *ConstFloat) Float64() float64 { return c.val }

// Instruction is a generic non-constant value. qirlib does not model
// instruction semantics; the handle exists so callers holding arbitrary
// toolkit values can still round-trip them through metadata.
type Instruction struct {
	ctx    *Context
	opcode string
	name   string
}

func (i *Instruction) Context() *Context { return i.ctx }
func (i *Instruction) valueNode()        {}

// Opcode returns the instruction's mnemonic.
func (i *Instruction) Opcode() string { return i.opcode }

// Name returns the instruction's result name, possibly empty.
func (i *Instruction) Name() string { return i.name }

// MetadataAsValue lifts a metadata node into value position. Handles are
// uniqued per context and per wrapped node.
type MetadataAsValue struct {
	ctx *Context
	md  Metadata
}

func (v *MetadataAsValue) Context() *Context { return v.ctx }
func (v *MetadataAsValue) valueNode()        {}

// Metadata returns the wrapped node.
func (v *MetadataAsValue) Metadata() Metadata { return v.md }

// ConstInt returns the uniqued integer constant with the given width and
// payload.
func (c *Context) ConstInt(bits uint32, val uint64) *ConstInt {
	key := constIntKey{bits: bits, val: val}
	if v, ok := c.constInts[key]; ok {
		return v
	}
	v := &ConstInt{ctx: c, bits: bits, val: val}
	c.constInts[key] = v
	return v
}

// ConstFloat returns the uniqued floating point constant with the given
// payload.
func (c *Context) ConstFloat(val float64) *ConstFloat {
	if v, ok := c.constFloats[val]; ok {
		return v
	}
	v := &ConstFloat{ctx: c, val: val}
	c.constFloats[val] = v
	return v
}

// NewInstruction creates a fresh generic value handle. Instructions are not
// uniqued; every call yields a distinct handle.
func (c *Context) NewInstruction(opcode, name string) *Instruction {
	return &Instruction{ctx: c, opcode: opcode, name: name}
}

// MetadataValue returns the uniqued value-position wrapper for md.
func (c *Context) MetadataValue(md Metadata) *MetadataAsValue {
	if v, ok := c.mdValues[md]; ok {
		return v
	}
	v := &MetadataAsValue{ctx: c, md: md}
	c.mdValues[md] = v
	return v
}
