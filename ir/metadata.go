package ir

// Metadata is an opaque handle into the metadata hierarchy.
type Metadata interface {
	metadataNode()
}

// ConstantAsMetadata wraps a constant value as a metadata node. Uniqued per
// context and per constant.
type ConstantAsMetadata struct {
	c Constant
}

func (m *ConstantAsMetadata) metadataNode() {}

// Value returns the wrapped constant.
func (m *ConstantAsMetadata) Value() Constant { return m.c }

// ValueAsMetadata wraps an arbitrary non-constant value as a metadata node.
// Uniqued per context and per value.
type ValueAsMetadata struct {
	v Value
}

func (m *ValueAsMetadata) metadataNode() {}

// Value returns the wrapped value.
func (m *ValueAsMetadata) Value() Value { return m.v }

// MDString is an interned metadata string.
type MDString struct {
	s string
}

func (m *MDString) metadataNode() {}

// String returns the string payload.
func (m *MDString) String() string { return m.s }

// MDNode is a tuple of metadata operands.
type MDNode struct {
	ops []Metadata
}

func (m *MDNode) metadataNode() {}

// Operands returns the node's operand list. The slice is owned by the node;
// callers must not mutate it.
func (m *MDNode) Operands() []Metadata { return m.ops }

// ConstantMetadata returns the uniqued metadata wrapper for the constant c.
func (c *Context) ConstantMetadata(cv Constant) *ConstantAsMetadata {
	if m, ok := c.constMD[cv]; ok {
		return m
	}
	m := &ConstantAsMetadata{c: cv}
	c.constMD[cv] = m
	return m
}

// ValueMetadata returns the uniqued metadata wrapper for the value v.
func (c *Context) ValueMetadata(v Value) *ValueAsMetadata {
	if m, ok := c.valueMD[v]; ok {
		return m
	}
	m := &ValueAsMetadata{v: v}
	c.valueMD[v] = m
	return m
}

// MDStringGet returns the interned metadata string for s.
func (c *Context) MDStringGet(s string) *MDString {
	if m, ok := c.mdStrings[s]; ok {
		return m
	}
	m := &MDString{s: s}
	c.mdStrings[s] = m
	return m
}

// MDNodeGet creates a metadata tuple with the given operands. Nodes are not
// uniqued; flag merging may rebuild operand lists.
func (c *Context) MDNodeGet(ops ...Metadata) *MDNode {
	return &MDNode{ops: ops}
}

// metadataEqual reports structural equality of two metadata nodes. Uniqued
// kinds compare by identity; tuples compare element-wise.
func metadataEqual(a, b Metadata) bool {
	if a == b {
		return true
	}
	an, aok := a.(*MDNode)
	bn, bok := b.(*MDNode)
	if !aok || !bok {
		return false
	}
	if len(an.ops) != len(bn.ops) {
		return false
	}
	for i := range an.ops {
		if !metadataEqual(an.ops[i], bn.ops[i]) {
			return false
		}
	}
	return true
}
