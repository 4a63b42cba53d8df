package ir

import (
	"go.uber.org/zap"

	"github.com/qir-alliance/qirlib/errors"
)

// FlagBehavior controls how a module flag merges when two modules are
// combined.
type FlagBehavior int

const (
	// FlagError requires both modules to carry equal values for the key.
	FlagError FlagBehavior = iota
	// FlagWarning keeps the destination value and warns on mismatch.
	FlagWarning
	// FlagRequire asserts the other module carries exactly this value.
	FlagRequire
	// FlagOverride unconditionally wins over non-override values.
	FlagOverride
	// FlagAppend concatenates tuple operands.
	FlagAppend
	// FlagAppendUnique concatenates tuple operands, dropping duplicates.
	FlagAppendUnique
	// FlagMax keeps the larger integer value.
	FlagMax
	// FlagMin keeps the smaller integer value. Only present from toolkit
	// version 14 on.
	FlagMin
)

func (b FlagBehavior) String() string {
	switch b {
	case FlagError:
		return "error"
	case FlagWarning:
		return "warning"
	case FlagRequire:
		return "require"
	case FlagOverride:
		return "override"
	case FlagAppend:
		return "append"
	case FlagAppendUnique:
		return "appendunique"
	case FlagMax:
		return "max"
	case FlagMin:
		return "min"
	}
	return "unknown"
}

// ModuleFlag is one module-level key/behavior/value triple.
type ModuleFlag struct {
	Behavior FlagBehavior
	Key      string
	Value    Metadata
}

// Module is a named container for module flags. qirlib does not model module
// bodies; object code lives in wasm objects handled by the linker.
type Module struct {
	ctx   *Context
	name  string
	flags []ModuleFlag
}

// Context returns the owning context.
func (m *Module) Context() *Context { return m.ctx }

// Name returns the module's name.
func (m *Module) Name() string { return m.name }

// AddFlag appends one module flag entry. Duplicate keys are legal at this
// level; they are reconciled when modules link.
func (m *Module) AddFlag(behavior FlagBehavior, key string, val Metadata) {
	m.flags = append(m.flags, ModuleFlag{Behavior: behavior, Key: key, Value: val})
}

// Flags returns the ordered flag list. The slice is owned by the module.
func (m *Module) Flags() []ModuleFlag { return m.flags }

// Flag returns the value of the first flag with the given key.
func (m *Module) Flag(key string) (Metadata, bool) {
	for _, f := range m.flags {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// LinkIn merges the flags of src into m following each flag's behavior.
// The source module is left untouched; on error the destination may hold a
// partial merge and should be discarded.
func (m *Module) LinkIn(src *Module) error {
	for _, sf := range src.flags {
		idx := m.flagIndex(sf.Key)
		if idx < 0 {
			m.flags = append(m.flags, sf)
			continue
		}
		if err := m.mergeFlag(idx, sf, src.name); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) flagIndex(key string) int {
	for i, f := range m.flags {
		if f.Key == key {
			return i
		}
	}
	return -1
}

func (m *Module) mergeFlag(idx int, src ModuleFlag, srcName string) error {
	dst := &m.flags[idx]

	// Override beats everything except a conflicting override.
	if dst.Behavior == FlagOverride || src.Behavior == FlagOverride {
		if dst.Behavior == FlagOverride && src.Behavior == FlagOverride {
			if !metadataEqual(dst.Value, src.Value) {
				return errors.Conflict(errors.PhaseFlags, dst.Key,
					"conflicting override values")
			}
			return nil
		}
		if src.Behavior == FlagOverride {
			*dst = src
		}
		return nil
	}

	// Require only checks; it never changes the destination.
	if src.Behavior == FlagRequire {
		if !metadataEqual(dst.Value, src.Value) {
			return errors.Conflict(errors.PhaseFlags, dst.Key,
				"required value not satisfied")
		}
		return nil
	}
	if dst.Behavior == FlagRequire {
		if !metadataEqual(dst.Value, src.Value) {
			return errors.Conflict(errors.PhaseFlags, dst.Key,
				"required value not satisfied")
		}
		*dst = src
		return nil
	}

	if dst.Behavior != src.Behavior {
		return errors.Conflict(errors.PhaseFlags, dst.Key,
			"flags have conflicting behaviors")
	}

	switch dst.Behavior {
	case FlagError:
		if !metadataEqual(dst.Value, src.Value) {
			return errors.Conflict(errors.PhaseFlags, dst.Key, "values differ")
		}
	case FlagWarning:
		if !metadataEqual(dst.Value, src.Value) {
			Logger().Warn("module flag mismatch",
				zap.String("key", dst.Key),
				zap.String("module", srcName))
		}
	case FlagAppend:
		dst.Value = m.ctx.MDNodeGet(append(tupleOps(dst.Value), tupleOps(src.Value)...)...)
	case FlagAppendUnique:
		ops := tupleOps(dst.Value)
		for _, op := range tupleOps(src.Value) {
			if !containsMetadata(ops, op) {
				ops = append(ops, op)
			}
		}
		dst.Value = m.ctx.MDNodeGet(ops...)
	case FlagMax, FlagMin:
		a, aok := flagInt(dst.Value)
		b, bok := flagInt(src.Value)
		if !aok || !bok {
			return errors.Conflict(errors.PhaseFlags, dst.Key,
				"behavior requires integer values")
		}
		if (dst.Behavior == FlagMax && b > a) || (dst.Behavior == FlagMin && b < a) {
			dst.Value = src.Value
		}
	}
	return nil
}

// tupleOps views md as an operand list; scalars become a one-element list.
func tupleOps(md Metadata) []Metadata {
	if n, ok := md.(*MDNode); ok {
		return n.Operands()
	}
	return []Metadata{md}
}

func containsMetadata(ops []Metadata, md Metadata) bool {
	for _, op := range ops {
		if metadataEqual(op, md) {
			return true
		}
	}
	return false
}

// flagInt extracts the integer payload of a constant-as-metadata flag value.
func flagInt(md Metadata) (uint64, bool) {
	cm, ok := md.(*ConstantAsMetadata)
	if !ok {
		return 0, false
	}
	ci, ok := cm.Value().(*ConstInt)
	if !ok {
		return 0, false
	}
	return ci.Uint64(), true
}
