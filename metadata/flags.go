package metadata

import (
	"fmt"

	"github.com/qir-alliance/qirlib/ir"
)

// FlagBehavior is the public module-flag merge behavior enumeration, stable
// across toolkit versions. Values are ordered; the terminal value depends on
// the toolkit version (BehaviorMin exists only from version 14 on).
type FlagBehavior int32

const (
	BehaviorError FlagBehavior = iota + 1
	BehaviorWarning
	BehaviorRequire
	BehaviorOverride
	BehaviorAppend
	BehaviorAppendUnique
	BehaviorMax
	// BehaviorMin requires toolkit version 14 or newer.
	BehaviorMin
)

// lastBehavior is the enumeration's version-dependent terminal value.
func lastBehavior() FlagBehavior {
	if ir.Version >= 14 {
		return BehaviorMin
	}
	return BehaviorMax
}

// Valid reports whether b is inside the enumeration's declared range for the
// current toolkit version.
func (b FlagBehavior) Valid() bool {
	return b >= BehaviorError && b <= lastBehavior()
}

// irFlagBehavior maps the public enumeration onto the toolkit's internal one.
// The mapping is total over the declared range; anything else is a
// programming error and panics.
func irFlagBehavior(b FlagBehavior) ir.FlagBehavior {
	switch b {
	case BehaviorError:
		return ir.FlagError
	case BehaviorWarning:
		return ir.FlagWarning
	case BehaviorRequire:
		return ir.FlagRequire
	case BehaviorOverride:
		return ir.FlagOverride
	case BehaviorAppend:
		return ir.FlagAppend
	case BehaviorAppendUnique:
		return ir.FlagAppendUnique
	case BehaviorMax:
		return ir.FlagMax
	case BehaviorMin:
		if ir.Version >= 14 {
			return ir.FlagMin
		}
	}
	panic(fmt.Sprintf("metadata: unknown flag behavior %d", b))
}

// AddModuleFlag appends one module flag entry to m with the given merge
// behavior. Panics if behavior is outside the declared enumeration range.
func AddModuleFlag(m *ir.Module, behavior FlagBehavior, key string, val ir.Metadata) {
	m.AddFlag(irFlagBehavior(behavior), key, val)
}
