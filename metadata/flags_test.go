package metadata

import (
	"testing"

	"github.com/qir-alliance/qirlib/ir"
)

func TestFlagBehaviorMappingTotal(t *testing.T) {
	// Fixed lookup table; the mapping must agree with it for every declared
	// behavior and must preserve order.
	want := map[FlagBehavior]ir.FlagBehavior{
		BehaviorError:        ir.FlagError,
		BehaviorWarning:      ir.FlagWarning,
		BehaviorRequire:      ir.FlagRequire,
		BehaviorOverride:     ir.FlagOverride,
		BehaviorAppend:       ir.FlagAppend,
		BehaviorAppendUnique: ir.FlagAppendUnique,
		BehaviorMax:          ir.FlagMax,
		BehaviorMin:          ir.FlagMin,
	}

	prev := ir.FlagBehavior(-1)
	for b := BehaviorError; b <= lastBehavior(); b++ {
		got := irFlagBehavior(b)
		if got != want[b] {
			t.Errorf("irFlagBehavior(%d) = %v, want %v", b, got, want[b])
		}
		if got <= prev {
			t.Errorf("mapping must preserve order: %v after %v", got, prev)
		}
		prev = got
	}
}

func TestFlagBehaviorValid(t *testing.T) {
	tests := []struct {
		b    FlagBehavior
		want bool
	}{
		{BehaviorError, true},
		{BehaviorMax, true},
		{BehaviorMin, ir.Version >= 14},
		{0, false},
		{-1, false},
		{BehaviorMin + 1, false},
	}
	for _, tt := range tests {
		if got := tt.b.Valid(); got != tt.want {
			t.Errorf("Valid(%d) = %v, want %v", tt.b, got, tt.want)
		}
	}
}

func TestFlagBehaviorOutOfRangePanics(t *testing.T) {
	for _, b := range []FlagBehavior{0, -1, BehaviorMin + 1, 99} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("irFlagBehavior(%d) should panic", b)
				}
			}()
			irFlagBehavior(b)
		}()
	}
}

func TestAddModuleFlag(t *testing.T) {
	ctx := ir.NewContext(false)
	m := ctx.NewModule("main")
	md := AsMetadata(ctx.ConstInt(32, 1))

	AddModuleFlag(m, BehaviorError, "qir_major_version", md)

	flags := m.Flags()
	if len(flags) != 1 {
		t.Fatalf("got %d flags, want 1", len(flags))
	}
	f := flags[0]
	if f.Behavior != ir.FlagError || f.Key != "qir_major_version" || f.Value != md {
		t.Errorf("flag entry mismatch: %+v", f)
	}
}

func TestAddModuleFlagInvalidBehaviorPanics(t *testing.T) {
	ctx := ir.NewContext(false)
	m := ctx.NewModule("main")

	defer func() {
		if recover() == nil {
			t.Error("out-of-range behavior should panic")
		}
	}()
	AddModuleFlag(m, FlagBehavior(42), "k", AsMetadata(ctx.ConstInt(32, 1)))
}
