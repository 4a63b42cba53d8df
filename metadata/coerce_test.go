package metadata

import (
	"testing"

	"github.com/qir-alliance/qirlib/ir"
)

func TestAsMetadataConstant(t *testing.T) {
	ctx := ir.NewContext(false)
	c := ctx.ConstInt(64, 42)

	md := AsMetadata(c)
	cm, ok := md.(*ir.ConstantAsMetadata)
	if !ok {
		t.Fatalf("got %T, want *ir.ConstantAsMetadata", md)
	}
	if cm.Value() != c {
		t.Error("wrapper should carry the original constant")
	}

	// Uniqued: lifting the same constant twice yields the same node.
	if AsMetadata(c) != md {
		t.Error("lifting the same constant should yield the same node")
	}
}

func TestAsMetadataIdempotentOnWrapper(t *testing.T) {
	ctx := ir.NewContext(false)
	node := ctx.MDStringGet("payload")
	wrapper := ctx.MetadataValue(node)

	md := AsMetadata(wrapper)
	if md != node {
		t.Error("lifting a metadata-as-value should return the carried node, not a new wrapper")
	}
}

func TestAsMetadataGenericFallback(t *testing.T) {
	ctx := ir.NewContext(false)
	inst := ctx.NewInstruction("call", "r0")

	md := AsMetadata(inst)
	vm, ok := md.(*ir.ValueAsMetadata)
	if !ok {
		t.Fatalf("got %T, want *ir.ValueAsMetadata", md)
	}
	if vm.Value() != inst {
		t.Error("wrapper should carry the original value")
	}
}

func TestExtractConstantRoundTrip(t *testing.T) {
	ctx := ir.NewContext(false)

	constants := []ir.Constant{
		ctx.ConstInt(64, 42),
		ctx.ConstInt(1, 1),
		ctx.ConstFloat(2.5),
	}
	for _, c := range constants {
		wrapped := ctx.MetadataValue(AsMetadata(c))
		got := ExtractConstant(wrapped)
		if got != c {
			t.Errorf("round trip of %T returned %v, want original handle", c, got)
		}
	}
}

func TestExtractConstantNegative(t *testing.T) {
	ctx := ir.NewContext(false)

	tests := []struct {
		name string
		v    ir.Value
	}{
		{"plain constant", ctx.ConstInt(64, 1)},
		{"instruction", ctx.NewInstruction("add", "")},
		{"wraps non-constant metadata", ctx.MetadataValue(ctx.MDStringGet("s"))},
		{"wraps value-as-metadata", ctx.MetadataValue(AsMetadata(ctx.NewInstruction("call", "")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractConstant(tt.v); got != nil {
				t.Errorf("ExtractConstant = %v, want nil", got)
			}
			if IsConstantMetadata(tt.v) {
				t.Error("IsConstantMetadata should be false")
			}
		})
	}
}

func TestIsConstantMetadata(t *testing.T) {
	ctx := ir.NewContext(false)
	wrapped := ctx.MetadataValue(AsMetadata(ctx.ConstInt(32, 7)))

	if !IsConstantMetadata(wrapped) {
		t.Error("constant-wrapping value should classify as constant metadata")
	}
	if ExtractConstant(wrapped) != ctx.ConstInt(32, 7) {
		t.Error("extraction should return the uniqued constant")
	}
}
