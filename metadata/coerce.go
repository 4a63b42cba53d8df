package metadata

import "github.com/qir-alliance/qirlib/ir"

// AsMetadata lifts a value handle into metadata position. Dispatch is by the
// value's dynamic kind, most specific case first:
//
//  1. constants wrap as constant-as-metadata
//  2. values already carrying a metadata node yield that node directly
//  3. anything else wraps as generic value-as-metadata
//
// Exactly one branch applies; the operation is total over valid handles.
func AsMetadata(v ir.Value) ir.Metadata {
	if c, ok := v.(ir.Constant); ok {
		return v.Context().ConstantMetadata(c)
	}
	if mav, ok := v.(*ir.MetadataAsValue); ok {
		return mav.Metadata()
	}
	return v.Context().ValueMetadata(v)
}

// ExtractConstant returns the constant stored inside a metadata-wrapping
// value, or nil when v does not wrap constant metadata. This is a query, not
// an assertion; nil is a defined negative answer.
func ExtractConstant(v ir.Value) ir.Value {
	mav, ok := v.(*ir.MetadataAsValue)
	if !ok {
		return nil
	}
	cm, ok := mav.Metadata().(*ir.ConstantAsMetadata)
	if !ok {
		return nil
	}
	return cm.Value()
}

// IsConstantMetadata reports whether v wraps constant metadata, without
// extracting the value.
func IsConstantMetadata(v ir.Value) bool {
	mav, ok := v.(*ir.MetadataAsValue)
	if !ok {
		return false
	}
	_, ok = mav.Metadata().(*ir.ConstantAsMetadata)
	return ok
}
