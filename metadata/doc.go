// Package metadata bridges the toolkit's value and metadata hierarchies.
//
// The stable toolkit surface exposes values and metadata as sibling object
// trees without a unified coercion entry point. This package provides the
// canonical mapping between them:
//
//   - AsMetadata lifts any value handle into metadata position, dispatching
//     on the value's dynamic kind
//   - ExtractConstant and IsConstantMetadata answer the reverse question for
//     metadata-wrapping values
//   - AddModuleFlag appends a module flag, translating the public
//     FlagBehavior enumeration into the toolkit's internal one
//
// AsMetadata is total over valid handles and idempotent: lifting a value that
// already wraps a metadata node returns that node, not a new wrapper.
//
// Passing a FlagBehavior outside the declared range is a programming error
// and panics; it indicates a caller/toolkit-version mismatch, not a condition
// to recover from.
package metadata
