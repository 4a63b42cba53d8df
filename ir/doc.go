// Package ir implements the toolkit object model the rest of qirlib wraps:
// contexts, modules, values and metadata.
//
// # Main Types
//
//   - Context: owns handle identity; uniques constants and metadata wrappers
//   - Value: the value hierarchy (Constant, Instruction, MetadataAsValue)
//   - Metadata: the sibling metadata hierarchy (ConstantAsMetadata,
//     ValueAsMetadata, MDString, MDNode)
//   - Module: named container carrying ordered module flags
//
// Values and metadata are sibling hierarchies related by a many-to-one
// projection; the metadata package provides the canonical coercion between
// them. Handles stay owned by their Context and are compared by identity:
// constants, metadata strings and wrappers are uniqued per context, so
// requesting the same wrapper twice yields the same handle.
//
// # Thread Safety
//
// A Context and everything it owns is not safe for concurrent mutation.
// Concurrent reads are fine once construction is done.
package ir
