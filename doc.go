// Package tagskema converts between JSON-like raw trees and typed Go values
// through composable, immutable schemas, with first-class support for
// discriminated unions that tolerate variants unknown at compile time.
//
// Package layout:
//   - The root package holds the Schema contract, the Issues error model,
//     the ordered Object used for deterministic output, and the byte-level
//     entry points (ParseJSON, ParseBytes, SerializeJSON).
//   - dsl/ holds the combinators: primitives, Object, List, Map, Optional,
//     Lazy, Union and Transform.
//   - union/ holds the domain union value (tag + payload) and its narrowing
//     helpers.
//   - codec/ holds bidirectional transforms used with dsl.Transform.
//   - source/ holds JSON and YAML decoders; observe/ holds logging hooks.
//
// Error collection: Parse collects every failing path in a deterministic
// order (declaration order for object fields, index order for lists, sorted
// keys for maps). WithFailFast stops at the first issue.
//
// Typical usage:
//
//	s := dsl.Union("type").
//	    Variant("language", languageFields).
//	    Wrapped("list", dsl.ListOf(dsl.Int())).
//	    MustBuild()
//	v, err := tagskema.ParseJSON(ctx, s, data)
//	out, err := tagskema.SerializeJSON(ctx, s, v)
package tagskema
