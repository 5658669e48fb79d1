// Package dsl provides the schema combinators for tagskema.
//
// Overview
//   - Leaves: String()/Bool()/Int()/Float64()/Number()/Enum(...)/Any()/Empty().
//   - Containers: List(elem), Map(elem), Optional(s), Lazy(fn) for recursion.
//   - Objects: Object().Field(...).Optional().UnknownStrict().MustBuild() yields map[string]any;
//     Bind[T](obj) maps it onto a struct.
//   - Unions: Union("type").Variant/Wrapped/NoPayload(...).MustBuild() yields union.Value.
//   - Transform(s, codec) lifts any schema into a richer domain type.
//   - AnyAdapter: adapt a Schema[T] with SchemaOf (or the *Of helpers) to embed it in builders.
//
// Wire shapes accepted by Union
//
//	{"type":"language","language":"python","code":"print(1)"}  // Variant: fields are siblings
//	{"type":"list","list":[1,2,3]}                              // Wrapped: payload under the variant name
//	{"type":"stopped"}                                          // NoPayload
//	{"type":"somethingNew","x":1}                               // unknown: kept as union.UnknownTag
//
// Example
//
//	lang := dsl.Object().
//	    Field("language", dsl.SchemaOf(dsl.String())).
//	    Field("code", dsl.SchemaOf(dsl.String())).
//	    MustBuild()
//	sample := dsl.Union("type").
//	    Variant("language", dsl.ObjectOf(lang)).
//	    Wrapped("list", dsl.ListOf(dsl.Int())).
//	    NoPayload("stopped").
//	    MustBuild()
//	v, err := tagskema.ParseJSON(ctx, sample, data)
//
// Error model
//
// Parse collects every issue in a deterministic order (declaration order for
// objects, index order for lists, key order for maps) unless the context was
// marked with tagskema.WithFailFast. Paths are JSON Pointers relative to the
// value handed to Parse.
//
// JSON Schema output
//
//	sch, _ := s.JSONSchema()
//	// UnknownStrict => additionalProperties=false,
//	// UnknownStrip/UnknownPassthrough => additionalProperties=true,
//	// Union => oneOf with discriminator.propertyName and a const per branch.
package dsl
