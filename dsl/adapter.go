package dsl

import (
	"context"
	"reflect"

	tagskema "github.com/reoring/tagskema"
	js "github.com/reoring/tagskema/jsonschema"
)

// AnyAdapter erases the type parameter of a Schema[T] so that objects and
// unions can hold heterogeneous children in one table.
type AnyAdapter struct {
	parse      func(context.Context, any) (any, error)
	serialize  func(context.Context, any) (any, error)
	jsonSchema func() (*js.Schema, error)
	orig       any
	typ        reflect.Type // T
}

// SchemaOf converts a Schema[T] into an AnyAdapter for Field/Variant/Wrapped.
func SchemaOf[T any](s tagskema.Schema[T]) AnyAdapter {
	return AnyAdapter{
		parse: func(ctx context.Context, v any) (any, error) { return s.Parse(ctx, v) },
		serialize: func(ctx context.Context, v any) (any, error) {
			if v == nil {
				// nil interface stands for the zero T (nil pointer, nil slice, ...)
				var zero T
				return s.Serialize(ctx, zero)
			}
			tv, ok := v.(T)
			if !ok {
				var zero T
				return nil, tagskema.Invariantf("expected %T, got %T", zero, v)
			}
			return s.Serialize(ctx, tv)
		},
		jsonSchema: s.JSONSchema,
		orig:       s,
		typ:        reflect.TypeFor[T](),
	}
}

// Orig returns the original underlying Schema[T].
func (ad AnyAdapter) Orig() any { return ad.orig }

func (ad AnyAdapter) schema() (*js.Schema, error) {
	if ad.jsonSchema == nil {
		return &js.Schema{}, nil
	}
	return ad.jsonSchema()
}

// parseAt parses v and rebases child issues under path.
func (ad AnyAdapter) parseAt(ctx context.Context, path string, v any) (any, tagskema.Issues) {
	out, err := ad.parse(ctx, v)
	if err != nil {
		return nil, tagskema.Rebase(path, tagskema.ToIssues("/", err))
	}
	return out, nil
}
