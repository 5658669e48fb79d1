package dsl

import (
	"context"

	tagskema "github.com/reoring/tagskema"
	js "github.com/reoring/tagskema/jsonschema"
)

// Optional wraps s so that JSON null parses to a nil pointer. Combine with
// Field(...).Optional() when the key itself may also be absent.
func Optional[T any](s tagskema.Schema[T]) tagskema.Schema[*T] { return optionalSchema[T]{inner: s} }

// OptionalOf adapts Optional[T] to AnyAdapter for use in builders.
func OptionalOf[T any](s tagskema.Schema[T]) AnyAdapter { return SchemaOf(Optional(s)) }

type optionalSchema[T any] struct{ inner tagskema.Schema[T] }

func (o optionalSchema[T]) Parse(ctx context.Context, v any) (*T, error) {
	if v == nil {
		return nil, nil
	}
	tv, err := o.inner.Parse(ctx, v)
	if err != nil {
		return nil, err
	}
	return &tv, nil
}

func (o optionalSchema[T]) Serialize(ctx context.Context, v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	return o.inner.Serialize(ctx, *v)
}

func (o optionalSchema[T]) JSONSchema() (*js.Schema, error) {
	inner, err := o.inner.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{OneOf: []*js.Schema{inner, {Type: "null"}}}, nil
}
