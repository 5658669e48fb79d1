package dsl

import (
	"context"
	"fmt"

	tagskema "github.com/reoring/tagskema"
	"github.com/reoring/tagskema/codec"
	js "github.com/reoring/tagskema/jsonschema"
)

// Transform layers a codec over s, producing a Schema[B] with the same wire
// shape as s.
// Parse: s.Parse -> c.Decode. Serialize: c.Encode -> s.Serialize.
// JSONSchema: delegate to s.
func Transform[A, B any](s tagskema.Schema[A], c codec.Codec[A, B]) tagskema.Schema[B] {
	return transformSchema[A, B]{in: s, c: c}
}

// TransformOf adapts Transform[A,B] to AnyAdapter for use in builders.
func TransformOf[A, B any](s tagskema.Schema[A], c codec.Codec[A, B]) AnyAdapter {
	return SchemaOf(Transform(s, c))
}

type transformSchema[A, B any] struct {
	in tagskema.Schema[A]
	c  codec.Codec[A, B]
}

func (s transformSchema[A, B]) Parse(ctx context.Context, v any) (B, error) {
	var zero B
	a, err := s.in.Parse(ctx, v)
	if err != nil {
		return zero, err
	}
	b, err := s.c.Decode(ctx, a)
	if err != nil {
		if iss, ok := tagskema.AsIssues(err); ok {
			return zero, iss
		}
		return zero, tagskema.Issues{{Path: "/", Code: tagskema.CodeInvalidFormat, Message: err.Error(), Cause: err}}
	}
	return b, nil
}

func (s transformSchema[A, B]) Serialize(ctx context.Context, v B) (any, error) {
	a, err := s.c.Encode(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %w", tagskema.ErrInvariant, err)
	}
	return s.in.Serialize(ctx, a)
}

func (s transformSchema[A, B]) JSONSchema() (*js.Schema, error) { return s.in.JSONSchema() }
