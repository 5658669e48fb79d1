package dsl

import (
	"context"
	"sync"

	tagskema "github.com/reoring/tagskema"
	js "github.com/reoring/tagskema/jsonschema"
)

// Lazy defers schema construction until first use, which lets recursive
// types refer to themselves:
//
//	var node tagskema.Schema[union.Value]
//	node = dsl.Union("type").Wrapped("list", dsl.ListOf(dsl.Lazy(func() tagskema.Schema[union.Value] { return node }))).MustBuild()
func Lazy[T any](fn func() tagskema.Schema[T]) tagskema.Schema[T] {
	return &lazySchema[T]{get: sync.OnceValue(fn)}
}

type lazySchema[T any] struct {
	get func() tagskema.Schema[T]
}

func (l *lazySchema[T]) Parse(ctx context.Context, v any) (T, error) { return l.get().Parse(ctx, v) }

func (l *lazySchema[T]) Serialize(ctx context.Context, v T) (any, error) {
	return l.get().Serialize(ctx, v)
}

// JSONSchema does not expand the deferred schema, which may be recursive.
func (l *lazySchema[T]) JSONSchema() (*js.Schema, error) { return &js.Schema{}, nil }
