package dsl

import (
	"context"
	"strconv"

	tagskema "github.com/reoring/tagskema"
	js "github.com/reoring/tagskema/jsonschema"
)

// List returns a schema for JSON arrays whose elements all match elem.
func List[E any](elem tagskema.Schema[E]) tagskema.Schema[[]E] { return listSchema[E]{elem: elem} }

// ListOf adapts List[E] to AnyAdapter for use in builders.
func ListOf[E any](elem tagskema.Schema[E]) AnyAdapter { return SchemaOf(List(elem)) }

type listSchema[E any] struct{ elem tagskema.Schema[E] }

func (l listSchema[E]) Parse(ctx context.Context, v any) ([]E, error) {
	src, ok := v.([]any)
	if !ok {
		return nil, tagskema.TypeMismatch(tagskema.KindArray, v)
	}
	ctx, err := tagskema.Descend(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]E, 0, len(src))
	var iss tagskema.Issues
	for i := range src {
		ev, err := l.elem.Parse(ctx, src[i])
		if err != nil {
			iss = tagskema.AppendIssues(iss, tagskema.Rebase("/"+strconv.Itoa(i), tagskema.ToIssues("/", err))...)
			if tagskema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out = append(out, ev)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// Serialize always emits an array; a nil slice becomes [].
func (l listSchema[E]) Serialize(ctx context.Context, v []E) (any, error) {
	out := make([]any, len(v))
	for i := range v {
		ev, err := l.elem.Serialize(ctx, v[i])
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return out, nil
}

func (l listSchema[E]) JSONSchema() (*js.Schema, error) {
	items, err := l.elem.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "array", Items: items}, nil
}
