package dsl

import (
	"context"

	tagskema "github.com/reoring/tagskema"
	js "github.com/reoring/tagskema/jsonschema"
)

// Map returns a schema for JSON objects where all properties are validated by elem schema.
// It decodes into map[string]V and serializes with keys in ascending order.
func Map[V any](elem tagskema.Schema[V]) tagskema.Schema[map[string]V] { return mapSchema[V]{val: elem} }

// MapOf adapts Map[V] to AnyAdapter for use in builders.
func MapOf[V any](elem tagskema.Schema[V]) AnyAdapter { return SchemaOf(Map(elem)) }

type mapSchema[V any] struct{ val tagskema.Schema[V] }

func (m mapSchema[V]) Parse(ctx context.Context, v any) (map[string]V, error) {
	src, ok := tagskema.AsMap(v)
	if !ok {
		return nil, tagskema.TypeMismatch(tagskema.KindObject, v)
	}
	ctx, err := tagskema.Descend(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]V, len(src))
	var iss tagskema.Issues
	for _, k := range tagskema.SortedKeys(src) {
		vv, err := m.val.Parse(ctx, src[k])
		if err != nil {
			iss = tagskema.AppendIssues(iss, tagskema.Rebase(tagskema.FieldPath(k), tagskema.ToIssues("/", err))...)
			if tagskema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[k] = vv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (m mapSchema[V]) Serialize(ctx context.Context, v map[string]V) (any, error) {
	keys := make(map[string]any, len(v))
	for k := range v {
		keys[k] = nil
	}
	out := tagskema.NewObject(len(v))
	for _, k := range tagskema.SortedKeys(keys) {
		sv, err := m.val.Serialize(ctx, v[k])
		if err != nil {
			return nil, err
		}
		out.Set(k, sv)
	}
	return out, nil
}

func (m mapSchema[V]) JSONSchema() (*js.Schema, error) {
	vs, err := m.val.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "object", AdditionalProperties: vs}, nil
}
