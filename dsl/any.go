package dsl

import (
	"context"
	"strconv"

	tagskema "github.com/reoring/tagskema"
	js "github.com/reoring/tagskema/jsonschema"
)

// Any returns a schema accepting any JSON value. The parsed value is a plain
// copy of the input (ordered objects become map[string]any) so callers never
// alias the raw tree. Nesting still counts against the depth limit.
func Any() tagskema.Schema[any] { return anySchema{} }

type anySchema struct{}

func (anySchema) Parse(ctx context.Context, v any) (any, error) {
	out, iss := copyJSON(ctx, v)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func copyJSON(ctx context.Context, v any) (any, tagskema.Issues) {
	switch t := v.(type) {
	case map[string]any, *tagskema.Object:
		m, _ := tagskema.AsMap(t)
		cctx, err := tagskema.Descend(ctx)
		if err != nil {
			return nil, tagskema.ToIssues("/", err)
		}
		out := make(map[string]any, len(m))
		for _, k := range tagskema.SortedKeys(m) {
			cv, iss := copyJSON(cctx, m[k])
			if len(iss) > 0 {
				return nil, tagskema.Rebase(tagskema.FieldPath(k), iss)
			}
			out[k] = cv
		}
		return out, nil
	case []any:
		cctx, err := tagskema.Descend(ctx)
		if err != nil {
			return nil, tagskema.ToIssues("/", err)
		}
		out := make([]any, len(t))
		for i := range t {
			cv, iss := copyJSON(cctx, t[i])
			if len(iss) > 0 {
				return nil, tagskema.Rebase("/"+strconv.Itoa(i), iss)
			}
			out[i] = cv
		}
		return out, nil
	default:
		if tagskema.KindOf(v) == tagskema.KindInvalid {
			return nil, tagskema.Issues{{Path: "/", Code: tagskema.CodeInvalidType, Message: "value is not representable in JSON", Expected: "json", Actual: "invalid"}}
		}
		return v, nil
	}
}

func (anySchema) Serialize(_ context.Context, v any) (any, error) {
	if !representable(v) {
		return nil, tagskema.Invariantf("%T is not representable in JSON", v)
	}
	return v, nil
}

func representable(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		for _, vv := range t {
			if !representable(vv) {
				return false
			}
		}
		return true
	case *tagskema.Object:
		for _, k := range t.Keys() {
			vv, _ := t.Get(k)
			if !representable(vv) {
				return false
			}
		}
		return true
	case []any:
		for _, vv := range t {
			if !representable(vv) {
				return false
			}
		}
		return true
	default:
		return tagskema.KindOf(v) != tagskema.KindInvalid
	}
}

func (anySchema) JSONSchema() (*js.Schema, error) { return &js.Schema{}, nil }

// Empty returns the schema of a payload-less object. It accepts any object,
// ignores its content, and serializes to {}.
func Empty() tagskema.Schema[struct{}] { return emptySchema{} }

type emptySchema struct{}

func (emptySchema) Parse(_ context.Context, v any) (struct{}, error) {
	if _, ok := tagskema.AsMap(v); !ok {
		return struct{}{}, tagskema.TypeMismatch(tagskema.KindObject, v)
	}
	return struct{}{}, nil
}

func (emptySchema) Serialize(_ context.Context, _ struct{}) (any, error) {
	return tagskema.NewObject(0), nil
}

func (emptySchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "object", AdditionalProperties: true}, nil
}
