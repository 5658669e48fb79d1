package dsl

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	tagskema "github.com/reoring/tagskema"
	"github.com/reoring/tagskema/i18n"
	js "github.com/reoring/tagskema/jsonschema"
)

// String returns the string leaf schema.
func String() tagskema.Schema[string] { return stringSchema{} }

// Bool returns the boolean leaf schema.
func Bool() tagskema.Schema[bool] { return boolSchema{} }

// Int returns an integer leaf schema. Numbers with a fractional part are
// rejected.
func Int() tagskema.Schema[int64] { return intSchema{} }

// Float64 returns a number leaf schema decoding into float64.
func Float64() tagskema.Schema[float64] { return floatSchema{} }

// Number returns a number leaf schema that keeps the literal as json.Number.
func Number() tagskema.Schema[json.Number] { return numberSchema{} }

type stringSchema struct{}

func (stringSchema) Parse(_ context.Context, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", tagskema.TypeMismatch(tagskema.KindString, v)
	}
	return s, nil
}

func (stringSchema) Serialize(_ context.Context, v string) (any, error) { return v, nil }

func (stringSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

type boolSchema struct{}

func (boolSchema) Parse(_ context.Context, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, tagskema.TypeMismatch(tagskema.KindBool, v)
	}
	return b, nil
}

func (boolSchema) Serialize(_ context.Context, v bool) (any, error) { return v, nil }

func (boolSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }

type intSchema struct{}

func (intSchema) Parse(_ context.Context, v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, notInteger(v)
		}
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, notInteger(v)
		}
		return int64(t), nil
	case float64:
		if !integral(t) {
			return 0, notInteger(v)
		}
		return int64(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		// accept integral literals written with an exponent, e.g. 1e3
		f, err := t.Float64()
		if err != nil || !integral(f) {
			return 0, notInteger(v)
		}
		return int64(f), nil
	default:
		return 0, tagskema.TypeMismatch(tagskema.KindNumber, v)
	}
}

// integral reports whether f is a whole number that fits in int64.
func integral(f float64) bool {
	return f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63
}

func notInteger(v any) tagskema.Issues {
	return tagskema.Issues{{
		Path:     "/",
		Code:     tagskema.CodeInvalidType,
		Message:  i18n.T(tagskema.CodeInvalidType, map[string]string{"expected": "integer", "actual": "number"}),
		Expected: "integer",
		Actual:   tagskema.KindOf(v).String(),
	}}
}

func (intSchema) Serialize(_ context.Context, v int64) (any, error) { return v, nil }

func (intSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "integer"}, nil }

type floatSchema struct{}

func (floatSchema) Parse(ctx context.Context, v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, tagskema.Issues{{Path: "/", Code: tagskema.CodeInvalidFormat, Message: err.Error(), Cause: err}}
		}
		return f, nil
	default:
		i, err := (intSchema{}).Parse(ctx, v)
		if err != nil {
			return 0, tagskema.TypeMismatch(tagskema.KindNumber, v)
		}
		return float64(i), nil
	}
}

func (floatSchema) Serialize(_ context.Context, v float64) (any, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, tagskema.Invariantf("%v is not representable in JSON", v)
	}
	return v, nil
}

func (floatSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "number"}, nil }

type numberSchema struct{}

func (numberSchema) Parse(_ context.Context, v any) (json.Number, error) {
	switch t := v.(type) {
	case json.Number:
		return t, nil
	case float64:
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case float32:
		return json.Number(strconv.FormatFloat(float64(t), 'g', -1, 32)), nil
	case int:
		return json.Number(strconv.Itoa(t)), nil
	case int8:
		return json.Number(strconv.FormatInt(int64(t), 10)), nil
	case int16:
		return json.Number(strconv.FormatInt(int64(t), 10)), nil
	case int32:
		return json.Number(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case uint:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint16:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint32:
		return json.Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), nil
	default:
		return "", tagskema.TypeMismatch(tagskema.KindNumber, v)
	}
}

func (numberSchema) Serialize(_ context.Context, v json.Number) (any, error) {
	if _, err := v.Float64(); err != nil {
		return nil, tagskema.Invariantf("invalid number literal %q", string(v))
	}
	return v, nil
}

func (numberSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "number"}, nil }

// Enum returns a string leaf schema restricted to values.
func Enum[T ~string](values ...T) tagskema.Schema[T] {
	allowed := make(map[T]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return enumSchema[T]{values: values, allowed: allowed}
}

type enumSchema[T ~string] struct {
	values  []T
	allowed map[T]struct{}
}

func (e enumSchema[T]) Parse(_ context.Context, v any) (T, error) {
	s, ok := v.(string)
	if !ok {
		return "", tagskema.TypeMismatch(tagskema.KindString, v)
	}
	if _, ok := e.allowed[T(s)]; !ok {
		return "", tagskema.Issues{{
			Path:    "/",
			Code:    tagskema.CodeInvalidEnum,
			Message: i18n.T(tagskema.CodeInvalidEnum, nil),
			Params:  map[string]any{"got": s, "allowed": e.values},
		}}
	}
	return T(s), nil
}

func (e enumSchema[T]) Serialize(_ context.Context, v T) (any, error) {
	if _, ok := e.allowed[v]; !ok {
		return nil, tagskema.Invariantf("%q is not an allowed enum value", string(v))
	}
	return string(v), nil
}

func (e enumSchema[T]) JSONSchema() (*js.Schema, error) {
	vals := make([]any, len(e.values))
	for i, v := range e.values {
		vals[i] = string(v)
	}
	return &js.Schema{Type: "string", Enum: vals}, nil
}
