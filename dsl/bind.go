package dsl

import (
	"context"
	"fmt"
	"reflect"

	tagskema "github.com/reoring/tagskema"
	js "github.com/reoring/tagskema/jsonschema"
)

// Bind binds an object schema to struct type T. Struct fields are matched to
// declared keys with tagskema.ResolveStructKey. Every declared key must map
// to an exported field whose type the field schema's values convert to.
func Bind[T any](os *ObjectSchema) (tagskema.Schema[T], error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("dsl: Bind[%v] requires a struct type", rt)
	}
	idxByName := make(map[string]int)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := tagskema.ResolveStructKey(sf)
		if name == "-" || name == "" {
			continue
		}
		idxByName[name] = i
	}
	fields := make([]boundField, 0, len(os.fields))
	for _, f := range os.fields {
		i, ok := idxByName[f.name]
		if !ok {
			return nil, fmt.Errorf("dsl: %v has no field for key %q", rt, f.name)
		}
		ft := rt.Field(i).Type
		if f.ad.typ != nil && !convertible(f.ad.typ, ft) {
			return nil, fmt.Errorf("dsl: key %q yields %v, not convertible to %v.%s (%v)", f.name, f.ad.typ, rt, rt.Field(i).Name, ft)
		}
		fields = append(fields, boundField{key: f.name, index: i, wire: f.ad.typ, required: f.required})
	}
	if os.unknownPolicy == tagskema.UnknownPassthrough {
		i, ok := idxByName[os.unknownTarget]
		if !ok || rt.Field(i).Type != reflect.TypeFor[map[string]any]() {
			return nil, fmt.Errorf("dsl: passthrough target %q must bind to a map[string]any field", os.unknownTarget)
		}
		fields = append(fields, boundField{key: os.unknownTarget, index: i})
	}
	return &boundSchema[T]{inner: os, fields: fields}, nil
}

// MustBind is like Bind but panics on error.
func MustBind[T any](os *ObjectSchema) tagskema.Schema[T] {
	s, err := Bind[T](os)
	if err != nil {
		panic(err)
	}
	return s
}

type boundField struct {
	key      string
	index    int
	wire     reflect.Type // nil for the passthrough bucket
	required bool
}

type boundSchema[T any] struct {
	inner  *ObjectSchema
	fields []boundField
}

func (s *boundSchema[T]) Parse(ctx context.Context, v any) (T, error) {
	var out T
	m, err := s.inner.Parse(ctx, v)
	if err != nil {
		return out, err
	}
	rv := reflect.ValueOf(&out).Elem()
	for _, f := range s.fields {
		val, ok := m[f.key]
		if !ok || val == nil {
			continue
		}
		fv := rv.Field(f.index)
		vv := reflect.ValueOf(val)
		switch {
		case vv.Type().AssignableTo(fv.Type()):
			fv.Set(vv)
		case convertible(vv.Type(), fv.Type()):
			fv.Set(vv.Convert(fv.Type()))
		default:
			return out, tagskema.Issues{{Path: tagskema.FieldPath(f.key), Code: tagskema.CodeInvalidType, Message: "field type mismatch", Expected: fv.Type().String(), Actual: vv.Type().String()}}
		}
	}
	return out, nil
}

// Serialize treats nil pointers, slices and maps on optional fields as
// absent keys.
func (s *boundSchema[T]) Serialize(ctx context.Context, v T) (any, error) {
	rv := reflect.ValueOf(v)
	m := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		fv := rv.Field(f.index)
		if f.wire == nil {
			if !fv.IsNil() {
				m[f.key] = fv.Interface()
			}
			continue
		}
		if !f.required && nillable(fv.Kind()) && fv.IsNil() {
			continue
		}
		if fv.Type() != f.wire {
			fv = fv.Convert(f.wire)
		}
		m[f.key] = fv.Interface()
	}
	return s.inner.Serialize(ctx, m)
}

func (s *boundSchema[T]) JSONSchema() (*js.Schema, error) { return s.inner.JSONSchema() }

// convertible restricts reflect conversions to same-kind families so that an
// int64 never silently becomes a string.
func convertible(from, to reflect.Type) bool {
	if from.AssignableTo(to) {
		return true
	}
	if !from.ConvertibleTo(to) || !to.ConvertibleTo(from) {
		return false
	}
	return family(from.Kind()) == family(to.Kind()) && family(from.Kind()) != 0
}

func family(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return 1
	case reflect.Float32, reflect.Float64:
		return 2
	case reflect.String:
		return 3
	case reflect.Bool:
		return 4
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Struct:
		return 5
	default:
		return 0
	}
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return false
}
