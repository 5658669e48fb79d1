package samples

import (
	"context"
	"fmt"
	"sync"

	tagskema "github.com/reoring/tagskema"
	"github.com/reoring/tagskema/codec"
	"github.com/reoring/tagskema/dsl"
	"github.com/reoring/tagskema/union"
)

// ContainerValue and FieldValue reference each other, so their schemas are
// built on first use and linked through dsl.Lazy.
type ContainerValue interface {
	union.Variant
	isContainerValue()
}

type ContainerList struct{ Items []FieldValue }

// ContainerOptional holds a nil Value for {"type":"optional","optional":null}.
type ContainerOptional struct{ Value *FieldValue }

type UnknownContainerValue struct {
	Discriminant string
	Raw          map[string]any
}

func (ContainerList) Tag() string         { return "list" }
func (ContainerOptional) Tag() string     { return "optional" }
func (UnknownContainerValue) Tag() string { return union.UnknownTag }

func (ContainerList) isContainerValue()         {}
func (ContainerOptional) isContainerValue()     {}
func (UnknownContainerValue) isContainerValue() {}

type FieldValue interface {
	union.Variant
	isFieldValue()
}

type PrimitiveValue struct{ Value string }

// ObjectValue has no fields of its own; its wire form is {"type":"object_value"}.
type ObjectValue struct{}

type ContainerFieldValue struct{ Value ContainerValue }

type UnknownFieldValue struct {
	Discriminant string
	Raw          map[string]any
}

func (PrimitiveValue) Tag() string      { return "primitive_value" }
func (ObjectValue) Tag() string         { return "object_value" }
func (ContainerFieldValue) Tag() string { return "container_value" }
func (UnknownFieldValue) Tag() string   { return union.UnknownTag }

func (PrimitiveValue) isFieldValue()      {}
func (ObjectValue) isFieldValue()         {}
func (ContainerFieldValue) isFieldValue() {}
func (UnknownFieldValue) isFieldValue()   {}

var (
	containerOnce   sync.Once
	containerSchema tagskema.Schema[ContainerValue]
	fieldOnce       sync.Once
	fieldSchema     tagskema.Schema[FieldValue]
)

// ContainerValueSchema maps {"type":"list"|"optional",...} objects.
func ContainerValueSchema() tagskema.Schema[ContainerValue] {
	containerOnce.Do(func() {
		u := dsl.Union("type").
			Wrapped("list", dsl.ListOf(dsl.Lazy(FieldValueSchema))).
			Wrapped("optional", dsl.OptionalOf(dsl.Lazy(FieldValueSchema))).
			MustBuild()
		containerSchema = dsl.Transform(tagskema.Schema[union.Value](u), codec.FuncE(decodeContainerValue, encodeContainerValue))
	})
	return containerSchema
}

// FieldValueSchema maps {"type":"primitive_value"|"object_value"|"container_value",...} objects.
func FieldValueSchema() tagskema.Schema[FieldValue] {
	fieldOnce.Do(func() {
		u := dsl.Union("type").
			Wrapped("primitive_value", dsl.SchemaOf(dsl.String())).
			Variant("object_value", dsl.SchemaOf(dsl.MustBind[ObjectValue](dsl.Object().MustBuild()))).
			Wrapped("container_value", dsl.SchemaOf(dsl.Lazy(ContainerValueSchema))).
			MustBuild()
		fieldSchema = dsl.Transform(tagskema.Schema[union.Value](u), codec.FuncE(decodeFieldValue, encodeFieldValue))
	})
	return fieldSchema
}

func decodeContainerValue(_ context.Context, v union.Value) (ContainerValue, error) {
	switch v.Tag() {
	case "list":
		items, err := union.PayloadAs[[]FieldValue](v, "list")
		if err != nil {
			return nil, err
		}
		return ContainerList{Items: items}, nil
	case "optional":
		p, err := union.PayloadAs[*FieldValue](v, "optional")
		if err != nil {
			return nil, err
		}
		return ContainerOptional{Value: p}, nil
	case union.UnknownTag:
		raw, _ := v.Raw()
		return UnknownContainerValue{Discriminant: v.WireTag(), Raw: raw}, nil
	}
	return nil, fmt.Errorf("%w: %q", union.ErrNoCase, v.Tag())
}

func encodeContainerValue(_ context.Context, c ContainerValue) (union.Value, error) {
	switch x := c.(type) {
	case ContainerList:
		return union.New(x.Tag(), x.Items), nil
	case ContainerOptional:
		return union.New(x.Tag(), x.Value), nil
	case UnknownContainerValue:
		return union.Unknown(x.Discriminant, x.Raw), nil
	}
	return union.Value{}, fmt.Errorf("unsupported ContainerValue %T", c)
}

func decodeFieldValue(_ context.Context, v union.Value) (FieldValue, error) {
	switch v.Tag() {
	case "primitive_value":
		s, err := union.PayloadAs[string](v, "primitive_value")
		if err != nil {
			return nil, err
		}
		return PrimitiveValue{Value: s}, nil
	case "object_value":
		return narrow[FieldValue, ObjectValue](v)
	case "container_value":
		c, err := union.PayloadAs[ContainerValue](v, "container_value")
		if err != nil {
			return nil, err
		}
		return ContainerFieldValue{Value: c}, nil
	case union.UnknownTag:
		raw, _ := v.Raw()
		return UnknownFieldValue{Discriminant: v.WireTag(), Raw: raw}, nil
	}
	return nil, fmt.Errorf("%w: %q", union.ErrNoCase, v.Tag())
}

func encodeFieldValue(_ context.Context, f FieldValue) (union.Value, error) {
	switch x := f.(type) {
	case PrimitiveValue:
		return union.New(x.Tag(), x.Value), nil
	case ObjectValue:
		return union.New(x.Tag(), x), nil
	case ContainerFieldValue:
		return union.New(x.Tag(), x.Value), nil
	case UnknownFieldValue:
		return union.Unknown(x.Discriminant, x.Raw), nil
	}
	return union.Value{}, fmt.Errorf("unsupported FieldValue %T", f)
}
