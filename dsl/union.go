package dsl

import (
	"context"
	"fmt"

	tagskema "github.com/reoring/tagskema"
	"github.com/reoring/tagskema/i18n"
	js "github.com/reoring/tagskema/jsonschema"
	"github.com/reoring/tagskema/union"
)

type variantKind int

const (
	// fields of the payload object are siblings of the discriminant
	variantFields variantKind = iota
	// payload lives under a key named after the variant
	variantWrapped
	// no payload at all
	variantEmpty
)

type unionVariant struct {
	name string
	kind variantKind
	ad   AnyAdapter
}

type unionBuilder struct {
	key       string
	variants  []unionVariant
	index     map[string]int
	shared    *ObjectSchema
	onUnknown union.UnknownHook
	err       error
}

// Union starts a discriminated union keyed by the string property
// discriminant. Variants are tried by exact match on that property; values
// that match none parse into the union.UnknownTag variant with the raw
// object preserved.
//
//	status := dsl.Union("type").
//	    NoPayload("stopped").
//	    Variant("errored", dsl.ObjectOf(erroredObj)).
//	    Wrapped("running", dsl.SchemaOf(dsl.Enum(states...))).
//	    MustBuild()
func Union(discriminant string) *unionBuilder {
	return &unionBuilder{key: discriminant, index: map[string]int{}}
}

// Variant registers a variant whose payload object is flattened next to the
// discriminant. ad must parse and serialize JSON objects.
func (b *unionBuilder) Variant(name string, ad AnyAdapter) *unionBuilder {
	return b.add(unionVariant{name: name, kind: variantFields, ad: ad})
}

// Wrapped registers a variant whose payload (typically a scalar or a list)
// sits under a key with the variant's own name: {"type":"list","list":[...]}.
func (b *unionBuilder) Wrapped(name string, ad AnyAdapter) *unionBuilder {
	if name == b.key && b.err == nil {
		b.err = fmt.Errorf("dsl: wrapped variant %q collides with the discriminant key", name)
	}
	return b.add(unionVariant{name: name, kind: variantWrapped, ad: ad})
}

// NoPayload registers a variant that carries nothing besides the
// discriminant. Its payload is nil.
func (b *unionBuilder) NoPayload(name string) *unionBuilder {
	return b.add(unionVariant{name: name, kind: variantEmpty})
}

// Shared declares fields present on every variant, the unknown one included.
// They are parsed once at the union level and exposed via Value.Shared.
func (b *unionBuilder) Shared(s *ObjectSchema) *unionBuilder {
	if s != nil && s.Has(b.key) && b.err == nil {
		b.err = fmt.Errorf("dsl: shared fields must not declare the discriminant %q", b.key)
	}
	b.shared = s
	return b
}

// OnUnknown installs a hook called after an unknown variant was parsed.
func (b *unionBuilder) OnUnknown(h union.UnknownHook) *unionBuilder {
	b.onUnknown = h
	return b
}

func (b *unionBuilder) add(v unionVariant) *unionBuilder {
	if b.err != nil {
		return b
	}
	switch {
	case v.name == union.UnknownTag:
		b.err = fmt.Errorf("dsl: variant name %q is reserved", v.name)
	case v.name == "":
		b.err = fmt.Errorf("dsl: empty variant name")
	default:
		if _, dup := b.index[v.name]; dup {
			b.err = fmt.Errorf("dsl: duplicate variant %q", v.name)
			return b
		}
		b.index[v.name] = len(b.variants)
		b.variants = append(b.variants, v)
	}
	return b
}

// Build validates the builder and returns the union schema.
func (b *unionBuilder) Build() (*UnionSchema, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.key == "" {
		return nil, fmt.Errorf("dsl: union discriminant key is empty")
	}
	if len(b.variants) == 0 {
		return nil, fmt.Errorf("dsl: union %q has no variants", b.key)
	}
	for _, vr := range b.variants {
		if vr.kind != variantFields {
			continue
		}
		if err := b.checkFlattened(vr); err != nil {
			return nil, err
		}
	}
	variants := append([]unionVariant(nil), b.variants...)
	index := make(map[string]int, len(b.index))
	for k, v := range b.index {
		index[k] = v
	}
	return &UnionSchema{key: b.key, variants: variants, index: index, shared: b.shared, onUnknown: b.onUnknown}, nil
}

// checkFlattened rejects flattened variants that can never parse: the payload
// must be an object and must not declare the discriminant or a shared key,
// since both are removed before the variant schema sees the object.
func (b *unionBuilder) checkFlattened(vr unionVariant) error {
	vs, err := vr.ad.schema()
	if err != nil {
		return fmt.Errorf("dsl: variant %q: %w", vr.name, err)
	}
	if vs.Type != "object" {
		return fmt.Errorf("dsl: variant %q must have an object payload, got %q; use Wrapped for other payloads", vr.name, vs.Type)
	}
	if _, ok := vs.Properties[b.key]; ok {
		return fmt.Errorf("dsl: variant %q declares the discriminant %q", vr.name, b.key)
	}
	if b.shared != nil {
		for _, k := range b.shared.Keys() {
			if _, ok := vs.Properties[k]; ok {
				return fmt.Errorf("dsl: variant %q redeclares shared field %q", vr.name, k)
			}
		}
	}
	return nil
}

// MustBuild is like Build but panics on error.
func (b *unionBuilder) MustBuild() *UnionSchema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// UnionSchema maps discriminated JSON objects to union.Value.
type UnionSchema struct {
	key       string
	variants  []unionVariant
	index     map[string]int
	shared    *ObjectSchema
	onUnknown union.UnknownHook
}

var _ tagskema.Schema[union.Value] = (*UnionSchema)(nil)

// Discriminant returns the name of the dispatch property.
func (u *UnionSchema) Discriminant() string { return u.key }

// Tags returns the declared variant tags in declaration order.
func (u *UnionSchema) Tags() []string {
	out := make([]string, len(u.variants))
	for i, v := range u.variants {
		out[i] = v.name
	}
	return out
}

func (u *UnionSchema) Parse(ctx context.Context, v any) (union.Value, error) {
	src, ok := tagskema.AsMap(v)
	if !ok {
		return union.Value{}, tagskema.TypeMismatch(tagskema.KindObject, v)
	}
	cctx, err := tagskema.Descend(ctx)
	if err != nil {
		return union.Value{}, err
	}
	tag, iss := u.discriminantOf(src)
	if len(iss) > 0 {
		return union.Value{}, iss
	}

	var shared map[string]any
	if u.shared != nil {
		sh, err := u.shared.Parse(ctx, pick(src, u.shared))
		if err != nil {
			iss = tagskema.AppendIssues(iss, tagskema.ToIssues("/", err)...)
			if tagskema.IsFailFast(ctx) {
				return union.Value{}, iss
			}
		}
		shared = sh
	}

	var out union.Value
	i, known := u.index[tag]
	if !known {
		raw, ci := copyJSON(ctx, src)
		if len(ci) > 0 {
			return union.Value{}, tagskema.AppendIssues(iss, ci...)
		}
		out = union.Unknown(tag, raw.(map[string]any))
	} else {
		payload, pi := u.parseVariant(ctx, cctx, u.variants[i], src)
		iss = tagskema.AppendIssues(iss, pi...)
		out = union.New(tag, payload)
	}
	if len(iss) > 0 {
		return union.Value{}, iss
	}
	if shared != nil {
		out = out.WithShared(shared)
	}
	if !known && u.onUnknown != nil {
		raw, _ := out.Raw()
		u.onUnknown(ctx, tag, raw)
	}
	return out, nil
}

func (u *UnionSchema) discriminantOf(src map[string]any) (string, tagskema.Issues) {
	path := tagskema.FieldPath(u.key)
	dv, present := src[u.key]
	if !present {
		return "", tagskema.Issues{{
			Path:    path,
			Code:    tagskema.CodeDiscriminatorMissing,
			Message: i18n.T(tagskema.CodeDiscriminatorMissing, map[string]string{"key": u.key}),
			Hint:    fmt.Sprintf("one of %v", u.Tags()),
		}}
	}
	tag, ok := dv.(string)
	if !ok {
		actual := tagskema.KindOf(dv).String()
		return "", tagskema.Issues{{
			Path:     path,
			Code:     tagskema.CodeDiscriminatorInvalidType,
			Message:  i18n.T(tagskema.CodeDiscriminatorInvalidType, map[string]string{"key": u.key, "actual": actual}),
			Expected: tagskema.KindString.String(),
			Actual:   actual,
		}}
	}
	return tag, nil
}

// parseVariant parses the payload of a known variant. Flattened variants
// share the union's object level, so they get the parent ctx and Descend on
// their own; wrapped payloads are children of the union object.
func (u *UnionSchema) parseVariant(ctx, cctx context.Context, vr unionVariant, src map[string]any) (any, tagskema.Issues) {
	switch vr.kind {
	case variantFields:
		rest := make(map[string]any, len(src))
		for k, val := range src {
			if k == u.key || (u.shared != nil && u.shared.Has(k)) {
				continue
			}
			rest[k] = val
		}
		return vr.ad.parseAt(ctx, "/", rest)
	case variantWrapped:
		raw, present := src[vr.name]
		if !present {
			return nil, tagskema.Issues{tagskema.Required(vr.name)}
		}
		return vr.ad.parseAt(cctx, tagskema.FieldPath(vr.name), raw)
	default:
		return nil, nil
	}
}

// pick returns the subset of src declared by s.
func pick(src map[string]any, s *ObjectSchema) map[string]any {
	out := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		if v, ok := src[f.name]; ok {
			out[f.name] = v
		}
	}
	return out
}

// Serialize emits the discriminant first, then shared fields, then the
// variant's fields in declaration order. Unknown variants re-emit their raw
// keys in ascending order.
func (u *UnionSchema) Serialize(ctx context.Context, v union.Value) (any, error) {
	if v.IsUnknown() {
		return u.serializeUnknown(ctx, v)
	}
	i, ok := u.index[v.Tag()]
	if !ok {
		return nil, tagskema.Invariantf("union %q has no variant %q", u.key, v.Tag())
	}
	vr := u.variants[i]
	out := tagskema.NewObject(1 + len(u.sharedKeys()))
	out.Set(u.key, vr.name)
	if err := u.mergeShared(ctx, out, v.Shared()); err != nil {
		return nil, err
	}
	switch vr.kind {
	case variantFields:
		sv, err := vr.ad.serialize(ctx, v.Payload())
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", vr.name, err)
		}
		keys, vals, ok := entries(sv)
		if !ok {
			return nil, tagskema.Invariantf("variant %q serialized to %s, want object", vr.name, tagskema.KindOf(sv))
		}
		for _, k := range keys {
			if k == u.key {
				continue
			}
			out.Set(k, vals[k])
		}
	case variantWrapped:
		sv, err := vr.ad.serialize(ctx, v.Payload())
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", vr.name, err)
		}
		out.Set(vr.name, sv)
	case variantEmpty:
		switch v.Payload().(type) {
		case nil, struct{}:
		default:
			return nil, tagskema.Invariantf("variant %q carries no payload, got %T", vr.name, v.Payload())
		}
	}
	return out, nil
}

func (u *UnionSchema) serializeUnknown(ctx context.Context, v union.Value) (any, error) {
	raw, ok := v.Raw()
	if !ok {
		return nil, tagskema.Invariantf("unknown variant without raw object")
	}
	if _, declared := u.index[v.WireTag()]; declared {
		return nil, tagskema.Invariantf("unknown variant carries declared tag %q", v.WireTag())
	}
	out := tagskema.NewObject(len(raw) + 1)
	out.Set(u.key, v.WireTag())
	for _, k := range tagskema.SortedKeys(raw) {
		if k == u.key {
			continue
		}
		out.Set(k, raw[k])
	}
	if err := u.mergeShared(ctx, out, v.Shared()); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *UnionSchema) sharedKeys() []string {
	if u.shared == nil {
		return nil
	}
	return u.shared.Keys()
}

func (u *UnionSchema) mergeShared(ctx context.Context, out *tagskema.Object, shared map[string]any) error {
	if u.shared == nil {
		return nil
	}
	sv, err := u.shared.Serialize(ctx, shared)
	if err != nil {
		return fmt.Errorf("shared fields: %w", err)
	}
	keys, vals, _ := entries(sv)
	for _, k := range keys {
		out.Set(k, vals[k])
	}
	return nil
}

// entries returns the keys of a serialized object in emission order.
func entries(v any) ([]string, map[string]any, bool) {
	switch t := v.(type) {
	case *tagskema.Object:
		m, _ := tagskema.AsMap(t)
		return t.Keys(), m, t != nil
	case map[string]any:
		return tagskema.SortedKeys(t), t, true
	default:
		return nil, nil, false
	}
}

// JSONSchema describes the declared variants only: one oneOf branch per tag
// with the discriminant pinned by const. Documents with an undeclared tag
// fail validation against it even though Parse accepts them as
// union.UnknownTag, so the exported schema is the strict producer contract.
func (u *UnionSchema) JSONSchema() (*js.Schema, error) {
	var sharedProps map[string]*js.Schema
	var sharedReq []string
	if u.shared != nil {
		ss, err := u.shared.JSONSchema()
		if err != nil {
			return nil, err
		}
		sharedProps, sharedReq = ss.Properties, ss.Required
	}
	out := &js.Schema{
		OneOf:         make([]*js.Schema, 0, len(u.variants)),
		Discriminator: &js.Discriminator{PropertyName: u.key},
	}
	for _, vr := range u.variants {
		branch := &js.Schema{Type: "object", Properties: map[string]*js.Schema{}}
		switch vr.kind {
		case variantFields:
			vs, err := vr.ad.schema()
			if err != nil {
				return nil, err
			}
			for k, p := range vs.Properties {
				branch.Properties[k] = p
			}
			branch.Required = append(branch.Required, vs.Required...)
			branch.AdditionalProperties = vs.AdditionalProperties
		case variantWrapped:
			vs, err := vr.ad.schema()
			if err != nil {
				return nil, err
			}
			branch.Properties[vr.name] = vs
			branch.Required = append(branch.Required, vr.name)
		}
		for k, p := range sharedProps {
			branch.Properties[k] = p
		}
		branch.Properties[u.key] = &js.Schema{Type: "string", Const: vr.name}
		branch.Required = append(append([]string{u.key}, sharedReq...), branch.Required...)
		out.OneOf = append(out.OneOf, branch)
	}
	return out, nil
}

// UnionOf adapts a union schema for use in Field, Variant or Wrapped.
func UnionOf(u *UnionSchema) AnyAdapter { return SchemaOf[union.Value](u) }
