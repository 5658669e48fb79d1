package dsl

import (
	"context"

	tagskema "github.com/reoring/tagskema"
	"github.com/reoring/tagskema/i18n"
	js "github.com/reoring/tagskema/jsonschema"
)

type objectField struct {
	name     string
	ad       AnyAdapter
	required bool
}

// ObjectSchema parses JSON objects into map[string]any keyed by the declared
// field names. Serialize emits fields in declaration order.
type ObjectSchema struct {
	fields        []objectField
	index         map[string]int
	unknownPolicy tagskema.UnknownPolicy
	unknownTarget string
}

var _ tagskema.Schema[map[string]any] = (*ObjectSchema)(nil)

// Keys returns the declared field names in declaration order.
func (o *ObjectSchema) Keys() []string {
	ks := make([]string, len(o.fields))
	for i, f := range o.fields {
		ks[i] = f.name
	}
	return ks
}

// Has reports whether name is a declared field.
func (o *ObjectSchema) Has(name string) bool {
	_, ok := o.index[name]
	return ok
}

func (o *ObjectSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	src, ok := tagskema.AsMap(v)
	if !ok {
		return nil, tagskema.TypeMismatch(tagskema.KindObject, v)
	}
	ctx, err := tagskema.Descend(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(o.fields))
	var iss tagskema.Issues
	for _, f := range o.fields {
		raw, present := src[f.name]
		if !present {
			if f.required {
				iss = tagskema.AppendIssues(iss, tagskema.Required(f.name))
				if tagskema.IsFailFast(ctx) {
					return nil, iss
				}
			}
			continue
		}
		pv, fi := f.ad.parseAt(ctx, tagskema.FieldPath(f.name), raw)
		if len(fi) > 0 {
			iss = tagskema.AppendIssues(iss, fi...)
			if tagskema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out[f.name] = pv
	}
	iss = tagskema.AppendIssues(iss, o.collectUnknown(ctx, src, out)...)
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// collectUnknown processes unknown keys according to unknownPolicy and may
// write into out for passthrough.
func (o *ObjectSchema) collectUnknown(ctx context.Context, src map[string]any, out map[string]any) tagskema.Issues {
	var iss tagskema.Issues
	for _, k := range tagskema.SortedKeys(src) {
		if o.Has(k) {
			continue
		}
		switch o.unknownPolicy {
		case tagskema.UnknownStrict:
			iss = tagskema.AppendIssues(iss, tagskema.Issue{Path: tagskema.FieldPath(k), Code: tagskema.CodeUnknownKey, Message: i18n.T(tagskema.CodeUnknownKey, nil)})
		case tagskema.UnknownPassthrough:
			extra, _ := out[o.unknownTarget].(map[string]any)
			if extra == nil {
				extra = map[string]any{}
				out[o.unknownTarget] = extra
			}
			cv, ci := copyJSON(ctx, src[k])
			if len(ci) > 0 {
				iss = tagskema.AppendIssues(iss, tagskema.Rebase(tagskema.FieldPath(k), ci)...)
				continue
			}
			extra[k] = cv
		}
	}
	return iss
}

func (o *ObjectSchema) Serialize(ctx context.Context, m map[string]any) (any, error) {
	out := tagskema.NewObject(len(o.fields))
	for _, f := range o.fields {
		val, present := m[f.name]
		if !present {
			if f.required {
				return nil, tagskema.Invariantf("required field %q missing", f.name)
			}
			continue
		}
		sv, err := f.ad.serialize(ctx, val)
		if err != nil {
			return nil, err
		}
		out.Set(f.name, sv)
	}
	if o.unknownPolicy == tagskema.UnknownPassthrough {
		if extra, ok := tagskema.AsMap(m[o.unknownTarget]); ok {
			for _, k := range tagskema.SortedKeys(extra) {
				if o.Has(k) {
					continue
				}
				out.Set(k, extra[k])
			}
		}
	}
	return out, nil
}

func (o *ObjectSchema) JSONSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(o.fields))
	var req []string
	for _, f := range o.fields {
		ps, err := f.ad.schema()
		if err != nil {
			return nil, err
		}
		props[f.name] = ps
		if f.required {
			req = append(req, f.name)
		}
	}
	var additional any
	switch o.unknownPolicy {
	case tagskema.UnknownStrict:
		additional = false
	default:
		// Strip and Passthrough both accept unknown keys at runtime.
		additional = true
	}
	return &js.Schema{Type: "object", Properties: props, Required: req, AdditionalProperties: additional}, nil
}

// ObjectOf adapts an object schema for use in Field, Variant or Wrapped.
func ObjectOf(o *ObjectSchema) AnyAdapter { return SchemaOf[map[string]any](o) }
