package dsl

import (
	"fmt"

	tagskema "github.com/reoring/tagskema"
)

type objectBuilder struct {
	fields        []objectField
	index         map[string]int
	unknownPolicy tagskema.UnknownPolicy
	unknownTarget string
	err           error
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder. Unknown keys are stripped unless
// UnknownStrict or UnknownPassthrough is chosen.
func Object() *objectBuilder {
	return &objectBuilder{index: map[string]int{}, unknownPolicy: tagskema.UnknownStrip}
}

// Field registers a field with its adapter. Fields are required by default
// and serialize in registration order.
func (b *objectBuilder) Field(name string, ad AnyAdapter) *fieldStep {
	if _, dup := b.index[name]; dup {
		b.err = fmt.Errorf("dsl: duplicate field %q", name)
		return &fieldStep{b: b, name: name}
	}
	b.index[name] = len(b.fields)
	b.fields = append(b.fields, objectField{name: name, ad: ad, required: true})
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.setRequired(f.name, true)
	return f.b
}

// Optional marks the field as optional: it may be absent on the wire and is
// omitted from output when absent from the domain map.
func (f *fieldStep) Optional() *objectBuilder {
	f.b.setRequired(f.name, false)
	return f.b
}

func (f *fieldStep) Field(name string, ad AnyAdapter) *fieldStep { return f.b.Field(name, ad) }
func (f *fieldStep) UnknownStrict() *objectBuilder               { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *objectBuilder                { return f.b.UnknownStrip() }
func (f *fieldStep) UnknownPassthrough(target string) *objectBuilder {
	return f.b.UnknownPassthrough(target)
}
func (f *fieldStep) Build() (*ObjectSchema, error) { return f.b.Build() }
func (f *fieldStep) MustBuild() *ObjectSchema      { return f.b.MustBuild() }

func (b *objectBuilder) setRequired(name string, req bool) {
	if i, ok := b.index[name]; ok {
		b.fields[i].required = req
	}
}

// UnknownStrict rejects keys not declared with Field.
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	b.unknownPolicy = tagskema.UnknownStrict
	b.unknownTarget = ""
	return b
}

// UnknownStrip drops keys not declared with Field.
func (b *objectBuilder) UnknownStrip() *objectBuilder {
	b.unknownPolicy = tagskema.UnknownStrip
	b.unknownTarget = ""
	return b
}

// UnknownPassthrough keeps undeclared keys in a map[string]any stored under
// target in the parsed map, and writes them back after the declared fields.
func (b *objectBuilder) UnknownPassthrough(target string) *objectBuilder {
	b.unknownPolicy = tagskema.UnknownPassthrough
	b.unknownTarget = target
	return b
}

// Build validates the builder and returns the schema.
func (b *objectBuilder) Build() (*ObjectSchema, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.unknownPolicy == tagskema.UnknownPassthrough {
		if b.unknownTarget == "" {
			return nil, fmt.Errorf("dsl: unknown passthrough target missing")
		}
		if _, clash := b.index[b.unknownTarget]; clash {
			return nil, fmt.Errorf("dsl: passthrough target %q collides with a declared field", b.unknownTarget)
		}
	}
	fields := append([]objectField(nil), b.fields...)
	index := make(map[string]int, len(b.index))
	for k, v := range b.index {
		index[k] = v
	}
	return &ObjectSchema{fields: fields, index: index, unknownPolicy: b.unknownPolicy, unknownTarget: b.unknownTarget}, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() *ObjectSchema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
