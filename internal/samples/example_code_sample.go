package samples

import (
	"context"
	"fmt"

	tagskema "github.com/reoring/tagskema"
	"github.com/reoring/tagskema/codec"
	"github.com/reoring/tagskema/dsl"
	"github.com/reoring/tagskema/union"
)

// SupportedSdkLanguage names an SDK a code sample is written against.
type SupportedSdkLanguage string

const (
	SdkCurl       SupportedSdkLanguage = "curl"
	SdkPython     SupportedSdkLanguage = "python"
	SdkJavaScript SupportedSdkLanguage = "javascript"
	SdkTypeScript SupportedSdkLanguage = "typescript"
	SdkGo         SupportedSdkLanguage = "go"
	SdkRuby       SupportedSdkLanguage = "ruby"
	SdkCSharp     SupportedSdkLanguage = "csharp"
	SdkJava       SupportedSdkLanguage = "java"
)

// ExampleCodeSample is either a free-form snippet in some language or a
// snippet for one of the generated SDKs.
type ExampleCodeSample interface {
	union.Variant
	isExampleCodeSample()
}

type ExampleCodeSampleLanguage struct {
	Language string  `json:"language"`
	Code     string  `json:"code"`
	Install  *string `json:"install"`
}

type ExampleCodeSampleSdk struct {
	Sdk  SupportedSdkLanguage `json:"sdk"`
	Code string               `json:"code"`
}

type UnknownExampleCodeSample struct {
	Discriminant string
	Raw          map[string]any
}

func (ExampleCodeSampleLanguage) Tag() string { return "language" }
func (ExampleCodeSampleSdk) Tag() string      { return "sdk" }
func (UnknownExampleCodeSample) Tag() string  { return union.UnknownTag }

func (ExampleCodeSampleLanguage) isExampleCodeSample() {}
func (ExampleCodeSampleSdk) isExampleCodeSample()      {}
func (UnknownExampleCodeSample) isExampleCodeSample()  {}

var exampleCodeSampleUnion = dsl.Union("type").
	Variant("language", dsl.SchemaOf(dsl.MustBind[ExampleCodeSampleLanguage](dsl.Object().
		Field("language", dsl.SchemaOf(dsl.String())).
		Field("code", dsl.SchemaOf(dsl.String())).
		Field("install", dsl.OptionalOf(dsl.String())).Optional().
		MustBuild()))).
	Variant("sdk", dsl.SchemaOf(dsl.MustBind[ExampleCodeSampleSdk](dsl.Object().
		Field("sdk", dsl.SchemaOf(dsl.Enum(SdkCurl, SdkPython, SdkJavaScript, SdkTypeScript, SdkGo, SdkRuby, SdkCSharp, SdkJava))).
		Field("code", dsl.SchemaOf(dsl.String())).
		MustBuild()))).
	MustBuild()

// ExampleCodeSampleSchema maps {"type":"language"|"sdk",...} objects.
var ExampleCodeSampleSchema tagskema.Schema[ExampleCodeSample] = dsl.Transform(
	tagskema.Schema[union.Value](exampleCodeSampleUnion),
	codec.FuncE(decodeExampleCodeSample, encodeExampleCodeSample),
)

func decodeExampleCodeSample(_ context.Context, v union.Value) (ExampleCodeSample, error) {
	switch v.Tag() {
	case "language":
		return narrow[ExampleCodeSample, ExampleCodeSampleLanguage](v)
	case "sdk":
		return narrow[ExampleCodeSample, ExampleCodeSampleSdk](v)
	case union.UnknownTag:
		raw, _ := v.Raw()
		return UnknownExampleCodeSample{Discriminant: v.WireTag(), Raw: raw}, nil
	}
	return nil, fmt.Errorf("%w: %q", union.ErrNoCase, v.Tag())
}

func encodeExampleCodeSample(_ context.Context, s ExampleCodeSample) (union.Value, error) {
	switch x := s.(type) {
	case ExampleCodeSampleLanguage, ExampleCodeSampleSdk:
		return union.New(x.Tag(), x), nil
	case UnknownExampleCodeSample:
		return union.Unknown(x.Discriminant, x.Raw), nil
	}
	return union.Value{}, fmt.Errorf("unsupported ExampleCodeSample %T", s)
}
