package samples

import (
	"context"
	"fmt"

	tagskema "github.com/reoring/tagskema"
	"github.com/reoring/tagskema/codec"
	"github.com/reoring/tagskema/dsl"
	"github.com/reoring/tagskema/union"
)

type Language string

const (
	Java       Language = "JAVA"
	JavaScript Language = "JAVASCRIPT"
	Python     Language = "PYTHON"
)

// InvalidRequestCause explains why a submission request was rejected.
type InvalidRequestCause interface {
	union.Variant
	isInvalidRequestCause()
}

type SubmissionIDNotFound struct {
	MissingSubmissionID string `json:"missingSubmissionId"`
}

type CustomTestCasesUnsupported struct {
	ProblemID    string `json:"problemId"`
	SubmissionID string `json:"submissionId"`
}

type UnexpectedLanguage struct {
	ExpectedLanguage Language `json:"expectedLanguage"`
	ActualLanguage   Language `json:"actualLanguage"`
}

type UnknownInvalidRequestCause struct {
	Discriminant string
	Raw          map[string]any
}

func (SubmissionIDNotFound) Tag() string       { return "submissionIdNotFound" }
func (CustomTestCasesUnsupported) Tag() string { return "customTestCasesUnsupported" }
func (UnexpectedLanguage) Tag() string         { return "unexpectedLanguage" }
func (UnknownInvalidRequestCause) Tag() string { return union.UnknownTag }

func (SubmissionIDNotFound) isInvalidRequestCause()       {}
func (CustomTestCasesUnsupported) isInvalidRequestCause() {}
func (UnexpectedLanguage) isInvalidRequestCause()         {}
func (UnknownInvalidRequestCause) isInvalidRequestCause() {}

var languageSchema = dsl.SchemaOf(dsl.Enum(Java, JavaScript, Python))

var invalidRequestCauseUnion = dsl.Union("type").
	Variant("submissionIdNotFound", dsl.SchemaOf(dsl.MustBind[SubmissionIDNotFound](dsl.Object().
		Field("missingSubmissionId", dsl.SchemaOf(dsl.String())).
		MustBuild()))).
	Variant("customTestCasesUnsupported", dsl.SchemaOf(dsl.MustBind[CustomTestCasesUnsupported](dsl.Object().
		Field("problemId", dsl.SchemaOf(dsl.String())).
		Field("submissionId", dsl.SchemaOf(dsl.String())).
		MustBuild()))).
	Variant("unexpectedLanguage", dsl.SchemaOf(dsl.MustBind[UnexpectedLanguage](dsl.Object().
		Field("expectedLanguage", languageSchema).
		Field("actualLanguage", languageSchema).
		MustBuild()))).
	MustBuild()

// InvalidRequestCauseSchema maps {"type":...} rejection causes.
var InvalidRequestCauseSchema = dsl.Transform(
	tagskema.Schema[union.Value](invalidRequestCauseUnion),
	codec.FuncE(decodeInvalidRequestCause, encodeInvalidRequestCause),
)

func decodeInvalidRequestCause(_ context.Context, v union.Value) (InvalidRequestCause, error) {
	switch v.Tag() {
	case "submissionIdNotFound":
		return narrow[InvalidRequestCause, SubmissionIDNotFound](v)
	case "customTestCasesUnsupported":
		return narrow[InvalidRequestCause, CustomTestCasesUnsupported](v)
	case "unexpectedLanguage":
		return narrow[InvalidRequestCause, UnexpectedLanguage](v)
	case union.UnknownTag:
		raw, _ := v.Raw()
		return UnknownInvalidRequestCause{Discriminant: v.WireTag(), Raw: raw}, nil
	}
	return nil, fmt.Errorf("%w: %q", union.ErrNoCase, v.Tag())
}

func encodeInvalidRequestCause(_ context.Context, c InvalidRequestCause) (union.Value, error) {
	switch x := c.(type) {
	case SubmissionIDNotFound, CustomTestCasesUnsupported, UnexpectedLanguage:
		return union.New(x.Tag(), x), nil
	case UnknownInvalidRequestCause:
		return union.Unknown(x.Discriminant, x.Raw), nil
	}
	return union.Value{}, fmt.Errorf("unsupported InvalidRequestCause %T", c)
}
