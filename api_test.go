package tagskema_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	tagskema "github.com/reoring/tagskema"
	js "github.com/reoring/tagskema/jsonschema"
)

// minimalSchema accepts non-empty strings and serializes them back.
type minimalSchema struct{}

func (minimalSchema) Parse(ctx context.Context, v any) (string, error) {
	s, _ := v.(string)
	if s == "" {
		return "", tagskema.TypeMismatch(tagskema.KindString, v)
	}
	return s, nil
}
func (minimalSchema) Serialize(ctx context.Context, v string) (any, error) {
	if v == "" {
		return nil, tagskema.Invariantf("empty string")
	}
	return v, nil
}
func (minimalSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

func TestParseJSON_DelegatesToSchema(t *testing.T) {
	ctx := context.Background()
	v, err := tagskema.ParseJSON[string](ctx, minimalSchema{}, []byte(`"hi"`))
	if err != nil || v != "hi" {
		t.Fatalf("got %q, %v", v, err)
	}
	_, err = tagskema.ParseJSON[string](ctx, minimalSchema{}, []byte(`12`))
	if !errors.Is(err, tagskema.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	_, err = tagskema.ParseJSON[string](ctx, minimalSchema{}, []byte(`"a" "b"`))
	iss, ok := tagskema.AsIssues(err)
	if !ok || iss[0].Code != tagskema.CodeParseError {
		t.Fatalf("expected parse_error for trailing data, got %v", err)
	}
	_, err = tagskema.ParseJSON[string](ctx, minimalSchema{}, []byte(`{`))
	if iss, ok := tagskema.AsIssues(err); !ok || iss[0].Code != tagskema.CodeParseError || iss[0].Cause == nil {
		t.Fatalf("expected parse_error with cause, got %v", err)
	}
}

func TestHelpers(t *testing.T) {
	ctx := context.Background()
	s := minimalSchema{}
	if !tagskema.Is[string](ctx, s, "x") || tagskema.Is[string](ctx, s, 1) {
		t.Fatal("Is mismatch")
	}
	if v, ok := tagskema.SafeParse[string](ctx, s, 1); ok || v != "" {
		t.Fatalf("SafeParse should fail: %q", v)
	}
	if err := tagskema.Validate[string](ctx, s, "x"); err != nil {
		t.Fatal(err)
	}
	func() {
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.Is(err, tagskema.ErrInvariant) {
				t.Fatalf("expected invariant panic, got %v", r)
			}
		}()
		tagskema.MustSerialize[string](ctx, s, "")
	}()
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := tagskema.Issues{
		{Path: "/a", Code: tagskema.CodeRequired},
		{Path: "/b", Code: tagskema.CodeInvalidType, Expected: "string", Actual: "number"},
		{Path: "/c", Code: tagskema.CodeUnknownKey},
		{Path: "/d", Code: tagskema.CodeUnknownKey},
	}
	got := iss.Error()
	want := "required at /a; invalid_type at /b (expected string, got number); unknown_key at /c; ... (total 4)"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
	if !iss.HasCode(tagskema.CodeUnknownKey) || iss.HasCode(tagskema.CodeDepthExceeded) {
		t.Fatal("HasCode mismatch")
	}
}

func TestIssues_Sentinels(t *testing.T) {
	cases := map[string]error{
		tagskema.CodeRequired:                 tagskema.ErrMissingRequiredField,
		tagskema.CodeInvalidType:              tagskema.ErrTypeMismatch,
		tagskema.CodeDiscriminatorMissing:     tagskema.ErrMissingDiscriminant,
		tagskema.CodeDiscriminatorInvalidType: tagskema.ErrInvalidDiscriminantType,
		tagskema.CodeDepthExceeded:            tagskema.ErrDepthExceeded,
	}
	for code, sentinel := range cases {
		var err error = tagskema.Issues{{Path: "/", Code: code}}
		if !errors.Is(err, sentinel) {
			t.Fatalf("%s should match %v", code, sentinel)
		}
		if errors.Is(err, tagskema.ErrInvariant) {
			t.Fatalf("%s must not match ErrInvariant", code)
		}
	}
}

func TestRebaseAndToIssues(t *testing.T) {
	iss := tagskema.Issues{{Path: "/"}, {Path: "/x"}, {Path: "y"}}
	got := tagskema.Rebase("/items/2", iss)
	var paths []string
	for _, it := range got {
		paths = append(paths, it.Path)
	}
	if diff := cmp.Diff([]string{"/items/2", "/items/2/x", "/items/2/y"}, paths); diff != "" {
		t.Fatalf("paths mismatch:\n%s", diff)
	}
	if iss[1].Path != "/x" {
		t.Fatal("Rebase must not modify its input")
	}

	foreign := tagskema.ToIssues("/p", errors.New("boom"))
	if len(foreign) != 1 || foreign[0].Code != tagskema.CodeParseError || foreign[0].Path != "/p" {
		t.Fatalf("unexpected %v", foreign)
	}
	if tagskema.ToIssues("/", nil) != nil {
		t.Fatal("nil error must map to nil Issues")
	}
}

func TestPathRef(t *testing.T) {
	p := tagskema.Root().Field("a/b").Index(3).Field("c~d")
	if p.Pointer() != "/a~1b/3/c~0d" {
		t.Fatalf("unexpected pointer %s", p.Pointer())
	}
	if tagskema.Root().Pointer() != "/" {
		t.Fatal("root pointer must be /")
	}
	it := p.Issue(tagskema.CodeInvalidFormat, "bad", "min", 1)
	if it.Params["min"] != 1 || it.Path != p.Pointer() {
		t.Fatalf("unexpected issue %+v", it)
	}
}

func TestDescend(t *testing.T) {
	ctx := tagskema.WithMaxDepth(context.Background(), 2)
	ctx, err := tagskema.Descend(ctx)
	if err != nil || tagskema.Depth(ctx) != 1 {
		t.Fatalf("depth %d err %v", tagskema.Depth(ctx), err)
	}
	ctx, err = tagskema.Descend(ctx)
	if err != nil {
		t.Fatal(err)
	}
	_, err = tagskema.Descend(ctx)
	if !errors.Is(err, tagskema.ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
	if !strings.Contains(err.Error(), tagskema.CodeDepthExceeded) {
		t.Fatalf("unexpected message %q", err)
	}

	off := tagskema.WithMaxDepth(context.Background(), -1)
	for i := 0; i < tagskema.DefaultMaxDepth+10; i++ {
		if off, err = tagskema.Descend(off); err != nil {
			t.Fatalf("disabled guard failed at %d: %v", i, err)
		}
	}
}

func TestFailFastFlag(t *testing.T) {
	ctx := context.Background()
	if tagskema.IsFailFast(ctx) {
		t.Fatal("fail-fast must be off by default")
	}
	if !tagskema.IsFailFast(tagskema.WithFailFast(ctx, true)) {
		t.Fatal("fail-fast not set")
	}
}
