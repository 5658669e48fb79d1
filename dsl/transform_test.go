package dsl_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tagskema "github.com/reoring/tagskema"
	"github.com/reoring/tagskema/codec"
	g "github.com/reoring/tagskema/dsl"
)

func TestTransform_TimeField(t *testing.T) {
	ctx := context.Background()
	s := g.Transform(g.String(), codec.TimeRFC3339())

	v, err := s.Parse(ctx, "2024-01-02T03:04:05+09:00")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Equal(time.Date(2024, 1, 1, 18, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected time %v", v)
	}
	out, err := s.Serialize(ctx, v)
	if err != nil {
		t.Fatal(err)
	}
	if out != "2024-01-01T18:04:05Z" {
		t.Fatalf("unexpected output %v", out)
	}

	_, err = s.Parse(ctx, "yesterday")
	if it := firstIssue(t, err); it.Code != tagskema.CodeInvalidFormat {
		t.Fatalf("unexpected issue %+v", it)
	}
	_, err = s.Parse(ctx, 3)
	if it := firstIssue(t, err); it.Code != tagskema.CodeInvalidType {
		t.Fatalf("inner schema errors must pass through, got %+v", it)
	}
}

type upper string

func TestTransform_ForeignErrors(t *testing.T) {
	ctx := context.Background()
	s := g.Transform(g.String(), codec.FuncE(
		func(_ context.Context, a string) (upper, error) {
			if a == "" {
				return "", errors.New("empty")
			}
			return upper(strings.ToUpper(a)), nil
		},
		func(_ context.Context, b upper) (string, error) {
			if b == "" {
				return "", fmt.Errorf("cannot encode empty value")
			}
			return strings.ToLower(string(b)), nil
		},
	))

	v, err := s.Parse(ctx, "abc")
	if err != nil || v != "ABC" {
		t.Fatalf("parse: %v %v", v, err)
	}
	_, err = s.Parse(ctx, "")
	if it := firstIssue(t, err); it.Code != tagskema.CodeInvalidFormat || it.Path != "/" || it.Message != "empty" {
		t.Fatalf("unexpected issue %+v", it)
	}
	if _, err := s.Serialize(ctx, ""); !errors.Is(err, tagskema.ErrInvariant) {
		t.Fatalf("encode failures must wrap ErrInvariant, got %v", err)
	}
}

func TestTransform_InsideObject(t *testing.T) {
	ctx := context.Background()
	obj := g.Object().
		Field("at", g.TransformOf(g.String(), codec.TimeRFC3339())).
		MustBuild()

	_, err := obj.Parse(ctx, map[string]any{"at": "nope"})
	if it := firstIssue(t, err); it.Path != "/at" {
		t.Fatalf("unexpected path %s", it.Path)
	}
}
