package dsl_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	tagskema "github.com/reoring/tagskema"
	g "github.com/reoring/tagskema/dsl"
)

func TestList_ParseSerialize(t *testing.T) {
	ctx := context.Background()
	s := g.List(g.Int())

	v, err := s.Parse(ctx, []any{json.Number("1"), json.Number("2")})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{1, 2}, v); diff != "" {
		t.Fatalf("mismatch:\n%s", diff)
	}

	_, err = s.Parse(ctx, []any{json.Number("1"), "x", true})
	iss, _ := tagskema.AsIssues(err)
	if len(iss) != 2 || iss[0].Path != "/1" || iss[1].Path != "/2" {
		t.Fatalf("unexpected issues: %v", iss)
	}

	out, err := s.Serialize(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{}, out); diff != "" {
		t.Fatalf("nil list should serialize to []:\n%s", diff)
	}
}

func TestMap_SortedOutput(t *testing.T) {
	ctx := context.Background()
	s := g.Map(g.Bool())

	v, err := s.Parse(ctx, map[string]any{"b": true, "a": false})
	if err != nil {
		t.Fatal(err)
	}
	b, err := tagskema.SerializeJSON(ctx, s, v)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"a":false,"b":true}` {
		t.Fatalf("unexpected output: %s", b)
	}

	_, err = s.Parse(ctx, map[string]any{"a/b": "x"})
	if it := firstIssue(t, err); it.Path != "/a~1b" {
		t.Fatalf("path not escaped: %s", it.Path)
	}
}

func TestOptional_NullAndAbsent(t *testing.T) {
	ctx := context.Background()
	obj, _ := g.Object().
		Field("nick", g.OptionalOf(g.String())).Optional().
		Build()

	v, err := obj.Parse(ctx, map[string]any{"nick": nil})
	if err != nil {
		t.Fatal(err)
	}
	if p, ok := v["nick"].(*string); !ok || p != nil {
		t.Fatalf("expected nil *string, got %#v", v["nick"])
	}
	v, err = obj.Parse(ctx, map[string]any{"nick": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if p := v["nick"].(*string); *p != "x" {
		t.Fatalf("unexpected value %q", *p)
	}
	b, err := tagskema.SerializeJSON[map[string]any](ctx, obj, map[string]any{"nick": (*string)(nil)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"nick":null}` {
		t.Fatalf("unexpected output: %s", b)
	}
}

type tree struct {
	children []tree
}

func TestLazy_RecursiveDepthLimit(t *testing.T) {
	ctx := context.Background()
	var node tagskema.Schema[tree]
	node = g.Transform[[]tree, tree](
		g.List(g.Lazy(func() tagskema.Schema[tree] { return node })),
		treeCodec{},
	)

	nest := func(n int) any {
		var v any = []any{}
		for i := 0; i < n; i++ {
			v = []any{v}
		}
		return v
	}

	if _, err := node.Parse(ctx, nest(10)); err != nil {
		t.Fatalf("shallow tree: %v", err)
	}
	_, err := node.Parse(tagskema.WithMaxDepth(ctx, 5), nest(10))
	if !errors.Is(err, tagskema.ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
	if it := firstIssue(t, err); it.Path != "/0/0/0/0/0" {
		t.Fatalf("unexpected path %s", it.Path)
	}
	if _, err := node.Parse(tagskema.WithMaxDepth(ctx, -1), nest(1000)); err != nil {
		t.Fatalf("disabled guard: %v", err)
	}
}

type treeCodec struct{}

func (treeCodec) Decode(_ context.Context, a []tree) (tree, error) { return tree{children: a}, nil }
func (treeCodec) Encode(_ context.Context, b tree) ([]tree, error) { return b.children, nil }
