package source_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	tagskema "github.com/reoring/tagskema"
	"github.com/reoring/tagskema/dsl"
	"github.com/reoring/tagskema/source"
	"github.com/reoring/tagskema/union"
)

func TestYAML_MatchesJSONTree(t *testing.T) {
	fromJSON, err := source.JSON().Decode([]byte(`{"type":"list","list":[1,2.5,"x",true,null],"nested":{"k":-3}}`))
	if err != nil {
		t.Fatal(err)
	}
	fromYAML, err := source.YAML().Decode([]byte(`
type: list
list: [1, 2.5, x, true, null]
nested:
  k: -3
`))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Fatalf("trees differ (-json +yaml):\n%s", diff)
	}
}

func TestYAML_Errors(t *testing.T) {
	if _, err := source.YAML().Decode([]byte("")); err == nil {
		t.Fatal("expected error for empty document")
	}
	if _, err := source.YAML().Decode([]byte("1: a\n")); err == nil {
		t.Fatal("expected error for non-string key")
	}
	if _, err := source.YAML().Decode([]byte("x: .nan\n")); err == nil {
		t.Fatal("expected error for NaN")
	}
	if _, err := source.YAML().Decode([]byte("type: a\n---\ntype: b\n")); err == nil {
		t.Fatal("expected error for a second document")
	}
	if _, err := source.YAML().Decode([]byte("---\ntype: a\n")); err != nil {
		t.Fatalf("single document with a leading marker: %v", err)
	}
}

func TestParseBytes_YAMLUnion(t *testing.T) {
	ctx := context.Background()
	u := dsl.Union("type").
		Wrapped("list", dsl.ListOf(dsl.Int())).
		MustBuild()

	v, err := tagskema.ParseBytes[union.Value](ctx, u, source.YAML(), []byte("type: list\nlist: [1, 2, 3]\n"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := union.PayloadAs[[]int64](v, "list")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, got); diff != "" {
		t.Fatalf("mismatch:\n%s", diff)
	}

	_, err = tagskema.ParseBytes[union.Value](ctx, u, source.YAML(), []byte("type: [unterminated\n"))
	iss, ok := tagskema.AsIssues(err)
	if !ok || iss[0].Code != tagskema.CodeParseError || iss[0].Hint != "yaml.v3" {
		t.Fatalf("expected yaml parse_error, got %v", err)
	}
}

func TestJSON_Numbers(t *testing.T) {
	v, err := source.JSON().Decode([]byte(`[9007199254740993]`))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{json.Number("9007199254740993")}, v); diff != "" {
		t.Fatalf("mismatch:\n%s", diff)
	}
}
