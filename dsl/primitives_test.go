package dsl_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	tagskema "github.com/reoring/tagskema"
	g "github.com/reoring/tagskema/dsl"
)

func firstIssue(t *testing.T, err error) tagskema.Issue {
	t.Helper()
	iss, ok := tagskema.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues error, got %v", err)
	}
	return iss[0]
}

func TestStringSchema_Basic(t *testing.T) {
	s := g.String()
	ctx := context.Background()

	v, err := s.Parse(ctx, "hello")
	if err != nil || v != "hello" {
		t.Fatalf("parse ok expected, got v=%v err=%v", v, err)
	}

	_, err = s.Parse(ctx, json.Number("1"))
	it := firstIssue(t, err)
	if it.Code != tagskema.CodeInvalidType || it.Expected != "string" || it.Actual != "number" {
		t.Fatalf("unexpected issue: %+v", it)
	}
	if !errors.Is(err, tagskema.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestBoolSchema_Basic(t *testing.T) {
	ctx := context.Background()
	v, err := g.Bool().Parse(ctx, true)
	if err != nil || !v {
		t.Fatalf("parse ok expected, got v=%v err=%v", v, err)
	}
	_, err = g.Bool().Parse(ctx, "true")
	if it := firstIssue(t, err); it.Actual != "string" {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestIntSchema_AcceptsIntegralNumbers(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		in   any
		want int64
	}{
		{json.Number("42"), 42},
		{json.Number("-7"), -7},
		{json.Number("1e3"), 1000},
		{float64(3), 3},
		{int(5), 5},
		{json.Number("9007199254740993"), 9007199254740993},
	}
	for _, c := range cases {
		got, err := g.Int().Parse(ctx, c.in)
		if err != nil {
			t.Fatalf("Parse(%v): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Parse(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestIntSchema_RejectsFractions(t *testing.T) {
	ctx := context.Background()
	for _, in := range []any{json.Number("1.5"), 2.25, "3"} {
		if _, err := g.Int().Parse(ctx, in); err == nil {
			t.Fatalf("expected error for %v", in)
		}
	}
	_, err := g.Int().Parse(ctx, json.Number("1.5"))
	if it := firstIssue(t, err); it.Expected != "integer" {
		t.Fatalf("unexpected issue: %+v", it)
	}
}

func TestFloat64Schema_Serialize_RejectsNaN(t *testing.T) {
	ctx := context.Background()
	f, err := g.Float64().Parse(ctx, json.Number("2.5"))
	if err != nil || f != 2.5 {
		t.Fatalf("parse: %v %v", f, err)
	}
	if _, err := g.Float64().Serialize(ctx, math.NaN()); !errors.Is(err, tagskema.ErrInvariant) {
		t.Fatalf("expected ErrInvariant, got %v", err)
	}
}

func TestNumberSchema_KeepsLiteral(t *testing.T) {
	ctx := context.Background()
	n, err := g.Number().Parse(ctx, json.Number("12345678901234567890.5"))
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Number().Serialize(ctx, n)
	if err != nil {
		t.Fatal(err)
	}
	if out != json.Number("12345678901234567890.5") {
		t.Fatalf("literal changed: %v", out)
	}
}

func TestNumberSchema_GoNumericKinds(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		in   any
		want json.Number
	}{
		{int(-3), "-3"},
		{int8(-8), "-8"},
		{int16(16), "16"},
		{int32(5), "5"},
		{int64(-64), "-64"},
		{uint(7), "7"},
		{uint8(8), "8"},
		{uint16(16), "16"},
		{uint32(32), "32"},
		{uint64(math.MaxUint64), "18446744073709551615"},
		{float32(1.5), "1.5"},
		{float64(2.25), "2.25"},
	}
	for _, c := range cases {
		if tagskema.KindOf(c.in) != tagskema.KindNumber {
			t.Fatalf("%T should be a number kind", c.in)
		}
		got, err := g.Number().Parse(ctx, c.in)
		if err != nil {
			t.Fatalf("%T: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("%T: got %q, want %q", c.in, got, c.want)
		}
	}
	if _, err := g.Number().Parse(ctx, "5"); firstIssue(t, err).Code != tagskema.CodeInvalidType {
		t.Fatalf("string must be rejected, got %v", err)
	}
}

type color string

func TestEnumSchema(t *testing.T) {
	ctx := context.Background()
	s := g.Enum[color]("red", "green")

	v, err := s.Parse(ctx, "green")
	if err != nil || v != "green" {
		t.Fatalf("parse: %v %v", v, err)
	}
	_, err = s.Parse(ctx, "blue")
	if it := firstIssue(t, err); it.Code != tagskema.CodeInvalidEnum {
		t.Fatalf("unexpected issue: %+v", it)
	}
	if _, err := s.Serialize(ctx, "blue"); !errors.Is(err, tagskema.ErrInvariant) {
		t.Fatalf("expected ErrInvariant, got %v", err)
	}
	js, err := s.JSONSchema()
	if err != nil || len(js.Enum) != 2 {
		t.Fatalf("json schema: %+v %v", js, err)
	}
}

func TestAnySchema_DeepCopies(t *testing.T) {
	ctx := context.Background()
	in := map[string]any{"a": []any{map[string]any{"b": true}}}
	out, err := g.Any().Parse(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	in["a"].([]any)[0].(map[string]any)["b"] = false
	got := out.(map[string]any)["a"].([]any)[0].(map[string]any)["b"]
	if got != true {
		t.Fatalf("parse result aliases input: %v", got)
	}
}

func TestEmptySchema(t *testing.T) {
	ctx := context.Background()
	if _, err := g.Empty().Parse(ctx, map[string]any{}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Empty().Parse(ctx, []any{}); err == nil {
		t.Fatal("expected error for array")
	}
	out, err := g.Empty().Serialize(ctx, struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	if o, ok := out.(*tagskema.Object); !ok || o.Len() != 0 {
		t.Fatalf("expected empty object, got %#v", out)
	}
}
