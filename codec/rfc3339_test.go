package codec

import (
	"context"
	"errors"
	"testing"
	"time"

	tagskema "github.com/reoring/tagskema"
)

func TestTimeRFC3339_Codec_Basic(t *testing.T) {
	c := TimeRFC3339()
	ctx := context.Background()

	in := "2025-01-01T00:00:00Z"
	got, err := c.Decode(ctx, in)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got)
	}

	out, err := c.Encode(ctx, got)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if out != in {
		t.Fatalf("roundtrip mismatch: %s != %s", out, in)
	}
}

func TestTimeRFC3339_Encode_NormalizesToUTC(t *testing.T) {
	c := TimeRFC3339()
	jst := time.FixedZone("JST", 9*60*60)
	out, err := c.Encode(context.Background(), time.Date(2025, 1, 1, 9, 0, 0, 0, jst))
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if out != "2025-01-01T00:00:00Z" {
		t.Fatalf("expected UTC output, got %s", out)
	}
}

func TestTimeRFC3339_Decode_InvalidFormat(t *testing.T) {
	_, err := TimeRFC3339().Decode(context.Background(), "yesterday")
	iss, ok := tagskema.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != tagskema.CodeInvalidFormat {
		t.Fatalf("expected invalid_format, got %v", err)
	}
	var pe *time.ParseError
	if !errors.As(iss[0].Cause, &pe) {
		t.Fatalf("expected time.ParseError cause, got %T", iss[0].Cause)
	}
}
