// Package codec provides bidirectional transforms between a schema's parsed
// shape and a richer domain shape. Use them with dsl.Transform.
package codec

import "context"

// Codec performs bidirectional transformation between the parsed
// representation A and the domain representation B.
type Codec[A, B any] interface {
	// Decode lifts a parsed value into the domain shape.
	Decode(ctx context.Context, a A) (B, error)
	// Encode lowers a domain value into exactly the shape the underlying
	// schema serializes. It must not re-add fields the schema derives on its
	// own, such as a union discriminant.
	Encode(ctx context.Context, b B) (A, error)
}

// Func returns a Codec from a pair of total functions.
func Func[A, B any](transform func(A) B, untransform func(B) A) Codec[A, B] {
	return funcCodec[A, B]{
		decode: func(_ context.Context, a A) (B, error) { return transform(a), nil },
		encode: func(_ context.Context, b B) (A, error) { return untransform(b), nil },
	}
}

// FuncE returns a Codec from a pair of fallible functions.
func FuncE[A, B any](decode func(context.Context, A) (B, error), encode func(context.Context, B) (A, error)) Codec[A, B] {
	return funcCodec[A, B]{decode: decode, encode: encode}
}

type funcCodec[A, B any] struct {
	decode func(context.Context, A) (B, error)
	encode func(context.Context, B) (A, error)
}

func (c funcCodec[A, B]) Decode(ctx context.Context, a A) (B, error) { return c.decode(ctx, a) }
func (c funcCodec[A, B]) Encode(ctx context.Context, b B) (A, error) { return c.encode(ctx, b) }
