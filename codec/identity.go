package codec

import "context"

// Identity returns a Codec[T,T] that passes values through unchanged.
func Identity[T any]() Codec[T, T] { return identityCodec[T]{} }

type identityCodec[T any] struct{}

func (identityCodec[T]) Decode(_ context.Context, a T) (T, error) { return a, nil }
func (identityCodec[T]) Encode(_ context.Context, b T) (T, error) { return b, nil }
