package tagskema

import (
	"context"

	gojson "github.com/goccy/go-json"
)

// Decoder turns encoded bytes into a raw tree of map[string]any, []any,
// string, bool, nil and json.Number. The source package provides JSON and
// YAML implementations.
type Decoder interface {
	Decode(data []byte) (any, error)
	Name() string
}

// ParseBytes decodes data with dec and parses the resulting raw tree with s.
func ParseBytes[T any](ctx context.Context, s Schema[T], dec Decoder, data []byte, opts ...ParseOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, Issues{{Path: "/", Code: CodeParseError, Message: "nil schema"}}
	}
	if len(opts) > 0 {
		ctx = opts[len(opts)-1].apply(ctx)
	}
	raw, err := dec.Decode(data)
	if err != nil {
		return zero, Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err, Hint: dec.Name()}}
	}
	return s.Parse(ctx, raw)
}

// ParseJSON decodes JSON with goccy/go-json (numbers kept as json.Number)
// and parses the result with s.
func ParseJSON[T any](ctx context.Context, s Schema[T], data []byte, opts ...ParseOpt) (T, error) {
	if len(opts) > 0 && opts[len(opts)-1].RejectDuplicateKeys {
		// syntax errors are left to the decoder so they surface as parse_error
		if iss, err := DetectDuplicateKeys(data); err == nil && len(iss) > 0 {
			var zero T
			if opts[len(opts)-1].FailFast {
				iss = iss[:1]
			}
			return zero, iss
		}
	}
	return ParseBytes(ctx, s, jsonDecoder{}, data, opts...)
}

// SerializeJSON serializes v with s and encodes the raw tree as JSON.
func SerializeJSON[T any](ctx context.Context, s Schema[T], v T) ([]byte, error) {
	raw, err := s.Serialize(ctx, v)
	if err != nil {
		return nil, err
	}
	return gojson.Marshal(raw)
}

// jsonDecoder is the built-in JSON Decoder. source.JSON wraps the same logic
// for callers that pick decoders by value.
type jsonDecoder struct{}

func (jsonDecoder) Name() string { return "go-json" }

func (jsonDecoder) Decode(data []byte) (any, error) { return DecodeJSON(data) }
