package tagskema

import (
	"context"
	"encoding/json"
)

// UnknownPolicy controls how unknown keys are handled by object schemas.
type UnknownPolicy int

const (
	UnknownStrip       UnknownPolicy = iota // Drop unknown keys.
	UnknownStrict                           // Reject unknown keys with an error.
	UnknownPassthrough                      // Preserve unknown keys under a target field.
)

// Kind names the JSON shape of a raw value.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// KindOf reports the JSON kind of a raw value. Go values that have no JSON
// counterpart report KindInvalid.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case json.Number, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case []any:
		return KindArray
	case map[string]any, *Object:
		return KindObject
	default:
		return KindInvalid
	}
}

// DefaultMaxDepth bounds container nesting when no explicit limit is set.
const DefaultMaxDepth = 256

// ParseOpt bundles parsing options for the byte-level entry points.
type ParseOpt struct {
	// MaxDepth bounds container nesting. Zero means DefaultMaxDepth; a
	// negative value disables the guard.
	MaxDepth int
	// FailFast stops at the first issue instead of collecting all of them.
	FailFast bool
	// RejectDuplicateKeys makes ParseJSON report repeated object keys as
	// duplicate_key issues before decoding.
	RejectDuplicateKeys bool
}

func (o ParseOpt) apply(ctx context.Context) context.Context {
	if o.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	if o.MaxDepth != 0 {
		ctx = WithMaxDepth(ctx, o.MaxDepth)
	}
	return ctx
}
