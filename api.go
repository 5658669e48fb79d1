package tagskema

import (
	"context"

	"github.com/reoring/tagskema/i18n"
	js "github.com/reoring/tagskema/jsonschema"
)

// Schema describes how one wire shape maps to a domain type T and back.
// Implementations are immutable after construction and safe for concurrent
// use; neither direction performs I/O.
type Schema[T any] interface {
	// Parse validates raw (a JSON-like tree) and converts it into T. Failures
	// are reported as Issues naming the failing JSON Pointer.
	Parse(ctx context.Context, raw any) (T, error)

	// Serialize projects a domain value back into a raw tree. Objects are
	// emitted as *Object so key order is deterministic. It only fails when v
	// could not have been produced by Parse; such errors wrap ErrInvariant.
	Serialize(ctx context.Context, v T) (any, error)

	// JSONSchema projects the schema into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// SafeParse parses v into T, returning (zero, false) on validation error.
func SafeParse[T any](ctx context.Context, s Schema[T], v any) (T, bool) {
	val, err := s.Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, false
	}
	return val, true
}

// Validate runs Parse and discards the value.
func Validate[T any](ctx context.Context, s Schema[T], v any) error {
	_, err := s.Parse(ctx, v)
	return err
}

// Is returns true if v conforms to the schema s.
func Is[T any](ctx context.Context, s Schema[T], v any) bool {
	return Validate(ctx, s, v) == nil
}

// MustSerialize is like Schema.Serialize but panics on error. Serialize only
// fails on invariant violations, which are programming errors.
func MustSerialize[T any](ctx context.Context, s Schema[T], v T) any {
	out, err := s.Serialize(ctx, v)
	if err != nil {
		panic(err)
	}
	return out
}

// ---- Parse-time context options ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
	_ctxKeyMaxDepth
	_ctxKeyDepth
)

// WithFailFast returns a child context that marks fail-fast parsing behavior.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current parse should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}

// WithMaxDepth sets the container nesting limit for parses run under ctx.
// A negative limit disables the guard.
func WithMaxDepth(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, _ctxKeyMaxDepth, n)
}

func maxDepth(ctx context.Context) int {
	if n, ok := ctx.Value(_ctxKeyMaxDepth).(int); ok && n != 0 {
		return n
	}
	return DefaultMaxDepth
}

// Depth reports the current container nesting depth.
func Depth(ctx context.Context) int {
	d, _ := ctx.Value(_ctxKeyDepth).(int)
	return d
}

// Descend is called by container schemas before parsing their children. It
// returns the child context, or a depth_exceeded issue once the configured
// limit is passed.
func Descend(ctx context.Context) (context.Context, error) {
	d := Depth(ctx) + 1
	if lim := maxDepth(ctx); lim > 0 && d > lim {
		return ctx, Issues{{
			Path:    "/",
			Code:    CodeDepthExceeded,
			Message: i18n.T(CodeDepthExceeded, nil),
			Params:  map[string]any{"max": lim},
		}}
	}
	return context.WithValue(ctx, _ctxKeyDepth, d), nil
}
