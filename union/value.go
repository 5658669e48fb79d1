// Package union holds the in-memory discriminated union value produced by
// dsl.Union and the helpers that narrow it safely.
package union

import (
	"context"
	"errors"
	"fmt"
	"sort"

	tagskema "github.com/reoring/tagskema"
)

// UnknownTag is the tag of the synthetic variant that carries objects whose
// discriminant is not declared by the union.
const UnknownTag = "_unknown"

var (
	// ErrVariantMismatch is matched by *MismatchError.
	ErrVariantMismatch = errors.New("union: variant mismatch")
	// ErrNoCase is returned by Match when no case handles the tag.
	ErrNoCase = errors.New("union: no case for tag")
)

// UnknownHook observes unknown-variant fallbacks. discriminant is the value
// found on the wire; raw is the preserved object and must not be modified.
type UnknownHook func(ctx context.Context, discriminant string, raw map[string]any)

// Value is a tagged union instance: a tag plus the payload produced by the
// variant schema for that tag. Values are immutable; the zero Value has an
// empty tag and matches no variant.
type Value struct {
	tag     string
	wireTag string
	payload any
	shared  map[string]any
}

// New returns a Value for a declared variant. Use Unknown for the fallback
// variant.
func New(tag string, payload any) Value {
	return Value{tag: tag, wireTag: tag, payload: payload}
}

// Unknown returns the fallback variant for an object whose discriminant
// value is not declared. raw is kept verbatim, discriminant included.
func Unknown(discriminant string, raw map[string]any) Value {
	return Value{tag: UnknownTag, wireTag: discriminant, payload: raw}
}

// WithShared returns a copy of v carrying the union's always-present fields.
func (v Value) WithShared(shared map[string]any) Value {
	v.shared = shared
	return v
}

// Tag returns the variant tag; UnknownTag for the fallback variant.
func (v Value) Tag() string { return v.tag }

// WireTag returns the discriminant as it appeared on the wire. It differs
// from Tag only for unknown variants.
func (v Value) WireTag() string { return v.wireTag }

// Payload returns the variant payload. Prefer As or PayloadAs when the
// caller expects a specific variant.
func (v Value) Payload() any { return v.payload }

// Shared returns the union-level fields parsed alongside every variant.
func (v Value) Shared() map[string]any { return v.shared }

// IsUnknown reports whether v is the fallback variant.
func (v Value) IsUnknown() bool { return v.tag == UnknownTag }

// Is reports whether v carries tag.
func (v Value) Is(tag string) bool { return v.tag == tag }

// As returns the payload when v carries tag and a *MismatchError otherwise.
func (v Value) As(tag string) (any, error) {
	if v.tag != tag {
		return nil, mismatch(tag, v.tag, v.payload)
	}
	return v.payload, nil
}

// Raw returns the preserved wire object of an unknown variant.
func (v Value) Raw() (map[string]any, bool) {
	if !v.IsUnknown() {
		return nil, false
	}
	m, ok := v.payload.(map[string]any)
	return m, ok
}

// String renders the tag and payload for debugging.
func (v Value) String() string {
	if v.IsUnknown() {
		return fmt.Sprintf("%s(%s)%v", v.tag, v.wireTag, v.payload)
	}
	return fmt.Sprintf("%s%v", v.tag, v.payload)
}

// PayloadAs narrows v to tag and asserts the payload type. Both a tag and a
// payload type mismatch yield a *MismatchError.
func PayloadAs[P any](v Value, tag string) (P, error) {
	var zero P
	p, err := v.As(tag)
	if err != nil {
		return zero, err
	}
	if p == nil {
		// no-payload variants and null payloads
		return zero, nil
	}
	tp, ok := p.(P)
	if !ok {
		return zero, &MismatchError{Expected: tag, Actual: v.tag, ActualKind: kindName(p), PayloadType: fmt.Sprintf("%T", zero)}
	}
	return tp, nil
}

// MismatchError reports a narrowing attempt against the wrong variant.
type MismatchError struct {
	Expected   string // tag requested by the caller
	Actual     string // tag carried by the value
	ActualKind string // kind of the payload actually carried
	// PayloadType is set when the tag matched but the payload had a
	// different Go type than requested.
	PayloadType string
}

func (e *MismatchError) Error() string {
	if e.PayloadType != "" {
		return fmt.Sprintf("expected %s payload of type %s; got %s", e.Expected, e.PayloadType, e.ActualKind)
	}
	return fmt.Sprintf("expected %s; got %s with payload of kind %s", e.Expected, e.Actual, e.ActualKind)
}

func (e *MismatchError) Is(target error) bool { return target == ErrVariantMismatch }

func mismatch(expected, actual string, payload any) *MismatchError {
	return &MismatchError{Expected: expected, Actual: actual, ActualKind: kindName(payload)}
}

func kindName(p any) string {
	if k := tagskema.KindOf(p); k != tagskema.KindInvalid {
		return k.String()
	}
	return fmt.Sprintf("%T", p)
}

// Variant is implemented by the members of a closed Go sum type built on top
// of a union. Tag must return a constant and must not depend on the
// receiver's fields, since Narrow calls it on a zero value.
type Variant interface {
	Tag() string
}

// Narrow asserts x to the variant type V, reporting both tags on failure.
func Narrow[V Variant](x Variant) (V, error) {
	if v, ok := x.(V); ok {
		return v, nil
	}
	var zero V
	actual := "<nil>"
	if x != nil {
		actual = x.Tag()
	}
	return zero, &MismatchError{Expected: zero.Tag(), Actual: actual, ActualKind: fmt.Sprintf("%T", x)}
}

// Cases maps tags to handlers for Match. The UnknownTag entry handles the
// fallback variant and receives the raw object.
type Cases[R any] map[string]func(payload any) (R, error)

// Match dispatches v to the handler registered for its tag.
func Match[R any](v Value, cases Cases[R]) (R, error) {
	fn, ok := cases[v.tag]
	if !ok {
		var zero R
		return zero, fmt.Errorf("%w: %q", ErrNoCase, v.tag)
	}
	return fn(v.payload)
}

// Exhaustive checks that cases covers every tag plus UnknownTag. Call it
// once at startup next to the schema declaration.
func Exhaustive[R any](cases Cases[R], tags []string) error {
	var missing []string
	for _, t := range append(append([]string{}, tags...), UnknownTag) {
		if _, ok := cases[t]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %v", ErrNoCase, missing)
}
