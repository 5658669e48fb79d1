package samples

import "github.com/reoring/tagskema/union"

// narrow extracts the payload of v as P and widens it to the sum type S.
func narrow[S any, P any](v union.Value) (S, error) {
	var zero S
	p, err := union.PayloadAs[P](v, v.Tag())
	if err != nil {
		return zero, err
	}
	s, ok := any(p).(S)
	if !ok {
		return zero, &union.MismatchError{Expected: v.Tag(), Actual: v.Tag(), ActualKind: "payload"}
	}
	return s, nil
}
