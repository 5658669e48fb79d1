package tagskema

import "github.com/reoring/tagskema/i18n"

// IssueAt creates an Issue at the given path with provided code, message and params map.
// This is a convenience helper to improve readability at call sites with many parameters.
func IssueAt(p PathRef, code, msg string, params map[string]any) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: msg, Params: params}
}

// TypeMismatch reports that the raw value at the root has the wrong kind.
func TypeMismatch(expected Kind, raw any) Issues {
	actual := KindOf(raw).String()
	return Issues{{
		Path:     "/",
		Code:     CodeInvalidType,
		Message:  i18n.T(CodeInvalidType, map[string]string{"expected": expected.String(), "actual": actual}),
		Expected: expected.String(),
		Actual:   actual,
	}}
}

// Required reports a missing required key.
func Required(key string) Issue {
	return Issue{
		Path:    FieldPath(key),
		Code:    CodeRequired,
		Message: i18n.T(CodeRequired, map[string]string{"key": key}),
	}
}
