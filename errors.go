package tagskema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType              = "invalid_type"
	CodeRequired                 = "required"
	CodeUnknownKey               = "unknown_key"
	CodeInvalidEnum              = "invalid_enum"
	CodeInvalidFormat            = "invalid_format"
	CodeDiscriminatorMissing     = "discriminator_missing"
	CodeDiscriminatorInvalidType = "discriminator_invalid_type"
	CodeDepthExceeded            = "depth_exceeded"
	CodeParseError               = "parse_error"
	CodeDuplicateKey             = "duplicate_key"
)

// Sentinel errors matched by errors.Is against Issues. An Issues value matches
// a sentinel when any of its entries carries the corresponding code.
var (
	ErrMissingRequiredField    = errors.New("tagskema: missing required field")
	ErrTypeMismatch            = errors.New("tagskema: type mismatch")
	ErrMissingDiscriminant     = errors.New("tagskema: missing discriminant")
	ErrInvalidDiscriminantType = errors.New("tagskema: discriminant is not a string")
	ErrDepthExceeded           = errors.New("tagskema: max depth exceeded")

	// ErrInvariant marks a serialize failure caused by a value that could not
	// have been produced by the schema (for example a tag/payload mismatch).
	ErrInvariant = errors.New("tagskema: invariant violation")
)

var sentinelByCode = map[string]error{
	CodeRequired:                 ErrMissingRequiredField,
	CodeInvalidType:              ErrTypeMismatch,
	CodeDiscriminatorMissing:     ErrMissingDiscriminant,
	CodeDiscriminatorInvalidType: ErrInvalidDiscriminantType,
	CodeDepthExceeded:            ErrDepthExceeded,
}

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, variant names, etc.
	Cause   error  // Optional: underlying error.
	// Expected and Actual describe kind mismatches ("object", "string", ...).
	// Actual is the kind observed in the raw input.
	Expected string
	Actual   string
	// Params carries structured parameters for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path (expected string, got number)
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Expected != "" || it.Actual != "" {
			fmt.Fprintf(b, " (expected %s, got %s)", it.Expected, it.Actual)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any issue maps to target.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		if s, ok := sentinelByCode[it.Code]; ok && s == target {
			return true
		}
	}
	return false
}

// HasCode reports whether any issue carries code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ToIssues converts any error into Issues, wrapping foreign errors as a
// parse_error at path.
func ToIssues(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Path: path, Code: CodeParseError, Message: err.Error(), Cause: err}}
}

// Rebase prefixes every issue path with base. Child schemas report paths
// relative to their own root; containers call Rebase when nesting them.
func Rebase(base string, iss Issues) Issues {
	if base == "" || base == "/" {
		return iss
	}
	out := make(Issues, 0, len(iss))
	for _, it := range iss {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}

// Invariantf builds an error wrapping ErrInvariant. Serializers use it when
// handed a value the schema could never have produced.
func Invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}
