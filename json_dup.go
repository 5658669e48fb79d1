package tagskema

import (
	"bytes"
	"errors"
	"io"

	gojson "github.com/goccy/go-json"
	"github.com/reoring/tagskema/i18n"
)

var errUnbalanced = errors.New("unbalanced delimiter")

type dupFrame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	key          string
	index        int
	path         PathRef
}

// child returns the pointer of the value currently being read in f.
func (f *dupFrame) child() PathRef {
	if f.object {
		return f.path.Field(f.key)
	}
	return f.path.Index(f.index)
}

// valueDone advances f past one member value.
func (f *dupFrame) valueDone() {
	if f.object {
		f.expectingKey = true
		return
	}
	f.index++
}

// DetectDuplicateKeys scans a JSON document and reports every object key
// that appears more than once in the same object. A decoded map keeps only
// the last occurrence, so a repeated discriminant would otherwise be
// resolved silently. The scan only tracks nesting, so syntax it cannot
// follow is returned as a plain error and full validation is left to the
// decoder.
func DetectDuplicateKeys(data []byte) (Issues, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var (
		iss   Issues
		stack []*dupFrame
	)
	top := func() *dupFrame {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				return iss, io.ErrUnexpectedEOF
			}
			return iss, nil
		}
		if err != nil {
			return iss, err
		}
		parent := top()
		if d, ok := tok.(gojson.Delim); ok {
			switch d {
			case '{', '[':
				path := Root()
				if parent != nil {
					path = parent.child()
				}
				f := &dupFrame{object: d == '{', path: path, expectingKey: d == '{'}
				if f.object {
					f.keys = map[string]struct{}{}
				}
				stack = append(stack, f)
			case '}', ']':
				if parent == nil || parent.object != (d == '}') {
					return iss, errUnbalanced
				}
				stack = stack[:len(stack)-1]
				if p := top(); p != nil {
					p.valueDone()
				}
			}
			continue
		}
		if parent == nil {
			continue
		}
		if s, ok := tok.(string); ok && parent.object && parent.expectingKey {
			parent.key = s
			parent.expectingKey = false
			if _, seen := parent.keys[s]; seen {
				iss = AppendIssues(iss, Issue{
					Path:    parent.child().Pointer(),
					Code:    CodeDuplicateKey,
					Message: i18n.T(CodeDuplicateKey, map[string]string{"key": s}),
					Params:  map[string]any{"key": s},
				})
				continue
			}
			parent.keys[s] = struct{}{}
			continue
		}
		parent.valueDone()
	}
}
