package tagskema

import (
	"bytes"
	"reflect"
	"sort"

	gojson "github.com/goccy/go-json"
)

// Object is an insertion-ordered JSON object. Serializers emit *Object so
// that field order is deterministic: discriminant first, then fields in
// declaration order. Parsers accept *Object anywhere a map[string]any is
// accepted.
type Object struct {
	keys []string
	vals map[string]any
}

// NewObject returns an empty Object with room for n keys.
func NewObject(n int) *Object {
	return &Object{keys: make([]string, 0, n), vals: make(map[string]any, n)}
}

// ObjectFromMap copies m into an Object with keys in ascending order.
func ObjectFromMap(m map[string]any) *Object {
	o := NewObject(len(m))
	for _, k := range sortedKeys(m) {
		o.Set(k, m[k])
	}
	return o
}

// Set stores v under k. A new key is appended; an existing key keeps its
// position.
func (o *Object) Set(k string, v any) {
	if o.vals == nil {
		o.vals = map[string]any{}
	}
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

// Get returns the value stored under k.
func (o *Object) Get(k string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.vals[k]
	return v, ok
}

// Delete removes k.
func (o *Object) Delete(k string) {
	if _, ok := o.vals[k]; !ok {
		return
	}
	delete(o.vals, k)
	for i, kk := range o.keys {
		if kk == k {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in order. The slice must not be modified.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Map returns a deep copy with nested Objects converted to map[string]any.
func (o *Object) Map() map[string]any {
	if o == nil {
		return nil
	}
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = Plain(o.vals[k])
	}
	return out
}

// Equal compares key sets and values, ignoring order. Nested values compare
// by their plain form so an Object equals the map it was built from.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	return reflect.DeepEqual(o.Map(), other.Map())
}

// MarshalJSON writes keys in insertion order. A nil Object encodes as null.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := gojson.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := gojson.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AsMap views raw as a string-keyed object; the bool reports whether raw is
// an object at all. For *Object only the top level is converted, nested
// values are shared with the receiver.
func AsMap(raw any) (map[string]any, bool) {
	switch t := raw.(type) {
	case map[string]any:
		return t, true
	case *Object:
		if t == nil {
			return nil, false
		}
		out := make(map[string]any, len(t.keys))
		for _, k := range t.keys {
			out[k] = t.vals[k]
		}
		return out, true
	default:
		return nil, false
	}
}

// Plain converts a raw tree into plain Go values, replacing *Object with
// map[string]any at every level.
func Plain(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Map()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Plain(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Plain(t[i])
		}
		return out
	default:
		return v
	}
}

func sortedKeys(m map[string]any) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys(m map[string]any) []string { return sortedKeys(m) }
