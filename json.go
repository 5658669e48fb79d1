package tagskema

import (
	"bytes"
	"errors"
	"io"

	gojson "github.com/goccy/go-json"
)

var errTrailingData = errors.New("unexpected data after top-level value")

// DecodeJSON decodes a single JSON document into a raw tree. Numbers are kept
// as json.Number (go-json aliases encoding/json's type) so integer precision
// survives until a schema decides how to read them.
func DecodeJSON(data []byte) (any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, errTrailingData
	}
	return v, nil
}
