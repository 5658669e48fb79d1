// Package source provides Decoders that turn encoded documents into raw
// trees consumable by tagskema schemas.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	tagskema "github.com/reoring/tagskema"
)

// JSON returns a Decoder backed by goccy/go-json. Numbers are decoded as
// json.Number.
func JSON() tagskema.Decoder { return jsonDecoder{} }

// YAML returns a Decoder backed by gopkg.in/yaml.v3. Mappings are converted
// to map[string]any and numbers to json.Number so YAML and JSON inputs
// produce identical raw trees.
func YAML() tagskema.Decoder { return yamlDecoder{} }

type jsonDecoder struct{}

func (jsonDecoder) Name() string                    { return "go-json" }
func (jsonDecoder) Decode(data []byte) (any, error) { return tagskema.DecodeJSON(data) }

type yamlDecoder struct{}

func (yamlDecoder) Name() string { return "yaml.v3" }

func (yamlDecoder) Decode(data []byte) (any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var node any
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("yaml: empty document")
		}
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, errors.New("yaml: unexpected document after the first")
	}
	return normalizeYAML(node)
}

func normalizeYAML(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			nv, err := normalizeYAML(vv)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("yaml: non-string mapping key %v", k)
			}
			nv, err := normalizeYAML(vv)
			if err != nil {
				return nil, err
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			nv, err := normalizeYAML(t[i])
			if err != nil {
				return nil, err
			}
			arr[i] = nv
		}
		return arr, nil
	case int:
		return json.Number(strconv.Itoa(t)), nil
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("yaml: %v is not representable in JSON", t)
		}
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	default:
		return v, nil
	}
}
