package core

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
)

// SnakeKeys recursively rewrites every map key in a JSON-like value from
// camelCase to snake_case. Array order and leaf values are untouched.
// UUID-shaped keys are returned unchanged: results maps keyed by id would
// otherwise be corrupted, since the hyphens read as case boundaries.
func SnakeKeys(v any) any {
	return convertKeys(v, strcase.ToSnake)
}

// CamelKeys is the inverse of SnakeKeys: snake_case to camelCase, with the
// same UUID-key invariant.
func CamelKeys(v any) any {
	return convertKeys(v, strcase.ToLowerCamel)
}

func convertKeys(v any, convert func(string) string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			key := k
			if !isUUIDKey(k) {
				key = convert(k)
			}
			out[key] = convertKeys(elem, convert)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = convertKeys(elem, convert)
		}
		return out
	default:
		return v
	}
}

// isUUIDKey reports whether k is a canonical 8-4-4-4-12 UUID.
// The length check excludes the urn: and braced forms uuid.Parse accepts.
func isUUIDKey(k string) bool {
	if len(k) != 36 {
		return false
	}
	_, err := uuid.Parse(k)
	return err == nil
}

// encodeBody serializes an outgoing request body with snake_case keys.
// This and decodeBody are the only two places case conversion touches the
// wire; resource methods must not convert keys themselves.
func encodeBody(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return json.Marshal(SnakeKeys(decoded))
}

// decodeBody deserializes an incoming JSON body and camel-cases its keys.
func decodeBody(raw []byte) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return CamelKeys(v), nil
}

// Decode re-marshals a camel-keyed payload returned by the transport into a
// typed struct. Resource services use it to produce their result types.
func Decode(v any, out any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
