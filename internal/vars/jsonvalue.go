package vars

import "encoding/json"

// TryParseJSON attempts to decode s as JSON, returning the decoded value
// (map[string]any, []any, string, float64, bool, or nil) and true on
// success. Used to give steps.<id>.response.body a structure the JSONPath
// evaluator can walk when the response was JSON text.
func TryParseJSON(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}
