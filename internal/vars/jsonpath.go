package vars

import (
	"fmt"
	"strconv"
	"strings"
)

// evalJSONPath evaluates a small documented subset of JSONPath over a
// parsed JSON-like value (map[string]any / []any / scalars): dot-separated
// field names and bracketed integer indexes, e.g. `items[0].id`. Wildcards
// and filter expressions are rejected. Zero matches is an error; this
// subset never produces more than one candidate match, so there is never a
// "first match wins" tie to break.
func evalJSONPath(value any, path string) (any, error) {
	if path == "" {
		return value, nil
	}
	tokens, err := tokenizeJSONPath(path)
	if err != nil {
		return nil, err
	}
	cur := value
	for _, tok := range tokens {
		switch t := tok.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("jsonpath %q: %q is not an object", path, t)
			}
			v, ok := m[t]
			if !ok {
				return nil, fmt.Errorf("jsonpath %q: no match at %q", path, t)
			}
			cur = v
		case int:
			s, ok := cur.([]any)
			if !ok {
				return nil, fmt.Errorf("jsonpath %q: index %d on non-array", path, t)
			}
			if t < 0 || t >= len(s) {
				return nil, fmt.Errorf("jsonpath %q: index %d out of range", path, t)
			}
			cur = s[t]
		}
	}
	return cur, nil
}

func tokenizeJSONPath(path string) ([]any, error) {
	var tokens []any
	var field strings.Builder
	flush := func() {
		if field.Len() > 0 {
			tokens = append(tokens, field.String())
			field.Reset()
		}
	}

	for i := 0; i < len(path); {
		c := path[i]
		switch c {
		case '.':
			flush()
			i++
		case '[':
			flush()
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("jsonpath %q: unterminated '['", path)
			}
			idxStr := path[i+1 : i+end]
			if strings.Contains(idxStr, "*") {
				return nil, fmt.Errorf("jsonpath %q: wildcards are not supported", path)
			}
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, fmt.Errorf("jsonpath %q: non-integer index %q", path, idxStr)
			}
			tokens = append(tokens, idx)
			i += end + 1
		case '*':
			return nil, fmt.Errorf("jsonpath %q: wildcards are not supported", path)
		default:
			field.WriteByte(c)
			i++
		}
	}
	flush()
	return tokens, nil
}
