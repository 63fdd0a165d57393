package main

import (
	"fmt"
	"strconv"
	"strings"
)

// repeatableString collects every occurrence of a flag.Value-backed flag,
// in order of appearance, for --var and --profile.
type repeatableString struct {
	values []string
}

func (r *repeatableString) String() string { return strings.Join(r.values, ",") }

func (r *repeatableString) Set(v string) error {
	r.values = append(r.values, v)
	return nil
}

// parseCLIVars turns repeated "k=v" tokens into a variable scope. Values are
// kept as strings; the resolver only ever needs scalars from CLI input.
func parseCLIVars(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		idx := strings.IndexByte(pair, '=')
		if idx < 0 {
			return nil, fmt.Errorf("--var %q: expected key=value", pair)
		}
		out[pair[:idx]] = pair[idx+1:]
	}
	return out, nil
}

// httpErrorMatcher reports whether a status code matches any of a
// comma-separated list of patterns: "4xx", "5xx", or an exact code.
type httpErrorMatcher struct {
	classes []int // 4 or 5, for "4xx"/"5xx"
	exact   map[int]bool
}

func parseExitOnHTTPError(raw string) (*httpErrorMatcher, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	m := &httpErrorMatcher{exact: map[int]bool{}}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		lower := strings.ToLower(tok)
		if lower == "4xx" {
			m.classes = append(m.classes, 4)
			continue
		}
		if lower == "5xx" {
			m.classes = append(m.classes, 5)
			continue
		}
		code, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("--exit-on-http-error %q: not 4xx, 5xx, or a status code", tok)
		}
		m.exact[code] = true
	}
	return m, nil
}

// Matches reports whether status satisfies any configured pattern. A nil
// matcher (flag omitted) never matches.
func (m *httpErrorMatcher) Matches(status int) bool {
	if m == nil {
		return false
	}
	if m.exact[status] {
		return true
	}
	class := status / 100
	for _, c := range m.classes {
		if c == class {
			return true
		}
	}
	return false
}
