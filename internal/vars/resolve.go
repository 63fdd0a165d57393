// Package vars implements httpcraft's variable resolution engine: layered
// scopes with a fixed precedence, `{{…}}`/`{{…?}}` template expansion,
// dynamic names, secret resolution with masking, a parameterized plugin
// function-call grammar, and a JSONPath subset over prior chain step
// bodies.
package vars

import (
	"fmt"
	"strings"
)

var scopedPrefixes = map[string]bool{
	"env": true, "profile": true, "api": true, "endpoint": true,
	"secret": true, "steps": true, "plugins": true,
}

// Resolve expands every `{{…}}` occurrence in template against ctx,
// concatenating resolved values with the literal text between them.
func Resolve(template string, ctx *Context) (string, error) {
	spans, err := extractPlaceholders(template)
	if err != nil {
		return "", resolutionErrorf(template, "%v", err)
	}
	if len(spans) == 0 {
		return template, nil
	}

	var out strings.Builder
	last := 0
	for _, span := range spans {
		out.WriteString(template[last:span.start])
		resolved, err := resolvePlaceholder(span.inner, ctx)
		if err != nil {
			return "", err
		}
		out.WriteString(resolved)
		last = span.end
	}
	out.WriteString(template[last:])
	return out.String(), nil
}

// ResolveValue walks a JSON-like value (as decoded from YAML/JSON: `any`,
// map[string]any, []any, scalars), resolving every string leaf. Non-string
// scalars pass through unchanged.
func ResolveValue(value any, ctx *Context) (any, error) {
	switch v := value.(type) {
	case string:
		return Resolve(v, ctx)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			resolved, err := ResolveValue(val, ctx)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			resolved, err := ResolveValue(val, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return value, nil
	}
}

// ResolveStringMap resolves a flat string map (headers, params), dropping
// any entry whose value is composed solely of a single `{{…?}}` optional
// placeholder that did not resolve.
func ResolveStringMap(m map[string]string, ctx *Context) (map[string]string, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		resolved, omit, err := resolveEntryWithOmission(v, ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		if omit {
			continue
		}
		out[k] = resolved
	}
	return out, nil
}

func resolveEntryWithOmission(value string, ctx *Context) (string, bool, error) {
	spans, err := extractPlaceholders(value)
	if err != nil {
		return "", false, resolutionErrorf(value, "%v", err)
	}
	if len(spans) == 1 && spans[0].start == 0 && spans[0].end == len(value) {
		inner := strings.TrimSpace(spans[0].inner)
		if strings.HasSuffix(inner, "?") {
			name := strings.TrimSpace(inner[:len(inner)-1])
			val, ok, err := resolveName(name, ctx)
			if err != nil {
				return "", false, err
			}
			if !ok {
				return "", true, nil
			}
			return val, false, nil
		}
	}
	resolved, err := Resolve(value, ctx)
	if err != nil {
		return "", false, err
	}
	return resolved, false, nil
}

func resolvePlaceholder(raw string, ctx *Context) (string, error) {
	inner := strings.TrimSpace(raw)
	optional := false
	if strings.HasSuffix(inner, "?") {
		optional = true
		inner = strings.TrimSpace(inner[:len(inner)-1])
	}
	val, ok, err := resolveName(inner, ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		if optional {
			return "", nil
		}
		return "", resolutionErrorf(inner, "undefined")
	}
	return val, nil
}

// resolveName dispatches one placeholder's name (optional-flag already
// stripped): dynamic functions first, then scoped prefixes, then the
// unscoped precedence chain.
func resolveName(name string, ctx *Context) (string, bool, error) {
	if strings.HasPrefix(name, "$") {
		return resolveDynamic(name)
	}
	if idx := strings.IndexByte(name, '.'); idx >= 0 && scopedPrefixes[name[:idx]] {
		return resolveScoped(name[:idx], name[idx+1:], ctx)
	}
	return resolveUnscoped(name, ctx)
}

func resolveUnscoped(name string, ctx *Context) (string, bool, error) {
	for _, scope := range []map[string]any{
		ctx.CLI, ctx.StepWith, ctx.Endpoint, ctx.API, ctx.ChainVars, ctx.Profile, ctx.Global,
	} {
		if scope == nil {
			continue
		}
		if v, ok, err := lookupScalar(scope, name); ok || err != nil {
			return v, ok, err
		}
	}
	return resolveScoped("env", name, ctx)
}

type placeholderSpan struct {
	start, end int // byte range of the full "{{…}}" span, end exclusive
	inner      string
}

// extractPlaceholders finds every top-level `{{…}}` span in s. Spans may
// nest — a parameterized function call's unquoted argument token is
// itself a `{{…}}` template — so extraction tracks brace depth rather than
// matching the first "}}".
func extractPlaceholders(s string) ([]placeholderSpan, error) {
	var spans []placeholderSpan
	for i := 0; i < len(s); {
		if i+1 < len(s) && s[i] == '{' && s[i+1] == '{' {
			start := i
			depth := 1
			j := i + 2
			for j+1 < len(s) && depth > 0 {
				switch {
				case s[j] == '{' && s[j+1] == '{':
					depth++
					j += 2
				case s[j] == '}' && s[j+1] == '}':
					depth--
					j += 2
				default:
					j++
				}
			}
			if depth != 0 {
				return nil, fmt.Errorf("unterminated placeholder starting at byte %d", start)
			}
			spans = append(spans, placeholderSpan{start: start, end: j, inner: s[start+2 : j-2]})
			i = j
			continue
		}
		i++
	}
	return spans, nil
}
