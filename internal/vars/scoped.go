package vars

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// resolveScoped dispatches a name with a recognized scope prefix already
// stripped off (prefix is one of env, profile, api, endpoint, secret,
// steps, plugins). rest is everything after the prefix's dot.
func resolveScoped(prefix, rest string, ctx *Context) (string, bool, error) {
	switch prefix {
	case "env":
		v, ok := os.LookupEnv(rest)
		return v, ok, nil
	case "profile":
		return lookupScalar(ctx.Profile, rest)
	case "api":
		return lookupScalar(ctx.API, rest)
	case "endpoint":
		return lookupScalar(ctx.Endpoint, rest)
	case "secret":
		return resolveSecret(rest, ctx)
	case "steps":
		return resolveStepPath(rest, ctx)
	case "plugins":
		return resolvePlugin(rest, ctx)
	}
	return "", false, resolutionErrorf(prefix+"."+rest, "unknown scope %q", prefix)
}

// resolveSecret iterates registered secret resolvers in registration
// order, falls back to the environment, and tracks the resolved value for
// masking. An unresolved secret always fails — it is never merely
// "undefined" the way other scopes are, so a `?` suffix on a secret.*
// reference does not suppress this error.
func resolveSecret(name string, ctx *Context) (string, bool, error) {
	if ctx.Plugins != nil {
		for _, resolver := range ctx.Plugins.SecretResolvers() {
			val, ok, err := resolver(name)
			if err != nil {
				return "", false, resolutionErrorf("secret."+name, "resolver error: %v", err)
			}
			if ok {
				if ctx.Masker != nil {
					ctx.Masker.Track(val)
				}
				return val, true, nil
			}
		}
	}
	if val, ok := os.LookupEnv(name); ok {
		if ctx.Masker != nil {
			ctx.Masker.Track(val)
		}
		return val, true, nil
	}
	return "", false, resolutionErrorf("secret."+name, "no resolver provided a value and no matching environment variable")
}

// resolveStepPath handles steps.<id>.request/response.* references.
func resolveStepPath(rest string, ctx *Context) (string, bool, error) {
	full := "steps." + rest
	stepID, remainder, ok := strings.Cut(rest, ".")
	if !ok {
		return "", false, resolutionErrorf(full, "malformed steps reference")
	}
	result, found := ctx.Steps[stepID]
	if !found {
		return "", false, resolutionErrorf(full, "unknown step %q", stepID)
	}
	side, field, ok := strings.Cut(remainder, ".")
	if !ok {
		// No trailing field: accept "steps.<id>.request"/"response" as
		// malformed rather than guessing a default field.
		return "", false, resolutionErrorf(full, "expected a field after request/response")
	}
	switch side {
	case "request":
		return resolveRequestField(full, result.Request, field)
	case "response":
		return resolveResponseField(full, result.Response, field)
	}
	return "", false, resolutionErrorf(full, "expected \"request\" or \"response\", got %q", side)
}

func resolveRequestField(full string, req StepRequest, field string) (string, bool, error) {
	switch {
	case field == "url":
		return req.URL, true, nil
	case field == "method":
		return req.Method, true, nil
	case strings.HasPrefix(field, "headers."):
		v, ok := lookupHeader(req.Headers, field[len("headers."):])
		return v, ok, nil
	case field == "body" || strings.HasPrefix(field, "body."):
		return resolveBodyField(full, req.Body, strings.TrimPrefix(field, "body"))
	}
	return "", false, resolutionErrorf(full, "unknown request field %q", field)
}

func resolveResponseField(full string, resp StepResponse, field string) (string, bool, error) {
	switch {
	case field == "status":
		return strconv.Itoa(resp.Status), true, nil
	case field == "statusText":
		return resp.StatusText, true, nil
	case strings.HasPrefix(field, "headers."):
		v, ok := lookupHeader(resp.Headers, field[len("headers."):])
		return v, ok, nil
	case field == "body" || strings.HasPrefix(field, "body."):
		return resolveBodyField(full, resp.Body, strings.TrimPrefix(field, "body"))
	}
	return "", false, resolutionErrorf(full, "unknown response field %q", field)
}

// resolveBodyField evaluates the JSONPath-subset suffix (everything after
// "body", including the leading dot if present) against a parsed body.
func resolveBodyField(full string, body any, jsonpathSuffix string) (string, bool, error) {
	jsonpath := strings.TrimPrefix(jsonpathSuffix, ".")
	val, err := evalJSONPath(body, jsonpath)
	if err != nil {
		return "", false, resolutionErrorf(full, "%v", err)
	}
	s, err := stringifyValue(val)
	if err != nil {
		return "", false, resolutionErrorf(full, "%v", err)
	}
	return s, true, nil
}

func lookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Stringify renders a resolved JSON-like value the same way a template
// placeholder would expand it. Exported for callers (e.g. the URL builder)
// that need to render a raw pathParams value outside of template
// resolution.
func Stringify(v any) (string, error) {
	return stringifyValue(v)
}

// stringifyValue renders a resolved JSON-like value as the string a
// template placeholder expands to: strings pass through verbatim, scalars
// use their natural textual form, and objects/arrays fall back to compact
// JSON.
func stringifyValue(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
