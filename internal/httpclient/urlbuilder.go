package httpclient

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/httpcraft/httpcraft/internal/vars"
)

// BuildURL joins a base URL and an endpoint path exactly once: scheme and
// authority always come from baseURL.
func BuildURL(baseURL, path string) string {
	base := strings.TrimSuffix(baseURL, "/")
	p := "/" + strings.TrimPrefix(path, "/")
	return base + p
}

// MergeHeaders shallow-merges headers with endpoint values overriding API
// values.
func MergeHeaders(apiHeaders, endpointHeaders map[string]string) map[string]string {
	return mergeStringMaps(apiHeaders, endpointHeaders)
}

// MergeParams shallow-merges query params with endpoint values overriding
// API values.
func MergeParams(apiParams, endpointParams map[string]string) map[string]string {
	return mergeStringMaps(apiParams, endpointParams)
}

func mergeStringMaps(base, overlay map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// ApplyQuery appends params to rawURL, form-encoded.
func ApplyQuery(rawURL string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ApplyPathParamOverrides performs a targeted second pass: each
// step.with.pathParams value is spliced into the already-built URL via a
// regex-escaped, global literal replacement of `{{name}}` / `{{name?}}`,
// independent of the generic resolver pass, so a step override always wins
// even over a placeholder the generic resolver could not see (e.g. one
// embedded in the API's baseUrl).
func ApplyPathParamOverrides(rawURL string, pathParams map[string]any) (string, error) {
	for name, val := range pathParams {
		s, err := vars.Stringify(val)
		if err != nil {
			return "", err
		}
		pattern := regexp.MustCompile(`\{\{\s*` + regexp.QuoteMeta(name) + `\s*\??\s*\}\}`)
		rawURL = pattern.ReplaceAllString(rawURL, s)
	}
	return rawURL, nil
}
