// Package httpclient sends one resolved request and reports its response
// in the shape the rest of httpcraft needs: a decoded-or-binary body, the
// binary/text decision already made, and hooks from the active plugin
// manager already applied.
package httpclient

// Request is one fully-resolved outgoing request: every `{{…}}` in URL,
// headers, params, and body has already been expanded by internal/vars.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    any
}

// Response is what Execute returns: status line, headers, and a body that
// is either decoded text or a raw byte payload, never both.
type Response struct {
	Status        int
	StatusText    string
	Headers       map[string]string
	Body          string
	RawBody       []byte
	IsBinary      bool
	ContentType   string
	ContentLength int64
}
