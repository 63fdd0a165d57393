package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/httpcraft/httpcraft/internal/herr"
	"github.com/httpcraft/httpcraft/internal/plugin"
)

// Client sends one resolved request and decodes its response. It does not
// raise on HTTP error status — that classification is the caller's job
// (chain executor / cmd layer, via --exit-on-http-error patterns).
type Client struct {
	http *http.Client
}

// New returns a Client with a conservative default timeout. Per-request
// deadlines should come from the context passed to Execute.
func New() *Client {
	return &Client{http: &http.Client{Timeout: 60 * time.Second}}
}

// Execute sends req, running every hook registered on manager (nil means
// no plugins are active for this API) before send and after receive.
func (c *Client) Execute(ctx context.Context, req *Request, manager *plugin.Manager) (*Response, error) {
	httpReq, err := buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, herr.NewTransportError(req.URL, "", err)
	}
	if manager != nil {
		if err := plugin.RunPreRequestHooks(manager, httpReq); err != nil {
			return nil, herr.NewPluginError("pre-request-hook", err)
		}
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(req.URL, err)
	}
	defer httpResp.Body.Close()

	if manager != nil {
		if err := plugin.RunPostResponseHooks(manager, httpReq, httpResp); err != nil {
			return nil, herr.NewPluginError("post-response-hook", err)
		}
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, herr.NewTransportError(req.URL, "", err)
	}

	headers := make(map[string]string, len(httpResp.Header))
	for k := range httpResp.Header {
		headers[k] = httpResp.Header.Get(k)
	}
	contentType := httpResp.Header.Get("Content-Type")
	body, isBinary := decideBody(contentType, httpResp.Header.Get("Content-Disposition"), raw)

	resp := &Response{
		Status:        httpResp.StatusCode,
		StatusText:    http.StatusText(httpResp.StatusCode),
		Headers:       headers,
		ContentType:   contentType,
		ContentLength: httpResp.ContentLength,
	}
	if isBinary {
		resp.IsBinary = true
		resp.RawBody = raw
	} else {
		resp.Body = body
	}
	return resp, nil
}

func buildHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var bodyReader io.Reader
	needsJSONContentType := false
	if req.Body != nil {
		switch b := req.Body.(type) {
		case string:
			bodyReader = bytes.NewReader([]byte(b))
		case []byte:
			bodyReader = bytes.NewReader(b)
		default:
			encoded, err := json.Marshal(b)
			if err != nil {
				return nil, err
			}
			bodyReader = bytes.NewReader(encoded)
			needsJSONContentType = true
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if needsJSONContentType && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, nil
}

func classifyTransportError(rawURL string, err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return herr.NewTransportError(rawURL, "dns", err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return herr.NewTransportError(rawURL, "connection_refused", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return herr.NewTransportError(rawURL, "timeout", err)
	}
	return herr.NewTransportError(rawURL, "", err)
}
