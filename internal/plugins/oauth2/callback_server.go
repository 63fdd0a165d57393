package oauth2

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/httpcraft/httpcraft/internal/log"
)

const (
	callbackPortRangeWidth = 100
	callbackHardTimeout    = 5 * time.Minute
)

type callbackResult struct {
	code  string
	state string
	err   error
}

// callbackServer is a short-lived local HTTP server that receives exactly
// one OAuth2 redirect and then shuts itself down via listen-serve-then-
// Shutdown(ctx).
type callbackServer struct {
	port       int
	redirectURI string
	resultCh   chan callbackResult
	server     *http.Server
}

// startCallbackServer scans ports starting at preferredPort (up to +100)
// for the first one that will bind, and serves a single GET route at
// path.
func startCallbackServer(preferredPort int, path string) (*callbackServer, error) {
	var listener net.Listener
	var port int
	for offset := 0; offset < callbackPortRangeWidth; offset++ {
		candidate := preferredPort + offset
		l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", candidate))
		if err == nil {
			listener = l
			port = candidate
			break
		}
	}
	if listener == nil {
		return nil, errors.New("no available port for oauth2 callback server in range")
	}

	cs := &callbackServer{
		port:        port,
		redirectURI: fmt.Sprintf("http://localhost:%d%s", port, path),
		resultCh:    make(chan callbackResult, 1),
	}

	router := chi.NewRouter()
	router.Get(path, cs.handleCallback)
	cs.server = &http.Server{Handler: router}

	go func() {
		if err := cs.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithComponent("oauth2").Warn("callback server exited", "error", err)
		}
	}()
	return cs, nil
}

func (cs *callbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if errCode := q.Get("error"); errCode != "" {
		cs.respond(w, callbackResult{err: fmt.Errorf("authorization error: %s: %s", errCode, q.Get("error_description"))})
		return
	}
	code := q.Get("code")
	if code == "" {
		cs.respond(w, callbackResult{err: errors.New("callback missing code parameter")})
		return
	}
	cs.respond(w, callbackResult{code: code, state: q.Get("state")})
}

func (cs *callbackServer) respond(w http.ResponseWriter, result callbackResult) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if result.err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "<html><body><h1>Authorization failed</h1><p>%s</p><p>You may close this window.</p></body></html>", result.err)
	} else {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "<html><body><h1>Authorization complete</h1><p>You may close this window and return to the terminal.</p></body></html>")
	}
	select {
	case cs.resultCh <- result:
	default:
	}
}

// WaitForCallback blocks until the redirect arrives or callbackHardTimeout
// elapses, then shuts the server down either way.
func (cs *callbackServer) WaitForCallback() (callbackResult, error) {
	defer cs.shutdown()
	select {
	case result := <-cs.resultCh:
		return result, nil
	case <-time.After(callbackHardTimeout):
		return callbackResult{}, errors.New("timed out waiting for oauth2 callback")
	}
}

func (cs *callbackServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = cs.server.Shutdown(ctx)
}
