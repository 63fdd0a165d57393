package oauth2

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallbackServerDeliversCodeAndState(t *testing.T) {
	cs, err := startCallbackServer(18080, "/callback")
	require.NoError(t, err)

	go func() {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/callback?code=abc&state=xyz", cs.port))
		if err == nil {
			resp.Body.Close()
		}
	}()

	result, err := cs.WaitForCallback()
	require.NoError(t, err)
	require.Equal(t, "abc", result.code)
	require.Equal(t, "xyz", result.state)
}

func TestCallbackServerReportsAuthorizationError(t *testing.T) {
	cs, err := startCallbackServer(18180, "/callback")
	require.NoError(t, err)

	go func() {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/callback?error=access_denied&error_description=nope", cs.port))
		if err == nil {
			resp.Body.Close()
		}
	}()

	result, err := cs.WaitForCallback()
	require.NoError(t, err)
	require.Error(t, result.err)
	require.Contains(t, result.err.Error(), "access_denied")
}

func TestCallbackServerFallsBackToNextPortWhenBusy(t *testing.T) {
	first, err := startCallbackServer(18280, "/callback")
	require.NoError(t, err)
	defer first.shutdown()

	second, err := startCallbackServer(18280, "/callback")
	require.NoError(t, err)
	defer second.shutdown()

	require.NotEqual(t, first.port, second.port)
	require.GreaterOrEqual(t, second.port, 18280)
}
