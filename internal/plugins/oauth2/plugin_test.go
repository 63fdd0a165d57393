package oauth2

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/httpcraft/httpcraft/internal/config"
	"github.com/httpcraft/httpcraft/internal/plugin"
	"github.com/httpcraft/httpcraft/internal/vars"
)

func TestPluginSetupRegistersHookAndVariables(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok-xyz","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	cfg := &config.Config{
		Plugins: []config.PluginConf{{
			Name: "oauth2",
			Config: map[string]any{
				"tokenUrl":     srv.URL,
				"clientId":     "id",
				"clientSecret": "secret",
				"grantType":    "client_credentials",
			},
		}},
	}
	resolveCtx := &vars.Context{}
	manager, err := plugin.LoadGlobal(context.Background(), cfg, resolveCtx)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "http://example.test/", nil)
	require.NoError(t, plugin.RunPreRequestHooks(manager, req))
	require.Equal(t, "Bearer tok-xyz", req.Header.Get("Authorization"))

	val, ok, err := manager.Variable("oauth2", "accessToken")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tok-xyz", val)

	val, ok, err = manager.Variable("oauth2", "tokenType")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Bearer", val)

	val, ok, err = manager.Call("oauth2", "getTokenWithScope", []string{"read"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tok-xyz", val)
}
