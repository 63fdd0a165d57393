package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/httpcraft/httpcraft/internal/config"
	"github.com/httpcraft/httpcraft/internal/plugin"
	"github.com/httpcraft/httpcraft/internal/vars"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		APIs: map[string]config.API{
			"users": {
				BaseURL: baseURL,
				Endpoints: map[string]config.Endpoint{
					"create": {Method: "POST", Path: "/users", Body: map[string]any{"name": "{{name}}"}},
					"get":    {Method: "GET", Path: "/users/{{userId}}"},
				},
			},
		},
	}
}

func emptyManager(t *testing.T) *plugin.Manager {
	t.Helper()
	m, err := plugin.LoadGlobal(context.Background(), &config.Config{}, &vars.Context{Masker: vars.NewMasker()})
	require.NoError(t, err)
	return m
}

func TestExecuteChainsStepsTogetherViaResponseReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"abc123"}`))
		case "/users/abc123":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"abc123","name":"created"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	def := config.Chain{
		Vars: map[string]any{"name": "ada"},
		Steps: []config.ChainStep{
			{ID: "create", Call: "users.create"},
			{ID: "fetch", Call: "users.get", With: &config.StepWith{
				PathParams: map[string]any{"userId": "{{steps.create.response.body.id}}"},
			}},
		},
	}

	result, err := Execute(context.Background(), "onboard", def, cfg, emptyManager(t), Options{})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Steps, 2)
	require.Equal(t, srv.URL+"/users/abc123", result.Steps[1].Request.URL)
	require.Equal(t, `{"id":"abc123","name":"created"}`, result.Output)
}

func TestExecuteChainStopsOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	def := config.Chain{
		Vars: map[string]any{"name": "ada"},
		Steps: []config.ChainStep{
			{ID: "create", Call: "users.create"},
			{ID: "fetch", Call: "users.get", With: &config.StepWith{PathParams: map[string]any{"userId": "x"}}},
		},
	}

	result, err := Execute(context.Background(), "onboard", def, cfg, emptyManager(t), Options{})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Len(t, result.Steps, 1, "chain must stop after the first failing step")
	require.False(t, result.Steps[0].Success)
}

func TestExecuteChainStopsOnUnknownEndpoint(t *testing.T) {
	cfg := testConfig(t, "https://example.test")
	def := config.Chain{
		Steps: []config.ChainStep{
			{ID: "bad", Call: "users.nope"},
		},
	}

	result, err := Execute(context.Background(), "broken", def, cfg, emptyManager(t), Options{})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Error(t, result.Steps[0].Error)
}

func TestExecuteChainDryRunDoesNotHitNetwork(t *testing.T) {
	cfg := testConfig(t, "https://example.test")
	def := config.Chain{
		Vars: map[string]any{"name": "ada"},
		Steps: []config.ChainStep{
			{ID: "create", Call: "users.create"},
		},
	}

	result, err := Execute(context.Background(), "dry", def, cfg, emptyManager(t), Options{DryRun: true})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "OK (DRY RUN)", result.Steps[0].Response.StatusText)
}
