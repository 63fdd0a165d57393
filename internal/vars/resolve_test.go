package vars

import (
	"fmt"
	"strings"
	"testing"
)

type fakePluginSource struct {
	vars      map[string]string
	calls     map[string]func(args []string) (string, error)
	resolvers []SecretResolver
}

func (f *fakePluginSource) Variable(plugin, name string) (string, bool, error) {
	v, ok := f.vars[plugin+"."+name]
	return v, ok, nil
}

func (f *fakePluginSource) Call(plugin, name string, args []string) (string, bool, error) {
	fn, ok := f.calls[plugin+"."+name]
	if !ok {
		return "", false, nil
	}
	v, err := fn(args)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (f *fakePluginSource) SecretResolvers() []SecretResolver { return f.resolvers }

func TestResolveUnscopedPrecedence(t *testing.T) {
	ctx := &Context{
		CLI:      map[string]any{"name": "cli"},
		Endpoint: map[string]any{"name": "endpoint"},
		API:      map[string]any{"name": "api"},
		Global:   map[string]any{"name": "global"},
	}
	got, err := Resolve("{{name}}", ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "cli" {
		t.Errorf("expected CLI to win precedence, got %q", got)
	}

	ctx2 := &Context{
		API:    map[string]any{"name": "api"},
		Global: map[string]any{"name": "global"},
	}
	got2, err := Resolve("{{name}}", ctx2)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got2 != "api" {
		t.Errorf("expected API over global, got %q", got2)
	}
}

func TestResolveUnscopedFallsBackToEnv(t *testing.T) {
	t.Setenv("HTTPCRAFT_TEST_VAR", "from-env")
	got, err := Resolve("{{HTTPCRAFT_TEST_VAR}}", &Context{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "from-env" {
		t.Errorf("got %q", got)
	}
}

func TestResolveOptionalUndefinedIsEmpty(t *testing.T) {
	got, err := Resolve("prefix-{{missing?}}-suffix", &Context{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "prefix--suffix" {
		t.Errorf("got %q", got)
	}
}

func TestResolveRequiredUndefinedFails(t *testing.T) {
	if _, err := Resolve("{{missing}}", &Context{}); err == nil {
		t.Fatal("expected error for undefined required variable")
	}
}

func TestResolveDynamicNames(t *testing.T) {
	for _, name := range []string{"$timestamp", "$isoTimestamp", "$randomInt", "$guid"} {
		got, err := Resolve("{{"+name+"}}", &Context{})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got == "" {
			t.Errorf("%s resolved to empty string", name)
		}
	}
}

func TestResolveScopedPrefixes(t *testing.T) {
	ctx := &Context{
		Profile:  map[string]any{"host": "profile-host"},
		API:      map[string]any{"key": "api-key"},
		Endpoint: map[string]any{"key": "endpoint-key"},
	}
	cases := map[string]string{
		"{{profile.host}}":  "profile-host",
		"{{api.key}}":       "api-key",
		"{{endpoint.key}}":  "endpoint-key",
	}
	for tpl, want := range cases {
		got, err := Resolve(tpl, ctx)
		if err != nil {
			t.Fatalf("%s: %v", tpl, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", tpl, got, want)
		}
	}
}

func TestResolveSecretMasking(t *testing.T) {
	masker := NewMasker()
	ctx := &Context{
		Masker: masker,
		Plugins: &fakePluginSource{
			resolvers: []SecretResolver{
				func(name string) (string, bool, error) {
					if name == "API_KEY" {
						return "super-secret", true, nil
					}
					return "", false, nil
				},
			},
		},
	}
	got, err := Resolve("Bearer {{secret.API_KEY}}", ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "Bearer super-secret" {
		t.Errorf("got %q", got)
	}
	masked := masker.Mask(got)
	if masked != "Bearer [SECRET]" {
		t.Errorf("masked = %q", masked)
	}
	if strings.Contains(masked, "super-secret") {
		t.Error("masked output still contains the secret value")
	}
}

func TestResolveSecretFallsBackToEnv(t *testing.T) {
	t.Setenv("FALLBACK_SECRET", "env-value")
	ctx := &Context{Masker: NewMasker()}
	got, err := Resolve("{{secret.FALLBACK_SECRET}}", ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "env-value" {
		t.Errorf("got %q", got)
	}
}

func TestResolveSecretUnresolvedFails(t *testing.T) {
	if _, err := Resolve("{{secret.NOPE}}", &Context{}); err == nil {
		t.Fatal("expected error for unresolved secret")
	}
}

func TestResolveStepsRequestResponse(t *testing.T) {
	ctx := &Context{
		Steps: map[string]StepResult{
			"login": {
				Request: StepRequest{
					URL:    "https://example.test/login",
					Method: "POST",
					Headers: map[string]string{
						"X-Trace": "abc",
					},
				},
				Response: StepResponse{
					Status:     200,
					StatusText: "OK",
					Body: map[string]any{
						"token": "t-123",
						"user":  map[string]any{"id": float64(7)},
					},
				},
			},
		},
	}

	cases := map[string]string{
		"{{steps.login.request.url}}":         "https://example.test/login",
		"{{steps.login.request.method}}":      "POST",
		"{{steps.login.request.headers.X-Trace}}": "abc",
		"{{steps.login.response.status}}":     "200",
		"{{steps.login.response.body.token}}": "t-123",
		"{{steps.login.response.body.user.id}}": "7",
	}
	for tpl, want := range cases {
		got, err := Resolve(tpl, ctx)
		if err != nil {
			t.Fatalf("%s: %v", tpl, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", tpl, got, want)
		}
	}
}

func TestResolveStepsJSONPathZeroMatchFails(t *testing.T) {
	ctx := &Context{
		Steps: map[string]StepResult{
			"s1": {Response: StepResponse{Body: map[string]any{"a": 1}}},
		},
	}
	if _, err := Resolve("{{steps.s1.response.body.missing}}", ctx); err == nil {
		t.Fatal("expected error for zero-match jsonpath")
	}
}

func TestResolvePluginVariable(t *testing.T) {
	ctx := &Context{
		Plugins: &fakePluginSource{
			vars: map[string]string{"oauth2.accessToken": "tok-1"},
		},
	}
	got, err := Resolve("{{plugins.oauth2.accessToken}}", ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "tok-1" {
		t.Errorf("got %q", got)
	}
}

func TestResolvePluginParameterizedCall(t *testing.T) {
	ctx := &Context{
		Global: map[string]any{"stage": "prod"},
		Plugins: &fakePluginSource{
			calls: map[string]func(args []string) (string, error){
				"vault.get": func(args []string) (string, error) {
					return strings.Join(args, "|"), nil
				},
			},
		},
	}
	got, err := Resolve(`{{plugins.vault.get("db_password", {{stage}})}}`, ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "db_password|prod" {
		t.Errorf("got %q", got)
	}
}

func TestResolvePluginCallPropagatesError(t *testing.T) {
	ctx := &Context{
		Plugins: &fakePluginSource{
			calls: map[string]func(args []string) (string, error){
				"vault.get": func(args []string) (string, error) {
					return "", fmt.Errorf("boom")
				},
			},
		},
	}
	if _, err := Resolve(`{{plugins.vault.get("x")}}`, ctx); err == nil {
		t.Fatal("expected error from failing plugin call")
	}
}

func TestResolveStringMapDropsUnresolvedOptional(t *testing.T) {
	m := map[string]string{
		"X-Required": "value",
		"X-Optional": "{{missing?}}",
		"X-Mixed":    "pre-{{missing?}}",
	}
	resolved, err := ResolveStringMap(m, &Context{})
	if err != nil {
		t.Fatalf("ResolveStringMap: %v", err)
	}
	if _, ok := resolved["X-Optional"]; ok {
		t.Error("expected X-Optional to be dropped")
	}
	if resolved["X-Mixed"] != "pre-" {
		t.Errorf("X-Mixed = %q, want %q", resolved["X-Mixed"], "pre-")
	}
	if resolved["X-Required"] != "value" {
		t.Errorf("X-Required = %q", resolved["X-Required"])
	}
}

func TestResolveValueWalksNestedStructures(t *testing.T) {
	ctx := &Context{Global: map[string]any{"id": "42"}}
	value := map[string]any{
		"user": map[string]any{"id": "{{id}}"},
		"tags": []any{"a", "{{id}}"},
		"count": 3,
	}
	resolved, err := ResolveValue(value, ctx)
	if err != nil {
		t.Fatalf("ResolveValue: %v", err)
	}
	m := resolved.(map[string]any)
	user := m["user"].(map[string]any)
	if user["id"] != "42" {
		t.Errorf("user.id = %v", user["id"])
	}
	tags := m["tags"].([]any)
	if tags[1] != "42" {
		t.Errorf("tags[1] = %v", tags[1])
	}
	if m["count"] != 3 {
		t.Errorf("count = %v", m["count"])
	}
}
