package plugin

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/httpcraft/httpcraft/internal/config"
	"github.com/httpcraft/httpcraft/internal/vars"
)

// testPlugin is the compiled-in fixture behind every plugin name this
// file registers; its behaviour is driven entirely by its `config` map.
// Each name is registered only once, since Register panics on a duplicate
// name.
type testPlugin struct{}

func (p *testPlugin) Setup(_ context.Context, reg *Registrar, cfg map[string]any) error {
	if fail, _ := cfg["fail"].(bool); fail {
		return fmt.Errorf("setup failed")
	}
	reg.RegisterPreRequestHook(func(req *http.Request) error {
		req.Header.Add("X-Test-Plugin", "yes")
		return nil
	})
	reg.RegisterVariable("greeting", func() (string, error) { return "hello", nil })
	reg.RegisterParameterizedVariable("echo", func(args []string) (string, error) {
		if len(args) == 0 {
			return "", nil
		}
		return args[0], nil
	})
	if secretVal, ok := cfg["secretValue"].(string); ok {
		reg.RegisterSecretResolver(func(name string) (string, bool, error) {
			if name == "TEST_SECRET" {
				return secretVal, true, nil
			}
			return "", false, nil
		})
	}
	return nil
}

func init() {
	Register("test-fixture", func() Plugin { return &testPlugin{} })
}

func TestLoadGlobalTwoPassSecretDependency(t *testing.T) {
	cfg := &config.Config{
		Plugins: []config.PluginConf{
			// Declared consumer-before-provider on purpose: the two-pass
			// heuristic must still load the provider first.
			{Name: "consumer", Config: map[string]any{"apiKey": "{{secret.TEST_SECRET}}"}},
			{Name: "vault", Config: map[string]any{"secretValue": "s3cr3t"}},
		},
	}
	// Register distinct names against the same fixture factory.
	Register("vault", func() Plugin { return &testPlugin{} })
	Register("consumer", func() Plugin { return &testPlugin{} })

	resolveCtx := &vars.Context{}
	m, err := LoadGlobal(context.Background(), cfg, resolveCtx)
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if got := m.instances["consumer"].config["apiKey"]; got != "s3cr3t" {
		t.Errorf("consumer apiKey = %v, want resolved secret", got)
	}
}

func TestLoadGlobalUnknownPluginFails(t *testing.T) {
	cfg := &config.Config{Plugins: []config.PluginConf{{Name: "does-not-exist"}}}
	if _, err := LoadGlobal(context.Background(), cfg, &vars.Context{}); err == nil {
		t.Fatal("expected error for unregistered plugin name")
	}
}

func TestLoadGlobalSetupFailurePropagates(t *testing.T) {
	cfg := &config.Config{Plugins: []config.PluginConf{{Name: "test-fixture", Config: map[string]any{"fail": true}}}}
	if _, err := LoadGlobal(context.Background(), cfg, &vars.Context{}); err == nil {
		t.Fatal("expected setup error to propagate")
	}
}

func TestManagerPreRequestHooksRunInOrder(t *testing.T) {
	cfg := &config.Config{Plugins: []config.PluginConf{{Name: "test-fixture"}}}
	m, err := LoadGlobal(context.Background(), cfg, &vars.Context{})
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, "https://example.test", nil)
	if err := RunPreRequestHooks(m, req); err != nil {
		t.Fatalf("RunPreRequestHooks: %v", err)
	}
	if req.Header.Get("X-Test-Plugin") != "yes" {
		t.Error("expected pre-request hook to set header")
	}
}

func TestManagerVariableAndCall(t *testing.T) {
	cfg := &config.Config{Plugins: []config.PluginConf{{Name: "test-fixture"}}}
	m, err := LoadGlobal(context.Background(), cfg, &vars.Context{})
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	v, ok, err := m.Variable("test-fixture", "greeting")
	if err != nil || !ok || v != "hello" {
		t.Errorf("Variable = (%q, %v, %v)", v, ok, err)
	}
	v, ok, err = m.Call("test-fixture", "echo", []string{"ping"})
	if err != nil || !ok || v != "ping" {
		t.Errorf("Call = (%q, %v, %v)", v, ok, err)
	}
	if _, ok, _ := m.Variable("test-fixture", "nope"); ok {
		t.Error("expected unknown variable to be unresolved")
	}
}

func TestNewAPIScopedReusesIdenticalConfig(t *testing.T) {
	cfg := &config.Config{Plugins: []config.PluginConf{
		{Name: "test-fixture", Config: map[string]any{"secretValue": "a"}},
	}}
	global, err := LoadGlobal(context.Background(), cfg, &vars.Context{})
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}

	scoped, err := global.NewAPIScoped(context.Background(), []config.PluginConf{
		{Name: "test-fixture", Config: map[string]any{"secretValue": "a"}},
	}, &vars.Context{})
	if err != nil {
		t.Fatalf("NewAPIScoped: %v", err)
	}
	if scoped.instances["test-fixture"] != global.instances["test-fixture"] {
		t.Error("expected identical-fingerprint override to reuse the global instance")
	}
}

func TestNewAPIScopedCreatesNewInstanceOnDivergentConfig(t *testing.T) {
	cfg := &config.Config{Plugins: []config.PluginConf{
		{Name: "test-fixture", Config: map[string]any{"secretValue": "a"}},
	}}
	global, err := LoadGlobal(context.Background(), cfg, &vars.Context{})
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}

	scoped, err := global.NewAPIScoped(context.Background(), []config.PluginConf{
		{Name: "test-fixture", Config: map[string]any{"secretValue": "b"}},
	}, &vars.Context{})
	if err != nil {
		t.Fatalf("NewAPIScoped: %v", err)
	}
	if scoped.instances["test-fixture"] == global.instances["test-fixture"] {
		t.Error("expected divergent config to create a new instance")
	}
	if scoped.instances["test-fixture"].config["secretValue"] != "b" {
		t.Errorf("expected override value to win, got %v", scoped.instances["test-fixture"].config["secretValue"])
	}
}

func TestNewAPIScopedUndeclaredOverrideFails(t *testing.T) {
	global, err := LoadGlobal(context.Background(), &config.Config{}, &vars.Context{})
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if _, err := global.NewAPIScoped(context.Background(), []config.PluginConf{{Name: "never-declared"}}, &vars.Context{}); err == nil {
		t.Fatal("expected error for override referencing an undeclared global plugin")
	}
}
