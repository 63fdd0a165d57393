package plugin

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/httpcraft/httpcraft/internal/config"
	"github.com/httpcraft/httpcraft/internal/herr"
	"github.com/httpcraft/httpcraft/internal/vars"
)

// Manager owns a set of loaded plugin instances for the lifetime of one
// process invocation (the global manager) or one API (an API-scoped
// manager derived from it). It implements vars.PluginSource, so installing
// a Manager on a vars.Context's Plugins field is what makes plugins.*,
// secret.*, and plugin-registered variables resolvable.
type Manager struct {
	order     []string
	instances map[string]*instance
}

var secretNameMarkers = []string{"secret", "vault", "keystore"}

// LoadGlobal loads every plugin in cfg.Plugins using a two-pass strategy:
// secret-provider plugins (by name heuristic or a `secretMapping` config
// key) load before secret-consumer plugins, so a consumer's
// `{{secret.X}}` config value can already resolve against a provider
// loaded earlier in the same pass. resolveCtx.Plugins is installed as soon
// as the manager exists — each later plugin's config resolution, and the
// caller's own subsequent resolutions, see every plugin loaded so far.
func LoadGlobal(ctx context.Context, cfg *config.Config, resolveCtx *vars.Context) (*Manager, error) {
	m := &Manager{instances: map[string]*instance{}}
	resolveCtx.Plugins = m

	providers, consumers := partitionPlugins(cfg.Plugins)
	for _, pc := range providers {
		if err := m.load(ctx, pc, resolveCtx); err != nil {
			return nil, err
		}
	}
	for _, pc := range consumers {
		if err := m.load(ctx, pc, resolveCtx); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func partitionPlugins(plugins []config.PluginConf) (providers, consumers []config.PluginConf) {
	for _, p := range plugins {
		if isSecretProvider(p) {
			providers = append(providers, p)
		} else {
			consumers = append(consumers, p)
		}
	}
	return providers, consumers
}

func isSecretProvider(p config.PluginConf) bool {
	lower := strings.ToLower(p.Name)
	for _, marker := range secretNameMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	_, ok := p.Config["secretMapping"]
	return ok
}

func (m *Manager) load(ctx context.Context, pc config.PluginConf, resolveCtx *vars.Context) error {
	factory, ok := lookupFactory(pc.Name)
	if !ok {
		return herr.NewPluginError(pc.Name, fmt.Errorf("no compiled-in plugin registered under this name"))
	}
	resolvedConfig, err := resolveConfig(pc.Config, resolveCtx)
	if err != nil {
		return herr.NewPluginError(pc.Name, fmt.Errorf("resolving config: %w", err))
	}

	registrar, regs := newRegistrar(pc.Name)
	p := factory()
	if err := p.Setup(ctx, registrar, resolvedConfig); err != nil {
		return herr.NewPluginError(pc.Name, err)
	}
	fp, err := configFingerprint(resolvedConfig)
	if err != nil {
		return herr.NewPluginError(pc.Name, fmt.Errorf("fingerprinting config: %w", err))
	}

	m.instances[pc.Name] = &instance{plugin: p, config: resolvedConfig, fingerprint: fp, regs: regs}
	m.order = append(m.order, pc.Name)
	return nil
}

func resolveConfig(cfg map[string]any, resolveCtx *vars.Context) (map[string]any, error) {
	if cfg == nil {
		return map[string]any{}, nil
	}
	resolved, err := vars.ResolveValue(cfg, resolveCtx)
	if err != nil {
		return nil, err
	}
	return resolved.(map[string]any), nil
}

// NewAPIScoped derives an API-scoped manager from the global one. Plugins
// untouched by overrides are shared by reference. For each
// override, the merged configuration (global overlaid by the API's config,
// shallow, last-writer-wins) is fingerprinted against the global plugin's
// own fingerprint; an identical fingerprint reuses the global instance,
// otherwise a fresh instance is created under this scoped manager only.
func (m *Manager) NewAPIScoped(ctx context.Context, overrides []config.PluginConf, resolveCtx *vars.Context) (*Manager, error) {
	scoped := &Manager{instances: make(map[string]*instance, len(m.instances))}
	for _, name := range m.order {
		scoped.instances[name] = m.instances[name]
		scoped.order = append(scoped.order, name)
	}
	resolveCtx.Plugins = scoped

	for _, ov := range overrides {
		global, ok := m.instances[ov.Name]
		if !ok {
			return nil, herr.NewPluginError(ov.Name, fmt.Errorf("API-level override references a plugin not declared globally"))
		}
		resolvedOverride, err := resolveConfig(ov.Config, resolveCtx)
		if err != nil {
			return nil, herr.NewPluginError(ov.Name, fmt.Errorf("resolving override config: %w", err))
		}
		merged := mergeConfig(global.config, resolvedOverride)
		fp, err := configFingerprint(merged)
		if err != nil {
			return nil, herr.NewPluginError(ov.Name, fmt.Errorf("fingerprinting config: %w", err))
		}
		if fp == global.fingerprint {
			continue
		}

		factory, ok := lookupFactory(ov.Name)
		if !ok {
			return nil, herr.NewPluginError(ov.Name, fmt.Errorf("no compiled-in plugin registered under this name"))
		}
		registrar, regs := newRegistrar(ov.Name)
		p := factory()
		if err := p.Setup(ctx, registrar, merged); err != nil {
			return nil, herr.NewPluginError(ov.Name, err)
		}
		scoped.instances[ov.Name] = &instance{plugin: p, config: merged, fingerprint: fp, regs: regs}
	}
	return scoped, nil
}

func mergeConfig(base, overlay map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// PreRequestHooks returns every registered pre-request hook, in plugin
// load order.
func (m *Manager) PreRequestHooks() []PreRequestHook {
	var hooks []PreRequestHook
	for _, name := range m.order {
		hooks = append(hooks, m.instances[name].regs.preHooks...)
	}
	return hooks
}

// PostResponseHooks returns every registered post-response hook, in plugin
// load order.
func (m *Manager) PostResponseHooks() []PostResponseHook {
	var hooks []PostResponseHook
	for _, name := range m.order {
		hooks = append(hooks, m.instances[name].regs.postHooks...)
	}
	return hooks
}

// Variable implements vars.PluginSource.
func (m *Manager) Variable(plugin, name string) (string, bool, error) {
	inst, ok := m.instances[plugin]
	if !ok {
		return "", false, nil
	}
	src, ok := inst.regs.variables[name]
	if !ok {
		return "", false, nil
	}
	v, err := src()
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Call implements vars.PluginSource.
func (m *Manager) Call(plugin, name string, args []string) (string, bool, error) {
	inst, ok := m.instances[plugin]
	if !ok {
		return "", false, nil
	}
	src, ok := inst.regs.paramVars[name]
	if !ok {
		return "", false, nil
	}
	v, err := src(args)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// SecretResolvers implements vars.PluginSource, flattening every loaded
// plugin's resolvers in load order.
func (m *Manager) SecretResolvers() []vars.SecretResolver {
	var resolvers []vars.SecretResolver
	for _, name := range m.order {
		resolvers = append(resolvers, m.instances[name].regs.secretResolvers...)
	}
	return resolvers
}

var _ vars.PluginSource = (*Manager)(nil)

// RunPreRequestHooks invokes every registered pre-request hook in order,
// stopping at the first error.
func RunPreRequestHooks(m *Manager, req *http.Request) error {
	for _, hook := range m.PreRequestHooks() {
		if err := hook(req); err != nil {
			return err
		}
	}
	return nil
}

// RunPostResponseHooks invokes every registered post-response hook in
// order, stopping at the first error.
func RunPostResponseHooks(m *Manager, req *http.Request, resp *http.Response) error {
	for _, hook := range m.PostResponseHooks() {
		if err := hook(req, resp); err != nil {
			return err
		}
	}
	return nil
}
