// Package plugin implements httpcraft's plugin subsystem. Plugins are
// compiled-in registrations rather than dynamically loaded modules: each
// plugin package registers a Factory under a name from its own init(), and
// the Manager instantiates plugins by looking up that name in the project
// configuration's `plugins:` list.
package plugin

import (
	"context"
	"net/http"

	"github.com/httpcraft/httpcraft/internal/vars"
)

// Plugin is one plugin implementation. A fresh instance is created by its
// Factory every time the manager decides one is needed (global load, or an
// API-level override whose merged configuration differs from global).
type Plugin interface {
	// Setup runs once for this instance, with its fully variable-resolved
	// configuration. It registers hooks, variable sources, and secret
	// resolvers through reg.
	Setup(ctx context.Context, reg *Registrar, config map[string]any) error
}

// PreRequestHook runs immediately before req is sent.
type PreRequestHook func(req *http.Request) error

// PostResponseHook runs immediately after resp is received.
type PostResponseHook func(req *http.Request, resp *http.Response) error

// VariableSource resolves a non-parameterized plugins.<plugin>.<name> lookup.
type VariableSource func() (string, error)

// ParameterizedSource resolves plugins.<plugin>.<name>(args...) with
// already-resolved string arguments, in call order.
type ParameterizedSource func(args []string) (string, error)

// Factory constructs a fresh Plugin instance.
type Factory func() Plugin

var factories = map[string]Factory{}

// Register adds name to the compiled-in plugin registry. Intended to be
// called from a plugin package's init(); a name registered twice panics,
// since that is a programmer error rather than a runtime/config-driven one.
func Register(name string, factory Factory) {
	if _, exists := factories[name]; exists {
		panic("plugin: duplicate registration for " + name)
	}
	factories[name] = factory
}

func lookupFactory(name string) (Factory, bool) {
	f, ok := factories[name]
	return f, ok
}

// Registrar is the handle a Plugin's Setup uses to register itself with
// the manager. Every registration is scoped to the plugin instance that
// received this Registrar.
type Registrar struct {
	name string
	regs *registrations
}

func newRegistrar(name string) (*Registrar, *registrations) {
	regs := &registrations{
		variables: map[string]VariableSource{},
		paramVars: map[string]ParameterizedSource{},
	}
	return &Registrar{name: name, regs: regs}, regs
}

// RegisterPreRequestHook appends h to this plugin's pre-request hooks.
func (r *Registrar) RegisterPreRequestHook(h PreRequestHook) {
	r.regs.preHooks = append(r.regs.preHooks, h)
}

// RegisterPostResponseHook appends h to this plugin's post-response hooks.
func (r *Registrar) RegisterPostResponseHook(h PostResponseHook) {
	r.regs.postHooks = append(r.regs.postHooks, h)
}

// RegisterVariable exposes a plugins.<plugin>.<name> variable source.
func (r *Registrar) RegisterVariable(name string, source VariableSource) {
	r.regs.variables[name] = source
}

// RegisterParameterizedVariable exposes a plugins.<plugin>.<name>(args...)
// source.
func (r *Registrar) RegisterParameterizedVariable(name string, source ParameterizedSource) {
	r.regs.paramVars[name] = source
}

// RegisterSecretResolver appends a secret.* resolver in registration order.
func (r *Registrar) RegisterSecretResolver(resolver vars.SecretResolver) {
	r.regs.secretResolvers = append(r.regs.secretResolvers, resolver)
}

type registrations struct {
	preHooks        []PreRequestHook
	postHooks       []PostResponseHook
	variables       map[string]VariableSource
	paramVars       map[string]ParameterizedSource
	secretResolvers []vars.SecretResolver
}

type instance struct {
	plugin      Plugin
	config      map[string]any
	fingerprint string
	regs        *registrations
}
