package vars

// PluginSource is the slice of the plugin manager that the variable
// resolver needs. internal/plugin.Manager implements it. The interface is
// defined here, not in internal/plugin, to break a cyclic dependency:
// plugins need the resolver to resolve their own `config` templates, and
// the resolver needs plugins for secret.* and plugins.* lookups. A
// Context's Plugins field holds the manager itself, installed before its
// first plugin loads, so each lookup sees every plugin loaded so far.
type PluginSource interface {
	// Variable resolves a non-parameterized plugins.<plugin>.<name> lookup.
	Variable(plugin, name string) (string, bool, error)
	// Call resolves plugins.<plugin>.<name>(args...) with already-resolved
	// string arguments, in order.
	Call(plugin, name string, args []string) (string, bool, error)
	// SecretResolvers returns registered secret resolvers in registration
	// order, across every loaded plugin.
	SecretResolvers() []SecretResolver
}

// SecretResolver maps a secret name to a value. ok=false means undefined,
// letting secret.* resolution fall through to the next resolver and
// finally to the environment.
type SecretResolver func(name string) (value string, ok bool, err error)
