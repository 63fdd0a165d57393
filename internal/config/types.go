// Package config loads and validates httpcraft's YAML project configuration:
// APIs, endpoints, chains, profiles, secrets, and plugin declarations.
package config

// Config is the root of an httpcraft project configuration, after all
// modular imports have been expanded and merged.
type Config struct {
	Path string `yaml:"-"` // absolute path this config was loaded from, empty for synthetic configs

	RootConfig RootConfig         `yaml:"config,omitempty"`
	Profiles   map[string]Profile `yaml:"-"`
	Secrets    SecretsConfig      `yaml:"secrets,omitempty"`
	Plugins    []PluginConf       `yaml:"plugins,omitempty"`
	Variables  []string           `yaml:"variables,omitempty"`
	Globals    map[string]any     `yaml:"globalVariables,omitempty"`
	APIs       map[string]API     `yaml:"-"`
	Chains     map[string]Chain   `yaml:"-"`
}

// RootConfig is the top-level `config:` section.
type RootConfig struct {
	// DefaultProfile names one profile, or a list of profiles applied in order.
	DefaultProfile any `yaml:"defaultProfile,omitempty"`
}

// DefaultProfiles normalizes RootConfig.DefaultProfile to a slice.
func (r RootConfig) DefaultProfiles() []string {
	switch v := r.DefaultProfile.(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// SecretsConfig declares which secret-resolving plugin provides `secret.*`.
type SecretsConfig struct {
	Provider string `yaml:"provider,omitempty"`
}

// PluginConf is one entry of the top-level `plugins:` list (global scope) or
// of an API's `plugins:` override list (API scope — Path/NpmPackage unset).
type PluginConf struct {
	Name       string         `yaml:"name"`
	Path       string         `yaml:"path,omitempty"`
	NpmPackage string         `yaml:"npmPackage,omitempty"`
	Config     map[string]any `yaml:"config,omitempty"`
}

// Profile is a flat mapping of primitive variables plus an optional
// description. Values are string|float64|bool|nil after YAML decoding.
type Profile struct {
	Description string         `yaml:"description,omitempty"`
	Vars        map[string]any `yaml:",inline"`
}

// API is a named collection of endpoints sharing a base URL, headers, and
// params.
type API struct {
	Description string              `yaml:"description,omitempty"`
	BaseURL     string              `yaml:"baseUrl"`
	Headers     map[string]string   `yaml:"headers,omitempty"`
	Params      map[string]string   `yaml:"params,omitempty"`
	Variables   map[string]any      `yaml:"variables,omitempty"`
	Plugins     []PluginConf        `yaml:"plugins,omitempty"`
	Endpoints   map[string]Endpoint `yaml:"endpoints"`
}

// Endpoint is a method + path template under an API.
type Endpoint struct {
	Method      string            `yaml:"method"`
	Path        string            `yaml:"path"`
	Headers     map[string]string `yaml:"headers,omitempty"`
	Params      map[string]string `yaml:"params,omitempty"`
	Body        any               `yaml:"body,omitempty"`
	Variables   map[string]any    `yaml:"variables,omitempty"`
	Description string            `yaml:"description,omitempty"`
}

// Chain is an ordered sequence of steps, each a named call into
// `api.endpoint` with optional overrides.
type Chain struct {
	Description string         `yaml:"description,omitempty"`
	Vars        map[string]any `yaml:"vars,omitempty"`
	Steps       []ChainStep    `yaml:"steps"`
}

// ChainStep is one step of a chain.
type ChainStep struct {
	ID          string     `yaml:"id"`
	Call        string     `yaml:"call"`
	Description string     `yaml:"description,omitempty"`
	With        *StepWith  `yaml:"with,omitempty"`
}

// StepWith is the per-step override object for path parameters, headers,
// params, and body.
type StepWith struct {
	PathParams map[string]any    `yaml:"pathParams,omitempty"`
	Headers    map[string]string `yaml:"headers,omitempty"`
	Params     map[string]string `yaml:"params,omitempty"`
	Body       any               `yaml:"body,omitempty"`
}

var validMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
	"PATCH": true, "HEAD": true, "OPTIONS": true,
}
