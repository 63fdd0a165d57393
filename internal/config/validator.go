package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var baseURLPattern = regexp.MustCompile(`^https?://`)
var stepCallPattern = regexp.MustCompile(`^[^.]+\.[^.]+$`)

// Validate checks every API, endpoint, and chain step invariant the
// configuration must hold. Failures name the offending file and key.
func Validate(cfg *Config) error {
	names := make([]string, 0, len(cfg.APIs))
	for name := range cfg.APIs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		api := cfg.APIs[name]
		if !baseURLPattern.MatchString(api.BaseURL) {
			return fmt.Errorf("api %q: baseUrl must match ^https?://, got %q", name, api.BaseURL)
		}
		if len(api.Endpoints) == 0 {
			return fmt.Errorf("api %q: endpoints must be non-empty", name)
		}

		epNames := make([]string, 0, len(api.Endpoints))
		for epName := range api.Endpoints {
			epNames = append(epNames, epName)
		}
		sort.Strings(epNames)

		for _, epName := range epNames {
			ep := api.Endpoints[epName]
			if err := validateEndpoint(name, epName, ep); err != nil {
				return err
			}
		}

		for i, p := range api.Plugins {
			if p.Name == "" {
				return fmt.Errorf("api %q: plugins[%d].name is required", name, i)
			}
		}
	}

	if err := validateUniquePluginNames(cfg.Plugins); err != nil {
		return err
	}
	if err := validateAPIPluginOverrides(cfg); err != nil {
		return err
	}

	chainNames := make([]string, 0, len(cfg.Chains))
	for name := range cfg.Chains {
		chainNames = append(chainNames, name)
	}
	sort.Strings(chainNames)

	for _, name := range chainNames {
		if err := validateChain(name, cfg.Chains[name]); err != nil {
			return err
		}
	}

	return nil
}

func validateEndpoint(apiName, epName string, ep Endpoint) error {
	if ep.Method == "" {
		return fmt.Errorf("api %q endpoint %q: method is required", apiName, epName)
	}
	if !validMethods[strings.ToUpper(ep.Method)] {
		return fmt.Errorf("api %q endpoint %q: invalid method %q", apiName, epName, ep.Method)
	}
	if ep.Path == "" {
		return fmt.Errorf("api %q endpoint %q: path is required", apiName, epName)
	}
	return nil
}

func validateChain(name string, chain Chain) error {
	if len(chain.Steps) == 0 {
		return fmt.Errorf("chain %q: steps must be non-empty", name)
	}
	seen := make(map[string]struct{}, len(chain.Steps))
	for i, step := range chain.Steps {
		if step.ID == "" {
			return fmt.Errorf("chain %q step[%d]: id is required", name, i)
		}
		if _, dup := seen[step.ID]; dup {
			return fmt.Errorf("chain %q: duplicate step id %q", name, step.ID)
		}
		seen[step.ID] = struct{}{}

		if !stepCallPattern.MatchString(step.Call) {
			return fmt.Errorf("chain %q step %q: call must match apiName.endpointName, got %q", name, step.ID, step.Call)
		}
	}
	return nil
}

func validateUniquePluginNames(plugins []PluginConf) error {
	seen := make(map[string]struct{}, len(plugins))
	for _, p := range plugins {
		if p.Name == "" {
			return fmt.Errorf("plugins: name is required")
		}
		if p.Path == "" && p.NpmPackage == "" {
			return fmt.Errorf("plugin %q: exactly one of path or npmPackage is required", p.Name)
		}
		if p.Path != "" && p.NpmPackage != "" {
			return fmt.Errorf("plugin %q: path and npmPackage are mutually exclusive", p.Name)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("plugin %q: declared more than once at global scope", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// validateAPIPluginOverrides enforces that every API-level plugin override
// names a globally declared plugin.
func validateAPIPluginOverrides(cfg *Config) error {
	global := make(map[string]struct{}, len(cfg.Plugins))
	for _, p := range cfg.Plugins {
		global[p.Name] = struct{}{}
	}

	names := make([]string, 0, len(cfg.APIs))
	for name := range cfg.APIs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, p := range cfg.APIs[name].Plugins {
			if _, ok := global[p.Name]; !ok {
				return fmt.Errorf("api %q: plugin override %q is not declared globally", name, p.Name)
			}
		}
	}
	return nil
}
