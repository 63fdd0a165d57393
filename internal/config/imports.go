package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// expandAPIs resolves an `apis:` node that is either an inline mapping or an
// ordered list of import specs. Later files override earlier files on key
// collision.
func expandAPIs(node *yaml.Node, dir string) (map[string]API, error) {
	out := make(map[string]API)
	if node.Kind == 0 {
		return out, nil
	}

	if specs, ok := importList(node); ok {
		for _, spec := range specs {
			files, err := resolveImportSpec(spec, dir)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				part, err := decodeAPIsFile(f)
				if err != nil {
					return nil, err
				}
				for name, api := range part {
					out[name] = api
				}
			}
		}
		return out, nil
	}

	if err := node.Decode(&out); err != nil {
		return nil, fmt.Errorf("apis must be a mapping or an import list: %w", err)
	}
	return out, nil
}

func decodeAPIsFile(path string) (map[string]API, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load apis file %s: %w", path, err)
	}
	var wrapper struct {
		APIs map[string]API `yaml:"apis"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse apis file %s: %w", path, err)
	}
	if len(wrapper.APIs) > 0 {
		return wrapper.APIs, nil
	}
	// Also accept a bare top-level mapping of apiName -> API (no `apis:` wrapper).
	var bare map[string]API
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parse apis file %s: %w", path, err)
	}
	return bare, nil
}

// expandChains mirrors expandAPIs for the `chains:` section.
func expandChains(node *yaml.Node, dir string) (map[string]Chain, error) {
	out := make(map[string]Chain)
	if node.Kind == 0 {
		return out, nil
	}

	if specs, ok := importList(node); ok {
		for _, spec := range specs {
			files, err := resolveImportSpec(spec, dir)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				part, err := decodeChainsFile(f)
				if err != nil {
					return nil, err
				}
				for name, chain := range part {
					out[name] = chain
				}
			}
		}
		return out, nil
	}

	if err := node.Decode(&out); err != nil {
		return nil, fmt.Errorf("chains must be a mapping or an import list: %w", err)
	}
	return out, nil
}

func decodeChainsFile(path string) (map[string]Chain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load chains file %s: %w", path, err)
	}
	var wrapper struct {
		Chains map[string]Chain `yaml:"chains"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse chains file %s: %w", path, err)
	}
	if len(wrapper.Chains) > 0 {
		return wrapper.Chains, nil
	}
	var bare map[string]Chain
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parse chains file %s: %w", path, err)
	}
	return bare, nil
}

// expandProfiles mirrors expandAPIs for `profiles:`, except merging happens
// per inner key within a profile rather than whole-profile last-writer-wins.
func expandProfiles(node *yaml.Node, dir string) (map[string]Profile, error) {
	out := make(map[string]Profile)
	if node.Kind == 0 {
		return out, nil
	}

	if specs, ok := importList(node); ok {
		for _, spec := range specs {
			files, err := resolveImportSpec(spec, dir)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				part, err := decodeProfilesFile(f)
				if err != nil {
					return nil, err
				}
				mergeProfiles(out, part)
			}
		}
		return out, nil
	}

	var inline map[string]Profile
	if err := node.Decode(&inline); err != nil {
		return nil, fmt.Errorf("profiles must be a mapping or an import list: %w", err)
	}
	mergeProfiles(out, inline)
	return out, nil
}

func decodeProfilesFile(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load profiles file %s: %w", path, err)
	}
	var wrapper struct {
		Profiles map[string]Profile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse profiles file %s: %w", path, err)
	}
	if len(wrapper.Profiles) > 0 {
		return wrapper.Profiles, nil
	}
	var bare map[string]Profile
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("parse profiles file %s: %w", path, err)
	}
	return bare, nil
}

// mergeProfiles merges src into dst, one inner key at a time: later loads
// override individual variables within a profile, never the whole profile.
func mergeProfiles(dst, src map[string]Profile) {
	for name, profile := range src {
		existing, ok := dst[name]
		if !ok {
			dst[name] = profile
			continue
		}
		if profile.Description != "" {
			existing.Description = profile.Description
		}
		if existing.Vars == nil {
			existing.Vars = make(map[string]any)
		}
		for k, v := range profile.Vars {
			existing.Vars[k] = v
		}
		dst[name] = existing
	}
}

// MergedProfile combines multiple named profiles in declared order — later
// names override earlier ones per key.
func MergedProfile(cfg *Config, names []string) map[string]any {
	out := make(map[string]any)
	for _, name := range names {
		p, ok := cfg.Profiles[name]
		if !ok {
			continue
		}
		for k, v := range p.Vars {
			out[k] = v
		}
	}
	return out
}
