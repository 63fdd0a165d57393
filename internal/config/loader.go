package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig is the shape of a single YAML file on disk, before import
// expansion. apis/chains/profiles are kept as raw nodes because each may be
// either an inline mapping or an ordered list of import specs.
type fileConfig struct {
	RootConfig RootConfig     `yaml:"config,omitempty"`
	Profiles   yaml.Node      `yaml:"profiles,omitempty"`
	Secrets    SecretsConfig  `yaml:"secrets,omitempty"`
	Plugins    []PluginConf   `yaml:"plugins,omitempty"`
	Variables  []string       `yaml:"variables,omitempty"`
	Globals    map[string]any `yaml:"globalVariables,omitempty"`
	Apis       yaml.Node      `yaml:"apis,omitempty"`
	Chains     yaml.Node      `yaml:"chains,omitempty"`
}

// Load reads one YAML file and expands every modular import it declares
// under apis, chains, and profiles.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %q: %w", path, err)
	}

	fc, err := loadFileConfig(absPath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(absPath)

	cfg := &Config{
		Path:       absPath,
		RootConfig: fc.RootConfig,
		Secrets:    fc.Secrets,
		Plugins:    fc.Plugins,
		Variables:  fc.Variables,
		Globals:    fc.Globals,
	}

	cfg.Profiles, err = expandProfiles(&fc.Profiles, dir)
	if err != nil {
		return nil, fmt.Errorf("profiles: %w", err)
	}

	cfg.APIs, err = expandAPIs(&fc.Apis, dir)
	if err != nil {
		return nil, fmt.Errorf("apis: %w", err)
	}

	cfg.Chains, err = expandChains(&fc.Chains, dir)
	if err != nil {
		return nil, fmt.Errorf("chains: %w", err)
	}

	if err := loadVariableFiles(cfg, dir); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", absPath, err)
	}

	return cfg, nil
}

func loadFileConfig(absPath string) (*fileConfig, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s: %w", absPath, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", absPath, err)
	}
	return &fc, nil
}

// loadVariableFiles supplements Globals with flat-primitive variable files
// listed under `variables:`. Direct globalVariables take precedence.
func loadVariableFiles(cfg *Config, dir string) error {
	if len(cfg.Variables) == 0 {
		return nil
	}

	merged := make(map[string]any)
	for _, rel := range cfg.Variables {
		path := resolvePath(rel, dir)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("variables file %s: %w", path, err)
		}
		var flat map[string]any
		if err := yaml.Unmarshal(data, &flat); err != nil {
			return fmt.Errorf("variables file %s: %w", path, err)
		}
		for k, v := range flat {
			merged[k] = v
		}
	}

	for k, v := range cfg.Globals {
		merged[k] = v
	}
	cfg.Globals = merged
	return nil
}

func resolvePath(rel, dir string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(dir, rel)
}

// importList interprets a yaml.Node as either an inline mapping (returns
// ok=false, so the caller decodes it directly) or an ordered list of import
// specs (returns the spec strings in declared order, unresolved;
// resolveImportSpec turns each one into files).
func importList(node *yaml.Node) ([]string, bool) {
	if node.Kind != yaml.SequenceNode {
		return nil, false
	}
	var specs []string
	if err := node.Decode(&specs); err != nil {
		return nil, false
	}
	return specs, true
}

// resolveImportSpec expands one import-spec string into a sorted list of
// concrete file paths: a "directory:" prefix loads every *.yaml/*.yml file
// in lexicographic order; otherwise it is a single file path.
func resolveImportSpec(spec, dir string) ([]string, error) {
	if rest, ok := strings.CutPrefix(spec, "directory:"); ok {
		dirPath := resolvePath(rest, dir)
		entries, err := os.ReadDir(dirPath)
		if err != nil {
			return nil, fmt.Errorf("import directory %q: %w", dirPath, err)
		}
		var files []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
				files = append(files, filepath.Join(dirPath, name))
			}
		}
		sort.Strings(files)
		return files, nil
	}
	return []string{resolvePath(spec, dir)}, nil
}
