package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigResult is the outcome of LoadDefaultConfig: either a resolved
// path, or Found=false when no default config exists in any searched
// location.
type DefaultConfigResult struct {
	Path  string
	Found bool
}

// LoadDefaultConfig searches, in order: ./.httpcraft.yaml, ./.httpcraft.yml,
// $XDG_CONFIG_HOME-or-$HOME/.config/httpcraft/config.yaml.
func LoadDefaultConfig() (DefaultConfigResult, error) {
	candidates := []string{".httpcraft.yaml", ".httpcraft.yml"}

	if dir, err := userConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "httpcraft", "config.yaml"))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return DefaultConfigResult{}, fmt.Errorf("resolve default config %q: %w", candidate, err)
			}
			return DefaultConfigResult{Path: abs, Found: true}, nil
		}
	}

	return DefaultConfigResult{}, nil
}

func userConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}
