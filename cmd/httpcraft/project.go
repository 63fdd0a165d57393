package main

import (
	"context"
	"fmt"

	"github.com/httpcraft/httpcraft/internal/config"
	"github.com/httpcraft/httpcraft/internal/log"
	"github.com/httpcraft/httpcraft/internal/plugin"
	"github.com/httpcraft/httpcraft/internal/vars"
)

// loadProject resolves a configuration path (explicit or discovered) and
// loads it.
func loadProject(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	result, err := config.LoadDefaultConfig()
	if err != nil {
		return nil, err
	}
	if !result.Found {
		return nil, fmt.Errorf("no configuration found: pass --config or create .httpcraft.yaml")
	}
	return config.Load(result.Path)
}

// effectiveProfiles resolves which profile names apply, honoring
// --no-default-profile and additive --profile flags.
func effectiveProfiles(cfg *config.Config, explicit []string, noDefault bool) []string {
	if noDefault {
		return explicit
	}
	names := append([]string{}, cfg.RootConfig.DefaultProfiles()...)
	return append(names, explicit...)
}

// loadGlobalPlugins builds the global plugin manager, installing it on
// resolveCtx as LoadGlobal requires.
func loadGlobalPlugins(ctx context.Context, cfg *config.Config, resolveCtx *vars.Context) (*plugin.Manager, error) {
	logger := log.WithComponent("plugin")
	manager, err := plugin.LoadGlobal(ctx, cfg, resolveCtx)
	if err != nil {
		logger.Debug("global plugin load failed", "error", err)
		return nil, err
	}
	return manager, nil
}
