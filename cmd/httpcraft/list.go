package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

func runListCmd(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: httpcraft list apis|endpoints|profiles|variables [--config PATH] [--json]")
		return 1
	}
	kind := args[0]
	rest := args[1:]

	configPath, jsonOut, apiFilter, err := parseListFlags(rest)
	if err != nil {
		return reportError(err)
	}

	cfg, err := loadProject(configPath)
	if err != nil {
		return reportError(err)
	}

	switch kind {
	case "apis":
		names := sortedKeys(cfg.APIs)
		return emitNames(names, jsonOut)
	case "endpoints":
		if apiFilter == "" {
			fmt.Fprintln(os.Stderr, "Usage: httpcraft list endpoints <apiName> [--json]")
			return 1
		}
		api, ok := cfg.APIs[apiFilter]
		if !ok {
			return reportError(fmt.Errorf("unknown api %q", apiFilter))
		}
		return emitNames(sortedKeys(api.Endpoints), jsonOut)
	case "profiles":
		return emitNames(sortedKeys(cfg.Profiles), jsonOut)
	case "variables":
		return emitNames(sortedKeys(cfg.Globals), jsonOut)
	default:
		fmt.Fprintf(os.Stderr, "Unknown list target: %s\n", kind)
		return 1
	}
}

// parseListFlags handles "list endpoints <apiName>" where apiName is a
// positional argument rather than a flag.
func parseListFlags(args []string) (configPath string, jsonOut bool, apiFilter string, err error) {
	var positional []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--json":
			jsonOut = true
		case "--config":
			if i+1 >= len(args) {
				return "", false, "", fmt.Errorf("--config requires a value")
			}
			i++
			configPath = args[i]
		default:
			positional = append(positional, args[i])
		}
	}
	if len(positional) > 0 {
		apiFilter = positional[0]
	}
	return configPath, jsonOut, apiFilter, nil
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func emitNames(names []string, jsonOut bool) int {
	if jsonOut {
		data, _ := json.MarshalIndent(names, "", "  ")
		fmt.Println(string(data))
		return 0
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return 0
}

// runGetAPINames, runGetEndpointNames, runGetChainNames, runGetProfileNames
// are hidden shell-completion helpers: print newline-separated names, and
// exit 0 with empty output on any error rather than surfacing it.

func runGetAPINames(args []string) int {
	cfg, err := loadProject(configPathFromHelperArgs(args))
	if err != nil {
		return 0
	}
	for _, n := range sortedKeys(cfg.APIs) {
		fmt.Println(n)
	}
	return 0
}

func runGetEndpointNames(args []string) int {
	cfg, err := loadProject(configPathFromHelperArgs(args))
	if err != nil || len(args) == 0 {
		return 0
	}
	api, ok := cfg.APIs[args[0]]
	if !ok {
		return 0
	}
	for _, n := range sortedKeys(api.Endpoints) {
		fmt.Println(n)
	}
	return 0
}

func runGetChainNames(args []string) int {
	cfg, err := loadProject(configPathFromHelperArgs(args))
	if err != nil {
		return 0
	}
	for _, n := range sortedKeys(cfg.Chains) {
		fmt.Println(n)
	}
	return 0
}

func runGetProfileNames(args []string) int {
	cfg, err := loadProject(configPathFromHelperArgs(args))
	if err != nil {
		return 0
	}
	for _, n := range sortedKeys(cfg.Profiles) {
		fmt.Println(n)
	}
	return 0
}

func configPathFromHelperArgs(args []string) string {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
