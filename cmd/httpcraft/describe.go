package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func runDescribeCmd(args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: httpcraft describe api|profile|endpoint <name> [--config PATH] [--json]")
		return 1
	}
	kind, name := args[0], args[1]
	configPath, jsonOut, apiFilter, err := parseListFlags(args[2:])
	if err != nil {
		return reportError(err)
	}

	cfg, err := loadProject(configPath)
	if err != nil {
		return reportError(err)
	}

	var result any
	switch kind {
	case "api":
		api, ok := cfg.APIs[name]
		if !ok {
			return reportError(fmt.Errorf("unknown api %q", name))
		}
		result = api
	case "profile":
		profile, ok := cfg.Profiles[name]
		if !ok {
			return reportError(fmt.Errorf("unknown profile %q", name))
		}
		result = profile
	case "endpoint":
		if apiFilter == "" {
			fmt.Fprintln(os.Stderr, "Usage: httpcraft describe endpoint <endpointName> <apiName> [--json]")
			return 1
		}
		api, ok := cfg.APIs[apiFilter]
		if !ok {
			return reportError(fmt.Errorf("unknown api %q", apiFilter))
		}
		endpoint, ok := api.Endpoints[name]
		if !ok {
			return reportError(fmt.Errorf("unknown endpoint %q on api %q", name, apiFilter))
		}
		result = endpoint
	default:
		fmt.Fprintf(os.Stderr, "Unknown describe target: %s\n", kind)
		return 1
	}

	if jsonOut {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return reportError(err)
		}
		fmt.Println(string(data))
		return 0
	}
	data, err := yaml.Marshal(result)
	if err != nil {
		return reportError(err)
	}
	fmt.Print(string(data))
	return 0
}
