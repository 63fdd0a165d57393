package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
)

var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

func runCLI(cliArgs []string) int {
	if len(cliArgs) < 1 {
		printUsage()
		return 1
	}

	cmd := cliArgs[0]
	args := cliArgs[1:]

	switch cmd {
	case "chain":
		return runChainCmd(args)
	case "list":
		return runListCmd(args)
	case "describe":
		return runDescribeCmd(args)
	case "cache":
		return runCacheCmd(args)
	case "completion":
		return runCompletionCmd(args)
	case "--get-api-names":
		return runGetAPINames(args)
	case "--get-endpoint-names":
		return runGetEndpointNames(args)
	case "--get-chain-names":
		return runGetChainNames(args)
	case "--get-profile-names":
		return runGetProfileNames(args)
	case "--version", "version":
		return runVersion(args)
	case "help", "--help", "-h":
		printUsage()
		return 0
	default:
		// Not a reserved noun: treat as "<apiName> <endpointName>".
		return runSingleRequestCmd(cliArgs)
	}
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
}

func runVersion(args []string) int {
	jsonOut := false
	for _, a := range args {
		if a == "--json" {
			jsonOut = true
		}
	}

	info := currentVersionInfo()
	if jsonOut {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	fmt.Printf("httpcraft %s\n", info.Version)
	fmt.Printf("commit: %s\n", info.Commit)
	fmt.Printf("built_at: %s\n", info.BuildTime)
	return 0
}

func currentVersionInfo() versionInfo {
	info := versionInfo{Version: strings.TrimSpace(version), Commit: "unknown", BuildTime: "unknown"}
	if info.Version == "" {
		info.Version = "0.0.0-dev"
	}

	commit := strings.TrimSpace(gitCommit)
	if commit == "" || commit == "unknown" {
		commit = strings.TrimSpace(readBuildSetting("vcs.revision"))
	}
	if commit != "" {
		if len(commit) > 12 {
			commit = commit[:12]
		}
		info.Commit = commit
	}

	built := strings.TrimSpace(buildDate)
	if built == "" || built == "unknown" {
		built = strings.TrimSpace(readBuildSetting("vcs.time"))
	}
	if built != "" {
		info.BuildTime = built
	}

	return info
}

func readBuildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

func printUsage() {
	fmt.Print(`httpcraft - declarative, YAML-configured HTTP client

Usage:
  httpcraft <apiName> <endpointName> [flags]
  httpcraft chain <chainName> [flags]
  httpcraft list apis|endpoints|profiles|variables [--json]
  httpcraft describe api|profile|endpoint <name> [--json]
  httpcraft cache list|get|delete|clear|stats [flags]
  httpcraft completion zsh
  httpcraft version [--json]

Flags (request and chain):
  --config PATH                Path to a configuration file
  --var k=v                    Set a CLI variable (repeatable)
  --profile NAME                Apply a named profile (repeatable)
  --no-default-profile         Skip config.defaultProfile
  --verbose                    Emit masked diagnostics to stderr
  --dry-run                    Build the request but do not send it
  --exit-on-http-error PATTERNS  Comma list of 4xx, 5xx, or exact codes
  --json                       Structured JSON output on stdout
  --chain-output default|full  Chain output mode (chain only)

Use 'httpcraft help' to see this message again.
`)
}
