package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/httpcraft/httpcraft/internal/chain"
	"github.com/httpcraft/httpcraft/internal/config"
	"github.com/httpcraft/httpcraft/internal/herr"
	"github.com/httpcraft/httpcraft/internal/vars"
)

func runChainCmd(args []string) int {
	if len(args) < 1 || hasHelpFlag(args) {
		fmt.Fprintln(os.Stderr, "Usage: httpcraft chain <chainName> [flags]")
		return 1
	}
	chainName := args[0]
	rest := args[1:]

	fs := flag.NewFlagSet("chain", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Path to a configuration file")
	var cliVarFlags repeatableString
	fs.Var(&cliVarFlags, "var", "Set a CLI variable (repeatable, k=v)")
	var profileFlags repeatableString
	fs.Var(&profileFlags, "profile", "Apply a named profile (repeatable)")
	noDefaultProfile := fs.Bool("no-default-profile", false, "Skip config.defaultProfile")
	verbose := fs.Bool("verbose", false, "Emit masked diagnostics to stderr")
	dryRun := fs.Bool("dry-run", false, "Build requests but do not send them")
	exitOnHTTPError := fs.String("exit-on-http-error", "", "Comma list of 4xx, 5xx, or exact codes")
	jsonOut := fs.Bool("json", false, "Structured JSON output on stdout")
	chainOutput := fs.String("chain-output", "default", "default|full")
	if err := fs.Parse(rest); err != nil {
		return 1
	}
	if *chainOutput != "default" && *chainOutput != "full" {
		fmt.Fprintln(os.Stderr, "--chain-output must be default or full")
		return 1
	}

	matcher, err := parseExitOnHTTPError(*exitOnHTTPError)
	if err != nil {
		return reportError(err)
	}
	cliVars, err := parseCLIVars(cliVarFlags.values)
	if err != nil {
		return reportError(err)
	}

	cfg, err := loadProject(*configPath)
	if err != nil {
		return reportError(err)
	}
	def, ok := cfg.Chains[chainName]
	if !ok {
		return reportError(herr.NewConfigError(cfg.Path, chainName, fmt.Errorf("unknown chain %q", chainName)))
	}

	ctx := context.Background()
	masker := vars.NewMasker()
	resolveCtx := &vars.Context{
		CLI:     cliVars,
		Profile: config.MergedProfile(cfg, effectiveProfiles(cfg, profileFlags.values, *noDefaultProfile)),
		Global:  cfg.Globals,
		Masker:  masker,
	}
	globalManager, err := loadGlobalPlugins(ctx, cfg, resolveCtx)
	if err != nil {
		return reportError(err)
	}

	configDir := filepath.Dir(cfg.Path)
	opts := chain.Options{
		CLIVars:       cliVars,
		MergedProfile: resolveCtx.Profile,
		Verbose:       *verbose,
		DryRun:        *dryRun,
		ConfigDir:     configDir,
	}

	result, err := chain.Execute(ctx, chainName, def, cfg, globalManager, opts)
	if err != nil {
		return reportError(err)
	}

	printChainResult(result, *jsonOut, *chainOutput)

	if !result.Success {
		return 1
	}
	if len(result.Steps) > 0 {
		last := result.Steps[len(result.Steps)-1]
		if last.Response != nil && matcher.Matches(last.Response.Status) {
			return 1
		}
	}
	return 0
}

func printChainResult(result *chain.Result, jsonOut bool, mode string) {
	if !jsonOut {
		fmt.Print(result.Output)
		return
	}

	if mode == "default" {
		data, _ := json.MarshalIndent(map[string]any{
			"name":    result.Name,
			"success": result.Success,
			"output":  result.Output,
		}, "", "  ")
		fmt.Println(string(data))
		return
	}

	type stepOut struct {
		StepID  string `json:"stepId"`
		Success bool   `json:"success"`
		Status  int    `json:"status,omitempty"`
		Error   string `json:"error,omitempty"`
	}
	steps := make([]stepOut, 0, len(result.Steps))
	for _, s := range result.Steps {
		so := stepOut{StepID: s.StepID, Success: s.Success}
		if s.Response != nil {
			so.Status = s.Response.Status
		}
		if s.Error != nil {
			so.Error = s.Error.Error()
		}
		steps = append(steps, so)
	}
	data, _ := json.MarshalIndent(map[string]any{
		"name":    result.Name,
		"success": result.Success,
		"output":  result.Output,
		"steps":   steps,
	}, "", "  ")
	fmt.Println(string(data))
}

func hasHelpFlag(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}
