package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/httpcraft/httpcraft/internal/config"
	"github.com/httpcraft/httpcraft/internal/herr"
	"github.com/httpcraft/httpcraft/internal/httpclient"
	"github.com/httpcraft/httpcraft/internal/plugin"
	"github.com/httpcraft/httpcraft/internal/vars"
)

// runSingleRequestCmd implements "httpcraft <apiName> <endpointName> [flags]".
func runSingleRequestCmd(cliArgs []string) int {
	if len(cliArgs) < 2 || strings.HasPrefix(cliArgs[1], "-") {
		fmt.Fprintln(os.Stderr, "Usage: httpcraft <apiName> <endpointName> [flags]")
		return 1
	}
	apiName, endpointName := cliArgs[0], cliArgs[1]
	rest := cliArgs[2:]

	fs := flag.NewFlagSet("request", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Path to a configuration file")
	var cliVarFlags repeatableString
	fs.Var(&cliVarFlags, "var", "Set a CLI variable (repeatable, k=v)")
	var profileFlags repeatableString
	fs.Var(&profileFlags, "profile", "Apply a named profile (repeatable)")
	noDefaultProfile := fs.Bool("no-default-profile", false, "Skip config.defaultProfile")
	verbose := fs.Bool("verbose", false, "Emit masked diagnostics to stderr")
	dryRun := fs.Bool("dry-run", false, "Build the request but do not send it")
	exitOnHTTPError := fs.String("exit-on-http-error", "", "Comma list of 4xx, 5xx, or exact codes")
	jsonOut := fs.Bool("json", false, "Structured JSON output on stdout")
	if err := fs.Parse(rest); err != nil {
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

	req, manager, err := buildSingleRequest(ctx, cfg, apiName, endpointName, resolveCtx, globalManager)
	if err != nil {
		return reportError(err)
	}

	diag(*verbose, masker, "VERBOSE", "executing %s.%s", apiName, endpointName)
	diag(*verbose, masker, "REQUEST", "%s %s", req.Method, req.URL)

	client := httpclient.New()
	started := time.Now()
	var resp *httpclient.Response
	if *dryRun {
		diag(*verbose, masker, "DRY RUN", "%s %s", req.Method, req.URL)
		resp = &httpclient.Response{Status: 200, StatusText: "OK (DRY RUN)", Headers: map[string]string{}, Body: ""}
	} else {
		resp, err = client.Execute(ctx, req, manager)
		if err != nil {
			return reportError(err)
		}
	}
	ended := time.Now()
	diag(*verbose, masker, "RESPONSE", "%d %s", resp.Status, resp.StatusText)

	printResponse(resp, started, ended, *jsonOut)

	// An HTTP error status is fatal for a chain step but not here unless
	// --exit-on-http-error matches it.
	if matcher.Matches(resp.Status) {
		return 1
	}
	return 0
}

// buildSingleRequest resolves one api.endpoint call into a transport-ready
// request: load plugin overrides, build the variable context, resolve
// headers/params/path/body, and assemble the URL.
func buildSingleRequest(ctx context.Context, cfg *config.Config, apiName, endpointName string, resolveCtx *vars.Context, globalManager *plugin.Manager) (*httpclient.Request, *plugin.Manager, error) {
	api, ok := cfg.APIs[apiName]
	if !ok {
		return nil, nil, herr.NewConfigError(cfg.Path, apiName, fmt.Errorf("unknown api %q", apiName))
	}
	endpoint, ok := api.Endpoints[endpointName]
	if !ok {
		return nil, nil, herr.NewConfigError(cfg.Path, endpointName, fmt.Errorf("unknown endpoint %q on api %q", endpointName, apiName))
	}

	resolveCtx.API = api.Variables
	resolveCtx.Endpoint = endpoint.Variables

	manager := globalManager
	if len(api.Plugins) > 0 {
		scoped, err := globalManager.NewAPIScoped(ctx, api.Plugins, resolveCtx)
		if err != nil {
			return nil, nil, err
		}
		manager = scoped
	}

	baseURL, err := vars.Resolve(api.BaseURL, resolveCtx)
	if err != nil {
		return nil, nil, err
	}
	path, err := vars.Resolve(endpoint.Path, resolveCtx)
	if err != nil {
		return nil, nil, err
	}
	apiHeaders, err := vars.ResolveStringMap(api.Headers, resolveCtx)
	if err != nil {
		return nil, nil, err
	}
	endpointHeaders, err := vars.ResolveStringMap(endpoint.Headers, resolveCtx)
	if err != nil {
		return nil, nil, err
	}
	apiParams, err := vars.ResolveStringMap(api.Params, resolveCtx)
	if err != nil {
		return nil, nil, err
	}
	endpointParams, err := vars.ResolveStringMap(endpoint.Params, resolveCtx)
	if err != nil {
		return nil, nil, err
	}

	headers := httpclient.MergeHeaders(apiHeaders, endpointHeaders)
	params := httpclient.MergeParams(apiParams, endpointParams)

	url := httpclient.BuildURL(baseURL, path)
	url, err = httpclient.ApplyQuery(url, params)
	if err != nil {
		return nil, nil, err
	}

	var body any
	if endpoint.Body != nil {
		body, err = vars.ResolveValue(endpoint.Body, resolveCtx)
		if err != nil {
			return nil, nil, err
		}
	}

	req := &httpclient.Request{Method: strings.ToUpper(endpoint.Method), URL: url, Headers: headers, Body: body}
	return req, manager, nil
}
