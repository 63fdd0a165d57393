package chain

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/httpcraft/httpcraft/internal/config"
	"github.com/httpcraft/httpcraft/internal/herr"
	"github.com/httpcraft/httpcraft/internal/httpclient"
	"github.com/httpcraft/httpcraft/internal/plugin"
	"github.com/httpcraft/httpcraft/internal/vars"
)

// Execute runs chain def's steps in source order, threading each step's
// request/response into the next step's steps.<id>.* visibility. It stops
// at the first step that fails to resolve its variables, suffers a
// transport error, or receives an HTTP status >= 400.
func Execute(ctx context.Context, name string, def config.Chain, cfg *config.Config, globalManager *plugin.Manager, opts Options) (*Result, error) {
	masker := vars.NewMasker()
	client := httpclient.New()
	result := &Result{Name: name}

	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "[CHAIN] %s: %d step(s)\n", name, len(def.Steps))
	}

	priorSteps := map[string]vars.StepResult{}
	var output string

	for _, step := range def.Steps {
		rec := StepRecord{StepID: step.ID}
		if opts.Verbose {
			fmt.Fprintf(os.Stderr, "[STEP %s] %s\n", step.ID, step.Call)
		}

		req, _, manager, buildErr := buildStepRequest(ctx, step, def, cfg, globalManager, priorSteps, opts, masker)
		if buildErr != nil {
			rec.Error = buildErr
			result.Steps = append(result.Steps, rec)
			result.Success = false
			return result, nil
		}
		rec.Request = req

		var resp *httpclient.Response
		var err error
		if opts.DryRun {
			if opts.Verbose {
				fmt.Fprintf(os.Stderr, "[DRY RUN] %s %s\n", req.Method, masker.Mask(req.URL))
			}
			resp = syntheticDryRunResponse()
		} else {
			resp, err = client.Execute(ctx, req, manager)
		}

		if err != nil {
			rec.Error = err
			result.Steps = append(result.Steps, rec)
			result.Success = false
			return result, nil
		}

		rec.Response = resp
		rec.Success = resp.Status < 400
		result.Steps = append(result.Steps, rec)

		priorSteps[step.ID] = vars.StepResult{
			Request: vars.StepRequest{
				URL:     req.URL,
				Method:  req.Method,
				Headers: req.Headers,
				Body:    req.Body,
			},
			Response: vars.StepResponse{
				Status:     resp.Status,
				StatusText: resp.StatusText,
				Headers:    resp.Headers,
				Body:       responseBodyValue(resp),
			},
		}

		if !rec.Success {
			result.Success = false
			return result, nil
		}
		output = resp.Body
	}

	result.Output = output
	result.Success = true
	return result, nil
}

// responseBodyValue gives later steps' JSONPath evaluator a parseable
// value: JSON bodies decode to maps/slices/scalars, everything else (and
// binary bodies) is exposed as the raw string.
func responseBodyValue(resp *httpclient.Response) any {
	if resp.IsBinary {
		return resp.RawBody
	}
	if v, ok := vars.TryParseJSON(resp.Body); ok {
		return v
	}
	return resp.Body
}

func syntheticDryRunResponse() *httpclient.Response {
	return &httpclient.Response{
		Status:     200,
		StatusText: "OK (DRY RUN)",
		Headers:    map[string]string{},
		Body:       "",
	}
}

func buildStepRequest(ctx context.Context, step config.ChainStep, def config.Chain, cfg *config.Config, globalManager *plugin.Manager, priorSteps map[string]vars.StepResult, opts Options, masker *vars.Masker) (*httpclient.Request, map[string]any, *plugin.Manager, error) {
	apiName, endpointName, err := splitCall(step.Call)
	if err != nil {
		return nil, nil, nil, herr.NewConfigError(cfg.Path, step.ID, err)
	}
	api, ok := cfg.APIs[apiName]
	if !ok {
		return nil, nil, nil, herr.NewConfigError(cfg.Path, step.ID, fmt.Errorf("unknown api %q", apiName))
	}
	endpoint, ok := api.Endpoints[endpointName]
	if !ok {
		return nil, nil, nil, herr.NewConfigError(cfg.Path, step.ID, fmt.Errorf("unknown endpoint %q on api %q", endpointName, apiName))
	}

	resolveCtx := &vars.Context{
		CLI:       opts.CLIVars,
		Endpoint:  endpoint.Variables,
		API:       api.Variables,
		ChainVars: def.Vars,
		Profile:   opts.MergedProfile,
		Global:    cfg.Globals,
		Steps:     priorSteps,
		Plugins:   globalManager,
		Masker:    masker,
	}

	manager := globalManager
	if len(api.Plugins) > 0 {
		scoped, err := globalManager.NewAPIScoped(ctx, api.Plugins, resolveCtx)
		if err != nil {
			return nil, nil, nil, err
		}
		manager = scoped
	}

	var resolvedPathParams map[string]any
	var stepHeaders, stepParams map[string]string
	var stepBody any
	hasStepBody := false
	if step.With != nil {
		if len(step.With.PathParams) > 0 {
			resolved, err := vars.ResolveValue(step.With.PathParams, resolveCtx)
			if err != nil {
				return nil, nil, nil, err
			}
			resolvedPathParams = resolved.(map[string]any)
			resolveCtx = resolveCtx.WithStep(resolvedPathParams)
		}
		if len(step.With.Headers) > 0 {
			resolved, err := vars.ResolveStringMap(step.With.Headers, resolveCtx)
			if err != nil {
				return nil, nil, nil, err
			}
			stepHeaders = resolved
		}
		if len(step.With.Params) > 0 {
			resolved, err := vars.ResolveStringMap(step.With.Params, resolveCtx)
			if err != nil {
				return nil, nil, nil, err
			}
			stepParams = resolved
		}
		if step.With.Body != nil {
			resolved, err := vars.ResolveValue(step.With.Body, resolveCtx)
			if err != nil {
				return nil, nil, nil, err
			}
			stepBody = resolved
			hasStepBody = true
		}
	}

	baseURL, err := vars.Resolve(api.BaseURL, resolveCtx)
	if err != nil {
		return nil, nil, nil, err
	}
	path, err := vars.Resolve(endpoint.Path, resolveCtx)
	if err != nil {
		return nil, nil, nil, err
	}
	apiHeaders, err := vars.ResolveStringMap(api.Headers, resolveCtx)
	if err != nil {
		return nil, nil, nil, err
	}
	endpointHeaders, err := vars.ResolveStringMap(endpoint.Headers, resolveCtx)
	if err != nil {
		return nil, nil, nil, err
	}
	apiParams, err := vars.ResolveStringMap(api.Params, resolveCtx)
	if err != nil {
		return nil, nil, nil, err
	}
	endpointParams, err := vars.ResolveStringMap(endpoint.Params, resolveCtx)
	if err != nil {
		return nil, nil, nil, err
	}

	headers := httpclient.MergeHeaders(apiHeaders, endpointHeaders)
	headers = httpclient.MergeHeaders(headers, stepHeaders)
	params := httpclient.MergeParams(apiParams, endpointParams)
	params = httpclient.MergeParams(params, stepParams)

	url := httpclient.BuildURL(baseURL, path)
	url, err = httpclient.ApplyQuery(url, params)
	if err != nil {
		return nil, nil, nil, err
	}
	url, err = httpclient.ApplyPathParamOverrides(url, resolvedPathParams)
	if err != nil {
		return nil, nil, nil, err
	}

	var body any
	if hasStepBody {
		body = stepBody
	} else if endpoint.Body != nil {
		body, err = vars.ResolveValue(endpoint.Body, resolveCtx)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	req := &httpclient.Request{
		Method:  strings.ToUpper(endpoint.Method),
		URL:     url,
		Headers: headers,
		Body:    body,
	}
	return req, resolvedPathParams, manager, nil
}

func splitCall(call string) (api, endpoint string, err error) {
	idx := strings.IndexByte(call, '.')
	if idx < 0 || idx == 0 || idx == len(call)-1 {
		return "", "", fmt.Errorf("malformed call %q, expected api.endpoint", call)
	}
	return call[:idx], call[idx+1:], nil
}
