package vars

// StepRequest is the outgoing request of one executed chain step, as seen
// by later steps through steps.<id>.request.*.
type StepRequest struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    any
}

// StepResponse is the response of one executed chain step, as seen by
// later steps through steps.<id>.response.*.
type StepResponse struct {
	Status     int
	StatusText string
	Headers    map[string]string
	Body       any
}

// StepResult records one prior chain step for steps.<id>.* visibility.
type StepResult struct {
	Request  StepRequest
	Response StepResponse
}

// Context is the layered variable scope consulted to resolve one `{{…}}`
// occurrence. Precedence for unscoped names, highest to lowest: CLI,
// StepWith (step.with.pathParams), Endpoint, API, ChainVars, Profile,
// Global, then the process environment. Scoped names (env., secret.,
// steps., plugins., …) bypass this chain entirely — see resolveName.
type Context struct {
	CLI       map[string]any
	StepWith  map[string]any
	Endpoint  map[string]any
	API       map[string]any
	ChainVars map[string]any
	Profile   map[string]any
	Global    map[string]any

	// Steps holds every chain step executed so far, keyed by step id.
	Steps map[string]StepResult

	// Plugins is the handle into plugin-registered variables, parameterized
	// calls, and secret resolvers. The plugin manager installs itself here
	// before its first plugin loads, so resolutions see every plugin loaded
	// so far.
	Plugins PluginSource

	// Masker tracks resolved secret.* values for stderr/stdout redaction.
	// May be nil in contexts that never touch secrets (e.g. unit tests).
	Masker *Masker
}

// WithStep returns a shallow copy of ctx with the given step's with-override
// scope installed, for building a chain step's variable context.
func (ctx Context) WithStep(stepWith map[string]any) *Context {
	ctx.StepWith = stepWith
	return &ctx
}

func lookupScalar(scope map[string]any, key string) (string, bool, error) {
	v, ok := scope[key]
	if !ok {
		return "", false, nil
	}
	s, err := stringifyValue(v)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}
