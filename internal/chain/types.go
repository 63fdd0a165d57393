// Package chain executes a configured sequence of API calls, threading
// each step's request/response into the next step's variable context.
package chain

import "github.com/httpcraft/httpcraft/internal/httpclient"

// StepRecord is one executed (or dry-run) step's outcome.
type StepRecord struct {
	StepID   string
	Request  *httpclient.Request
	Response *httpclient.Response
	Success  bool
	Error    error
}

// Result is the full outcome of running a chain.
type Result struct {
	Name    string
	Steps   []StepRecord
	Success bool
	// Output is the last successful step's response body. Empty on failure.
	Output string
}

// Options carries the inputs Execute needs beyond the chain
// definition itself.
type Options struct {
	CLIVars        map[string]any
	MergedProfile  map[string]any
	Verbose        bool
	DryRun         bool
	ConfigDir      string
}
