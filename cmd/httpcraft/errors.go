package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/httpcraft/httpcraft/internal/herr"
)

// reportError prints one human-readable line to stderr and returns the
// process exit code.
func reportError(err error) int {
	prefix := "Error"
	var varErr *herr.VariableResolutionError
	var cfgErr *herr.ConfigError
	switch {
	case errors.As(err, &varErr):
		prefix = "Variable Error"
	case errors.As(err, &cfgErr):
		prefix = "Configuration Error"
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", prefix, err)
	return 1
}
