// Package herr defines httpcraft's typed error values. Each error kind is
// a small struct carrying just enough context to report a useful message,
// paired with a sentinel so callers can classify failures with errors.Is
// without inspecting strings.
package herr

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig classifies ConfigError.
	ErrConfig = errors.New("configuration error")
	// ErrVariableResolution classifies VariableResolutionError.
	ErrVariableResolution = errors.New("variable resolution error")
	// ErrPlugin classifies PluginError.
	ErrPlugin = errors.New("plugin error")
	// ErrTransport classifies TransportError.
	ErrTransport = errors.New("transport error")
	// ErrHTTPStatus classifies HTTPStatusError.
	ErrHTTPStatus = errors.New("http status error")
	// ErrCache classifies CacheError.
	ErrCache = errors.New("cache error")
	// ErrAuth classifies AuthError.
	ErrAuth = errors.New("auth error")
)

// ConfigError reports a problem loading or validating a project
// configuration file.
type ConfigError struct {
	Path string
	Key  string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config %s: %s: %v", e.Path, e.Key, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// NewConfigError builds a ConfigError.
func NewConfigError(path, key string, err error) *ConfigError {
	return &ConfigError{Path: path, Key: key, Err: err}
}

// VariableResolutionError reports a `{{…}}` placeholder that could not be
// resolved. Never carries a resolved secret value.
type VariableResolutionError struct {
	Name   string
	Reason string
}

func (e *VariableResolutionError) Error() string {
	return fmt.Sprintf("variable %q: %s", e.Name, e.Reason)
}

func (e *VariableResolutionError) Is(target error) bool { return target == ErrVariableResolution }

// NewVariableResolutionError builds a VariableResolutionError.
func NewVariableResolutionError(name, reason string) *VariableResolutionError {
	return &VariableResolutionError{Name: name, Reason: reason}
}

// PluginError reports a failure loading or invoking a plugin.
type PluginError struct {
	Plugin string
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %q: %v", e.Plugin, e.Err)
}

func (e *PluginError) Unwrap() error { return e.Err }
func (e *PluginError) Is(target error) bool { return target == ErrPlugin }

// NewPluginError builds a PluginError.
func NewPluginError(plugin string, err error) *PluginError {
	return &PluginError{Plugin: plugin, Err: err}
}

// TransportError reports a failure sending a request before any HTTP
// response was received. Kind classifies the failure (one of "dns",
// "connection_refused", "timeout", or "" when none of those apply) so
// callers can react without string-matching Err.
type TransportError struct {
	URL  string
	Kind string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// NewTransportError builds a TransportError.
func NewTransportError(url, kind string, err error) *TransportError {
	return &TransportError{URL: url, Kind: kind, Err: err}
}

// HTTPStatusError reports a response whose status matched
// --exit-on-http-error.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.URL, e.StatusCode)
}

func (e *HTTPStatusError) Is(target error) bool { return target == ErrHTTPStatus }

// NewHTTPStatusError builds an HTTPStatusError.
func NewHTTPStatusError(url string, statusCode int) *HTTPStatusError {
	return &HTTPStatusError{URL: url, StatusCode: statusCode}
}

// CacheError reports a failure reading, writing, or evicting a cache
// namespace's backing file.
type CacheError struct {
	Namespace string
	Err       error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %q: %v", e.Namespace, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }
func (e *CacheError) Is(target error) bool { return target == ErrCache }

// NewCacheError builds a CacheError.
func NewCacheError(namespace string, err error) *CacheError {
	return &CacheError{Namespace: namespace, Err: err}
}

// AuthError reports an OAuth2 grant, token-store, or callback failure.
type AuthError struct {
	Grant string
	Err   error
}

func (e *AuthError) Error() string {
	if e.Grant != "" {
		return fmt.Sprintf("auth (%s): %v", e.Grant, e.Err)
	}
	return fmt.Sprintf("auth: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }
func (e *AuthError) Is(target error) bool { return target == ErrAuth }

// NewAuthError builds an AuthError.
func NewAuthError(grant string, err error) *AuthError {
	return &AuthError{Grant: grant, Err: err}
}
