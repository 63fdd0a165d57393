package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureOutputWithExitCode(t *testing.T, run func() int) (int, string, string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	stdoutR, stdoutW, err := os.Pipe()
	require.NoError(t, err)
	stderrR, stderrW, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = stdoutW
	os.Stderr = stderrW

	code := run()

	_ = stdoutW.Close()
	_ = stderrW.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	stdoutBytes, _ := io.ReadAll(stdoutR)
	stderrBytes, _ := io.ReadAll(stderrR)

	_ = stdoutR.Close()
	_ = stderrR.Close()

	return code, string(stdoutBytes), string(stderrBytes)
}

func writeTestConfig(t *testing.T, dir, baseURL string) string {
	t.Helper()
	configPath := filepath.Join(dir, "httpcraft.yaml")
	configYAML := `
apis:
  petstore:
    baseUrl: "` + baseURL + `"
    endpoints:
      getPet:
        method: GET
        path: /pets/{{id}}
chains:
  fetchPet:
    steps:
      - id: fetch
        call: petstore.getPet
profiles:
  staging:
    vars:
      env: staging
`
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0644))
	return configPath
}

func TestRunCLIWithNoArgsPrintsUsageAndExitsNonZero(t *testing.T) {
	code, stdout, _ := captureOutputWithExitCode(t, func() int {
		return runCLI(nil)
	})
	require.Equal(t, 1, code)
	require.Contains(t, stdout, "httpcraft - declarative, YAML-configured HTTP client")
}

func TestRunCLIVersionJSON(t *testing.T) {
	code, stdout, _ := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"version", "--json"})
	})
	require.Equal(t, 0, code)
	require.Contains(t, stdout, `"version"`)
}

func TestRunSingleRequestCmdDryRun(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, "http://example.invalid")

	code, stdout, _ := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"petstore", "getPet", "--config", configPath, "--var", "id=42", "--dry-run", "--json"})
	})
	require.Equal(t, 0, code)
	require.Contains(t, stdout, `"status": 200`)
}

func TestRunSingleRequestCmdAgainstLiveServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/pets/7"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":7,"name":"fido"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, srv.URL)

	code, stdout, _ := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"petstore", "getPet", "--config", configPath, "--var", "id=7"})
	})
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "fido")
}

func TestRunCLIUnknownAPIReportsConfigurationError(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, "http://example.invalid")

	code, _, stderr := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"nope", "getPet", "--config", configPath, "--dry-run"})
	})
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "Configuration Error:")
}

func TestRunListCmdAPIs(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, "http://example.invalid")

	code, stdout, _ := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"list", "apis", "--config", configPath})
	})
	require.Equal(t, 0, code)
	require.Equal(t, "petstore\n", stdout)
}

func TestGetAPINamesHelperSwallowsErrors(t *testing.T) {
	code, stdout, stderr := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"--get-api-names", "--config", "/nonexistent/httpcraft.yaml"})
	})
	require.Equal(t, 0, code)
	require.Empty(t, stdout)
	require.Empty(t, stderr)
}

func TestRunCompletionCmdZsh(t *testing.T) {
	code, stdout, _ := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"completion", "zsh"})
	})
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "#compdef httpcraft")
}

func TestRunDescribeCmdAPIYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, "http://example.invalid")

	code, stdout, _ := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"describe", "api", "petstore", "--config", configPath})
	})
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "baseUrl")
}

func TestRunChainCmdDryRun(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir, "http://example.invalid")

	code, _, _ := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"chain", "fetchPet", "--config", configPath, "--dry-run"})
	})
	require.Equal(t, 0, code)
}

func TestRunCacheCmdListEmptyNamespace(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	code, stdout, _ := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"cache", "list", "--json"})
	})
	require.Equal(t, 0, code)
	require.Equal(t, "{}\n", stdout)
}
