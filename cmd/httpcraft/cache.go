package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/httpcraft/httpcraft/internal/cache"
)

// defaultCacheDir mirrors the OAuth2 token store's base directory
// convention: a fixed subdirectory under the user's config home.
func defaultCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "httpcraft", "cache"), nil
}

func runCacheCmd(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: httpcraft cache list|get|delete|clear|stats [flags]")
		return 1
	}
	action := args[0]
	rest := args[1:]

	baseDir, err := defaultCacheDir()
	if err != nil {
		return reportError(err)
	}
	mgr := cache.New(baseDir)
	defer mgr.Stop()

	switch action {
	case "list":
		return runCacheList(mgr, baseDir, rest)
	case "get":
		return runCacheGet(mgr, rest)
	case "delete":
		return runCacheDelete(mgr, rest)
	case "clear":
		return runCacheClear(mgr, rest)
	case "stats":
		return runCacheStats(mgr, baseDir, rest)
	default:
		fmt.Fprintf(os.Stderr, "Unknown cache action: %s\n", action)
		return 1
	}
}

// discoverNamespaces lists every "<namespace>.json" file under baseDir, since
// a Manager only knows about namespaces it has touched this process.
func discoverNamespaces(baseDir string) []string {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".json") {
			names = append(names, strings.TrimSuffix(e.Name(), ".json"))
		}
	}
	sort.Strings(names)
	return names
}

func runCacheList(mgr *cache.Manager, baseDir string, args []string) int {
	jsonOut := hasFlag(args, "--json")
	ns := firstPositional(args)

	namespaces := []string{ns}
	if ns == "" {
		namespaces = discoverNamespaces(baseDir)
	}

	result := map[string][]string{}
	for _, n := range namespaces {
		result[n] = mgr.Keys(n)
	}

	if jsonOut {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return 0
	}
	for _, n := range namespaces {
		for _, key := range result[n] {
			fmt.Printf("%s/%s\n", n, key)
		}
	}
	return 0
}

func runCacheGet(mgr *cache.Manager, args []string) int {
	jsonOut := hasFlag(args, "--json")
	positional := positionalArgs(args)
	if len(positional) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: httpcraft cache get <namespace> <key> [--json]")
		return 1
	}
	ns, key := positional[0], positional[1]
	value, ok := mgr.Get(ns, key)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: key %q not found in namespace %q\n", key, ns)
		return 1
	}
	if jsonOut {
		data, _ := json.MarshalIndent(value, "", "  ")
		fmt.Println(string(data))
		return 0
	}
	fmt.Printf("%v\n", value)
	return 0
}

func runCacheDelete(mgr *cache.Manager, args []string) int {
	positional := positionalArgs(args)
	if len(positional) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: httpcraft cache delete <namespace> <key>")
		return 1
	}
	if err := mgr.Delete(positional[0], positional[1]); err != nil {
		return reportError(err)
	}
	return 0
}

func runCacheClear(mgr *cache.Manager, args []string) int {
	positional := positionalArgs(args)
	if len(positional) == 0 {
		if err := mgr.ClearAll(); err != nil {
			return reportError(err)
		}
		return 0
	}
	if err := mgr.Clear(positional[0]); err != nil {
		return reportError(err)
	}
	return 0
}

func runCacheStats(mgr *cache.Manager, baseDir string, args []string) int {
	jsonOut := hasFlag(args, "--json")
	for _, n := range discoverNamespaces(baseDir) {
		mgr.Keys(n) // touch so it appears in GetStats
	}
	stats := mgr.GetStats()

	if jsonOut {
		data, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(data))
		return 0
	}
	names := make([]string, 0, len(stats.Namespaces))
	for n := range stats.Namespaces {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("%s: %d\n", n, stats.Namespaces[n])
	}
	return 0
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func firstPositional(args []string) string {
	p := positionalArgs(args)
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

func positionalArgs(args []string) []string {
	var out []string
	for _, a := range args {
		if !strings.HasPrefix(a, "--") {
			out = append(out, a)
		}
	}
	return out
}
