package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// loadNamespaceFile reads a namespace's JSON file. A missing file is not
// an error — it simply yields an empty map.
func loadNamespaceFile(path string) (map[string]record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]record{}, nil
		}
		return nil, err
	}
	var entries map[string]record
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = map[string]record{}
	}
	return entries, nil
}

// saveNamespaceFile writes entries to path via write-temp-then-rename for
// atomicity, without a .bak copy: cache files are disposable.
func saveNamespaceFile(path string, entries map[string]record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(raw); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
