package vars

import (
	"sort"
	"strings"
	"sync"
)

// Masker tracks every string resolved through secret.* so that diagnostic
// output can redact it. Deduplicated by virtue of being a set; there is no
// cap on how many values it holds. Resettable for tests.
type Masker struct {
	mu      sync.Mutex
	secrets map[string]struct{}
}

// NewMasker returns an empty Masker.
func NewMasker() *Masker {
	return &Masker{secrets: make(map[string]struct{})}
}

// Track records value as a secret. No-op for the empty string, which would
// otherwise match everywhere.
func (m *Masker) Track(value string) {
	if value == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[value] = struct{}{}
}

// Reset clears every tracked secret.
func (m *Masker) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets = make(map[string]struct{})
}

// Mask replaces every occurrence of a tracked secret in text with
// "[SECRET]". Longer secrets are masked first so a secret that happens to
// be a substring of another doesn't leave a partial match exposed.
func (m *Masker) Mask(text string) string {
	m.mu.Lock()
	secrets := make([]string, 0, len(m.secrets))
	for s := range m.secrets {
		secrets = append(secrets, s)
	}
	m.mu.Unlock()

	if len(secrets) == 0 {
		return text
	}
	sort.Slice(secrets, func(i, j int) bool { return len(secrets[i]) > len(secrets[j]) })
	for _, s := range secrets {
		text = strings.ReplaceAll(text, s, "[SECRET]")
	}
	return text
}
