// Package cache implements httpcraft's namespaced TTL key/value store: one
// JSON file per namespace under a base directory, atomic writes, lazy and
// background expiry, and a per-namespace entry cap.
package cache

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/httpcraft/httpcraft/internal/log"
)

const (
	defaultTTL             = 5 * time.Minute
	defaultMaxEntries      = 1000
	defaultCleanupInterval = time.Minute
)

// Manager owns every namespace's on-disk JSON file and in-memory entry map
// for the lifetime of one process.
type Manager struct {
	baseDir         string
	defaultTTL      time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	logger          *slog.Logger

	mu         sync.Mutex
	namespaces map[string]*namespace

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// Option configures a Manager via the functional-options constructor shape.
type Option func(*Manager)

// WithDefaultTTL overrides the TTL applied when Set is called without an
// explicit one.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.defaultTTL = ttl
		}
	}
}

// WithMaxEntriesPerNamespace caps how many live keys one namespace holds
// before Set evicts the oldest entry.
func WithMaxEntriesPerNamespace(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxEntries = n
		}
	}
}

// WithCleanupInterval sets how often the background sweep removes expired
// entries across every namespace.
func WithCleanupInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.cleanupInterval = d
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Manager rooted at baseDir and starts its background
// cleanup timer. Call Stop when done.
func New(baseDir string, opts ...Option) *Manager {
	m := &Manager{
		baseDir:         baseDir,
		defaultTTL:      defaultTTL,
		maxEntries:      defaultMaxEntries,
		cleanupInterval: defaultCleanupInterval,
		logger:          log.WithComponent("cache"),
		namespaces:      map[string]*namespace{},
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.wg.Add(1)
	go m.runCleanupLoop()
	return m
}

// Stop halts the background cleanup timer. Safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
	m.wg.Wait()
}

func (m *Manager) runCleanupLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.Cleanup()
		}
	}
}

// namespaceFor returns (creating if needed) the namespace state for name,
// loading its on-disk file on first access.
func (m *Manager) namespaceFor(name string) *namespace {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.namespaces[name]
	if ok {
		return ns
	}
	ns = newNamespace(name, filepath.Join(m.baseDir, name+".json"), m.logger)
	m.namespaces[name] = ns
	return ns
}

// Namespaces returns every namespace name touched so far this process.
func (m *Manager) Namespaces() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.namespaces))
	for name := range m.namespaces {
		names = append(names, name)
	}
	return names
}

// Stats summarizes live (non-expired) entry counts per namespace touched
// so far this process.
type Stats struct {
	Namespaces map[string]int
}

// GetStats reports the live entry count of every touched namespace.
func (m *Manager) GetStats() Stats {
	m.mu.Lock()
	names := make([]string, 0, len(m.namespaces))
	nsSnapshot := make([]*namespace, 0, len(m.namespaces))
	for name, ns := range m.namespaces {
		names = append(names, name)
		nsSnapshot = append(nsSnapshot, ns)
	}
	m.mu.Unlock()

	stats := Stats{Namespaces: make(map[string]int, len(names))}
	for i, name := range names {
		stats.Namespaces[name] = nsSnapshot[i].size()
	}
	return stats
}

// Cleanup sweeps every touched namespace, dropping expired entries and
// persisting namespaces that changed. Called automatically on
// cleanupInterval; also safe to call directly.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	nsSnapshot := make([]*namespace, 0, len(m.namespaces))
	for _, ns := range m.namespaces {
		nsSnapshot = append(nsSnapshot, ns)
	}
	m.mu.Unlock()

	for _, ns := range nsSnapshot {
		ns.cleanup()
	}
}

// Get returns the live value for key in namespace ns, or false if absent
// or expired.
func (m *Manager) Get(ns, key string) (any, bool) {
	return m.namespaceFor(ns).get(key)
}

// Has reports whether key is present and unexpired in namespace ns.
func (m *Manager) Has(ns, key string) bool {
	_, ok := m.Get(ns, key)
	return ok
}

// Set stores value under key in namespace ns. An explicit ttl overrides
// the Manager's default; omit it to use the default.
func (m *Manager) Set(ns, key string, value any, ttl ...time.Duration) error {
	effective := m.defaultTTL
	if len(ttl) > 0 && ttl[0] > 0 {
		effective = ttl[0]
	}
	return m.namespaceFor(ns).set(key, value, effective, m.maxEntries)
}

// Delete removes key from namespace ns, if present.
func (m *Manager) Delete(ns, key string) error {
	return m.namespaceFor(ns).delete(key)
}

// Clear empties namespace ns.
func (m *Manager) Clear(ns string) error {
	return m.namespaceFor(ns).clear()
}

// ClearAll empties every namespace touched so far this process.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	nsSnapshot := make([]*namespace, 0, len(m.namespaces))
	for _, ns := range m.namespaces {
		nsSnapshot = append(nsSnapshot, ns)
	}
	m.mu.Unlock()

	for _, ns := range nsSnapshot {
		if err := ns.clear(); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns every live key in namespace ns.
func (m *Manager) Keys(ns string) []string {
	return m.namespaceFor(ns).keys()
}

// Size returns the number of live entries in namespace ns.
func (m *Manager) Size(ns string) int {
	return m.namespaceFor(ns).size()
}
