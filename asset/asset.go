// Package asset is the asset loading boundary: a process-local cache
// keyed by path. Loading pipelines, hot reload and streaming live
// behind this interface, not in the core.
package asset

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager caches raw asset bytes by path.
type Manager struct {
	log *zap.Logger

	mu     sync.RWMutex
	cache  map[string][]byte
	hits   int64
	misses int64
}

// NewManager creates an empty asset cache.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log.Named("asset")}
}

// Initialize prepares the cache.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string][]byte)
	return nil
}

// Load returns the bytes for a path, reading from disk on first use.
func (m *Manager) Load(path string) ([]byte, error) {
	m.mu.RLock()
	data, ok := m.cache[path]
	m.mu.RUnlock()
	if ok {
		m.mu.Lock()
		m.hits++
		m.mu.Unlock()
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load asset %q: %w", path, err)
	}

	m.mu.Lock()
	m.cache[path] = data
	m.misses++
	m.mu.Unlock()
	m.log.Debug("asset loaded", zap.String("path", path), zap.Int("bytes", len(data)))
	return data, nil
}

// CachedCount returns the number of cached assets.
func (m *Manager) CachedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// Update is the per-tick hook; background loading would drain here.
func (m *Manager) Update(time.Duration) {}

// Shutdown drops the cache.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.Info("asset cache cleared",
		zap.Int("assets", len(m.cache)),
		zap.Int64("hits", m.hits),
		zap.Int64("misses", m.misses))
	m.cache = nil
	return nil
}
