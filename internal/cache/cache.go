// Package cache provides the advisory TTL cache used by admin
// analytics. It is an injected dependency rather than a package-level
// singleton so tests can swap in Noop.
package cache

import (
	"sync"
	"time"
)

// Cache memoizes computed values under string keys for a bounded time.
// Implementations are advisory: a miss (or a no-op implementation)
// must only cost recomputation, never correctness.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is an in-process Cache with a fixed TTL. Expired entries are
// dropped lazily on read.
type Memory struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemory constructs a Memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiresAt: time.Now().Add(m.ttl)}
	m.mu.Unlock()
}

// Noop is a Cache that stores nothing. Used in tests and as the
// fallback when caching is disabled.
type Noop struct{}

func (Noop) Get(string) (any, bool) { return nil, false }
func (Noop) Set(string, any)        {}
