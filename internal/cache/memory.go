package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

// Memory is the in-process cache backend. Expiry is checked lazily on read;
// with three small fixed key spaces there is nothing worth a background
// sweeper.
type Memory struct {
	mu    sync.RWMutex
	store map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		store: make(map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (Entry, bool) {
	m.mu.RLock()
	e, ok := m.store[key]
	m.mu.RUnlock()
	if !ok || m.now().After(e.expiresAt) {
		return Entry{}, false
	}
	return e.entry, true
}

func (m *Memory) Set(_ context.Context, key string, entry Entry) {
	m.mu.Lock()
	m.store[key] = memoryEntry{entry: entry, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
}
