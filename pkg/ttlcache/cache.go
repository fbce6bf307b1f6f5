// Package ttlcache holds small key/value caches whose entries expire after a
// fixed time-to-live. Expired entries are treated as misses and left in place
// until the next Set for the same key.
package ttlcache

import (
	"context"
	"sync"
	"time"
)

type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, value T, ttl time.Duration)
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Memory is an unbounded in-process cache. The key space is expected to stay small.
type Memory[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	now     func() time.Time
}

func NewMemory[T any]() *Memory[T] {
	return NewMemoryWithClock[T](time.Now)
}

func NewMemoryWithClock[T any](now func() time.Time) *Memory[T] {
	return &Memory[T]{
		entries: make(map[string]entry[T]),
		now:     now,
	}
}

// Get returns the value for key while now is strictly before its expiry.
func (m *Memory[T]) Get(_ context.Context, key string) (T, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || !m.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (m *Memory[T]) Set(_ context.Context, key string, value T, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = entry[T]{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}

// Len counts stored entries, including expired ones not yet overwritten.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
