package cache

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts time so cooldown windows can be tested deterministically
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }

// MemoryStore is a simple in-memory key store with expiration
type MemoryStore struct {
	mu    sync.Mutex
	clock Clock
	items map[string]time.Time // key -> expire time
}

// NewMemoryStore creates a new in-memory store. A nil clock uses the system clock.
func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = SystemClock{}
	}
	return &MemoryStore{
		clock: clock,
		items: make(map[string]time.Time),
	}
}

// Acquire sets key for ttl if it is absent or expired. When the key is held
// it reports false and the time left on it.
func (ms *MemoryStore) Acquire(_ context.Context, key string, ttl time.Duration) (bool, time.Duration, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.clock.Now()
	if expireTime, exists := ms.items[key]; exists && now.Before(expireTime) {
		return false, expireTime.Sub(now), nil
	}

	ms.items[key] = now.Add(ttl)
	ms.pruneLocked(now)
	return true, 0, nil
}

// Delete removes a key
func (ms *MemoryStore) Delete(key string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, key)
}

// Len returns the number of live keys
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.pruneLocked(ms.clock.Now())
	return len(ms.items)
}

// pruneLocked removes expired items; caller holds mu
func (ms *MemoryStore) pruneLocked(now time.Time) {
	for key, expireTime := range ms.items {
		if !now.Before(expireTime) {
			delete(ms.items, key)
		}
	}
}
