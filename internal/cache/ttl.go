package cache

import (
	"sync"
	"time"
)

const sweepEvery = time.Minute

// TTL is a minimal in-process TTL cache to trim upstream fetches on hot
// paths. Keys are unbounded over a daemon's life (seed and cursor digests),
// so expired entries are reclaimed: a read deletes the entry it finds
// expired, and a write sweeps the whole map at most once per sweepEvery.
type TTL[K comparable, V any] struct {
	mu      sync.RWMutex
	data    map[K]entry[V]
	sweepAt time.Time
}

type entry[V any] struct {
	val V
	exp time.Time
}

func NewTTL[K comparable, V any]() *TTL[K, V] {
	return &TTL[K, V]{
		data:    make(map[K]entry[V]),
		sweepAt: time.Now().Add(sweepEvery),
	}
}

// Get returns the value and true if found and not expired; otherwise zero
// value and false.
func (t *TTL[K, V]) Get(k K) (V, bool) {
	t.mu.RLock()
	e, ok := t.data[k]
	t.mu.RUnlock()
	now := time.Now()
	if ok && now.After(e.exp) {
		t.mu.Lock()
		// Recheck: a Set may have refreshed the entry between locks.
		if cur, still := t.data[k]; still && now.After(cur.exp) {
			delete(t.data, k)
		}
		t.mu.Unlock()
		ok = false
	}
	if !ok {
		var zero V
		return zero, false
	}
	return e.val, true
}

func (t *TTL[K, V]) Set(k K, v V, ttl time.Duration) {
	now := time.Now()
	t.mu.Lock()
	t.data[k] = entry[V]{val: v, exp: now.Add(ttl)}
	if now.After(t.sweepAt) {
		for key, e := range t.data {
			if now.After(e.exp) {
				delete(t.data, key)
			}
		}
		t.sweepAt = now.Add(sweepEvery)
	}
	t.mu.Unlock()
}

// Len reports the number of entries currently held, expired or not.
func (t *TTL[K, V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.data)
}
