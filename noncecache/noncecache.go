// Package noncecache provides a ready-made hawk.NonceChecker backed by a
// bounded LRU, for hosts that don't want to wire their own nonce store.
package noncecache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	ts int64
}

// Checker is a hawk.NonceChecker that remembers the last `size` (key,
// nonce) pairs it has seen, counted across all keys together, evicting the
// least recently used once full. A nonce
// is only ever "new" once; a second sighting of the same (key, nonce)
// pair is reported as a replay regardless of ts.
type Checker struct {
	mu    sync.Mutex
	cache *lru.Cache[string, entry]
}

// New constructs a Checker holding at most size entries. size must be
// positive.
func New(size int) (*Checker, error) {
	c, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &Checker{cache: c}, nil
}

// CheckNonce implements hawk.NonceChecker. It returns true (not a replay)
// the first time a (key, nonce) pair is seen, and false on every
// subsequent sighting.
func (c *Checker) CheckNonce(_ context.Context, key, nonce string, ts int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	compositeKey := key + "\x00" + nonce
	if _, seen := c.cache.Get(compositeKey); seen {
		return false, nil
	}
	c.cache.Add(compositeKey, entry{ts: ts})
	return true, nil
}

// Len reports how many nonces are currently tracked.
func (c *Checker) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}
