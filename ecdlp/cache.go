package ecdlp

import (
	"math/big"
	"sync"

	"github.com/iden3/go-iden3-crypto/babyjub"

	"github.com/stealthswap/eerc-primitives/curve"
)

// DefaultCacheSize bounds the memo to a few thousand points; entries are a
// compressed point plus a small scalar, so the footprint stays negligible.
const DefaultCacheSize = 4096

// Cache memoizes recovered discrete logarithms keyed by the compressed
// point. It is bounded with FIFO eviction and safe for concurrent use. The
// cache is injectable so tests and independent wallet contexts do not share
// state.
type Cache struct {
	mu      sync.Mutex
	max     int
	entries map[[32]byte]*big.Int
	order   [][32]byte

	hits   uint64
	misses uint64
}

// NewCache returns an empty cache holding at most max entries. A
// non-positive max falls back to DefaultCacheSize.
func NewCache(max int) *Cache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &Cache{
		max:     max,
		entries: make(map[[32]byte]*big.Int),
	}
}

// Warm pre-seeds the cache with [v]G for each value, covering the common
// round balances without a search.
func (c *Cache) Warm(values ...uint64) {
	for _, v := range values {
		k := new(big.Int).SetUint64(v)
		c.Put(curve.ScalarMul(curve.Base(), k), k)
	}
}

// Get looks up the scalar for p.
func (c *Cache) Get(p *babyjub.Point) (*big.Int, bool) {
	k := p.Compress()
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[k]
	if ok {
		c.hits++
		return new(big.Int).Set(v), true
	}
	c.misses++
	return nil, false
}

// Put memoizes v as the discrete log of p, evicting the oldest entry once
// the size cap is reached.
func (c *Cache) Put(p *babyjub.Point, v *big.Int) {
	k := p.Compress()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[k]; exists {
		return
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[k] = new(big.Int).Set(v)
	c.order = append(c.order, k)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Hits returns the lookup hit counter, observable by tests.
func (c *Cache) Hits() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
