// Package ecdlp recovers the integer k from a curve point known to equal
// [k]G with k below a small bound. ElGamal decryption of a balance yields
// the point [balance]G, not the balance itself; with balances capped the
// discrete logarithm becomes a bounded search.
package ecdlp

import (
	"math/big"
	"sync"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"go.vocdoni.io/dvote/log"

	"github.com/stealthswap/eerc-primitives/curve"
)

const (
	// UpperBound is the largest recoverable balance: 1000 whole units at
	// the 2-decimal internal precision.
	UpperBound = 100_000
	// denseScanLimit covers the overwhelmingly common case of small
	// balances with a straight linear scan.
	denseScanLimit = 1000
	// chunkSize and chunkProbeStep drive the heuristic chunked tier: each
	// 1000-wide chunk is probed at every 100th value.
	chunkSize      = 1000
	chunkProbeStep = 100
	// progressLogInterval paces the linear-fallback progress logging.
	progressLogInterval = 10_000
)

// roundProbes are likely round amounts tried before any scanning of the
// upper range.
var roundProbes = []uint64{
	100, 500, 1000, 2000, 2500, 5000,
	10_000, 20_000, 25_000, 50_000, 75_000, 100_000,
}

// Recoverer solves the bounded discrete-log problem with a tiered strategy:
// cache lookup, dense small-value scan, round-number probes, then either the
// heuristic chunked scan plus exhaustive linear fallback, or, when Exact is
// set, a baby-step/giant-step search with guaranteed O(sqrt(UpperBound))
// cost and no heuristic gaps.
//
// A Recoverer is safe for concurrent use once constructed: the cache guards
// itself with a mutex and the baby-step table is built at most once, after
// which it is read-only.
type Recoverer struct {
	// Cache memoizes recovered values. Nil means a private cache of
	// DefaultCacheSize is created on first use.
	Cache *Cache
	// Exact replaces the heuristic upper-range tiers with
	// baby-step/giant-step.
	Exact bool

	bsgsOnce  sync.Once
	bsgsTable map[[32]byte]uint64
}

// NewRecoverer builds a Recoverer. A nil cache gets a private one of
// DefaultCacheSize, pre-seeded with the round probe values. exact selects
// the baby-step/giant-step upper-range strategy.
func NewRecoverer(cache *Cache, exact bool) *Recoverer {
	if cache == nil {
		cache = newSeededCache()
	}
	return &Recoverer{Cache: cache, Exact: exact}
}

func newSeededCache() *Cache {
	c := NewCache(DefaultCacheSize)
	c.Warm(roundProbes...)
	return c
}

// Recover returns the scalar k with target == [k]G and k <= UpperBound. The
// boolean result distinguishes a confirmed recovery from an exhausted
// search; a miss is never an error, the caller decides how to surface a
// balance above the bound.
func (r *Recoverer) Recover(target *babyjub.Point) (*big.Int, bool) {
	if r.Cache == nil {
		r.Cache = newSeededCache()
	}

	// tier 1: memo
	if v, ok := r.Cache.Get(target); ok {
		return v, true
	}

	// tier 2: dense scan of [0, denseScanLimit], walking G additions
	// instead of one scalar multiplication per candidate
	probe := curve.Identity()
	for k := uint64(0); k <= denseScanLimit; k++ {
		if curve.Equal(probe, target) {
			return r.hit(target, k)
		}
		probe = curve.Add(probe, curve.Base())
	}

	// tier 3: curated round amounts
	for _, k := range roundProbes {
		if k <= denseScanLimit {
			continue
		}
		if r.matches(target, k) {
			return r.hit(target, k)
		}
	}

	if r.Exact {
		if k, ok := r.babyStepGiantStep(target); ok {
			return r.hit(target, k)
		}
		return nil, false
	}

	// tier 4: chunked boundary probes, every 100th value per 1000-wide
	// chunk. Heuristic only; non-round values are left to the fallback.
	for chunk := uint64(denseScanLimit); chunk < UpperBound; chunk += chunkSize {
		for k := chunk; k < chunk+chunkSize; k += chunkProbeStep {
			if r.matches(target, k) {
				return r.hit(target, k)
			}
		}
	}

	// tier 5: exhaustive linear fallback over the values the probes
	// skipped
	probe = curve.ScalarMul(curve.Base(), big.NewInt(denseScanLimit+1))
	for k := uint64(denseScanLimit + 1); k <= UpperBound; k++ {
		if k%chunkProbeStep != 0 && curve.Equal(probe, target) {
			return r.hit(target, k)
		}
		if k%progressLogInterval == 0 {
			log.Debugw("discrete log linear fallback", "scanned", k, "bound", UpperBound)
		}
		probe = curve.Add(probe, curve.Base())
	}
	return nil, false
}

func (r *Recoverer) matches(target *babyjub.Point, k uint64) bool {
	p := curve.ScalarMul(curve.Base(), new(big.Int).SetUint64(k))
	return curve.Equal(p, target)
}

func (r *Recoverer) hit(target *babyjub.Point, k uint64) (*big.Int, bool) {
	v := new(big.Int).SetUint64(k)
	r.Cache.Put(target, v)
	return v, true
}
