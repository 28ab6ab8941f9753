package ecdlp

import (
	"math"
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"

	"github.com/stealthswap/eerc-primitives/curve"
)

// babyStepGiantStep finds k <= UpperBound with target == [k]G in
// O(sqrt(UpperBound)) time and space. The baby-step table maps [i]G for
// i in [0, n] and is built once per Recoverer, guarded so concurrent
// recoveries share one read-only table; the giant steps walk target - [j*n]G
// until a table entry matches.
func (r *Recoverer) babyStepGiantStep(target *babyjub.Point) (uint64, bool) {
	n := uint64(math.Ceil(math.Sqrt(float64(UpperBound + 1))))
	r.bsgsOnce.Do(func() {
		table := make(map[[32]byte]uint64, n+1)
		baby := curve.Identity()
		for i := uint64(0); i <= n; i++ {
			table[baby.Compress()] = i
			baby = curve.Add(baby, curve.Base())
		}
		r.bsgsTable = table
	})

	// -[n]G, added once per giant step
	negStride := curve.NegX(curve.ScalarMul(curve.Base(), new(big.Int).SetUint64(n)))

	gamma := clonePoint(target)
	maxJ := uint64(UpperBound)/n + 1
	for j := uint64(0); j <= maxJ; j++ {
		if i, ok := r.bsgsTable[gamma.Compress()]; ok {
			if k := j*n + i; k <= UpperBound {
				return k, true
			}
		}
		gamma = curve.Add(gamma, negStride)
	}
	return 0, false
}

func clonePoint(p *babyjub.Point) *babyjub.Point {
	return curve.NewPoint(p.X, p.Y)
}
