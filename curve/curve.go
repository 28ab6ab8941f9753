// Package curve wraps the BabyJubJub twisted Edwards curve operations used by
// the encrypted-balance primitives. All points are affine iden3 babyjub
// points over the BN254 scalar field; the distinguished base point generates
// the prime-order subgroup of order SubOrder.
//
// The layer is pure: callers must supply curve-valid points obtained from
// prior curve operations or on-chain storage.
package curve

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/iden3/go-iden3-crypto/babyjub"
)

// Order is the full curve order, 8 times SubOrder.
var Order = babyjub.Order

// SubOrder is the order of the prime subgroup generated by Base. Private
// keys and encryption randomness are reduced modulo SubOrder.
var SubOrder = babyjub.SubOrder

// FieldModulus returns the modulus of the base field the curve is defined
// over (the BN254 scalar field).
func FieldModulus() *big.Int {
	return fr.Modulus()
}

// Base returns the subgroup generator.
func Base() *babyjub.Point {
	return babyjub.B8
}

// Identity returns the neutral element (0, 1).
func Identity() *babyjub.Point {
	p := babyjub.NewPoint()
	p.X = big.NewInt(0)
	p.Y = big.NewInt(1)
	return p
}

// NewPoint builds an affine point from its coordinates.
func NewPoint(x, y *big.Int) *babyjub.Point {
	p := babyjub.NewPoint()
	p.X = new(big.Int).Set(x)
	p.Y = new(big.Int).Set(y)
	return p
}

// Add returns p + q.
func Add(p, q *babyjub.Point) *babyjub.Point {
	sum := babyjub.NewPointProjective().Add(p.Projective(), q.Projective())
	return sum.Affine()
}

// ScalarMul returns [k]p. A zero scalar yields the identity.
func ScalarMul(p *babyjub.Point, k *big.Int) *babyjub.Point {
	return babyjub.NewPoint().Mul(k, p)
}

// NegX returns -p, which on a twisted Edwards curve is the field negation of
// the x coordinate: -(x, y) = (-x, y).
func NegX(p *babyjub.Point) *babyjub.Point {
	var x fr.Element
	x.SetBigInt(p.X)
	x.Neg(&x)
	neg := babyjub.NewPoint()
	neg.X = x.BigInt(new(big.Int))
	neg.Y = new(big.Int).Set(p.Y)
	return neg
}

// NegScalar returns the additive inverse of k modulo SubOrder, so that
// [NegScalar(k)]Base == NegX(ScalarMul(Base, k)).
func NegScalar(k *big.Int) *big.Int {
	neg := new(big.Int).Sub(SubOrder, new(big.Int).Mod(k, SubOrder))
	return neg.Mod(neg, SubOrder)
}

// Equal reports whether p and q have the same affine coordinates.
func Equal(p, q *babyjub.Point) bool {
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}
