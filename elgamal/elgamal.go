// Package elgamal implements ElGamal encryption of curve points over
// BabyJubJub. A ciphertext is the pair (c1, c2) with c1 = [r]G and
// c2 = M + [r]pk for plaintext point M and fresh randomness r; decryption
// with the matching private scalar s recovers M = c2 - [s]c1.
//
// An all-zero ciphertext is the on-chain sentinel for "no balance yet" and
// short-circuits decryption.
package elgamal

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"

	"github.com/stealthswap/eerc-primitives/curve"
	"github.com/stealthswap/eerc-primitives/key"
)

// Ciphertext is an ElGamal ciphertext pair. The contract serialization
// order is {c1: {x, y}, c2: {x, y}}.
type Ciphertext struct {
	C1 *babyjub.Point
	C2 *babyjub.Point
}

// NewCiphertext returns the all-zero sentinel ciphertext.
func NewCiphertext() *Ciphertext {
	return &Ciphertext{
		C1: curve.NewPoint(big.NewInt(0), big.NewInt(0)),
		C2: curve.NewPoint(big.NewInt(0), big.NewInt(0)),
	}
}

// IsZero reports whether the ciphertext is the all-zero sentinel.
func (ct *Ciphertext) IsZero() bool {
	if ct == nil || ct.C1 == nil || ct.C2 == nil {
		return true
	}
	return ct.C1.X.Sign() == 0 && ct.C1.Y.Sign() == 0 &&
		ct.C2.X.Sign() == 0 && ct.C2.Y.Sign() == 0
}

// Serialize returns the coordinates in contract order:
// [c1.x, c1.y, c2.x, c2.y].
func (ct *Ciphertext) Serialize() []*big.Int {
	return []*big.Int{ct.C1.X, ct.C1.Y, ct.C2.X, ct.C2.Y}
}

// Add returns the component-wise sum of two ciphertexts. Under the same
// public key this is the homomorphic addition of the plaintexts, which is
// how the on-chain running balance accumulates deposits.
func (ct *Ciphertext) Add(other *Ciphertext) *Ciphertext {
	return &Ciphertext{
		C1: curve.Add(ct.C1, other.C1),
		C2: curve.Add(ct.C2, other.C2),
	}
}

// RandomScalar draws a fresh scalar uniformly below the subgroup order.
func RandomScalar() (*big.Int, error) {
	return rand.Int(rand.Reader, curve.SubOrder)
}

// EncryptPoint encrypts the plaintext point msg under pubKey. If randomness
// is nil a fresh scalar is drawn; a supplied randomness outside
// [0, SubOrder) is rejected rather than reduced, so no modular bias can be
// introduced by an oversized value.
func EncryptPoint(pubKey, msg *babyjub.Point, randomness *big.Int) (*Ciphertext, *big.Int, error) {
	if pubKey == nil {
		return nil, nil, fmt.Errorf("missing recipient public key")
	}
	r := randomness
	if r == nil {
		var err error
		if r, err = RandomScalar(); err != nil {
			return nil, nil, fmt.Errorf("drawing encryption randomness: %w", err)
		}
	} else if r.Sign() < 0 || r.Cmp(curve.SubOrder) >= 0 {
		return nil, nil, fmt.Errorf("randomness out of range [0, subOrder)")
	}
	// c1 = [r]G
	c1 := curve.ScalarMul(curve.Base(), r)
	// c2 = msg + [r]pk
	c2 := curve.Add(msg, curve.ScalarMul(pubKey, r))
	return &Ciphertext{C1: c1, C2: c2}, r, nil
}

// EncryptMessage maps the scalar message to the curve as [m]G and encrypts
// the resulting point. It returns the ciphertext and the randomness used,
// which proof witnesses need.
func EncryptMessage(pubKey *babyjub.Point, msg, randomness *big.Int) (*Ciphertext, *big.Int, error) {
	return EncryptPoint(pubKey, curve.ScalarMul(curve.Base(), msg), randomness)
}

// Decrypt recovers the plaintext point M = c2 - [s]c1, where s is the
// curve-formatted form of privKey. The result encodes the plaintext scalar m
// as [m]G; recovering m itself is the discrete-log step handled elsewhere.
func Decrypt(privKey *big.Int, ct *Ciphertext) *babyjub.Point {
	s := key.FormatScalar(privKey)
	c1s := curve.ScalarMul(ct.C1, s)
	return curve.Add(ct.C2, curve.NegX(c1s))
}
