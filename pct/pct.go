// Package pct implements the Poseidon ciphertext ("PCT") codec: a
// symmetric-style encryption of small scalar arrays keyed by an ElGamal-style
// key exchange. The encryption key stream is derived from the shared point
// with a Poseidon duplex chain; the last chain word authenticates the
// ciphertext. A PCT is consumed on-chain as 7 packed scalars:
// [ciphertext(4), authKey(2), nonce].
package pct

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/iden3/go-iden3-crypto/babyjub"
	"github.com/iden3/go-iden3-crypto/ff"
	"github.com/iden3/go-iden3-crypto/poseidon"
	iden3utils "github.com/iden3/go-iden3-crypto/utils"

	"github.com/stealthswap/eerc-primitives/curve"
	"github.com/stealthswap/eerc-primitives/key"
)

const (
	// CiphertextWords is the fixed ciphertext length of a packed PCT: one
	// 3-word Poseidon block plus the authentication word.
	CiphertextWords = 4
	// PackedWords is the on-chain scalar count of a PCT bundle.
	PackedWords = 7
	// MaxPlaintexts is the largest scalar array that fits a packed PCT.
	MaxPlaintexts = 3
)

// maxNonce bounds the nonce to 2^128, the limit the Poseidon domain header
// arithmetic relies on.
var maxNonce = iden3utils.NewIntFromString("340282366920938463463374607431768211456")

// ErrEmpty is returned when decrypting the all-zero sentinel.
var ErrEmpty = fmt.Errorf("pct: empty ciphertext")

// Ciphertext is a PCT bundle for one recipient (self, counterparty or
// auditor).
type Ciphertext struct {
	Ciphertext [CiphertextWords]*big.Int
	AuthKey    [2]*big.Int
	Nonce      *big.Int
}

// Encrypt encrypts up to MaxPlaintexts scalars for the holder of pubKey. It
// derives an ephemeral shared point from fresh randomness r against pubKey,
// keys the Poseidon stream with it, and binds the ephemeral public point
// [r]G as the auth key. The randomness is returned for proof witnesses.
func Encrypt(plaintexts []*big.Int, pubKey *babyjub.Point) (*Ciphertext, *big.Int, error) {
	if pubKey == nil {
		return nil, nil, fmt.Errorf("pct: missing recipient public key")
	}
	if len(plaintexts) == 0 || len(plaintexts) > MaxPlaintexts {
		return nil, nil, fmt.Errorf("pct: plaintext count %d outside [1, %d]", len(plaintexts), MaxPlaintexts)
	}
	r, err := rand.Int(rand.Reader, curve.SubOrder)
	if err != nil {
		return nil, nil, fmt.Errorf("pct: drawing encryption randomness: %w", err)
	}
	nonce, err := rand.Int(rand.Reader, maxNonce)
	if err != nil {
		return nil, nil, fmt.Errorf("pct: drawing nonce: %w", err)
	}

	shared := curve.ScalarMul(pubKey, r)
	authKey := curve.ScalarMul(curve.Base(), r)

	words, err := EncryptWords(plaintexts, [2]*big.Int{shared.X, shared.Y}, nonce)
	if err != nil {
		return nil, nil, err
	}

	ct := &Ciphertext{
		AuthKey: [2]*big.Int{authKey.X, authKey.Y},
		Nonce:   nonce,
	}
	copy(ct.Ciphertext[:], words)
	return ct, r, nil
}

// Decrypt recovers length plaintext scalars. The holder reconstructs the
// shared point by multiplying the embedded auth key with its formatted
// private scalar; a wrong key or tampered ciphertext fails the
// authentication check.
func (ct *Ciphertext) Decrypt(privKey *big.Int, length int) ([]*big.Int, error) {
	if ct.IsZero() {
		return nil, ErrEmpty
	}
	if length <= 0 || length > MaxPlaintexts {
		return nil, fmt.Errorf("pct: plaintext length %d outside [1, %d]", length, MaxPlaintexts)
	}
	authKey := curve.NewPoint(ct.AuthKey[0], ct.AuthKey[1])
	shared := curve.ScalarMul(authKey, key.FormatScalar(privKey))
	return DecryptWords(ct.Ciphertext[:], [2]*big.Int{shared.X, shared.Y}, ct.Nonce, length)
}

// IsZero reports whether the bundle is the all-zero sentinel used on-chain
// for "no data".
func (ct *Ciphertext) IsZero() bool {
	if ct == nil {
		return true
	}
	for _, w := range ct.Ciphertext {
		if w != nil && w.Sign() != 0 {
			return false
		}
	}
	for _, w := range ct.AuthKey {
		if w != nil && w.Sign() != 0 {
			return false
		}
	}
	return ct.Nonce == nil || ct.Nonce.Sign() == 0
}

// Pack returns the on-chain representation
// [ciphertext(4), authKey(2), nonce].
func (ct *Ciphertext) Pack() [PackedWords]*big.Int {
	var packed [PackedWords]*big.Int
	copy(packed[:CiphertextWords], ct.Ciphertext[:])
	packed[4] = ct.AuthKey[0]
	packed[5] = ct.AuthKey[1]
	packed[6] = ct.Nonce
	return packed
}

// FromPacked rebuilds a bundle from its on-chain representation. Nil words
// are normalized to zero so sentinel detection stays uniform.
func FromPacked(packed [PackedWords]*big.Int) *Ciphertext {
	norm := func(w *big.Int) *big.Int {
		if w == nil {
			return big.NewInt(0)
		}
		return new(big.Int).Set(w)
	}
	ct := &Ciphertext{
		AuthKey: [2]*big.Int{norm(packed[4]), norm(packed[5])},
		Nonce:   norm(packed[6]),
	}
	for i := 0; i < CiphertextWords; i++ {
		ct.Ciphertext[i] = norm(packed[i])
	}
	return ct
}

// header computes nonce + length*2^128, the Poseidon domain word binding the
// nonce and the plaintext length.
func header(nonce *big.Int, length int) *big.Int {
	h := new(big.Int).Mul(big.NewInt(int64(length)), maxNonce)
	return h.Add(h, nonce)
}

func addFF(a, b *big.Int) *big.Int {
	sum := ff.NewElement().Add(
		ff.NewElement().SetBigInt(a),
		ff.NewElement().SetBigInt(b),
	)
	return iden3utils.ElementArrayToBigIntArray([]*ff.Element{sum})[0]
}

func subFF(a, b *big.Int) *big.Int {
	diff := ff.NewElement().Sub(
		ff.NewElement().SetBigInt(a),
		ff.NewElement().SetBigInt(b),
	)
	return iden3utils.ElementArrayToBigIntArray([]*ff.Element{diff})[0]
}

// EncryptWords runs the Poseidon duplex chain over msg, padded with zeros to
// a multiple of 3, and appends the authentication word. This is the
// circomlib poseidonEncrypt construction, so the circuits can re-derive the
// same stream in-circuit. It accepts any plaintext length; the packed PCT
// bundle uses the single-block case.
func EncryptWords(msg []*big.Int, streamKey [2]*big.Int, nonce *big.Int) ([]*big.Int, error) {
	if nonce.Cmp(maxNonce) >= 0 {
		return nil, fmt.Errorf("pct: nonce must be below 2^128")
	}
	padded := make([]*big.Int, len(msg))
	copy(padded, msg)
	for len(padded)%3 != 0 {
		padded = append(padded, big.NewInt(0))
	}

	state, err := poseidon.HashWithStateEx(
		[]*big.Int{streamKey[0], streamKey[1], header(nonce, len(msg))},
		big.NewInt(0), 4)
	if err != nil {
		return nil, fmt.Errorf("pct: poseidon stream init: %w", err)
	}

	cipher := make([]*big.Int, 0, len(padded)+1)
	for i := 0; i < len(padded)/3; i++ {
		for j := 0; j < 3; j++ {
			cipher = append(cipher, addFF(padded[i*3+j], state[j+1]))
		}
		if state, err = poseidon.HashWithStateEx(cipher[i*3:i*3+3], state[0], 4); err != nil {
			return nil, fmt.Errorf("pct: poseidon stream step: %w", err)
		}
	}
	return append(cipher, state[1]), nil
}

// DecryptWords reverses EncryptWords and verifies the authentication word.
func DecryptWords(cipher []*big.Int, streamKey [2]*big.Int, nonce *big.Int, length int) ([]*big.Int, error) {
	if nonce.Cmp(maxNonce) >= 0 {
		return nil, fmt.Errorf("pct: nonce must be below 2^128")
	}
	blocks := (len(cipher) - 1) / 3
	if blocks*3+1 != len(cipher) || length > blocks*3 {
		return nil, fmt.Errorf("pct: ciphertext length %d does not fit plaintext length %d", len(cipher), length)
	}

	state, err := poseidon.HashWithStateEx(
		[]*big.Int{streamKey[0], streamKey[1], header(nonce, length)},
		big.NewInt(0), 4)
	if err != nil {
		return nil, fmt.Errorf("pct: poseidon stream init: %w", err)
	}

	msg := make([]*big.Int, 0, blocks*3)
	for i := 0; i < blocks; i++ {
		for j := 0; j < 3; j++ {
			msg = append(msg, subFF(cipher[i*3+j], state[j+1]))
		}
		if state, err = poseidon.HashWithStateEx(cipher[i*3:i*3+3], state[0], 4); err != nil {
			return nil, fmt.Errorf("pct: poseidon stream step: %w", err)
		}
	}
	if state[1].Cmp(cipher[len(cipher)-1]) != 0 {
		return nil, fmt.Errorf("pct: authentication failed")
	}
	return msg[:length], nil
}
