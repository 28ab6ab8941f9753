// Package key derives the deterministic BabyJubJub key pair an account uses
// for its encrypted balances. The private scalar is derived from a wallet
// signature over a fixed, address-bound message, so the same wallet always
// re-derives the same key without persisting secret material.
package key

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iden3/go-iden3-crypto/babyjub"

	"github.com/stealthswap/eerc-primitives/curve"
)

// MinSignatureLen is the minimum accepted signature length: a 0x-prefixed
// 65-byte ECDSA signature encoded as hex.
const MinSignatureLen = 132

// Pair holds a derived private scalar together with the curve-formatted
// multiplier and the matching public key.
type Pair struct {
	// PrivateKey is the raw scalar derived from the wallet signature,
	// reduced modulo the subgroup order. This is the value persisted in a
	// session store, serialized as a decimal string.
	PrivateKey *big.Int
	// Formatted is PrivateKey after the curve's private-key formatting
	// transform; it is the scalar actually used for multiplication.
	Formatted *big.Int
	// PublicKey is [Formatted]G.
	PublicKey *babyjub.Point
}

// NewPair expands a raw derived scalar into a full key pair.
func NewPair(raw *big.Int) *Pair {
	formatted := FormatScalar(raw)
	return &Pair{
		PrivateKey: new(big.Int).Set(raw),
		Formatted:  formatted,
		PublicKey:  PublicKeyOf(formatted),
	}
}

// PublicKeyOf returns [formatted]G.
func PublicKeyOf(formatted *big.Int) *babyjub.Point {
	return curve.ScalarMul(curve.Base(), formatted)
}

// DeriveFromSignature derives the raw private scalar from a wallet
// signature. The signature bytes are hashed with Keccak-256, the digest is
// clamped Edwards-style (clear the low 3 bits of the first byte, clear the
// top bit and set the second-top bit of the last byte), interpreted as a
// little-endian integer and reduced modulo the subgroup order. A zero result
// maps to one. The derivation is deterministic.
func DeriveFromSignature(signature string) (*big.Int, error) {
	if len(signature) < MinSignatureLen {
		return nil, fmt.Errorf("signature too short: %d chars, want at least %d", len(signature), MinSignatureLen)
	}
	if !strings.HasPrefix(signature, "0x") {
		return nil, fmt.Errorf("signature must be 0x-prefixed hex")
	}
	sigBytes, err := hexutil.Decode(signature)
	if err != nil {
		return nil, fmt.Errorf("malformed signature hex: %w", err)
	}

	digest := crypto.Keccak256(sigBytes)
	var buf [32]byte
	copy(buf[:], digest)
	buf[0] &= 0xf8
	buf[31] &= 0x7f
	buf[31] |= 0x40

	// interpret the clamped digest as little-endian
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	sk := new(big.Int).SetBytes(buf[:])
	sk.Mod(sk, curve.SubOrder)
	if sk.Sign() == 0 {
		sk.SetInt64(1)
	}
	return sk, nil
}

// FormatScalar applies the babyjub private-key formatting transform (the
// blake512 prune-and-shift step) to a raw scalar and reduces the result
// modulo the subgroup order. It must be applied everywhere a raw derived key
// is used as a scalar multiplier.
func FormatScalar(raw *big.Int) *big.Int {
	var sk babyjub.PrivateKey
	new(big.Int).Mod(raw, curve.SubOrder).FillBytes(sk[:])
	formatted := sk.Scalar().BigInt()
	return new(big.Int).Mod(formatted, curve.SubOrder)
}

// RegistrationMessage returns the fixed message a wallet signs to derive its
// encrypted-balance key. The address is bound in lowercase so the derivation
// is stable across checksum casings.
func RegistrationMessage(addr common.Address) string {
	return fmt.Sprintf("eERC\nRegistering user with\n Address:%s", strings.ToLower(addr.Hex()))
}
