// Package testutil provides deterministic Ethereum test wallets able to
// produce the personal-sign signatures the key derivation consumes.
package testutil

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"go.vocdoni.io/dvote/util"

	"github.com/stealthswap/eerc-primitives/curve"
)

// Wallet is a secp256k1 test account that signs messages the way a browser
// wallet does.
type Wallet struct {
	privKey *ecdsa.PrivateKey
	Address common.Address
}

// NewWallet generates a fresh random test wallet.
func NewWallet() (*Wallet, error) {
	privKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate wallet key: %w", err)
	}
	return &Wallet{
		privKey: privKey,
		Address: crypto.PubkeyToAddress(privKey.PublicKey),
	}, nil
}

// NewWalletFromHex builds a wallet from a fixed hex-encoded private key, for
// tests that need a stable address across runs.
func NewWalletFromHex(hexKey string) (*Wallet, error) {
	privKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse wallet key: %w", err)
	}
	return &Wallet{
		privKey: privKey,
		Address: crypto.PubkeyToAddress(privKey.PublicKey),
	}, nil
}

// Sign produces an EIP-191 personal-sign signature over the message,
// 0x-prefixed with the legacy 27/28 recovery id. It satisfies the signer
// interface the key deriver expects.
func (w *Wallet) Sign(_ context.Context, message string) (string, error) {
	prefixed := "\x19Ethereum Signed Message:\n" + strconv.Itoa(len(message)) + message
	hash := crypto.Keccak256([]byte(prefixed))
	sig, err := crypto.Sign(hash, w.privKey)
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}

// RandomScalar returns a random scalar below the curve subgroup order.
func RandomScalar() *big.Int {
	return new(big.Int).Mod(new(big.Int).SetBytes(util.RandomBytes(32)), curve.SubOrder)
}
