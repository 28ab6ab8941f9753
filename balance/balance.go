// Package balance aggregates the on-chain encrypted balance state of one
// (user, token) pair into a single plaintext integer. The chain stores
// either a running ElGamal ciphertext (compact, preferred) or a set of
// additive Poseidon-ciphertext deltas; the aggregator decrypts whichever is
// populated and rescales from the fixed 2-decimal internal precision to the
// token's native decimals.
package balance

import (
	"errors"
	"math/big"

	"go.vocdoni.io/dvote/log"

	"github.com/stealthswap/eerc-primitives/ecdlp"
	"github.com/stealthswap/eerc-primitives/elgamal"
	"github.com/stealthswap/eerc-primitives/pct"
)

// InternalDecimals is the fixed precision used inside all ciphertexts,
// independent of each token's native decimal count.
const InternalDecimals = 2

// ErrBalanceOutOfRange reports that the running ElGamal ciphertext decrypted
// to a point whose discrete log exceeds the recoverable bound. It is
// distinct from a confirmed zero balance so callers cannot silently mask a
// large or corrupted balance.
var ErrBalanceOutOfRange = errors.New("balance: encrypted balance above recoverable bound")

// Record is the canonical shape of the on-chain encrypted balance state,
// parsed once at the contract-binding boundary.
type Record struct {
	// EGCT is the running ElGamal total. The all-zero sentinel means the
	// running total is not initialized and the PCT deltas are
	// authoritative.
	EGCT elgamal.Ciphertext
	// AmountPCTs are the per-deposit/transfer amount receipts.
	AmountPCTs []pct.Ciphertext
	// BalancePCT is the balance snapshot receipt, if any.
	BalancePCT pct.Ciphertext
	// TransactionIndex is the record's on-chain sequence number.
	TransactionIndex *big.Int
}

// Decryptor turns encrypted balance records into plaintext integers. The
// zero value is not usable; construct it with NewDecryptor so the recoverer
// state is owned explicitly rather than shared process-wide.
type Decryptor struct {
	recoverer *ecdlp.Recoverer
}

// NewDecryptor builds a Decryptor. A nil recoverer gets a private exact
// (baby-step/giant-step) recoverer with its own cache.
func NewDecryptor(recoverer *ecdlp.Recoverer) *Decryptor {
	if recoverer == nil {
		recoverer = ecdlp.NewRecoverer(nil, true)
	}
	return &Decryptor{recoverer: recoverer}
}

// Decrypt returns the record's balance rescaled to targetDecimals.
//
// If the running ElGamal total is initialized it is authoritative: it is
// decrypted to a point, the discrete log recovered, and a recovery miss
// surfaces as ErrBalanceOutOfRange. Otherwise the balance snapshot PCT and
// the amount delta PCTs are decrypted and summed; individual malformed
// entries are skipped and logged so one bad receipt cannot block the whole
// balance.
func (d *Decryptor) Decrypt(privKey *big.Int, record *Record, targetDecimals uint8) (*big.Int, error) {
	if !record.EGCT.IsZero() {
		point := elgamal.Decrypt(privKey, &record.EGCT)
		v, ok := d.recoverer.Recover(point)
		if !ok {
			return nil, ErrBalanceOutOfRange
		}
		return Rescale(v, targetDecimals), nil
	}

	total := new(big.Int)
	if !record.BalancePCT.IsZero() {
		if v, err := record.BalancePCT.Decrypt(privKey, 1); err != nil {
			log.Warnw("skipping undecryptable balance receipt", "err", err.Error())
		} else {
			total.Add(total, Rescale(v[0], targetDecimals))
		}
	}
	for i := range record.AmountPCTs {
		entry := &record.AmountPCTs[i]
		if entry.IsZero() {
			continue
		}
		v, err := entry.Decrypt(privKey, 1)
		if err != nil {
			log.Warnw("skipping undecryptable amount receipt", "index", i, "err", err.Error())
			continue
		}
		total.Add(total, Rescale(v[0], targetDecimals))
	}
	return total, nil
}

// Rescale converts a 2-decimal internal value to targetDecimals using exact
// integer arithmetic. Targets below the internal precision truncate;
// tokens with fewer than 2 decimals are treated as not existing in
// practice, so the loss is accepted.
func Rescale(v *big.Int, targetDecimals uint8) *big.Int {
	diff := int(targetDecimals) - InternalDecimals
	if diff >= 0 {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(diff)), nil)
		return new(big.Int).Mul(v, scale)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-diff)), nil)
	return new(big.Int).Quo(v, scale)
}
