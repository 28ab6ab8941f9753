package prover

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/iden3/go-iden3-crypto/babyjub"

	"github.com/stealthswap/eerc-primitives/curve"
	"github.com/stealthswap/eerc-primitives/elgamal"
	bjj "github.com/stealthswap/eerc-primitives/internal/twistededwards"
	"github.com/stealthswap/eerc-primitives/key"
	"github.com/stealthswap/eerc-primitives/pct"
)

var (
	// ErrMissingAuditorKey is returned when an operation that must produce
	// an auditor PCT is built without the auditor's public key.
	ErrMissingAuditorKey = errors.New("prover: missing auditor public key")
	// ErrInsufficientBalance is returned when the requested amount exceeds
	// the decrypted balance the proof would have to certify.
	ErrInsufficientBalance = errors.New("prover: amount exceeds balance")
)

// RegistrationInputs holds everything needed to assign a registration
// witness.
type RegistrationInputs struct {
	PrivateKey *big.Int
	PublicKey  *babyjub.Point
}

// BuildRegistrationInputs prepares the registration witness for a derived
// key pair.
func BuildRegistrationInputs(pair *key.Pair) (*RegistrationInputs, error) {
	if pair == nil {
		return nil, fmt.Errorf("prover: missing key pair")
	}
	return &RegistrationInputs{
		PrivateKey: pair.Formatted,
		PublicKey:  pair.PublicKey,
	}, nil
}

// Assignment maps the inputs onto the registration witness shell.
func (in *RegistrationInputs) Assignment() frontend.Circuit {
	return &RegistrationCircuit{
		Sender: RegistrationSender{
			PrivateKey: in.PrivateKey,
			PublicKey:  PublicKey{P: rtePoint(in.PublicKey)},
		},
	}
}

// TransferInputs is the fully encrypted witness material for one private
// transfer. The field layout follows the contract call argument ordering.
type TransferInputs struct {
	SenderPrivateKey  *big.Int
	SenderPublicKey   *babyjub.Point
	SenderBalance     *big.Int
	SenderBalanceEGCT *elgamal.Ciphertext
	SenderValueEGCT   *elgamal.Ciphertext

	ReceiverPublicKey   *babyjub.Point
	ReceiverValueEGCT   *elgamal.Ciphertext
	ReceiverValueRandom *big.Int
	ReceiverPCT         *pct.Ciphertext
	ReceiverPCTRandom   *big.Int

	AuditorPublicKey *babyjub.Point
	AuditorPCT       *pct.Ciphertext
	AuditorPCTRandom *big.Int

	Amount *big.Int
}

// BuildTransferInputs encrypts a transfer amount for all three parties. The
// sender's value ciphertext encodes the negated amount so that adding it to
// the running balance ciphertext subtracts homomorphically; the receiver's
// encodes the positive amount. Both the receiver and the auditor get a PCT
// receipt of the plaintext amount.
func BuildTransferInputs(sender *key.Pair, senderBalance *big.Int,
	balanceEGCT *elgamal.Ciphertext, receiverPub, auditorPub *babyjub.Point,
	amount *big.Int) (*TransferInputs, error) {
	if sender == nil {
		return nil, fmt.Errorf("prover: missing sender key pair")
	}
	if receiverPub == nil {
		return nil, fmt.Errorf("prover: missing receiver public key")
	}
	if auditorPub == nil {
		return nil, ErrMissingAuditorKey
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("prover: invalid transfer amount")
	}
	if senderBalance == nil || amount.Cmp(senderBalance) > 0 {
		return nil, ErrInsufficientBalance
	}

	senderValueEGCT, _, err := elgamal.EncryptMessage(sender.PublicKey, curve.NegScalar(amount), nil)
	if err != nil {
		return nil, fmt.Errorf("prover: encrypt sender value: %w", err)
	}
	receiverValueEGCT, receiverRandom, err := elgamal.EncryptMessage(receiverPub, amount, nil)
	if err != nil {
		return nil, fmt.Errorf("prover: encrypt receiver value: %w", err)
	}
	receiverPCT, receiverPCTRandom, err := pct.Encrypt([]*big.Int{amount}, receiverPub)
	if err != nil {
		return nil, fmt.Errorf("prover: receiver pct: %w", err)
	}
	auditorPCT, auditorPCTRandom, err := pct.Encrypt([]*big.Int{amount}, auditorPub)
	if err != nil {
		return nil, fmt.Errorf("prover: auditor pct: %w", err)
	}

	return &TransferInputs{
		SenderPrivateKey:  sender.Formatted,
		SenderPublicKey:   sender.PublicKey,
		SenderBalance:     new(big.Int).Set(senderBalance),
		SenderBalanceEGCT: balanceEGCT,
		SenderValueEGCT:   senderValueEGCT,

		ReceiverPublicKey:   receiverPub,
		ReceiverValueEGCT:   receiverValueEGCT,
		ReceiverValueRandom: receiverRandom,
		ReceiverPCT:         receiverPCT,
		ReceiverPCTRandom:   receiverPCTRandom,

		AuditorPublicKey: auditorPub,
		AuditorPCT:       auditorPCT,
		AuditorPCTRandom: auditorPCTRandom,

		Amount: new(big.Int).Set(amount),
	}, nil
}

// Assignment maps the inputs onto the transfer witness shell, converting
// every curve point to the in-circuit twisted Edwards form.
func (in *TransferInputs) Assignment() frontend.Circuit {
	return &TransferCircuit{
		Sender: Sender{
			PrivateKey:  in.SenderPrivateKey,
			PublicKey:   PublicKey{P: rtePoint(in.SenderPublicKey)},
			Balance:     in.SenderBalance,
			BalanceEGCT: rteCiphertext(in.SenderBalanceEGCT),
			ValueEGCT:   rteCiphertext(in.SenderValueEGCT),
		},
		Receiver: Receiver{
			PublicKey:   PublicKey{P: rtePoint(in.ReceiverPublicKey)},
			ValueEGCT:   rteCiphertext(in.ReceiverValueEGCT),
			ValueRandom: Randomness{R: in.ReceiverValueRandom},
			PCT:         rtePCT(in.ReceiverPCT, in.ReceiverPCTRandom),
		},
		Auditor: Auditor{
			PublicKey: PublicKey{P: rtePoint(in.AuditorPublicKey)},
			PCT:       rtePCT(in.AuditorPCT, in.AuditorPCTRandom),
		},
		ValueToTransfer: in.Amount,
	}
}

// WithdrawInputs is the witness material for burning an encrypted amount
// back to a public token balance.
type WithdrawInputs struct {
	SenderPrivateKey  *big.Int
	SenderPublicKey   *babyjub.Point
	SenderBalance     *big.Int
	SenderBalanceEGCT *elgamal.Ciphertext
	SenderValueEGCT   *elgamal.Ciphertext

	AuditorPublicKey *babyjub.Point
	AuditorPCT       *pct.Ciphertext
	AuditorPCTRandom *big.Int

	Amount *big.Int
}

// BuildWithdrawInputs encrypts the negated withdrawal amount under the
// sender's own key and produces the auditor receipt. The amount itself is a
// public signal.
func BuildWithdrawInputs(sender *key.Pair, senderBalance *big.Int,
	balanceEGCT *elgamal.Ciphertext, auditorPub *babyjub.Point,
	amount *big.Int) (*WithdrawInputs, error) {
	if sender == nil {
		return nil, fmt.Errorf("prover: missing sender key pair")
	}
	if auditorPub == nil {
		return nil, ErrMissingAuditorKey
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("prover: invalid withdraw amount")
	}
	if senderBalance == nil || amount.Cmp(senderBalance) > 0 {
		return nil, ErrInsufficientBalance
	}

	senderValueEGCT, _, err := elgamal.EncryptMessage(sender.PublicKey, curve.NegScalar(amount), nil)
	if err != nil {
		return nil, fmt.Errorf("prover: encrypt withdraw value: %w", err)
	}
	auditorPCT, auditorPCTRandom, err := pct.Encrypt([]*big.Int{amount}, auditorPub)
	if err != nil {
		return nil, fmt.Errorf("prover: auditor pct: %w", err)
	}

	return &WithdrawInputs{
		SenderPrivateKey:  sender.Formatted,
		SenderPublicKey:   sender.PublicKey,
		SenderBalance:     new(big.Int).Set(senderBalance),
		SenderBalanceEGCT: balanceEGCT,
		SenderValueEGCT:   senderValueEGCT,

		AuditorPublicKey: auditorPub,
		AuditorPCT:       auditorPCT,
		AuditorPCTRandom: auditorPCTRandom,

		Amount: new(big.Int).Set(amount),
	}, nil
}

// Assignment maps the inputs onto the withdraw witness shell.
func (in *WithdrawInputs) Assignment() frontend.Circuit {
	return &WithdrawCircuit{
		Sender: Sender{
			PrivateKey:  in.SenderPrivateKey,
			PublicKey:   PublicKey{P: rtePoint(in.SenderPublicKey)},
			Balance:     in.SenderBalance,
			BalanceEGCT: rteCiphertext(in.SenderBalanceEGCT),
			ValueEGCT:   rteCiphertext(in.SenderValueEGCT),
		},
		Auditor: Auditor{
			PublicKey: PublicKey{P: rtePoint(in.AuditorPublicKey)},
			PCT:       rtePCT(in.AuditorPCT, in.AuditorPCTRandom),
		},
		ValueToWithdraw: in.Amount,
	}
}

// MintInputs is the witness material for minting into an encrypted balance.
type MintInputs struct {
	SenderPrivateKey  *big.Int
	SenderPublicKey   *babyjub.Point
	SenderBalance     *big.Int
	SenderBalanceEGCT *elgamal.Ciphertext
	SenderValueEGCT   *elgamal.Ciphertext

	AuditorPublicKey *babyjub.Point
	AuditorPCT       *pct.Ciphertext
	AuditorPCTRandom *big.Int

	Amount *big.Int
}

// BuildMintInputs encrypts the positive mint amount under the recipient's
// key and produces the auditor receipt.
func BuildMintInputs(recipient *key.Pair, balance *big.Int,
	balanceEGCT *elgamal.Ciphertext, auditorPub *babyjub.Point,
	amount *big.Int) (*MintInputs, error) {
	if recipient == nil {
		return nil, fmt.Errorf("prover: missing recipient key pair")
	}
	if auditorPub == nil {
		return nil, ErrMissingAuditorKey
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("prover: invalid mint amount")
	}

	valueEGCT, _, err := elgamal.EncryptMessage(recipient.PublicKey, amount, nil)
	if err != nil {
		return nil, fmt.Errorf("prover: encrypt mint value: %w", err)
	}
	auditorPCT, auditorPCTRandom, err := pct.Encrypt([]*big.Int{amount}, auditorPub)
	if err != nil {
		return nil, fmt.Errorf("prover: auditor pct: %w", err)
	}

	if balance == nil {
		balance = big.NewInt(0)
	}
	return &MintInputs{
		SenderPrivateKey:  recipient.Formatted,
		SenderPublicKey:   recipient.PublicKey,
		SenderBalance:     new(big.Int).Set(balance),
		SenderBalanceEGCT: balanceEGCT,
		SenderValueEGCT:   valueEGCT,

		AuditorPublicKey: auditorPub,
		AuditorPCT:       auditorPCT,
		AuditorPCTRandom: auditorPCTRandom,

		Amount: new(big.Int).Set(amount),
	}, nil
}

// Assignment maps the inputs onto the mint witness shell.
func (in *MintInputs) Assignment() frontend.Circuit {
	return &MintCircuit{
		Sender: Sender{
			PrivateKey:  in.SenderPrivateKey,
			PublicKey:   PublicKey{P: rtePoint(in.SenderPublicKey)},
			Balance:     in.SenderBalance,
			BalanceEGCT: rteCiphertext(in.SenderBalanceEGCT),
			ValueEGCT:   rteCiphertext(in.SenderValueEGCT),
		},
		Auditor: Auditor{
			PublicKey: PublicKey{P: rtePoint(in.AuditorPublicKey)},
			PCT:       rtePCT(in.AuditorPCT, in.AuditorPCTRandom),
		},
		ValueToMint: in.Amount,
	}
}

// rtePoint converts a babyjub point to the reduced twisted Edwards form the
// circuits operate in.
func rtePoint(p *babyjub.Point) twistededwards.Point {
	x, y := bjj.FromTEtoRTE(p.X, p.Y)
	return twistededwards.Point{X: x, Y: y}
}

func rteCiphertext(ct *elgamal.Ciphertext) ElGamalCiphertext {
	return ElGamalCiphertext{
		C1: rtePoint(ct.C1),
		C2: rtePoint(ct.C2),
	}
}

func rtePCT(ct *pct.Ciphertext, random *big.Int) PoseidonCiphertext {
	authKey := curve.NewPoint(ct.AuthKey[0], ct.AuthKey[1])
	return PoseidonCiphertext{
		Ciphertext: [4]frontend.Variable{
			ct.Ciphertext[0], ct.Ciphertext[1], ct.Ciphertext[2], ct.Ciphertext[3],
		},
		AuthKey: rtePoint(authKey),
		Nonce:   ct.Nonce,
		Random:  random,
	}
}
