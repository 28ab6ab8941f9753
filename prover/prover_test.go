package prover

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	qt "github.com/frankban/quicktest"

	"github.com/stealthswap/eerc-primitives/curve"
	"github.com/stealthswap/eerc-primitives/elgamal"
	bjj "github.com/stealthswap/eerc-primitives/internal/twistededwards"
	"github.com/stealthswap/eerc-primitives/key"
)

func testPair(t *testing.T) *key.Pair {
	t.Helper()
	raw, err := rand.Int(rand.Reader, curve.SubOrder)
	if err != nil {
		t.Fatalf("rand scalar: %v", err)
	}
	return key.NewPair(raw)
}

func TestBuildTransferInputs(t *testing.T) {
	c := qt.New(t)
	sender := testPair(t)
	receiver := testPair(t)
	auditor := testPair(t)

	balance := big.NewInt(100000)
	balanceEGCT, _, err := elgamal.EncryptMessage(sender.PublicKey, balance, nil)
	c.Assert(err, qt.IsNil)

	amount := big.NewInt(300)
	in, err := BuildTransferInputs(sender, balance, balanceEGCT,
		receiver.PublicKey, auditor.PublicKey, amount)
	c.Assert(err, qt.IsNil)

	// The sender side carries the negated amount so the contract can add
	// it to the running balance ciphertext.
	negAmount := curve.NegX(curve.ScalarMul(curve.Base(), amount))
	c.Assert(curve.Equal(elgamal.Decrypt(sender.PrivateKey, in.SenderValueEGCT), negAmount), qt.IsTrue)

	// The receiver side carries the positive amount with its randomness
	// recorded for the witness.
	posAmount := curve.ScalarMul(curve.Base(), amount)
	c.Assert(curve.Equal(elgamal.Decrypt(receiver.PrivateKey, in.ReceiverValueEGCT), posAmount), qt.IsTrue)
	c.Assert(curve.Equal(in.ReceiverValueEGCT.C1, curve.ScalarMul(curve.Base(), in.ReceiverValueRandom)), qt.IsTrue)

	// Both PCT receipts decrypt back to the plaintext amount.
	got, err := in.ReceiverPCT.Decrypt(receiver.PrivateKey, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(got[0].Cmp(amount), qt.Equals, 0)
	got, err = in.AuditorPCT.Decrypt(auditor.PrivateKey, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(got[0].Cmp(amount), qt.Equals, 0)
}

func TestBuildTransferInputsValidation(t *testing.T) {
	c := qt.New(t)
	sender := testPair(t)
	receiver := testPair(t)
	auditor := testPair(t)

	balance := big.NewInt(500)
	balanceEGCT, _, err := elgamal.EncryptMessage(sender.PublicKey, balance, nil)
	c.Assert(err, qt.IsNil)

	_, err = BuildTransferInputs(sender, balance, balanceEGCT,
		receiver.PublicKey, nil, big.NewInt(100))
	c.Assert(err, qt.ErrorIs, ErrMissingAuditorKey)

	_, err = BuildTransferInputs(sender, balance, balanceEGCT,
		receiver.PublicKey, auditor.PublicKey, big.NewInt(501))
	c.Assert(err, qt.ErrorIs, ErrInsufficientBalance)

	_, err = BuildTransferInputs(sender, balance, balanceEGCT,
		nil, auditor.PublicKey, big.NewInt(100))
	c.Assert(err, qt.IsNotNil)

	_, err = BuildTransferInputs(sender, balance, balanceEGCT,
		receiver.PublicKey, auditor.PublicKey, big.NewInt(0))
	c.Assert(err, qt.IsNotNil)
}

func TestBuildWithdrawInputs(t *testing.T) {
	c := qt.New(t)
	sender := testPair(t)
	auditor := testPair(t)

	balance := big.NewInt(1000)
	balanceEGCT, _, err := elgamal.EncryptMessage(sender.PublicKey, balance, nil)
	c.Assert(err, qt.IsNil)

	amount := big.NewInt(250)
	in, err := BuildWithdrawInputs(sender, balance, balanceEGCT, auditor.PublicKey, amount)
	c.Assert(err, qt.IsNil)

	negAmount := curve.NegX(curve.ScalarMul(curve.Base(), amount))
	c.Assert(curve.Equal(elgamal.Decrypt(sender.PrivateKey, in.SenderValueEGCT), negAmount), qt.IsTrue)

	got, err := in.AuditorPCT.Decrypt(auditor.PrivateKey, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(got[0].Cmp(amount), qt.Equals, 0)

	_, err = BuildWithdrawInputs(sender, balance, balanceEGCT, nil, amount)
	c.Assert(err, qt.ErrorIs, ErrMissingAuditorKey)
	_, err = BuildWithdrawInputs(sender, balance, balanceEGCT, auditor.PublicKey, big.NewInt(1001))
	c.Assert(err, qt.ErrorIs, ErrInsufficientBalance)
}

func TestBuildMintInputs(t *testing.T) {
	c := qt.New(t)
	recipient := testPair(t)
	auditor := testPair(t)

	amount := big.NewInt(5000)
	in, err := BuildMintInputs(recipient, nil, elgamal.NewCiphertext(), auditor.PublicKey, amount)
	c.Assert(err, qt.IsNil)
	c.Assert(in.SenderBalance.Sign(), qt.Equals, 0)

	posAmount := curve.ScalarMul(curve.Base(), amount)
	c.Assert(curve.Equal(elgamal.Decrypt(recipient.PrivateKey, in.SenderValueEGCT), posAmount), qt.IsTrue)

	got, err := in.AuditorPCT.Decrypt(auditor.PrivateKey, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(got[0].Cmp(amount), qt.Equals, 0)
}

func TestTransferAssignmentPointForm(t *testing.T) {
	c := qt.New(t)
	sender := testPair(t)
	receiver := testPair(t)
	auditor := testPair(t)

	balance := big.NewInt(10000)
	balanceEGCT, _, err := elgamal.EncryptMessage(sender.PublicKey, balance, nil)
	c.Assert(err, qt.IsNil)

	in, err := BuildTransferInputs(sender, balance, balanceEGCT,
		receiver.PublicKey, auditor.PublicKey, big.NewInt(100))
	c.Assert(err, qt.IsNil)

	a, ok := in.Assignment().(*TransferCircuit)
	c.Assert(ok, qt.IsTrue)

	// Witness points must be in the reduced twisted Edwards form.
	wantX, wantY := bjj.FromTEtoRTE(sender.PublicKey.X, sender.PublicKey.Y)
	c.Assert(a.Sender.PublicKey.P.X.(*big.Int).Cmp(wantX), qt.Equals, 0)
	c.Assert(a.Sender.PublicKey.P.Y.(*big.Int).Cmp(wantY), qt.Equals, 0)

	wantX, wantY = bjj.FromTEtoRTE(in.ReceiverValueEGCT.C1.X, in.ReceiverValueEGCT.C1.Y)
	c.Assert(a.Receiver.ValueEGCT.C1.X.(*big.Int).Cmp(wantX), qt.Equals, 0)
	c.Assert(a.Receiver.ValueEGCT.C1.Y.(*big.Int).Cmp(wantY), qt.Equals, 0)

	c.Assert(a.Auditor.PCT.Nonce.(*big.Int).Cmp(in.AuditorPCT.Nonce), qt.Equals, 0)
	c.Assert(a.Auditor.PCT.Random.(*big.Int).Cmp(in.AuditorPCTRandom), qt.Equals, 0)
}

func TestRegistrationAssignment(t *testing.T) {
	c := qt.New(t)
	pair := testPair(t)

	in, err := BuildRegistrationInputs(pair)
	c.Assert(err, qt.IsNil)
	a, ok := in.Assignment().(*RegistrationCircuit)
	c.Assert(ok, qt.IsTrue)

	wantX, wantY := bjj.FromTEtoRTE(pair.PublicKey.X, pair.PublicKey.Y)
	c.Assert(a.Sender.PublicKey.P.X.(*big.Int).Cmp(wantX), qt.Equals, 0)
	c.Assert(a.Sender.PublicKey.P.Y.(*big.Int).Cmp(wantY), qt.Equals, 0)
	c.Assert(a.Sender.PrivateKey.(*big.Int).Cmp(pair.Formatted), qt.Equals, 0)

	_, err = BuildRegistrationInputs(nil)
	c.Assert(err, qt.IsNotNil)
}

func TestFormatProofCoordinateSwap(t *testing.T) {
	c := qt.New(t)
	_, _, g1, g2 := bn254.Generators()
	proof := &groth16_bn254.Proof{Ar: g1, Bs: g2, Krs: g1}

	out, err := FormatProof(proof, nil)
	c.Assert(err, qt.IsNil)

	c.Assert(out.A[0].Cmp(g1.X.BigInt(new(big.Int))), qt.Equals, 0)
	c.Assert(out.A[1].Cmp(g1.Y.BigInt(new(big.Int))), qt.Equals, 0)
	c.Assert(out.C[0].Cmp(g1.X.BigInt(new(big.Int))), qt.Equals, 0)

	// The G2 extension coordinates come out swapped.
	c.Assert(out.B[0][0].Cmp(g2.X.A1.BigInt(new(big.Int))), qt.Equals, 0)
	c.Assert(out.B[0][1].Cmp(g2.X.A0.BigInt(new(big.Int))), qt.Equals, 0)
	c.Assert(out.B[1][0].Cmp(g2.Y.A1.BigInt(new(big.Int))), qt.Equals, 0)
	c.Assert(out.B[1][1].Cmp(g2.Y.A0.BigInt(new(big.Int))), qt.Equals, 0)
	c.Assert(out.PublicSignals, qt.HasLen, 0)
}
