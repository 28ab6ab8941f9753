package prover

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
)

// Witness shells for the proving system. The constraint systems themselves
// live with the verifier artifacts and are loaded by the caller; these
// structs only fix the witness layout, which must match the on-chain
// verifier's public input ordering exactly.

// PublicKey wraps a curve point that is part of the public witness.
type PublicKey struct {
	P twistededwards.Point `gnark:",public"`
}

// ElGamalCiphertext is an encrypted value as seen by the circuit.
type ElGamalCiphertext struct {
	C1 twistededwards.Point `gnark:",public"`
	C2 twistededwards.Point `gnark:",public"`
}

// PoseidonCiphertext carries a PCT bundle plus the private encryption
// randomness needed to reprove the key exchange in-circuit.
type PoseidonCiphertext struct {
	Ciphertext [4]frontend.Variable `gnark:",public"`
	AuthKey    twistededwards.Point `gnark:",public"`
	Nonce      frontend.Variable    `gnark:",public"`
	Random     frontend.Variable
}

// Randomness wraps a private encryption scalar.
type Randomness struct {
	R frontend.Variable
}

// Sender groups the proving party's key material and encrypted balance.
type Sender struct {
	PrivateKey  frontend.Variable
	PublicKey   PublicKey
	Balance     frontend.Variable
	BalanceEGCT ElGamalCiphertext
	ValueEGCT   ElGamalCiphertext
}

// Receiver groups the counterparty side of a transfer.
type Receiver struct {
	PublicKey   PublicKey
	ValueEGCT   ElGamalCiphertext
	ValueRandom Randomness
	PCT         PoseidonCiphertext
}

// Auditor groups the compliance recipient of every operation.
type Auditor struct {
	PublicKey PublicKey
	PCT       PoseidonCiphertext
}

// RegistrationSender carries only the key pair being registered.
type RegistrationSender struct {
	PrivateKey frontend.Variable
	PublicKey  PublicKey
}

// RegistrationCircuit proves knowledge of the private key behind a public
// key at registration time.
type RegistrationCircuit struct {
	Sender RegistrationSender
}

// Define is intentionally empty. The compiled constraint system is an
// external verifier artifact; this shell exists so the assignment can be
// turned into a gnark witness with the right schema.
func (c *RegistrationCircuit) Define(frontend.API) error { return nil }

// TransferCircuit is the witness layout of a private transfer.
type TransferCircuit struct {
	Sender          Sender
	Receiver        Receiver
	Auditor         Auditor
	ValueToTransfer frontend.Variable
}

func (c *TransferCircuit) Define(frontend.API) error { return nil }

// WithdrawCircuit is the witness layout of a burn-to-public withdrawal.
// The withdrawn amount is a public signal checked by the contract.
type WithdrawCircuit struct {
	Sender          Sender
	Auditor         Auditor
	ValueToWithdraw frontend.Variable `gnark:",public"`
}

func (c *WithdrawCircuit) Define(frontend.API) error { return nil }

// MintCircuit is the witness layout of a mint into an encrypted balance.
type MintCircuit struct {
	Sender      Sender
	Auditor     Auditor
	ValueToMint frontend.Variable `gnark:",public"`
}

func (c *MintCircuit) Define(frontend.API) error { return nil }
