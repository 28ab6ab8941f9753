package prover

import (
	"context"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// Prover generates a proof for an assigned witness. Proof generation is
// compute-bound and may take seconds, so it is cancelable via the context.
type Prover interface {
	Prove(ctx context.Context, assignment frontend.Circuit) (*Proof, error)
}

// Compile builds the R1CS constraint system for a circuit over the BN254
// scalar field.
func Compile(circuit frontend.Circuit) (constraint.ConstraintSystem, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return nil, fmt.Errorf("prover: compile circuit: %w", err)
	}
	return ccs, nil
}

// Groth16Prover runs gnark Groth16 proving against a precompiled constraint
// system and proving key, both loaded by the caller from the verifier
// artifacts.
type Groth16Prover struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
}

// NewGroth16Prover wraps a constraint system and its proving key.
func NewGroth16Prover(ccs constraint.ConstraintSystem, pk groth16.ProvingKey) *Groth16Prover {
	return &Groth16Prover{ccs: ccs, pk: pk}
}

// Prove assigns the witness, runs Groth16 proving and formats the result
// for on-chain submission. A canceled context abandons the wait; the
// underlying proving computation is not interruptible and finishes in the
// background.
func (g *Groth16Prover) Prove(ctx context.Context, assignment frontend.Circuit) (*Proof, error) {
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("prover: build witness: %w", err)
	}
	public, err := w.Public()
	if err != nil {
		return nil, fmt.Errorf("prover: public witness: %w", err)
	}

	type result struct {
		proof groth16.Proof
		err   error
	}
	done := make(chan result, 1)
	go func() {
		proof, err := groth16.Prove(g.ccs, g.pk, w)
		done <- result{proof, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("prover: prove: %w", res.err)
		}
		return FormatProof(res.proof, public)
	}
}
