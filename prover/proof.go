package prover

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
	"github.com/consensys/gnark/backend/witness"
)

// Proof is the on-chain calldata form of a Groth16 proof: two G1 points, a
// G2 point with swapped coordinate order, and the public signals.
type Proof struct {
	A             [2]*big.Int
	B             [2][2]*big.Int
	C             [2]*big.Int
	PublicSignals []*big.Int
}

// FormatProof converts a gnark Groth16 proof over BN254 into the calldata
// layout the verifier contract expects. The G2 component is serialized with
// its extension coordinates swapped, [x1, x0] instead of [x0, x1], which is
// how EVM pairing precompile verifiers consume it. publicWitness may be nil
// when the caller assembles the signals separately.
func FormatProof(proof groth16.Proof, publicWitness witness.Witness) (*Proof, error) {
	p, ok := proof.(*groth16_bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("prover: unexpected proof type %T", proof)
	}

	out := &Proof{
		A: [2]*big.Int{
			p.Ar.X.BigInt(new(big.Int)),
			p.Ar.Y.BigInt(new(big.Int)),
		},
		B: [2][2]*big.Int{
			{p.Bs.X.A1.BigInt(new(big.Int)), p.Bs.X.A0.BigInt(new(big.Int))},
			{p.Bs.Y.A1.BigInt(new(big.Int)), p.Bs.Y.A0.BigInt(new(big.Int))},
		},
		C: [2]*big.Int{
			p.Krs.X.BigInt(new(big.Int)),
			p.Krs.Y.BigInt(new(big.Int)),
		},
	}

	if publicWitness != nil {
		vec, ok := publicWitness.Vector().(fr.Vector)
		if !ok {
			return nil, fmt.Errorf("prover: unexpected witness vector type %T", publicWitness.Vector())
		}
		out.PublicSignals = make([]*big.Int, len(vec))
		for i := range vec {
			out.PublicSignals[i] = vec[i].BigInt(new(big.Int))
		}
	}
	return out, nil
}
