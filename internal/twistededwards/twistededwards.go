// Package twistededwards converts BabyJubJub points between the standard
// TwistedEdwards form used by iden3 (and the on-chain verifiers) and the
// Reduced TwistedEdwards form gnark's native curve implementation expects.
// Witness points must be converted before being assigned to a gnark circuit.
// See https://github.com/bellesmarta/baby_jubjub for the mapping.
package twistededwards

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// scalingFactor relates the two curve forms: x' = x * (-f) and x = x' / (-f),
// with y unchanged.
var scalingFactor, _ = new(big.Int).SetString("6360561867910373094066688120553762416144456282423235903351243436111059670888", 10)

// FromTEtoRTE maps a TwistedEdwards point to Reduced TwistedEdwards form.
func FromTEtoRTE(x, y *big.Int) (*big.Int, *big.Int) {
	var negF fr.Element
	negF.SetBigInt(scalingFactor)
	negF.Neg(&negF)

	var xTE fr.Element
	xTE.SetBigInt(x)
	xTE.Mul(&xTE, &negF)
	return xTE.BigInt(new(big.Int)), new(big.Int).Set(y)
}

// FromRTEtoTE maps a Reduced TwistedEdwards point back to TwistedEdwards
// form.
func FromRTEtoTE(x, y *big.Int) (*big.Int, *big.Int) {
	var negFInv fr.Element
	negFInv.SetBigInt(scalingFactor)
	negFInv.Neg(&negFInv)
	negFInv.Inverse(&negFInv)

	var xRTE fr.Element
	xRTE.SetBigInt(x)
	xRTE.Mul(&xRTE, &negFInv)
	return xRTE.BigInt(new(big.Int)), new(big.Int).Set(y)
}
