package balance

import (
	"math/big"

	"github.com/stealthswap/eerc-primitives/curve"
	"github.com/stealthswap/eerc-primitives/elgamal"
	"github.com/stealthswap/eerc-primitives/pct"
)

// ParseRecord converts the raw scalar layout returned by the encrypted-token
// contract into the canonical Record. This is the only place raw contract
// tuples are handled; everything past this boundary sees one shape.
//
// egct is [c1.x, c1.y, c2.x, c2.y]; each PCT is the packed
// [ciphertext(4), authKey(2), nonce] layout.
func ParseRecord(
	egct [4]*big.Int,
	balancePCT [pct.PackedWords]*big.Int,
	amountPCTs [][pct.PackedWords]*big.Int,
	transactionIndex *big.Int,
) *Record {
	record := &Record{
		EGCT: elgamal.Ciphertext{
			C1: curve.NewPoint(orZero(egct[0]), orZero(egct[1])),
			C2: curve.NewPoint(orZero(egct[2]), orZero(egct[3])),
		},
		BalancePCT:       *pct.FromPacked(balancePCT),
		TransactionIndex: orZero(transactionIndex),
	}
	for _, packed := range amountPCTs {
		record.AmountPCTs = append(record.AmountPCTs, *pct.FromPacked(packed))
	}
	return record
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
