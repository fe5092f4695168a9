package model

import (
	"math/big"

	"github.com/0xGeorgii/interstellar/internal/consts"
)

// Amount is a decimal-string quantity in a chain's smallest unit. All
// comparisons on the funding and slippage paths go through big.Int/big.Rat,
// never through floats.
type Amount struct {
	Value   string `json:"value"`
	Decimal int    `json:"decimal"`
}

func (a *Amount) BigInt() (*big.Int, bool) {
	return new(big.Int).SetString(a.Value, 10)
}

func (a *Amount) Positive() bool {
	v, ok := a.BigInt()
	return ok && v.Sign() > 0
}

// Cmp compares two amounts of the same decimal precision. Returns false when
// either value is not a valid decimal string.
func (a *Amount) Cmp(other *Amount) (int, bool) {
	x, ok := a.BigInt()
	if !ok {
		return 0, false
	}
	y, ok := other.BigInt()
	if !ok {
		return 0, false
	}
	return x.Cmp(y), true
}

// WithinSlippage reports whether take/make, normalized by each side's decimal
// precision, stays inside [1 - bps/10000, 1 + bps/10000]. Exact rational
// arithmetic; the band boundaries are inclusive.
func WithinSlippage(make, take *Amount, bps int64) bool {
	makeInt, ok := make.BigInt()
	if !ok || makeInt.Sign() <= 0 {
		return false
	}
	takeInt, ok := take.BigInt()
	if !ok || takeInt.Sign() <= 0 {
		return false
	}

	makeUnits := new(big.Rat).SetFrac(makeInt, pow10(make.Decimal))
	takeUnits := new(big.Rat).SetFrac(takeInt, pow10(take.Decimal))

	ratio := new(big.Rat).Quo(takeUnits, makeUnits)

	lower := big.NewRat(consts.BPS_DENOMINATOR-bps, consts.BPS_DENOMINATOR)
	upper := big.NewRat(consts.BPS_DENOMINATOR+bps, consts.BPS_DENOMINATOR)

	return ratio.Cmp(lower) >= 0 && ratio.Cmp(upper) <= 0
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
