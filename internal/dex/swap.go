package dex

import (
	"errors"
	"math/big"
)

// ErrInvalidPoolState is returned for zero or otherwise unusable reserves.
var ErrInvalidPoolState = errors.New("invalid pool state")

// CalculateSwap computes the expected output amount and price impact for a
// constant-product swap: amountOut = reserveOut * amountIn / (reserveIn + amountIn),
// truncated to whole smallest units.
//
// The price impact is the fraction of input-side liquidity consumed by the
// trade: amountIn / (reserveIn + amountIn). It is a slippage proxy, not
// realized-output slippage; downstream thresholds are tuned against this
// exact definition.
func CalculateSwap(amountIn, reserveIn, reserveOut uint64) (uint64, float64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, 0, ErrInvalidPoolState
	}
	if amountIn == 0 {
		return 0, 0, nil
	}

	// reserveOut * amountIn overflows uint64 for realistic pool sizes,
	// so the product goes through big.Int.
	num := new(big.Int).Mul(
		new(big.Int).SetUint64(reserveOut),
		new(big.Int).SetUint64(amountIn),
	)
	den := new(big.Int).Add(
		new(big.Int).SetUint64(reserveIn),
		new(big.Int).SetUint64(amountIn),
	)
	out := new(big.Int).Quo(num, den)

	impact := float64(amountIn) / (float64(reserveIn) + float64(amountIn))

	return out.Uint64(), impact, nil
}
