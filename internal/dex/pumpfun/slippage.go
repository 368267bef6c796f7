// =============================
// File: internal/dex/pumpfun/slippage.go
// =============================
package pumpfun

import (
	"lukechampine.com/uint128"
)

// CalculateWithSlippageBuy returns the maximum SOL cost for a buy:
// amount * (10000 + bps) / 10000, truncated and saturated at MaxUint64.
func CalculateWithSlippageBuy(amount, basisPoints uint64) uint64 {
	// amount*10000 divides exactly, so only the bps term is truncated.
	extra := uint128.From64(amount).Mul64(basisPoints).Div64(BasisPointsDenominator)
	return saturatingAdd(amount, narrow(extra))
}

// CalculateWithSlippageSell returns the minimum SOL output for a sell:
// amount * (10000 - bps) / 10000, truncated. A tolerance above 10000 bp yields 0.
func CalculateWithSlippageSell(amount, basisPoints uint64) uint64 {
	if basisPoints >= BasisPointsDenominator {
		return 0
	}
	return uint128.From64(amount).Mul64(BasisPointsDenominator - basisPoints).Div64(BasisPointsDenominator).Lo
}

// slippageOrDefault resolves an optional tolerance.
func slippageOrDefault(bps *uint64) uint64 {
	if bps == nil {
		return DefaultSlippageBasisPoints
	}
	return *bps
}
