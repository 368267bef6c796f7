// ==============================================
// File: internal/dex/pumpfun/bonding_curve.go
// ==============================================
package pumpfun

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/blockchain/solbc"
	"go.uber.org/zap"
	"lukechampine.com/uint128"
)

var (
	// ErrBondingCurveNotFound is returned when no curve account exists for a mint.
	ErrBondingCurveNotFound = errors.New("bonding curve not found")

	// ErrBondingCurveComplete is returned by pricing on a curve that has migrated.
	ErrBondingCurveComplete = errors.New("bonding curve is complete")

	// ErrInsufficientReserves is returned when a buy-out would drain the virtual reserves.
	ErrInsufficientReserves = errors.New("insufficient virtual token reserves")
)

// BondingCurveAccount is the per-mint curve state.
type BondingCurveAccount struct {
	Discriminator        [8]byte
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
	Creator              solana.PublicKey
}

// DecodeBondingCurveAccount deserializes raw curve account data.
func DecodeBondingCurveAccount(data []byte) (*BondingCurveAccount, error) {
	account := &BondingCurveAccount{}
	if err := bin.NewBorshDecoder(data).Decode(account); err != nil {
		return nil, fmt.Errorf("failed to decode bonding curve account (%d bytes): %w", len(data), err)
	}
	return account, nil
}

// FetchBondingCurveAccount loads the curve account for mint.
func FetchBondingCurveAccount(ctx context.Context, client AccountReader, mint solana.PublicKey, logger *zap.Logger) (*BondingCurveAccount, error) {
	addr := GetBondingCurvePDA(mint)

	data, _, err := client.GetAccountData(ctx, addr)
	if err != nil {
		if errors.Is(err, solbc.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: mint %s", ErrBondingCurveNotFound, mint.String())
		}
		return nil, fmt.Errorf("failed to get bonding curve account info: %w", err)
	}

	curve, err := DecodeBondingCurveAccount(data)
	if err != nil {
		return nil, err
	}

	logger.Debug("Bonding curve loaded",
		zap.String("mint", mint.String()),
		zap.String("bonding_curve", addr.String()),
		zap.Uint64("virtual_token_reserves", curve.VirtualTokenReserves),
		zap.Uint64("virtual_sol_reserves", curve.VirtualSolReserves),
		zap.Uint64("real_token_reserves", curve.RealTokenReserves),
		zap.Bool("complete", curve.Complete))

	return curve, nil
}

// GetBuyPrice returns the tokens received for amount lamports at the current reserves.
func (b *BondingCurveAccount) GetBuyPrice(amount uint64) (uint64, error) {
	if b.Complete {
		return 0, ErrBondingCurveComplete
	}
	if amount == 0 {
		return 0, nil
	}
	return constantProductTokensOut(b.VirtualSolReserves, b.VirtualTokenReserves, b.RealTokenReserves, amount), nil
}

// GetSellPrice returns the lamports received for amount tokens after the protocol fee.
func (b *BondingCurveAccount) GetSellPrice(amount, feeBasisPoints uint64) (uint64, error) {
	if b.Complete {
		return 0, ErrBondingCurveComplete
	}
	if amount == 0 {
		return 0, nil
	}

	n := uint128.From64(amount).Mul64(b.VirtualSolReserves).
		Div(uint128.From64(b.VirtualTokenReserves).Add64(amount))
	fee := n.Mul64(feeBasisPoints).Div64(BasisPointsDenominator)
	if fee.Cmp(n) >= 0 {
		return 0, nil
	}

	return narrow(n.Sub(fee)), nil
}

// GetMarketCapSol returns the market cap in lamports at the current virtual price.
func (b *BondingCurveAccount) GetMarketCapSol() uint64 {
	if b.VirtualTokenReserves == 0 {
		return 0
	}
	return narrow(uint128.From64(b.TokenTotalSupply).Mul64(b.VirtualSolReserves).Div64(b.VirtualTokenReserves))
}

// GetBuyOutPrice returns the lamports needed to buy amount tokens including fees.
func (b *BondingCurveAccount) GetBuyOutPrice(amount, feeBasisPoints uint64) (uint64, error) {
	solTokens := amount
	if amount < b.RealSolReserves {
		solTokens = b.RealSolReserves
	}
	if solTokens >= b.VirtualTokenReserves {
		return 0, fmt.Errorf("%w: need %d, have %d", ErrInsufficientReserves, solTokens, b.VirtualTokenReserves)
	}

	total := uint128.From64(solTokens).Mul64(b.VirtualSolReserves).
		Div64(b.VirtualTokenReserves - solTokens).
		Add64(1)
	fee := mulDiv(total, feeBasisPoints, BasisPointsDenominator)

	return saturatingAdd(narrow(total), fee), nil
}

// GetFinalMarketCapSol returns the market cap the curve reaches when all real tokens are sold.
func (b *BondingCurveAccount) GetFinalMarketCapSol(feeBasisPoints uint64) (uint64, error) {
	totalSellValue, err := b.GetBuyOutPrice(b.RealTokenReserves, feeBasisPoints)
	if err != nil {
		return 0, err
	}
	totalVirtualValue := uint128.From64(b.VirtualSolReserves).Add64(totalSellValue)
	totalVirtualTokens := b.VirtualTokenReserves - b.RealTokenReserves
	if totalVirtualTokens == 0 {
		return 0, ErrInsufficientReserves
	}
	return mulDiv(totalVirtualValue, b.TokenTotalSupply, totalVirtualTokens), nil
}

// SpotPriceSol returns the current price of one whole token in SOL.
// Float only, for display.
func (b *BondingCurveAccount) SpotPriceSol() float64 {
	if b.VirtualTokenReserves == 0 {
		return 0
	}
	virtualSol := float64(b.VirtualSolReserves) / math.Pow10(SolDecimals)
	virtualToken := float64(b.VirtualTokenReserves) / math.Pow10(TokenDecimals)
	return virtualSol / virtualToken
}

// mulDiv returns v*m/d saturated to uint64. The product may exceed 128 bits.
func mulDiv(v uint128.Uint128, m, d uint64) uint64 {
	r := new(big.Int).Mul(v.Big(), new(big.Int).SetUint64(m))
	r.Quo(r, new(big.Int).SetUint64(d))
	if !r.IsUint64() {
		return math.MaxUint64
	}
	return r.Uint64()
}

func saturatingAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

// narrow saturates a 128-bit value to uint64.
func narrow(v uint128.Uint128) uint64 {
	if v.Hi != 0 {
		return math.MaxUint64
	}
	return v.Lo
}
