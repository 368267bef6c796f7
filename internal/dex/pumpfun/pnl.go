package pumpfun

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// PnL values a token position at the curve's current reserves. Amounts are lamports.
type PnL struct {
	TokenAmount   uint64
	CostBasis     uint64
	SellEstimate  uint64 // net of the protocol fee
	NetPnL        int64
	PnLPercentage float64
}

// CalculatePnL values tokenAmount against curve, assuming the whole position
// is sold at once. costBasis is what was paid for it.
func CalculatePnL(curve *BondingCurveAccount, tokenAmount, costBasis, feeBasisPoints uint64) (*PnL, error) {
	sell, err := curve.GetSellPrice(tokenAmount, feeBasisPoints)
	if err != nil {
		return nil, err
	}

	p := &PnL{
		TokenAmount:  tokenAmount,
		CostBasis:    costBasis,
		SellEstimate: sell,
		NetPnL:       int64(sell) - int64(costBasis),
	}
	if costBasis > 0 {
		p.PnLPercentage = float64(p.NetPnL) / float64(costBasis) * 100
	}
	return p, nil
}

// PositionPnL values the payer's balance of mint.
func (c *Client) PositionPnL(ctx context.Context, mint solana.PublicKey, costBasis uint64) (*PnL, error) {
	global, err := c.GetGlobalAccount(ctx)
	if err != nil {
		return nil, err
	}
	curve, err := c.GetBondingCurveAccount(ctx, mint)
	if err != nil {
		return nil, err
	}
	ata, err := c.payer.GetATA(mint)
	if err != nil {
		return nil, err
	}
	balance, err := c.chain.GetTokenBalance(ctx, ata)
	if err != nil {
		return nil, fmt.Errorf("failed to get token balance: %w", err)
	}

	pnl, err := CalculatePnL(curve, balance, costBasis, global.FeeBasisPoints)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("PnL calculation completed",
		zap.String("mint", mint.String()),
		zap.Uint64("token_amount", pnl.TokenAmount),
		zap.Uint64("cost_basis", pnl.CostBasis),
		zap.Uint64("sell_estimate", pnl.SellEstimate),
		zap.Int64("net_pnl", pnl.NetPnL),
		zap.Float64("pnl_percentage", pnl.PnLPercentage))
	return pnl, nil
}
