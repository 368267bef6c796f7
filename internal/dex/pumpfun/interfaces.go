// =============================
// File: internal/dex/pumpfun/interfaces.go
// =============================
package pumpfun

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// AccountReader is the subset of the RPC client needed to load program accounts.
// A missing account must be reported with an error matching solbc.ErrAccountNotFound.
type AccountReader interface {
	GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, solana.PublicKey, error)
}

// ChainClient is everything the trading client needs from the chain.
type ChainClient interface {
	AccountReader
	AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error)
	GetTokenBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	GetRecentBlockhash(ctx context.Context) (solana.Hash, error)
	SendAndConfirm(ctx context.Context, tx *solana.Transaction, commitment rpc.CommitmentType) (solana.Signature, error)
}
