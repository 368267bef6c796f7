// =============================================
// File: internal/dex/pumpfun/global_account.go
// =============================================
package pumpfun

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"lukechampine.com/uint128"
)

// ErrCorruptGlobalAccount is returned when the global account violates its own invariants.
var ErrCorruptGlobalAccount = errors.New("corrupt global account")

// GlobalAccount represents the structure of the PumpFun global account data.
// Field order matches the on-chain layout.
type GlobalAccount struct {
	Discriminator               [8]byte
	Initialized                 bool
	Authority                   solana.PublicKey
	FeeRecipient                solana.PublicKey
	InitialVirtualTokenReserves uint64
	InitialVirtualSolReserves   uint64
	InitialRealTokenReserves    uint64
	TokenTotalSupply            uint64
	FeeBasisPoints              uint64
	WithdrawAuthority           solana.PublicKey
	EnableMigrate               bool
	PoolMigrationFee            uint64
	CreatorFeeBasisPoints       uint64
	FeeRecipients               [7]solana.PublicKey
	SetCreatorAuthority         solana.PublicKey
}

// DecodeGlobalAccount deserializes raw account data. Trailing bytes are ignored
// so that fields appended by later program upgrades do not break decoding.
func DecodeGlobalAccount(data []byte) (*GlobalAccount, error) {
	account := &GlobalAccount{}
	if err := bin.NewBorshDecoder(data).Decode(account); err != nil {
		return nil, fmt.Errorf("failed to decode global account (%d bytes): %w", len(data), err)
	}
	if account.InitialRealTokenReserves > account.InitialVirtualTokenReserves {
		return nil, fmt.Errorf("%w: initial real token reserves %d exceed virtual %d",
			ErrCorruptGlobalAccount, account.InitialRealTokenReserves, account.InitialVirtualTokenReserves)
	}
	return account, nil
}

// GetInitialBuyPrice returns the number of tokens received for amount lamports
// on a curve that has not traded yet. The result never exceeds InitialRealTokenReserves.
func (g *GlobalAccount) GetInitialBuyPrice(amount uint64) uint64 {
	if amount == 0 {
		return 0
	}
	return constantProductTokensOut(
		g.InitialVirtualSolReserves,
		g.InitialVirtualTokenReserves,
		g.InitialRealTokenReserves,
		amount,
	)
}

// constantProductTokensOut computes vt - (vs*vt/(vs+amount) + 1), capped at realTokens.
// The +1 biases the subtracted term up so the curve never loses to rounding.
func constantProductTokensOut(virtualSol, virtualToken, realToken, amount uint64) uint64 {
	vt := uint128.From64(virtualToken)
	product := uint128.From64(virtualSol).Mul64(virtualToken)
	newVirtualSol := uint128.From64(virtualSol).Add64(amount)
	quotient := product.Div(newVirtualSol).Add64(1)

	// only reachable with zero virtual token reserves
	if quotient.Cmp(vt) > 0 {
		return 0
	}
	tokensOut := vt.Sub(quotient)
	if tokensOut.Cmp64(realToken) >= 0 {
		return realToken
	}
	return tokensOut.Lo
}

// FetchGlobalAccount fetches and deserializes the global account data
func FetchGlobalAccount(ctx context.Context, client AccountReader, logger *zap.Logger) (*GlobalAccount, error) {
	globalAddr := GetGlobalPDA()
	logger.Debug("Fetching global account data", zap.String("address", globalAddr.String()))

	data, owner, err := client.GetAccountData(ctx, globalAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to get global account: %w", err)
	}

	if !owner.Equals(PumpFunProgramID) {
		return nil, fmt.Errorf("global account has incorrect owner: expected %s, got %s",
			PumpFunProgramID.String(), owner.String())
	}

	account, err := DecodeGlobalAccount(data)
	if err != nil {
		return nil, err
	}

	logger.Debug("Global account data parsed successfully",
		zap.Bool("initialized", account.Initialized),
		zap.String("authority", account.Authority.String()),
		zap.String("fee_recipient", account.FeeRecipient.String()),
		zap.Uint64("fee_basis_points", account.FeeBasisPoints))

	return account, nil
}
