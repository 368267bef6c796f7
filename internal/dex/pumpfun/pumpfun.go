// ==============================================
// File: internal/dex/pumpfun/pumpfun.go
// ==============================================

package pumpfun

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/blockchain"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/blockchain/computebudget"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/blockchain/solbc"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/wallet"
	"go.uber.org/zap"
)

// ErrNothingToSell is returned when a sell resolves to a zero token amount.
var ErrNothingToSell = errors.New("nothing to sell")

// TradeOptions tunes a single buy or sell. Nil fields fall back to client defaults.
type TradeOptions struct {
	TrackVolume         *bool
	SlippageBasisPoints *uint64
	PriorityFee         *blockchain.PriorityFee
}

// Client is the Pump.fun trading client.
type Client struct {
	payer     *wallet.Wallet
	chain     ChainClient
	cluster   blockchain.Cluster
	uploader  *MetadataUploader
	createATA bool
	closeATA  bool
	logger    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMetadataUploader overrides the uploader used by Create and CreateAndBuy.
func WithMetadataUploader(u *MetadataUploader) Option {
	return func(c *Client) { c.uploader = u }
}

// WithCreateATA toggles the idempotent create-ATA instruction ahead of every buy.
func WithCreateATA(enabled bool) Option {
	return func(c *Client) { c.createATA = enabled }
}

// WithCloseATA closes the payer's token account when a sell empties it.
func WithCloseATA(enabled bool) Option {
	return func(c *Client) { c.closeATA = enabled }
}

// NewClient creates a trading client that signs with payer.
func NewClient(payer *wallet.Wallet, chain ChainClient, cluster blockchain.Cluster, logger *zap.Logger, opts ...Option) *Client {
	logger = logger.Named("pumpfun")
	c := &Client{
		payer:     payer,
		chain:     chain,
		cluster:   cluster,
		createATA: true,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.uploader == nil {
		c.uploader = NewMetadataUploader("", logger)
	}
	return c
}

// Payer returns the signing wallet's public key.
func (c *Client) Payer() solana.PublicKey {
	return c.payer.PublicKey
}

// GetGlobalAccount loads the program's global configuration.
func (c *Client) GetGlobalAccount(ctx context.Context) (*GlobalAccount, error) {
	return FetchGlobalAccount(ctx, c.chain, c.logger)
}

// GetBondingCurveAccount loads the curve for mint.
func (c *Client) GetBondingCurveAccount(ctx context.Context, mint solana.PublicKey) (*BondingCurveAccount, error) {
	return FetchBondingCurveAccount(ctx, c.chain, mint, c.logger)
}

// BuyInstructions builds the instructions to spend solAmount lamports on mint.
// A mint without a curve yet is priced from the global initial reserves.
func (c *Client) BuyInstructions(ctx context.Context, mint solana.PublicKey, solAmount uint64, opts TradeOptions) ([]solana.Instruction, error) {
	global, err := c.GetGlobalAccount(ctx)
	if err != nil {
		return nil, err
	}

	var (
		tokenAmount uint64
		creator     = c.payer.PublicKey
	)
	curve, err := c.GetBondingCurveAccount(ctx, mint)
	switch {
	case errors.Is(err, ErrBondingCurveNotFound):
		tokenAmount = global.GetInitialBuyPrice(solAmount)
	case err != nil:
		return nil, err
	default:
		tokenAmount, err = curve.GetBuyPrice(solAmount)
		if err != nil {
			return nil, err
		}
		creator = curve.Creator
	}

	return c.BuyInstructionsPrepared(mint, creator, solAmount, tokenAmount, global, opts)
}

// BuyInstructionsPrepared builds buy instructions from already known state, without RPC.
func (c *Client) BuyInstructionsPrepared(mint, creator solana.PublicKey, solAmount, tokenAmount uint64, global *GlobalAccount, opts TradeOptions) ([]solana.Instruction, error) {
	maxSolCost := CalculateWithSlippageBuy(solAmount, slippageOrDefault(opts.SlippageBasisPoints))

	c.logger.Debug("Calculated buy parameters",
		zap.String("mint", mint.String()),
		zap.Uint64("sol_amount", solAmount),
		zap.Uint64("token_amount", tokenAmount),
		zap.Uint64("max_sol_cost", maxSolCost))

	var instructions []solana.Instruction
	if c.createATA {
		instructions = append(instructions,
			wallet.CreateAssociatedTokenAccountIdempotentInstruction(c.payer.PublicKey, c.payer.PublicKey, mint))
	}

	buyIx, err := BuildBuyInstruction(c.payer.PublicKey, mint, global.FeeRecipient, creator, BuyArgs{
		Amount:      tokenAmount,
		MaxSolCost:  maxSolCost,
		TrackVolume: opts.TrackVolume,
	})
	if err != nil {
		return nil, err
	}
	return append(instructions, buyIx), nil
}

// SellInstructions builds the instructions to sell tokenAmount of mint.
// A nil amount sells the whole balance of the payer's token account.
func (c *Client) SellInstructions(ctx context.Context, mint solana.PublicKey, tokenAmount *uint64, opts TradeOptions) ([]solana.Instruction, error) {
	ata, err := c.payer.GetATA(mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive associated token account: %w", err)
	}

	var (
		balance    uint64
		hasBalance bool
	)
	if tokenAmount == nil || c.closeATA {
		balance, err = c.chain.GetTokenBalance(ctx, ata)
		if err != nil {
			return nil, fmt.Errorf("failed to get token balance: %w", err)
		}
		hasBalance = true
	}

	amount := balance
	if tokenAmount != nil {
		amount = *tokenAmount
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: mint %s", ErrNothingToSell, mint.String())
	}

	global, err := c.GetGlobalAccount(ctx)
	if err != nil {
		return nil, err
	}
	curve, err := c.GetBondingCurveAccount(ctx, mint)
	if err != nil {
		return nil, err
	}
	expectedSol, err := curve.GetSellPrice(amount, global.FeeBasisPoints)
	if err != nil {
		return nil, err
	}

	closeATA := c.closeATA && hasBalance && balance == amount
	return c.SellInstructionsPrepared(mint, curve.Creator, expectedSol, amount, global, closeATA, opts)
}

// SellInstructionsPrepared builds sell instructions from already known state, without RPC.
// expectedSol is the fee-adjusted proceeds before slippage.
func (c *Client) SellInstructionsPrepared(mint, creator solana.PublicKey, expectedSol, tokenAmount uint64, global *GlobalAccount, closeATA bool, opts TradeOptions) ([]solana.Instruction, error) {
	minSolOutput := CalculateWithSlippageSell(expectedSol, slippageOrDefault(opts.SlippageBasisPoints))

	c.logger.Debug("Calculated sell parameters",
		zap.String("mint", mint.String()),
		zap.Uint64("token_amount", tokenAmount),
		zap.Uint64("expected_sol", expectedSol),
		zap.Uint64("min_sol_output", minSolOutput))

	sellIx, err := BuildSellInstruction(c.payer.PublicKey, mint, global.FeeRecipient, creator, SellArgs{
		Amount:       tokenAmount,
		MinSolOutput: minSolOutput,
	})
	if err != nil {
		return nil, err
	}
	instructions := []solana.Instruction{sellIx}

	if closeATA {
		ata, err := c.payer.GetATA(mint)
		if err != nil {
			return nil, fmt.Errorf("failed to derive associated token account: %w", err)
		}
		closeIx, err := token.NewCloseAccountInstruction(
			ata,
			c.payer.PublicKey,
			c.payer.PublicKey,
			[]solana.PublicKey{},
		).ValidateAndBuild()
		if err != nil {
			return nil, fmt.Errorf("failed to build close account instruction: %w", err)
		}
		instructions = append(instructions, closeIx)
	}
	return instructions, nil
}

// CreateInstruction builds the create instruction for an uploaded metadata document.
func (c *Client) CreateInstruction(mint solana.PublicKey, ipfs *TokenMetadataResponse) (solana.Instruction, error) {
	return BuildCreateInstruction(c.payer.PublicKey, mint, CreateArgs{
		Name:    ipfs.Metadata.Name,
		Symbol:  ipfs.Metadata.Symbol,
		URI:     ipfs.MetadataURI,
		Creator: c.payer.PublicKey,
	})
}

// Buy spends solAmount lamports on mint and waits for confirmation.
func (c *Client) Buy(ctx context.Context, mint solana.PublicKey, solAmount uint64, opts TradeOptions) (solana.Signature, error) {
	buyIxs, err := c.BuyInstructions(ctx, mint, solAmount, opts)
	if err != nil {
		return solana.Signature{}, err
	}
	instructions := append(c.priorityFeeInstructions(opts), buyIxs...)

	c.logger.Info("Buying tokens",
		zap.String("mint", mint.String()),
		zap.Uint64("sol_amount", solAmount))
	return c.sendAndConfirm(ctx, "buy", instructions)
}

// Sell sells tokenAmount of mint (nil sells everything) and waits for confirmation.
func (c *Client) Sell(ctx context.Context, mint solana.PublicKey, tokenAmount *uint64, opts TradeOptions) (solana.Signature, error) {
	sellIxs, err := c.SellInstructions(ctx, mint, tokenAmount, opts)
	if err != nil {
		return solana.Signature{}, err
	}
	instructions := append(c.priorityFeeInstructions(opts), sellIxs...)

	c.logger.Info("Selling tokens", zap.String("mint", mint.String()))
	return c.sendAndConfirm(ctx, "sell", instructions)
}

// Create uploads metadata and creates a new token with its bonding curve.
func (c *Client) Create(ctx context.Context, mint *wallet.Wallet, meta CreateTokenMetadata, opts TradeOptions) (solana.Signature, error) {
	ipfs, err := c.uploader.Upload(ctx, meta)
	if err != nil {
		return solana.Signature{}, err
	}
	createIx, err := c.CreateInstruction(mint.PublicKey, ipfs)
	if err != nil {
		return solana.Signature{}, err
	}
	instructions := append(c.priorityFeeInstructions(opts), createIx)

	c.logger.Info("Creating token",
		zap.String("mint", mint.PublicKey.String()),
		zap.String("symbol", ipfs.Metadata.Symbol),
		zap.String("uri", ipfs.MetadataURI))
	return c.sendAndConfirm(ctx, "create", instructions, mint)
}

// CreateAndBuy creates a token and buys solAmount worth of it in one transaction.
func (c *Client) CreateAndBuy(ctx context.Context, mint *wallet.Wallet, meta CreateTokenMetadata, solAmount uint64, opts TradeOptions) (solana.Signature, error) {
	ipfs, err := c.uploader.Upload(ctx, meta)
	if err != nil {
		return solana.Signature{}, err
	}
	createIx, err := c.CreateInstruction(mint.PublicKey, ipfs)
	if err != nil {
		return solana.Signature{}, err
	}
	buyIxs, err := c.BuyInstructions(ctx, mint.PublicKey, solAmount, opts)
	if err != nil {
		return solana.Signature{}, err
	}

	instructions := append(c.priorityFeeInstructions(opts), createIx)
	instructions = append(instructions, buyIxs...)

	c.logger.Info("Creating token with initial buy",
		zap.String("mint", mint.PublicKey.String()),
		zap.Uint64("sol_amount", solAmount))
	return c.sendAndConfirm(ctx, "create_and_buy", instructions, mint)
}

// PrepareTransaction signs instructions (priority fee first) against a caller-supplied
// blockhash. Nothing is sent.
func (c *Client) PrepareTransaction(instructions []solana.Instruction, blockhash solana.Hash, opts TradeOptions, signers ...*wallet.Wallet) (*solana.Transaction, error) {
	all := append(c.priorityFeeInstructions(opts), instructions...)
	return c.buildTransaction(all, blockhash, signers...)
}

// SendPrepared sends a transaction from PrepareTransaction and waits for confirmation.
func (c *Client) SendPrepared(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return c.confirm(ctx, "prepared", tx)
}

func (c *Client) priorityFeeInstructions(opts TradeOptions) []solana.Instruction {
	fee := c.cluster.PriorityFee
	if opts.PriorityFee != nil {
		fee = *opts.PriorityFee
	}
	return computebudget.BuildPriorityFeeInstructions(fee)
}

func (c *Client) buildTransaction(instructions []solana.Instruction, blockhash solana.Hash, signers ...*wallet.Wallet) (*solana.Transaction, error) {
	tx, err := solana.NewTransaction(
		instructions,
		blockhash,
		solana.TransactionPayer(c.payer.PublicKey),
	)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	if err := c.payer.SignTransaction(tx, signers...); err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return tx, nil
}

// sendAndConfirm создает, подписывает, отправляет и ожидает подтверждения транзакции.
func (c *Client) sendAndConfirm(ctx context.Context, op string, instructions []solana.Instruction, signers ...*wallet.Wallet) (solana.Signature, error) {
	blockhash, err := c.chain.GetRecentBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("get recent blockhash: %w", err)
	}
	tx, err := c.buildTransaction(instructions, blockhash, signers...)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.confirm(ctx, op, tx)
}

func (c *Client) confirm(ctx context.Context, op string, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.chain.SendAndConfirm(ctx, tx, c.cluster.Commitment)
	if err != nil {
		c.logger.Warn("Transaction failed",
			zap.String("operation", op),
			zap.String("signature", sig.String()),
			zap.Error(err))
		return sig, classifySendError(err)
	}
	c.logger.Info("Transaction confirmed",
		zap.String("operation", op),
		zap.String("signature", sig.String()))
	return sig, nil
}

// classifySendError maps program errors that callers act on to package sentinels.
func classifySendError(err error) error {
	var simErr *solbc.SimulationError
	if errors.As(err, &simErr) && simErr.Anchor != nil && simErr.Anchor.Name == "BondingCurveComplete" {
		return fmt.Errorf("%w: %w", ErrBondingCurveComplete, err)
	}
	return err
}
