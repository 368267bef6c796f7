// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/blockchain"
	"go.uber.org/zap"
)

const (
	defaultMaxTries            = 3
	defaultConfirmTimeout      = 60 * time.Second
	defaultConfirmPollInterval = 500 * time.Millisecond
)

// Client – тонкий адаптер для взаимодействия с блокчейном Solana через solana-go.
type Client struct {
	rpc        *rpc.Client
	endpoint   string
	commitment rpc.CommitmentType
	txOpts     blockchain.TransactionOptions
	maxTries   uint
	logger     *zap.Logger
}

// NewClient создаёт новый клиент, принимая RPC URL и логгер через dependency injection.
func NewClient(rpcURL string, commitment rpc.CommitmentType, logger *zap.Logger) *Client {
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	return &Client{
		rpc:        rpc.New(rpcURL),
		endpoint:   rpcURL,
		commitment: commitment,
		txOpts:     blockchain.TransactionOptions{PreflightCommitment: commitment},
		maxTries:   defaultMaxTries,
		logger:     logger.Named("solbc-client"),
	}
}

// WithTransactionOptions задаёт опции отправки транзакций.
func (c *Client) WithTransactionOptions(opts blockchain.TransactionOptions) *Client {
	c.txOpts = opts
	return c
}

// retry выполняет операцию с экспоненциальным backoff. Ошибки, обёрнутые
// backoff.Permanent, не повторяются.
func retry[T any](ctx context.Context, c *Client, method string, op func() (T, error)) (T, error) {
	attempt := 0
	result, err := backoff.Retry(ctx, func() (T, error) {
		attempt++
		res, err := op()
		if err != nil {
			var perm *backoff.PermanentError
			if !errors.As(err, &perm) {
				c.logger.Warn("Retrying RPC call",
					zap.String("method", method),
					zap.Int("attempt", attempt),
					zap.Error(err))
			}
		}
		return res, err
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries),
	)
	if err != nil {
		var zero T
		return zero, NewRPCError(err, c.endpoint, method)
	}
	return result, nil
}

// GetAccountData получает данные аккаунта и его владельца.
// Отсутствующий аккаунт возвращает ошибку, совместимую с ErrAccountNotFound.
func (c *Client) GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, solana.PublicKey, error) {
	account, err := retry(ctx, c, "getAccountInfo", func() (*rpc.Account, error) {
		res, err := c.rpc.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
			Commitment: c.commitment,
			Encoding:   solana.EncodingBase64,
		})
		if err != nil {
			if errors.Is(err, rpc.ErrNotFound) {
				return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrAccountNotFound, pubkey.String()))
			}
			return nil, err
		}
		if res == nil || res.Value == nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrAccountNotFound, pubkey.String()))
		}
		return res.Value, nil
	})
	if err != nil {
		c.logger.Debug("GetAccountData error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return nil, solana.PublicKey{}, err
	}
	return account.Data.GetBinary(), account.Owner, nil
}

// AccountExists проверяет существование аккаунта.
func (c *Client) AccountExists(ctx context.Context, pubkey solana.PublicKey) (bool, error) {
	_, _, err := c.GetAccountData(ctx, pubkey)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrAccountNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check account existence: %w", err)
}

// GetTokenBalance получает баланс токенного аккаунта в минимальных единицах.
func (c *Client) GetTokenBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	res, err := retry(ctx, c, "getTokenAccountBalance", func() (*rpc.GetTokenAccountBalanceResult, error) {
		return c.rpc.GetTokenAccountBalance(ctx, account, c.commitment)
	})
	if err != nil {
		return 0, err
	}
	if res == nil || res.Value == nil {
		return 0, fmt.Errorf("%w: token account %s", ErrAccountNotFound, account.String())
	}
	amount, err := strconv.ParseUint(res.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token amount %q: %w", res.Value.Amount, err)
	}
	return amount, nil
}

// GetRecentBlockhash получает последний blockhash.
func (c *Client) GetRecentBlockhash(ctx context.Context) (solana.Hash, error) {
	res, err := retry(ctx, c, "getLatestBlockhash", func() (*rpc.GetLatestBlockhashResult, error) {
		return c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	})
	if err != nil {
		c.logger.Error("GetRecentBlockhash error", zap.Error(err))
		return solana.Hash{}, err
	}
	return res.Value.Blockhash, nil
}

// SendTransaction отправляет подписанную транзакцию с повторами.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := retry(ctx, c, "sendTransaction", func() (solana.Signature, error) {
		sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
			SkipPreflight:       c.txOpts.SkipPreflight,
			PreflightCommitment: c.txOpts.PreflightCommitment,
		})
		if err != nil {
			// Ошибка симуляции детерминирована, повтор не поможет.
			if txErr := AnalyzeSendError(err); txErr != nil {
				return solana.Signature{}, backoff.Permanent(txErr)
			}
			return solana.Signature{}, err
		}
		return sig, nil
	})
	if err != nil {
		c.logger.Error("SendTransaction error", zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

// WaitForTransactionConfirmation ожидает подтверждения транзакции (polling).
func (c *Client) WaitForTransactionConfirmation(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType) error {
	ticker := time.NewTicker(defaultConfirmPollInterval)
	defer ticker.Stop()
	timeout := time.After(defaultConfirmTimeout)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout:
			return fmt.Errorf("%w: %s", ErrConfirmationTimeout, signature.String())
		case <-ticker.C:
			statuses, err := c.rpc.GetSignatureStatuses(ctx, false, signature)
			if err != nil {
				c.logger.Warn("Error getting signature statuses", zap.Error(err))
				continue
			}
			if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
				continue
			}
			status := statuses.Value[0]
			if status.Err != nil {
				return fmt.Errorf("%w: %s: %v", ErrTransactionFailed, signature.String(), status.Err)
			}
			if reachedCommitment(status.ConfirmationStatus, commitment) {
				return nil
			}
		}
	}
}

func reachedCommitment(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	switch want {
	case rpc.CommitmentFinalized:
		return status == rpc.ConfirmationStatusFinalized
	case rpc.CommitmentProcessed:
		return status != ""
	default:
		return status == rpc.ConfirmationStatusConfirmed || status == rpc.ConfirmationStatusFinalized
	}
}

// SendAndConfirm отправляет транзакцию и ждёт заданного уровня подтверждения.
func (c *Client) SendAndConfirm(ctx context.Context, tx *solana.Transaction, commitment rpc.CommitmentType) (solana.Signature, error) {
	sig, err := c.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, err
	}

	c.logger.Debug("Transaction sent, awaiting confirmation",
		zap.String("signature", sig.String()),
		zap.String("commitment", string(commitment)))

	if err := c.WaitForTransactionConfirmation(ctx, sig, commitment); err != nil {
		return sig, err
	}
	return sig, nil
}
