package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/dex/pumpfun"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewStore_RequiresDSN(t *testing.T) {
	_, err := NewStore(context.Background(), "", 0, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestStore_InsertEvents(t *testing.T) {
	dsn := os.Getenv("PUMPFUN_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PUMPFUN_TEST_POSTGRES_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := NewStore(ctx, dsn, 2, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.EnsureSchema(ctx))

	sig := "test-" + uuid.NewString()
	mint := solana.NewWallet().PublicKey()
	now := time.Now()
	trade := storage.NewRecord(sig, 1, 0, pumpfun.TradeEvent{Mint: mint, SolAmount: 1}, nil, now)
	complete := storage.NewRecord(sig, 1, 1, pumpfun.CompleteEvent{Mint: mint}, nil, now)

	require.NoError(t, store.Write(ctx, trade))
	n, err := store.CountBySignature(ctx, sig)
	require.NoError(t, err)
	assert.Zero(t, n, "first record stays buffered")

	require.NoError(t, store.Write(ctx, complete))
	n, err = store.CountBySignature(ctx, sig)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// duplicates are ignored
	require.NoError(t, store.InsertEvents(ctx, []storage.Record{trade, complete}))
	n, err = store.CountBySignature(ctx, sig)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
