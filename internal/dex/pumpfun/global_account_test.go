package pumpfun

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testGlobal() *GlobalAccount {
	return &GlobalAccount{
		Initialized:                 true,
		Authority:                   solana.NewWallet().PublicKey(),
		FeeRecipient:                solana.NewWallet().PublicKey(),
		InitialVirtualTokenReserves: 1000,
		InitialVirtualSolReserves:   1000,
		InitialRealTokenReserves:    500,
		TokenTotalSupply:            1000,
		FeeBasisPoints:              250,
		EnableMigrate:               true,
		PoolMigrationFee:            100,
	}
}

func largeGlobal() *GlobalAccount {
	g := testGlobal()
	g.InitialVirtualTokenReserves = math.MaxUint64
	g.InitialVirtualSolReserves = math.MaxUint64
	g.InitialRealTokenReserves = math.MaxUint64 / 2
	g.TokenTotalSupply = math.MaxUint64
	return g
}

func encodeBorsh(t *testing.T, v any) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, bin.NewBorshEncoder(buf).Encode(v))
	return buf.Bytes()
}

func TestGetInitialBuyPrice(t *testing.T) {
	global := testGlobal()

	assert.Equal(t, uint64(0), global.GetInitialBuyPrice(0))

	// 1000*1000/1100 = 909, +1 = 910, 1000-910 = 90
	assert.Equal(t, uint64(90), global.GetInitialBuyPrice(100))

	price := global.GetInitialBuyPrice(1)
	assert.LessOrEqual(t, price, global.InitialRealTokenReserves)
}

func TestGetInitialBuyPrice_CappedByRealReserves(t *testing.T) {
	global := testGlobal()
	global.InitialRealTokenReserves = 100

	assert.Equal(t, uint64(100), global.GetInitialBuyPrice(1000))
}

func TestGetInitialBuyPrice_LargeReserves(t *testing.T) {
	global := largeGlobal()

	price := global.GetInitialBuyPrice(math.MaxUint64)
	assert.Equal(t, global.InitialRealTokenReserves, price)

	price = global.GetInitialBuyPrice(math.MaxUint64 / 2)
	assert.Greater(t, price, uint64(0))
	assert.LessOrEqual(t, price, global.InitialRealTokenReserves)
}

func TestGetInitialBuyPrice_EdgeReserves(t *testing.T) {
	global := largeGlobal()
	global.InitialVirtualSolReserves = math.MaxUint64 - 1000
	global.InitialVirtualTokenReserves = math.MaxUint64 - 1000
	global.InitialRealTokenReserves = math.MaxUint64 / 4

	for _, amount := range []uint64{math.MaxUint64 - 1, math.MaxUint64 - 1000} {
		price := global.GetInitialBuyPrice(amount)
		assert.Greater(t, price, uint64(0))
		assert.LessOrEqual(t, price, global.InitialRealTokenReserves)
	}
}

func TestGetInitialBuyPrice_Monotonic(t *testing.T) {
	global := testGlobal()
	global.InitialVirtualTokenReserves = 1_073_000_000_000_000
	global.InitialVirtualSolReserves = 30_000_000_000
	global.InitialRealTokenReserves = 793_100_000_000_000

	prev := uint64(0)
	for _, amount := range []uint64{1, 10, 1_000, 1_000_000, 1_000_000_000, 100_000_000_000, math.MaxUint64} {
		price := global.GetInitialBuyPrice(amount)
		assert.GreaterOrEqual(t, price, prev, "amount %d", amount)
		assert.LessOrEqual(t, price, global.InitialRealTokenReserves)
		prev = price
	}
	assert.Equal(t, global.InitialRealTokenReserves, prev)
}

func TestGetInitialBuyPrice_ZeroVirtualTokens(t *testing.T) {
	global := testGlobal()
	global.InitialVirtualTokenReserves = 0
	global.InitialRealTokenReserves = 0

	assert.Equal(t, uint64(0), global.GetInitialBuyPrice(1_000))
}

func TestDecodeGlobalAccount(t *testing.T) {
	global := testGlobal()
	global.FeeRecipients[3] = solana.NewWallet().PublicKey()

	data := encodeBorsh(t, global)

	decoded, err := DecodeGlobalAccount(data)
	require.NoError(t, err)
	assert.Equal(t, global, decoded)

	t.Run("trailing bytes ignored", func(t *testing.T) {
		decoded, err := DecodeGlobalAccount(append(bytes.Clone(data), 1, 2, 3))
		require.NoError(t, err)
		assert.Equal(t, global.FeeRecipient, decoded.FeeRecipient)
	})

	t.Run("short data", func(t *testing.T) {
		_, err := DecodeGlobalAccount(data[:40])
		assert.Error(t, err)
	})

	t.Run("real above virtual", func(t *testing.T) {
		corrupt := testGlobal()
		corrupt.InitialRealTokenReserves = corrupt.InitialVirtualTokenReserves + 1
		_, err := DecodeGlobalAccount(encodeBorsh(t, corrupt))
		assert.ErrorIs(t, err, ErrCorruptGlobalAccount)
	})
}

type fakeAccountReader struct {
	accounts map[solana.PublicKey]fakeAccount
	err      error
}

type fakeAccount struct {
	data  []byte
	owner solana.PublicKey
}

func (f *fakeAccountReader) GetAccountData(_ context.Context, pubkey solana.PublicKey) ([]byte, solana.PublicKey, error) {
	if f.err != nil {
		return nil, solana.PublicKey{}, f.err
	}
	acc, ok := f.accounts[pubkey]
	if !ok {
		return nil, solana.PublicKey{}, errAccountMissing
	}
	return acc.data, acc.owner, nil
}

func TestFetchGlobalAccount(t *testing.T) {
	logger := zaptest.NewLogger(t)
	global := testGlobal()

	reader := &fakeAccountReader{accounts: map[solana.PublicKey]fakeAccount{
		GetGlobalPDA(): {data: encodeBorsh(t, global), owner: PumpFunProgramID},
	}}
	got, err := FetchGlobalAccount(context.Background(), reader, logger)
	require.NoError(t, err)
	assert.Equal(t, global.FeeRecipient, got.FeeRecipient)

	reader.accounts[GetGlobalPDA()] = fakeAccount{data: encodeBorsh(t, global), owner: solana.SystemProgramID}
	_, err = FetchGlobalAccount(context.Background(), reader, logger)
	assert.ErrorContains(t, err, "incorrect owner")

	reader.err = errors.New("rpc down")
	_, err = FetchGlobalAccount(context.Background(), reader, logger)
	assert.ErrorContains(t, err, "rpc down")
}
