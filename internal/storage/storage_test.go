package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/pumpfun-sdk/internal/dex/pumpfun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	rec := NewRecord("sig", 10, 1, pumpfun.TradeEvent{Mint: mint, SolAmount: 5}, nil, at)
	assert.Equal(t, "TradeEvent", rec.Kind)
	assert.Equal(t, mint.String(), rec.Mint)
	assert.Equal(t, 1, rec.Index)
	assert.False(t, rec.TxFailed)
	assert.Equal(t, time.UTC, rec.ReceivedAt.Location())

	rec = NewRecord("sig", 10, 0, pumpfun.UnknownEvent{Signature: "sig", Data: []byte{1}}, map[string]any{"err": 1}, at)
	assert.Equal(t, "Unknown", rec.Kind)
	assert.Empty(t, rec.Mint)
	assert.True(t, rec.TxFailed)
}

func TestJSONLSink_WritesOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONLWriter(&buf)

	mint := solana.NewWallet().PublicKey()
	at := time.Unix(1_700_000_000, 0)
	require.NoError(t, sink.Write(context.Background(), NewRecord("a", 1, 0, pumpfun.TradeEvent{Mint: mint, TokenAmount: 42, IsBuy: true}, nil, at)))
	require.NoError(t, sink.Write(context.Background(), NewRecord("b", 2, 0, pumpfun.CompleteEvent{Mint: mint}, nil, at)))
	require.NoError(t, sink.Close())

	scanner := bufio.NewScanner(&buf)
	var lines []map[string]any
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, "a", lines[0]["signature"])
	assert.Equal(t, "TradeEvent", lines[0]["kind"])
	event := lines[0]["event"].(map[string]any)
	assert.Equal(t, mint.String(), event["mint"])
	assert.EqualValues(t, 42, event["token_amount"])
	assert.Equal(t, true, event["is_buy"])

	assert.Equal(t, "CompleteEvent", lines[1]["kind"])
}

func TestJSONLSink_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "events.jsonl")

	sink, err := NewJSONLSink(path)
	require.NoError(t, err)
	rec := NewRecord("a", 1, 0, pumpfun.TradeEvent{}, nil, time.Now())
	require.NoError(t, sink.Write(context.Background(), rec))
	require.NoError(t, sink.Close())

	// reopening appends
	sink, err = NewJSONLSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.Write(context.Background(), rec))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
}

type failingSink struct {
	writes int
	err    error
}

func (f *failingSink) Write(context.Context, Record) error {
	f.writes++
	return f.err
}

func (f *failingSink) Close() error { return f.err }

func TestMultiSink(t *testing.T) {
	boom := errors.New("boom")
	ok := &failingSink{}
	bad := &failingSink{err: boom}
	multi := MultiSink{bad, ok}

	err := multi.Write(context.Background(), Record{Signature: "a"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, ok.writes)
	assert.Equal(t, 1, bad.writes)

	assert.ErrorIs(t, multi.Close(), boom)
	assert.NoError(t, MultiSink{}.Write(context.Background(), Record{}))
}
