package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMintAndAmount(t *testing.T) {
	mint, amount, err := parseMintAndAmount([]string{"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P", "1500"})
	require.NoError(t, err)
	assert.Equal(t, "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P", mint.String())
	require.NotNil(t, amount)
	assert.Equal(t, uint64(1500), *amount)

	_, amount, err = parseMintAndAmount([]string{"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"})
	require.NoError(t, err)
	assert.Nil(t, amount)

	_, _, err = parseMintAndAmount([]string{"not-a-mint"})
	assert.Error(t, err)

	_, _, err = parseMintAndAmount([]string{"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P", "-1"})
	assert.Error(t, err)
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"subscribe", "quote", "state", "pnl", "buy", "sell", "create"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	sub, _, err := root.Find([]string{"subscribe"})
	require.NoError(t, err)
	assert.NotNil(t, sub.Flags().Lookup("metrics-addr"))
	pnl, _, err := root.Find([]string{"pnl"})
	require.NoError(t, err)
	assert.NotNil(t, pnl.Flags().Lookup("keypair"))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"quote", "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"})
	assert.Error(t, root.Execute(), "quote requires an amount")
}
