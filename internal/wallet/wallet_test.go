package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	w, err := NewWallet(key.String())
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey)

	_, err = NewWallet("not-base58-0OIl")
	assert.Error(t, err)

	_, err = NewWallet(solana.NewWallet().PublicKey().String())
	assert.ErrorContains(t, err, "invalid private key length")
}

func TestLoad(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	dir := t.TempDir()

	b58 := filepath.Join(dir, "key.txt")
	require.NoError(t, os.WriteFile(b58, []byte(key.String()+"\n"), 0o600))

	w, err := Load(b58)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestGetATA(t *testing.T) {
	w := FromPrivateKey(solana.NewWallet().PrivateKey)
	mint := solana.NewWallet().PublicKey()

	expected, _, err := solana.FindAssociatedTokenAddress(w.PublicKey, mint)
	require.NoError(t, err)

	ata, err := w.GetATA(mint)
	require.NoError(t, err)
	assert.Equal(t, expected, ata)

	cached, err := w.GetATA(mint)
	require.NoError(t, err)
	assert.Equal(t, ata, cached)
}

func TestCreateAssociatedTokenAccountIdempotentInstruction(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ix := CreateAssociatedTokenAccountIdempotentInstruction(payer, payer, mint)
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, data)
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 6)
	assert.True(t, accounts[0].IsSigner)
	assert.Equal(t, mint, accounts[3].PublicKey)
}

func TestSignTransaction(t *testing.T) {
	payer := FromPrivateKey(solana.NewWallet().PrivateKey)
	mint := FromPrivateKey(solana.NewWallet().PrivateKey)

	ix := solana.NewInstruction(
		solana.SystemProgramID,
		[]*solana.AccountMeta{
			{PublicKey: payer.PublicKey, IsSigner: true, IsWritable: true},
			{PublicKey: mint.PublicKey, IsSigner: true, IsWritable: true},
		},
		[]byte{0},
	)
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{}, solana.TransactionPayer(payer.PublicKey))
	require.NoError(t, err)

	assert.Error(t, payer.SignTransaction(tx), "missing mint signer")
	require.NoError(t, payer.SignTransaction(tx, mint))
	assert.Len(t, tx.Signatures, 2)
}
