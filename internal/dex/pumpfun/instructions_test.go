package pumpfun

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDAs(t *testing.T) {
	assert.Equal(t, "4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf", GetGlobalPDA().String())

	mint := solana.NewWallet().PublicKey()
	assert.Equal(t, GetBondingCurvePDA(mint), GetBondingCurvePDA(mint))
	assert.NotEqual(t, GetBondingCurvePDA(mint), GetBondingCurvePDA(solana.NewWallet().PublicKey()))

	assoc, err := GetAssociatedBondingCurve(mint)
	require.NoError(t, err)
	expected, _, err := solana.FindAssociatedTokenAddress(GetBondingCurvePDA(mint), mint)
	require.NoError(t, err)
	assert.Equal(t, expected, assoc)

	metadata, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(MetadataSeed), MPLTokenMetadataProgramID.Bytes(), mint.Bytes()},
		MPLTokenMetadataProgramID,
	)
	require.NoError(t, err)
	assert.Equal(t, metadata, GetMetadataPDA(mint))

	feeConfig, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(FeeConfigSeed), PumpFunProgramID.Bytes()},
		PumpFunFeeProgramID,
	)
	require.NoError(t, err)
	assert.Equal(t, feeConfig, GetFeeConfigPDA())
}

func TestBuyArgsData(t *testing.T) {
	yes := true
	no := false

	tests := []struct {
		name  string
		track *bool
		tail  []byte
	}{
		{"volume unset", nil, []byte{0}},
		{"volume tracked", &yes, []byte{1, 1}},
		{"volume untracked", &no, []byte{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := BuyArgs{Amount: 1_000, MaxSolCost: 2_000, TrackVolume: tt.track}.Data()
			require.NoError(t, err)

			require.Len(t, data, 8+16+len(tt.tail))
			assert.Equal(t, BuyDiscriminator, data[:8])
			assert.Equal(t, uint64(1_000), binary.LittleEndian.Uint64(data[8:16]))
			assert.Equal(t, uint64(2_000), binary.LittleEndian.Uint64(data[16:24]))
			assert.Equal(t, tt.tail, data[24:])
		})
	}
}

func TestSellArgsData(t *testing.T) {
	data, err := SellArgs{Amount: 5, MinSolOutput: 7}.Data()
	require.NoError(t, err)
	require.Len(t, data, 24)
	assert.Equal(t, SellDiscriminator, data[:8])
	assert.Equal(t, uint64(5), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(data[16:24]))
}

func TestCreateArgsData(t *testing.T) {
	creator := solana.NewWallet().PublicKey()
	data, err := CreateArgs{Name: "Name", Symbol: "SYM", URI: "u", Creator: creator}.Data()
	require.NoError(t, err)

	expected := append([]byte{}, CreateDiscriminator...)
	expected = append(expected, 4, 0, 0, 0, 'N', 'a', 'm', 'e')
	expected = append(expected, 3, 0, 0, 0, 'S', 'Y', 'M')
	expected = append(expected, 1, 0, 0, 0, 'u')
	expected = append(expected, creator.Bytes()...)
	assert.Equal(t, expected, data)
}

func TestBuildBuyInstruction(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	feeRecipient := solana.NewWallet().PublicKey()
	creator := solana.NewWallet().PublicKey()

	ix, err := BuildBuyInstruction(payer, mint, feeRecipient, creator, BuyArgs{Amount: 1, MaxSolCost: 2})
	require.NoError(t, err)
	assert.Equal(t, PumpFunProgramID, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 16)

	userATA, _, err := solana.FindAssociatedTokenAddress(payer, mint)
	require.NoError(t, err)

	assert.Equal(t, GetGlobalPDA(), accounts[0].PublicKey)
	assert.Equal(t, feeRecipient, accounts[1].PublicKey)
	assert.True(t, accounts[1].IsWritable)
	assert.Equal(t, mint, accounts[2].PublicKey)
	assert.Equal(t, GetBondingCurvePDA(mint), accounts[3].PublicKey)
	assert.Equal(t, userATA, accounts[5].PublicKey)
	assert.Equal(t, payer, accounts[6].PublicKey)
	assert.True(t, accounts[6].IsSigner)
	assert.Equal(t, GetCreatorVaultPDA(creator), accounts[9].PublicKey)
	assert.Equal(t, PumpFunEventAuth, accounts[10].PublicKey)
	assert.Equal(t, GetUserVolumeAccumulatorPDA(payer), accounts[13].PublicKey)
	assert.Equal(t, PumpFunFeeProgramID, accounts[15].PublicKey)

	signers := 0
	for _, acc := range accounts {
		if acc.IsSigner {
			signers++
		}
	}
	assert.Equal(t, 1, signers)
}

func TestBuildSellInstruction(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	creator := solana.NewWallet().PublicKey()

	ix, err := BuildSellInstruction(payer, mint, solana.NewWallet().PublicKey(), creator, SellArgs{Amount: 1, MinSolOutput: 1})
	require.NoError(t, err)

	accounts := ix.Accounts()
	require.Len(t, accounts, 14)
	assert.Equal(t, GetCreatorVaultPDA(creator), accounts[8].PublicKey)
	assert.Equal(t, solana.TokenProgramID, accounts[9].PublicKey)
	assert.Equal(t, GetFeeConfigPDA(), accounts[12].PublicKey)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, SellDiscriminator, data[:8])
}

func TestBuildCreateInstruction(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ix, err := BuildCreateInstruction(payer, mint, CreateArgs{Name: "n", Symbol: "s", URI: "u", Creator: payer})
	require.NoError(t, err)

	accounts := ix.Accounts()
	require.Len(t, accounts, 14)
	assert.Equal(t, mint, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)
	assert.Equal(t, GetMintAuthorityPDA(), accounts[1].PublicKey)
	assert.Equal(t, GetMetadataPDA(mint), accounts[6].PublicKey)
	assert.Equal(t, payer, accounts[7].PublicKey)
	assert.True(t, accounts[7].IsSigner)
	assert.Equal(t, solana.SysVarRentPubkey, accounts[11].PublicKey)
}
