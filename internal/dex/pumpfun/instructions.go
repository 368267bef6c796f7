// ==============================================
// File: internal/dex/pumpfun/instructions.go
// ==============================================
package pumpfun

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Instruction discriminators
var (
	BuyDiscriminator    = []byte{102, 6, 61, 18, 1, 218, 235, 234}
	SellDiscriminator   = []byte{51, 230, 133, 164, 1, 127, 131, 173}
	CreateDiscriminator = []byte{24, 30, 200, 40, 5, 28, 7, 119}
)

// BuyArgs are the arguments of the buy instruction.
type BuyArgs struct {
	Amount      uint64 // tokens to receive
	MaxSolCost  uint64 // lamports
	TrackVolume *bool  // nil leaves the program default
}

// Data serializes the buy instruction data.
func (a BuyArgs) Data() ([]byte, error) {
	buf := bytes.NewBuffer(append([]byte(nil), BuyDiscriminator...))
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint64(a.Amount, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(a.MaxSolCost, bin.LE); err != nil {
		return nil, err
	}
	// Option<bool>
	if a.TrackVolume == nil {
		if err := enc.WriteBool(false); err != nil {
			return nil, err
		}
	} else {
		if err := enc.WriteBool(true); err != nil {
			return nil, err
		}
		if err := enc.WriteBool(*a.TrackVolume); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// SellArgs are the arguments of the sell instruction.
type SellArgs struct {
	Amount       uint64
	MinSolOutput uint64
}

// Data serializes the sell instruction data.
func (a SellArgs) Data() ([]byte, error) {
	return encodeInstruction(SellDiscriminator, a)
}

// CreateArgs are the arguments of the create instruction.
type CreateArgs struct {
	Name    string
	Symbol  string
	URI     string
	Creator solana.PublicKey
}

// Data serializes the create instruction data.
func (a CreateArgs) Data() ([]byte, error) {
	return encodeInstruction(CreateDiscriminator, a)
}

func encodeInstruction(discriminator []byte, args any) ([]byte, error) {
	buf := bytes.NewBuffer(append([]byte(nil), discriminator...))
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("failed to encode instruction args: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildBuyInstruction builds a buy instruction for Pump.fun protocol
func BuildBuyInstruction(payer, mint, feeRecipient, creator solana.PublicKey, args BuyArgs) (solana.Instruction, error) {
	data, err := args.Data()
	if err != nil {
		return nil, fmt.Errorf("failed to encode buy instruction: %w", err)
	}

	bondingCurve := GetBondingCurvePDA(mint)
	associatedBondingCurve, err := GetAssociatedBondingCurve(mint)
	if err != nil {
		return nil, err
	}
	associatedUser, _, err := solana.FindAssociatedTokenAddress(payer, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get associated token account: %w", err)
	}

	// Account list must be in the exact order expected by the program
	insAccounts := []*solana.AccountMeta{
		{PublicKey: GetGlobalPDA(), IsSigner: false, IsWritable: false},
		{PublicKey: feeRecipient, IsSigner: false, IsWritable: true},
		{PublicKey: mint, IsSigner: false, IsWritable: false},
		{PublicKey: bondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: associatedBondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: associatedUser, IsSigner: false, IsWritable: true},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: GetCreatorVaultPDA(creator), IsSigner: false, IsWritable: true},
		{PublicKey: PumpFunEventAuth, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: GetGlobalVolumeAccumulatorPDA(), IsSigner: false, IsWritable: true},
		{PublicKey: GetUserVolumeAccumulatorPDA(payer), IsSigner: false, IsWritable: true},
		{PublicKey: GetFeeConfigPDA(), IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunFeeProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(PumpFunProgramID, insAccounts, data), nil
}

// BuildSellInstruction builds a sell instruction for Pump.fun protocol
func BuildSellInstruction(payer, mint, feeRecipient, creator solana.PublicKey, args SellArgs) (solana.Instruction, error) {
	data, err := args.Data()
	if err != nil {
		return nil, fmt.Errorf("failed to encode sell instruction: %w", err)
	}

	bondingCurve := GetBondingCurvePDA(mint)
	associatedBondingCurve, err := GetAssociatedBondingCurve(mint)
	if err != nil {
		return nil, err
	}
	associatedUser, _, err := solana.FindAssociatedTokenAddress(payer, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get associated token account: %w", err)
	}

	// Creator vault precedes the token program here, unlike buy.
	insAccounts := []*solana.AccountMeta{
		{PublicKey: GetGlobalPDA(), IsSigner: false, IsWritable: false},
		{PublicKey: feeRecipient, IsSigner: false, IsWritable: true},
		{PublicKey: mint, IsSigner: false, IsWritable: false},
		{PublicKey: bondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: associatedBondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: associatedUser, IsSigner: false, IsWritable: true},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: GetCreatorVaultPDA(creator), IsSigner: false, IsWritable: true},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunEventAuth, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: GetFeeConfigPDA(), IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunFeeProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(PumpFunProgramID, insAccounts, data), nil
}

// BuildCreateInstruction builds the instruction creating mint and its bonding curve.
// Both mint and payer must sign.
func BuildCreateInstruction(payer, mint solana.PublicKey, args CreateArgs) (solana.Instruction, error) {
	data, err := args.Data()
	if err != nil {
		return nil, fmt.Errorf("failed to encode create instruction: %w", err)
	}

	associatedBondingCurve, err := GetAssociatedBondingCurve(mint)
	if err != nil {
		return nil, err
	}

	insAccounts := []*solana.AccountMeta{
		{PublicKey: mint, IsSigner: true, IsWritable: true},
		{PublicKey: GetMintAuthorityPDA(), IsSigner: false, IsWritable: false},
		{PublicKey: GetBondingCurvePDA(mint), IsSigner: false, IsWritable: true},
		{PublicKey: associatedBondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: GetGlobalPDA(), IsSigner: false, IsWritable: false},
		{PublicKey: MPLTokenMetadataProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: GetMetadataPDA(mint), IsSigner: false, IsWritable: true},
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SPLAssociatedTokenAccountProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunEventAuth, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(PumpFunProgramID, insAccounts, data), nil
}
