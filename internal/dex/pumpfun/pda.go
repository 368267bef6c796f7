// =============================
// File: internal/dex/pumpfun/pda.go
// =============================
package pumpfun

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

func findProgramAddress(seeds [][]byte, programID solana.PublicKey) solana.PublicKey {
	addr, _, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		// fixed seeds, never exceeds the seed limits
		panic(fmt.Sprintf("pumpfun: failed to derive program address: %v", err))
	}
	return addr
}

// GetGlobalPDA returns the global configuration account address.
func GetGlobalPDA() solana.PublicKey {
	return findProgramAddress([][]byte{[]byte(GlobalSeed)}, PumpFunProgramID)
}

// GetMintAuthorityPDA returns the mint authority shared by all curve tokens.
func GetMintAuthorityPDA() solana.PublicKey {
	return findProgramAddress([][]byte{[]byte(MintAuthoritySeed)}, PumpFunProgramID)
}

// GetBondingCurvePDA returns the bonding curve account for a mint.
func GetBondingCurvePDA(mint solana.PublicKey) solana.PublicKey {
	return findProgramAddress([][]byte{[]byte(BondingCurveSeed), mint.Bytes()}, PumpFunProgramID)
}

// GetAssociatedBondingCurve returns the token account holding the curve's token float.
func GetAssociatedBondingCurve(mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(GetBondingCurvePDA(mint), mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive associated bonding curve: %w", err)
	}
	return ata, nil
}

// GetMetadataPDA returns the Metaplex metadata account for a mint.
func GetMetadataPDA(mint solana.PublicKey) solana.PublicKey {
	return findProgramAddress(
		[][]byte{[]byte(MetadataSeed), MPLTokenMetadataProgramID.Bytes(), mint.Bytes()},
		MPLTokenMetadataProgramID,
	)
}

// GetCreatorVaultPDA returns the vault collecting creator fees.
func GetCreatorVaultPDA(creator solana.PublicKey) solana.PublicKey {
	return findProgramAddress([][]byte{[]byte(CreatorVaultSeed), creator.Bytes()}, PumpFunProgramID)
}

// GetUserVolumeAccumulatorPDA returns the per-user volume tracking account.
func GetUserVolumeAccumulatorPDA(user solana.PublicKey) solana.PublicKey {
	return findProgramAddress([][]byte{[]byte(UserVolumeAccumulatorSeed), user.Bytes()}, PumpFunProgramID)
}

// GetGlobalVolumeAccumulatorPDA returns the program-wide volume tracking account.
func GetGlobalVolumeAccumulatorPDA() solana.PublicKey {
	return findProgramAddress([][]byte{[]byte(GlobalVolumeAccumulatorSeed)}, PumpFunProgramID)
}

// GetFeeConfigPDA returns the fee config account owned by the fee program.
func GetFeeConfigPDA() solana.PublicKey {
	return findProgramAddress([][]byte{[]byte(FeeConfigSeed), PumpFunProgramID.Bytes()}, PumpFunFeeProgramID)
}
