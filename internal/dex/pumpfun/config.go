// =============================
// File: internal/dex/pumpfun/config.go
// =============================
package pumpfun

import (
	"github.com/gagliardetto/solana-go"
)

// Known PumpFun protocol addresses
var (
	// Program ID for Pump.fun protocol
	PumpFunProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

	// Event authority for the Pump.fun protocol
	PumpFunEventAuth = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")

	// Pump.fun fee program, owner of the fee config account
	PumpFunFeeProgramID = solana.MustPublicKeyFromBase58("pfeeUxB6jkeY1Hxd7CsFCAjcbHA9rWtchMGdZ6VojVZ")

	// Metaplex token metadata program
	MPLTokenMetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
)

// PDA seeds
const (
	GlobalSeed                  = "global"
	MintAuthoritySeed           = "mint-authority"
	BondingCurveSeed            = "bonding-curve"
	MetadataSeed                = "metadata"
	CreatorVaultSeed            = "creator-vault"
	UserVolumeAccumulatorSeed   = "user_volume_accumulator"
	GlobalVolumeAccumulatorSeed = "global_volume_accumulator"
	FeeConfigSeed               = "fee_config"
)

const (
	// DefaultSlippageBasisPoints is used by trading helpers when the caller gives no tolerance.
	DefaultSlippageBasisPoints uint64 = 500

	// BasisPointsDenominator: 1 bp = 1/10000.
	BasisPointsDenominator uint64 = 10_000

	// Standard decimals for SOL and Pump.fun tokens
	SolDecimals   = 9
	TokenDecimals = 6

	// ProgramDataPrefix marks a program-emitted event payload in transaction logs.
	ProgramDataPrefix = "Program data: "

	// DefaultMetadataUploadURL is the pump.fun IPFS upload endpoint.
	DefaultMetadataUploadURL = "https://pump.fun/api/ipfs"
)
