// =============================
// File: internal/dex/pumpfun/events.go
// =============================
package pumpfun

import (
	"github.com/gagliardetto/solana-go"
)

// EventKind identifies one of the event shapes emitted by the program.
type EventKind uint8

const (
	KindCreate EventKind = iota + 1
	KindTrade
	KindComplete
	KindSetParams
	KindUnhandled
	KindUnknown
)

func (k EventKind) String() string {
	switch k {
	case KindCreate:
		return "CreateEvent"
	case KindTrade:
		return "TradeEvent"
	case KindComplete:
		return "CompleteEvent"
	case KindSetParams:
		return "SetParamsEvent"
	case KindUnhandled:
		return "Unhandled"
	case KindUnknown:
		return "Unknown"
	default:
		return "Invalid"
	}
}

// Event is a decoded program event. The set of implementations is closed:
// CreateEvent, TradeEvent, CompleteEvent, SetParamsEvent, UnhandledEvent, UnknownEvent.
type Event interface {
	Kind() EventKind
	isEvent()
}

// CreateEvent is emitted when a new token and its bonding curve are created.
type CreateEvent struct {
	Name                 string           `json:"name"`
	Symbol               string           `json:"symbol"`
	URI                  string           `json:"uri"`
	Mint                 solana.PublicKey `json:"mint"`
	BondingCurve         solana.PublicKey `json:"bonding_curve"`
	User                 solana.PublicKey `json:"user"`
	Creator              solana.PublicKey `json:"creator"`
	Timestamp            int64            `json:"timestamp"`
	VirtualTokenReserves uint64           `json:"virtual_token_reserves"`
	VirtualSolReserves   uint64           `json:"virtual_sol_reserves"`
	RealTokenReserves    uint64           `json:"real_token_reserves"`
	TokenTotalSupply     uint64           `json:"token_total_supply"`
}

// TradeEvent is emitted on every buy and sell against a curve.
type TradeEvent struct {
	Mint                  solana.PublicKey `json:"mint"`
	SolAmount             uint64           `json:"sol_amount"`
	TokenAmount           uint64           `json:"token_amount"`
	IsBuy                 bool             `json:"is_buy"`
	User                  solana.PublicKey `json:"user"`
	Timestamp             int64            `json:"timestamp"`
	VirtualSolReserves    uint64           `json:"virtual_sol_reserves"`
	VirtualTokenReserves  uint64           `json:"virtual_token_reserves"`
	RealSolReserves       uint64           `json:"real_sol_reserves"`
	RealTokenReserves     uint64           `json:"real_token_reserves"`
	FeeRecipient          solana.PublicKey `json:"fee_recipient"`
	FeeBasisPoints        uint64           `json:"fee_basis_points"`
	Fee                   uint64           `json:"fee"`
	Creator               solana.PublicKey `json:"creator"`
	CreatorFeeBasisPoints uint64           `json:"creator_fee_basis_points"`
	CreatorFee            uint64           `json:"creator_fee"`
	TrackVolume           bool             `json:"track_volume"`
	TotalUnclaimedTokens  uint64           `json:"total_unclaimed_tokens"`
	TotalClaimedTokens    uint64           `json:"total_claimed_tokens"`
	CurrentSolVolume      uint64           `json:"current_sol_volume"`
	LastUpdateTimestamp   int64            `json:"last_update_timestamp"`
}

// CompleteEvent is emitted when a curve sells its last real token.
type CompleteEvent struct {
	User         solana.PublicKey `json:"user"`
	Mint         solana.PublicKey `json:"mint"`
	BondingCurve solana.PublicKey `json:"bonding_curve"`
	Timestamp    int64            `json:"timestamp"`
}

// SetParamsEvent is emitted when the authority updates the global parameters.
type SetParamsEvent struct {
	InitialVirtualTokenReserves uint64              `json:"initial_virtual_token_reserves"`
	InitialVirtualSolReserves   uint64              `json:"initial_virtual_sol_reserves"`
	InitialRealTokenReserves    uint64              `json:"initial_real_token_reserves"`
	FinalRealSolReserves        uint64              `json:"final_real_sol_reserves"`
	TokenTotalSupply            uint64              `json:"token_total_supply"`
	FeeBasisPoints              uint64              `json:"fee_basis_points"`
	WithdrawAuthority           solana.PublicKey    `json:"withdraw_authority"`
	EnableMigrate               bool                `json:"enable_migrate"`
	PoolMigrationFee            uint64              `json:"pool_migration_fee"`
	CreatorFeeBasisPoints       uint64              `json:"creator_fee_basis_points"`
	FeeRecipients               [8]solana.PublicKey `json:"fee_recipients"`
	Timestamp                   int64               `json:"timestamp"`
	SetCreatorAuthority         solana.PublicKey    `json:"set_creator_authority"`
	AdminSetCreatorAuthority    solana.PublicKey    `json:"admin_set_creator_authority"`
}

// UnhandledEvent carries a payload whose discriminator belongs to the program
// but whose layout is not modeled.
type UnhandledEvent struct {
	Signature string `json:"signature"`
	Data      []byte `json:"data"`
}

// UnknownEvent carries a payload with an unrecognized discriminator.
type UnknownEvent struct {
	Signature string `json:"signature"`
	Data      []byte `json:"data"`
}

func (CreateEvent) Kind() EventKind    { return KindCreate }
func (TradeEvent) Kind() EventKind     { return KindTrade }
func (CompleteEvent) Kind() EventKind  { return KindComplete }
func (SetParamsEvent) Kind() EventKind { return KindSetParams }
func (UnhandledEvent) Kind() EventKind { return KindUnhandled }
func (UnknownEvent) Kind() EventKind   { return KindUnknown }

func (CreateEvent) isEvent()    {}
func (TradeEvent) isEvent()     {}
func (CompleteEvent) isEvent()  {}
func (SetParamsEvent) isEvent() {}
func (UnhandledEvent) isEvent() {}
func (UnknownEvent) isEvent()   {}

// EventMint returns the mint an event refers to, if any.
func EventMint(ev Event) (solana.PublicKey, bool) {
	switch e := ev.(type) {
	case CreateEvent:
		return e.Mint, true
	case TradeEvent:
		return e.Mint, true
	case CompleteEvent:
		return e.Mint, true
	default:
		return solana.PublicKey{}, false
	}
}
